package importer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sewasangat/attendance/pkg/core/model"
	"github.com/sewasangat/attendance/pkg/db"
)

// mockMatchStore implements MatchStore
type mockMatchStore struct {
	byBadge    map[string]*model.Sewadar
	temporary  []model.Sewadar
	lookupErr  error
	triplesErr error
}

func (m *mockMatchStore) FindByBadgeNumber(ctx context.Context, badge string) (*model.Sewadar, error) {
	if m.lookupErr != nil {
		return nil, m.lookupErr
	}
	if s, ok := m.byBadge[badge]; ok {
		return s, nil
	}
	return nil, db.ErrNotFound
}

func (m *mockMatchStore) FindTemporaryByIdentity(ctx context.Context, name, guardian, centerCode string) ([]model.Sewadar, error) {
	if m.triplesErr != nil {
		return nil, m.triplesErr
	}
	var out []model.Sewadar
	for _, s := range m.temporary {
		if s.Name == name && s.GuardianName == guardian && s.CenterCode == centerCode {
			out = append(out, s)
		}
	}
	return out, nil
}

func importRow(badge, name, guardian string, status model.BadgeStatus) *ImportRow {
	return &ImportRow{Sewadar: model.Sewadar{
		BadgeNumber:  badge,
		Name:         name,
		GuardianName: guardian,
		CenterCode:   model.CenterCodeFromBadge(badge),
		BadgeStatus:  status,
	}}
}

func TestMatch_BadgeHitIsUpdate(t *testing.T) {
	store := &mockMatchStore{byBadge: map[string]*model.Sewadar{
		"HI1234GA0001": {ID: "id-1", BadgeNumber: "HI1234GA0001"},
	}}

	d, err := Match(context.Background(), store, importRow("HI1234GA0001", "John Doe", "Robert Doe", model.BadgeStatusTemporary))
	require.NoError(t, err)
	assert.Equal(t, OpUpdate, d.Op)
	assert.Equal(t, "id-1", d.ExistingID)
}

func TestMatch_NoHitIsCreate(t *testing.T) {
	store := &mockMatchStore{}

	d, err := Match(context.Background(), store, importRow("HI1234GA0001", "John Doe", "Robert Doe", model.BadgeStatusTemporary))
	require.NoError(t, err)
	assert.Equal(t, OpCreate, d.Op)
	assert.Empty(t, d.ExistingID)
}

func TestMatch_PromotionUpdatesTemporaryRecord(t *testing.T) {
	store := &mockMatchStore{
		temporary: []model.Sewadar{
			{ID: "tmp-1", Name: "John Doe", GuardianName: "Robert Doe", CenterCode: "1234", BadgeStatus: model.BadgeStatusTemporary},
		},
	}

	d, err := Match(context.Background(), store, importRow("HI1234GA0001", "John Doe", "Robert Doe", model.BadgeStatusPermanent))
	require.NoError(t, err)
	assert.Equal(t, OpUpdate, d.Op)
	assert.Equal(t, "tmp-1", d.ExistingID)
}

func TestMatch_PromotionSkippedForTemporaryRows(t *testing.T) {
	// The promotion path only applies to incoming PERMANENT rows; a matching
	// triple on a TEMPORARY row must not trigger it.
	store := &mockMatchStore{
		temporary: []model.Sewadar{
			{ID: "tmp-1", Name: "John Doe", GuardianName: "Robert Doe", CenterCode: "1234"},
		},
	}

	d, err := Match(context.Background(), store, importRow("HI1234GA0001", "John Doe", "Robert Doe", model.BadgeStatusTemporary))
	require.NoError(t, err)
	assert.Equal(t, OpCreate, d.Op)
}

func TestMatch_AmbiguousPromotionFailsSafeToCreate(t *testing.T) {
	store := &mockMatchStore{
		temporary: []model.Sewadar{
			{ID: "tmp-1", Name: "John Doe", GuardianName: "Robert Doe", CenterCode: "1234"},
			{ID: "tmp-2", Name: "John Doe", GuardianName: "Robert Doe", CenterCode: "1234"},
		},
	}

	d, err := Match(context.Background(), store, importRow("HI1234GA0001", "John Doe", "Robert Doe", model.BadgeStatusPermanent))
	require.NoError(t, err)
	assert.Equal(t, OpCreate, d.Op, "multiple candidates must never pick one")
}

func TestMatch_StoreFailurePropagates(t *testing.T) {
	store := &mockMatchStore{lookupErr: errors.New("connection refused")}

	_, err := Match(context.Background(), store, importRow("HI1234GA0001", "John Doe", "Robert Doe", model.BadgeStatusTemporary))
	assert.Error(t, err)
}
