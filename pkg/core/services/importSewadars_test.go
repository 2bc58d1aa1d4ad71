package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sewasangat/attendance/pkg/core/importer"
	"github.com/sewasangat/attendance/pkg/core/model"
	"github.com/sewasangat/attendance/pkg/db"
	"github.com/sewasangat/attendance/pkg/intake"
)

// memorySewadarStore implements importer.Store over a map, mirroring real
// store visibility: inserts are seen by later lookups in the same batch.
type memorySewadarStore struct {
	byID map[string]model.Sewadar
}

func newMemorySewadarStore() *memorySewadarStore {
	return &memorySewadarStore{byID: make(map[string]model.Sewadar)}
}

func (m *memorySewadarStore) FindByBadgeNumber(ctx context.Context, badge string) (*model.Sewadar, error) {
	for _, s := range m.byID {
		if s.BadgeNumber == badge {
			out := s
			return &out, nil
		}
	}
	return nil, db.ErrNotFound
}

func (m *memorySewadarStore) FindTemporaryByIdentity(ctx context.Context, name, guardian, centerCode string) ([]model.Sewadar, error) {
	var out []model.Sewadar
	for _, s := range m.byID {
		if s.BadgeStatus == model.BadgeStatusTemporary &&
			s.Name == name && s.GuardianName == guardian && s.CenterCode == centerCode {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memorySewadarStore) InsertSewadar(ctx context.Context, s *model.Sewadar) error {
	m.byID[s.ID] = *s
	return nil
}

func (m *memorySewadarStore) UpdateSewadarByID(ctx context.Context, id string, s *model.Sewadar) error {
	existing, ok := m.byID[id]
	if !ok {
		return db.ErrNotFound
	}
	updated := *s
	updated.ID = existing.ID
	m.byID[id] = updated
	return nil
}

func TestImportSewadars_CSV(t *testing.T) {
	csv := strings.Join([]string{
		"Badge_Number,Sewadar_Name,Father_Husband_Name,Gender,Badge_Status",
		"HI1234GA0001,John Doe,Robert Doe,MALE,ACTIVE",
		"HI1234GA0002,Jane Doe,Robert Doe,FEMALE,PERMANENT",
	}, "\n")

	store := newMemorySewadarStore()
	jobs := importer.NewMemoryJobStore()

	result, err := ImportSewadars(context.Background(), store, jobs, zap.NewNop(),
		"job-1", FormatCSV, strings.NewReader(csv))
	require.NoError(t, err)

	assert.Equal(t, 2, result.Created)
	assert.Empty(t, result.Errors)

	// "ACTIVE" is not a recognized status: the stored record is TEMPORARY,
	// with area and center codes derived from the badge number
	john, err := store.FindByBadgeNumber(context.Background(), "HI1234GA0001")
	require.NoError(t, err)
	assert.Equal(t, model.BadgeStatusTemporary, john.BadgeStatus)
	assert.Equal(t, "HI", john.AreaCode)
	assert.Equal(t, "1234", john.CenterCode)

	job, ok := jobs.Get("job-1")
	require.True(t, ok)
	assert.Equal(t, importer.StatusCompleted, job.Status)
}

func TestImportSewadars_UnreadableFileFailsJob(t *testing.T) {
	jobs := importer.NewMemoryJobStore()

	_, err := ImportSewadars(context.Background(), newMemorySewadarStore(), jobs, zap.NewNop(),
		"job-1", FormatCSV, strings.NewReader(""))
	require.Error(t, err)

	// pollers holding the job ID must see a terminal state, not a hang
	job, ok := jobs.Get("job-1")
	require.True(t, ok)
	assert.Equal(t, importer.StatusFailed, job.Status)
	assert.Contains(t, job.Message, "could not read file")
}

func TestImportSewadars_UnknownFormat(t *testing.T) {
	jobs := importer.NewMemoryJobStore()

	_, err := ImportSewadars(context.Background(), newMemorySewadarStore(), jobs, zap.NewNop(),
		"job-1", ImportFormat("pdf"), strings.NewReader("x"))
	assert.Error(t, err)
}

// mockSheetClient implements SheetRowsClient
type mockSheetClient struct {
	rows []intake.Row
	err  error
}

func (m *mockSheetClient) GetRows(spreadsheetID, tabName string) ([]intake.Row, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.rows, nil
}

func TestImportSewadarsFromSheet(t *testing.T) {
	client := &mockSheetClient{rows: []intake.Row{
		{Line: 2, Fields: map[string]string{
			importer.ColBadgeNumber: "HI1234GA0001",
			importer.ColName:        "John Doe",
		}},
	}}

	store := newMemorySewadarStore()
	jobs := importer.NewMemoryJobStore()

	result, err := ImportSewadarsFromSheet(context.Background(), store, jobs, client,
		zap.NewNop(), "job-1", "sheet-id", "Sewadars")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)
}

func TestImportSewadarsFromSheet_FetchFailure(t *testing.T) {
	client := &mockSheetClient{err: errors.New("quota exceeded")}
	jobs := importer.NewMemoryJobStore()

	_, err := ImportSewadarsFromSheet(context.Background(), newMemorySewadarStore(), jobs, client,
		zap.NewNop(), "job-1", "sheet-id", "Sewadars")
	require.Error(t, err)

	job, _ := jobs.Get("job-1")
	assert.Equal(t, importer.StatusFailed, job.Status)
}

func TestFormatForFilename(t *testing.T) {
	f, err := FormatForFilename("sewadars.csv")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	f, err = FormatForFilename("Sewadars Export.XLSX")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, f)

	_, err = FormatForFilename("sewadars.pdf")
	assert.Error(t, err)
}
