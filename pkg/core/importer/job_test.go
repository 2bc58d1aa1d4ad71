package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryJobStore_GetReturnsCopy(t *testing.T) {
	store := NewMemoryJobStore()

	job := NewJob("job-1", 3)
	job.Errors = append(job.Errors, RowError{Row: 2, Message: "bad row"})
	store.Set(job)

	got, ok := store.Get("job-1")
	require.True(t, ok)

	// Mutating the returned copy must not leak into the store
	got.Errors[0].Message = "mutated"
	got.Processed = 99

	again, _ := store.Get("job-1")
	assert.Equal(t, "bad row", again.Errors[0].Message)
	assert.Equal(t, 0, again.Processed)
}

func TestMemoryJobStore_UnknownID(t *testing.T) {
	store := NewMemoryJobStore()
	_, ok := store.Get("missing")
	assert.False(t, ok)
}

func TestMemoryJobStore_Delete(t *testing.T) {
	store := NewMemoryJobStore()
	store.Set(NewJob("job-1", 1))
	store.Delete("job-1")
	_, ok := store.Get("job-1")
	assert.False(t, ok)
}

func TestJobSnapshot(t *testing.T) {
	job := NewJob("job-1", 10)
	job.Processed = 4
	job.Created = 2
	job.Updated = 1
	job.Errors = []RowError{{Row: 3, Message: "x"}}

	snap := job.Snapshot()
	assert.Equal(t, "job-1", snap.ID)
	assert.Equal(t, StatusProcessing, snap.Status)
	assert.Equal(t, 10, snap.Total)
	assert.Equal(t, 4, snap.Processed)
	assert.Equal(t, 1, snap.ErrorCount)
}

func TestStatusTerminal(t *testing.T) {
	assert.False(t, StatusProcessing.Terminal())
	assert.True(t, StatusCompleted.Terminal())
	assert.True(t, StatusFailed.Terminal())
}
