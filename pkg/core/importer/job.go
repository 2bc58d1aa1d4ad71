// Package importer implements the sewadar import pipeline: normalizing raw
// spreadsheet rows, matching them against persisted sewadars, and applying
// the resulting creates/updates as a best-effort batch with a per-row error
// ledger.
package importer

import (
	"sync"
	"time"
)

type Status string

const (
	StatusProcessing Status = "PROCESSING"
	StatusCompleted  Status = "COMPLETED"
	StatusFailed     Status = "FAILED"
)

// Terminal reports whether a job in this status will never change again.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// RowError records one failed row: its line number in the source file, what
// went wrong, and the offending raw data so an operator can fix and resubmit
// just that row.
type RowError struct {
	Row     int               `json:"row"`
	Message string            `json:"message"`
	Data    map[string]string `json:"data"`
}

// Job tracks a single import invocation for the lifetime of the process.
// It is written only by the pipeline that owns it and read via snapshots.
// Job state is deliberately not durable: a restart loses in-flight jobs.
type Job struct {
	ID        string
	Status    Status
	Total     int
	Processed int
	Created   int
	Updated   int
	Errors    []RowError
	Message   string
	StartedAt time.Time
}

// NewJob returns a job in PROCESSING state for the given row count.
func NewJob(id string, total int) Job {
	return Job{
		ID:        id,
		Status:    StatusProcessing,
		Total:     total,
		StartedAt: time.Now(),
	}
}

// Snapshot is the point-in-time view exposed to progress pollers. It carries
// counts only; the full error ledger is part of the final result.
type Snapshot struct {
	ID         string `json:"jobId"`
	Status     Status `json:"status"`
	Total      int    `json:"total"`
	Processed  int    `json:"processed"`
	Created    int    `json:"created"`
	Updated    int    `json:"updated"`
	ErrorCount int    `json:"errorCount"`
	Message    string `json:"message,omitempty"`
}

// Snapshot returns a copy-by-value view of the job's current counters.
func (j *Job) Snapshot() Snapshot {
	return Snapshot{
		ID:         j.ID,
		Status:     j.Status,
		Total:      j.Total,
		Processed:  j.Processed,
		Created:    j.Created,
		Updated:    j.Updated,
		ErrorCount: len(j.Errors),
		Message:    j.Message,
	}
}

// Result is the caller-facing summary returned when a job terminates.
type Result struct {
	TotalRows int        `json:"totalRows"`
	Created   int        `json:"created"`
	Updated   int        `json:"updated"`
	Errors    []RowError `json:"errors"`
}

// JobStore holds jobs by identifier. The pipeline is the only writer for a
// given job; readers get copies, never references into the store.
type JobStore interface {
	Set(job Job)
	Get(id string) (Job, bool)
	Delete(id string)
}

// MemoryJobStore is the in-process JobStore used in production and tests.
type MemoryJobStore struct {
	mu   sync.RWMutex
	jobs map[string]Job
}

func NewMemoryJobStore() *MemoryJobStore {
	return &MemoryJobStore{jobs: make(map[string]Job)}
}

// Set stores a copy of the job, cloning the error ledger so the pipeline's
// working slice is never shared with readers.
func (s *MemoryJobStore) Set(job Job) {
	job.Errors = append([]RowError(nil), job.Errors...)
	s.mu.Lock()
	s.jobs[job.ID] = job
	s.mu.Unlock()
}

// Get returns a copy of the job, or false when the identifier is unknown.
func (s *MemoryJobStore) Get(id string) (Job, bool) {
	s.mu.RLock()
	job, ok := s.jobs[id]
	s.mu.RUnlock()
	if !ok {
		return Job{}, false
	}
	job.Errors = append([]RowError(nil), job.Errors...)
	return job, true
}

func (s *MemoryJobStore) Delete(id string) {
	s.mu.Lock()
	delete(s.jobs, id)
	s.mu.Unlock()
}
