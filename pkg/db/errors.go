package db

import "errors"

// ErrNotFound is returned by lookup operations when no record matches.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned by write operations that would violate a
// uniqueness constraint (e.g. inserting an already-known badge number).
// The import reconciler turns this into a row-level error.
var ErrDuplicate = errors.New("duplicate record")

// ErrReferenced is returned when deleting a record that other records still
// point at, such as a sewadar who appears on attendance submissions.
var ErrReferenced = errors.New("record is still referenced")
