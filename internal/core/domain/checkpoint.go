package domain

import (
	"time"
)

// CheckpointRecord is the persisted progress marker for one synced item.
// There is exactly one record per item ID; later syncs overwrite it.
type CheckpointRecord struct {
	// ID is the item's tracker identity.
	ID uint64

	// Fingerprint summarises the item's content at the time it was synced.
	// Recorded for auditing, never used to skip work.
	Fingerprint int64

	// LastUpdateAt is the tracker's update time of the synced item.
	LastUpdateAt time.Time
}

// StorageID maps an item ID onto a signed 64-bit storage column.
// The conversion reinterprets the bits, so it is lossless and reversible
// over the whole uint64 range.
func StorageID(id uint64) int64 {
	return int64(id) //nolint:gosec // deliberate bit reinterpretation
}

// ItemID reverses StorageID.
func ItemID(stored int64) uint64 {
	return uint64(stored) //nolint:gosec // deliberate bit reinterpretation
}

// RunStatus is the outcome of a sync run.
type RunStatus string

const (
	RunRunning   RunStatus = "running"
	RunSucceeded RunStatus = "succeeded"
	RunFailed    RunStatus = "failed"
)

// SyncRun is the audit record of one Synchronizer invocation.
type SyncRun struct {
	// ID uniquely identifies the run.
	ID string

	// StartedAt is when the run began.
	StartedAt time.Time

	// FinishedAt is zero while the run is in progress.
	FinishedAt time.Time

	// Watermark is the watermark the run started from.
	Watermark time.Time

	// Items is the number of items committed to both sinks.
	Items int

	// Status is the run outcome.
	Status RunStatus

	// Error holds the failure message of a failed run.
	Error string
}

// SyncReport summarises a completed run for the caller.
type SyncReport struct {
	RunID        string
	Watermark    time.Time
	NewWatermark time.Time
	Items        int
	Duration     time.Duration
}
