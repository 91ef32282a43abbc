// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the shared records for the conversion engine: the
// per-file queue entry, the tagged option union keyed by conversion type,
// and engine configuration.
package types

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// FileStatus is the per-file state in the conversion queue.
type FileStatus string

const (
	StatusQueued     FileStatus = "queued"
	StatusProcessing FileStatus = "processing"
	StatusCompleted  FileStatus = "completed"
	StatusError      FileStatus = "error"
)

// Sentinel errors shared by the adapters.
var (
	// ErrUnsupported indicates an input or target format the engine cannot handle.
	ErrUnsupported = errors.New("unsupported format")

	// ErrTooLarge indicates an input exceeding the configured size ceiling.
	ErrTooLarge = errors.New("file too large")

	// ErrDimensions indicates an output exceeding the pixel allocation ceilings.
	ErrDimensions = errors.New("dimensions exceed limits")
)

// Ref identifies a transient output reference held by the lifecycle manager.
// The zero value means the output has not been registered.
type Ref uint64

// ProgressFunc receives a 0-100 percentage while an adapter is working.
type ProgressFunc func(percent int)

// Output is one artifact produced by a conversion. Most conversions produce
// exactly one; document rasterization produces one per selected page.
type Output struct {
	// Name is the suggested filename: source basename with the new extension
	// substituted, plus a page suffix for multi-page output.
	Name string

	// MIMEType is the media type of Data.
	MIMEType string

	// Data is the encoded output.
	Data []byte

	// Ref is the transient reference registered for preview/download.
	Ref Ref
}

// ConversionFile is one entry in the batch. The queue exclusively owns these
// records and their status transitions; adapters only see copies of the input.
type ConversionFile struct {
	// ID is assigned at submission and stable for the file's queue lifetime.
	ID uuid.UUID

	// Name is the submitted filename.
	Name string

	// MIMEType is the declared media type of the input.
	MIMEType string

	// Size is the declared byte size of the input.
	Size int64

	// Data is the input payload, immutable after submission.
	Data []byte

	// Status is the state-machine position: queued, processing, completed, error.
	Status FileStatus

	// Progress is 0-100, meaningful only while processing, pinned to 100 on
	// completion. It never decreases within a single run.
	Progress int

	// Outputs holds the produced artifacts once Status is completed.
	Outputs []Output

	// Error is the failure reason, set exactly when Status is error.
	Error string

	// SubmittedAt records when the file entered the queue.
	SubmittedAt time.Time
}
