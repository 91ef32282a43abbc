// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package queue owns the batch: the submitted files, their status state
// machine (queued, processing, completed, error), and the sequential
// conversion loop that drives the adapters.
package queue

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jsenko/convert-engine/internal/events"
	"github.com/jsenko/convert-engine/internal/lifecycle"
	"github.com/jsenko/convert-engine/pkg/types"
)

// Adapter is the uniform conversion contract: one implementation per
// conversion family. Adapters are pure over their inputs; they never touch
// queue state.
type Adapter interface {
	Convert(ctx context.Context, name string, data []byte, opts types.Options, progress types.ProgressFunc) ([]types.Output, error)
}

// Input is one submission candidate.
type Input struct {
	Name     string
	MIMEType string
	Size     int64
	Data     []byte
}

// Rejection reports a submission that never entered the queue.
type Rejection struct {
	Name   string
	Reason string
}

// Queue is the conversion store. It exclusively owns the ConversionFile
// records; all mutation happens under its mutex.
type Queue struct {
	mu       sync.Mutex
	cfg      types.Config
	opts     types.Options
	adapters map[types.ConversionType]Adapter
	files    []*types.ConversionFile
	refs     *lifecycle.Manager
	bus      *events.Bus
	logger   *slog.Logger
}

// New builds a queue for one conversion-type session.
func New(cfg types.Config, opts types.Options, adapters map[types.ConversionType]Adapter, refs *lifecycle.Manager, bus *events.Bus, logger *slog.Logger) (*Queue, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if _, ok := adapters[opts.Type]; !ok {
		return nil, fmt.Errorf("no adapter for conversion type %q", opts.Type)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Queue{
		cfg:      cfg,
		opts:     opts,
		adapters: adapters,
		refs:     refs,
		bus:      bus,
		logger:   logger,
	}, nil
}

// Type returns the session's conversion type.
func (q *Queue) Type() types.ConversionType {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.opts.Type
}

// SetOptions replaces the option record before a conversion run. The
// conversion type of a session is fixed.
func (q *Queue) SetOptions(opts types.Options) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if opts.Type != q.opts.Type {
		return fmt.Errorf("conversion type is fixed to %q for this session", q.opts.Type)
	}
	if err := opts.Validate(); err != nil {
		return err
	}
	q.opts = opts
	return nil
}

// AddFiles validates each input against the session's accepted types and the
// size ceiling. Accepted inputs are appended as queued records; rejected ones
// are reported and never enter the queue.
func (q *Queue) AddFiles(inputs []Input) (accepted []uuid.UUID, rejected []Rejection) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, in := range inputs {
		if reason := q.validate(in); reason != "" {
			rejected = append(rejected, Rejection{Name: in.Name, Reason: reason})
			q.logger.Info("file rejected", "name", in.Name, "reason", reason)
			continue
		}

		f := &types.ConversionFile{
			ID:          uuid.New(),
			Name:        in.Name,
			MIMEType:    in.MIMEType,
			Size:        in.Size,
			Data:        in.Data,
			Status:      types.StatusQueued,
			SubmittedAt: time.Now(),
		}
		q.files = append(q.files, f)
		accepted = append(accepted, f.ID)
	}
	return accepted, rejected
}

func (q *Queue) validate(in Input) string {
	if !q.opts.Type.Accepts(in.MIMEType) {
		return fmt.Sprintf("type %q is not accepted for %s conversion", in.MIMEType, q.opts.Type)
	}
	size := in.Size
	if size <= 0 {
		size = int64(len(in.Data))
	}
	if size > q.cfg.MaxFileSize {
		return fmt.Sprintf("size %d exceeds the %d byte limit", size, q.cfg.MaxFileSize)
	}
	if len(in.Data) == 0 {
		return "file is empty"
	}
	return ""
}

// Convert processes every queued file strictly in submission order, one at a
// time. A file's failure is isolated: it lands in the error state and the
// loop moves on. Convert returns early only when ctx is done; files not yet
// started stay queued.
func (q *Queue) Convert(ctx context.Context) error {
	q.mu.Lock()
	var pending []uuid.UUID
	for _, f := range q.files {
		if f.Status == types.StatusQueued {
			pending = append(pending, f.ID)
		}
	}
	opts := q.opts
	adapter := q.adapters[opts.Type]
	q.mu.Unlock()

	for _, id := range pending {
		if err := ctx.Err(); err != nil {
			return err
		}

		q.mu.Lock()
		f := q.find(id)
		if f == nil || f.Status != types.StatusQueued {
			// Removed or reset while the batch was running.
			q.mu.Unlock()
			continue
		}
		f.Status = types.StatusProcessing
		f.Progress = 0
		name, data := f.Name, f.Data
		q.mu.Unlock()

		q.logger.Info("converting", "file", name, "id", id, "type", opts.Type)
		outputs, err := adapter.Convert(ctx, name, data, opts, q.progressFunc(id))
		q.apply(id, outputs, err)
	}
	return nil
}

// progressFunc clamps adapter progress reports to 0-100 and keeps them
// monotone for the file's current run.
func (q *Queue) progressFunc(id uuid.UUID) types.ProgressFunc {
	return func(p int) {
		if p < 0 {
			p = 0
		}
		if p > 100 {
			p = 100
		}
		q.mu.Lock()
		defer q.mu.Unlock()
		f := q.find(id)
		if f == nil || f.Status != types.StatusProcessing {
			return
		}
		if p > f.Progress {
			f.Progress = p
		}
	}
}

// apply moves a file to its terminal state. The file is re-checked under the
// lock first: a result for a file removed mid-flight is discarded without
// registering references.
func (q *Queue) apply(id uuid.UUID, outputs []types.Output, convErr error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	f := q.find(id)
	if f == nil {
		q.logger.Info("discarding result for removed file", "id", id)
		return
	}

	if convErr != nil {
		f.Status = types.StatusError
		f.Error = convErr.Error()
		f.Outputs = nil
		q.logger.Error("conversion failed", "file", f.Name, "id", id, "error", convErr)
		q.publish(events.LevelError, id, fmt.Sprintf("%s: %s", f.Name, convErr))
		return
	}

	if q.refs != nil {
		for i := range outputs {
			ref, err := q.refs.Register(outputs[i].Name, outputs[i].Data)
			if err != nil {
				q.logger.Warn("registering output reference", "name", outputs[i].Name, "error", err)
				continue
			}
			outputs[i].Ref = ref
		}
	}
	f.Outputs = outputs
	f.Status = types.StatusCompleted
	f.Progress = 100
	f.Error = ""
	q.logger.Info("conversion completed", "file", f.Name, "id", id, "outputs", len(outputs))
	q.publish(events.LevelInfo, id, fmt.Sprintf("%s: %d output(s)", f.Name, len(outputs)))
}

func (q *Queue) publish(level events.Level, id uuid.UUID, msg string) {
	if q.bus != nil {
		q.bus.Publish(events.Event{Level: level, FileID: id, Message: msg})
	}
}

// ResetFile returns a completed or failed file to the queued state for a
// retry, releasing its output references. Unknown ids are a no-op.
func (q *Queue) ResetFile(id uuid.UUID) {
	q.mu.Lock()
	defer q.mu.Unlock()

	f := q.find(id)
	if f == nil {
		return
	}
	q.releaseOutputs(f)
	f.Status = types.StatusQueued
	f.Progress = 0
	f.Outputs = nil
	f.Error = ""
}

// RemoveFile deletes a file from the batch in any state and releases its
// output references.
func (q *Queue) RemoveFile(id uuid.UUID) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for i, f := range q.files {
		if f.ID == id {
			q.releaseOutputs(f)
			q.files = append(q.files[:i], q.files[i+1:]...)
			return
		}
	}
}

// Clear removes every file and releases every output reference.
func (q *Queue) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, f := range q.files {
		q.releaseOutputs(f)
	}
	q.files = nil
}

func (q *Queue) releaseOutputs(f *types.ConversionFile) {
	if q.refs == nil {
		return
	}
	for _, out := range f.Outputs {
		if out.Ref != 0 {
			q.refs.Release(out.Ref)
		}
	}
}

// Files returns a snapshot of the batch in submission order.
func (q *Queue) Files() []types.ConversionFile {
	q.mu.Lock()
	defer q.mu.Unlock()

	snapshot := make([]types.ConversionFile, len(q.files))
	for i, f := range q.files {
		snapshot[i] = *f
	}
	return snapshot
}

// File returns a snapshot of one record.
func (q *Queue) File(id uuid.UUID) (types.ConversionFile, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if f := q.find(id); f != nil {
		return *f, true
	}
	return types.ConversionFile{}, false
}

func (q *Queue) find(id uuid.UUID) *types.ConversionFile {
	for _, f := range q.files {
		if f.ID == id {
			return f
		}
	}
	return nil
}
