// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package lifecycle tracks transient output references. Every registered
// output gets exactly one temp-file-backed reference for preview/download,
// and the reference is released when the owning file leaves the queue.
package lifecycle

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/jsenko/convert-engine/pkg/types"
)

// Manager owns the reference table. The invariant it maintains: the number of
// live references never exceeds the number of outputs held by non-removed
// files, so releasing on removal/reset/clear is a leak-prevention contract.
type Manager struct {
	mu     sync.Mutex
	dir    string
	next   uint64
	refs   map[types.Ref]string
	logger *slog.Logger
}

// NewManager creates a manager backed by a fresh temp directory.
func NewManager(logger *slog.Logger) (*Manager, error) {
	if logger == nil {
		logger = slog.Default()
	}
	dir, err := os.MkdirTemp("", "convert-engine-*")
	if err != nil {
		return nil, fmt.Errorf("creating reference directory: %w", err)
	}
	return &Manager{
		dir:    dir,
		refs:   make(map[types.Ref]string),
		logger: logger,
	}, nil
}

// Register materializes data as a temp file and returns its reference token.
func (m *Manager) Register(name string, data []byte) (types.Ref, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.next++
	ref := types.Ref(m.next)

	// The token prefix keeps equal output names from colliding on disk.
	path := filepath.Join(m.dir, fmt.Sprintf("%d_%s", ref, filepath.Base(name)))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return 0, fmt.Errorf("writing reference file: %w", err)
	}

	m.refs[ref] = path
	return ref, nil
}

// Path resolves a reference to its backing file.
func (m *Manager) Path(ref types.Ref) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	path, ok := m.refs[ref]
	return path, ok
}

// Release revokes the given references. Unknown or zero tokens are ignored.
func (m *Manager) Release(refs ...types.Ref) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ref := range refs {
		m.release(ref)
	}
}

func (m *Manager) release(ref types.Ref) {
	path, ok := m.refs[ref]
	if !ok {
		return
	}
	delete(m.refs, ref)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		m.logger.Warn("releasing reference", "path", path, "error", err)
	}
}

// ReleaseAll revokes every live reference.
func (m *Manager) ReleaseAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for ref := range m.refs {
		m.release(ref)
	}
}

// Live returns the number of live references.
func (m *Manager) Live() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.refs)
}

// Close releases everything and removes the backing directory.
func (m *Manager) Close() error {
	m.ReleaseAll()
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.dir == "" {
		return nil
	}
	err := os.RemoveAll(m.dir)
	m.dir = ""
	return err
}
