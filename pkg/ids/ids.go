// Package ids provides the sequential identifier allocator for catalog
// records. The counter survives across runs via a small JSON state file;
// allocation is decoupled from persistence so a long traversal performs a
// single state write per batch instead of one per record.
package ids

import (
	"encoding/json"
	"log/slog"
	"os"
)

type state struct {
	NextID int `json:"next_id"`
}

// Allocator hands out consecutive positive integers. It is not safe for
// concurrent use; the traversal engine is strictly sequential.
type Allocator struct {
	next   int
	path   string
	logger *slog.Logger
}

// NewAllocator loads the persisted counter from path, starting at 1 when
// the file is missing, unreadable or holds a non-positive value.
func NewAllocator(path string, logger *slog.Logger) *Allocator {
	a := &Allocator{next: 1, path: path, logger: logger}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("failed to read id state, starting from 1", "path", path, "error", err)
		}
		return a
	}

	var s state
	if err := json.Unmarshal(data, &s); err != nil {
		logger.Warn("corrupt id state, starting from 1", "path", path, "error", err)
		return a
	}
	if s.NextID > 0 {
		a.next = s.NextID
	}
	return a
}

// Next returns the current counter value and advances it.
func (a *Allocator) Next() int {
	id := a.next
	a.next++
	return id
}

// SetStart overrides the counter with n. Non-positive values are ignored;
// an invalid override means "no override requested", not an error.
func (a *Allocator) SetStart(n int) {
	if n > 0 {
		a.next = n
	}
}

// Peek returns the value the next call to Next will return.
func (a *Allocator) Peek() int {
	return a.next
}

// Persist writes the current counter to disk, overwriting any prior value.
// Failures are logged and swallowed: losing the counter degrades a future
// run's numbering but must never abort an in-progress fetch.
func (a *Allocator) Persist() {
	data, err := json.MarshalIndent(state{NextID: a.next}, "", "  ")
	if err != nil {
		a.logger.Warn("failed to marshal id state", "error", err)
		return
	}
	if err := os.WriteFile(a.path, data, 0644); err != nil {
		a.logger.Warn("failed to persist id state", "path", a.path, "error", err)
	}
}
