package tracker

import (
	"slices"
	"sync"
)

// Reason names why incremental tracking stopped being trustworthy.
type Reason string

const (
	// ReasonFlood is recorded when a debounce window saw more events than the threshold.
	ReasonFlood Reason = "flood"
	// ReasonDirectory is recorded when a created or changed entry turned out to be a directory.
	ReasonDirectory Reason = "directory"
	// ReasonUntrackedRemoval is recorded when a removed path was not tracked as a plain file.
	ReasonUntrackedRemoval Reason = "untracked-removal"
	// ReasonIgnoreFile is recorded when a .gitignore file was created, changed or deleted.
	ReasonIgnoreFile Reason = "ignore-file"
	// ReasonOverflow is recorded when the watcher reports dropped events.
	ReasonOverflow Reason = "overflow"
)

// FloodDetector counts raw events per debounce window and holds the
// re-scan flag.
//
// It has two states. NORMAL turns into REINIT_PENDING through Observe or
// Flag, and only Reset (called after a successful re-scan) turns it back.
type FloodDetector struct {
	threshold int

	mu      sync.Mutex
	count   int
	pending bool
	reasons []Reason
}

// NewFloodDetector creates a detector that trips on the event after the
// threshold-th one in a window.
func NewFloodDetector(threshold int) *FloodDetector {
	return &FloodDetector{threshold: threshold}
}

// Observe counts one raw event. It reports true when the window is over
// the threshold and the re-scan flag was not already set.
func (f *FloodDetector) Observe() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.count++
	if f.count > f.threshold {
		return f.flagLocked(ReasonFlood)
	}
	return false
}

// Flag requests a re-scan for the given reason. It reports true on the
// NORMAL to REINIT_PENDING transition.
func (f *FloodDetector) Flag(reason Reason) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.flagLocked(reason)
}

func (f *FloodDetector) flagLocked(reason Reason) bool {
	if !slices.Contains(f.reasons, reason) {
		f.reasons = append(f.reasons, reason)
	}
	was := f.pending
	f.pending = true
	return !was
}

// Pending reports whether a re-scan has been requested.
func (f *FloodDetector) Pending() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.pending
}

// Count returns the number of events seen in the current window.
func (f *FloodDetector) Count() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.count
}

// EndWindow resets the event counter when the debounce timer fires.
func (f *FloodDetector) EndWindow() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.count = 0
}

// Reasons returns the reasons recorded since the last reset.
func (f *FloodDetector) Reasons() []Reason {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]Reason(nil), f.reasons...)
}

// Reset clears the flag and its reasons.
func (f *FloodDetector) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.pending = false
	f.reasons = nil
}
