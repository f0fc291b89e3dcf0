// Package tracker keeps a debounced snapshot of the interesting paths under
// a project root, fed by raw filesystem events.
package tracker

import (
	"context"
	"fmt"
	"iter"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/pathwatch/internal/core/domain"
	"go.trai.ch/pathwatch/internal/core/ports"
	"go.trai.ch/pathwatch/internal/engine/sequencer"
	"go.trai.ch/zerr"
)

// Deps are the collaborators a Tracker drives.
type Deps struct {
	Sequencer *sequencer.Sequencer
	Lister    ports.DirectoryLister
	Prober    ports.FileProber
	Ignore    ports.IgnoreEvaluator
	// Watcher is optional. When set, Initialize starts it and Dispose stops it.
	Watcher ports.Watcher
	Logger  ports.Logger
	Tracer  ports.Tracer
}

// Options tune a Tracker. Zero values fall back to the domain defaults.
type Options struct {
	Exclude        []string
	Debounce       time.Duration
	MaxPaths       int
	FloodThreshold int
}

func (o Options) withDefaults() Options {
	if o.Debounce <= 0 {
		o.Debounce = domain.DefaultDebounce
	}
	if o.MaxPaths <= 0 {
		o.MaxPaths = domain.DefaultMaxPaths
	}
	if o.FloodThreshold <= 0 {
		o.FloodThreshold = domain.DefaultFloodThreshold
	}
	return o
}

// Status describes the tracker's state at a point in time.
type Status struct {
	Root           string   `json:"root"`
	Paths          int      `json:"paths"`
	ReinitPending  bool     `json:"reinitPending"`
	Reasons        []Reason `json:"reasons,omitempty"`
	EventsInWindow int      `json:"eventsInWindow"`
	PendingTasks   int      `json:"pendingTasks"`
	Fingerprint    string   `json:"fingerprint"`
}

// Tracker maintains the PathSet for one project root.
//
// Every mutation of tracked state runs as a task on the sequencer, so events
// are applied in the order the watcher emitted them even when a probe is slow.
type Tracker struct {
	root     string
	consumer *ConsumerRef
	deps     Deps
	opts     Options

	paths    *PathSet
	flood    *FloodDetector
	debounce *Debouncer

	// dirty is only touched on the sequencer worker.
	dirty    bool
	disposed atomic.Bool
}

// New binds a tracker to root and consumer. An empty root puts the tracker
// in the permanent "no project" mode where every operation is a no-op.
func New(root string, consumer *ConsumerRef, deps Deps, opts Options) *Tracker {
	opts = opts.withDefaults()

	t := &Tracker{
		root:     root,
		consumer: consumer,
		deps:     deps,
		opts:     opts,
		paths:    NewPathSet(),
		flood:    NewFloodDetector(opts.FloodThreshold),
	}
	t.debounce = NewDebouncer(opts.Debounce, t.onQuiet)
	return t
}

// Root returns the project root the tracker is bound to.
func (t *Tracker) Root() string {
	return t.root
}

// Initialize starts the watcher, if any, and performs the first full
// re-scan. It returns once the first notification has been delivered.
func (t *Tracker) Initialize(ctx context.Context) error {
	if t.root == "" {
		return nil
	}

	if t.deps.Watcher != nil {
		if err := t.deps.Watcher.Start(ctx, t.root); err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrWatcherStartFailed.Error()), "root", t.root)
		}
	}

	done := make(chan error, 1)
	if !t.deps.Sequencer.Submit("initialize", func(ctx context.Context) error {
		done <- t.rescan(ctx)
		return nil
	}) {
		return domain.ErrSequencerClosed
	}

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// HandleEvent queues a raw watcher event. It never blocks.
func (t *Tracker) HandleEvent(ev ports.WatchEvent) {
	if t.root == "" || t.disposed.Load() {
		return
	}
	t.deps.Sequencer.Submit("event "+ev.Kind.String(), func(ctx context.Context) error {
		return t.applyEvent(ctx, ev)
	})
}

// Run feeds events into HandleEvent until the sequence ends or ctx is done.
func (t *Tracker) Run(ctx context.Context, events iter.Seq[ports.WatchEvent]) error {
	for ev := range events {
		if err := ctx.Err(); err != nil {
			return err
		}
		t.HandleEvent(ev)
	}
	return ctx.Err()
}

// Dispose detaches the tracker from the watcher and cancels the pending
// notification. Tasks already queued still run; the tracked set is dropped
// after them.
func (t *Tracker) Dispose() error {
	if !t.disposed.CompareAndSwap(false, true) {
		return nil
	}

	t.debounce.Stop()

	var err error
	if t.deps.Watcher != nil && t.root != "" {
		err = t.deps.Watcher.Stop()
	}

	t.deps.Sequencer.Submit("dispose", func(context.Context) error {
		t.paths.Clear()
		t.deps.Ignore.ClearCache()
		t.dirty = false
		return nil
	})
	return err
}

// Snapshot returns the tracked paths relative to the root, with forward
// slashes and a trailing slash on directories, sorted and capped at MaxPaths.
func (t *Tracker) Snapshot() []string {
	sorted := t.paths.Sorted()
	out := make([]string, 0, min(len(sorted), t.opts.MaxPaths))
	for _, p := range sorted {
		if len(out) == t.opts.MaxPaths {
			break
		}
		if rel, ok := p.Rel(t.root); ok {
			out = append(out, rel)
		}
	}
	return out
}

// Status reports counters and a fingerprint of the current snapshot.
func (t *Tracker) Status() Status {
	return Status{
		Root:           t.root,
		Paths:          t.paths.Len(),
		ReinitPending:  t.flood.Pending(),
		Reasons:        t.flood.Reasons(),
		EventsInWindow: t.flood.Count(),
		PendingTasks:   t.deps.Sequencer.Pending(),
		Fingerprint:    Fingerprint(t.Snapshot()),
	}
}

// Fingerprint hashes a snapshot so callers can cheaply tell two apart.
func Fingerprint(paths []string) string {
	h := xxhash.New()
	for _, p := range paths {
		_, _ = h.WriteString(p)
		_, _ = h.Write([]byte{0})
	}
	return strconv.FormatUint(h.Sum64(), 16)
}

func (t *Tracker) applyEvent(ctx context.Context, ev ports.WatchEvent) error {
	defer t.debounce.Schedule()

	if t.flood.Observe() {
		t.deps.Logger.Info(fmt.Sprintf("re-scan requested (%s): %d events in window", ReasonFlood, t.flood.Count()))
	}

	if ev.Kind == ports.EventOverflow {
		t.flag(ReasonOverflow)
		return nil
	}

	p := domain.Normalize(ev.Path)
	if p == "" {
		return nil
	}

	switch ev.Kind {
	case ports.EventDeleted:
		if t.removePath(p.String()) {
			t.dirty = true
		}
	case ports.EventCreated, ports.EventChanged:
		if t.deps.Ignore.ShouldIgnore(p.String(), t.opts.Exclude) {
			// A rule file still changes visibility even when it is ignored itself.
			t.noteIgnoreFile(p)
			return nil
		}
		if t.addPath(ctx, p.String()) {
			t.dirty = true
		}
	}
	return nil
}

// addPath probes raw and inserts it, reporting whether the set changed.
// A failed probe means the entry vanished; it is added as a plain file.
func (t *Tracker) addPath(ctx context.Context, raw string) bool {
	p := domain.Normalize(raw)
	if p == "" {
		return false
	}

	isDir, err := t.deps.Prober.Stat(ctx, p.Trimmed())
	if err == nil && isDir {
		p = p.AsDir()
		t.flag(ReasonDirectory)
	} else {
		p = domain.TrackedPath(p.Trimmed())
	}

	t.noteIgnoreFile(p)
	return t.paths.Add(p)
}

// removePath deletes raw from the set, reporting whether anything was removed.
func (t *Tracker) removePath(raw string) bool {
	p := domain.Normalize(raw)
	if p == "" {
		return false
	}

	removed := t.paths.Remove(p)
	if !removed || p.IsDir() {
		// Directory removals carry no per-child events.
		t.flag(ReasonUntrackedRemoval)
		removed = t.paths.Remove(p.AsDir()) || removed
	}

	t.noteIgnoreFile(p)
	return removed
}

func (t *Tracker) noteIgnoreFile(p domain.TrackedPath) {
	if p.Base() != domain.IgnoreFileName {
		return
	}
	t.deps.Ignore.ClearCache()
	t.flag(ReasonIgnoreFile)
}

func (t *Tracker) flag(reason Reason) {
	if t.flood.Flag(reason) {
		t.deps.Logger.Info(fmt.Sprintf("re-scan requested (%s)", reason))
	}
}

// onQuiet runs on the timer goroutine and only hands off to the sequencer.
func (t *Tracker) onQuiet() {
	t.deps.Sequencer.Submit("notify", t.notify)
}

func (t *Tracker) notify(ctx context.Context) error {
	t.flood.EndWindow()

	if t.flood.Pending() {
		return t.rescan(ctx)
	}
	if !t.dirty {
		return nil
	}
	t.dirty = false
	t.deliver(ctx)
	return nil
}

// rescan replaces the tracked set with a fresh listing and delivers it.
// On failure the previous set and the re-scan flag are kept.
func (t *Tracker) rescan(ctx context.Context) error {
	if t.root == "" {
		return nil
	}

	ctx, span := t.deps.Tracer.Start(ctx, "rescan")
	defer span.End()

	span.SetAttribute("root", t.root)
	if reasons := t.flood.Reasons(); len(reasons) > 0 {
		tags := make([]string, len(reasons))
		for i, r := range reasons {
			tags[i] = string(r)
		}
		span.SetAttribute("reasons", tags)
	}

	listed, truncated, err := t.deps.Lister.ListFiles(ctx, t.root, true, t.opts.MaxPaths)
	if err != nil {
		err = zerr.With(zerr.Wrap(err, domain.ErrListingFailed.Error()), "root", t.root)
		span.RecordError(err)
		return err
	}

	t.paths.Clear()
	for _, raw := range listed {
		if p := domain.Normalize(raw); p != "" {
			t.paths.Add(p)
		}
	}
	t.flood.Reset()
	t.dirty = false

	span.SetAttribute("paths", t.paths.Len())
	span.SetAttribute("truncated", truncated)
	if truncated {
		t.deps.Logger.Info(fmt.Sprintf("listing truncated at %d paths", t.opts.MaxPaths))
	}

	t.deliver(ctx)
	return nil
}

func (t *Tracker) deliver(ctx context.Context) {
	if t.disposed.Load() {
		return
	}
	consumer, ok := t.consumer.Load()
	if !ok {
		return
	}

	ctx, span := t.deps.Tracer.Start(ctx, "deliver")
	defer span.End()

	update := domain.NewWorkspaceUpdate(t.Snapshot())
	span.SetAttribute("paths", len(update.FilePaths))

	if err := consumer.Deliver(ctx, update); err != nil {
		err = zerr.Wrap(err, domain.ErrDeliveryFailed.Error())
		span.RecordError(err)
		t.deps.Logger.Error(err)
	}
}
