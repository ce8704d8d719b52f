package pagination

import (
	"sync"
	"time"
)

// ChangeKind is the editor mutation kind carried by a Change record.
type ChangeKind string

const (
	ChangeInsert ChangeKind = "insert"
	ChangeDelete ChangeKind = "delete"
	ChangeUpdate ChangeKind = "update"
)

// Change is one pending document mutation, per spec §4.5.
type Change struct {
	Kind ChangeKind `json:"kind"`
	Pos  uint64     `json:"pos"`
	From uint64     `json:"from"`
	To   uint64     `json:"to"`
}

// DeriveChange maps one editor transaction's position-range tuple onto a
// Change, per spec §6's change-notification contract: a transaction with
// a non-empty new range (toNew > fromNew) is an insert, checked first, so a
// same-size replace is an insert too; otherwise a non-empty old range is a
// delete, and a transaction with both ranges empty is an update.
// fromOld/toOld and fromNew/toNew are the ranges a transaction
// reports as replaced and as replacing it, respectively.
func DeriveChange(fromOld, toOld, fromNew, toNew uint64) Change {
	kind := ChangeUpdate
	switch {
	case toNew > fromNew:
		kind = ChangeInsert
	case fromOld != toOld:
		kind = ChangeDelete
	}
	return Change{Kind: kind, Pos: fromNew, From: fromOld, To: toOld}
}

// DocumentSource supplies the current document tree to the ReflowEngine.
// The engine never owns document state; it only ever reads it through
// this accessor at the moment a pass runs.
type DocumentSource interface {
	Tree() Node
}

// ReflowStats mirrors spec §4.5's get_stats() record.
type ReflowStats struct {
	LastReflowTime    time.Time
	PageCount         int
	CacheStats        CacheStats
	IsReflowing       bool
	PendingChanges    int
	ReflowCount       int64
	TotalReflowTime   time.Duration
	AverageReflowTime time.Duration
}

// ReflowEngine owns configuration, the Measurer, and the PageComputer; it
// translates document mutations into debounced, coalesced reflow passes
// and emits lifecycle events, per spec §4.5.
type ReflowEngine struct {
	mu sync.Mutex

	cfg       PaginationConfig
	measurer  *Measurer
	computer  *PageComputer
	scheduler Scheduler
	doc       DocumentSource
	probe     RendererProbe
	bus       *eventBus

	currentModel *PaginationModel
	pending      []Change

	isReflowing bool
	cancelTimer CancelFunc
	destroyed   bool

	reflowCount     int64
	totalReflowTime time.Duration
	lastReflowTime  time.Time

	logf func(format string, args ...any)
}

// NewReflowEngine wires a Measurer and PageComputer around cfg and
// scheduler. doc supplies the live document tree at reflow time.
func NewReflowEngine(cfg PaginationConfig, doc DocumentSource, scheduler Scheduler, logf func(string, ...any)) (*ReflowEngine, error) {
	dims, err := cfg.Dimensions()
	if err != nil {
		return nil, err
	}
	measurer := NewMeasurer(dims, cfg, 500)
	computer := NewPageComputer(cfg, dims)
	computer.SetMeasurer(measurer)

	if logf == nil {
		logf = func(string, ...any) {}
	}

	return &ReflowEngine{
		cfg:       cfg,
		measurer:  measurer,
		computer:  computer,
		scheduler: scheduler,
		doc:       doc,
		bus:       newEventBus(),
		logf:      logf,
	}, nil
}

// SetSurface attaches a rendering surface to the Measurer.
func (e *ReflowEngine) SetSurface(probe RendererProbe) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.probe = probe
	e.measurer.SetProbe(probe)
}

// SetConfig merges partial into the current config; any change clears the
// measurement cache and requests an immediate reflow.
func (e *ReflowEngine) SetConfig(partial func(*PaginationConfig)) error {
	e.mu.Lock()
	next := e.cfg
	partial(&next)
	dims, err := next.Dimensions()
	if err != nil {
		e.mu.Unlock()
		return err
	}
	e.cfg = next
	e.measurer.SetDimensions(dims)
	e.computer.SetDimensions(dims)
	e.mu.Unlock()

	e.RequestImmediateReflow()
	return nil
}

// GetModel returns the last published model, or nil.
func (e *ReflowEngine) GetModel() *PaginationModel {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.currentModel
}

// RequestReflow schedules a reflow after ReflowDebounceMs. Multiple calls
// before the timer fires coalesce into one pass; change, if non-nil, is
// appended to the pending set.
func (e *ReflowEngine) RequestReflow(change *Change) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.destroyed {
		return
	}
	if change != nil {
		e.pending = append(e.pending, *change)
	}
	if e.cancelTimer != nil {
		e.cancelTimer()
	}
	e.cancelTimer = e.scheduler.AfterMs(e.cfg.ReflowDebounceMs, e.runPass)
}

// RequestImmediateReflow cancels any pending timer and runs synchronously.
func (e *ReflowEngine) RequestImmediateReflow() {
	e.mu.Lock()
	if e.cancelTimer != nil {
		e.cancelTimer()
		e.cancelTimer = nil
	}
	e.mu.Unlock()
	e.runPass()
}

// RequestRAFReflow schedules via the scheduler's paint-cycle hook.
func (e *ReflowEngine) RequestRAFReflow() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.destroyed {
		return
	}
	if e.cancelTimer != nil {
		e.cancelTimer()
	}
	e.cancelTimer = e.scheduler.NextFrame(e.runPass)
}

// RequestIdleReflow schedules via the scheduler's idle-time hook.
func (e *ReflowEngine) RequestIdleReflow(timeoutMs int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.destroyed {
		return
	}
	if e.cancelTimer != nil {
		e.cancelTimer()
	}
	e.cancelTimer = e.scheduler.WhenIdle(timeoutMs, e.runPass)
}

// HandleChangeSet translates a batch of editor changes into the pending
// set and invalidates [min(from), max(to)] in the Measurer cache.
func (e *ReflowEngine) HandleChangeSet(changes []Change) {
	if len(changes) == 0 {
		return
	}
	minFrom, maxTo := changes[0].From, changes[0].To
	for _, c := range changes {
		if c.From < minFrom {
			minFrom = c.From
		}
		if c.To > maxTo {
			maxTo = c.To
		}
	}
	e.measurer.InvalidateRange(minFrom, maxTo)

	e.mu.Lock()
	e.pending = append(e.pending, changes...)
	e.mu.Unlock()

	e.RequestReflow(nil)
}

// ForceFullReflow clears the Measurer cache and pending model, then runs
// an immediate full reflow.
func (e *ReflowEngine) ForceFullReflow() {
	e.mu.Lock()
	e.measurer.ClearCache()
	e.currentModel = nil
	e.pending = nil
	e.mu.Unlock()

	e.RequestImmediateReflow()
}

// GetPageForPosition is a convenience pass-through to the current model.
func (e *ReflowEngine) GetPageForPosition(pos uint64) int {
	e.mu.Lock()
	model := e.currentModel
	e.mu.Unlock()
	return e.computer.GetPageForPosition(model, pos)
}

// GetPositionRangeForPage returns the [startPos, endPos] of page n, or
// false if out of range.
func (e *ReflowEngine) GetPositionRangeForPage(n int) (start, end uint64, ok bool) {
	e.mu.Lock()
	model := e.currentModel
	e.mu.Unlock()
	page := e.computer.GetPage(model, n)
	if page == nil {
		return 0, 0, false
	}
	return page.StartPos, page.EndPos, true
}

func (e *ReflowEngine) OnReflowStart(h func(ReflowStartEvent)) UnregisterFunc {
	return e.bus.OnReflowStart(h)
}

func (e *ReflowEngine) OnReflowEnd(h func(ReflowEndEvent)) UnregisterFunc {
	return e.bus.OnReflowEnd(h)
}

func (e *ReflowEngine) OnPagesChanged(h func(PagesChangedEvent)) UnregisterFunc {
	return e.bus.OnPagesChanged(h)
}

// GetStats returns the engine's running counters.
func (e *ReflowEngine) GetStats() ReflowStats {
	e.mu.Lock()
	defer e.mu.Unlock()
	avg := time.Duration(0)
	if e.reflowCount > 0 {
		avg = e.totalReflowTime / time.Duration(e.reflowCount)
	}
	pageCount := 0
	if e.currentModel != nil {
		pageCount = len(e.currentModel.Pages)
	}
	return ReflowStats{
		LastReflowTime:    e.lastReflowTime,
		PageCount:         pageCount,
		CacheStats:        e.measurer.CacheStats(),
		IsReflowing:       e.isReflowing,
		PendingChanges:    len(e.pending),
		ReflowCount:       e.reflowCount,
		TotalReflowTime:   e.totalReflowTime,
		AverageReflowTime: avg,
	}
}

// Destroy cancels timers, drops handlers, and releases the surface and
// current model.
func (e *ReflowEngine) Destroy() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cancelTimer != nil {
		e.cancelTimer()
		e.cancelTimer = nil
	}
	e.destroyed = true
	e.probe = nil
	e.measurer.SetProbe(nil)
	e.currentModel = nil
	e.pending = nil
	e.bus = newEventBus()
}

// runPass executes one reflow pass per the nine steps of spec §4.5.
func (e *ReflowEngine) runPass() {
	e.mu.Lock()
	if e.doc == nil {
		e.mu.Unlock()
		e.logf("pagination: reflow requested with no surface/document attached")
		return
	}
	if e.isReflowing {
		e.mu.Unlock()
		e.RequestReflow(nil)
		return
	}
	e.isReflowing = true
	prior := e.currentModel
	pending := e.pending
	e.pending = nil
	e.mu.Unlock()

	e.bus.emitStart(ReflowStartEvent{})
	start := time.Now()

	tree := e.doc.Tree()
	var model *PaginationModel
	var err error
	if prior != nil && len(pending) > 0 {
		from := minFromPos(pending)
		model, err = e.computer.ComputeFrom(tree, prior, from)
	} else {
		model, err = e.computer.Compute(tree)
	}

	elapsed := time.Since(start)

	e.mu.Lock()
	defer func() {
		e.isReflowing = false
		e.mu.Unlock()
	}()

	if err != nil {
		e.logf("pagination: reflow pass failed: %v", err)
		return
	}

	changed := prior == nil || !prior.Equal(model)
	e.currentModel = model
	e.reflowCount++
	e.totalReflowTime += elapsed
	e.lastReflowTime = time.Now()

	if changed {
		e.bus.emitPagesChanged(PagesChangedEvent{Model: model})
	}
	e.bus.emitEnd(ReflowEndEvent{Model: model})
}

func minFromPos(changes []Change) uint64 {
	min := changes[0].From
	for _, c := range changes {
		if c.From < min {
			min = c.From
		}
	}
	return min
}
