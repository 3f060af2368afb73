package terminator

import (
	"context"
	"log/slog"
	"sync"

	"github.com/oran-ric/near-rt-ric/internal/clock"
	"github.com/oran-ric/near-rt-ric/internal/logging"
	"github.com/oran-ric/near-rt-ric/ric"
)

// Generate produces zero or more Reports for the owning terminator's
// current state. Called whenever the attached ReportTrigger fires.
type Generate func() []ric.Report

// BaseReporter is the reusable Reporter skeleton: it pairs a Generate
// function with a ric.ReportTrigger and forwards every generated Report to
// the owning NodeTerminator's StoreReport. Grounded on oran-reporter.cc's
// trigger-driven Run/StoreReport pattern.
type BaseReporter struct {
	mu       sync.Mutex
	term     ric.NodeTerminator
	trigger  ric.ReportTrigger
	generate Generate
	log      *slog.Logger
	active   bool
}

// NewBaseReporter constructs a BaseReporter attached to term, driven by
// trigger, producing reports via generate.
func NewBaseReporter(term ric.NodeTerminator, trigger ric.ReportTrigger, generate Generate, log *slog.Logger) *BaseReporter {
	if log == nil {
		log = logging.New(logging.DefaultConfig())
	}
	return &BaseReporter{term: term, trigger: trigger, generate: generate, log: log}
}

func (r *BaseReporter) Activate(ctx context.Context) {
	r.mu.Lock()
	if r.active {
		r.mu.Unlock()
		return
	}
	r.active = true
	r.mu.Unlock()
	r.trigger.Activate(ctx, func() { r.fire() })
}

func (r *BaseReporter) Deactivate() {
	r.mu.Lock()
	if !r.active {
		r.mu.Unlock()
		return
	}
	r.active = false
	r.mu.Unlock()
	r.trigger.Deactivate()
}

func (r *BaseReporter) fire() {
	r.mu.Lock()
	active := r.active
	r.mu.Unlock()
	if !active {
		return
	}
	for _, report := range r.GenerateReports() {
		r.term.StoreReport(report)
	}
}

// GenerateReports calls the configured Generate function, or returns nil if
// none was supplied.
func (r *BaseReporter) GenerateReports() []ric.Report {
	if r.generate == nil {
		return nil
	}
	return r.generate()
}

// NotifyRegistered fires an initial report immediately each time the owning
// terminator reports a newly assigned E2NodeID (its first successful
// registration, and any re-registration after deregistration), matching
// the source's NotifyRegistrationComplete callback.
func (r *BaseReporter) NotifyRegistered() {
	r.fire()
}

// PeriodicTrigger fires on a fixed cadence drawn from Interval. Grounded on
// oran-report-trigger-periodic.cc.
type PeriodicTrigger struct {
	mu       sync.Mutex
	Interval ric.RandomVariable
	clk      clock.Clock
	active   bool
	event    clock.Handle
	fire     func()
}

// NewPeriodicTrigger constructs a PeriodicTrigger with the given interval
// random variable.
func NewPeriodicTrigger(interval ric.RandomVariable, clk clock.Clock) *PeriodicTrigger {
	if clk == nil {
		clk = clock.Real{}
	}
	if interval == nil {
		interval = ric.Constant(0)
	}
	return &PeriodicTrigger{Interval: interval, clk: clk}
}

func (p *PeriodicTrigger) Activate(ctx context.Context, fire func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.active {
		return
	}
	p.active = true
	p.fire = fire
	p.scheduleLocked()
}

func (p *PeriodicTrigger) Deactivate() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.active {
		return
	}
	p.active = false
	if p.event != nil {
		p.event.Cancel()
	}
}

func (p *PeriodicTrigger) scheduleLocked() {
	p.event = p.clk.AfterFunc(p.Interval.Draw(), p.tick)
}

func (p *PeriodicTrigger) tick() {
	p.mu.Lock()
	if !p.active {
		p.mu.Unlock()
		return
	}
	fire := p.fire
	p.scheduleLocked()
	p.mu.Unlock()
	fire()
}

// LocationChangeTrigger fires whenever NotifyPositionChanged is called
// while active. The source observes a mobility model's "CourseChange"
// trace directly (oran-report-trigger-location-change.cc); since this
// codebase has no discrete-event mobility model, the equivalent signal is
// delivered by whatever owns the endpoint's position calling
// NotifyPositionChanged explicitly.
type LocationChangeTrigger struct {
	mu     sync.Mutex
	active bool
	fire   func()
}

func NewLocationChangeTrigger() *LocationChangeTrigger {
	return &LocationChangeTrigger{}
}

func (l *LocationChangeTrigger) Activate(ctx context.Context, fire func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.active = true
	l.fire = fire
}

func (l *LocationChangeTrigger) Deactivate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.active = false
	l.fire = nil
}

// NotifyPositionChanged fires the trigger if active.
func (l *LocationChangeTrigger) NotifyPositionChanged() {
	l.mu.Lock()
	fire := l.fire
	active := l.active
	l.mu.Unlock()
	if active && fire != nil {
		fire()
	}
}

// NoopTrigger never fires on its own. A BaseReporter using it generates
// reports only from NotifyRegistered, since the terminator's send loop does
// not call GenerateReports (this exists for symmetry with oran-query-
// trigger-noop.h's pattern applied to the report-trigger side).
type NoopTrigger struct{}

func (NoopTrigger) Activate(context.Context, func()) {}
func (NoopTrigger) Deactivate()                      {}
