// Package telemetry holds pre-created, typed OpenTelemetry metric
// instrument handles for the RIC core, following the same construction
// pattern used across this codebase's services: a single struct of typed
// instrument fields, built once from a metric.Meter, safe for concurrent
// use from every goroutine that touches the cycle state machine, LM worker
// pool, and dispatch path.
package telemetry

import (
	"fmt"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// Instruments holds the metric handles emitted by the RIC core.
type Instruments struct {
	CyclesStartedTotal       metric.Int64Counter
	CyclesDispatchedTotal    metric.Int64Counter
	CycleCollectDuration     metric.Float64Histogram
	CommandsDispatchedTotal  metric.Int64Counter
	CommandsDroppedTotal     metric.Int64Counter
	LateCommandsTotal        metric.Int64Counter
	CancelledRunsTotal       metric.Int64Counter
	NodesDeregisteredTotal   metric.Int64Counter
	NodesRegisteredTotal     metric.Int64Counter
	TriggerFiredTotal        metric.Int64Counter
	ReportsReceivedTotal     metric.Int64Counter
	StorageOperationDuration metric.Float64Histogram
}

// New creates all instrument handles from the given meter.
func New(meter metric.Meter) (*Instruments, error) {
	inst := &Instruments{}
	var err error

	inst.CyclesStartedTotal, err = meter.Int64Counter(
		"ric_cycles_started_total",
		metric.WithDescription("Number of LM query cycles started"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create instrument ric_cycles_started_total: %w", err)
	}

	inst.CyclesDispatchedTotal, err = meter.Int64Counter(
		"ric_cycles_dispatched_total",
		metric.WithDescription("Number of LM query cycles that reached dispatch"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create instrument ric_cycles_dispatched_total: %w", err)
	}

	inst.CycleCollectDuration, err = meter.Float64Histogram(
		"ric_cycle_collect_duration_seconds",
		metric.WithDescription("Time from cycle open to dispatch"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create instrument ric_cycle_collect_duration_seconds: %w", err)
	}

	inst.CommandsDispatchedTotal, err = meter.Int64Counter(
		"ric_commands_dispatched_total",
		metric.WithDescription("Commands handed to the E2 terminator for dispatch"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create instrument ric_commands_dispatched_total: %w", err)
	}

	inst.CommandsDroppedTotal, err = meter.Int64Counter(
		"ric_commands_dropped_total",
		metric.WithDescription("Commands dropped (unregistered target, DROP late-command policy)"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create instrument ric_commands_dropped_total: %w", err)
	}

	inst.LateCommandsTotal, err = meter.Int64Counter(
		"ric_late_commands_total",
		metric.WithDescription("notifyLmFinished callbacks that arrived after the cycle deadline"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create instrument ric_late_commands_total: %w", err)
	}

	inst.CancelledRunsTotal, err = meter.Int64Counter(
		"ric_cancelled_runs_total",
		metric.WithDescription("LM runs cancelled because a new run was requested before delivery"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create instrument ric_cancelled_runs_total: %w", err)
	}

	inst.NodesDeregisteredTotal, err = meter.Int64Counter(
		"ric_nodes_deregistered_total",
		metric.WithDescription("Nodes deregistered by the inactivity sweep"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create instrument ric_nodes_deregistered_total: %w", err)
	}

	inst.NodesRegisteredTotal, err = meter.Int64Counter(
		"ric_nodes_registered_total",
		metric.WithDescription("Registration requests accepted"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create instrument ric_nodes_registered_total: %w", err)
	}

	inst.TriggerFiredTotal, err = meter.Int64Counter(
		"ric_trigger_fired_total",
		metric.WithDescription("QueryTrigger evaluations that returned true"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create instrument ric_trigger_fired_total: %w", err)
	}

	inst.ReportsReceivedTotal, err = meter.Int64Counter(
		"ric_reports_received_total",
		metric.WithDescription("Reports received by the E2 terminator"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create instrument ric_reports_received_total: %w", err)
	}

	inst.StorageOperationDuration, err = meter.Float64Histogram(
		"ric_storage_operation_duration_seconds",
		metric.WithDescription("Duration of DataRepository operations"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create instrument ric_storage_operation_duration_seconds: %w", err)
	}

	return inst, nil
}

// NewNoop returns an Instruments backed by OTel's no-op provider, for use
// when metrics are disabled in tests or the embedding program.
func NewNoop() *Instruments {
	inst, _ := New(noop.NewMeterProvider().Meter("noop"))
	return inst
}
