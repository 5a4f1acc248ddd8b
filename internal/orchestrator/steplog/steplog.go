// Package steplog records the outcome of each step of a composite
// place-order execution in an append-only log.
//
// The place-order sequence needs no compensation — its only mutating call is
// the last one — but the recorded outcomes are what a compensating mechanism
// would build on if a mutating step were ever added before the final one,
// and they let an operator see exactly where a given execution stopped and
// correlate it with the distributed trace via the trace_id field.
package steplog

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/quickcart/orderflow/internal/pkg/ids"
)

// Status is the lifecycle state of a place-order execution.
type Status string

const (
	StatusStarted   Status = "STARTED"
	StatusStepDone  Status = "STEP_DONE"
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
)

// Step names for the two-step place-order sequence.
const (
	StepVerifyUser  = "verify_user"
	StepCreateOrder = "create_order"
)

// Entry is a single row in the step log. Rows are immutable events; the
// latest row per execution id gives the current state.
type Entry struct {
	// ID is a sortable unique id for this row.
	ID string

	// ExecutionID groups the rows of one place-order execution. It is the
	// request correlation id, so log rows can be joined with access logs.
	ExecutionID string

	Status Status

	// Step is the step that was just executed or failed; empty on the
	// STARTED row.
	Step string

	// Detail carries step output (the created order id) or the failure
	// message.
	Detail string

	// TraceID and SpanID come from the active OpenTelemetry span, so a log
	// row can be joined with the full distributed trace.
	TraceID string
	SpanID  string

	RecordedAt time.Time
}

// Repository is the port for persisting step log entries. Append-only.
type Repository interface {
	Save(ctx context.Context, entry *Entry) error
}

// NewEntry builds an entry with trace info extracted from ctx. If the
// context carries no active span, the trace fields are empty.
func NewEntry(ctx context.Context, executionID string, status Status, step, detail string) *Entry {
	sc := trace.SpanFromContext(ctx).SpanContext()

	entry := &Entry{
		ID:          ids.New(),
		ExecutionID: executionID,
		Status:      status,
		Step:        step,
		Detail:      detail,
		RecordedAt:  time.Now().UTC(),
	}
	if sc.IsValid() {
		entry.TraceID = sc.TraceID().String()
		entry.SpanID = sc.SpanID().String()
	}
	return entry
}
