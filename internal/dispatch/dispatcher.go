package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/grantweston/google-ads-mcp-complete/internal/core/domain"
	"github.com/grantweston/google-ads-mcp-complete/internal/metrics"
)

// State is a dispatcher state machine position for one operation.
type State int

const (
	StatePending State = iota
	StateCredentialReady
	StateInFlight
	StateRetryScheduled
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "PENDING"
	case StateCredentialReady:
		return "CREDENTIAL_READY"
	case StateInFlight:
		return "IN_FLIGHT"
	case StateRetryScheduled:
		return "RETRY_SCHEDULED"
	case StateSucceeded:
		return "SUCCEEDED"
	case StateFailed:
		return "FAILED"
	}
	return "UNKNOWN"
}

// CredentialSource yields a credential valid for at least the refresh margin.
type CredentialSource interface {
	Credential(ctx context.Context) (domain.Credential, error)
}

// API is the vendor client boundary. The dispatcher treats it as a black box
// returning structured success values or errors the classifier understands.
type API interface {
	Search(ctx context.Context, accessToken string, op domain.Operation) ([]json.RawMessage, error)
	Mutate(ctx context.Context, accessToken string, op domain.Operation) (*BatchResponse, error)
}

// ClassifyFunc maps a raw remote failure into the closed taxonomy.
type ClassifyFunc func(error) *domain.ClassifiedFailure

// AuditSink records terminal outcomes. Recording is best effort.
type AuditSink interface {
	Record(ctx context.Context, entry *domain.AuditEntry) error
}

// Dispatcher owns the lifecycle of a single logical operation:
// PENDING → CREDENTIAL_READY → IN_FLIGHT → {SUCCEEDED | RETRY_SCHEDULED → … | FAILED}.
// Callers only ever see the terminal Outcome.
type Dispatcher struct {
	creds    CredentialSource
	api      API
	classify ClassifyFunc
	retry    *Controller
	log      *slog.Logger

	audit AuditSink
	sleep func(ctx context.Context, d time.Duration) error
}

// NewDispatcher creates a dispatcher. classify must be a pure function.
func NewDispatcher(creds CredentialSource, api API, classify ClassifyFunc, cfg RetryConfig) *Dispatcher {
	return &Dispatcher{
		creds:    creds,
		api:      api,
		classify: classify,
		retry:    NewController(cfg),
		log:      slog.Default(),
		sleep:    sleepCtx,
	}
}

// SetLogger replaces the default logger.
func (d *Dispatcher) SetLogger(log *slog.Logger) {
	if log != nil {
		d.log = log
	}
}

// SetAudit attaches an audit sink for terminal outcomes.
func (d *Dispatcher) SetAudit(a AuditSink) { d.audit = a }

// Execute runs op to a terminal Outcome. tool names the calling tool and is
// used only for logs, metrics and the audit trail.
func (d *Dispatcher) Execute(ctx context.Context, tool string, op domain.Operation) domain.Outcome {
	if op.CorrelationID == "" {
		op.CorrelationID = uuid.New().String()
	}
	log := d.log.With("tool", tool, "kind", op.Kind, "customer_id", op.CustomerID, "correlation_id", op.CorrelationID)
	start := time.Now()

	state := StatePending
	rs := &RetryState{}
	var (
		cred domain.Credential
		out  domain.Outcome
		wait time.Duration
	)

	for {
		switch state {
		case StatePending:
			c, err := d.creds.Credential(ctx)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					// The caller gave up while awaiting the
					// credential; nothing was sent upstream.
					out = failedOutcome(&domain.ClassifiedFailure{
						Kind:    domain.FailureUnknown,
						Message: "operation cancelled while awaiting credential",
					})
					state = StateFailed
					continue
				}
				// Credentials are a precondition, not a transient
				// fault: no retry.
				out = failedOutcome(&domain.ClassifiedFailure{
					Kind:    domain.FailureAuth,
					Message: err.Error(),
				})
				state = StateFailed
				continue
			}
			cred = c
			state = StateCredentialReady

		case StateCredentialReady:
			state = StateInFlight

		case StateInFlight:
			rs.Attempts++
			var callErr error
			if op.Kind.IsMutate() {
				var resp *BatchResponse
				resp, callErr = d.api.Mutate(ctx, cred.AccessToken, op)
				if callErr == nil {
					out = reconcileBatch(op, resp)
					state = StateSucceeded
					continue
				}
			} else {
				var rows []json.RawMessage
				rows, callErr = d.api.Search(ctx, cred.AccessToken, op)
				if callErr == nil {
					out = domain.Outcome{Status: domain.OutcomeSucceeded, Rows: rows}
					state = StateSucceeded
					continue
				}
			}

			if ctx.Err() != nil && op.Kind.IsMutate() {
				// The call was cancelled in flight; the remote effect
				// may or may not have applied. Never guess, never retry.
				out = failedOutcome(&domain.ClassifiedFailure{
					Kind:    domain.FailureIndeterminate,
					Message: "operation cancelled while in flight; remote effect unknown",
				})
				state = StateFailed
				continue
			}

			failure := d.classify(callErr)
			metrics.APIErrorsTotal.WithLabelValues(string(failure.Kind)).Inc()
			if failure.Kind == domain.FailureAuth {
				// The token was rejected upstream; drop it so the next
				// credential fetch refreshes instead of replaying it.
				if inv, ok := d.creds.(interface{ Invalidate() }); ok {
					inv.Invalidate()
				}
			}
			action, w := d.retry.Next(rs, failure)
			if action == ActionGiveUp {
				out = failedOutcome(failure)
				state = StateFailed
				continue
			}
			wait = w
			metrics.RetriesTotal.WithLabelValues(string(failure.Kind)).Inc()
			log.Warn("retrying after failure",
				"attempt", rs.Attempts,
				"failure_kind", failure.Kind,
				"wait", wait,
			)
			state = StateRetryScheduled

		case StateRetryScheduled:
			if err := d.sleep(ctx, wait); err != nil {
				failure := rs.LastFailure
				if failure == nil {
					failure = &domain.ClassifiedFailure{Kind: domain.FailureUnknown, Message: err.Error()}
				}
				out = failedOutcome(failure)
				state = StateFailed
				continue
			}
			// The wait may have crossed the credential expiry boundary;
			// re-check before the next attempt.
			state = StatePending

		case StateSucceeded, StateFailed:
			out.Attempts = rs.Attempts
			out.CorrelationID = op.CorrelationID
			d.finish(ctx, log, tool, op, out, time.Since(start))
			return out
		}
	}
}

func (d *Dispatcher) finish(ctx context.Context, log *slog.Logger, tool string, op domain.Operation, out domain.Outcome, elapsed time.Duration) {
	metrics.OperationsTotal.WithLabelValues(string(op.Kind), string(out.Status)).Inc()

	if out.Status == domain.OutcomeFailed {
		log.Error("operation failed",
			"attempts", out.Attempts,
			"failure_kind", out.Failure.Kind,
			"error", out.Failure.Message,
			"elapsed", elapsed,
		)
	} else {
		log.Debug("operation resolved", "status", out.Status, "attempts", out.Attempts, "elapsed", elapsed)
	}

	if d.audit == nil {
		return
	}
	entry := &domain.AuditEntry{
		ID:            uuid.New().String(),
		Tool:          tool,
		CustomerID:    op.CustomerID,
		Kind:          op.Kind,
		CorrelationID: op.CorrelationID,
		Status:        out.Status,
		Attempts:      out.Attempts,
		DurationMs:    elapsed.Milliseconds(),
		CreatedAt:     time.Now().UTC(),
	}
	if out.Failure != nil {
		entry.FailureKind = string(out.Failure.Kind)
		entry.Message = out.Failure.Message
	}
	// The caller's context may already be cancelled; audit on its own clock.
	auditCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := d.audit.Record(auditCtx, entry); err != nil {
		log.Warn("audit record failed", "error", err)
	}
}

func failedOutcome(f *domain.ClassifiedFailure) domain.Outcome {
	return domain.Outcome{Status: domain.OutcomeFailed, Failure: f}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
