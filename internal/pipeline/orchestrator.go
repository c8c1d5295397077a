// Package pipeline drives a ticket through its lifecycle:
// classify, generate reply, deliver, persist, archive, evict.
// The backing store has no transactions, so the ordering here is what
// keeps a crash from losing tickets: a pending row is never deleted
// until the archival append has returned without error. The worst case
// is a ticket present in both tables, which is detectable; absence from
// both is not possible.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"ticketflow/internal/models"
	"ticketflow/internal/store"

	"github.com/rs/zerolog"
)

// ReplySubject is the subject line of every reply email.
const ReplySubject = "Regarding Your Support Ticket"

// ErrNotPending is reported for a selected ticket that is no longer in
// the pending queue when its turn comes.
var ErrNotPending = errors.New("ticket is no longer pending")

// Classifier assigns sentiment and issue type to ticket text. It
// degrades internally and never fails.
type Classifier interface {
	Classify(ctx context.Context, message string) models.Classification
}

// ReplyGenerator produces the reply text. It degrades internally and
// never fails.
type ReplyGenerator interface {
	Generate(ctx context.Context, name, message string) string
}

// Sender delivers a reply email. A returned error blocks archival.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// TicketStore is the persistence surface the orchestrator drives.
type TicketStore interface {
	FetchPending(ctx context.Context) ([]models.Ticket, error)
	UpdatePending(ctx context.Context, id store.RowID, sentiment, issueType, reply string) error
	AppendProcessed(ctx context.Context, t models.Ticket, sentiment, issueType, reply string) error
	DeletePending(ctx context.Context, id store.RowID) error
}

// DeliveryError marks a delivery failure; the ticket stays pending and
// nothing is persisted for it in this run.
type DeliveryError struct {
	Email string
	Err   error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("failed to deliver reply to %s: %v", e.Email, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

// Result is the outcome of processing one ticket.
type Result struct {
	Key   string
	Email string
	Err   error
}

// Summary aggregates a processing run.
type Summary struct {
	Succeeded int
	Failed    int
	Results   []Result
}

// Orchestrator owns every ticket lifecycle transition. It is the single
// copy of the classify, reply, send, archive sequence, parameterized by
// selection mode.
type Orchestrator struct {
	store      TicketStore
	classifier Classifier
	replies    ReplyGenerator
	sender     Sender
	logger     zerolog.Logger
}

// New creates an orchestrator.
func New(st TicketStore, classifier Classifier, replies ReplyGenerator, sender Sender, logger zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		store:      st,
		classifier: classifier,
		replies:    replies,
		sender:     sender,
		logger:     logger,
	}
}

// ProcessTicket runs one ticket end to end. The ticket must come from a
// fresh pending read; its row handle is not valid across other
// mutations. Analysis results live in memory until delivery succeeds;
// on delivery failure nothing new is persisted and the ticket remains
// eligible for re-selection, which is the system's retry mechanism.
func (o *Orchestrator) ProcessTicket(ctx context.Context, t models.Ticket) error {
	log := o.logger.With().Str("email", t.Email).Int64("row", t.Row).Logger()

	sentiment, issueType := t.Sentiment, t.IssueTypeLabel
	if sentiment == "" || issueType == "" {
		c := o.classifier.Classify(ctx, t.Message)
		sentiment, issueType = c.Sentiment, c.IssueType
		log.Info().Str("sentiment", sentiment).Str("issue_type", issueType).Msg("Ticket classified")
	}

	reply := t.AutoReply
	if reply == "" {
		reply = o.replies.Generate(ctx, t.Name, t.Message)
		log.Info().Int("reply_chars", len(reply)).Msg("Reply generated")
	}

	if err := o.sender.Send(ctx, t.Email, ReplySubject, reply); err != nil {
		log.Error().Err(err).Msg("Reply delivery failed, ticket stays pending")
		return &DeliveryError{Email: t.Email, Err: err}
	}
	log.Info().Msg("Reply delivered")

	// Safe to repeat with identical values if a later step fails and
	// the ticket is reprocessed.
	if err := o.store.UpdatePending(ctx, store.RowID(t.Row), sentiment, issueType, reply); err != nil {
		return fmt.Errorf("persist classification: %w", err)
	}

	// Archive strictly before evicting. Duplication across both tables
	// is acceptable; loss is not.
	if err := o.store.AppendProcessed(ctx, t, sentiment, issueType, reply); err != nil {
		return fmt.Errorf("archive ticket: %w", err)
	}

	if err := o.store.DeletePending(ctx, store.RowID(t.Row)); err != nil {
		return fmt.Errorf("evict pending row: %w", err)
	}

	log.Info().Msg("Ticket archived and evicted from pending queue")
	return nil
}

// ProcessSelected processes the tickets identified by the given keys.
// Each ticket is re-resolved from a fresh pending read immediately
// before processing, because evicting one ticket can shift every other
// row handle. Tickets are independent: one failure never aborts the
// rest.
func (o *Orchestrator) ProcessSelected(ctx context.Context, keys []string) Summary {
	var summary Summary
	for _, key := range keys {
		t, err := o.resolve(ctx, key)
		if err != nil {
			summary.add(Result{Key: key, Err: err})
			continue
		}
		summary.add(Result{Key: key, Email: t.Email, Err: o.ProcessTicket(ctx, t)})
	}

	o.logger.Info().Int("succeeded", summary.Succeeded).Int("failed", summary.Failed).Msg("Processing run complete")
	return summary
}

// ProcessAll drains the pending queue, processing each eligible ticket
// once. Tickets that fail stay pending and are not retried within the
// same run.
func (o *Orchestrator) ProcessAll(ctx context.Context) (Summary, error) {
	var summary Summary
	attempted := make(map[string]bool)

	for {
		pending, err := o.store.FetchPending(ctx)
		if err != nil {
			return summary, fmt.Errorf("fetch pending queue: %w", err)
		}

		var next *models.Ticket
		for i := range pending {
			if !attempted[pending[i].Key()] {
				next = &pending[i]
				break
			}
		}
		if next == nil {
			break
		}

		key := next.Key()
		attempted[key] = true
		summary.add(Result{Key: key, Email: next.Email, Err: o.ProcessTicket(ctx, *next)})
	}

	o.logger.Info().Int("succeeded", summary.Succeeded).Int("failed", summary.Failed).Msg("Pending queue drained")
	return summary, nil
}

// resolve finds the current pending ticket for a key, with a fresh row
// handle.
func (o *Orchestrator) resolve(ctx context.Context, key string) (models.Ticket, error) {
	pending, err := o.store.FetchPending(ctx)
	if err != nil {
		return models.Ticket{}, fmt.Errorf("fetch pending queue: %w", err)
	}
	for _, t := range pending {
		if t.Key() == key {
			return t, nil
		}
	}
	return models.Ticket{}, ErrNotPending
}

func (s *Summary) add(r Result) {
	s.Results = append(s.Results, r)
	if r.Err != nil {
		s.Failed++
	} else {
		s.Succeeded++
	}
}
