package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ticketflow/internal/models"

	"github.com/rs/zerolog"
)

// TicketStore adapts the raw pending/processed tables to ticket
// operations. It owns the column mapping and the pending predicate; the
// orchestrator owns every lifecycle decision.
type TicketStore struct {
	pending   Table
	processed Table
	logger    zerolog.Logger
	now       func() time.Time
}

// NewTicketStore creates a ticket store over the two tables.
func NewTicketStore(pending, processed Table, logger zerolog.Logger) *TicketStore {
	return &TicketStore{
		pending:   pending,
		processed: processed,
		logger:    logger,
		now:       time.Now,
	}
}

// FetchPending returns every ticket still satisfying the pending
// predicate: sentiment or auto-reply empty. The snapshot is not
// restartable; call again for current state.
func (s *TicketStore) FetchPending(ctx context.Context) ([]models.Ticket, error) {
	if err := s.pending.Ensure(ctx); err != nil {
		return nil, err
	}

	rows, err := s.pending.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch pending tickets: %w", err)
	}

	tickets := make([]models.Ticket, 0, len(rows))
	for _, row := range rows {
		t := rowToTicket(row)
		if t.IsPending() {
			tickets = append(tickets, t)
		}
	}
	return tickets, nil
}

// FetchProcessed returns every archived ticket, unfiltered.
func (s *TicketStore) FetchProcessed(ctx context.Context) ([]models.Ticket, error) {
	if err := s.processed.Ensure(ctx); err != nil {
		return nil, err
	}

	rows, err := s.processed.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch processed tickets: %w", err)
	}

	tickets := make([]models.Ticket, 0, len(rows))
	for _, row := range rows {
		tickets = append(tickets, rowToTicket(row))
	}
	return tickets, nil
}

// FilterProcessed returns archived tickets whose classifier-assigned
// issue type is in issueTypes (empty set means all) and whose archival
// timestamp falls within [from, to] inclusive (zero bounds are open).
func (s *TicketStore) FilterProcessed(ctx context.Context, issueTypes []string, from, to time.Time) ([]models.Ticket, error) {
	tickets, err := s.FetchProcessed(ctx)
	if err != nil {
		return nil, err
	}

	wanted := make(map[string]bool, len(issueTypes))
	for _, it := range issueTypes {
		wanted[it] = true
	}

	filtered := make([]models.Ticket, 0, len(tickets))
	for _, t := range tickets {
		if len(wanted) > 0 && !wanted[t.IssueTypeLabel] {
			continue
		}
		if !from.IsZero() && t.CreatedAt.Before(from) {
			continue
		}
		if !to.IsZero() && t.CreatedAt.After(to) {
			continue
		}
		filtered = append(filtered, t)
	}
	return filtered, nil
}

// AppendPending inserts a newly submitted ticket with empty analysis
// fields and returns its row handle.
func (s *TicketStore) AppendPending(ctx context.Context, t models.Ticket) (RowID, error) {
	if err := s.pending.Ensure(ctx); err != nil {
		return 0, err
	}

	created := t.CreatedAt
	if created.IsZero() {
		created = s.now()
	}

	cells := make([]string, NumColumns)
	cells[ColTimestamp] = created.Format(models.TimestampLayout)
	cells[ColName] = t.Name
	cells[ColEmail] = t.Email
	cells[ColIssueType] = t.IssueTypeRequested
	cells[ColMessage] = t.Message

	id, err := s.pending.Append(ctx, cells)
	if err != nil {
		return 0, fmt.Errorf("append pending ticket: %w", err)
	}
	return id, nil
}

// UpdatePending overwrites the three analysis cells of a pending row.
// Repeating the call with the same values is a no-op. A stale handle is
// surfaced as an error, never retried here.
func (s *TicketStore) UpdatePending(ctx context.Context, id RowID, sentiment, issueType, reply string) error {
	if err := s.pending.Ensure(ctx); err != nil {
		return err
	}

	return s.pending.UpdateCells(ctx, id, map[int]string{
		ColSentiment:      sentiment,
		ColIssueTypeLabel: issueType,
		ColAutoReply:      reply,
	})
}

// AppendProcessed inserts a fully populated archival row. The archival
// timestamp is assigned here, at append time.
func (s *TicketStore) AppendProcessed(ctx context.Context, t models.Ticket, sentiment, issueType, reply string) error {
	if err := s.processed.Ensure(ctx); err != nil {
		return err
	}

	cells := make([]string, NumColumns)
	cells[ColTimestamp] = s.now().Format(models.TimestampLayout)
	cells[ColName] = t.Name
	cells[ColEmail] = t.Email
	cells[ColIssueType] = t.IssueTypeRequested
	cells[ColMessage] = t.Message
	cells[ColSentiment] = sentiment
	cells[ColIssueTypeLabel] = issueType
	cells[ColAutoReply] = reply

	if _, err := s.processed.Append(ctx, cells); err != nil {
		return fmt.Errorf("append processed ticket: %w", err)
	}
	return nil
}

// DeletePending removes a row from the pending table. Deleting an
// already-absent row is benign: the desired end state holds, so it is
// logged and swallowed.
func (s *TicketStore) DeletePending(ctx context.Context, id RowID) error {
	if err := s.pending.Ensure(ctx); err != nil {
		return err
	}

	if err := s.pending.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrRowNotFound) {
			s.logger.Warn().Int64("row", int64(id)).Msg("Pending row already deleted")
			return nil
		}
		return err
	}
	return nil
}

// rowToTicket maps a raw row onto the ticket entity. An unparseable
// timestamp cell becomes a zero time rather than an error.
func rowToTicket(row Row) models.Ticket {
	t := models.Ticket{
		Row:                int64(row.ID),
		Name:               cell(row.Cells, ColName),
		Email:              cell(row.Cells, ColEmail),
		IssueTypeRequested: cell(row.Cells, ColIssueType),
		Message:            cell(row.Cells, ColMessage),
		Sentiment:          cell(row.Cells, ColSentiment),
		IssueTypeLabel:     cell(row.Cells, ColIssueTypeLabel),
		AutoReply:          cell(row.Cells, ColAutoReply),
	}

	if raw := cell(row.Cells, ColTimestamp); raw != "" {
		if ts, err := time.Parse(models.TimestampLayout, raw); err == nil {
			t.CreatedAt = ts
		}
	}
	return t
}

func cell(cells []string, col int) string {
	if col < len(cells) {
		return cells[col]
	}
	return ""
}
