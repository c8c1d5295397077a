package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"ticketflow/internal/models"
	"ticketflow/internal/store"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClassifier struct {
	result models.Classification
	calls  int
}

func (f *fakeClassifier) Classify(_ context.Context, _ string) models.Classification {
	f.calls++
	return f.result
}

type fakeReplies struct {
	calls int
}

func (f *fakeReplies) Generate(_ context.Context, name, _ string) string {
	f.calls++
	return "Hi " + name + ", we are on it. Best regards, AI Support Team"
}

type fakeSender struct {
	failFor map[string]error
	sent    []string
}

func (f *fakeSender) Send(_ context.Context, to, _, _ string) error {
	if err, ok := f.failFor[to]; ok {
		return err
	}
	f.sent = append(f.sent, to)
	return nil
}

// failingStore injects store faults between pipeline steps.
type failingStore struct {
	*store.TicketStore
	failAppendProcessed error
	failDeletePending   error
}

func (s *failingStore) AppendProcessed(ctx context.Context, t models.Ticket, sentiment, issueType, reply string) error {
	if s.failAppendProcessed != nil {
		return s.failAppendProcessed
	}
	return s.TicketStore.AppendProcessed(ctx, t, sentiment, issueType, reply)
}

func (s *failingStore) DeletePending(ctx context.Context, id store.RowID) error {
	if s.failDeletePending != nil {
		return s.failDeletePending
	}
	return s.TicketStore.DeletePending(ctx, id)
}

type fixture struct {
	store        *store.TicketStore
	pendingTable *store.MemTable
	classifier   *fakeClassifier
	replies      *fakeReplies
	sender       *fakeSender
}

func newFixture() *fixture {
	pendingTable := store.NewMemTable("pending_tickets")
	return &fixture{
		store: store.NewTicketStore(
			pendingTable,
			store.NewMemTable("processed_tickets"),
			zerolog.Nop(),
		),
		pendingTable: pendingTable,
		classifier:   &fakeClassifier{result: models.Classification{Sentiment: "Negative", IssueType: "Billing"}},
		replies:      &fakeReplies{},
		sender:       &fakeSender{},
	}
}

func (f *fixture) orchestrator(st TicketStore) *Orchestrator {
	if st == nil {
		st = f.store
	}
	return New(st, f.classifier, f.replies, f.sender, zerolog.Nop())
}

func (f *fixture) submit(t *testing.T, name, email, message string) store.RowID {
	t.Helper()
	id, err := f.store.AppendPending(context.Background(), models.Ticket{
		Name:               name,
		Email:              email,
		IssueTypeRequested: "Billing",
		Message:            message,
	})
	require.NoError(t, err)
	return id
}

func (f *fixture) pending(t *testing.T) []models.Ticket {
	t.Helper()
	tickets, err := f.store.FetchPending(context.Background())
	require.NoError(t, err)
	return tickets
}

func (f *fixture) processed(t *testing.T) []models.Ticket {
	t.Helper()
	tickets, err := f.store.FetchProcessed(context.Background())
	require.NoError(t, err)
	return tickets
}

func TestOrchestrator_EndToEnd(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.submit(t, "Ana", "ana@x.com", "I was charged twice")

	require.Len(t, f.pending(t), 1)
	require.Empty(t, f.processed(t))

	summary, err := f.orchestrator(nil).ProcessAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Succeeded)
	assert.Equal(t, 0, summary.Failed)

	// Ticket moved to processed, gone from pending
	assert.Empty(t, f.pending(t))

	archived := f.processed(t)
	require.Len(t, archived, 1)
	assert.Equal(t, "Negative", archived[0].Sentiment)
	assert.Equal(t, "Billing", archived[0].IssueTypeLabel)
	assert.True(t, strings.HasPrefix(archived[0].AutoReply, "Hi Ana,"))
	assert.Equal(t, []string{"ana@x.com"}, f.sender.sent)
}

func TestOrchestrator_DeliveryFailureLeavesTicketPending(t *testing.T) {
	f := newFixture()
	f.sender.failFor = map[string]error{"ana@x.com": errors.New("smtp unreachable")}
	ctx := context.Background()

	f.submit(t, "Ana", "ana@x.com", "I was charged twice")

	summary, err := f.orchestrator(nil).ProcessAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Succeeded)
	assert.Equal(t, 1, summary.Failed)

	var deliveryErr *DeliveryError
	require.ErrorAs(t, summary.Results[0].Err, &deliveryErr)
	assert.Equal(t, "ana@x.com", deliveryErr.Email)

	// Not archived, not deleted; nothing persisted before delivery
	assert.Empty(t, f.processed(t))
	pending := f.pending(t)
	require.Len(t, pending, 1)
	assert.Empty(t, pending[0].Sentiment)
	assert.Empty(t, pending[0].AutoReply)
}

func TestOrchestrator_RetrySkipsReplyGenerationWhenReplySet(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	id := f.submit(t, "Ana", "ana@x.com", "I was charged twice")

	// A prior partial run persisted the reply but not the classification
	require.NoError(t, f.store.UpdatePending(ctx, id, "", "", "Hi Ana, earlier reply. Best regards, AI Support Team"))
	require.Len(t, f.pending(t), 1, "ticket with empty sentiment must still be selected")

	summary, err := f.orchestrator(nil).ProcessAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Succeeded)

	// Classification ran, reply generation did not
	assert.Equal(t, 1, f.classifier.calls)
	assert.Equal(t, 0, f.replies.calls)

	archived := f.processed(t)
	require.Len(t, archived, 1)
	assert.Equal(t, "Hi Ana, earlier reply. Best regards, AI Support Team", archived[0].AutoReply)
}

func TestOrchestrator_BatchOneFailureDoesNotAbortOthers(t *testing.T) {
	f := newFixture()
	f.sender.failFor = map[string]error{"ben@x.com": errors.New("mailbox full")}
	ctx := context.Background()

	f.submit(t, "Ana", "ana@x.com", "double charge")
	f.submit(t, "Ben", "ben@x.com", "login broken")
	f.submit(t, "Cid", "cid@x.com", "feature question")

	keys := make([]string, 0, 3)
	for _, ticket := range f.pending(t) {
		keys = append(keys, ticket.Key())
	}

	summary := f.orchestrator(nil).ProcessSelected(ctx, keys)

	assert.Equal(t, 2, summary.Succeeded)
	assert.Equal(t, 1, summary.Failed)

	pending := f.pending(t)
	require.Len(t, pending, 1)
	assert.Equal(t, "ben@x.com", pending[0].Email)
	assert.Len(t, f.processed(t), 2)
}

func TestOrchestrator_SelectedKeysSurviveRowShifts(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.submit(t, "Ana", "ana@x.com", "first")
	f.submit(t, "Ben", "ben@x.com", "second")
	f.submit(t, "Cid", "cid@x.com", "third")

	pending := f.pending(t)
	require.Len(t, pending, 3)

	// Evicting the first ticket shifts the third ticket's row handle;
	// selection by key must still land on the right ticket.
	summary := f.orchestrator(nil).ProcessSelected(ctx, []string{pending[0].Key(), pending[2].Key()})
	assert.Equal(t, 2, summary.Succeeded)
	assert.Equal(t, 0, summary.Failed)

	remaining := f.pending(t)
	require.Len(t, remaining, 1)
	assert.Equal(t, "ben@x.com", remaining[0].Email)

	archived := f.processed(t)
	require.Len(t, archived, 2)
	assert.ElementsMatch(t, []string{"ana@x.com", "cid@x.com"}, []string{archived[0].Email, archived[1].Email})
}

func TestOrchestrator_SelectedKeyNoLongerPending(t *testing.T) {
	f := newFixture()

	summary := f.orchestrator(nil).ProcessSelected(context.Background(), []string{"ghost@x.com|2024-05-01 10:00:00|hello"})

	assert.Equal(t, 0, summary.Succeeded)
	assert.Equal(t, 1, summary.Failed)
	assert.ErrorIs(t, summary.Results[0].Err, ErrNotPending)
}

func TestOrchestrator_ArchiveFailureBlocksEviction(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.submit(t, "Ana", "ana@x.com", "msg")

	faulty := &failingStore{TicketStore: f.store, failAppendProcessed: errors.New("processed table unreachable")}
	summary, err := f.orchestrator(faulty).ProcessAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Failed)

	// Never deleted from pending without a confirmed archive: the row
	// is still in the pending table (fully analyzed), not in processed,
	// and above all not absent from both.
	assert.Empty(t, f.processed(t))
	rows, err := f.pendingTable.ReadAll(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
}

func TestOrchestrator_EvictFailureLeavesTicketInBothTables(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.submit(t, "Ana", "ana@x.com", "msg")

	faulty := &failingStore{TicketStore: f.store, failDeletePending: errors.New("pending table unreachable")}
	summary, err := f.orchestrator(faulty).ProcessAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Failed)

	// Crash between archive and evict: duplicated, never lost
	archived := f.processed(t)
	assert.Len(t, archived, 1)
}

func TestOrchestrator_FetchErrorSurfaced(t *testing.T) {
	f := newFixture()

	_, err := f.orchestrator(&fetchFailingStore{}).ProcessAll(context.Background())
	assert.Error(t, err)
}

type fetchFailingStore struct{}

func (s *fetchFailingStore) FetchPending(context.Context) ([]models.Ticket, error) {
	return nil, errors.New("store unreachable")
}

func (s *fetchFailingStore) UpdatePending(context.Context, store.RowID, string, string, string) error {
	return nil
}

func (s *fetchFailingStore) AppendProcessed(context.Context, models.Ticket, string, string, string) error {
	return nil
}

func (s *fetchFailingStore) DeletePending(context.Context, store.RowID) error {
	return nil
}
