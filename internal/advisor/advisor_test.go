package advisor

import (
	"context"
	"errors"
	"testing"
	"time"

	"acionista/internal/domain"

	"github.com/openai/openai-go"
	"go.opentelemetry.io/otel/trace"
)

func TestAskHappyPath(t *testing.T) {
	llm := &stubLLMClient{
		response: &openai.ChatCompletion{
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Content: "TAEE11 is a consistent payer"}},
			},
		},
	}
	store := &stubConvStore{}
	portfolio := &stubPortfolio{positions: []domain.Position{
		{Ticker: "TAEE11", Quantity: 100, AverageCost: 35},
	}}
	dividends := &stubDividends{history: domain.DividendHistory{
		Ticker: "TAEE11", YearsPaying: 8, Consistent5Y: true, AvgYield3YPct: 9.5,
	}}

	svc := NewAdvisorService(
		trace.NewNoopTracerProvider().Tracer("test"),
		llm, portfolio, dividends, store, "gpt-4o-mini", 20,
	)

	reply, err := svc.Ask(context.Background(), 123, "What about TAEE11?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply != "TAEE11 is a consistent payer" {
		t.Fatalf("unexpected reply: %q", reply)
	}
	// Verify messages were stored (user + assistant)
	if len(store.messages) != 2 {
		t.Fatalf("expected 2 stored messages, got %d", len(store.messages))
	}
	if store.messages[0].role != "user" {
		t.Fatalf("expected first stored message role=user, got %s", store.messages[0].role)
	}
	if store.messages[1].role != "assistant" {
		t.Fatalf("expected second stored message role=assistant, got %s", store.messages[1].role)
	}
	if dividends.calls != 1 {
		t.Fatalf("expected one dividend lookup for the mentioned ticker, got %d", dividends.calls)
	}
}

func TestAskLLMError(t *testing.T) {
	llm := &stubLLMClient{err: errors.New("api down")}
	store := &stubConvStore{}

	svc := NewAdvisorService(
		trace.NewNoopTracerProvider().Tracer("test"),
		llm, &stubPortfolio{}, &stubDividends{}, store, "gpt-4o-mini", 20,
	)

	_, err := svc.Ask(context.Background(), 123, "What looks good?")
	if err == nil {
		t.Fatal("expected error from LLM failure")
	}
	// User message should still have been stored
	if len(store.messages) != 1 || store.messages[0].role != "user" {
		t.Fatalf("expected user message to be stored despite LLM error, got %d messages", len(store.messages))
	}
}

func TestAskConversationStoreFailureNonFatal(t *testing.T) {
	llm := &stubLLMClient{
		response: &openai.ChatCompletion{
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Content: "response"}},
			},
		},
	}
	store := &stubConvStore{appendErr: errors.New("db down")}

	svc := NewAdvisorService(
		trace.NewNoopTracerProvider().Tracer("test"),
		llm, &stubPortfolio{}, &stubDividends{}, store, "gpt-4o-mini", 20,
	)

	reply, err := svc.Ask(context.Background(), 123, "test")
	if err != nil {
		t.Fatalf("store failure should be non-fatal, got: %v", err)
	}
	if reply != "response" {
		t.Fatalf("expected 'response', got %q", reply)
	}
}

func TestAskContextGatheringFailure(t *testing.T) {
	llm := &stubLLMClient{
		response: &openai.ChatCompletion{
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Content: "no data available"}},
			},
		},
	}
	portfolio := &stubPortfolio{err: errors.New("ledger unavailable")}

	svc := NewAdvisorService(
		trace.NewNoopTracerProvider().Tracer("test"),
		llm, portfolio, &stubDividends{}, &stubConvStore{}, "gpt-4o-mini", 20,
	)

	reply, err := svc.Ask(context.Background(), 123, "What looks good?")
	if err != nil {
		t.Fatalf("context failure should be non-fatal, got: %v", err)
	}
	if reply != "no data available" {
		t.Fatalf("expected 'no data available', got %q", reply)
	}
}

func TestAskDefaultMaxHistory(t *testing.T) {
	svc := NewAdvisorService(
		trace.NewNoopTracerProvider().Tracer("test"),
		&stubLLMClient{}, &stubPortfolio{}, &stubDividends{}, &stubConvStore{},
		"gpt-4o-mini", 0,
	)
	if svc.maxHistory != 20 {
		t.Fatalf("expected default maxHistory=20, got %d", svc.maxHistory)
	}
}

// --- stubs ---

type stubLLMClient struct {
	response *openai.ChatCompletion
	err      error
}

func (s *stubLLMClient) CreateChatCompletion(ctx context.Context, params openai.ChatCompletionNewParams) (*openai.ChatCompletion, error) {
	return s.response, s.err
}

type storedMsg struct {
	chatID  int64
	role    string
	content string
}

type stubConvStore struct {
	messages  []storedMsg
	appendErr error
	recentErr error
}

func (s *stubConvStore) AppendMessage(ctx context.Context, chatID int64, role, content string) error {
	if s.appendErr != nil {
		return s.appendErr
	}
	s.messages = append(s.messages, storedMsg{chatID: chatID, role: role, content: content})
	return nil
}

func (s *stubConvStore) RecentMessages(ctx context.Context, chatID int64, limit int) ([]domain.ConversationMessage, error) {
	if s.recentErr != nil {
		return nil, s.recentErr
	}
	var msgs []domain.ConversationMessage
	for _, m := range s.messages {
		if m.chatID == chatID {
			msgs = append(msgs, domain.ConversationMessage{
				Role:      m.role,
				Content:   m.content,
				CreatedAt: time.Now(),
			})
		}
	}
	if len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	return msgs, nil
}

type stubPortfolio struct {
	positions []domain.Position
	err       error
}

func (s *stubPortfolio) Positions(ctx context.Context) ([]domain.Position, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.positions, nil
}

type stubDividends struct {
	history domain.DividendHistory
	calls   int
	err     error
}

func (s *stubDividends) History(ctx context.Context, ticker string) (domain.DividendHistory, error) {
	s.calls++
	if s.err != nil {
		return domain.DividendHistory{}, s.err
	}
	return s.history, nil
}
