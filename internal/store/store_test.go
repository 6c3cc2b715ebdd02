package store

import (
	"context"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestAppendAndQueryLLMEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		err := repo.AppendLLMRequest(ctx, LLMRequestEventData{
			Provider:     "openrouter",
			Model:        "meta-llama/llama-3.3-70b-instruct:free",
			Purpose:      "interview-turn",
			InputTokens:  100 + i,
			OutputTokens: 50,
			LatencyMs:    800,
			Success:      true,
		})
		if err != nil {
			t.Fatalf("AppendLLMRequest() error = %v", err)
		}
	}

	events, err := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 10})
	if err != nil {
		t.Fatalf("QueryLLMEvents() error = %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("got %d events, want 3", len(events))
	}
	// Newest first: the last append has the highest input token count.
	if events[0].InputTokens != 102 {
		t.Errorf("events[0].InputTokens = %d, want 102", events[0].InputTokens)
	}
	if events[0].Sequence <= events[1].Sequence {
		t.Errorf("expected descending sequence, got %d then %d", events[0].Sequence, events[1].Sequence)
	}
	if !events[0].Success {
		t.Error("expected Success = true")
	}
}

func TestQueryLLMEventsLimit(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if err := repo.AppendLLMRequest(ctx, LLMRequestEventData{Provider: "openai", Model: "gpt-4o", Purpose: "eval", Success: true}); err != nil {
			t.Fatalf("AppendLLMRequest() error = %v", err)
		}
	}

	events, err := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 2})
	if err != nil {
		t.Fatalf("QueryLLMEvents() error = %v", err)
	}
	if len(events) != 2 {
		t.Errorf("got %d events, want 2", len(events))
	}
}

func TestGetLLMEvent(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	err := repo.AppendLLMRequest(ctx, LLMRequestEventData{
		Provider:     "anthropic",
		Model:        "claude-sonnet-4-20250514",
		Purpose:      "summary",
		Success:      false,
		ErrorMessage: "rate limited",
	})
	if err != nil {
		t.Fatalf("AppendLLMRequest() error = %v", err)
	}

	events, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("QueryLLMEvents() error = %v", err)
	}
	got, err := repo.GetLLMEvent(ctx, events[0].ID)
	if err != nil {
		t.Fatalf("GetLLMEvent() error = %v", err)
	}
	if got == nil {
		t.Fatal("GetLLMEvent() = nil, want event")
	}
	if got.ErrorMessage != "rate limited" {
		t.Errorf("ErrorMessage = %q, want %q", got.ErrorMessage, "rate limited")
	}

	missing, err := repo.GetLLMEvent(ctx, 99999)
	if err != nil {
		t.Fatalf("GetLLMEvent(missing) error = %v", err)
	}
	if missing != nil {
		t.Errorf("GetLLMEvent(missing) = %+v, want nil", missing)
	}
}

func TestLLMUsageByPurpose(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	appends := []LLMRequestEventData{
		{Provider: "openrouter", Model: "m", Purpose: "interview-turn", InputTokens: 10, OutputTokens: 5, LatencyMs: 100, Success: true},
		{Provider: "openrouter", Model: "m", Purpose: "interview-turn", InputTokens: 20, OutputTokens: 10, LatencyMs: 300, Success: true},
		{Provider: "openrouter", Model: "m", Purpose: "summary", InputTokens: 7, OutputTokens: 3, LatencyMs: 50, Success: true},
	}
	for _, a := range appends {
		if err := repo.AppendLLMRequest(ctx, a); err != nil {
			t.Fatalf("AppendLLMRequest() error = %v", err)
		}
	}

	usage, err := repo.LLMUsageByPurpose(ctx)
	if err != nil {
		t.Fatalf("LLMUsageByPurpose() error = %v", err)
	}
	if len(usage) != 2 {
		t.Fatalf("got %d usage rows, want 2", len(usage))
	}
	// Ordered by purpose: "interview-turn" before "summary".
	if usage[0].Purpose != "interview-turn" || usage[0].Calls != 2 {
		t.Errorf("usage[0] = %+v, want interview-turn with 2 calls", usage[0])
	}
	if usage[0].InputTokens != 30 {
		t.Errorf("usage[0].InputTokens = %d, want 30", usage[0].InputTokens)
	}
	if usage[0].AvgLatencyMs != 200 {
		t.Errorf("usage[0].AvgLatencyMs = %d, want 200", usage[0].AvgLatencyMs)
	}
}

func TestSessionEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	session := "s-1"
	appends := []SessionEventData{
		{SessionID: session, Action: "start", Mode: "interview", Topic: "Go", Difficulty: "Medium"},
		{SessionID: session, Action: "stage-result", Stage: "technical", Outcome: "pass", Score: 85},
		{SessionID: session, Action: "end", Outcome: "pass", Score: 85},
		{SessionID: "other", Action: "start"},
	}
	for _, a := range appends {
		if err := repo.AppendSessionEvent(ctx, a); err != nil {
			t.Fatalf("AppendSessionEvent() error = %v", err)
		}
	}

	events, err := repo.QuerySessionEvents(ctx, session)
	if err != nil {
		t.Fatalf("QuerySessionEvents() error = %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("got %d events, want 3", len(events))
	}
	if events[0].Action != "start" || events[2].Action != "end" {
		t.Errorf("wrong ordering: first=%q last=%q", events[0].Action, events[2].Action)
	}
	if events[1].Score != 85 || events[1].Stage != "technical" {
		t.Errorf("stage-result = %+v", events[1])
	}
}

func TestSequenceInterleavesAcrossTables(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	if err := repo.AppendLLMRequest(ctx, LLMRequestEventData{Provider: "p", Model: "m", Purpose: "x", Success: true}); err != nil {
		t.Fatalf("AppendLLMRequest() error = %v", err)
	}
	if err := repo.AppendSessionEvent(ctx, SessionEventData{SessionID: "s", Action: "start"}); err != nil {
		t.Fatalf("AppendSessionEvent() error = %v", err)
	}

	llm, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("QueryLLMEvents() error = %v", err)
	}
	sess, err := repo.QuerySessionEvents(ctx, "s")
	if err != nil {
		t.Fatalf("QuerySessionEvents() error = %v", err)
	}
	if sess[0].Sequence <= llm[0].Sequence {
		t.Errorf("session sequence %d should be after llm sequence %d", sess[0].Sequence, llm[0].Sequence)
	}
}

func TestLLMUsageByModel(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	appends := []LLMRequestEventData{
		{Provider: "openrouter", Model: "meta-llama/llama-3.3-70b-instruct:free", Purpose: "interview-turn", InputTokens: 100, OutputTokens: 40, Success: true},
		{Provider: "openrouter", Model: "meta-llama/llama-3.3-70b-instruct:free", Purpose: "summary", InputTokens: 50, OutputTokens: 20, Success: true},
		{Provider: "anthropic", Model: "claude-sonnet-4-5", Purpose: "interview-turn", InputTokens: 30, OutputTokens: 10, Success: true},
	}
	for _, a := range appends {
		if err := repo.AppendLLMRequest(ctx, a); err != nil {
			t.Fatalf("AppendLLMRequest() error = %v", err)
		}
	}

	usage, err := repo.LLMUsageByModel(ctx)
	if err != nil {
		t.Fatalf("LLMUsageByModel() error = %v", err)
	}
	if len(usage) != 2 {
		t.Fatalf("got %d usage rows, want 2", len(usage))
	}
	// Ordered by model name.
	if usage[0].Model != "claude-sonnet-4-5" || usage[0].Calls != 1 {
		t.Errorf("usage[0] = %+v, want claude-sonnet-4-5 with 1 call", usage[0])
	}
	if usage[1].Model != "meta-llama/llama-3.3-70b-instruct:free" || usage[1].Calls != 2 {
		t.Errorf("usage[1] = %+v, want llama model with 2 calls", usage[1])
	}
	if usage[1].InputTokens != 150 || usage[1].OutputTokens != 60 {
		t.Errorf("usage[1] tokens = %d/%d, want 150/60", usage[1].InputTokens, usage[1].OutputTokens)
	}
}

func TestRecentSessionEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	appends := []SessionEventData{
		{SessionID: "s-1", Action: "start", Mode: "interview"},
		{SessionID: "s-1", Action: "end", Outcome: "passed", Score: 88},
		{SessionID: "s-2", Action: "start", Mode: "tutoring"},
	}
	for _, a := range appends {
		if err := repo.AppendSessionEvent(ctx, a); err != nil {
			t.Fatalf("AppendSessionEvent() error = %v", err)
		}
	}

	events, err := repo.RecentSessionEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("RecentSessionEvents() error = %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("got %d events, want 3", len(events))
	}
	// Newest first, across sessions.
	if events[0].SessionID != "s-2" || events[0].Action != "start" {
		t.Errorf("events[0] = %+v, want s-2 start", events[0])
	}
	if events[2].SessionID != "s-1" || events[2].Action != "start" {
		t.Errorf("events[2] = %+v, want s-1 start", events[2])
	}

	limited, err := repo.RecentSessionEvents(ctx, QueryOpts{Limit: 1})
	if err != nil {
		t.Fatalf("RecentSessionEvents() error = %v", err)
	}
	if len(limited) != 1 || limited[0].Action != "start" || limited[0].SessionID != "s-2" {
		t.Fatalf("limited = %+v, want only the newest event", limited)
	}
}
