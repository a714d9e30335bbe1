package conversation_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/PabloGalante/syntax-chat/internal/app/conversation"
	"github.com/PabloGalante/syntax-chat/internal/domain"
)

func TestStoreAppendUserRejectsBlank(t *testing.T) {
	s := conversation.NewStore()

	for _, text := range []string{"", "   ", "\t\n"} {
		if s.AppendUser(text) {
			t.Errorf("AppendUser(%q) accepted blank text", text)
		}
	}
	if s.Len() != 0 {
		t.Fatalf("expected empty transcript, got %d", s.Len())
	}

	if !s.AppendUser("  hi  ") {
		t.Fatal("expected non-blank text to be accepted")
	}
	if got := s.Snapshot()[0].Content; got != "  hi  " {
		t.Errorf("content should be kept as given, got %q", got)
	}
}

func TestStoreAppendAssistantNeedsUser(t *testing.T) {
	s := conversation.NewStore()

	if err := s.AppendAssistant("orphan"); !errors.Is(err, conversation.ErrNoPendingUser) {
		t.Fatalf("expected ErrNoPendingUser, got %v", err)
	}

	s.AppendUser("Hello")
	if err := s.AppendAssistant("Hi there"); err != nil {
		t.Fatalf("AppendAssistant failed: %v", err)
	}
	if err := s.AppendAssistant("again"); !errors.Is(err, conversation.ErrNoPendingUser) {
		t.Fatalf("expected ErrNoPendingUser after assistant, got %v", err)
	}

	want := domain.Transcript{
		{Role: domain.RoleUser, Content: "Hello"},
		{Role: domain.RoleAssistant, Content: "Hi there"},
	}
	if got := s.Snapshot(); !reflect.DeepEqual(got, want) {
		t.Errorf("transcript = %v, want %v", got, want)
	}

	wantDisplay := []domain.DisplayEntry{
		{Label: domain.LabelUser, Content: "Hello"},
		{Label: domain.LabelBot, Content: "Hi there"},
	}
	if got := s.DisplayLog(); !reflect.DeepEqual(got, wantDisplay) {
		t.Errorf("display = %v, want %v", got, wantDisplay)
	}
}

func TestStoreResetIsIdempotent(t *testing.T) {
	s := conversation.NewStore()
	s.AppendUser("a")
	_ = s.AppendAssistant("b")

	s.Reset()
	s.Reset()

	if len(s.Snapshot()) != 0 || len(s.DisplayLog()) != 0 {
		t.Fatal("expected transcript and display log to be empty after reset")
	}
}

func TestStoreSnapshotIsCopy(t *testing.T) {
	s := conversation.NewStore()
	s.AppendUser("a")

	first := s.Snapshot()
	second := s.Snapshot()
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("snapshots differ: %v vs %v", first, second)
	}

	first[0].Content = "mutated"
	if s.Snapshot()[0].Content != "a" {
		t.Fatal("snapshot must not alias the transcript")
	}
}

func TestStoreActivityLogNewestFirst(t *testing.T) {
	s := conversation.NewStore()
	for _, q := range []string{"one", "two", "three"} {
		s.AppendUser(q)
		_ = s.AppendAssistant("ok")
	}

	want := []domain.ActivityItem{
		{Number: 3, Query: "three"},
		{Number: 2, Query: "two"},
		{Number: 1, Query: "one"},
	}
	if got := s.ActivityLog(); !reflect.DeepEqual(got, want) {
		t.Errorf("activity = %v, want %v", got, want)
	}
}
