package repo

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/de-code-ninja/qurio-backend/internal/apperr"
	"github.com/de-code-ninja/qurio-backend/internal/db"
	"github.com/de-code-ninja/qurio-backend/internal/model"
)

// setupMessageRepo connects to the Mongo instance named by MONGO_TEST_URI and
// hands back a repository over a fresh collection. Skips when no instance is
// reachable.
func setupMessageRepo(t *testing.T) MessageRepository {
	t.Helper()

	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("Skipping: MONGO_TEST_URI not set")
	}

	con, err := db.OpenConnection(uri, "qurio_test")
	if err != nil {
		t.Skipf("Skipping: could not connect to test database: %v", err)
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := con.Collection("messages").Drop(ctx); err != nil {
		t.Fatalf("drop test collection: %v", err)
	}

	return NewMessageRepository(db.NewRepository[model.Message](con, "messages"), zap.NewNop())
}

func TestAppendValidation(t *testing.T) {
	// validation fires before any storage access
	repo := NewMessageRepository(nil, zap.NewNop())
	ctx := context.Background()

	cases := []struct {
		name                                          string
		sender, receiver, content, messageType, media string
	}{
		{"missing sender", "", "bob", "hi", "", ""},
		{"missing receiver", "alice", "", "hi", "", ""},
		{"no content or media", "alice", "bob", "", "", ""},
		{"unknown type", "alice", "bob", "hi", "hologram", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := repo.Append(ctx, tc.sender, tc.receiver, tc.content, tc.messageType, tc.media)
			if !errors.Is(err, apperr.ErrValidation) {
				t.Fatalf("err = %v, want ErrValidation", err)
			}
		})
	}

	if err := repo.MarkRead(ctx, "", "bob"); !errors.Is(err, apperr.ErrValidation) {
		t.Fatal("MarkRead without identities must fail validation")
	}
	if _, err := repo.History(ctx, "alice", ""); !errors.Is(err, apperr.ErrValidation) {
		t.Fatal("History without identities must fail validation")
	}
	if _, err := repo.ConversationFold(ctx, ""); !errors.Is(err, apperr.ErrValidation) {
		t.Fatal("ConversationFold without identity must fail validation")
	}
}

func TestAppendHistoryRoundTrip(t *testing.T) {
	repo := setupMessageRepo(t)
	ctx := context.Background()

	// bson stores millisecond precision; keep timestamps distinct
	for _, m := range []struct{ sender, receiver, content string }{
		{"alice", "bob", "one"},
		{"bob", "alice", "two"},
		{"alice", "bob", "three"},
	} {
		if _, err := repo.Append(ctx, m.sender, m.receiver, m.content, "", ""); err != nil {
			t.Fatalf("append %q: %v", m.content, err)
		}
		time.Sleep(5 * time.Millisecond)
	}

	// a message to an uninvolved pair must not leak into the history
	if _, err := repo.Append(ctx, "alice", "carol", "other thread", "", ""); err != nil {
		t.Fatalf("append: %v", err)
	}

	msgs, err := repo.History(ctx, "alice", "bob")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(msgs) != 3 {
		t.Fatalf("history holds %d messages, want 3", len(msgs))
	}

	seen := map[string]int{}
	for i, m := range msgs {
		seen[m.Content]++
		if m.IsRead {
			t.Fatalf("message %q should start unread", m.Content)
		}
		if m.MessageType != model.MessageTypeText {
			t.Fatalf("message type = %q, want default text", m.MessageType)
		}
		if i > 0 && msgs[i].Timestamp.Before(msgs[i-1].Timestamp) {
			t.Fatal("history is not non-decreasing in timestamp")
		}
	}
	for _, content := range []string{"one", "two", "three"} {
		if seen[content] != 1 {
			t.Fatalf("message %q appears %d times", content, seen[content])
		}
	}
}

func TestMarkReadIdempotent(t *testing.T) {
	repo := setupMessageRepo(t)
	ctx := context.Background()

	for _, content := range []string{"first", "second"} {
		if _, err := repo.Append(ctx, "alice", "bob", content, "", ""); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	if _, err := repo.Append(ctx, "bob", "alice", "reply", "", ""); err != nil {
		t.Fatalf("append: %v", err)
	}

	readState := func() (read, unread int) {
		msgs, err := repo.History(ctx, "alice", "bob")
		if err != nil {
			t.Fatalf("history: %v", err)
		}
		for _, m := range msgs {
			if m.IsRead {
				read++
			} else {
				unread++
			}
		}
		return
	}

	if err := repo.MarkRead(ctx, "alice", "bob"); err != nil {
		t.Fatalf("mark read: %v", err)
	}
	read, unread := readState()
	if read != 2 || unread != 1 {
		t.Fatalf("after first mark: read=%d unread=%d, want 2/1", read, unread)
	}

	// second invocation has nothing to update and must not fail
	if err := repo.MarkRead(ctx, "alice", "bob"); err != nil {
		t.Fatalf("repeated mark read: %v", err)
	}
	read2, unread2 := readState()
	if read2 != read || unread2 != unread {
		t.Fatalf("repeated mark changed state: read=%d unread=%d", read2, unread2)
	}
}

func TestConversationFoldAgainstStore(t *testing.T) {
	repo := setupMessageRepo(t)
	ctx := context.Background()

	if _, err := repo.Append(ctx, "alice", "bob", "hey bob", "", ""); err != nil {
		t.Fatalf("append: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, err := repo.Append(ctx, "bob", "alice", "hey alice", "", ""); err != nil {
		t.Fatalf("append: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, err := repo.Append(ctx, "carol", "alice", "ping", "", ""); err != nil {
		t.Fatalf("append: %v", err)
	}

	summaries, err := repo.ConversationFold(ctx, "alice")
	if err != nil {
		t.Fatalf("fold: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("got %d summaries, want 2", len(summaries))
	}

	byCounterpart := map[string]ConversationSummary{}
	for _, s := range summaries {
		byCounterpart[s.CounterpartID] = s
	}

	bob := byCounterpart["bob"]
	if bob.LastMessage.Content != "hey alice" {
		t.Fatalf("bob last message = %q, want the later one", bob.LastMessage.Content)
	}
	if bob.UnreadCount != 1 {
		t.Fatalf("bob unread = %d, want 1 (alice's own message never counts)", bob.UnreadCount)
	}
	if carol := byCounterpart["carol"]; carol.UnreadCount != 1 {
		t.Fatalf("carol unread = %d, want 1", carol.UnreadCount)
	}
}
