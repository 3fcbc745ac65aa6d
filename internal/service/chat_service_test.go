package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/de-code-ninja/qurio-backend/internal/apperr"
	"github.com/de-code-ninja/qurio-backend/internal/model"
	"github.com/de-code-ninja/qurio-backend/internal/repo"
)

type fakeUserRepo struct {
	profiles map[string]model.User
}

func (f *fakeUserRepo) GetUser(_ context.Context, id string) (*model.User, error) {
	u, ok := f.profiles[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, apperr.ErrNotFound)
	}
	return &u, nil
}

func (f *fakeUserRepo) GetUsersByIDs(_ context.Context, ids []string) ([]model.User, error) {
	var users []model.User
	for _, id := range ids {
		if u, ok := f.profiles[id]; ok {
			users = append(users, u)
		}
	}
	return users, nil
}

type fakeMessageRepo struct {
	history   []model.Message
	summaries []repo.ConversationSummary
}

func (f *fakeMessageRepo) Append(context.Context, string, string, string, string, string) (*model.Message, error) {
	return nil, errors.New("not used")
}

func (f *fakeMessageRepo) MarkRead(context.Context, string, string) error {
	return nil
}

func (f *fakeMessageRepo) History(context.Context, string, string) ([]model.Message, error) {
	return f.history, nil
}

func (f *fakeMessageRepo) ConversationFold(context.Context, string) ([]repo.ConversationSummary, error) {
	return f.summaries, nil
}

func lastMsg(sender, receiver string) model.Message {
	return model.Message{
		ID:          primitive.NewObjectID(),
		SenderID:    sender,
		ReceiverID:  receiver,
		Content:     "hello",
		MessageType: model.MessageTypeText,
		Timestamp:   time.Now().UTC(),
	}
}

func TestHistoryUnknownFriend(t *testing.T) {
	svc := NewChatService(
		&fakeUserRepo{profiles: map[string]model.User{}},
		&fakeMessageRepo{},
	)

	_, err := svc.History(context.Background(), "alice", "ghost")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestHistoryMissingIdentity(t *testing.T) {
	svc := NewChatService(&fakeUserRepo{}, &fakeMessageRepo{})

	_, err := svc.History(context.Background(), "", "bob")
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}

func TestChatPreviewsJoinsProfiles(t *testing.T) {
	users := &fakeUserRepo{profiles: map[string]model.User{
		"bob": {UserID: "bob", Name: "Bob", ProfilePic: "bob.png"},
	}}
	messages := &fakeMessageRepo{summaries: []repo.ConversationSummary{
		{CounterpartID: "bob", LastMessage: lastMsg("bob", "alice"), UnreadCount: 3},
	}}

	svc := NewChatService(users, messages)

	previews, err := svc.ChatPreviews(context.Background(), "alice")
	if err != nil {
		t.Fatalf("previews: %v", err)
	}
	if len(previews) != 1 {
		t.Fatalf("got %d previews, want 1", len(previews))
	}
	if previews[0].Friend.Name != "Bob" {
		t.Fatalf("friend = %+v", previews[0].Friend)
	}
	if previews[0].UnreadCount != 3 {
		t.Fatalf("unread = %d, want 3", previews[0].UnreadCount)
	}
}

func TestChatPreviewsMissingProfileIsIntegrityError(t *testing.T) {
	users := &fakeUserRepo{profiles: map[string]model.User{}}
	messages := &fakeMessageRepo{summaries: []repo.ConversationSummary{
		{CounterpartID: "deleted-user", LastMessage: lastMsg("deleted-user", "alice"), UnreadCount: 1},
	}}

	svc := NewChatService(users, messages)

	_, err := svc.ChatPreviews(context.Background(), "alice")
	if !errors.Is(err, apperr.ErrDataIntegrity) {
		t.Fatalf("err = %v, want ErrDataIntegrity", err)
	}
}

func TestChatPreviewsEmptyInbox(t *testing.T) {
	svc := NewChatService(&fakeUserRepo{}, &fakeMessageRepo{})

	previews, err := svc.ChatPreviews(context.Background(), "alice")
	if err != nil {
		t.Fatalf("previews: %v", err)
	}
	if len(previews) != 0 {
		t.Fatalf("got %d previews, want 0", len(previews))
	}
}
