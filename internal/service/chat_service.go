package service

import (
	"context"
	"fmt"

	"github.com/de-code-ninja/qurio-backend/internal/apperr"
	"github.com/de-code-ninja/qurio-backend/internal/model"
	"github.com/de-code-ninja/qurio-backend/internal/repo"
)

// ChatService is the read-only query surface over the message store: pair
// history and the per-counterpart inbox previews.
type ChatService interface {
	History(ctx context.Context, selfID, friendID string) ([]model.Message, error)
	ChatPreviews(ctx context.Context, selfID string) ([]model.ConversationPreview, error)
}

type chatService struct {
	users    repo.UserRepository
	messages repo.MessageRepository
}

func NewChatService(users repo.UserRepository, messages repo.MessageRepository) ChatService {
	return &chatService{
		users:    users,
		messages: messages,
	}
}

// History returns the full two-way message history between self and friend,
// oldest first. An unknown friend is a NotFound failure, not an empty list.
func (s *chatService) History(ctx context.Context, selfID, friendID string) ([]model.Message, error) {
	if selfID == "" || friendID == "" {
		return nil, fmt.Errorf("both identities are required: %w", apperr.ErrValidation)
	}

	if _, err := s.users.GetUser(ctx, friendID); err != nil {
		return nil, err
	}

	return s.messages.History(ctx, selfID, friendID)
}

// ChatPreviews folds the message store into one preview per conversation
// partner and joins each counterpart to its profile projection. A counterpart
// without a profile row means the store references a user that no longer
// resolves, which is surfaced as a DataIntegrity failure rather than skipped.
// Output order is unspecified; clients sort by lastMessage.timestamp.
func (s *chatService) ChatPreviews(ctx context.Context, selfID string) ([]model.ConversationPreview, error) {
	summaries, err := s.messages.ConversationFold(ctx, selfID)
	if err != nil {
		return nil, err
	}
	if len(summaries) == 0 {
		return []model.ConversationPreview{}, nil
	}

	ids := make([]string, 0, len(summaries))
	for _, sum := range summaries {
		ids = append(ids, sum.CounterpartID)
	}

	users, err := s.users.GetUsersByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	profiles := make(map[string]model.User, len(users))
	for _, u := range users {
		profiles[u.UserID] = u
	}

	previews := make([]model.ConversationPreview, 0, len(summaries))
	for _, sum := range summaries {
		friend, ok := profiles[sum.CounterpartID]
		if !ok {
			return nil, fmt.Errorf("counterpart %s has no profile: %w",
				sum.CounterpartID, apperr.ErrDataIntegrity)
		}
		previews = append(previews, model.ConversationPreview{
			Friend:      friend,
			LastMessage: sum.LastMessage,
			UnreadCount: sum.UnreadCount,
		})
	}

	return previews, nil
}
