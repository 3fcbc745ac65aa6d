package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/de-code-ninja/qurio-backend/internal/apperr"
	"github.com/de-code-ninja/qurio-backend/internal/db"
	"github.com/de-code-ninja/qurio-backend/internal/model"
)

const (
	// Timeouts
	defaultWriteTimeout = 5 * time.Second
	defaultReadTimeout  = 30 * time.Second

	// Retry configuration
	maxRetries     = 3
	baseRetryDelay = 100 * time.Millisecond
	maxRetryDelay  = 2 * time.Second
)

// ConversationSummary is one folded row of a user's inbox before the profile
// join: the counterpart, the latest message either way, and how many of the
// counterpart's messages the user has not read yet.
type ConversationSummary struct {
	CounterpartID string
	LastMessage   model.Message
	UnreadCount   int
}

type MessageRepository interface {
	// Append persists a new message with isRead=false and a server timestamp.
	// It either writes the whole document or nothing.
	Append(ctx context.Context, senderID, receiverID, content, messageType, media string) (*model.Message, error)

	// MarkRead flips isRead to true on every unread message from fromID to
	// toID. Re-invocation with nothing left to update is a no-op.
	MarkRead(ctx context.Context, fromID, toID string) error

	// History returns every message between the two users, either direction,
	// ordered by timestamp ascending. Unpaginated; fine at current scale.
	History(ctx context.Context, userA, userB string) ([]model.Message, error)

	// ConversationFold computes one summary per counterpart userID has
	// exchanged messages with.
	ConversationFold(ctx context.Context, userID string) ([]ConversationSummary, error)
}

type messageRepository struct {
	mongoRepo *db.Repository[model.Message]
	logger    *zap.Logger
}

func NewMessageRepository(repo *db.Repository[model.Message], logger *zap.Logger) MessageRepository {
	return &messageRepository{
		mongoRepo: repo,
		logger:    logger,
	}
}

// -----------------------------------------------------------------------------
// Append
// -----------------------------------------------------------------------------

func (m *messageRepository) Append(ctx context.Context, senderID, receiverID, content, messageType, media string) (*model.Message, error) {
	if senderID == "" || receiverID == "" {
		return nil, fmt.Errorf("sender and receiver are required: %w", apperr.ErrValidation)
	}
	if content == "" && media == "" {
		return nil, fmt.Errorf("message needs content or media: %w", apperr.ErrValidation)
	}
	if messageType == "" {
		messageType = model.MessageTypeText
	}
	if !model.ValidType(messageType) {
		return nil, fmt.Errorf("unknown message type %q: %w", messageType, apperr.ErrValidation)
	}

	msg := model.Message{
		SenderID:    senderID,
		ReceiverID:  receiverID,
		Content:     content,
		Media:       media,
		MessageType: messageType,
		IsRead:      false,
		Timestamp:   time.Now().UTC(),
	}

	ctx, cancel := m.ensureTimeout(ctx, defaultWriteTimeout)
	defer cancel()

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			if err := m.waitForRetry(ctx, attempt); err != nil {
				return nil, fmt.Errorf("%v: %w", err, apperr.ErrPersistence)
			}
		}

		result, err := m.mongoRepo.Create(ctx, msg)
		if err == nil {
			if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
				msg.ID = oid
			}

			m.logger.Info("message inserted",
				zap.String("message_id", msg.ID.Hex()),
				zap.String("sender_id", senderID),
				zap.String("receiver_id", receiverID),
				zap.Int("attempt", attempt+1),
			)
			return &msg, nil
		}

		lastErr = err

		if !m.isRetryableError(err) {
			break
		}

		m.logger.Warn("insert attempt failed, retrying",
			zap.Error(err),
			zap.Int("attempt", attempt+1),
			zap.Int("max_attempts", maxRetries),
		)
	}

	m.logger.Error("failed to insert message after all retries",
		zap.Error(lastErr),
		zap.String("sender_id", senderID),
		zap.String("receiver_id", receiverID),
	)

	return nil, fmt.Errorf("insert message: %v: %w", lastErr, apperr.ErrPersistence)
}

// -----------------------------------------------------------------------------
// MarkRead
// -----------------------------------------------------------------------------

func (m *messageRepository) MarkRead(ctx context.Context, fromID, toID string) error {
	if fromID == "" || toID == "" {
		return fmt.Errorf("both identities are required: %w", apperr.ErrValidation)
	}

	ctx, cancel := m.ensureTimeout(ctx, defaultWriteTimeout)
	defer cancel()

	filter := db.NewFilter().
		Eq("sender_id", fromID).
		Eq("receiver_id", toID).
		Eq("is_read", false).
		Build()

	result, err := m.mongoRepo.UpdateMany(ctx, filter, bson.M{"is_read": true})
	if err != nil {
		m.logger.Error("mark-read update failed",
			zap.Error(err),
			zap.String("from", fromID),
			zap.String("to", toID),
		)
		return fmt.Errorf("mark read: %v: %w", err, apperr.ErrPersistence)
	}

	m.logger.Debug("messages marked read",
		zap.String("from", fromID),
		zap.String("to", toID),
		zap.Int64("modified", result.ModifiedCount),
	)
	return nil
}

// -----------------------------------------------------------------------------
// History
// -----------------------------------------------------------------------------

func (m *messageRepository) History(ctx context.Context, userA, userB string) ([]model.Message, error) {
	if userA == "" || userB == "" {
		return nil, fmt.Errorf("both identities are required: %w", apperr.ErrValidation)
	}

	ctx, cancel := m.ensureTimeout(ctx, defaultReadTimeout)
	defer cancel()

	filter := db.NewFilter().Or(
		db.NewFilter().Eq("sender_id", userA).Eq("receiver_id", userB).Build(),
		db.NewFilter().Eq("sender_id", userB).Eq("receiver_id", userA).Build(),
	).Build()

	msgs, err := m.mongoRepo.FindAllSorted(ctx, filter, "timestamp", false)
	if err != nil {
		m.logger.Error("history query failed",
			zap.Error(err),
			zap.String("user_a", userA),
			zap.String("user_b", userB),
		)
		return nil, fmt.Errorf("history: %v: %w", err, apperr.ErrPersistence)
	}

	return msgs, nil
}

// -----------------------------------------------------------------------------
// ConversationFold
// -----------------------------------------------------------------------------

// ConversationFold retrieves every message touching userID and folds it down
// to one summary per counterpart. The fold runs in-process rather than as a
// server-side aggregation so the latest-by-timestamp and unread-count
// semantics stay explicit (including the ObjectID tie-break).
func (m *messageRepository) ConversationFold(ctx context.Context, userID string) ([]ConversationSummary, error) {
	if userID == "" {
		return nil, fmt.Errorf("user identity is required: %w", apperr.ErrValidation)
	}

	ctx, cancel := m.ensureTimeout(ctx, defaultReadTimeout)
	defer cancel()

	filter := db.NewFilter().Or(
		db.NewFilter().Eq("sender_id", userID).Build(),
		db.NewFilter().Eq("receiver_id", userID).Build(),
	).Build()

	msgs, err := m.mongoRepo.FindAll(ctx, filter)
	if err != nil {
		m.logger.Error("conversation fold query failed",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		return nil, fmt.Errorf("conversation fold: %v: %w", err, apperr.ErrPersistence)
	}

	return foldSummaries(msgs, userID), nil
}

// -----------------------------------------------------------------------------
// Private Helper Methods
// -----------------------------------------------------------------------------

func (m *messageRepository) ensureTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, hadDeadline := ctx.Deadline(); hadDeadline {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, timeout)
}

func (m *messageRepository) waitForRetry(ctx context.Context, attempt int) error {
	delay := time.Duration(1<<uint(attempt)) * baseRetryDelay
	if delay > maxRetryDelay {
		delay = maxRetryDelay
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return fmt.Errorf("retry wait cancelled: %w", ctx.Err())
	case <-timer.C:
		return nil
	}
}

func (m *messageRepository) isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	// Context errors are not retryable
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return false
	}

	return mongo.IsTimeout(err) || mongo.IsNetworkError(err)
}
