package repo

import (
	"github.com/de-code-ninja/qurio-backend/internal/model"
)

// foldSummaries groups messages by conversation counterpart, keeps the latest
// message per group and counts the unread ones addressed to userID. Messages
// the user sent are never counted as unread. Output order follows first
// appearance in the input; callers needing inbox order sort by the last
// message's timestamp.
func foldSummaries(msgs []model.Message, userID string) []ConversationSummary {
	grouped := make(map[string]*ConversationSummary)
	var order []string

	for _, msg := range msgs {
		counterpart := msg.SenderID
		if counterpart == userID {
			counterpart = msg.ReceiverID
		}

		s, ok := grouped[counterpart]
		if !ok {
			s = &ConversationSummary{
				CounterpartID: counterpart,
				LastMessage:   msg,
			}
			grouped[counterpart] = s
			order = append(order, counterpart)
		} else if laterThan(msg, s.LastMessage) {
			s.LastMessage = msg
		}

		if msg.ReceiverID == userID && !msg.IsRead {
			s.UnreadCount++
		}
	}

	summaries := make([]ConversationSummary, 0, len(order))
	for _, counterpart := range order {
		summaries = append(summaries, *grouped[counterpart])
	}
	return summaries
}

// laterThan orders messages by timestamp; equal timestamps fall back to
// ObjectID hex order so the pick is stable.
func laterThan(a, b model.Message) bool {
	if !a.Timestamp.Equal(b.Timestamp) {
		return a.Timestamp.After(b.Timestamp)
	}
	return a.ID.Hex() > b.ID.Hex()
}
