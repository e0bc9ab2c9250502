package usecase

import (
	"context"
	"fmt"
	"log"
	"time"

	"trendarr/internal/domain/media"
)

// Gesture emoji. The reaction name is the whole protocol.
const (
	ApproveEmoji = "\U0001F44D" // 👍
	DismissEmoji = "\U0001F44E" // 👎
)

// Replies sent after acting on a gesture.
const (
	addedReply     = "Added to Radarr!"
	addFailedReply = "Failed to add to Radarr."
)

// Gesture is one reaction event, flattened to what dispatch needs.
type Gesture struct {
	Emoji       string
	ReactorID   string
	MessageID   string
	AuthorID    string // author of the reacted-to message
	MessageText string
}

// DispatchService maps a gesture on a previously sent announcement to a
// library add or an ignore-list append, and confirms with a reply.
type DispatchService struct {
	Library Library
	Ignores IgnoreStore
	Channel Messenger

	BotUserID   string
	CallTimeout time.Duration
}

// HandleGesture processes one reaction event. Gestures from the bot
// itself, gestures on messages the bot did not author and unrecognized
// emoji are silently ignored. Malformed announcement text fails closed:
// an error is returned and no side effect happens.
func (s *DispatchService) HandleGesture(ctx context.Context, g Gesture) error {
	if g.ReactorID == s.BotUserID || g.AuthorID != s.BotUserID {
		return nil
	}
	if g.Emoji != ApproveEmoji && g.Emoji != DismissEmoji {
		return nil
	}

	item, err := media.DecodeAnnouncement(g.MessageText)
	if err != nil {
		return fmt.Errorf("gesture on message %s: %w", g.MessageID, err)
	}

	callCtx, cancel := s.callContext(ctx)
	defer cancel()

	if g.Emoji == DismissEmoji {
		return s.dismiss(callCtx, g.MessageID, item)
	}
	return s.approve(callCtx, g.MessageID, item)
}

func (s *DispatchService) approve(ctx context.Context, messageID string, item media.Item) error {
	added, err := s.Library.Add(ctx, item.TmdbID, item.Title)
	if err != nil {
		log.Printf("add %q (%d): %v", item.Title, item.TmdbID, err)
	}

	reply := addFailedReply
	if added {
		reply = addedReply
	}
	return s.Channel.Reply(ctx, messageID, reply)
}

func (s *DispatchService) dismiss(ctx context.Context, messageID string, item media.Item) error {
	if err := s.Ignores.Append(item.TmdbID); err != nil {
		return fmt.Errorf("ignore %d: %w", item.TmdbID, err)
	}
	reply := fmt.Sprintf("Ignored %s. It won't be announced again.", item.Title)
	return s.Channel.Reply(ctx, messageID, reply)
}

func (s *DispatchService) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := s.CallTimeout
	if timeout <= 0 {
		timeout = defaultCallTimeout
	}
	return context.WithTimeout(ctx, timeout)
}
