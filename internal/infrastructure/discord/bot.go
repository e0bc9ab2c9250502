// Package discord adapts a Discord session to the usecase ports: it is
// the Messenger the announcer writes through and the event source the
// dispatcher consumes.
package discord

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/bwmarrin/discordgo"

	"trendarr/internal/application/usecase"
)

const gestureTimeout = 30 * time.Second

// Bot wraps one Discord session bound to a single announcement channel.
type Bot struct {
	session   *discordgo.Session
	channelID string
}

// New creates a bot for the given token and channel. Call Open before
// using it.
func New(token, channelID string) (*Bot, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuildMessages | discordgo.IntentsGuildMessageReactions

	return &Bot{session: session, channelID: channelID}, nil
}

// Open connects the gateway websocket.
func (b *Bot) Open() error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("open session: %w", err)
	}
	return nil
}

// Close disconnects the session.
func (b *Bot) Close() error {
	return b.session.Close()
}

// UserID returns the bot's own user id. Valid only after Open.
func (b *Bot) UserID() string {
	if b.session.State == nil || b.session.State.User == nil {
		return ""
	}
	return b.session.State.User.ID
}

// Send posts a message to the announcement channel.
func (b *Bot) Send(ctx context.Context, text string) (string, error) {
	msg, err := b.session.ChannelMessageSend(b.channelID, text, discordgo.WithContext(ctx))
	if err != nil {
		return "", err
	}
	return msg.ID, nil
}

// React attaches a reaction to a message in the announcement channel.
func (b *Bot) React(ctx context.Context, messageID, emoji string) error {
	return b.session.MessageReactionAdd(b.channelID, messageID, emoji, discordgo.WithContext(ctx))
}

// Reply posts a message referencing an earlier one.
func (b *Bot) Reply(ctx context.Context, messageID, text string) error {
	_, err := b.session.ChannelMessageSendReply(b.channelID, text, &discordgo.MessageReference{
		ChannelID: b.channelID,
		MessageID: messageID,
	}, discordgo.WithContext(ctx))
	return err
}

// Mention resolves a user id to a mention string.
func (b *Bot) Mention(ctx context.Context, userID string) (string, error) {
	user, err := b.session.User(userID, discordgo.WithContext(ctx))
	if err != nil {
		return "", err
	}
	return user.Mention(), nil
}

// BindDispatcher forwards reaction-add events from the announcement
// channel to the dispatcher. discordgo invokes handlers on their own
// goroutines, so a slow gateway call never blocks the session reader or
// a concurrent reconciliation pass.
func (b *Bot) BindDispatcher(dispatch *usecase.DispatchService) {
	b.session.AddHandler(func(s *discordgo.Session, r *discordgo.MessageReactionAdd) {
		if r.ChannelID != b.channelID {
			return
		}

		msg, err := s.State.Message(r.ChannelID, r.MessageID)
		if err != nil {
			msg, err = s.ChannelMessage(r.ChannelID, r.MessageID)
		}
		if err != nil || msg == nil || msg.Author == nil {
			log.Printf("reaction on unreadable message %s: %v", r.MessageID, err)
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), gestureTimeout)
		defer cancel()

		gesture := usecase.Gesture{
			Emoji:       r.Emoji.Name,
			ReactorID:   r.UserID,
			MessageID:   r.MessageID,
			AuthorID:    msg.Author.ID,
			MessageText: msg.Content,
		}
		if err := dispatch.HandleGesture(ctx, gesture); err != nil {
			// Local to this event; the dispatcher stays up.
			log.Printf("dispatch gesture on %s: %v", r.MessageID, err)
		}
	})
}
