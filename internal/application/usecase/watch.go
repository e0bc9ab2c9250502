package usecase

import (
	"context"
	"fmt"
	"log"
	"time"

	"trendarr/internal/domain/media"
)

const defaultCallTimeout = 10 * time.Second

// Follow-up messages sent after the announcements of a pass.
const (
	caughtUpMessage = "You are all caught up!"
	newItemsMessage = "Here are the new trending movies!"
)

// PassResult summarizes one completed reconciliation pass.
type PassResult struct {
	Trending  int
	Announced int
	Ignored   int
}

// WatchService runs reconciliation passes: it pulls the trending feed and
// the owned set, filters by the ignore list and announces what is left.
type WatchService struct {
	Feed     TrendingFeed
	Library  Library
	Trailers TrailerResolver // nil disables trailer links
	Ignores  IgnoreStore
	Channel  Messenger

	MentionUserID string
	CallTimeout   time.Duration
}

// RunPass executes one reconciliation pass. Feed, library and ignore-list
// failures abort the pass before anything is announced; trailer and
// reaction failures only degrade the affected announcement.
func (s *WatchService) RunPass(ctx context.Context) (PassResult, error) {
	ignored, err := s.Ignores.Load()
	if err != nil {
		return PassResult{}, fmt.Errorf("load ignore list: %w", err)
	}

	trending, err := s.fetchTrending(ctx)
	if err != nil {
		return PassResult{}, err
	}

	owned, err := s.fetchOwned(ctx)
	if err != nil {
		return PassResult{}, err
	}

	fresh := media.Reconcile(trending, owned, ignored)
	result := PassResult{Trending: len(trending), Ignored: len(ignored)}

	for _, item := range fresh {
		if err := s.announce(ctx, item); err != nil {
			return result, err
		}
		result.Announced++
	}

	if err := s.sendFollowUp(ctx, result.Announced); err != nil {
		return result, err
	}

	log.Printf("pass complete: %d trending, %d announced, %d ignored",
		result.Trending, result.Announced, result.Ignored)
	return result, nil
}

func (s *WatchService) announce(ctx context.Context, item media.Item) error {
	ann := media.Announcement{Item: item, TrailerURL: s.lookupTrailer(ctx, item)}

	callCtx, cancel := s.callContext(ctx)
	defer cancel()

	msgID, err := s.Channel.Send(callCtx, ann.Encode())
	if err != nil {
		return fmt.Errorf("announce %q: %w", item.Title, err)
	}

	// The reactions are the approve/dismiss affordances. Losing one is
	// not worth abandoning the rest of the pass over.
	for _, emoji := range []string{ApproveEmoji, DismissEmoji} {
		if err := s.Channel.React(callCtx, msgID, emoji); err != nil {
			log.Printf("attach %s to %q: %v", emoji, item.Title, err)
		}
	}
	return nil
}

func (s *WatchService) sendFollowUp(ctx context.Context, announced int) error {
	callCtx, cancel := s.callContext(ctx)
	defer cancel()

	if announced == 0 {
		_, err := s.Channel.Send(callCtx, caughtUpMessage)
		return err
	}

	text := newItemsMessage
	if s.MentionUserID != "" {
		mention, err := s.Channel.Mention(callCtx, s.MentionUserID)
		if err != nil {
			log.Printf("resolve mention for %s: %v", s.MentionUserID, err)
		} else {
			text = mention + " " + text
		}
	}
	_, err := s.Channel.Send(callCtx, text)
	return err
}

func (s *WatchService) fetchTrending(ctx context.Context) ([]media.Item, error) {
	callCtx, cancel := s.callContext(ctx)
	defer cancel()
	return s.Feed.FetchTrending(callCtx)
}

func (s *WatchService) fetchOwned(ctx context.Context) (map[int]struct{}, error) {
	callCtx, cancel := s.callContext(ctx)
	defer cancel()
	return s.Library.FetchOwned(callCtx)
}

func (s *WatchService) lookupTrailer(ctx context.Context, item media.Item) string {
	if s.Trailers == nil || item.Kind == media.KindShow {
		return ""
	}

	callCtx, cancel := s.callContext(ctx)
	defer cancel()

	url, err := s.Trailers.TrailerURL(callCtx, item.TmdbID)
	if err != nil {
		log.Printf("trailer lookup for %q: %v", item.Title, err)
		return ""
	}
	return url
}

func (s *WatchService) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := s.CallTimeout
	if timeout <= 0 {
		timeout = defaultCallTimeout
	}
	return context.WithTimeout(ctx, timeout)
}
