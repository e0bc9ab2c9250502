// Package usecase contains application-level services.
package usecase

import (
	"context"
	"errors"

	"trendarr/internal/domain/media"
)

// Gateway failure classes. Infrastructure clients wrap these so callers
// can classify with errors.Is without knowing the transport.
var (
	ErrFeedUnavailable    = errors.New("trending feed unavailable")
	ErrLibraryUnavailable = errors.New("library unavailable")
	ErrTrailerUnavailable = errors.New("trailer lookup unavailable")
)

// TrendingFeed abstracts the trending media source.
type TrendingFeed interface {
	FetchTrending(ctx context.Context) ([]media.Item, error)
}

// Library abstracts the media library manager. Add returns true only on
// the manager's "created" acknowledgment; false covers every other
// outcome, including "already present", and does not imply an error.
type Library interface {
	FetchOwned(ctx context.Context) (map[int]struct{}, error)
	Add(ctx context.Context, id int, title string) (bool, error)
}

// TrailerResolver abstracts the optional trailer lookup. An empty URL
// with a nil error means "no trailer", which is not a failure.
type TrailerResolver interface {
	TrailerURL(ctx context.Context, id int) (string, error)
}

// IgnoreStore abstracts the durable set of permanently dismissed ids.
type IgnoreStore interface {
	Load() (map[int]struct{}, error)
	Append(id int) error
}

// Messenger abstracts the chat channel the bot announces into.
type Messenger interface {
	Send(ctx context.Context, text string) (messageID string, err error)
	React(ctx context.Context, messageID, emoji string) error
	Reply(ctx context.Context, messageID, text string) error
	Mention(ctx context.Context, userID string) (string, error)
}
