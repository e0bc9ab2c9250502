package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trendarr/internal/domain/media"
)

type stubFeed struct {
	items []media.Item
	err   error
}

func (f *stubFeed) FetchTrending(context.Context) ([]media.Item, error) {
	return f.items, f.err
}

type stubLibrary struct {
	owned    map[int]struct{}
	ownedErr error

	addOK    bool
	addErr   error
	addCalls []int
}

func (l *stubLibrary) FetchOwned(context.Context) (map[int]struct{}, error) {
	return l.owned, l.ownedErr
}

func (l *stubLibrary) Add(_ context.Context, id int, _ string) (bool, error) {
	l.addCalls = append(l.addCalls, id)
	return l.addOK, l.addErr
}

type stubTrailers struct {
	urls map[int]string
	err  error
}

func (t *stubTrailers) TrailerURL(_ context.Context, id int) (string, error) {
	return t.urls[id], t.err
}

type stubIgnores struct {
	ids       map[int]struct{}
	loadErr   error
	appended  []int
	appendErr error
}

func (s *stubIgnores) Load() (map[int]struct{}, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	out := make(map[int]struct{}, len(s.ids)+len(s.appended))
	for id := range s.ids {
		out[id] = struct{}{}
	}
	for _, id := range s.appended {
		out[id] = struct{}{}
	}
	return out, nil
}

func (s *stubIgnores) Append(id int) error {
	if s.appendErr != nil {
		return s.appendErr
	}
	s.appended = append(s.appended, id)
	return nil
}

type sentMessage struct {
	id   string
	text string
}

type stubChannel struct {
	sent      []sentMessage
	reactions map[string][]string
	replies   map[string][]string
	mention   string

	sendErr    error
	reactErr   error
	mentionErr error
}

func (c *stubChannel) Send(_ context.Context, text string) (string, error) {
	if c.sendErr != nil {
		return "", c.sendErr
	}
	id := fmt.Sprintf("msg-%d", len(c.sent)+1)
	c.sent = append(c.sent, sentMessage{id: id, text: text})
	return id, nil
}

func (c *stubChannel) React(_ context.Context, messageID, emoji string) error {
	if c.reactErr != nil {
		return c.reactErr
	}
	if c.reactions == nil {
		c.reactions = make(map[string][]string)
	}
	c.reactions[messageID] = append(c.reactions[messageID], emoji)
	return nil
}

func (c *stubChannel) Reply(_ context.Context, messageID, text string) error {
	if c.replies == nil {
		c.replies = make(map[string][]string)
	}
	c.replies[messageID] = append(c.replies[messageID], text)
	return nil
}

func (c *stubChannel) Mention(context.Context, string) (string, error) {
	if c.mentionErr != nil {
		return "", c.mentionErr
	}
	return c.mention, nil
}

func newWatch(feed *stubFeed, lib *stubLibrary, ignores *stubIgnores, ch *stubChannel) *WatchService {
	return &WatchService{
		Feed:    feed,
		Library: lib,
		Ignores: ignores,
		Channel: ch,
	}
}

func TestRunPassAnnouncesOnlyNewItems(t *testing.T) {
	feed := &stubFeed{items: []media.Item{
		{TmdbID: 1, Title: "A", Kind: media.KindMovie},
		{TmdbID: 2, Title: "B", Kind: media.KindMovie},
	}}
	lib := &stubLibrary{owned: map[int]struct{}{2: {}}}
	ignores := &stubIgnores{}
	ch := &stubChannel{mention: "<@77>"}

	svc := newWatch(feed, lib, ignores, ch)
	svc.MentionUserID = "77"

	result, err := svc.RunPass(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Announced)
	assert.Equal(t, 2, result.Trending)

	require.Len(t, ch.sent, 2) // one announcement plus the follow-up
	assert.Equal(t, "New trending movie: A (ID: 1)", ch.sent[0].text)
	assert.Equal(t, "<@77> Here are the new trending movies!", ch.sent[1].text)
	assert.Equal(t, []string{ApproveEmoji, DismissEmoji}, ch.reactions[ch.sent[0].id])
}

func TestRunPassCaughtUp(t *testing.T) {
	feed := &stubFeed{items: []media.Item{{TmdbID: 5, Title: "Owned", Kind: media.KindMovie}}}
	lib := &stubLibrary{owned: map[int]struct{}{5: {}}}
	ch := &stubChannel{}

	_, err := newWatch(feed, lib, &stubIgnores{}, ch).RunPass(context.Background())
	require.NoError(t, err)

	require.Len(t, ch.sent, 1)
	assert.Equal(t, "You are all caught up!", ch.sent[0].text)
	assert.Empty(t, ch.reactions)
}

func TestRunPassSkipsIgnoredItems(t *testing.T) {
	feed := &stubFeed{items: []media.Item{
		{TmdbID: 1, Title: "A", Kind: media.KindMovie},
		{TmdbID: 9, Title: "Dismissed", Kind: media.KindShow},
	}}
	ch := &stubChannel{}

	svc := newWatch(feed, &stubLibrary{}, &stubIgnores{ids: map[int]struct{}{9: {}}}, ch)

	result, err := svc.RunPass(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Announced)
	assert.Equal(t, 1, result.Ignored)
	assert.Equal(t, "New trending movie: A (ID: 1)", ch.sent[0].text)
}

func TestRunPassAddsTrailerLine(t *testing.T) {
	feed := &stubFeed{items: []media.Item{
		{TmdbID: 438631, Title: "Dune", Kind: media.KindMovie},
		{TmdbID: 1396, Title: "Breaking Bad", Kind: media.KindShow},
	}}
	ch := &stubChannel{}

	svc := newWatch(feed, &stubLibrary{}, &stubIgnores{}, ch)
	svc.Trailers = &stubTrailers{urls: map[int]string{438631: "https://www.youtube.com/watch?v=abc"}}

	_, err := svc.RunPass(context.Background())
	require.NoError(t, err)

	require.Len(t, ch.sent, 3)
	assert.Equal(t, "New trending movie: Dune (ID: 438631)\nTrailer: https://www.youtube.com/watch?v=abc", ch.sent[0].text)
	// Shows are never looked up.
	assert.Equal(t, "New trending show: Breaking Bad (ID: 1396)", ch.sent[1].text)
}

func TestRunPassDegradesOnTrailerFailure(t *testing.T) {
	feed := &stubFeed{items: []media.Item{{TmdbID: 7, Title: "G", Kind: media.KindMovie}}}
	ch := &stubChannel{}

	svc := newWatch(feed, &stubLibrary{}, &stubIgnores{}, ch)
	svc.Trailers = &stubTrailers{err: ErrTrailerUnavailable}

	_, err := svc.RunPass(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "New trending movie: G (ID: 7)", ch.sent[0].text)
}

func TestRunPassAbortsBeforeAnnouncingOnGatewayFailure(t *testing.T) {
	tests := []struct {
		name string
		feed *stubFeed
		lib  *stubLibrary
	}{
		{
			name: "feed down",
			feed: &stubFeed{err: ErrFeedUnavailable},
			lib:  &stubLibrary{},
		},
		{
			name: "library down",
			feed: &stubFeed{items: []media.Item{{TmdbID: 1, Title: "A", Kind: media.KindMovie}}},
			lib:  &stubLibrary{ownedErr: ErrLibraryUnavailable},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ch := &stubChannel{}
			_, err := newWatch(tt.feed, tt.lib, &stubIgnores{}, ch).RunPass(context.Background())
			require.Error(t, err)
			assert.Empty(t, ch.sent, "no message may be sent from a failed pass")
		})
	}
}

func TestRunPassAbortsOnIgnoreLoadFailure(t *testing.T) {
	ch := &stubChannel{}
	svc := newWatch(&stubFeed{}, &stubLibrary{}, &stubIgnores{loadErr: errors.New("disk gone")}, ch)

	_, err := svc.RunPass(context.Background())
	require.Error(t, err)
	assert.Empty(t, ch.sent)
}

func TestRunPassSurvivesReactionFailure(t *testing.T) {
	feed := &stubFeed{items: []media.Item{{TmdbID: 1, Title: "A", Kind: media.KindMovie}}}
	ch := &stubChannel{reactErr: errors.New("rate limited")}

	result, err := newWatch(feed, &stubLibrary{}, &stubIgnores{}, ch).RunPass(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Announced)
}

func TestRunPassMentionFailureStillAnnounces(t *testing.T) {
	feed := &stubFeed{items: []media.Item{{TmdbID: 1, Title: "A", Kind: media.KindMovie}}}
	ch := &stubChannel{mentionErr: errors.New("unknown user")}

	svc := newWatch(feed, &stubLibrary{}, &stubIgnores{}, ch)
	svc.MentionUserID = "77"

	_, err := svc.RunPass(context.Background())
	require.NoError(t, err)
	require.Len(t, ch.sent, 2)
	assert.Equal(t, "Here are the new trending movies!", ch.sent[1].text)
}

func TestDismissedItemStaysGoneNextPass(t *testing.T) {
	feed := &stubFeed{items: []media.Item{
		{TmdbID: 1, Title: "A", Kind: media.KindMovie},
		{TmdbID: 2, Title: "B", Kind: media.KindMovie},
	}}
	lib := &stubLibrary{owned: map[int]struct{}{2: {}}}
	ignores := &stubIgnores{}
	ch := &stubChannel{}

	watch := newWatch(feed, lib, ignores, ch)
	result, err := watch.RunPass(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, result.Announced)

	// Dismiss item 1 through the dispatcher, as a user reaction would.
	dispatch := &DispatchService{Library: lib, Ignores: ignores, Channel: ch, BotUserID: "bot"}
	err = dispatch.HandleGesture(context.Background(), Gesture{
		Emoji:       DismissEmoji,
		ReactorID:   "human",
		MessageID:   ch.sent[0].id,
		AuthorID:    "bot",
		MessageText: ch.sent[0].text,
	})
	require.NoError(t, err)
	assert.Equal(t, []int{1}, ignores.appended)

	// The same trending/owned inputs now yield nothing new.
	result, err = watch.RunPass(context.Background())
	require.NoError(t, err)
	assert.Zero(t, result.Announced)
}
