package media

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Announcement text is the only durable record of a pending decision, so
// its format is fixed: a kind prefix, the title, an "(ID: n)" marker and
// an optional trailer line. Everything outside this file works with Item
// values, never raw text.
const (
	moviePrefix  = "New trending movie: "
	showPrefix   = "New trending show: "
	idMarker     = " (ID: "
	trailerLabel = "Trailer: "
)

// ErrMalformedAnnouncement reports text that does not carry the expected
// markers. Callers must fail closed on it: no action, no crash.
var ErrMalformedAnnouncement = errors.New("malformed announcement")

// Announcement is one renderable channel message for a new item.
type Announcement struct {
	Item       Item
	TrailerURL string
}

// Encode renders the announcement text.
func (a Announcement) Encode() string {
	prefix := moviePrefix
	if a.Item.Kind == KindShow {
		prefix = showPrefix
	}

	var b strings.Builder
	b.WriteString(prefix)
	b.WriteString(a.Item.Title)
	b.WriteString(idMarker)
	b.WriteString(strconv.Itoa(a.Item.TmdbID))
	b.WriteString(")")
	if a.TrailerURL != "" {
		b.WriteString("\n")
		b.WriteString(trailerLabel)
		b.WriteString(a.TrailerURL)
	}
	return b.String()
}

// DecodeAnnouncement recovers the item an announcement refers to.
func DecodeAnnouncement(text string) (Item, error) {
	kind := KindMovie
	var prefix string
	switch {
	case strings.HasPrefix(text, moviePrefix):
		prefix = moviePrefix
	case strings.HasPrefix(text, showPrefix):
		prefix = showPrefix
		kind = KindShow
	default:
		return Item{}, fmt.Errorf("%w: missing kind prefix", ErrMalformedAnnouncement)
	}

	markerAt := strings.Index(text, idMarker)
	if markerAt < len(prefix) {
		return Item{}, fmt.Errorf("%w: missing id marker", ErrMalformedAnnouncement)
	}
	idStart := markerAt + len(idMarker)
	idEnd := strings.Index(text[idStart:], ")")
	if idEnd < 0 {
		return Item{}, fmt.Errorf("%w: unterminated id marker", ErrMalformedAnnouncement)
	}

	id, err := strconv.Atoi(text[idStart : idStart+idEnd])
	if err != nil {
		return Item{}, fmt.Errorf("%w: non-numeric id", ErrMalformedAnnouncement)
	}

	title := text[len(prefix):markerAt]
	if title == "" {
		return Item{}, fmt.Errorf("%w: empty title", ErrMalformedAnnouncement)
	}

	return Item{TmdbID: id, Title: title, Kind: kind}, nil
}
