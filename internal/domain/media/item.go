// Package media defines the core trending-media models.
package media

// Kind classifies a trending item.
type Kind string

// Supported item kinds. Anything else is treated as movie-compatible,
// since only movies are actionable against the library.
const (
	KindMovie Kind = "movie"
	KindShow  Kind = "show"
)

// Item is a single trending media entry. TmdbID is the join key between
// the trending feed, the library and the ignore list.
type Item struct {
	TmdbID int
	Title  string
	Kind   Kind
}
