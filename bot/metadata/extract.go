// Package metadata derives tag fields from the raw info of a downloaded video.
package metadata

import "strings"

// UnknownGenre is used when no tag names a known genre.
const UnknownGenre = "unknown"

var knownGenres = map[string]struct{}{
	"rap":       {},
	"afrobeats": {},
	"pop":       {},
	"gospel":    {},
	"rock":      {},
	"rnb":       {},
}

var featuringKeywords = []string{"feat.", "ft.", "featuring"}

// RawInfo is the subset of extraction info the extractor reads.
type RawInfo struct {
	Title       string
	Uploader    string
	Tags        []string
	Description string
}

// Metadata holds the fields written to the audio file.
type Metadata struct {
	Artist            string
	Title             string
	Genre             string
	HasFeaturedArtist bool
}

// Extract parses "Artist - Song (extra)" titles, falling back to the uploader
// as artist when the title has no dash.
func Extract(info RawInfo) Metadata {
	meta := Metadata{
		Artist: info.Uploader,
		Title:  info.Title,
		Genre:  genre(info.Tags),
	}

	if artist, rest, ok := strings.Cut(info.Title, "-"); ok {
		meta.Artist = strings.TrimSpace(artist)
		song, _, _ := strings.Cut(rest, "(")
		meta.Title = strings.TrimSpace(song)
	}

	meta.HasFeaturedArtist = hasFeaturing(info.Title) || hasFeaturing(info.Description)
	return meta
}

func genre(tags []string) string {
	for _, tag := range tags {
		if _, ok := knownGenres[strings.ToLower(tag)]; ok {
			return tag
		}
	}
	return UnknownGenre
}

func hasFeaturing(text string) bool {
	if text == "" {
		return false
	}
	lower := strings.ToLower(text)
	for _, keyword := range featuringKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}
