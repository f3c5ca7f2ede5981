package lyrics

import (
	"strings"

	"github.com/xrash/smetrics"
)

// MinMatchScore is the lowest MatchScore accepted as the same song.
const MinMatchScore = 60

// MatchScore rates from 0 to 100 how well a search result's artist and title
// match the requested song. The title weighs more than the artist.
func MatchScore(artist, title, gotArtist, gotTitle string) int {
	return (Similarity(gotTitle, title)*60 + Similarity(gotArtist, artist)*40) / 100
}

// Similarity returns 0-100 based on the edit distance between two strings,
// ignoring case, curly apostrophes and repeated spaces.
func Similarity(a, b string) int {
	a, b = normalize(a), normalize(b)
	maxLen := max(len(a), len(b))
	if maxLen == 0 {
		return 100
	}
	distance := smetrics.WagnerFischer(a, b, 1, 1, 2)
	return max(0, 100-distance*100/maxLen)
}

func normalize(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "’", "'")
	return strings.Join(strings.Fields(s), " ")
}
