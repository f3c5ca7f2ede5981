package genius

import "github.com/justestif/go-spotify-lyric-mood/internal/lyrics"

// bestHit returns the hit most similar to the requested song. Hits scoring
// below lyrics.MinMatchScore are ignored and ties keep the search order.
func bestHit(hits []Hit, artist, title string) (Hit, bool) {
	var (
		best      Hit
		bestScore = -1
	)
	for _, h := range hits {
		if score := lyrics.MatchScore(artist, title, h.Artist, h.Title); score > bestScore {
			best, bestScore = h, score
		}
	}
	if bestScore < lyrics.MinMatchScore {
		return Hit{}, false
	}
	return best, true
}
