package clustering

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"

	"github.com/justestif/go-spotify-lyric-mood/internal/sentiment"
)

// Config holds grouping parameters.
type Config struct {
	NumGroups    int // Number of k-means clusters (default: 3)
	MinGroupSize int // Smaller clusters become outliers
}

// DefaultConfig returns the recommended default configuration.
func DefaultConfig() Config {
	return Config{
		NumGroups:    3,
		MinGroupSize: 2,
	}
}

// Group is a set of songs with a similar emotional profile.
type Group struct {
	Name     string             `json:"name"`
	Songs    []string           `json:"songs"`
	Centroid sentiment.Emotions `json:"centroid"`
}

// EmotionGroups clusters emotion-scored songs. Songs whose emotions are all
// zero carry no signal and are returned as outliers, as are members of
// groups smaller than cfg.MinGroupSize. Groups are ordered largest first and
// songs keep score-map order within a group and among the outliers.
func EmotionGroups(scores *sentiment.ScoreMap, cfg Config) ([]Group, []string, error) {
	if scores.Kind() != sentiment.KindEmotion {
		return nil, nil, fmt.Errorf("%w: got %s scores", ErrNotEmotionScores, scores.Kind())
	}
	if cfg.NumGroups <= 0 {
		cfg.NumGroups = DefaultConfig().NumGroups
	}

	var (
		obs      clusters.Observations
		outliers []songObservation
	)
	i := 0
	scores.Each(func(name string, r sentiment.Record) {
		e := r.(sentiment.Emotions)
		o := songObservation{index: i, name: name, coords: coordinates(e)}
		i++
		if e == (sentiment.Emotions{}) {
			outliers = append(outliers, o)
			return
		}
		obs = append(obs, o)
	})

	if len(obs) < cfg.NumGroups {
		for _, o := range obs {
			outliers = append(outliers, o.(songObservation))
		}
		return nil, names(outliers), nil
	}

	result, err := kmeans.New().Partition(obs, cfg.NumGroups)
	if err != nil {
		return nil, nil, fmt.Errorf("partitioning emotion scores: %w", err)
	}
	// Partition skips the final recenter when no point moved, which always
	// happens with a single group.
	result.Recenter()

	var groups []Group
	for _, cluster := range result {
		members := make([]songObservation, 0, len(cluster.Observations))
		for _, o := range cluster.Observations {
			members = append(members, o.(songObservation))
		}
		if len(members) == 0 {
			continue
		}
		if len(members) < cfg.MinGroupSize {
			outliers = append(outliers, members...)
			continue
		}

		centroid := emotionsAt(cluster.Center)
		groups = append(groups, Group{
			Name:     groupName(centroid),
			Songs:    names(members),
			Centroid: centroid,
		})
	}

	slices.SortStableFunc(groups, func(a, b Group) int {
		if c := cmp.Compare(len(b.Songs), len(a.Songs)); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})

	return groups, names(outliers), nil
}

// names returns the song names sorted back into score-map order.
func names(obs []songObservation) []string {
	slices.SortFunc(obs, func(a, b songObservation) int {
		return cmp.Compare(a.index, b.index)
	})
	out := make([]string, len(obs))
	for i, o := range obs {
		out[i] = o.name
	}
	return out
}
