package config

import (
	"fmt"

	"github.com/soundhash/fpindex/index"
)

// ParseSimilarity maps a config/flag string onto index.Similarity.
func ParseSimilarity(s string) (index.Similarity, error) {
	switch s {
	case "jaccard", "":
		return index.Jaccard, nil
	case "set_intersection":
		return index.SetIntersection, nil
	case "set_intersection_norm_by_query_len":
		return index.SetIntersectionNormByQueryLen, nil
	default:
		return 0, fmt.Errorf("config: unknown similarity %q", s)
	}
}
