package app

import "sort"

// TopGenres returns every genre whose tally equals the maximum tally, sorted
// by name. Ties are all kept. An empty tally yields nil.
func TopGenres(scores map[string]int) []string {
	if len(scores) == 0 {
		return nil
	}
	first := true
	best := 0
	for _, score := range scores {
		if first || score > best {
			best = score
			first = false
		}
	}
	top := make([]string, 0, len(scores))
	for genre, score := range scores {
		if score == best {
			top = append(top, genre)
		}
	}
	sort.Strings(top)
	return top
}
