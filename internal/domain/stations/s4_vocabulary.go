package stations

import "regexp"

const (
	minTermLen = 6
	poolSize   = 25
)

// ASCII word class: non-Latin letters act as separators.
var nonWord = regexp.MustCompile(`\W+`)

type S4Vocabulary struct{}

func NewS4Vocabulary() *S4Vocabulary { return &S4Vocabulary{} }

// Run returns the candidate pool: tokens longer than five characters,
// deduplicated in first-seen order, at most 25 of them.
func (s *S4Vocabulary) Run(text string) []string {
	pool := make([]string, 0, poolSize)
	seen := make(map[string]struct{})

	for _, w := range nonWord.Split(text, -1) {
		if len(w) < minTermLen {
			continue
		}
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		pool = append(pool, w)
		if len(pool) == poolSize {
			break
		}
	}
	return pool
}
