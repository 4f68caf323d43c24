package stations

import (
	"math/rand/v2"

	"github.com/Vovarama1992/lectoquiz/internal/models"
)

const (
	maxQuestions   = 5
	maxDistractors = 3
)

// DefaultPrompt: «Какое ключевое слово больше всего относится к этой лекции?» (монг.)
const DefaultPrompt = "Энэ лекцийн хамгийн холбоотой түлхүүр үг аль нь вэ?"

type ShuffleFunc func(n int, swap func(i, j int))

type S5Synthesize struct {
	prompt  string
	shuffle ShuffleFunc
}

func NewS5Synthesize(prompt string) *S5Synthesize {
	if prompt == "" {
		prompt = DefaultPrompt
	}
	return &S5Synthesize{prompt: prompt, shuffle: rand.Shuffle}
}

// WithShuffle replaces the permutation source; tests pin it.
func (s *S5Synthesize) WithShuffle(fn ShuffleFunc) *S5Synthesize {
	s.shuffle = fn
	return s
}

// Run builds min(5, len(pool)-3) questions. Pool entries are unique, so
// options never repeat the answer.
func (s *S5Synthesize) Run(pool []string, lectureID string) []models.Question {
	n := min(maxQuestions, len(pool)-maxDistractors)
	if n <= 0 {
		return nil
	}

	out := make([]models.Question, 0, n)
	for i := 0; i < n; i++ {
		correct := pool[i]

		// пул без правильного ответа, окно со сдвигом i+1
		rest := make([]string, 0, len(pool)-1)
		for _, w := range pool {
			if w != correct {
				rest = append(rest, w)
			}
		}
		from := min(i+1, len(rest))
		to := min(i+1+maxDistractors, len(rest))

		options := make([]string, 0, 1+maxDistractors)
		options = append(options, correct)
		options = append(options, rest[from:to]...)
		s.shuffle(len(options), func(a, b int) { options[a], options[b] = options[b], options[a] })

		out = append(out, models.Question{
			Content:    s.prompt,
			Options:    options,
			Answer:     correct,
			Difficulty: 1,
			LectureID:  lectureID,
		})
	}
	return out
}
