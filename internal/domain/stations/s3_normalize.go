package stations

import "strings"

type S3Normalize struct{}

func NewS3Normalize() *S3Normalize { return &S3Normalize{} }

// Run collapses every whitespace run to a single space and trims the ends.
func (s *S3Normalize) Run(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

const (
	summaryLen   = 400
	emptySummary = "No summary available."
)

// Summary is the first 400 characters of normalized text.
func Summary(normalized string) string {
	if normalized == "" {
		return emptySummary
	}
	r := []rune(normalized)
	if len(r) > summaryLen {
		r = r[:summaryLen]
	}
	return string(r)
}
