package stations

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/Vovarama1992/lectoquiz/internal/ports"
	"go.uber.org/zap"
)

func nopLogger() *logger.ZapLogger {
	return logger.NewZapLogger(zap.NewNop().Sugar())
}

const photosynthesis = "Photosynthesis converts sunlight into chemical energy through chlorophyll molecules inside chloroplasts organelles"

func TestNormalizeCollapsesWhitespace(t *testing.T) {
	n := NewS3Normalize()

	cases := map[string]string{
		"":                          "",
		"   ":                       "",
		"one":                       "one",
		"  a\t\tb\n\nc  ":           "a b c",
		"line one\r\nline two\fend": "line one line two end",
		photosynthesis:              photosynthesis,
	}
	for in, want := range cases {
		if got := n.Run(in); got != want {
			t.Fatalf("Run(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizeHasNoDoubleOrEdgeWhitespace(t *testing.T) {
	n := NewS3Normalize()
	inputs := []string{
		"\n\n  Lecture \t 1 \n\n Introduction   to   biology \v\v",
		strings.Repeat(" x ", 50),
		" nbsp  separated ",
	}
	for _, in := range inputs {
		out := n.Run(in)
		if strings.TrimSpace(out) != out {
			t.Fatalf("edge whitespace in %q", out)
		}
		if strings.Contains(out, "  ") {
			t.Fatalf("double space in %q", out)
		}
	}
}

func TestVocabularyExample(t *testing.T) {
	got := NewS4Vocabulary().Run(photosynthesis)
	want := []string{
		"Photosynthesis", "converts", "sunlight", "chemical", "energy", "through",
		"chlorophyll", "molecules", "inside", "chloroplasts", "organelles",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("pool = %v, want %v", got, want)
	}
}

func TestVocabularyDedupesAndSplitsOnNonWord(t *testing.T) {
	got := NewS4Vocabulary().Run("enzyme, enzyme; (catalyst)-catalyst short words proteins.enzyme")
	want := []string{"enzyme", "catalyst", "proteins"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("pool = %v, want %v", got, want)
	}
}

func TestVocabularyCapsPool(t *testing.T) {
	var words []string
	for i := 0; i < 40; i++ {
		words = append(words, fmt.Sprintf("term%03d", i))
	}
	got := NewS4Vocabulary().Run(strings.Join(words, " "))
	if len(got) != 25 {
		t.Fatalf("pool size = %d, want 25", len(got))
	}
	if got[0] != "term000" || got[24] != "term024" {
		t.Fatalf("unexpected order: %v", got)
	}
}

func TestVocabularyEmpty(t *testing.T) {
	if got := NewS4Vocabulary().Run(""); len(got) != 0 {
		t.Fatalf("expected empty pool, got %v", got)
	}
}

func poolOf(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("keyword%02d", i)
	}
	return out
}

func TestSynthesizeCount(t *testing.T) {
	s := NewS5Synthesize("")
	for size := 0; size <= 25; size++ {
		want := 0
		if size >= 4 {
			want = min(5, size-3)
		}
		qs := s.Run(poolOf(size), "lec-1")
		if len(qs) != want {
			t.Fatalf("pool %d: got %d questions, want %d", size, len(qs), want)
		}
	}
}

func TestSynthesizeThreeItemPool(t *testing.T) {
	if qs := NewS5Synthesize("").Run([]string{"alphaaa", "betaaaa", "gammaaa"}, "x"); len(qs) != 0 {
		t.Fatalf("expected no questions, got %d", len(qs))
	}
}

func TestSynthesizeAnswerAlwaysInOptions(t *testing.T) {
	s := NewS5Synthesize("")
	pool := NewS4Vocabulary().Run(photosynthesis)

	// перемешивание случайное, поэтому проверяем инвариант многократно
	for run := 0; run < 200; run++ {
		qs := s.Run(pool, "lec-1")
		if len(qs) != 5 {
			t.Fatalf("got %d questions, want 5", len(qs))
		}
		for _, q := range qs {
			if !q.HasValidAnswer() {
				t.Fatalf("answer %q not in options %v", q.Answer, q.Options)
			}
			seen := map[string]bool{}
			for _, o := range q.Options {
				if seen[o] {
					t.Fatalf("duplicate option %q in %v", o, q.Options)
				}
				seen[o] = true
			}
			if q.Difficulty != 1 || q.LectureID != "lec-1" || q.Content != DefaultPrompt {
				t.Fatalf("unexpected question fields: %+v", q)
			}
		}
	}
}

func TestSynthesizeDistractorWindow(t *testing.T) {
	noShuffle := func(int, func(i, j int)) {}
	s := NewS5Synthesize("Pick one").WithShuffle(noShuffle)

	pool := poolOf(5)
	qs := s.Run(pool, "lec")
	want := [][]string{
		{pool[0], pool[2], pool[3], pool[4]},
		{pool[1], pool[3], pool[4]},
	}
	if len(qs) != len(want) {
		t.Fatalf("got %d questions, want %d", len(qs), len(want))
	}
	for i, q := range qs {
		if !reflect.DeepEqual(q.Options, want[i]) {
			t.Fatalf("question %d options = %v, want %v", i, q.Options, want[i])
		}
		if q.Answer != pool[i] || q.Content != "Pick one" {
			t.Fatalf("question %d = %+v", i, q)
		}
	}
}

func TestSynthesizeShuffleIsApplied(t *testing.T) {
	reverse := func(n int, swap func(i, j int)) {
		for i := 0; i < n/2; i++ {
			swap(i, n-1-i)
		}
	}
	qs := NewS5Synthesize("").WithShuffle(reverse).Run(poolOf(8), "lec")
	first := qs[0]
	if first.Options[len(first.Options)-1] != first.Answer {
		t.Fatalf("expected reversed options with answer last, got %v", first.Options)
	}
}

type fakeExtractor struct {
	text string
	err  error
}

func (f fakeExtractor) Extract(context.Context, []byte) (string, error) { return f.text, f.err }

func TestExtractTextPicksByExtension(t *testing.T) {
	s2 := NewS2ExtractText(map[string]ports.TextExtractor{
		".PDF": fakeExtractor{text: "from pdf"},
		".txt": fakeExtractor{text: "from txt"},
	}, nopLogger())

	got, err := s2.Run(context.Background(), "uploads/abc.pdf", nil)
	if err != nil || got != "from pdf" {
		t.Fatalf("pdf: got %q, %v", got, err)
	}
	got, err = s2.Run(context.Background(), "notes.TXT", nil)
	if err != nil || got != "from txt" {
		t.Fatalf("txt: got %q, %v", got, err)
	}
	if !s2.Supports("x.Pdf") || s2.Supports("x.docx") {
		t.Fatal("Supports mismatch")
	}
	if _, err := s2.Run(context.Background(), "x.docx", nil); err == nil {
		t.Fatal("expected error for unknown extension")
	}
}

func TestExtractTextWrapsExtractorError(t *testing.T) {
	boom := errors.New("corrupt")
	s2 := NewS2ExtractText(map[string]ports.TextExtractor{".pdf": fakeExtractor{err: boom}}, nopLogger())
	if _, err := s2.Run(context.Background(), "a.pdf", nil); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}

func TestSummary(t *testing.T) {
	if got := Summary(""); got != "No summary available." {
		t.Fatalf("empty summary = %q", got)
	}
	if got := Summary(photosynthesis); got != photosynthesis {
		t.Fatalf("short text changed: %q", got)
	}

	long := strings.Repeat("ж", 450)
	got := Summary(long)
	if n := len([]rune(got)); n != 400 {
		t.Fatalf("summary has %d runes, want 400", n)
	}
}
