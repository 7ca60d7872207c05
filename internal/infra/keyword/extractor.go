// Package keyword ranks keyphrases inside a single piece of text.
//
// Candidates are the n-grams of each run of content words (runs are broken
// by stop words and punctuation). A word scores degree/frequency across all
// runs, a candidate scores the sum of its words times its occurrence count,
// and the final scores are normalised so the best candidate scores 1.
package keyword

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/bryanwahyu/textlens/internal/domain/tagging"
)

// Extractor implements tagging.Extractor and is safe for concurrent use.
// The zero value is not usable; use New.
type Extractor struct {
	stopwords map[tagging.StopwordPolicy]map[string]struct{}
}

func New() *Extractor {
	return &Extractor{
		stopwords: map[tagging.StopwordPolicy]map[string]struct{}{
			tagging.StopwordsEnglish: englishStopwords,
			tagging.StopwordsNone:    {},
		},
	}
}

type candidate struct {
	phrase string
	words  []string
	count  int
	first  int
}

func (e *Extractor) Extract(text string, opts tagging.Options) ([]tagging.Keyphrase, error) {
	if opts.NgramMin < 1 || opts.NgramMax < opts.NgramMin {
		return nil, fmt.Errorf("keyword: invalid ngram range (%d, %d)", opts.NgramMin, opts.NgramMax)
	}
	policy := opts.Stopwords
	if policy == "" {
		policy = tagging.StopwordsEnglish
	}
	stop, ok := e.stopwords[policy]
	if !ok {
		return nil, fmt.Errorf("keyword: unknown stopword policy %q", opts.Stopwords)
	}

	runs := e.runs(text, stop)
	if len(runs) == 0 {
		return nil, nil
	}

	freq := make(map[string]int)
	degree := make(map[string]int)
	for _, run := range runs {
		for _, w := range run {
			freq[w]++
			degree[w] += len(run)
		}
	}

	byPhrase := make(map[string]*candidate)
	var order []*candidate
	pos := 0
	for _, run := range runs {
		for n := opts.NgramMin; n <= opts.NgramMax; n++ {
			for i := 0; i+n <= len(run); i++ {
				words := run[i : i+n]
				phrase := strings.Join(words, " ")
				c, seen := byPhrase[phrase]
				if !seen {
					c = &candidate{phrase: phrase, words: words, first: pos}
					byPhrase[phrase] = c
					order = append(order, c)
				}
				c.count++
				pos++
			}
		}
	}
	if len(order) == 0 {
		return nil, nil
	}

	scored := make([]tagging.Keyphrase, len(order))
	firsts := make(map[string]int, len(order))
	for i, c := range order {
		var s float64
		for _, w := range c.words {
			s += float64(degree[w]) / float64(freq[w])
		}
		scored[i] = tagging.Keyphrase{Phrase: c.phrase, Score: s * float64(c.count)}
		firsts[c.phrase] = c.first
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return firsts[scored[i].Phrase] < firsts[scored[j].Phrase]
	})

	top := scored[0].Score
	for i := range scored {
		scored[i].Score /= top
	}
	if opts.TopN > 0 && len(scored) > opts.TopN {
		scored = scored[:opts.TopN]
	}
	return scored, nil
}

// runs splits normalised text into maximal sequences of content words.
func (e *Extractor) runs(text string, stop map[string]struct{}) [][]string {
	// Casers carry state, so each call gets its own.
	text = cases.Fold().String(norm.NFKC.String(text))

	var (
		runs [][]string
		cur  []string
		word strings.Builder
	)
	flushRun := func() {
		if len(cur) > 0 {
			runs = append(runs, cur)
			cur = nil
		}
	}
	flushWord := func() {
		if word.Len() == 0 {
			return
		}
		w := strings.Trim(word.String(), "-'")
		word.Reset()
		if !isContentWord(w, stop) {
			flushRun()
			return
		}
		cur = append(cur, w)
	}

	for _, r := range text {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r):
			word.WriteRune(r)
		case (r == '-' || r == '\'') && word.Len() > 0:
			word.WriteRune(r)
		case unicode.IsSpace(r):
			flushWord()
		default:
			flushWord()
			flushRun()
		}
	}
	flushWord()
	flushRun()
	return runs
}

func isContentWord(w string, stop map[string]struct{}) bool {
	if len([]rune(w)) < 2 {
		return false
	}
	if _, ok := stop[w]; ok {
		return false
	}
	hasLetter := false
	for _, r := range w {
		if unicode.IsLetter(r) {
			hasLetter = true
			break
		}
	}
	return hasLetter
}
