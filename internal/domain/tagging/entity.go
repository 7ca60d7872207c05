package tagging

// StopwordPolicy selects which words never start, end or sit inside a keyphrase.
type StopwordPolicy string

const (
	StopwordsEnglish StopwordPolicy = "english"
	StopwordsNone    StopwordPolicy = "none"
)

// Keyphrase is one ranked candidate.
type Keyphrase struct {
	Phrase string  `json:"phrase"`
	Score  float64 `json:"score"`
}

// Options mirrors the knobs of a keyphrase extractor.
type Options struct {
	NgramMin  int            `json:"ngram_min"`
	NgramMax  int            `json:"ngram_max"`
	Stopwords StopwordPolicy `json:"stopwords"`
	TopN      int            `json:"top_n"`
}

// DefaultOptions returns unigram/bigram extraction with English stop words.
func DefaultOptions() Options {
	return Options{NgramMin: 1, NgramMax: 2, Stopwords: StopwordsEnglish, TopN: 1}
}
