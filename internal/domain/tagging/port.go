package tagging

// Extractor returns keyphrases ordered by descending score, at most opts.TopN.
type Extractor interface {
	Extract(text string, opts Options) ([]Keyphrase, error)
}
