package tagging

import (
	"github.com/sirupsen/logrus"

	domain "github.com/bryanwahyu/textlens/internal/domain/tagging"
	"github.com/bryanwahyu/textlens/internal/logger"
)

// Service labels text with keyphrases from a shared extractor.
type Service struct {
	extractor domain.Extractor
	opts      domain.Options
}

func NewService(extractor domain.Extractor, opts domain.Options) *Service {
	return &Service{extractor: extractor, opts: opts}
}

// Tag returns the top-ranked keyphrase, or nil when there is none or the
// extractor fails.
func (s *Service) Tag(text string) *string {
	opts := s.opts
	opts.TopN = 1
	phrases, err := s.extract(text, opts)
	if err != nil || len(phrases) == 0 {
		return nil
	}
	tag := phrases[0].Phrase
	return &tag
}

// Keyphrases returns up to topN ranked phrases. topN <= 0 uses the configured default.
func (s *Service) Keyphrases(text string, topN int) ([]domain.Keyphrase, error) {
	opts := s.opts
	if topN > 0 {
		opts.TopN = topN
	}
	phrases, err := s.extract(text, opts)
	if err != nil {
		return nil, err
	}
	if phrases == nil {
		phrases = []domain.Keyphrase{}
	}
	return phrases, nil
}

func (s *Service) extract(text string, opts domain.Options) ([]domain.Keyphrase, error) {
	phrases, err := s.extractor.Extract(text, opts)
	if err != nil {
		logger.Log.WithFields(logrus.Fields{
			"ngram_min": opts.NgramMin,
			"ngram_max": opts.NgramMax,
			"stopwords": opts.Stopwords,
		}).Errorf("keyphrase extraction failed: %v", err)
		return nil, err
	}
	return phrases, nil
}
