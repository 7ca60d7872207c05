package tagging

import (
	"errors"
	"testing"

	domain "github.com/bryanwahyu/textlens/internal/domain/tagging"
)

type mockExtractor struct {
	phrases  []domain.Keyphrase
	err      error
	lastOpts domain.Options
	lastText string
}

func (m *mockExtractor) Extract(text string, opts domain.Options) ([]domain.Keyphrase, error) {
	m.lastText = text
	m.lastOpts = opts
	if m.err != nil {
		return nil, m.err
	}
	out := m.phrases
	if opts.TopN > 0 && len(out) > opts.TopN {
		out = out[:opts.TopN]
	}
	return out, nil
}

func TestTagReturnsTopPhrase(t *testing.T) {
	ex := &mockExtractor{phrases: []domain.Keyphrase{
		{Phrase: "predictive diagnostics", Score: 1},
		{Phrase: "healthcare", Score: 0.5},
	}}
	svc := NewService(ex, domain.DefaultOptions())

	tag := svc.Tag("AI is transforming healthcare through predictive diagnostics.")
	if tag == nil || *tag != "predictive diagnostics" {
		t.Fatalf("tag = %v", tag)
	}
	if ex.lastOpts.TopN != 1 {
		t.Errorf("Tag asked for %d phrases", ex.lastOpts.TopN)
	}
}

func TestTagNilWhenNothingFound(t *testing.T) {
	svc := NewService(&mockExtractor{}, domain.DefaultOptions())
	if tag := svc.Tag(""); tag != nil {
		t.Fatalf("tag = %q, want nil", *tag)
	}
}

func TestTagNilOnExtractorError(t *testing.T) {
	svc := NewService(&mockExtractor{err: errors.New("boom")}, domain.DefaultOptions())
	if tag := svc.Tag("text"); tag != nil {
		t.Fatalf("tag = %q, want nil", *tag)
	}
}

func TestKeyphrases(t *testing.T) {
	ex := &mockExtractor{phrases: []domain.Keyphrase{{Phrase: "a"}, {Phrase: "b"}, {Phrase: "c"}}}
	opts := domain.DefaultOptions()
	opts.TopN = 2
	svc := NewService(ex, opts)

	got, err := svc.Keyphrases("text", 0)
	if err != nil {
		t.Fatalf("Keyphrases: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("default top n gave %d phrases", len(got))
	}

	got, _ = svc.Keyphrases("text", 3)
	if len(got) != 3 {
		t.Errorf("explicit top n gave %d phrases", len(got))
	}
}

func TestKeyphrasesEmptyIsNotNil(t *testing.T) {
	got, err := NewService(&mockExtractor{}, domain.DefaultOptions()).Keyphrases("", 5)
	if err != nil {
		t.Fatalf("Keyphrases: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("got %#v", got)
	}
}

func TestKeyphrasesPropagatesError(t *testing.T) {
	if _, err := NewService(&mockExtractor{err: errors.New("boom")}, domain.DefaultOptions()).Keyphrases("x", 1); err == nil {
		t.Fatal("expected error")
	}
}
