package analysis

import (
	"context"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/bryanwahyu/textlens/internal/application"
	domai "github.com/bryanwahyu/textlens/internal/domain/ai"
	domain "github.com/bryanwahyu/textlens/internal/domain/analysis"
	"github.com/bryanwahyu/textlens/internal/infra/ai/prompt"
	"github.com/bryanwahyu/textlens/internal/logger"
)

const DefaultConcurrency = 2

// Service runs the four area analyses for a piece of text.
// Service is safe for concurrent use.
type Service struct {
	client      domai.Client
	concurrency int
	prompt      func(text string, area domain.Area) string
	clock       application.Clock
	onOutcome   func(area domain.Area, o domai.Outcome)
}

type Option func(*Service)

// WithConcurrency bounds how many inference calls run at once for one request.
func WithConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithOutcomeHook is called once per area after its call finishes.
func WithOutcomeHook(fn func(area domain.Area, o domai.Outcome)) Option {
	return func(s *Service) { s.onOutcome = fn }
}

func WithClock(c application.Clock) Option {
	return func(s *Service) {
		if c != nil {
			s.clock = c
		}
	}
}

func NewService(client domai.Client, opts ...Option) *Service {
	s := &Service{
		client:      client,
		concurrency: DefaultConcurrency,
		prompt:      prompt.Analysis,
		clock:       application.SystemClock{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Analyze returns exactly one outcome per area. Inference failures are
// reported inside the report, never as an error.
func (s *Service) Analyze(ctx context.Context, text string) domain.Report {
	start := s.clock.Now()
	areas := domain.Areas()
	outcomes := make([]domai.Outcome, len(areas))

	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i, area := range areas {
		i, area := i, area
		g.Go(func() error {
			outcomes[i] = s.client.Generate(ctx, s.prompt(text, area))
			return nil
		})
	}
	_ = g.Wait()

	report := make(domain.Report, len(areas))
	failed := 0
	for i, area := range areas {
		o := outcomes[i]
		report[area] = o
		if f := o.Failure(); f != nil {
			failed++
			logger.Log.WithFields(logrus.Fields{
				"area": area,
				"kind": f.Kind,
			}).Warnf("analysis failed: %s", f.Detail)
		}
		if s.onOutcome != nil {
			s.onOutcome(area, o)
		}
	}

	logger.Log.WithFields(logrus.Fields{
		"areas":    len(areas),
		"failed":   failed,
		"chars":    len(text),
		"duration": s.clock.Now().Sub(start).String(),
	}).Info("analysis completed")
	return report
}
