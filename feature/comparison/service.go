package comparison

import (
	"context"

	"abscomp/core/compare"

	"go.uber.org/zap"
)

// Service runs comparisons between two libraries through a result cache.
type Service struct {
	one    compare.Source
	two    compare.Source
	opts   compare.Options
	cache  *compare.Cache
	logger *zap.Logger
}

// NewService creates a new comparison service.
func NewService(one, two compare.Source, opts compare.Options, cache *compare.Cache, logger *zap.Logger) *Service {
	return &Service{
		one:    one,
		two:    two,
		opts:   opts,
		cache:  cache,
		logger: logger,
	}
}

// Libraries returns the names of the compared libraries.
func (s *Service) Libraries() (string, string) {
	return s.one.Name(), s.two.Name()
}

// Result returns the cached comparison, building it when missing, expired or refresh is set.
func (s *Service) Result(ctx context.Context, refresh bool) (*compare.Result, error) {
	if refresh {
		s.cache.Invalidate(s.one, s.two, s.opts)
	}
	return s.cache.GetOrRun(ctx, s.one, s.two, s.opts)
}
