package integrity

import (
	"context"

	"abscomp/core/storage"
	"abscomp/feature/integrity/checks"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Report combines the results of every check.
type Report struct {
	Healthy   bool                   `json:"healthy"`
	Libraries []checks.LibraryReport `json:"libraries"`
	Bucket    *checks.BucketReport   `json:"bucket,omitempty"`
	// BucketError is set when the bucket check itself failed.
	BucketError string `json:"bucket_error,omitempty"`
}

// Service handles integrity checks.
type Service struct {
	libraries []checks.Pinger
	client    storage.Client
	bucket    string
	prefix    string
	logger    *zap.Logger
}

// NewService creates a new integrity service. A nil client disables the bucket check.
func NewService(libraries []checks.Pinger, client storage.Client, bucket, prefix string, logger *zap.Logger) *Service {
	return &Service{
		libraries: libraries,
		client:    client,
		bucket:    bucket,
		prefix:    prefix,
		logger:    logger,
	}
}

// BucketEnabled reports whether the bucket check runs.
func (s *Service) BucketEnabled() bool {
	return s.client != nil
}

// CheckLibraries pings every library concurrently; reports keep library order.
func (s *Service) CheckLibraries(ctx context.Context) []checks.LibraryReport {
	reports := make([]checks.LibraryReport, len(s.libraries))

	var g errgroup.Group
	for i, lib := range s.libraries {
		g.Go(func() error {
			reports[i] = checks.CheckLibrary(ctx, lib)
			return nil
		})
	}
	_ = g.Wait()

	return reports
}

// CheckBucket inspects the report bucket.
func (s *Service) CheckBucket(ctx context.Context) (checks.BucketReport, error) {
	return checks.CheckBucket(ctx, s.client, s.bucket, s.prefix)
}

// Run executes all checks.
func (s *Service) Run(ctx context.Context) Report {
	report := Report{Healthy: true, Libraries: s.CheckLibraries(ctx)}

	for _, lib := range report.Libraries {
		if !lib.OK() {
			s.logger.Warn("Library unreachable", zap.String("library", lib.Name), zap.String("error", lib.Error))
			report.Healthy = false
		}
	}

	if s.BucketEnabled() {
		bucket, err := s.CheckBucket(ctx)
		if err != nil {
			s.logger.Warn("Bucket check failed", zap.String("bucket", s.bucket), zap.Error(err))
			report.BucketError = err.Error()
			report.Healthy = false
		} else {
			report.Bucket = &bucket
		}
	}

	return report
}
