package checks

import (
	"context"
	"fmt"
	"strings"

	"abscomp/core/storage"

	"github.com/minio/minio-go/v7"
)

// BucketReport describes the report bucket.
type BucketReport struct {
	Bucket  string `json:"bucket"`
	Prefix  string `json:"prefix"`
	Exists  bool   `json:"exists"`
	Reports int    `json:"reports"`
}

// CheckBucket verifies the bucket exists and counts the objects stored under prefix.
// A missing bucket is not an error; uploads create it on demand.
func CheckBucket(ctx context.Context, client storage.Client, bucket, prefix string) (BucketReport, error) {
	report := BucketReport{Bucket: bucket, Prefix: strings.Trim(prefix, "/")}

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return report, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	report.Exists = exists
	if !exists {
		return report, nil
	}

	opts := minio.ListObjectsOptions{Recursive: true}
	if report.Prefix != "" {
		opts.Prefix = report.Prefix + "/"
	}

	for obj := range client.ListObjects(ctx, bucket, opts) {
		if obj.Err != nil {
			return report, fmt.Errorf("failed to list bucket %s: %w", bucket, obj.Err)
		}
		if strings.HasSuffix(obj.Key, "/") {
			continue
		}
		report.Reports++
	}
	return report, nil
}
