package report

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"abscomp/core/storage"

	"github.com/minio/minio-go/v7"
)

// Uploader copies written report files to an object storage bucket.
type Uploader struct {
	client storage.Client
	bucket string
	prefix string
}

// NewUploader creates an uploader for bucket; objects are stored under prefix.
func NewUploader(client storage.Client, bucket, prefix string) *Uploader {
	return &Uploader{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
	}
}

// ObjectName returns the object name a local file is uploaded to.
func (u *Uploader) ObjectName(file string) string {
	if u.prefix == "" {
		return filepath.Base(file)
	}
	return path.Join(u.prefix, filepath.Base(file))
}

// Upload creates the bucket if needed and uploads every file, returning the object names.
func (u *Uploader) Upload(ctx context.Context, files []string) ([]string, error) {
	if len(files) == 0 {
		return nil, nil
	}

	exists, err := u.client.BucketExists(ctx, u.bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", u.bucket, err)
	}
	if !exists {
		if err := u.client.MakeBucket(ctx, u.bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", u.bucket, err)
		}
	}

	objects := make([]string, 0, len(files))
	for _, file := range files {
		name, err := u.uploadFile(ctx, file)
		if err != nil {
			return objects, err
		}
		objects = append(objects, name)
	}
	return objects, nil
}

func (u *Uploader) uploadFile(ctx context.Context, file string) (string, error) {
	f, err := os.Open(file)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", file, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("failed to stat %s: %w", file, err)
	}

	contentType := FormatJSON.ContentType()
	if strings.EqualFold(filepath.Ext(file), ".csv") {
		contentType = FormatCSV.ContentType()
	}

	name := u.ObjectName(file)
	_, err = u.client.PutObject(ctx, u.bucket, name, f, info.Size(), minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", name, err)
	}
	return name, nil
}
