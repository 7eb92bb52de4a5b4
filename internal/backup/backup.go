// Package backup copies the dashboard data files to an S3 compatible bucket.
package backup

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/sirupsen/logrus"

	"dashboard/internal/config"
)

// ObjectPutter is the subset of the S3 API used for uploads.
type ObjectPutter interface {
	PutObjectWithContext(ctx aws.Context, input *s3.PutObjectInput, opts ...request.Option) (*s3.PutObjectOutput, error)
}

// Source writes a consistent copy of its data files into a directory.
// storage.Backend satisfies it.
type Source interface {
	SnapshotTo(ctx context.Context, dir string) ([]string, error)
}

// Uploader snapshots a data source into a bucket.
type Uploader struct {
	client ObjectPutter
	bucket string
	prefix string
	source Source
	logger *logrus.Logger
	now    func() time.Time
}

// New builds an Uploader backed by an S3 session. Path-style addressing is used so
// MinIO and similar stores work with a custom endpoint.
func New(cfg config.Backup, source Source, logger *logrus.Logger) (*Uploader, error) {
	awsConfig := &aws.Config{
		Region:           aws.String(cfg.Region),
		DisableSSL:       aws.Bool(!cfg.UseSSL),
		S3ForcePathStyle: aws.Bool(true),
	}
	if cfg.AccessKeyID != "" {
		awsConfig.Credentials = credentials.NewStaticCredentials(cfg.AccessKeyID, cfg.SecretAccessKey, "")
	}
	if cfg.Endpoint != "" {
		awsConfig.Endpoint = aws.String(cfg.Endpoint)
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("create aws session: %w", err)
	}
	return NewWithClient(s3.New(sess), cfg.Bucket, cfg.Prefix, source, logger), nil
}

// NewWithClient builds an Uploader around an existing client.
func NewWithClient(client ObjectPutter, bucket, prefix string, source Source, logger *logrus.Logger) *Uploader {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Uploader{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
		source: source,
		logger: logger,
		now:    time.Now,
	}
}

// ObjectKey returns the key a file is stored under for a snapshot taken at t.
func (u *Uploader) ObjectKey(t time.Time, file string) string {
	stamp := t.UTC().Format("20060102T150405Z")
	return path.Join(u.prefix, stamp, filepath.Base(file))
}

// Snapshot copies the source into a temporary directory and uploads every copied
// file under one timestamped prefix. Upload errors are joined after all files were tried.
func (u *Uploader) Snapshot(ctx context.Context) (int, error) {
	taken := u.now()

	dir, err := os.MkdirTemp("", "dashboard-backup-*")
	if err != nil {
		return 0, fmt.Errorf("create snapshot dir: %w", err)
	}
	defer os.RemoveAll(dir)

	files, err := u.source.SnapshotTo(ctx, dir)
	if err != nil {
		return 0, fmt.Errorf("snapshot data: %w", err)
	}

	uploaded := 0
	var errs []error
	for _, file := range files {
		key := u.ObjectKey(taken, file)
		if err := u.upload(ctx, file, key); err != nil {
			u.logger.WithError(err).WithField("file", file).Error("backup upload failed")
			errs = append(errs, err)
			continue
		}
		uploaded++
		u.logger.WithFields(logrus.Fields{
			"file":   file,
			"bucket": u.bucket,
			"key":    key,
		}).Info("backup uploaded")
	}
	return uploaded, errors.Join(errs...)
}

func (u *Uploader) upload(ctx context.Context, file, key string) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = u.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String(contentType(file)),
		Metadata: map[string]*string{
			"source": aws.String("dashboard"),
		},
	})
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

func contentType(file string) string {
	switch filepath.Ext(file) {
	case ".json":
		return "application/json"
	case ".txt":
		return "text/plain; charset=utf-8"
	default:
		return "application/octet-stream"
	}
}

// Run takes a snapshot immediately and then every interval until ctx is done.
func (u *Uploader) Run(ctx context.Context, interval time.Duration) {
	u.logger.WithFields(logrus.Fields{
		"bucket":   u.bucket,
		"interval": interval,
	}).Info("periodic backup started")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := u.Snapshot(ctx); err != nil {
			u.logger.WithError(err).Warn("backup snapshot incomplete")
		}
		select {
		case <-ctx.Done():
			u.logger.Info("periodic backup stopped")
			return
		case <-ticker.C:
		}
	}
}
