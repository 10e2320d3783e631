// Package storage uploads accepted certificate files to the shared document
// bucket. Upload happens only after identity validation and duplicate
// resolution pass, so a rejected file never leaves an orphaned object.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
	"time"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"

	"github.com/fleetdocs/shipcert/internal/common"
)

// StoredFile identifies an uploaded object.
type StoredFile struct {
	FileID  string
	FileURL string
}

// Uploader is the capability the pipeline depends on.
type Uploader interface {
	Upload(ctx context.Context, data []byte, filename, folderPath, contentType string) (StoredFile, error)
}

// Config carries the bucket settings.
type Config struct {
	Bucket     string
	FolderRoot string
}

// GCSUploader implements Uploader on a Cloud Storage bucket, one folder per
// ship under FolderRoot.
type GCSUploader struct {
	client *gcs.Client
	cfg    Config
	logger *slog.Logger
}

func NewGCSUploader(ctx context.Context, cfg Config, logger *slog.Logger) (*GCSUploader, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("storage: bucket cannot be empty: %w", common.ErrInvalidInput)
	}
	if logger == nil {
		logger = slog.Default()
	}
	client, err := gcs.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("storage.NewClient: %w", err)
	}
	return &GCSUploader{client: client, cfg: cfg, logger: logger}, nil
}

func (u *GCSUploader) Upload(ctx context.Context, data []byte, filename, folderPath, contentType string) (StoredFile, error) {
	objectName := path.Join(u.cfg.FolderRoot, folderPath, sanitizeObjectName(filename))
	start := time.Now()
	u.logger.Info("storage.upload.start", "object", objectName, "bytes", len(data))

	w := u.client.Bucket(u.cfg.Bucket).Object(objectName).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		_ = w.Close()
		return StoredFile{}, u.classify(objectName, err)
	}
	if err := w.Close(); err != nil {
		return StoredFile{}, u.classify(objectName, err)
	}

	u.logger.Info("storage.upload.ok", "object", objectName, "elapsed_ms", time.Since(start).Milliseconds())
	return StoredFile{
		FileID:  objectName,
		FileURL: fmt.Sprintf("gs://%s/%s", u.cfg.Bucket, objectName),
	}, nil
}

// classify separates transient transport failures from hard rejections.
// Rate-limit and server-side errors are worth retrying; anything else is not.
func (u *GCSUploader) classify(objectName string, err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && (gerr.Code == 429 || gerr.Code >= 500) {
		u.logger.Warn("storage.upload.transient", "object", objectName, "code", gerr.Code, "err", err)
		return common.WrapRetryable("storage.upload", err)
	}
	u.logger.Error("storage.upload.error", "object", objectName, "err", err)
	return fmt.Errorf("storage upload %s: %w", objectName, err)
}

func (u *GCSUploader) Close() error {
	return u.client.Close()
}

// sanitizeObjectName keeps object names portable across the document store.
func sanitizeObjectName(name string) string {
	name = strings.TrimSpace(name)
	replacer := strings.NewReplacer("/", "-", "\\", "-", "#", "-", "?", "-")
	return replacer.Replace(name)
}
