package minio

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
)

// AttachmentStore keeps community post attachments under posts/{uuid}/{name}.
type AttachmentStore struct {
	repo   ObjectStorageRepository
	bucket string
}

func NewAttachmentStore(repo ObjectStorageRepository, bucket string) *AttachmentStore {
	return &AttachmentStore{repo: repo, bucket: bucket}
}

// Put uploads an attachment and returns its object key.
func (s *AttachmentStore) Put(ctx context.Context, filename string, r io.Reader, size int64, contentType string) (string, error) {
	key := fmt.Sprintf("posts/%s/%s", uuid.NewString(), filename)
	_, err := s.repo.Upload(ctx, &UploadRequest{
		Bucket:      s.bucket,
		ObjectKey:   key,
		Reader:      r,
		Size:        size,
		ContentType: contentType,
		Metadata:    map[string]string{"filename": filename},
	})
	if err != nil {
		return "", err
	}
	return key, nil
}

// URL returns a short-lived download link for key.
func (s *AttachmentStore) URL(ctx context.Context, key string) (string, error) {
	if !strings.HasPrefix(key, "posts/") {
		return "", ErrObjectNotFound
	}
	ok, err := s.repo.Exists(ctx, s.bucket, key)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrObjectNotFound
	}
	return s.repo.GetPresignedDownloadURL(ctx, s.bucket, key, 0)
}

// Delete removes an attachment. Keys outside posts/ are refused.
func (s *AttachmentStore) Delete(ctx context.Context, key string) error {
	if !strings.HasPrefix(key, "posts/") {
		return ErrObjectNotFound
	}
	return s.repo.Delete(ctx, s.bucket, key)
}

// ReportArchive keeps generated feasibility reports as markdown objects.
type ReportArchive struct {
	repo   ObjectStorageRepository
	bucket string
	now    func() time.Time
}

func NewReportArchive(repo ObjectStorageRepository, bucket string) *ReportArchive {
	return &ReportArchive{repo: repo, bucket: bucket, now: time.Now}
}

// Archive stores markdown under reports/{sessionID}/{timestamp}.md.
func (a *ReportArchive) Archive(ctx context.Context, sessionID int64, markdown string) (string, error) {
	key := fmt.Sprintf("reports/%d/%s.md", sessionID, a.now().UTC().Format("20060102T150405Z"))
	_, err := a.repo.Upload(ctx, &UploadRequest{
		Bucket:      a.bucket,
		ObjectKey:   key,
		Reader:      strings.NewReader(markdown),
		Size:        int64(len(markdown)),
		ContentType: "text/markdown; charset=utf-8",
	})
	if err != nil {
		return "", err
	}
	return key, nil
}

//Personal.AI order the ending
