package service

import (
	"context"
	"fmt"
	"mime/multipart"

	"github.com/rokibulparves/sobol/internal/storage/postgres"
	"github.com/rokibulparves/sobol/internal/storage/s3"
)

// UploadService ingests poster images for training days.
type UploadService struct {
	Storage *postgres.Storage
	Media   *s3.MediaStorage
}

func NewUploadService(storage *postgres.Storage, media *s3.MediaStorage) *UploadService {
	return &UploadService{Storage: storage, Media: media}
}

// UploadPoster stores the poster (plus a generated thumbnail) for a day that
// already has a video row, and saves both URLs on that row.
func (s *UploadService) UploadPoster(ctx context.Context, day int, fileHeader *multipart.FileHeader) (
	posterURL, thumbURL string, err error) {

	if _, err := s.Storage.GetVideoByDay(ctx, day); err != nil {
		return "", "", fmt.Errorf("no video for day %d: %w", day, err)
	}

	src, err := fileHeader.Open()
	if err != nil {
		return "", "", err
	}
	defer src.Close()

	posterURL, thumbURL, err = s.Media.UploadPoster(ctx, day, src, fileHeader)
	if err != nil {
		return "", "", fmt.Errorf("failed to upload poster: %w", err)
	}

	if err := s.Storage.UpdateVideoPoster(ctx, day, posterURL, thumbURL); err != nil {
		return "", "", err
	}
	return posterURL, thumbURL, nil
}
