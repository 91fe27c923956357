package s3

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"mime/multipart"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/disintegration/imaging"

	"github.com/rokibulparves/sobol/internal/config"
)

// MediaStorage serves the training content bucket: video objects resolved to
// presigned playback URLs and poster images uploaded alongside them.
type MediaStorage struct {
	client    *s3.Client
	presigner *s3.PresignClient
	bucket    string
	endpoint  string
	urlExpiry time.Duration
}

func NewMediaStorage(cfg config.StorageConfig) (*MediaStorage, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(aws.CredentialsProviderFunc(
			func(ctx context.Context) (aws.Credentials, error) {
				return aws.Credentials{
					AccessKeyID:     cfg.AccessKeyID,
					SecretAccessKey: cfg.SecretAccessKey,
				}, nil
			},
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.Endpoint)
		o.UsePathStyle = true // path-style for S3-compatible services
		o.Region = cfg.Region
	})

	return &MediaStorage{
		client:    client,
		presigner: s3.NewPresignClient(client),
		bucket:    cfg.Bucket,
		endpoint:  cfg.Endpoint,
		urlExpiry: cfg.VideoURLExpiry,
	}, nil
}

// VideoURL resolves a stored video filename to a time-limited playback URL.
func (s *MediaStorage) VideoURL(ctx context.Context, filename string) (string, error) {
	key := fmt.Sprintf("videos/%s", filename)
	req, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.urlExpiry))
	if err != nil {
		return "", fmt.Errorf("failed to presign video %s: %w", filename, err)
	}
	return req.URL, nil
}

// UploadPoster stores a day's poster image plus a generated thumbnail and
// returns the public URLs of both.
func (s *MediaStorage) UploadPoster(ctx context.Context, day int, file multipart.File, fileHeader *multipart.FileHeader) (
	posterURL, thumbURL string, err error) {

	fileBytes, err := io.ReadAll(file)
	if err != nil {
		return "", "", fmt.Errorf("failed to read poster: %w", err)
	}

	posterKey := fmt.Sprintf("posters/day_%d/original.jpg", day)
	thumbKey := fmt.Sprintf("posters/day_%d/thumb.jpg", day)

	thumbBytes, err := s.createThumbnail(fileBytes)
	if err != nil {
		return "", "", err
	}

	contentType := fileHeader.Header.Get("Content-Type")
	posterURL, err = s.uploadBytes(ctx, fileBytes, posterKey, contentType)
	if err != nil {
		return "", "", err
	}
	thumbURL, err = s.uploadBytes(ctx, thumbBytes, thumbKey, "image/jpeg")
	if err != nil {
		return "", "", err
	}
	return posterURL, thumbURL, nil
}

func (s *MediaStorage) createThumbnail(data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	thumb := imaging.Thumbnail(img, 300, 300, imaging.Lanczos)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, thumb, &jpeg.Options{Quality: 85}); err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *MediaStorage) uploadBytes(ctx context.Context, data []byte, key, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}
	return fmt.Sprintf("%s/%s/%s", s.endpoint, s.bucket, key), nil
}
