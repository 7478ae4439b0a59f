package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/logging"
)

const (
	RecipeImageFolder = "recipes"
	AvatarFolder      = "avatars"

	maxImageBytes = 10 << 20
)

var imageExtensions = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpg",
	"image/gif":  "gif",
	"image/webp": "webp",
}

// ImageStore persists image bytes under a key and serves them by URL.
type ImageStore interface {
	Save(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, url string) error
}

// ImageService accepts inline base64 images and stores them.
type ImageService struct {
	store ImageStore
}

func NewImageService(store ImageStore) *ImageService {
	return &ImageService{store: store}
}

var _ IImageService = (*ImageService)(nil)

// Store decodes encoded, which is a data URL or bare base64, and saves it
// under folder. It returns the public URL of the stored image.
func (s *ImageService) Store(ctx context.Context, folder, encoded string) (string, error) {
	data, contentType, ext, err := DecodeBase64Image(encoded)
	if err != nil {
		return "", err
	}
	key := fmt.Sprintf("%s/%s.%s", folder, uuid.New().String(), ext)
	url, err := s.store.Save(ctx, key, data, contentType)
	if err != nil {
		return "", fmt.Errorf("failed to store image: %w", err)
	}
	return url, nil
}

// Remove deletes a stored image. Failures are logged, not returned.
func (s *ImageService) Remove(ctx context.Context, url string) {
	if url == "" {
		return
	}
	if err := s.store.Delete(ctx, url); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("image", url).Msg("failed to delete image")
	}
}

// DecodeBase64Image decodes a data URL or bare base64 payload and checks that
// it is a png, jpeg, gif or webp image.
func DecodeBase64Image(encoded string) ([]byte, string, string, error) {
	payload := strings.TrimSpace(encoded)
	if payload == "" {
		return nil, "", "", ErrInvalidImage
	}
	if strings.HasPrefix(payload, "data:") {
		comma := strings.Index(payload, ",")
		if comma < 0 || !strings.HasSuffix(payload[:comma], ";base64") {
			return nil, "", "", ErrInvalidImage
		}
		payload = payload[comma+1:]
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", "", ErrInvalidImage
	}
	if len(data) == 0 || len(data) > maxImageBytes {
		return nil, "", "", ErrInvalidImage
	}

	mtype := mimetype.Detect(data)
	for contentType, ext := range imageExtensions {
		if mtype.Is(contentType) {
			return data, contentType, ext, nil
		}
	}
	return nil, "", "", ErrInvalidImage
}

// LocalImageStore writes images under Dir and serves them below BaseURL.
type LocalImageStore struct {
	Dir     string
	BaseURL string
}

func NewLocalImageStore(dir, baseURL string) *LocalImageStore {
	return &LocalImageStore{Dir: dir, BaseURL: strings.TrimRight(baseURL, "/")}
}

func (l *LocalImageStore) Save(_ context.Context, key string, data []byte, _ string) (string, error) {
	path := filepath.Join(l.Dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return l.BaseURL + "/" + key, nil
}

func (l *LocalImageStore) Delete(_ context.Context, url string) error {
	key, ok := strings.CutPrefix(url, l.BaseURL+"/")
	if !ok || strings.Contains(key, "..") {
		return fmt.Errorf("image %q is not stored locally", url)
	}
	err := os.Remove(filepath.Join(l.Dir, filepath.FromSlash(key)))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// S3ImageStore keeps images in an S3 bucket.
type S3ImageStore struct {
	s3 *config.S3Config
}

func NewS3ImageStore(cfg *config.S3Config) *S3ImageStore {
	return &S3ImageStore{s3: cfg}
}

func (st *S3ImageStore) Save(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	_, err := st.s3.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(st.s3.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}
	return st.s3.PublicURL(key), nil
}

func (st *S3ImageStore) Delete(ctx context.Context, url string) error {
	key, ok := strings.CutPrefix(url, st.s3.PublicURL(""))
	if !ok || key == "" {
		return fmt.Errorf("image %q is not in bucket %s", url, st.s3.BucketName)
	}
	_, err := st.s3.Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(st.s3.BucketName),
		Key:    aws.String(key),
	})
	return err
}
