package uploads

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// Storage buckets.
const (
	BucketServiceImages = "service-images"
	BucketProfilePhotos = "profile-photos"
)

var ErrNotAnImage = errors.New("Only image files are allowed (jpg, jpeg, png, gif, webp)")

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// Service generates signed upload URLs so clients push image bytes straight
// to storage; the API never proxies file content.
type Service struct {
	Client      StorageClient
	SupabaseURL string
}

// UploadResult carries the signed URL for the upload plus the public URL to
// store on the service or profile.
type UploadResult struct {
	UploadURL string `json:"upload_url"`
	PublicURL string `json:"public_url"`
	Path      string `json:"path"`
}

// GetSignedUploadURL validates the file name as an image and creates a
// signed upload URL in the given bucket. Paths are prefixed with a
// millisecond timestamp so names never collide.
func (s *Service) GetSignedUploadURL(ctx context.Context, bucket, fileName string) (*UploadResult, error) {
	ext := strings.ToLower(filepath.Ext(fileName))
	if !imageExtensions[ext] {
		return nil, ErrNotAnImage
	}

	path := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), fileName)

	signedURL, err := s.Client.CreateSignedUploadURL(ctx, bucket, path)
	if err != nil {
		return nil, err
	}

	publicBase := strings.TrimRight(s.SupabaseURL, "/")
	publicURL := fmt.Sprintf("%s/storage/v1/object/public/%s/%s", publicBase, bucket, path)

	return &UploadResult{
		UploadURL: signedURL,
		PublicURL: publicURL,
		Path:      path,
	}, nil
}
