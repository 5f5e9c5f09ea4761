package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"resumeradar/pkg/types"

	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var ErrUnknownLocation = errors.New("location does not belong to this store")

// Object is a fetched blob. Callers must close Body.
type Object struct {
	Body        io.ReadCloser
	ContentType string
	Size        int64
}

// BlobStore stores raw file bytes and hands back a location that can later
// be fetched again.
type BlobStore interface {
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)
	Fetch(ctx context.Context, location string) (*Object, error)
}

func New(config *types.Config, s3Client *s3.Client) (BlobStore, error) {
	switch config.StorageBackend {
	case "s3":
		if config.S3BucketName == "" {
			return nil, fmt.Errorf("set S3_BUCKET_NAME for the s3 storage backend")
		}
		return NewS3Storage(s3Client, config.S3BucketName), nil
	case "supabase":
		if config.SupabaseProjectID == "" || config.SupabaseAPIKey == "" {
			return nil, fmt.Errorf("set SUPABASE_PROJECT_ID and SUPABASE_API_KEY for the supabase storage backend")
		}
		return NewSupabaseStorage(config.SupabaseProjectID, config.SupabaseAPIKey, config.SupabaseBucket), nil
	case "inline", "":
		return NewInlineStorage(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", config.StorageBackend)
	}
}
