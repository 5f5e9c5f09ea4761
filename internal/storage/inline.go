package storage

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"strings"
)

// InlineStorage keeps the file inside the location itself as a base64
// data URL. Nothing leaves the database row.
type InlineStorage struct{}

func NewInlineStorage() *InlineStorage {
	return &InlineStorage{}
}

func (InlineStorage) Put(_ context.Context, _ string, contentType string, data []byte) (string, error) {
	return fmt.Sprintf("data:%s;base64,%s", contentType, base64.StdEncoding.EncodeToString(data)), nil
}

func (InlineStorage) Fetch(_ context.Context, location string) (*Object, error) {
	header, payload, ok := strings.Cut(strings.TrimPrefix(location, "data:"), ",")
	if !strings.HasPrefix(location, "data:") || !ok {
		return nil, ErrUnknownLocation
	}

	contentType, isBase64 := strings.CutSuffix(header, ";base64")
	if !isBase64 {
		return nil, fmt.Errorf("data url is not base64 encoded")
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to decode data url: %w", err)
	}

	return &Object{
		Body:        io.NopCloser(bytes.NewReader(data)),
		ContentType: contentType,
		Size:        int64(len(data)),
	}, nil
}
