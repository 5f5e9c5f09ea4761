package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"resumeradar/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pdfBytes = []byte("%PDF-1.7\n1 0 obj\n<<>>\nendobj\n%%EOF")

func TestInlineStorageRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewInlineStorage()

	location, err := store.Put(ctx, "resumes/u1/r1.pdf", "application/pdf", pdfBytes)
	require.NoError(t, err)
	assert.Contains(t, location, "data:application/pdf;base64,")

	obj, err := store.Fetch(ctx, location)
	require.NoError(t, err)
	defer obj.Body.Close()

	data, err := io.ReadAll(obj.Body)
	require.NoError(t, err)
	assert.Equal(t, pdfBytes, data)
	assert.Equal(t, "application/pdf", obj.ContentType)
	assert.EqualValues(t, len(pdfBytes), obj.Size)
}

func TestInlineStorageRejectsForeignLocations(t *testing.T) {
	_, err := NewInlineStorage().Fetch(context.Background(), "s3://bucket/key")
	assert.ErrorIs(t, err, ErrUnknownLocation)

	_, err = NewInlineStorage().Fetch(context.Background(), "data:application/pdf,plain")
	assert.Error(t, err)
}

func TestSupabaseStorage(t *testing.T) {
	var uploaded []byte

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer service-key", r.Header.Get("Authorization"))

		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/object/resumes/u1/r1.pdf":
			assert.Equal(t, "application/pdf", r.Header.Get("Content-Type"))
			uploaded, _ = io.ReadAll(r.Body)
			w.WriteHeader(http.StatusOK)
		case r.Method == http.MethodGet && r.URL.Path == "/object/authenticated/resumes/u1/r1.pdf":
			w.Header().Set("Content-Type", "application/pdf")
			_, _ = w.Write(uploaded)
		default:
			http.Error(w, "not found", http.StatusNotFound)
		}
	}))
	defer srv.Close()

	store := NewSupabaseStorage("project", "service-key", "resumes")
	store.baseURL = srv.URL

	ctx := context.Background()
	location, err := store.Put(ctx, "u1/r1.pdf", "application/pdf", pdfBytes)
	require.NoError(t, err)
	assert.Equal(t, "supabase://resumes/u1/r1.pdf", location)

	obj, err := store.Fetch(ctx, location)
	require.NoError(t, err)
	defer obj.Body.Close()

	data, err := io.ReadAll(obj.Body)
	require.NoError(t, err)
	assert.Equal(t, pdfBytes, data)

	_, err = store.Fetch(ctx, "supabase://resumes/missing.pdf")
	assert.ErrorContains(t, err, "status 404")

	_, err = store.Fetch(ctx, "data:application/pdf;base64,AAAA")
	assert.ErrorIs(t, err, ErrUnknownLocation)
}

func TestSupabaseStorageUploadFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bucket not found", http.StatusBadRequest)
	}))
	defer srv.Close()

	store := NewSupabaseStorage("project", "key", "resumes")
	store.baseURL = srv.URL

	_, err := store.Put(context.Background(), "u1/r1.pdf", "application/pdf", pdfBytes)
	assert.ErrorContains(t, err, "upload failed with status 400")
}

func TestNewSelectsBackend(t *testing.T) {
	store, err := New(&types.Config{StorageBackend: "inline"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &InlineStorage{}, store)

	store, err = New(&types.Config{StorageBackend: "supabase", SupabaseProjectID: "p", SupabaseAPIKey: "k"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &SupabaseStorage{}, store)

	_, err = New(&types.Config{StorageBackend: "s3"}, nil)
	assert.ErrorContains(t, err, "S3_BUCKET_NAME")

	_, err = New(&types.Config{StorageBackend: "ftp"}, nil)
	assert.Error(t, err)
}
