package ingress_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vibemint/api/internal/ingress"
)

const trustedBase = "https://media.vibemint.dev"

// fakeStore records uploads and mints deterministic trusted URLs.
type fakeStore struct {
	puts     int
	lastKey  string
	lastMIME string
	fail     bool
}

func (f *fakeStore) Put(ctx context.Context, objectKey string, data []byte, contentType string) (string, error) {
	if f.fail {
		return "", assert.AnError
	}
	f.puts++
	f.lastKey = objectKey
	f.lastMIME = contentType
	return trustedBase + "/vibe-media/" + objectKey, nil
}

func (f *fakeStore) IsTrusted(rawURL string) bool {
	return strings.HasPrefix(rawURL, trustedBase+"/")
}

var pngPayload = append([]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}, bytes.Repeat([]byte{0}, 64)...)

func newService(store *fakeStore, gen ingress.Generator) *ingress.Service {
	return ingress.NewService(store, gen, time.Second, zerolog.Nop())
}

func TestIngestFile(t *testing.T) {
	store := &fakeStore{}
	svc := newService(store, nil)

	url, err := svc.IngestFile(context.Background(), pngPayload, "image/png")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, trustedBase))
	assert.Equal(t, "image/png", store.lastMIME)
	assert.True(t, strings.HasSuffix(store.lastKey, ".png"))
}

func TestIngestFile_RejectsBeforeUpload(t *testing.T) {
	store := &fakeStore{}
	svc := newService(store, nil)

	var vErr *ingress.ValidationError

	// Wrong declared type.
	_, err := svc.IngestFile(context.Background(), []byte("hello"), "text/plain")
	require.ErrorAs(t, err, &vErr)

	// Oversize payload (6 MiB).
	big := make([]byte, 6*1024*1024)
	copy(big, pngPayload)
	_, err = svc.IngestFile(context.Background(), big, "image/png")
	require.ErrorAs(t, err, &vErr)

	// Bytes that are not an image.
	_, err = svc.IngestFile(context.Background(), []byte("not an image at all"), "image/png")
	require.ErrorAs(t, err, &vErr)

	assert.Equal(t, 0, store.puts, "no upload may happen for rejected input")
}

func TestIngestFile_UploadFailure(t *testing.T) {
	store := &fakeStore{fail: true}
	svc := newService(store, nil)

	_, err := svc.IngestFile(context.Background(), pngPayload, "image/png")
	var iErr *ingress.IngressError
	assert.ErrorAs(t, err, &iErr)
}

func TestIngestRemoteURL_TrustedPassthrough(t *testing.T) {
	store := &fakeStore{}
	svc := newService(store, nil)

	hosted := trustedBase + "/vibe-media/existing.png"
	url, err := svc.IngestRemoteURL(context.Background(), hosted)
	require.NoError(t, err)
	assert.Equal(t, hosted, url)
	assert.Equal(t, 0, store.puts)
}

func TestIngestRemoteURL_Reuploads(t *testing.T) {
	remote := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write(pngPayload)
	}))
	defer remote.Close()

	store := &fakeStore{}
	svc := newService(store, nil)

	url, err := svc.IngestRemoteURL(context.Background(), remote.URL+"/cat.png")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, trustedBase))
	assert.Equal(t, 1, store.puts)
}

func TestIngestRemoteURL_Malformed(t *testing.T) {
	svc := newService(&fakeStore{}, nil)

	var vErr *ingress.ValidationError
	_, err := svc.IngestRemoteURL(context.Background(), "not a url")
	assert.ErrorAs(t, err, &vErr)

	_, err = svc.IngestRemoteURL(context.Background(), "/relative/path.png")
	assert.ErrorAs(t, err, &vErr)
}

func TestGenerateFromPrompt_Deterministic(t *testing.T) {
	var served []string
	remote := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		served = append(served, r.URL.Path)
		// A distinct image per seed path, all valid PNGs.
		w.Write(append(append([]byte{}, pngPayload...), r.URL.Path...))
	}))
	defer remote.Close()

	store := &fakeStore{}
	svc := newService(store, ingress.NewSeededGenerator(remote.URL))

	first, err := svc.GenerateFromPrompt(context.Background(), "sunset", "image")
	require.NoError(t, err)
	assert.Contains(t, first, trustedBase)

	second, err := svc.GenerateFromPrompt(context.Background(), "sunset", "image")
	require.NoError(t, err)

	require.Len(t, served, 2)
	assert.Equal(t, served[0], served[1], "same prompt must hit the same seed")
	assert.Equal(t, first, second, "same prompt must yield the same hosted URL")

	third, err := svc.GenerateFromPrompt(context.Background(), "sunrise", "image")
	require.NoError(t, err)
	assert.NotEqual(t, first, third)
}

func TestGenerateFromPrompt_Validation(t *testing.T) {
	remoteCalled := false
	remote := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		remoteCalled = true
	}))
	defer remote.Close()

	svc := newService(&fakeStore{}, ingress.NewSeededGenerator(remote.URL))
	var vErr *ingress.ValidationError

	_, err := svc.GenerateFromPrompt(context.Background(), "", "image")
	assert.ErrorAs(t, err, &vErr)

	_, err = svc.GenerateFromPrompt(context.Background(), strings.Repeat("x", 1001), "image")
	assert.ErrorAs(t, err, &vErr)

	_, err = svc.GenerateFromPrompt(context.Background(), "sunset", "video")
	assert.ErrorAs(t, err, &vErr)

	assert.False(t, remoteCalled, "validation failures must not reach the provider")
}

func TestSeededGenerator_KindChangesSeed(t *testing.T) {
	gen := ingress.NewSeededGenerator("https://placeholder.example")
	assert.NotEqual(t, gen.SourceURL("sunset", "image"), gen.SourceURL("sunset", "gif"))
	assert.Equal(t, gen.SourceURL("sunset", "image"), gen.SourceURL("sunset", "image"))
}
