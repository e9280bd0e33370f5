// Package ingress normalizes images from any source (raw upload, remote URL,
// text prompt) into a URL on the trusted media host.
package ingress

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/sha3"

	"vibemint/api/internal/ids"
	"vibemint/api/internal/media/sniffer"
)

// MaxUploadBytes caps accepted image payloads at 5 MiB.
const MaxUploadBytes = 5 * 1024 * 1024

// MaxPromptLen caps generation prompts.
const MaxPromptLen = 1000

// Uploader is the slice of the object store ingress needs. Satisfied by
// storage.ObjectStore.
type Uploader interface {
	Put(ctx context.Context, objectKey string, data []byte, contentType string) (string, error)
	IsTrusted(rawURL string) bool
}

// Generator produces a source image URL for a prompt. The seeded placeholder
// implementation stands in for a real generative backend; swapping it does
// not touch callers.
type Generator interface {
	SourceURL(prompt, kind string) string
}

type Service struct {
	store      Uploader
	generator  Generator
	httpClient *http.Client
	log        zerolog.Logger
}

func NewService(store Uploader, generator Generator, fetchTimeout time.Duration, log zerolog.Logger) *Service {
	if fetchTimeout == 0 {
		fetchTimeout = 15 * time.Second
	}
	return &Service{
		store:     store,
		generator: generator,
		httpClient: &http.Client{
			Timeout: fetchTimeout,
		},
		log: log,
	}
}

// IngestFile validates a raw image payload and uploads it to the trusted
// host. Both constraints are checked before any upload attempt.
func (s *Service) IngestFile(ctx context.Context, data []byte, declaredType string) (string, error) {
	if !strings.HasPrefix(declaredType, "image/") {
		return "", &ValidationError{Field: "file", Reason: "must be an image"}
	}
	return s.ingestBytes(ctx, data, "")
}

// ingestBytes is the sniff-and-upload path shared by file and remote
// ingestion. The magic bytes, not the declared type, decide the stored MIME.
// An empty key means a fresh random one; callers pass a key to make the
// upload idempotent.
func (s *Service) ingestBytes(ctx context.Context, data []byte, key string) (string, error) {
	if len(data) > MaxUploadBytes {
		return "", &ValidationError{Field: "file", Reason: "exceeds 5MB limit"}
	}
	if len(data) == 0 {
		return "", &ValidationError{Field: "file", Reason: "empty payload"}
	}

	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	detected, err := sniffer.DetectHead(head)
	if err != nil {
		return "", &ValidationError{Field: "file", Reason: "unrecognized image format"}
	}

	if key == "" {
		key = ids.New()
	}
	objectKey := fmt.Sprintf("%s.%s", key, detected.Type)
	uploadedURL, err := s.store.Put(ctx, objectKey, data, detected.MIME)
	if err != nil {
		return "", &IngressError{Op: "upload", Reason: "store rejected object", Err: err}
	}

	s.log.Debug().Str("object_key", objectKey).Str("mime", detected.MIME).Msg("image ingested")
	return uploadedURL, nil
}

// IngestRemoteURL resolves a remote image to a trusted-host URL. URLs
// already on the trusted host pass through unchanged; anything else is
// fetched and re-uploaded so all vibe images live on one origin.
func (s *Service) IngestRemoteURL(ctx context.Context, rawURL string) (string, error) {
	return s.ingestRemote(ctx, rawURL, false)
}

// ingestRemote hosts a remote image. With contentAddressed set, the object
// key is a digest of the fetched bytes, so the same source image always
// lands on the same hosted URL.
func (s *Service) ingestRemote(ctx context.Context, rawURL string, contentAddressed bool) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil || !parsed.IsAbs() || parsed.Host == "" {
		return "", &ValidationError{Field: "url", Reason: "must be an absolute URL"}
	}

	if s.store.IsTrusted(rawURL) {
		return rawURL, nil
	}

	data, err := s.fetch(ctx, rawURL)
	if err != nil {
		return "", err
	}

	var key string
	if contentAddressed {
		sum := sha3.Sum256(data)
		key = hex.EncodeToString(sum[:16])
	}
	return s.ingestBytes(ctx, data, key)
}

// GenerateFromPrompt derives an image for a prompt and hosts it on the
// trusted origin. The same prompt and kind always yield the same source
// image, so the resulting hosted URL is stable given a stable store.
func (s *Service) GenerateFromPrompt(ctx context.Context, prompt, kind string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", &ValidationError{Field: "prompt", Reason: "must not be empty"}
	}
	if len(prompt) > MaxPromptLen {
		return "", &ValidationError{Field: "prompt", Reason: "exceeds 1000 characters"}
	}
	if kind != "image" && kind != "gif" {
		return "", &ValidationError{Field: "type", Reason: `must be "image" or "gif"`}
	}

	sourceURL := s.generator.SourceURL(prompt, kind)
	hosted, err := s.ingestRemote(ctx, sourceURL, true)
	if err != nil {
		return "", err
	}

	s.log.Debug().Str("kind", kind).Str("source", sourceURL).Msg("image generated")
	return hosted, nil
}

func (s *Service) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &IngressError{Op: "fetch", Reason: "build request", Err: err}
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, &IngressError{Op: "fetch", Reason: "remote unreachable", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &IngressError{Op: "fetch", Reason: fmt.Sprintf("remote returned %d", resp.StatusCode)}
	}

	// Read one byte past the cap so oversize bodies are detected without
	// buffering them whole.
	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxUploadBytes+1))
	if err != nil {
		return nil, &IngressError{Op: "fetch", Reason: "read body", Err: err}
	}
	if len(data) > MaxUploadBytes {
		return nil, &ValidationError{Field: "url", Reason: "remote image exceeds 5MB limit"}
	}

	return data, nil
}
