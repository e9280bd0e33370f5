package ingress

import (
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/sha3"
)

// SeededGenerator derives a deterministic placeholder image for a prompt:
// the same prompt and kind always map to the same seed, so the same source
// image. It stands in for a real generative model behind the Generator
// interface.
type SeededGenerator struct {
	baseURL string
}

func NewSeededGenerator(baseURL string) *SeededGenerator {
	return &SeededGenerator{baseURL: baseURL}
}

// SourceURL builds the seeded placeholder URL for a prompt.
func (g *SeededGenerator) SourceURL(prompt, kind string) string {
	sum := sha3.Sum256([]byte(kind + ":" + prompt))
	seed := hex.EncodeToString(sum[:8])
	return fmt.Sprintf("%s/seed/%s/800/600", g.baseURL, seed)
}
