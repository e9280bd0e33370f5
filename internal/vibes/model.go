// Package vibes is the data-access layer for the vibe contract. It owns the
// domain model, the typed error taxonomy, and the bindings that translate
// contract reads and writes into Go values.
package vibes

import "time"

// Vibe is a minted post as read from the contract. Content fields are
// immutable after minting; only Likes moves, and only upward.
type Vibe struct {
	ID        uint64    `json:"id"`
	Creator   string    `json:"creator"`
	Emoji     string    `json:"emoji"`
	Color     string    `json:"color"`
	Phrase    string    `json:"phrase"`
	ImageURI  string    `json:"imageURI"`
	Likes     uint64    `json:"likes"`
	Timestamp time.Time `json:"timestamp"`
}

// NewVibe carries the user-supplied fields of a vibe about to be minted.
type NewVibe struct {
	Emoji    string `json:"emoji"`
	Color    string `json:"color"`
	Phrase   string `json:"phrase"`
	ImageURI string `json:"imageURI"`
}

// TxHandle identifies a submitted state-changing transaction. Confirmation
// is asynchronous; holding a handle does not mean the write took effect.
type TxHandle struct {
	Hash    string `json:"txHash"`
	VMState string `json:"vmState,omitempty"`
}

// View selects a feed ordering.
type View string

const (
	ViewLatest  View = "latest"
	ViewPopular View = "popular"
)

// SampleColors is the palette offered by the composer.
var SampleColors = []string{
	"#FF6B6B", "#4ECDC4", "#45B7D1",
	"#96CEB4", "#FFEEAD", "#D4A5A5",
	"#9BA0BC", "#A8D8B9", "#FFC09F",
	"#FFEE93", "#FCB1B1", "#B5EAD7",
}
