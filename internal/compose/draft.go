// Package compose models the composer draft: the client-only state of a
// vibe being written, including the two-stage image flow.
package compose

import (
	"strings"

	"vibemint/api/internal/vibes"
)

// SlotState tags the image slot's position in its lifecycle. A preview never
// silently replaces a committed image: the committed URL survives staging
// and discarding of later previews.
type SlotState string

const (
	SlotEmpty      SlotState = "empty"
	SlotPreviewing SlotState = "previewing"
	SlotCommitted  SlotState = "committed"
	// SlotRestaging is a committed image with a fresh preview on top.
	SlotRestaging SlotState = "restaging"
)

// ImageSlot is the draft's image as a tagged state machine. Fields are
// private so the state tag and the URLs cannot drift apart.
type ImageSlot struct {
	state     SlotState
	committed string
	preview   string
}

func (s *ImageSlot) State() SlotState {
	if s.state == "" {
		return SlotEmpty
	}
	return s.state
}

// Preview returns the staged-but-unconfirmed URL, if any.
func (s *ImageSlot) Preview() (string, bool) {
	return s.preview, s.preview != ""
}

// Committed returns the confirmed image URL, if any.
func (s *ImageSlot) Committed() (string, bool) {
	return s.committed, s.committed != ""
}

// Stage places a freshly generated or uploaded image as the preview.
// Re-staging replaces only the preview.
func (s *ImageSlot) Stage(url string) {
	s.preview = url
	if s.committed != "" {
		s.state = SlotRestaging
	} else {
		s.state = SlotPreviewing
	}
}

// Promote commits the current preview. Without a preview it is a no-op that
// reports whether anything was committed.
func (s *ImageSlot) Promote() bool {
	if s.preview == "" {
		return false
	}
	s.committed = s.preview
	s.preview = ""
	s.state = SlotCommitted
	return true
}

// DiscardPreview drops the staged preview, restoring any committed image.
func (s *ImageSlot) DiscardPreview() {
	s.preview = ""
	if s.committed != "" {
		s.state = SlotCommitted
	} else {
		s.state = SlotEmpty
	}
}

// Draft is an unsaved vibe. It lives only in process memory and dies on
// successful submission.
type Draft struct {
	Emoji  string
	Color  string
	Phrase string
	Image  ImageSlot
}

// CanSubmit reports whether the create action should be enabled: phrase
// present and an image either previewed or committed.
func (d *Draft) CanSubmit() bool {
	if strings.TrimSpace(d.Phrase) == "" {
		return false
	}
	_, hasPreview := d.Image.Preview()
	_, hasCommitted := d.Image.Committed()
	return hasPreview || hasCommitted
}

// Resolve gates submission and produces the mint payload. A draft whose only
// image is an unconfirmed preview requires confirmPreview; declining aborts
// with a validation error instead of dropping the image requirement.
func (d *Draft) Resolve(confirmPreview bool) (vibes.NewVibe, error) {
	if strings.TrimSpace(d.Phrase) == "" {
		return vibes.NewVibe{}, vibes.NewValidationError("phrase", "must not be empty")
	}

	imageURI, committed := d.Image.Committed()
	if !committed {
		preview, hasPreview := d.Image.Preview()
		if !hasPreview {
			return vibes.NewVibe{}, vibes.NewValidationError("image", "generate or upload an image first")
		}
		if !confirmPreview {
			return vibes.NewVibe{}, vibes.NewValidationError("image", "confirm the previewed image before minting")
		}
		d.Image.Promote()
		imageURI = preview
	}

	return vibes.NewVibe{
		Emoji:    d.Emoji,
		Color:    d.Color,
		Phrase:   strings.TrimSpace(d.Phrase),
		ImageURI: imageURI,
	}, nil
}
