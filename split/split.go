// Package split cuts book text into overlapping fragments.
package split

import (
	"github.com/fwojciec/booktalk"
)

// Default window parameters, in runes.
const (
	DefaultSize    = 1000
	DefaultOverlap = 500
)

// Ensure Splitter implements booktalk.Splitter.
var _ booktalk.Splitter = (*Splitter)(nil)

// Splitter cuts text with a fixed-size sliding window. Each fragment holds
// Size runes and starts Size-Overlap runes after its predecessor, so that
// consecutive fragments share exactly Overlap runes. The final fragment ends
// at the end of the text and may be shorter than Size.
type Splitter struct {
	Size    int
	Overlap int
}

// NewSplitter returns a Splitter with the default window.
func NewSplitter() *Splitter {
	return &Splitter{Size: DefaultSize, Overlap: DefaultOverlap}
}

// Validate returns an error if the window parameters are unusable.
func (s *Splitter) Validate() error {
	if s.Size <= 0 {
		return booktalk.Errorf(booktalk.EINVALID, "fragment size must be positive, got %d", s.Size)
	}
	if s.Overlap < 0 {
		return booktalk.Errorf(booktalk.EINVALID, "fragment overlap must not be negative, got %d", s.Overlap)
	}
	if s.Overlap >= s.Size {
		return booktalk.Errorf(booktalk.EINVALID, "fragment overlap (%d) must be smaller than size (%d)", s.Overlap, s.Size)
	}
	return nil
}

// Split returns the fragments of text in source order. Empty text yields no
// fragments.
func (s *Splitter) Split(text string) ([]*booktalk.Fragment, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	runes := []rune(text)
	if len(runes) == 0 {
		return nil, nil
	}

	step := s.Size - s.Overlap
	var fragments []*booktalk.Fragment
	for start := 0; ; start += step {
		end := min(start+s.Size, len(runes))
		fragments = append(fragments, &booktalk.Fragment{
			Index:   len(fragments),
			Offset:  start,
			Content: string(runes[start:end]),
		})
		if end == len(runes) {
			break
		}
	}
	return fragments, nil
}
