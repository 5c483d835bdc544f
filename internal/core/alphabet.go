// Package core defines the fundamental types shared by the fairdice pipeline.
package core

import "fmt"

// Face is a single categorical outcome from the fixed alphabet.
type Face int

// Alphabet is the fixed, ordered, finite set of outcomes for a run.
// Its size K is fixed at construction and never changes while a stream
// is running; the uniform expectation for every face is 1/K.
type Alphabet struct {
	faces []Face
	index map[Face]int
}

// NewAlphabet builds an alphabet from an ordered list of faces.
// Returns a configuration error if the list is empty or contains duplicates.
func NewAlphabet(faces []Face) (*Alphabet, error) {
	if len(faces) == 0 {
		return nil, fmt.Errorf("%w: alphabet must not be empty", ErrConfig)
	}
	a := &Alphabet{
		faces: make([]Face, len(faces)),
		index: make(map[Face]int, len(faces)),
	}
	copy(a.faces, faces)
	for i, f := range faces {
		if _, dup := a.index[f]; dup {
			return nil, fmt.Errorf("%w: duplicate face %d in alphabet", ErrConfig, f)
		}
		a.index[f] = i
	}
	return a, nil
}

// Dice returns the standard die alphabet 1..k.
func Dice(k int) (*Alphabet, error) {
	if k < 1 {
		return nil, fmt.Errorf("%w: face count must be >= 1, got %d", ErrConfig, k)
	}
	faces := make([]Face, k)
	for i := range faces {
		faces[i] = Face(i + 1)
	}
	return NewAlphabet(faces)
}

// Size returns K, the number of faces.
func (a *Alphabet) Size() int {
	return len(a.faces)
}

// Faces returns a copy of the faces in configured order.
func (a *Alphabet) Faces() []Face {
	out := make([]Face, len(a.faces))
	copy(out, a.faces)
	return out
}

// Index returns the position of f in the configured order.
func (a *Alphabet) Index(f Face) (int, bool) {
	i, ok := a.index[f]
	return i, ok
}

// Contains reports whether f is part of the alphabet.
func (a *Alphabet) Contains(f Face) bool {
	_, ok := a.index[f]
	return ok
}

// Expected returns the uniform expected proportion 1/K.
func (a *Alphabet) Expected() float64 {
	return 1.0 / float64(len(a.faces))
}
