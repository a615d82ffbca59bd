package tuner

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Common errors returned by the tuner.
var (
	// ErrInvalidFrequency indicates a non-positive or non-finite frequency.
	ErrInvalidFrequency = errors.New("invalid frequency")

	// ErrUnknownNote indicates a note label that could not be parsed.
	ErrUnknownNote = errors.New("unknown note")
)

// NoteName is a chromatic pitch class, C through B.
type NoteName int

// Pitch classes in chromatic order starting at C.
const (
	C NoteName = iota
	CSharp
	D
	DSharp
	E
	F
	FSharp
	G
	GSharp
	A
	ASharp
	B
)

var noteNames = [notesPerOctave]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// String returns the sharp spelling of the pitch class ("C", "C#", ...).
func (n NoteName) String() string {
	if n < C || n > B {
		return "NoteName(" + strconv.Itoa(int(n)) + ")"
	}
	return noteNames[n]
}

// Note is a pitch class plus an octave number in scientific pitch notation.
// Notes are values; compare them with ==.
type Note struct {
	Name   NoteName
	Octave int
}

// String returns the note label, e.g. "A4" or "C#3".
func (n Note) String() string {
	return n.Name.String() + strconv.Itoa(n.Octave)
}

// HalfSteps returns the note's distance from C0 in half-steps.
func (n Note) HalfSteps() int {
	return n.Octave*halfStepsPerOct + int(n.Name)
}

// c0 is the frequency of C0 derived from A4.
var c0 = concertA4 * math.Pow(2, c0OffsetOctaves)

// Classify maps a frequency in Hz to the nearest equal-tempered note.
//
// The half-step distance from C0 is rounded half away from zero, so a
// frequency exactly on the quarter-tone midpoint between two notes resolves to
// the note further from C0 (the upper note for any audible pitch). The octave is
// not clamped; pitches outside the reference table still classify.
func Classify(frequency float64) (Note, error) {
	if !validFrequency(frequency) {
		return Note{}, fmt.Errorf("%w: %v Hz", ErrInvalidFrequency, frequency)
	}

	return noteFromHalfSteps(nearestHalfStep(halfStepsPerOct * math.Log2(frequency/c0))), nil
}

// nearestHalfStep rounds a fractional half-step offset, with ties away from zero.
func nearestHalfStep(x float64) int {
	return int(math.Round(x))
}

// noteFromHalfSteps converts a signed half-step offset from C0 into a note.
func noteFromHalfSteps(halfSteps int) Note {
	octave := floorDiv(halfSteps, halfStepsPerOct)
	index := ((halfSteps % halfStepsPerOct) + halfStepsPerOct) % halfStepsPerOct
	return Note{Name: NoteName(index), Octave: octave}
}

// floorDiv divides rounding toward negative infinity.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func validFrequency(frequency float64) bool {
	return frequency > 0 && !math.IsInf(frequency, 0) && !math.IsNaN(frequency)
}

// ParseNote parses a note label such as "A4", "c#3", "Bb2" or "F#-1".
// Flats are normalized to their sharp spelling.
func ParseNote(label string) (Note, error) {
	s := strings.TrimSpace(label)
	if s == "" {
		return Note{}, fmt.Errorf("%w: empty label", ErrUnknownNote)
	}

	name := letterIndex(strings.ToUpper(s[:1]))
	if name < 0 {
		return Note{}, fmt.Errorf("%w: %q", ErrUnknownNote, label)
	}

	rest := s[1:]
	switch {
	case strings.HasPrefix(rest, "#"):
		name++
		rest = rest[1:]
	case strings.HasPrefix(rest, "b"):
		name--
		rest = rest[1:]
	}

	octave, err := strconv.Atoi(rest)
	if err != nil {
		return Note{}, fmt.Errorf("%w: %q", ErrUnknownNote, label)
	}
	if octave > maxOctaveMagnitude || octave < -maxOctaveMagnitude {
		return Note{}, fmt.Errorf("%w: octave out of range in %q", ErrUnknownNote, label)
	}

	// B# and Cb cross the octave boundary.
	return noteFromHalfSteps(octave*halfStepsPerOct + name), nil
}

func letterIndex(letter string) int {
	for i, n := range noteNames {
		if n == letter {
			return i
		}
	}
	return -1
}
