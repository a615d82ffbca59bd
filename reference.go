package tuner

// referenceFrequencies holds the published 12-TET pitches (A4 = 440 Hz) from
// C0 to C8, rounded to 2 decimals and indexed by half-steps above C0.
// Published values are used instead of computing 440·2^(n/12) at runtime so
// displayed targets match printed tuning charts exactly.
var referenceFrequencies = [referenceNotesLen]float64{
	// Octave 0
	16.35, 17.32, 18.35, 19.45, 20.60, 21.83, 23.12, 24.50, 25.96, 27.50, 29.14, 30.87,
	// Octave 1
	32.70, 34.65, 36.71, 38.89, 41.20, 43.65, 46.25, 49.00, 51.91, 55.00, 58.27, 61.74,
	// Octave 2
	65.41, 69.30, 73.42, 77.78, 82.41, 87.31, 92.50, 98.00, 103.83, 110.00, 116.54, 123.47,
	// Octave 3
	130.81, 138.59, 146.83, 155.56, 164.81, 174.61, 185.00, 196.00, 207.65, 220.00, 233.08, 246.94,
	// Octave 4
	261.63, 277.18, 293.66, 311.13, 329.63, 349.23, 369.99, 392.00, 415.30, 440.00, 466.16, 493.88,
	// Octave 5
	523.25, 554.37, 587.33, 622.25, 659.26, 698.46, 739.99, 783.99, 830.61, 880.00, 932.33, 987.77,
	// Octave 6
	1046.50, 1108.73, 1174.66, 1244.51, 1318.51, 1396.91, 1479.98, 1567.98, 1661.22, 1760.00, 1864.66, 1975.53,
	// Octave 7
	2093.00, 2217.46, 2349.32, 2489.02, 2637.02, 2793.83, 2959.96, 3135.96, 3322.44, 3520.00, 3729.31, 3951.07,
	// Octave 8
	4186.01,
}

// LookupReference returns the reference frequency of note and whether the
// note is covered by the table (C0 through C8).
func LookupReference(note Note) (float64, bool) {
	if note.Name < C || note.Name > B {
		return 0, false
	}
	if note.Octave < minTableOctave || note.Octave > maxTableOctave {
		return 0, false
	}
	idx := note.HalfSteps()
	if idx < 0 || idx >= len(referenceFrequencies) {
		return 0, false
	}
	return referenceFrequencies[idx], true
}

// Reference returns the reference frequency of note, or 0 when the note is
// outside the table. Callers must treat 0 as "no target", never as a pitch.
func Reference(note Note) float64 {
	f, _ := LookupReference(note)
	return f
}

// ReferenceNotes returns every note in the reference table in ascending order.
func ReferenceNotes() []Note {
	notes := make([]Note, len(referenceFrequencies))
	for i := range notes {
		notes[i] = noteFromHalfSteps(i)
	}
	return notes
}
