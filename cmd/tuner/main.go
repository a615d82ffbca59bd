// Command tuner classifies pitches and shows a tuning needle.
//
// Usage:
//
//	tuner classify 440 82.41 331.5
//	tuner table --octave 4
//	tuner tone A4 -o a4.wav
//	tuner run --source sweep --note E2
//	tuner run --source script --script strings.yaml --report session.yaml
//
// Every flag can also be set in tuner.yaml or through TUNER_* environment
// variables, e.g. TUNER_NEEDLE_ANIMATION_DURATION=250ms.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
