// Package tuner turns detected frequencies into note names and an animated
// tuning needle.
//
// The engine has three parts: a classifier that maps a frequency to the
// nearest equal-tempered note, a reference table holding the ideal pitch of
// every note from C0 to C8 (A4 = 440 Hz), and a deviation mapper that turns
// the distance from that pitch into a needle angle in [-90, 90] degrees and
// eases the needle towards it.
//
// # Quick Start
//
// For a one-off classification:
//
//	r, err := tuner.Analyze(438)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(r.Label(), r.FrequencyLabel(), r.Deviation) // A4 438.00 -40.9
//
// For a live display, feed samples to a [Tuner] and draw its [Frame]:
//
//	t, err := tuner.New(tuner.DefaultConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for sample := range detections {
//	    t.Process(sample, time.Now())
//	    draw(t.Frame(time.Now()))
//	}
//
// [Session] does the same with a [Source], a [Renderer] and a frame ticker,
// and stops the source when its context is canceled.
//
// # Classification
//
// The number of half steps above C0 is 12·log2(f/C0) rounded to the nearest
// integer, ties away from zero, where C0 = 440·2^-4.75 ≈ 16.3516 Hz. The
// octave is the floor of half steps / 12, so frequencies below C0 classify
// into negative octaves. Only positive finite frequencies are accepted;
// anything else returns [ErrInvalidFrequency].
//
// # Deviation
//
// The needle angle is a percentage deviation, not cents:
//
//	angle = clamp((live - ref) / (ref · 0.01) · 90, -90, 90)
//
// so the full scale is reached at 1% off pitch, about 17 cents. A reference of
// zero, which is what classified notes outside the table look up, yields an
// angle of zero. [Reading.Cents] reports the musical distance for information.
//
// # Needle Animation
//
// Each accepted sample retargets a [Smoother] that interpolates from the
// needle's current position to the new angle over
// [DefaultAnimationDuration] with [EaseOutQuad]. Retargeting mid-animation
// starts from where the needle is, so it never jumps.
//
// # Thread Safety
//
// [Tuner] and [Smoother] are not safe for concurrent use. [Session] confines
// them to the goroutine that calls [Session.Run]; sources deliver samples to
// it over a channel.
package tuner
