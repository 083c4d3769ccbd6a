// Package audio synthesizes the device's alarm and chime patterns one sample
// at a time from a fixed-rate interrupt.
//
// Every pattern is a pure function of the running sample index, so playback
// is deterministic and restarts cleanly. The patterns are square waves built
// from two calibrated amplitudes, written to a PWM duty register.
package audio

import "errors"

// Type is a playable pattern.
type Type uint8

const (
	// SuccessChime is a half-second 440 Hz tone at low amplitude.
	SuccessChime Type = iota
	// FailureChime is a 220 Hz tone at low amplitude, interrupted by a
	// silent middle third.
	FailureChime
	// Siren alternates 110 Hz and 220 Hz at high amplitude and loops until
	// stopped.
	Siren

	// NumTypes is the number of defined patterns.
	NumTypes
)

// Pattern frequencies in Hz.
const (
	successFrequency   = 440
	failureFrequency   = 220
	sirenLowFrequency  = 110
	sirenHighFrequency = 2 * sirenLowFrequency
)

const badAudioType = "audio: invalid audio type"

var (
	errDividerTooLarge = errors.New("audio: sample rate too low for PWM divider")
	errDividerTooSmall = errors.New("audio: sample rate too high for PWM divider")
)

func (t Type) String() string {
	switch t {
	case SuccessChime:
		return "success-chime"
	case FailureChime:
		return "failure-chime"
	case Siren:
		return "siren"
	}
	return "invalid"
}

func (t Type) mustValid() {
	if t >= NumTypes {
		panic(badAudioType)
	}
}

// Config holds the output stage constants fixed at open time.
type Config struct {
	// SampleRate is the sample interrupt rate in Hz.
	SampleRate uint32
	// PWMTicks is the number of PWM counter ticks per sample, i.e. the duty
	// resolution. Levels range over [0, PWMTicks).
	PWMTicks uint16
	// LowAmplitude is the chime level.
	LowAmplitude uint8
	// HighAmplitude is the siren level.
	HighAmplitude uint8
}

// DefaultConfig returns the calibrated configuration of the reference
// hardware: a 50 kHz sample clock from a 125 MHz system clock divided by 10
// with a 250 tick wrap.
func DefaultConfig() Config {
	return Config{
		SampleRate:    50_000,
		PWMTicks:      250,
		LowAmplitude:  30,
		HighAmplitude: 150,
	}
}

// Descriptor describes how a pattern is played.
type Descriptor struct {
	// AutoLoop restarts the pattern at index 0 after LoopLength samples
	// instead of stopping.
	AutoLoop bool
	// LoopLength is the number of samples in one pass. Always non-zero.
	LoopLength uint32
}

// Descriptor returns the descriptor of t at the configured sample rate.
func (cfg Config) Descriptor(t Type) Descriptor {
	switch t {
	case SuccessChime:
		return Descriptor{LoopLength: cfg.SampleRate / 2}
	case FailureChime:
		return Descriptor{LoopLength: 3 * cfg.SampleRate / 2}
	case Siren:
		return Descriptor{AutoLoop: true, LoopLength: cfg.SampleRate}
	}
	panic(badAudioType)
}

// Sample returns the amplitude of pattern t at sample index.
func (cfg Config) Sample(t Type, index uint32) uint8 {
	fs := cfg.SampleRate
	switch t {
	case SuccessChime:
		return SquareWave(index, successFrequency, cfg.LowAmplitude, fs)

	case FailureChime:
		third := cfg.Descriptor(FailureChime).LoopLength / 3
		if index >= third && index < 2*third {
			return 0
		}
		return SquareWave(index, failureFrequency, cfg.LowAmplitude, fs)

	case Siren:
		if index < cfg.Descriptor(Siren).LoopLength/2 {
			return SquareWave(index, sirenLowFrequency, cfg.HighAmplitude, fs)
		}
		return SquareWave(index, sirenHighFrequency, cfg.HighAmplitude, fs)
	}
	panic(badAudioType)
}

// SquareWave returns a 50% duty square wave of frequency Hz sampled at
// sampleRate: amplitude while ⌊index / (sampleRate / 2·frequency)⌋ is odd,
// zero otherwise. The half period is truncated to whole samples and is at
// least one sample.
func SquareWave(index, frequency uint32, amplitude uint8, sampleRate uint32) uint8 {
	half := sampleRate / (2 * frequency)
	if half == 0 {
		half = 1
	}
	if (index/half)&1 != 0 {
		return amplitude
	}
	return 0
}

// PWMDivider returns the RP2 PWM clock divider that makes a slice wrapping
// every cfg.PWMTicks ticks run at cfg.SampleRate from a cpuFreq system clock.
// The divider is 8.4 fixed point:
//
//	SampleRate = cpuFreq / ((whole + frac/16) * PWMTicks)
func PWMDivider(cpuFreq uint32, cfg Config) (whole, frac uint8, err error) {
	//  16*whole + frac = 16*cpuFreq / (SampleRate*PWMTicks)
	div := 16 * uint64(cpuFreq) / (uint64(cfg.SampleRate) * uint64(cfg.PWMTicks))
	if div > 16*255+15 {
		return 0, 0, errDividerTooLarge
	} else if div < 16 {
		return 0, 0, errDividerTooSmall
	}
	return uint8(div / 16), uint8(div % 16), nil
}
