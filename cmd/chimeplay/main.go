//go:build !tinygo

// Command chimeplay previews the device's audio patterns on the host. It runs
// the same audio engine as the firmware, clocked by the sound card instead of
// the PWM wrap interrupt.
//
//	chimeplay -type siren -seconds 3
package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"log"
	"math"
	"sync/atomic"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/tinygo-org/watermon/audio"
)

func main() {
	var (
		flagType    = flag.String("type", audio.SuccessChime.String(), "pattern to play: success-chime, failure-chime or siren")
		flagRate    = flag.Int("rate", 48000, "output sample rate in Hz")
		flagSeconds = flag.Float64("seconds", 3, "maximum playback time; looping patterns play this long")
	)
	flag.Parse()

	typ, err := parseType(*flagType)
	if err != nil {
		log.Fatal(err)
	}
	if *flagRate <= 0 {
		log.Fatalf("invalid sample rate %d", *flagRate)
	}

	cfg := audio.DefaultConfig()
	cfg.SampleRate = uint32(*flagRate)
	engine := audio.NewEngine(cfg)
	st := newStream(engine)
	engine.Open(st)

	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   *flagRate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
	})
	if err != nil {
		log.Fatal(err)
	}
	<-ready

	player := ctx.NewPlayer(st)
	defer player.Close()

	desc := cfg.Descriptor(typ)
	log.Printf("playing %s: %d samples per pass, looping=%v", typ, desc.LoopLength, desc.AutoLoop)
	engine.Play(typ)
	player.Play()

	deadline := time.Now().Add(time.Duration(*flagSeconds * float64(time.Second)))
	for engine.IsPlaying() && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	engine.Stop()
	// Let the buffered tail drain.
	time.Sleep(100 * time.Millisecond)
	log.Printf("played %d samples", st.samples.Load())
}

func parseType(name string) (audio.Type, error) {
	for t := audio.Type(0); t < audio.NumTypes; t++ {
		if t.String() == name {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown pattern %q", name)
}

// stream is an audio.Output rendered to mono float32 samples. Each sample
// read from it clocks the engine once.
type stream struct {
	engine  *audio.Engine
	scale   float32
	level   atomic.Uint32
	enabled atomic.Bool
	samples atomic.Uint64
}

func newStream(e *audio.Engine) *stream {
	return &stream{engine: e, scale: 1 / float32(e.Config().PWMTicks)}
}

func (s *stream) SetLevel(level uint8) { s.level.Store(uint32(level)) }

func (s *stream) SetEnabled(enabled bool) {
	if !enabled {
		s.level.Store(0)
	}
	s.enabled.Store(enabled)
}

func (s *stream) Read(p []byte) (int, error) {
	n := len(p) / 4
	for i := 0; i < n; i++ {
		if s.engine.IsPlaying() {
			s.samples.Add(1)
		}
		s.engine.HandleSample()
		var v float32
		if s.enabled.Load() {
			v = float32(s.level.Load()) * s.scale
		}
		binary.LittleEndian.PutUint32(p[4*i:], math.Float32bits(v))
	}
	return 4 * n, nil
}
