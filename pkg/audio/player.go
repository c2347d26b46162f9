package audio

import (
	"io"
	"os"
	"sync"

	"github.com/rxhtt/morrigan/internal"
)

var log = internal.GetLogger()

// Sink is the audio output device abstraction.
type Sink interface {
	WriteSamples(samples []float32, sampleRate int) error
	Close() error
}

var once sync.Once
var output *Player

// Output returns the process-wide audio output. It is created on first
// use, reused for every subsequent message and never recreated; creation
// is guarded so concurrent first plays cannot race.
func Output() *Player {
	once.Do(func() {
		output = NewPlayer(NewPCMSink(os.Stdout))
	})
	return output
}

// NewPlayer wraps a sink. Use Output for the shared process-wide player;
// NewPlayer directly only for tests or custom sinks.
func NewPlayer(sink Sink) *Player {
	return &Player{sink: sink}
}

type Player struct {
	mu   sync.Mutex
	sink Sink
}

// Play schedules immediate playback. Failure is logged only: it never
// surfaces beyond the absence of audible output.
func (p *Player) Play(samples []float32, sampleRate int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.sink.WriteSamples(samples, sampleRate); err != nil {
		log.Warnf("audio playback failed: %v", err)
	}
}

// Close is the explicit teardown hook for the output resource.
func (p *Player) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sink.Close()
}

// NewPCMSink returns a sink streaming raw 16-bit LE PCM to w, suitable
// for piping into an external player (e.g. aplay -f S16_LE -r 24000 -c 1).
func NewPCMSink(w io.Writer) Sink {
	return &pcmSink{w: w}
}

type pcmSink struct {
	w io.Writer
}

func (s *pcmSink) WriteSamples(samples []float32, _ int) error {
	_, err := s.w.Write(EncodePCM(samples))
	return err
}

func (s *pcmSink) Close() error {
	if closer, ok := s.w.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
