package audio

import "corsair/internal/debug"

// Sink receives audio directives from the effect processor. Implementations
// must be fire-and-forget: they never block narrative traversal and never
// propagate errors back into the engine.
type Sink interface {
	PlayMusic(trackID string)
	StopMusic()
	PlaySfx(sfxID string)
}

// Nop discards all audio directives.
type Nop struct{}

func (Nop) PlayMusic(string) {}
func (Nop) StopMusic()       {}
func (Nop) PlaySfx(string)   {}

// LogSink records audio directives to the debug log. Useful until a real
// playback backend is attached, and for asserting dispatch in tests.
type LogSink struct {
	log *debug.Logger

	Music []string
	Sfx   []string
}

func NewLogSink(log *debug.Logger) *LogSink {
	return &LogSink{log: log}
}

func (s *LogSink) PlayMusic(trackID string) {
	s.Music = append(s.Music, trackID)
	s.log.Printf("audio: play music %q", trackID)
}

func (s *LogSink) StopMusic() {
	s.Music = append(s.Music, "")
	s.log.Printf("audio: stop music")
}

func (s *LogSink) PlaySfx(sfxID string) {
	s.Sfx = append(s.Sfx, sfxID)
	s.log.Printf("audio: play sfx %q", sfxID)
}
