// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"fmt"
	"io"
	"io/fs"
	"slices"
	"sync"

	"github.com/ik5/upmix/audio"
)

// Clip is an in-memory PCM stream.
type Clip struct {
	SampleRate int
	Channels   int
	BitDepth   int
	Samples    []float32
}

// Frames is the number of frames held by the clip.
func (c *Clip) Frames() int64 { return int64(len(c.Samples) / c.Channels) }

// NewClip builds a clip of frames frames from a waveform function.
func NewClip(sampleRate, channels, frames int, waveform func(frame, channel int) float32) *Clip {
	samples := make([]float32, frames*channels)
	for f := range frames {
		for c := range channels {
			samples[f*channels+c] = waveform(f, c)
		}
	}
	return &Clip{SampleRate: sampleRate, Channels: channels, BitDepth: 16, Samples: samples}
}

// MemoryStore implements audio.Store over clips keyed by path.
type MemoryStore struct {
	mu       sync.Mutex
	clips    map[string]*Clip
	failOpen map[string]error
	open     int
	removed  []string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		clips:    make(map[string]*Clip),
		failOpen: make(map[string]error),
	}
}

// Put stores clip under path, replacing any previous one.
func (s *MemoryStore) Put(path string, clip *Clip) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clips[path] = clip
}

// Get returns the clip stored at path.
func (s *MemoryStore) Get(path string) (*Clip, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.clips[path]
	return c, ok
}

// FailOpen makes Open of path return err.
func (s *MemoryStore) FailOpen(path string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failOpen[path] = err
}

// Paths lists the stored paths in lexical order.
func (s *MemoryStore) Paths() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	paths := make([]string, 0, len(s.clips))
	for p := range s.clips {
		paths = append(paths, p)
	}
	slices.Sort(paths)
	return paths
}

// OpenSources is the number of sources opened and not yet closed.
func (s *MemoryStore) OpenSources() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}

// Removed lists the paths passed to Remove, in call order.
func (s *MemoryStore) Removed() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.removed)
}

func (s *MemoryStore) Open(path string) (audio.Source, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err, ok := s.failOpen[path]; ok {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	clip, ok := s.clips[path]
	if !ok {
		return nil, fmt.Errorf("open %s: %w", path, fs.ErrNotExist)
	}
	s.open++
	return &clipSource{clip: clip, store: s}, nil
}

func (s *MemoryStore) Create(path string, channels, sampleRate, bitDepth int) (audio.Sink, error) {
	clip := &Clip{SampleRate: sampleRate, Channels: channels, BitDepth: bitDepth}
	s.Put(path, clip)
	return &MemorySink{clip: clip}, nil
}

func (s *MemoryStore) Exists(path string) bool {
	_, ok := s.Get(path)
	return ok
}

func (s *MemoryStore) Remove(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clips[path]; !ok {
		return fmt.Errorf("remove %s: %w", path, fs.ErrNotExist)
	}
	delete(s.clips, path)
	s.removed = append(s.removed, path)
	return nil
}

type clipSource struct {
	clip   *Clip
	store  *MemoryStore
	pos    int
	closed bool
}

func (c *clipSource) SampleRate() int { return c.clip.SampleRate }
func (c *clipSource) Channels() int   { return c.clip.Channels }
func (c *clipSource) BitDepth() int   { return c.clip.BitDepth }
func (c *clipSource) Frames() int64   { return c.clip.Frames() }
func (c *clipSource) BufSize() int    { return 4096 }

func (c *clipSource) ReadSamples(dst []float32) (int, error) {
	if c.closed {
		return 0, audio.ErrClosed
	}
	if c.pos >= len(c.clip.Samples) {
		return 0, io.EOF
	}
	n := copy(dst, c.clip.Samples[c.pos:])
	c.pos += n
	return n, nil
}

func (c *clipSource) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	c.store.mu.Lock()
	c.store.open--
	c.store.mu.Unlock()
	return nil
}

// MemorySink collects written samples into a clip.
type MemorySink struct {
	clip   *Clip
	closed bool
}

// NewMemorySink creates a sink that is not attached to a store.
func NewMemorySink(channels, sampleRate int) *MemorySink {
	return &MemorySink{clip: &Clip{SampleRate: sampleRate, Channels: channels, BitDepth: 16}}
}

func (m *MemorySink) SampleRate() int { return m.clip.SampleRate }
func (m *MemorySink) Channels() int   { return m.clip.Channels }

func (m *MemorySink) WriteSamples(src []float32) error {
	if m.closed {
		return audio.ErrClosed
	}
	if len(src)%m.clip.Channels != 0 {
		return audio.ErrInvalidDstSize
	}
	m.clip.Samples = append(m.clip.Samples, src...)
	return nil
}

func (m *MemorySink) Close() error {
	m.closed = true
	return nil
}

// Clip returns the samples written so far.
func (m *MemorySink) Clip() *Clip { return m.clip }

// Closed reports whether Close was called.
func (m *MemorySink) Closed() bool { return m.closed }
