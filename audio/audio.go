// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Source is a PCM stream reader.
type Source interface {
	// SampleRate of the PCM stream in Hz.
	SampleRate() int
	// Channels count (e.g., 1=mono, 2=stereo).
	Channels() int
	// BitDepth of the stored samples. Decoded compressed streams report 16.
	BitDepth() int
	// Frames is the total number of frames (samples per channel) in the
	// stream, or -1 when the decoder cannot tell without reading it all.
	Frames() int64
	// ReadSamples fills dst with interleaved float32 samples in [-1,1].
	// Returns number of float32 values written (not frames). When n == 0 with err == io.EOF, the stream is finished.
	ReadSamples(dst []float32) (n int, err error)

	BufSize() int

	// Close releases any resources.
	Close() error
}

// Sink is a PCM stream writer. The container header is emitted by the
// first write and finalized by Close.
type Sink interface {
	SampleRate() int
	Channels() int
	// WriteSamples appends interleaved float32 samples in [-1,1].
	// len(src) must be a multiple of Channels().
	WriteSamples(src []float32) error
	Close() error
}

// Store opens and creates PCM streams by path.
type Store interface {
	Open(path string) (Source, error)
	Create(path string, channels, sampleRate, bitDepth int) (Sink, error)
	Exists(path string) bool
	Remove(path string) error
}

// Decoder constructs a Source from an input reader.
type Decoder interface {
	Decode(r io.Reader) (Source, error)
}

// Registry for decoders by format key (e.g., "wav", "mp3", "ogg").
type Registry struct {
	codecs map[string]Decoder

	mtx *sync.Mutex
}

func NewRegistry() *Registry {
	return &Registry{
		codecs: make(map[string]Decoder),
		mtx:    &sync.Mutex{},
	}
}

func (r *Registry) Register(format string, d Decoder) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	r.codecs[strings.ToLower(format)] = d
}

func (r *Registry) Get(format string) (Decoder, bool) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	d, ok := r.codecs[strings.ToLower(format)]
	return d, ok
}

// Open decodes the file at path with the decoder registered for its
// extension. The returned Source owns the file and closes it on Close.
func (r *Registry) Open(path string) (Source, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	dec, ok := r.Get(ext)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, ext)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	src, err := dec.Decode(file)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	return &fileSource{Source: src, file: file}, nil
}

type fileSource struct {
	Source
	file *os.File
}

func (f *fileSource) Close() error {
	srcErr := f.Source.Close()
	fileErr := f.file.Close()
	if srcErr != nil {
		return fmt.Errorf("%w", srcErr)
	}
	if fileErr != nil {
		return fmt.Errorf("%w", fileErr)
	}
	return nil
}

// ReadFull reads from src until dst is full or the stream ends. It returns
// the number of samples read; io.EOF is only returned when nothing was read.
func ReadFull(src Source, dst []float32) (int, error) {
	read := 0
	for read < len(dst) {
		n, err := src.ReadSamples(dst[read:])
		read += n
		if err == io.EOF {
			if read == 0 {
				return 0, io.EOF
			}
			return read, nil
		}
		if err != nil {
			return read, fmt.Errorf("%w", err)
		}
		if n == 0 {
			// Decoders that signal the end with (0, nil).
			if read == 0 {
				return 0, io.EOF
			}
			return read, nil
		}
	}
	return read, nil
}
