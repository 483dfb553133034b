// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"fmt"
	"io"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/ik5/upmix/audio"
	"github.com/ik5/upmix/utils"
)

// Writer streams interleaved float samples into a PCM WAV container.
// The RIFF header is emitted with the first block and its sizes are patched
// on Close.
type Writer struct {
	enc        *wav.Encoder
	file       *os.File
	channels   int
	sampleRate int
	bitDepth   int
	buf        *goaudio.IntBuffer
	written    bool
	closed     bool
}

// NewWriter prepares a writer on w. The caller keeps ownership of w.
func NewWriter(w io.WriteSeeker, channels, sampleRate, bitDepth int) (*Writer, error) {
	switch bitDepth {
	case 8, 16, 24, 32:
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, bitDepth)
	}
	if channels < 1 || sampleRate < 1 {
		return nil, ErrUnsupportedWavLayout
	}

	return &Writer{
		enc:        wav.NewEncoder(w, sampleRate, bitDepth, channels, formatPCM),
		channels:   channels,
		sampleRate: sampleRate,
		bitDepth:   bitDepth,
		buf: &goaudio.IntBuffer{
			Format:         &goaudio.Format{NumChannels: channels, SampleRate: sampleRate},
			SourceBitDepth: bitDepth,
		},
	}, nil
}

// Create creates (or truncates) the file at path and returns a writer that
// closes it on Close.
func Create(path string, channels, sampleRate, bitDepth int) (*Writer, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}

	w, err := NewWriter(file, channels, sampleRate, bitDepth)
	if err != nil {
		file.Close()
		os.Remove(path)
		return nil, err
	}
	w.file = file
	return w, nil
}

func (w *Writer) SampleRate() int { return w.sampleRate }
func (w *Writer) Channels() int   { return w.channels }

func (w *Writer) WriteSamples(src []float32) error {
	if w.closed {
		return audio.ErrClosed
	}
	if len(src)%w.channels != 0 {
		return audio.ErrInvalidDstSize
	}

	if cap(w.buf.Data) < len(src) {
		w.buf.Data = make([]int, len(src))
	}
	w.buf.Data = w.buf.Data[:len(src)]

	if w.bitDepth == 8 {
		for i, x := range src {
			w.buf.Data[i] = utils.FloatToInt(x, 8) + 128
		}
	} else {
		for i, x := range src {
			w.buf.Data[i] = utils.FloatToInt(x, w.bitDepth)
		}
	}

	if err := w.enc.Write(w.buf); err != nil {
		return fmt.Errorf("wav: encode: %w", err)
	}
	w.written = true
	return nil
}

func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	var err error
	if !w.written {
		// Emit the header so an empty stream is still a valid file.
		w.buf.Data = w.buf.Data[:0]
		err = w.enc.Write(w.buf)
	}
	if err == nil {
		err = w.enc.Close()
	}
	if w.file != nil {
		if cerr := w.file.Close(); err == nil {
			err = cerr
		}
	}
	if err != nil {
		return fmt.Errorf("wav: encode: %w", err)
	}
	return nil
}
