// SPDX-License-Identifier: EPL-2.0

// Package audio provides the PCM stream contracts and streaming primitives
// the renderer and the chunk tools are built on.
//
// This package contains:
//   - Source, the PCM stream reader (header values plus block reads)
//   - Sink, the PCM stream writer
//   - Store, opening and creating streams by path
//   - Registry, decoders keyed by file extension
//   - Resampler for sample rate conversion
//   - StereoMixer for folding any channel layout to stereo
//   - SegmentedSink for writing overlapping numbered segments
//
// # Source Interface
//
//	type Source interface {
//	    SampleRate() int
//	    Channels() int
//	    BitDepth() int
//	    Frames() int64
//	    ReadSamples(dst []float32) (int, error)
//	    BufSize() int
//	    Close() error
//	}
//
// Frames is known up front for every supported container, so callers can
// size a whole-track buffer before reading. ReadFull keeps calling
// ReadSamples until a block is complete:
//
//	buf := make([]float32, src.Frames()*int64(src.Channels()))
//	for start := 0; start < len(buf); start += 1 << 18 {
//	    end := min(start+1<<18, len(buf))
//	    if _, err := audio.ReadFull(src, buf[start:end]); err != nil {
//	        break
//	    }
//	}
//
// # Segmented Writing
//
// SegmentedSink rolls over to a new sink every segment frames. Each segment
// but the last also carries the first overlap frames of the next one:
//
//	open := func(i int) (audio.Sink, error) {
//	    return wav.Create(fmt.Sprintf("song.%d.wav", i), 2, 44100, 16)
//	}
//	sink, _ := audio.NewSegmentedSink(open, 2, 44100, frames, 60*44100, 44100)
//
// # Sample Format
//
// Audio samples are represented as float32 in the range [-1.0, 1.0].
// Intermediate mixes may exceed that range; they are normalized before they
// reach a fixed-point Sink.
//
// # Error Handling
//
// ReadSamples returns io.EOF when no more data is available. Other errors
// indicate problems with the source:
//
//	for {
//	    n, err := source.ReadSamples(buf)
//	    if err == io.EOF {
//	        break // Normal end of stream
//	    }
//	    if err != nil {
//	        return err // Processing error
//	    }
//	    // Process n samples from buf
//	}
package audio
