// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
)

// SegmentOpener creates the sink for segment index.
type SegmentOpener func(index int) (Sink, error)

// SegmentedSink splits a stream of a known length into consecutive segments.
// Segment k starts at frame k*segment and holds segment+overlap frames, so
// the last overlap frames of a segment repeat at the start of the next one.
// A trailing segment is only started when it would hold more than the
// overlap; the final segment ends with the stream.
type SegmentedSink struct {
	open       SegmentOpener
	channels   int
	sampleRate int
	total      int64
	segment    int64
	overlap    int64
	count      int

	pos    int64
	active map[int]Sink
	closed bool
}

// NewSegmentedSink prepares a segmented stream of total frames. No segment is
// opened before the first write.
func NewSegmentedSink(open SegmentOpener, channels, sampleRate int, total, segment, overlap int64) (*SegmentedSink, error) {
	if channels <= 0 || segment <= 0 || overlap < 0 || overlap > segment || total < 0 {
		return nil, fmt.Errorf("segmented sink: invalid layout (channels=%d segment=%d overlap=%d total=%d)",
			channels, segment, overlap, total)
	}

	return &SegmentedSink{
		open:       open,
		channels:   channels,
		sampleRate: sampleRate,
		total:      total,
		segment:    segment,
		overlap:    overlap,
		count:      SegmentCount(total, segment, overlap),
		active:     make(map[int]Sink, 2),
	}, nil
}

// SegmentCount returns the number of segments a stream of total frames is
// split into.
func SegmentCount(total, segment, overlap int64) int {
	if total <= 0 {
		return 0
	}
	count := 1
	for int64(count)*segment+overlap < total {
		count++
	}
	return count
}

func (s *SegmentedSink) SampleRate() int { return s.sampleRate }
func (s *SegmentedSink) Channels() int   { return s.channels }

// Segments is the number of segments this stream produces.
func (s *SegmentedSink) Segments() int { return s.count }

// bounds returns the frame range [start, end) of segment k.
func (s *SegmentedSink) bounds(k int) (int64, int64) {
	start := int64(k) * s.segment
	end := start + s.segment + s.overlap
	if k == s.count-1 || end > s.total {
		end = s.total
	}
	return start, end
}

func (s *SegmentedSink) WriteSamples(src []float32) error {
	if s.closed {
		return ErrClosed
	}
	if len(src)%s.channels != 0 {
		return ErrInvalidDstSize
	}

	frames := int64(len(src) / s.channels)
	if s.pos+frames > s.total {
		return ErrSegmentOverflow
	}

	first := int(s.pos / s.segment)
	// The frame at pos may also belong to the previous segment's overlap.
	for k := max(first-1, 0); k < s.count; k++ {
		start, end := s.bounds(k)
		if start >= s.pos+frames {
			break
		}
		from := max(start, s.pos)
		to := min(end, s.pos+frames)
		if from >= to {
			continue
		}

		sink, err := s.segmentSink(k)
		if err != nil {
			return err
		}

		lo := (from - s.pos) * int64(s.channels)
		hi := (to - s.pos) * int64(s.channels)
		if err := sink.WriteSamples(src[lo:hi]); err != nil {
			return fmt.Errorf("segment %d: %w", k, err)
		}

		if to == end {
			delete(s.active, k)
			if err := sink.Close(); err != nil {
				return fmt.Errorf("segment %d: %w", k, err)
			}
		}
	}

	s.pos += frames
	return nil
}

func (s *SegmentedSink) segmentSink(k int) (Sink, error) {
	if sink, ok := s.active[k]; ok {
		return sink, nil
	}
	sink, err := s.open(k)
	if err != nil {
		return nil, fmt.Errorf("open segment %d: %w", k, err)
	}
	if sink.Channels() != s.channels {
		sink.Close()
		return nil, fmt.Errorf("segment %d: %w", k, ErrChannelsMismatch)
	}
	s.active[k] = sink
	return sink, nil
}

// Close finalizes any segment still open. Segments cut short by an early
// Close keep what was written so far.
func (s *SegmentedSink) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	var firstErr error
	for k, sink := range s.active {
		if err := sink.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("segment %d: %w", k, err)
		}
		delete(s.active, k)
	}
	return firstErr
}
