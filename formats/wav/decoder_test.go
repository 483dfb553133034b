// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"math"
	"testing"
)

// createWAVFile creates a minimal WAV file with the given parameters.
func createWAVFile(format uint16, channels, sampleRate, bitDepth int, data []byte) []byte {
	buf := new(bytes.Buffer)
	blockAlign := channels * bitDepth / 8

	buf.WriteString("RIFF")
	binary.Write(buf, binary.LittleEndian, uint32(36+len(data)))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(buf, binary.LittleEndian, uint32(16))
	binary.Write(buf, binary.LittleEndian, format)
	binary.Write(buf, binary.LittleEndian, uint16(channels))
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate*blockAlign))
	binary.Write(buf, binary.LittleEndian, uint16(blockAlign))
	binary.Write(buf, binary.LittleEndian, uint16(bitDepth))

	buf.WriteString("data")
	binary.Write(buf, binary.LittleEndian, uint32(len(data)))
	buf.Write(data)

	return buf.Bytes()
}

func pcm16(samples ...int16) []byte {
	buf := new(bytes.Buffer)
	for _, s := range samples {
		binary.Write(buf, binary.LittleEndian, s)
	}
	return buf.Bytes()
}

func readAll(t *testing.T, data []byte) ([]float32, int, int64) {
	t.Helper()

	src, err := Decoder{}.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	defer src.Close()

	var out []float32
	buf := make([]float32, 3)
	for {
		n, err := src.ReadSamples(buf)
		out = append(out, buf[:n]...)
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("ReadSamples() error = %v", err)
		}
	}
	return out, src.Channels(), src.Frames()
}

func TestDecoder_PCM16Stereo(t *testing.T) {
	t.Parallel()

	data := createWAVFile(formatPCM, 2, 44100, 16, pcm16(0, 16384, -16384, 32767, -32768, 0))
	got, channels, frames := readAll(t, data)

	if channels != 2 {
		t.Errorf("Channels() = %d, want 2", channels)
	}
	if frames != 3 {
		t.Errorf("Frames() = %d, want 3", frames)
	}

	want := []float32{0, 0.5, -0.5, 32767.0 / 32768.0, -1, 0}
	if len(got) != len(want) {
		t.Fatalf("read %d samples, want %d", len(got), len(want))
	}
	for i := range want {
		if math.Abs(float64(got[i]-want[i])) > 1e-6 {
			t.Errorf("sample[%d] = %f, want %f", i, got[i], want[i])
		}
	}
}

func TestDecoder_PCM8Unsigned(t *testing.T) {
	t.Parallel()

	data := createWAVFile(formatPCM, 1, 8000, 8, []byte{128, 192, 64, 0})
	got, _, frames := readAll(t, data)

	if frames != 4 {
		t.Errorf("Frames() = %d, want 4", frames)
	}
	want := []float32{0, 0.5, -0.5, -1}
	for i := range want {
		if math.Abs(float64(got[i]-want[i])) > 1e-6 {
			t.Errorf("sample[%d] = %f, want %f", i, got[i], want[i])
		}
	}
}

func TestDecoder_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"not riff", []byte("This is definitely not a WAV file"), ErrNotWavFile},
		{"empty", nil, ErrNotWavFile},
		{"float format", createWAVFile(3, 1, 44100, 32, make([]byte, 8)), ErrOnlyPCMSupported},
		{"odd bit depth", createWAVFile(formatPCM, 1, 44100, 12, make([]byte, 8)), ErrUnsupportedBitDepth},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Decoder{}.Decode(bytes.NewReader(tt.data))
			if !errors.Is(err, tt.want) {
				t.Errorf("Decode() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDecoder_NonSeekableReader(t *testing.T) {
	t.Parallel()

	data := createWAVFile(formatPCM, 1, 22050, 16, pcm16(1, 2, 3, 4))
	src, err := Decoder{}.Decode(io.MultiReader(bytes.NewReader(data)))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if src.SampleRate() != 22050 || src.Frames() != 4 || src.BitDepth() != 16 {
		t.Errorf("got rate=%d frames=%d bits=%d", src.SampleRate(), src.Frames(), src.BitDepth())
	}
}

func TestSource_ZeroLengthRead(t *testing.T) {
	t.Parallel()

	data := createWAVFile(formatPCM, 1, 8000, 16, pcm16(1))
	src, err := Decoder{}.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	n, err := src.ReadSamples(nil)
	if n != 0 || err != nil {
		t.Errorf("ReadSamples(nil) = %d, %v, want 0, nil", n, err)
	}
}

func BenchmarkSource_ReadSamples(b *testing.B) {
	samples := make([]int16, 44100*2)
	for i := range samples {
		samples[i] = int16(i)
	}
	data := createWAVFile(formatPCM, 2, 44100, 16, pcm16(samples...))
	buf := make([]float32, 4096)

	b.ReportAllocs()
	for b.Loop() {
		src, err := Decoder{}.Decode(bytes.NewReader(data))
		if err != nil {
			b.Fatal(err)
		}
		for {
			if _, err := src.ReadSamples(buf); err != nil {
				break
			}
		}
	}
}
