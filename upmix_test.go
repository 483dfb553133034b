// SPDX-License-Identifier: EPL-2.0

package upmix_test

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/ik5/upmix"
	"github.com/ik5/upmix/audio"
	"github.com/ik5/upmix/config"
	"github.com/ik5/upmix/formats/wav"
	"github.com/ik5/upmix/internal/failure"
	"github.com/ik5/upmix/matrix"
	"github.com/ik5/upmix/stem"
	"github.com/ik5/upmix/task"
)

const rate = 8000

func writeTone(t *testing.T, path string, frames int, level float64) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	w, err := wav.Create(path, 2, rate, 16)
	if err != nil {
		t.Fatal(err)
	}
	buf := make([]float32, frames*2)
	for f := range frames {
		x := float32(level * math.Sin(2*math.Pi*440*float64(f)/rate))
		buf[2*f], buf[2*f+1] = x, x
	}
	if err := w.WriteSamples(buf); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
}

func newUpmixer(t *testing.T, cfg config.Config) *upmix.Upmixer {
	t.Helper()
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	return upmix.New(&cfg, upmix.NewFileStore(upmix.NewRegistry()), task.NewEngine(), nil)
}

func readAll(t *testing.T, path string) audio.Source {
	t.Helper()
	src, err := upmix.NewFileStore(upmix.NewRegistry()).Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	t.Cleanup(func() { src.Close() })
	return src
}

func TestRenderFolder(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	for _, song := range []string{"one", "two"} {
		for _, r := range stem.RequiredRoles {
			writeTone(t, filepath.Join(root, song, string(r)+".wav"), 2000, 0.2)
		}
	}

	u := newUpmixer(t, config.Default())
	jobs, err := u.RenderFolder(root)
	if err != nil {
		t.Fatalf("RenderFolder: %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("got %d jobs, want 2", len(jobs))
	}

	for _, song := range []string{"one", "two"} {
		src := readAll(t, filepath.Join(root, song, stem.RenderName))
		if src.Channels() != matrix.Channels || src.SampleRate() != rate || src.BitDepth() != 16 {
			t.Errorf("%s: layout %d ch %d Hz %d bit", song, src.Channels(), src.SampleRate(), src.BitDepth())
		}
		if src.Frames() != 2000 {
			t.Errorf("%s: %d frames, want 2000", song, src.Frames())
		}
	}
	if u.Engine().Status() != "Finished!" {
		t.Errorf("status = %q", u.Engine().Status())
	}
}

func TestRenderFolder_NothingFound(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeTone(t, filepath.Join(root, "partial", "vocals.wav"), 100, 0.2)

	_, err := newUpmixer(t, config.Default()).RenderFolder(root)
	if !errors.Is(err, failure.ErrUserInput) {
		t.Errorf("err = %v, want user input error", err)
	}
}

func TestSplitAndRecombine(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	source := filepath.Join(dir, "long.wav")
	writeTone(t, source, 130*rate, 0.5)

	u := newUpmixer(t, config.Default())
	segments, err := u.SplitFile(source)
	if err != nil {
		t.Fatalf("SplitFile: %v", err)
	}
	if len(segments) != 3 {
		t.Fatalf("got %d segments, want 3", len(segments))
	}

	// Stand-in for the external processing step.
	for _, seg := range segments {
		data, err := os.ReadFile(seg)
		if err != nil {
			t.Fatal(err)
		}
		folder := seg[:len(seg)-len(".wav")]
		if err := os.MkdirAll(folder, 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(folder, "render.wav"), data, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	out, err := u.RecombineFolder(filepath.Join(dir, "long.0"))
	if err != nil {
		t.Fatalf("RecombineFolder: %v", err)
	}
	if out != filepath.Join(dir, "render.wav") {
		t.Errorf("output at %s", out)
	}
	if got := readAll(t, out).Frames(); got != 130*rate {
		t.Errorf("recombined %d frames, want %d", got, 130*rate)
	}
}

func TestFileStore(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store := upmix.NewFileStore(upmix.NewRegistry())

	if _, err := store.Create(filepath.Join(dir, "x.aiff"), 2, rate, 16); !errors.Is(err, audio.ErrUnknownFormat) {
		t.Errorf("Create aiff = %v, want ErrUnknownFormat", err)
	}
	if _, err := store.Open(filepath.Join(dir, "x.flac")); !errors.Is(err, audio.ErrUnknownFormat) {
		t.Errorf("Open flac = %v, want ErrUnknownFormat", err)
	}

	path := filepath.Join(dir, "x.wav")
	if store.Exists(path) {
		t.Fatal("file exists before Create")
	}
	sink, err := store.Create(path, 1, rate, 24)
	if err != nil {
		t.Fatal(err)
	}
	sink.WriteSamples([]float32{0.25, -0.25})
	sink.Close()

	if !store.Exists(path) || store.Exists(dir) {
		t.Error("Exists must report regular files only")
	}
	if err := store.Remove(path); err != nil {
		t.Fatal(err)
	}
	if store.Exists(path) {
		t.Error("file still exists after Remove")
	}
}
