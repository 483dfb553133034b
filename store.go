// SPDX-License-Identifier: EPL-2.0

package upmix

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ik5/upmix/audio"
	"github.com/ik5/upmix/formats/aiff"
	"github.com/ik5/upmix/formats/mp3"
	"github.com/ik5/upmix/formats/vorbis"
	"github.com/ik5/upmix/formats/wav"
)

// NewRegistry returns a registry with every supported decoder.
func NewRegistry() *audio.Registry {
	reg := audio.NewRegistry()
	reg.Register("wav", wav.Decoder{})
	reg.Register("aif", aiff.Decoder{})
	reg.Register("aiff", aiff.Decoder{})
	reg.Register("mp3", mp3.Decoder{})
	reg.Register("ogg", vorbis.Decoder{})
	return reg
}

// FileStore is an audio.Store on the local filesystem. Files are decoded
// through the registry and written as PCM WAV.
type FileStore struct {
	registry *audio.Registry
}

func NewFileStore(reg *audio.Registry) *FileStore {
	return &FileStore{registry: reg}
}

func (s *FileStore) Open(path string) (audio.Source, error) {
	return s.registry.Open(path)
}

func (s *FileStore) Create(path string, channels, sampleRate, bitDepth int) (audio.Sink, error) {
	if !strings.EqualFold(filepath.Ext(path), ".wav") {
		return nil, fmt.Errorf("create %s: %w: only wav output is supported", path, audio.ErrUnknownFormat)
	}
	w, err := wav.Create(path, channels, sampleRate, bitDepth)
	if err != nil {
		return nil, err
	}
	return w, nil
}

// Exists reports whether path is a regular file.
func (s *FileStore) Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func (s *FileStore) Remove(path string) error {
	return os.Remove(path)
}
