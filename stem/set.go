// SPDX-License-Identifier: EPL-2.0

package stem

import (
	"errors"
	"path/filepath"

	"github.com/ik5/upmix/audio"
	"github.com/ik5/upmix/internal/failure"
)

// RenderName is the file a stem-set is rendered to, inside its folder.
const RenderName = "render.wav"

// Set is a folder of stems rendered together.
type Set struct {
	Dir    string
	tracks map[Role]*Track
	store  audio.Store
}

// NewSet describes the stem-set in dir. Nothing is opened; use Valid to
// check that the required stems exist.
func NewSet(store audio.Store, dir string, opts Options) *Set {
	ext := opts.Extension
	if ext == "" {
		ext = "wav"
	}

	s := &Set{Dir: dir, tracks: make(map[Role]*Track, len(Roles)), store: store}
	for _, r := range Roles {
		path := filepath.Join(dir, string(r)+"."+ext)
		s.tracks[r] = newTrack(store, r, path, opts.settings(r))
	}
	return s
}

// Valid reports whether every required stem exists.
func (s *Set) Valid() bool {
	return len(s.Missing()) == 0
}

// Missing lists the required roles whose file does not exist.
func (s *Set) Missing() []Role {
	var missing []Role
	for _, r := range Roles {
		if r.Required() && !s.store.Exists(s.tracks[r].Path) {
			missing = append(missing, r)
		}
	}
	return missing
}

// Track returns the track of r, or nil if its file does not exist.
func (s *Set) Track(r Role) *Track {
	t := s.tracks[r]
	if t == nil || !s.store.Exists(t.Path) {
		return nil
	}
	return t
}

// Tracks returns the present tracks in render order.
func (s *Set) Tracks() []*Track {
	tracks := make([]*Track, 0, len(Roles))
	for _, r := range Roles {
		if t := s.Track(r); t != nil {
			tracks = append(tracks, t)
		}
	}
	return tracks
}

// Open opens every present stem. On failure all readers opened so far are
// closed before the error is returned.
func (s *Set) Open() error {
	if missing := s.Missing(); len(missing) > 0 {
		return failure.User("%s: missing stems %v", s.Dir, missing)
	}
	for _, t := range s.Tracks() {
		if err := t.Open(); err != nil {
			s.Close()
			return err
		}
	}
	return nil
}

// SampleRate of the set, taken from the vocals stem. The set must be open.
func (s *Set) SampleRate() int { return s.tracks[Vocals].SampleRate() }

// Frames of the set, taken from the vocals stem. The set must be open.
func (s *Set) Frames() int64 { return s.tracks[Vocals].Frames() }

// OutputPath is where the set is rendered.
func (s *Set) OutputPath() string { return filepath.Join(s.Dir, RenderName) }

// Close releases every open reader.
func (s *Set) Close() error {
	var errs []error
	for _, t := range s.tracks {
		errs = append(errs, t.Close())
	}
	return errors.Join(errs...)
}

// Cleanup removes the stem files of the set.
func (s *Set) Cleanup() error {
	var errs []error
	for _, t := range s.Tracks() {
		if err := s.store.Remove(t.Path); err != nil {
			errs = append(errs, failure.IO("remove", t.Path, err))
		}
	}
	return errors.Join(errs...)
}
