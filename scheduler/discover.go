// SPDX-License-Identifier: EPL-2.0

package scheduler

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ik5/upmix/audio"
	"github.com/ik5/upmix/internal/failure"
	"github.com/ik5/upmix/logging"
	"github.com/ik5/upmix/stem"
)

// Discover finds the stem-sets under root. Folders are visited breadth
// first in name order; a valid folder is a match and is not searched any
// deeper, an invalid one has its subfolders queued.
func Discover(store audio.Store, root string, opts stem.Options, logger *slog.Logger) ([]*stem.Set, error) {
	if root == "" {
		return nil, failure.User("no folder selected")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	root = filepath.Clean(root)
	var sets []*stem.Set
	queue := []string{root}
	for len(queue) > 0 {
		dir := queue[0]
		queue = queue[1:]

		set := stem.NewSet(store, dir, opts)
		if set.Valid() {
			sets = append(sets, set)
			continue
		}

		entries, err := os.ReadDir(dir)
		if err != nil {
			if dir == root {
				return nil, failure.IO("read dir", dir, err)
			}
			logger.Warn("skipping unreadable folder", slog.String(logging.FieldFolder, dir), logging.Error(err))
			continue
		}
		for _, e := range entries {
			if e.IsDir() {
				queue = append(queue, filepath.Join(dir, e.Name()))
			}
		}
	}
	return sets, nil
}
