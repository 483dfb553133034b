// SPDX-License-Identifier: EPL-2.0

package scheduler_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/ik5/upmix/audio"
	"github.com/ik5/upmix/internal/audiotest"
	"github.com/ik5/upmix/internal/failure"
	"github.com/ik5/upmix/mix"
	"github.com/ik5/upmix/scheduler"
	"github.com/ik5/upmix/stem"
	"github.com/ik5/upmix/task"
)

// mkSet creates dir on disk and registers a full set of stems for it in
// store.
func mkSet(t *testing.T, store *audiotest.MemoryStore, dir string, roles ...stem.Role) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if len(roles) == 0 {
		roles = stem.Roles
	}
	for _, r := range roles {
		store.Put(filepath.Join(dir, string(r)+".wav"),
			audiotest.NewClip(8000, 2, 800, func(f, c int) float32 { return 0.1 }))
	}
}

func newScheduler(store *audiotest.MemoryStore) *scheduler.Scheduler {
	r := &mix.Renderer{Strategy: mix.Surround{}, Store: store}
	return scheduler.New(task.NewEngine(), r, store, stem.DefaultOptions(), nil)
}

// gate blocks callers touching paths under dir until it is released.
type gate struct {
	dir     string
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func newGate(dir string) *gate {
	return &gate{
		dir:     dir + string(filepath.Separator),
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
}

func (g *gate) wait(path string) {
	if g == nil || !strings.HasPrefix(path, g.dir) {
		return
	}
	g.once.Do(func() { close(g.entered) })
	<-g.release
}

// gatedStore holds Exists or Open calls on its gates.
type gatedStore struct {
	*audiotest.MemoryStore
	exists *gate
	open   *gate
}

func (g *gatedStore) Exists(path string) bool {
	g.exists.wait(path)
	return g.MemoryStore.Exists(path)
}

func (g *gatedStore) Open(path string) (audio.Source, error) {
	g.open.wait(path)
	return g.MemoryStore.Open(path)
}

func newGatedScheduler(e *task.Engine, store *gatedStore) *scheduler.Scheduler {
	r := &mix.Renderer{Strategy: mix.Surround{}, Store: store}
	return scheduler.New(e, r, store, stem.DefaultOptions(), nil)
}

func TestDiscover(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		sets []string
		// partial folders hold only some stems
		partial []string
		want    []string
	}{
		{name: "root is a set", sets: []string{"."}, want: []string{"."}},
		{name: "nested sets in name order", sets: []string{"b/song", "a"}, want: []string{"a", "b/song"}},
		{name: "breadth first", sets: []string{"a/deep/x", "b"}, want: []string{"b", "a/deep/x"}},
		{name: "set is not searched deeper", sets: []string{"a", "a/inner"}, want: []string{"a"}},
		{name: "partial folder is searched", sets: []string{"a/song"}, partial: []string{"a"}, want: []string{"a/song"}},
		{name: "nothing", partial: []string{"a"}, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			root := t.TempDir()
			store := audiotest.NewMemoryStore()
			for _, s := range tt.sets {
				mkSet(t, store, filepath.Join(root, s))
			}
			for _, p := range tt.partial {
				mkSet(t, store, filepath.Join(root, p), stem.Vocals, stem.Bass)
			}

			sets, err := scheduler.Discover(store, root, stem.DefaultOptions(), nil)
			if err != nil {
				t.Fatalf("Discover: %v", err)
			}
			var got []string
			for _, s := range sets {
				rel, _ := filepath.Rel(root, s.Dir)
				got = append(got, filepath.ToSlash(rel))
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("set %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestDiscover_MissingRoot(t *testing.T) {
	t.Parallel()

	root := filepath.Join(t.TempDir(), "gone")
	_, err := scheduler.Discover(audiotest.NewMemoryStore(), root, stem.DefaultOptions(), nil)
	if !errors.Is(err, failure.ErrIO) {
		t.Errorf("err = %v, want IO error", err)
	}
}

func TestRun_SingleSet(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	store := audiotest.NewMemoryStore()
	mkSet(t, store, root)

	s := newScheduler(store)
	jobs, err := s.Run(root)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if err := s.Engine.Wait(); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if len(jobs) != 1 || jobs[0].Total != 1 || jobs[0].ID == "" {
		t.Fatalf("jobs = %+v", jobs)
	}
	if !store.Exists(filepath.Join(root, stem.RenderName)) {
		t.Error("render.wav was not written")
	}
	if got := s.Engine.Progress(); got != 1 {
		t.Errorf("progress = %v, want 1", got)
	}
}

func TestRun_TwoSets(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	store := audiotest.NewMemoryStore()
	mkSet(t, store, filepath.Join(root, "b"))
	mkSet(t, store, filepath.Join(root, "a"))

	s := newScheduler(store)
	jobs, err := s.Run(root)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if err := s.Engine.Wait(); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("got %d jobs, want 2", len(jobs))
	}
	for i, name := range []string{"a", "b"} {
		dir := filepath.Join(root, name)
		if jobs[i].Set.Dir != dir || jobs[i].Index != i {
			t.Errorf("job %d = %s (index %d), want %s", i, jobs[i].Set.Dir, jobs[i].Index, dir)
		}
		if !store.Exists(filepath.Join(dir, stem.RenderName)) {
			t.Errorf("%s: render.wav was not written", name)
		}
	}
	if jobs[0].ID == jobs[1].ID {
		t.Error("job ids are not unique")
	}
}

func TestRun_UserErrors(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	store := audiotest.NewMemoryStore()
	mkSet(t, store, filepath.Join(root, "partial"), stem.Vocals, stem.Drums)

	for _, path := range []string{"", root} {
		_, err := newScheduler(store).Run(path)
		if !errors.Is(err, failure.ErrUserInput) {
			t.Errorf("Run(%q) = %v, want user input error", path, err)
		}
	}
}

func TestRun_Busy(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	store := audiotest.NewMemoryStore()
	mkSet(t, store, root)
	s := newScheduler(store)

	release := make(chan struct{})
	if err := s.Engine.Start("split", func(task.Reporter) error {
		<-release
		return nil
	}); err != nil {
		t.Fatal(err)
	}

	_, err := s.Run(root)
	close(release)
	if !errors.Is(err, failure.ErrConcurrency) {
		t.Errorf("Run while busy = %v, want concurrency error", err)
	}
	if err := s.Engine.Wait(); err != nil {
		t.Errorf("running job disturbed: %v", err)
	}
	if store.Exists(filepath.Join(root, stem.RenderName)) {
		t.Error("refused run still rendered")
	}
}

func TestRun_ContinuesAfterFailure(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	store := audiotest.NewMemoryStore()
	bad, good := filepath.Join(root, "a"), filepath.Join(root, "b")
	mkSet(t, store, bad)
	mkSet(t, store, good)
	store.FailOpen(filepath.Join(bad, "drums.wav"), os.ErrPermission)

	s := newScheduler(store)
	if _, err := s.Run(root); err != nil {
		t.Fatalf("Run: %v", err)
	}
	err := s.Engine.Wait()
	if !errors.Is(err, failure.ErrIO) {
		t.Errorf("Wait = %v, want IO error", err)
	}
	if s.Engine.Status() != task.FailedStatus {
		t.Errorf("status = %q, want %q", s.Engine.Status(), task.FailedStatus)
	}
	if !store.Exists(filepath.Join(good, stem.RenderName)) {
		t.Error("second job did not run")
	}
	if store.OpenSources() != 0 {
		t.Errorf("%d sources left open", store.OpenSources())
	}
}

func TestRun_State(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	store := audiotest.NewMemoryStore()
	mkSet(t, store, filepath.Join(root, "a"))
	mkSet(t, store, filepath.Join(root, "b"))

	s := newScheduler(store)
	if s.State() != scheduler.Idle {
		t.Fatalf("initial state = %v", s.State())
	}
	if _, err := s.Run(root); err != nil {
		t.Fatal(err)
	}
	if err := s.Engine.Wait(); err != nil {
		t.Fatal(err)
	}
	if s.State() != scheduler.Done {
		t.Errorf("state = %v, want done", s.State())
	}
	if index, total := s.Current(); index != 1 || total != 2 {
		t.Errorf("current = %d of %d, want 1 of 2", index, total)
	}

	if _, err := s.Run(filepath.Join(root, "missing")); err == nil {
		t.Fatal("Run on a missing folder succeeded")
	}
	if s.State() != scheduler.Failed {
		t.Errorf("state = %v, want failed", s.State())
	}
}

func TestRun_RefusedKeepsRunningBatch(t *testing.T) {
	t.Parallel()

	running, other := t.TempDir(), t.TempDir()
	store := &gatedStore{MemoryStore: audiotest.NewMemoryStore(), open: newGate(running)}
	mkSet(t, store.MemoryStore, running)
	for _, name := range []string{"a", "b", "c"} {
		mkSet(t, store.MemoryStore, filepath.Join(other, name))
	}
	s := newGatedScheduler(task.NewEngine(), store)

	if _, err := s.Run(running); err != nil {
		t.Fatalf("Run: %v", err)
	}
	<-store.open.entered

	if _, err := s.Run(other); !errors.Is(err, failure.ErrConcurrency) {
		t.Errorf("Run while rendering = %v, want concurrency error", err)
	}
	if s.State() != scheduler.Running {
		t.Errorf("state = %v, want running", s.State())
	}
	if index, total := s.Current(); index != 0 || total != 1 {
		t.Errorf("current = %d of %d, want 0 of 1", index, total)
	}

	close(store.open.release)
	if err := s.Engine.Wait(); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if s.State() != scheduler.Done {
		t.Errorf("state = %v, want done", s.State())
	}
}

func TestRun_EngineTakenDuringDiscovery(t *testing.T) {
	t.Parallel()

	rootA, rootB := t.TempDir(), t.TempDir()
	storeA := &gatedStore{MemoryStore: audiotest.NewMemoryStore(), exists: newGate(rootA)}
	storeB := &gatedStore{MemoryStore: audiotest.NewMemoryStore(), open: newGate(rootB)}
	for _, name := range []string{"a", "b", "c"} {
		mkSet(t, storeA.MemoryStore, filepath.Join(rootA, name))
	}
	mkSet(t, storeB.MemoryStore, rootB)

	engine := task.NewEngine()
	sa := newGatedScheduler(engine, storeA)
	sb := newGatedScheduler(engine, storeB)

	errA := make(chan error, 1)
	go func() {
		_, err := sa.Run(rootA)
		errA <- err
	}()
	<-storeA.exists.entered

	if sa.State() != scheduler.Discovering {
		t.Errorf("state while discovering = %v", sa.State())
	}
	if _, err := sa.Run(rootA); !errors.Is(err, failure.ErrConcurrency) {
		t.Errorf("second Run during discovery = %v, want concurrency error", err)
	}

	if _, err := sb.Run(rootB); err != nil {
		t.Fatalf("Run(B): %v", err)
	}
	<-storeB.open.entered

	close(storeA.exists.release)
	if err := <-errA; !errors.Is(err, failure.ErrConcurrency) {
		t.Errorf("Run(A) = %v, want concurrency error", err)
	}
	if sa.State() != scheduler.Idle {
		t.Errorf("refused scheduler state = %v, want idle", sa.State())
	}
	if !engine.Running() || sb.State() != scheduler.Running {
		t.Errorf("batch B disturbed: running=%v state=%v", engine.Running(), sb.State())
	}
	if index, total := sb.Current(); index != 0 || total != 1 {
		t.Errorf("batch B current = %d of %d, want 0 of 1", index, total)
	}

	close(storeB.open.release)
	if err := engine.Wait(); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if sb.State() != scheduler.Done {
		t.Errorf("batch B state = %v, want done", sb.State())
	}
}
