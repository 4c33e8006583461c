package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

const (
	// DefaultDirName is the per-working-directory state area.
	DefaultDirName = ".session-state"

	// DefaultMaxAge is how long snapshots are kept before pruning.
	DefaultMaxAge = 7 * 24 * time.Hour

	// idLayout yields lexicographically sortable UTC-second ids.
	idLayout = "2006-01-02T15-04-05"
)

// ErrNotFound is returned by Load when no snapshot matches.
var ErrNotFound = errors.New("state: snapshot not found")

// Store persists session snapshots as one JSON file per save. Writes are
// append-only: a snapshot file is immutable once written, so concurrent
// saves from different processes cannot corrupt each other.
//
// Save and List prune expired snapshots opportunistically; there is no
// background sweep.
type Store struct {
	mu     sync.Mutex
	dir    string
	maxAge time.Duration
	now    func() time.Time // injectable for deterministic id/expiry tests

	lastBase string // second-resolution id base of the previous save
	seq      int    // disambiguating suffix counter within lastBase
}

// NewStore creates a store rooted at dir. maxAge <= 0 selects DefaultMaxAge.
// The directory is created lazily on first save.
func NewStore(dir string, maxAge time.Duration) *Store {
	if dir == "" {
		dir = DefaultDirName
	}
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	return &Store{dir: dir, maxAge: maxAge, now: time.Now}
}

// Dir returns the store's root directory.
func (s *Store) Dir() string { return s.dir }

// Save validates the input, assigns an id, and writes the snapshot as a
// self-contained JSON record. It never overwrites: same-second saves within
// this process get a monotonically increasing "-NN" suffix, which keeps ids
// both unique and lexicographically ordered.
func (s *Store) Save(in Input) (Snapshot, error) {
	if err := in.Validate(); err != nil {
		return Snapshot{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return Snapshot{}, fmt.Errorf("state: create %s: %w", s.dir, err)
	}

	now := s.now().UTC()
	snap := Snapshot{
		Version:      SchemaVersion,
		ID:           s.nextID(now),
		CreatedAt:    now,
		Summary:      in.Summary,
		Accomplished: append([]string(nil), in.Accomplished...),
		Remaining:    append([]string(nil), in.Remaining...),
		Decisions:    append([]string(nil), in.Decisions...),
		SessionID:    in.SessionID,
		Freeform:     in.Freeform,
	}

	if err := s.writeLocked(&snap); err != nil {
		return Snapshot{}, err
	}

	s.pruneLocked(now)
	return snap, nil
}

// writeLocked serialises the snapshot to <id>.json, re-deriving the id when
// another process already claimed it within the same second. Callers hold
// s.mu.
func (s *Store) writeLocked(snap *Snapshot) error {
	for {
		data, err := json.MarshalIndent(snap, "", "  ")
		if err != nil {
			return fmt.Errorf("state: encode snapshot: %w", err)
		}

		path := filepath.Join(s.dir, snap.ID+".json")
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, os.ErrExist) {
			snap.ID = s.nextID(snap.CreatedAt)
			continue
		}
		if err != nil {
			return fmt.Errorf("state: create %s: %w", path, err)
		}
		_, werr := f.Write(append(data, '\n'))
		cerr := f.Close()
		if werr != nil {
			return fmt.Errorf("state: write %s: %w", path, werr)
		}
		if cerr != nil {
			return fmt.Errorf("state: close %s: %w", path, cerr)
		}
		return nil
	}
}

// nextID derives a sortable id from now, disambiguating same-second
// collisions within this process. Callers hold s.mu.
func (s *Store) nextID(now time.Time) string {
	base := now.Format(idLayout)
	if base == s.lastBase {
		s.seq++
		return fmt.Sprintf("%s-%02d", base, s.seq)
	}
	s.lastBase = base
	s.seq = 0
	return base
}

// List returns metadata for all snapshots, newest first. A missing or empty
// directory yields an empty slice, not an error. Unreadable files are logged
// and skipped.
func (s *Store) List() ([]Meta, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked(s.now().UTC())
	return s.listLocked()
}

func (s *Store) listLocked() ([]Meta, error) {
	ids, err := s.idsLocked()
	if err != nil {
		return nil, err
	}

	metas := make([]Meta, 0, len(ids))
	for _, id := range ids {
		snap, err := s.readLocked(id)
		if err != nil {
			log.Printf("[State] skipping unreadable snapshot %s: %v", id, err)
			continue
		}
		metas = append(metas, snap.Meta())
	}
	// ids are sortable timestamps; newest first.
	sort.Slice(metas, func(i, j int) bool { return metas[i].ID > metas[j].ID })
	return metas, nil
}

// idsLocked returns snapshot ids in no particular order. Missing directory
// yields nil, nil.
func (s *Store) idsLocked() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("state: read %s: %w", s.dir, err)
	}

	var ids []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ".json"))
	}
	return ids, nil
}

// Load reads one snapshot. An empty id loads the newest. Returns ErrNotFound
// when no snapshot exists or the id does not resolve.
func (s *Store) Load(id string) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id != "" && !validID(id) {
		return Snapshot{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if id == "" {
		ids, err := s.idsLocked()
		if err != nil {
			return Snapshot{}, err
		}
		if len(ids) == 0 {
			return Snapshot{}, ErrNotFound
		}
		sort.Strings(ids)
		id = ids[len(ids)-1]
	}
	return s.readLocked(id)
}

// validID reports whether id has the generated snapshot id shape. Load takes
// caller-supplied ids, so anything that could resolve outside the state
// directory (separators, parent references) must never reach the filesystem.
func validID(id string) bool {
	if strings.ContainsAny(id, `/\`) || strings.Contains(id, "..") {
		return false
	}
	if len(id) < len(idLayout) {
		return false
	}
	_, err := time.Parse(idLayout, id[:len(idLayout)])
	return err == nil
}

func (s *Store) readLocked(id string) (Snapshot, error) {
	path := filepath.Join(s.dir, id+".json")
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Snapshot{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("state: read %s: %w", path, err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("state: parse %s: %w", path, err)
	}
	return snap, nil
}

// Prune removes snapshots older than the store's max age and returns the
// count removed. The newest snapshot always survives, even when expired;
// this guards against clock skew wiping all history. Per-file deletion
// failures are logged and skipped, never fatal.
func (s *Store) Prune() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pruneLocked(s.now().UTC())
}

func (s *Store) pruneLocked(now time.Time) int {
	ids, err := s.idsLocked()
	if err != nil {
		log.Printf("[State] prune: %v", err)
		return 0
	}
	if len(ids) <= 1 {
		return 0
	}

	sort.Strings(ids)
	newest := ids[len(ids)-1]
	cutoff := now.Add(-s.maxAge)

	pruned := 0
	for _, id := range ids {
		if id == newest {
			continue
		}
		created, ok := s.createdAt(id)
		if !ok || !created.Before(cutoff) {
			continue
		}
		path := filepath.Join(s.dir, id+".json")
		if err := os.Remove(path); err != nil {
			log.Printf("[State] prune: remove %s: %v", path, err)
			continue
		}
		pruned++
	}
	return pruned
}

// createdAt derives a snapshot's creation time from its id, falling back to
// the file mtime for ids that don't parse (foreign files in the directory).
func (s *Store) createdAt(id string) (time.Time, bool) {
	base := id
	if len(base) > len(idLayout) {
		base = base[:len(idLayout)]
	}
	if t, err := time.Parse(idLayout, base); err == nil {
		return t, true
	}
	info, err := os.Stat(filepath.Join(s.dir, id+".json"))
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime().UTC(), true
}
