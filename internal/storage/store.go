package storage

import (
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync/atomic"
	"time"

	"github.com/san-kum/thermokit/internal/thermo"
)

var ErrRunNotFound = errors.New("storage: run not found")

// Store keeps one directory per run under baseDir.
type Store struct {
	baseDir string
	seq     atomic.Uint64
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID          string        `json:"id"`
	Calculation string        `json:"calculation"`
	EOS         string        `json:"eos"`
	Components  []string      `json:"components"`
	Timestamp   time.Time     `json:"timestamp"`
	Params      thermo.Params `json:"params,omitempty"`
	Error       string        `json:"error,omitempty"`
}

// Save writes meta and result into a fresh run directory and returns its
// ID. meta.ID and meta.Timestamp are filled in. A nil result is allowed
// for failed runs. An existing run directory is never reused, so several
// processes may share baseDir.
func (s *Store) Save(meta RunMetadata, result thermo.Result) (string, error) {
	if err := s.Init(); err != nil {
		return "", err
	}

	now := time.Now()
	prefix := fmt.Sprintf("%s_%d", runName(meta.Calculation), now.Unix())
	var runID, runDir string
	for {
		runID = fmt.Sprintf("%s_%d", prefix, s.seq.Add(1))
		runDir = filepath.Join(s.baseDir, runID)
		err := os.Mkdir(runDir, 0755)
		if err == nil {
			break
		}
		if !errors.Is(err, os.ErrExist) {
			return "", err
		}
	}

	meta.ID = runID
	meta.Timestamp = now

	if err := writeJSON(filepath.Join(runDir, "metadata.json"), meta); err != nil {
		return "", err
	}
	if result != nil {
		if err := writeJSON(filepath.Join(runDir, "result.json"), result); err != nil {
			return "", err
		}
	}

	return runID, nil
}

// runName maps a calculation name onto a single path element.
func runName(calc string) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			return r
		}
		return '_'
	}, calc)
	if name == "" {
		return "run"
	}
	return name
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return err
	}
	return f.Close()
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	slices.SortFunc(runs, func(a, b RunMetadata) int {
		if c := a.Timestamp.Compare(b.Timestamp); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := s.read(runID, "metadata.json")
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

// LoadResult returns the stored result of a run. Numbers come back as
// float64 and lists as []any; thermo.Params getters and NewTable accept
// both forms.
func (s *Store) LoadResult(runID string) (thermo.Result, error) {
	data, err := s.read(runID, "result.json")
	if err != nil {
		return nil, err
	}

	var result thermo.Result
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return result, nil
}

func (s *Store) read(runID, name string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s (%s)", ErrRunNotFound, runID, name)
	}
	return data, err
}
