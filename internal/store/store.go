// Package store records simulation runs to disk as a metadata document plus
// a per-step particle state table.
package store

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/grav2d/internal/body"
	"github.com/san-kum/grav2d/internal/geom"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID         string             `json:"id"`
	Scene      string             `json:"scene"`
	Timestamp  time.Time          `json:"timestamp"`
	Seed       int64              `json:"seed"`
	Dt         float64            `json:"dt"`
	Steps      int                `json:"steps"`
	Resets     int                `json:"resets"`
	Integrator string             `json:"integrator"`
	Metrics    map[string]float64 `json:"metrics"`
}

// Recorder captures a frame of particle state after each step. It satisfies
// the driver's observer interface.
type Recorder struct {
	Every  int
	Times  []float64
	Frames [][]body.Particle
}

func (r *Recorder) OnStep(step int, t float64, particles []body.Particle) {
	if r.Every > 1 && step%r.Every != 0 {
		return
	}
	frame := make([]body.Particle, len(particles))
	copy(frame, particles)
	r.Times = append(r.Times, t)
	r.Frames = append(r.Frames, frame)
}

// Save writes a run directory holding metadata.json and states.csv and
// returns the run ID.
func (s *Store) Save(meta RunMetadata, rec *Recorder) (string, error) {
	runID := fmt.Sprintf("%s_%d", meta.Scene, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}
	meta.ID = runID
	meta.Timestamp = time.Now()

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()
	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "states.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()
	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if err := w.Write([]string{"time", "index", "x", "y", "vx", "vy", "mass", "radius"}); err != nil {
		return "", err
	}
	for f, frame := range rec.Frames {
		t := rec.Times[f]
		for i := range frame {
			p := &frame[i]
			row := []string{
				strconv.FormatFloat(t, 'g', -1, 64),
				strconv.Itoa(i),
				strconv.FormatFloat(p.Pos.X, 'g', -1, 64),
				strconv.FormatFloat(p.Pos.Y, 'g', -1, 64),
				strconv.FormatFloat(p.Vel.X, 'g', -1, 64),
				strconv.FormatFloat(p.Vel.Y, 'g', -1, 64),
				strconv.FormatFloat(p.Mass, 'g', -1, 64),
				strconv.FormatFloat(p.Radius, 'g', -1, 64),
			}
			if err := w.Write(row); err != nil {
				return "", err
			}
		}
	}
	return runID, nil
}

// Meta reads the metadata document of a stored run.
func (s *Store) Meta(runID string) (RunMetadata, error) {
	var meta RunMetadata
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return meta, err
	}
	err = json.Unmarshal(data, &meta)
	return meta, err
}

// Load reads a stored run's state table back into a recorder.
func (s *Store) Load(runID string) (*Recorder, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, "states.csv"))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	rec := &Recorder{}
	for _, row := range rows[1:] {
		vals := make([]float64, len(row))
		for i, s := range row {
			if vals[i], err = strconv.ParseFloat(s, 64); err != nil {
				return nil, fmt.Errorf("bad field %q: %w", s, err)
			}
		}
		t := vals[0]
		p := body.Particle{
			Pos:    geom.Vec2{X: vals[2], Y: vals[3]},
			Vel:    geom.Vec2{X: vals[4], Y: vals[5]},
			Mass:   vals[6],
			Radius: vals[7],
		}
		if len(rec.Times) == 0 || rec.Times[len(rec.Times)-1] != t {
			rec.Times = append(rec.Times, t)
			rec.Frames = append(rec.Frames, nil)
		}
		last := len(rec.Frames) - 1
		rec.Frames[last] = append(rec.Frames[last], p)
	}
	return rec, nil
}

// List returns the metadata of every stored run, newest last.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var runs []RunMetadata
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.baseDir, e.Name(), "metadata.json"))
		if err != nil {
			continue
		}
		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}
		runs = append(runs, meta)
	}
	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}
