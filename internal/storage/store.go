package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/san-kum/slitsim/internal/bench"
	"github.com/san-kum/slitsim/internal/diffraction"
	"github.com/san-kum/slitsim/internal/export"
	"github.com/san-kum/slitsim/internal/optics"
)

const (
	metadataFile = "metadata.json"
	profileFile  = "profile.csv"
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
	Name       string             `json:"name"`
	Timestamp  time.Time          `json:"timestamp"`
	Convention string             `json:"convention"`
	Parameters optics.Parameters  `json:"parameters"`
	HalfRange  float64            `json:"half_range"`
	Samples    int                `json:"samples"`
	Probe      bench.Probe        `json:"probe"`
	FirstNull  float64            `json:"first_null"`
	Fresnel    float64            `json:"fresnel_number"`
	Metrics    map[string]float64 `json:"metrics"`
}

// Save writes the snapshot's metadata and profile under a new run directory
// and returns the run id.
func (s *Store) Save(name, convention string, snap bench.Snapshot, metrics map[string]float64) (string, error) {
	if name == "" {
		name = "run"
	}
	runID := fmt.Sprintf("%s_%s", name, uuid.NewString()[:8])
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	if metrics == nil {
		metrics = map[string]float64{}
	}
	meta := RunMetadata{
		ID:         runID,
		Name:       name,
		Timestamp:  time.Now(),
		Convention: convention,
		Parameters: snap.Parameters,
		HalfRange:  snap.Profile.Range.HalfWidth,
		Samples:    snap.Profile.Len(),
		Probe:      snap.Probe,
		FirstNull:  snap.FirstNull,
		Fresnel:    snap.Fresnel,
		Metrics:    metrics,
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, profileFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := export.WriteProfileCSV(csvFile, snap.Profile); err != nil {
		return "", err
	}

	return runID, nil
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

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func (s *Store) LoadProfile(runID string) (diffraction.Profile, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return diffraction.Profile{}, err
	}

	file, err := os.Open(filepath.Join(s.baseDir, runID, profileFile))
	if err != nil {
		return diffraction.Profile{}, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return diffraction.Profile{}, err
	}

	pr := diffraction.Profile{Range: diffraction.Symmetric(meta.HalfRange), Samples: []diffraction.Sample{}}
	for i := 1; i < len(records); i++ {
		record := records[i]
		if len(record) < 2 {
			continue
		}
		y, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}
		v, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			continue
		}
		pr.Samples = append(pr.Samples, diffraction.Sample{Position: y, Intensity: v})
	}

	return pr, nil
}
