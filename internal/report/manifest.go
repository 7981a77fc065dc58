package report

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// ManifestFile is written to the output directory when report.manifest is set.
const ManifestFile = "manifest.yaml"

// Manifest describes one successful run and the artifacts it produced.
type Manifest struct {
	RunID       string          `yaml:"run_id"`
	Input       string          `yaml:"input"`
	StartedAt   time.Time       `yaml:"started_at"`
	CompletedAt time.Time       `yaml:"completed_at"`
	Duration    string          `yaml:"duration"`
	Rows        int             `yaml:"rows"`
	Steps       []StepExecution `yaml:"steps"`
	Artifacts   []Artifact      `yaml:"artifacts"`
}

// StepExecution tracks the execution of a single step.
type StepExecution struct {
	Name     string `yaml:"name"`
	Output   string `yaml:"output,omitempty"`
	Duration string `yaml:"duration"`
}

// Artifact is one file written by the run.
type Artifact struct {
	File   string `yaml:"file"`
	Size   int64  `yaml:"size"`
	SHA256 string `yaml:"sha256"`
}

// NewManifest builds the manifest of result, hashing every artifact.
func NewManifest(result *Result) (*Manifest, error) {
	m := &Manifest{
		RunID:       result.RunID,
		Input:       result.Input,
		StartedAt:   result.StartedAt.UTC(),
		CompletedAt: result.CompletedAt.UTC(),
		Duration:    result.Duration.String(),
		Rows:        result.Rows,
	}

	for _, s := range result.Steps {
		m.Steps = append(m.Steps, StepExecution{
			Name:     s.Name,
			Output:   s.Output,
			Duration: s.Duration.String(),
		})
	}

	for _, path := range result.Artifacts {
		a, err := hashFile(path)
		if err != nil {
			return nil, err
		}
		m.Artifacts = append(m.Artifacts, a)
	}
	return m, nil
}

func hashFile(path string) (Artifact, error) {
	f, err := os.Open(path)
	if err != nil {
		return Artifact{}, fmt.Errorf("failed to open artifact: %w", err)
	}
	defer f.Close()

	h := sha256.New()
	n, err := io.Copy(h, f)
	if err != nil {
		return Artifact{}, fmt.Errorf("failed to hash %s: %w", path, err)
	}
	return Artifact{
		File:   filepath.Base(path),
		Size:   n,
		SHA256: hex.EncodeToString(h.Sum(nil)),
	}, nil
}

// WriteManifest writes the manifest of result to its output directory and
// returns the file path.
func WriteManifest(result *Result) (string, error) {
	m, err := NewManifest(result)
	if err != nil {
		return "", err
	}

	data, err := yaml.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("failed to marshal manifest: %w", err)
	}

	path := filepath.Join(result.OutputDir, ManifestFile)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write manifest: %w", err)
	}
	return path, nil
}

// ReadManifest loads a manifest written by WriteManifest.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	return &m, nil
}
