package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dbsmedya/goreport/internal/logger"
)

// VerificationMethod defines how artifacts are checked against a manifest.
type VerificationMethod string

const (
	// MethodSize compares file sizes (fast)
	MethodSize VerificationMethod = "size"
	// MethodSHA256 re-hashes every file
	MethodSHA256 VerificationMethod = "sha256"
)

// VerifyResult holds the check of a single artifact.
type VerifyResult struct {
	File         string
	Method       VerificationMethod
	Expected     string
	Actual       string
	Match        bool
	ErrorMessage string
}

// VerifyStats contains overall verification statistics.
type VerifyStats struct {
	Verified int
	Passed   int
	Failed   int
	Method   VerificationMethod
	Results  []VerifyResult
}

// VerifyOutput checks the artifacts listed in dir's manifest. Unlike a
// report run it does not stop at the first mismatch, so every damaged file
// is reported.
func VerifyOutput(ctx context.Context, dir string, method VerificationMethod, log *logger.Logger) (*VerifyStats, error) {
	if method != MethodSize && method != MethodSHA256 {
		return nil, fmt.Errorf("unsupported verification method: %s", method)
	}
	if log == nil {
		log = logger.NewNop()
	}

	m, err := ReadManifest(filepath.Join(dir, ManifestFile))
	if err != nil {
		return nil, err
	}

	stats := &VerifyStats{Method: method}
	log.Infow("Starting verification", "method", method, "artifacts", len(m.Artifacts), "run", m.RunID)

	for _, a := range m.Artifacts {
		if err := ctx.Err(); err != nil {
			return stats, fmt.Errorf("verification interrupted: %w", err)
		}

		result := verifyArtifact(filepath.Join(dir, a.File), a, method)
		stats.Results = append(stats.Results, result)
		stats.Verified++
		if result.Match {
			stats.Passed++
			log.Debugw("Verification passed", "file", a.File)
		} else {
			stats.Failed++
			log.Errorw("Verification failed", "file", a.File, "reason", result.ErrorMessage)
		}
	}

	log.Infow("Verification complete", "verified", stats.Verified, "passed", stats.Passed, "failed", stats.Failed)

	if stats.Failed > 0 {
		return stats, fmt.Errorf("verification failed: %d of %d artifacts had mismatches", stats.Failed, stats.Verified)
	}
	return stats, nil
}

func verifyArtifact(path string, want Artifact, method VerificationMethod) VerifyResult {
	result := VerifyResult{File: want.File, Method: method}

	switch method {
	case MethodSize:
		result.Expected = fmt.Sprintf("%d", want.Size)
		info, err := os.Stat(path)
		if err != nil {
			result.ErrorMessage = err.Error()
			return result
		}
		result.Actual = fmt.Sprintf("%d", info.Size())

	case MethodSHA256:
		result.Expected = want.SHA256
		got, err := hashFile(path)
		if err != nil {
			result.ErrorMessage = err.Error()
			return result
		}
		result.Actual = got.SHA256
	}

	result.Match = result.Expected == result.Actual
	if !result.Match {
		result.ErrorMessage = fmt.Sprintf("expected %s, got %s", result.Expected, result.Actual)
	}
	return result
}
