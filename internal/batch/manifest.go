// Package batch runs many independent alignments in parallel. Each job owns
// its Driver, so no search state is shared between jobs.
package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	amerrors "github.com/Aman-CERP/amanalign/internal/errors"
	"github.com/Aman-CERP/amanalign/internal/scoring"
)

// Job is one alignment: a reference file, a hypothesis file and the
// output path for the aligned hypothesis.
type Job struct {
	Name       string `yaml:"name"`
	Reference  string `yaml:"reference"`
	Hypothesis string `yaml:"hypothesis"`
	Output     string `yaml:"output"`

	// Optimizer overrides search.optimizer for this job.
	Optimizer string `yaml:"optimizer,omitempty"`
	// BeamSize overrides search.beam_size for this job when positive.
	BeamSize int `yaml:"beam_size,omitempty"`
}

// Manifest lists batch jobs.
//
//	jobs:
//	  - name: episode1
//	    reference: ref/ep1.txt
//	    hypothesis: asr/ep1.txt
//	    output: aligned/ep1.txt
type Manifest struct {
	Version int   `yaml:"version"`
	Jobs    []Job `yaml:"jobs"`
}

// LoadManifest reads a YAML manifest. Relative paths are resolved against
// the manifest's directory and unnamed jobs are named after their
// reference file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, amerrors.New(amerrors.ErrCodeFileNotFound, "manifest not found: "+path, err)
		}
		return nil, amerrors.IOError("failed to read manifest "+path, err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, amerrors.New(amerrors.ErrCodeInvalidInput, "failed to parse manifest "+path, err).
			WithDetail("path", path)
	}

	base := filepath.Dir(path)
	for i := range m.Jobs {
		j := &m.Jobs[i]
		if err := j.validate(); err != nil {
			return nil, amerrors.New(amerrors.ErrCodeInvalidInput,
				fmt.Sprintf("invalid job %d in %s", i+1, path), err).
				WithSuggestion("Each job needs reference, hypothesis and output paths")
		}
		j.Reference = resolve(base, j.Reference)
		j.Hypothesis = resolve(base, j.Hypothesis)
		j.Output = resolve(base, j.Output)
		if j.Name == "" {
			j.Name = strings.TrimSuffix(filepath.Base(j.Reference), filepath.Ext(j.Reference))
		}
	}
	return &m, nil
}

func (j Job) validate() error {
	switch {
	case j.Reference == "":
		return fmt.Errorf("missing reference")
	case j.Hypothesis == "":
		return fmt.Errorf("missing hypothesis")
	case j.Output == "":
		return fmt.Errorf("missing output")
	}
	if j.Optimizer != "" {
		if _, err := scoring.ParsePolicy(j.Optimizer); err != nil {
			return err
		}
	}
	return nil
}

func resolve(base, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}
