package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jonathan/resume-ats/internal/config"
	"github.com/jonathan/resume-ats/internal/llm"
	"github.com/jonathan/resume-ats/internal/schemas"
	"github.com/jonathan/resume-ats/internal/types"
	bundled "github.com/jonathan/resume-ats/schemas"
)

// readResume loads a resume file, checking it against the resume schema and
// the struct validation rules
func readResume(path string) (*types.Resume, error) {
	if path == "" {
		return nil, fmt.Errorf("--resume is required")
	}
	if err := schemas.ValidateFile(bundled.Resume, path); err != nil {
		return nil, err
	}

	var resume types.Resume
	if err := readJSON(path, &resume); err != nil {
		return nil, err
	}
	if err := resume.Validate(); err != nil {
		return nil, fmt.Errorf("invalid resume %s: %w", path, err)
	}
	types.AssignIDs(&resume)
	return &resume, nil
}

// readProfile loads a job profile file
func readProfile(path string) (*types.JobProfile, error) {
	if err := schemas.ValidateFile(bundled.JobProfile, path); err != nil {
		return nil, err
	}

	var profile types.JobProfile
	if err := readJSON(path, &profile); err != nil {
		return nil, err
	}
	if err := profile.Validate(); err != nil {
		return nil, fmt.Errorf("invalid job profile %s: %w", path, err)
	}
	return &profile, nil
}

func readJSON(path string, dst any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// writeJSON writes v as indented JSON to path, or to w when path is empty
func writeJSON(w io.Writer, path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	data = append(data, '\n')

	if path == "" {
		_, err = w.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// newLLMClient builds the provider chain from the environment overlaid with
// the config file. Callers treat an error as "run without the LLM".
func newLLMClient(ctx context.Context, cfg config.Config) (*llm.ResilientClient, error) {
	settings, err := config.LLMFromEnv()
	if err != nil {
		return nil, err
	}
	settings, err = cfg.ApplyLLM(settings)
	if err != nil {
		return nil, err
	}
	return llm.NewChain(ctx, settings, logger)
}
