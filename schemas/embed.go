// Package schemas holds the JSON Schemas for the documents the CLI and the
// API accept.
package schemas

import "embed"

// Names of the bundled schemas
const (
	Resume           = "resume.schema.json"
	JobProfile       = "job_profile.schema.json"
	ScoreRecord      = "score_record.schema.json"
	GenerationConfig = "generation_config.schema.json"
)

//go:embed *.schema.json
var files embed.FS

// Read returns the named bundled schema
func Read(name string) ([]byte, error) {
	return files.ReadFile(name)
}

// Names lists the bundled schemas
func Names() []string {
	return []string{Resume, JobProfile, ScoreRecord, GenerationConfig}
}
