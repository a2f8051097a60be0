// Package types provides type definitions for structured data used throughout the resume-ats system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// SeniorityLevel is the seniority a job posting targets
type SeniorityLevel string

// Seniority levels recognized by the analyzer
const (
	SeniorityEntry     SeniorityLevel = "entry"
	SeniorityJunior    SeniorityLevel = "junior"
	SeniorityMid       SeniorityLevel = "mid"
	SenioritySenior    SeniorityLevel = "senior"
	SeniorityStaff     SeniorityLevel = "staff"
	SeniorityPrincipal SeniorityLevel = "principal"
	SeniorityDirector  SeniorityLevel = "director"
)

var seniorityLevels = []SeniorityLevel{
	SeniorityEntry,
	SeniorityJunior,
	SeniorityMid,
	SenioritySenior,
	SeniorityStaff,
	SeniorityPrincipal,
	SeniorityDirector,
}

// ParseSeniorityLevel maps free text ("Senior", "sr", "Staff Engineer") to a level.
func ParseSeniorityLevel(value string) (SeniorityLevel, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	for _, level := range seniorityLevels {
		if v == string(level) {
			return level, nil
		}
	}

	switch {
	case strings.Contains(v, "principal"):
		return SeniorityPrincipal, nil
	case strings.Contains(v, "director") || strings.Contains(v, "head of"):
		return SeniorityDirector, nil
	case strings.Contains(v, "staff"):
		return SeniorityStaff, nil
	case strings.Contains(v, "senior") || strings.HasPrefix(v, "sr"):
		return SenioritySenior, nil
	case strings.Contains(v, "junior") || strings.HasPrefix(v, "jr"):
		return SeniorityJunior, nil
	case strings.Contains(v, "entry") || strings.Contains(v, "intern") || strings.Contains(v, "graduate"):
		return SeniorityEntry, nil
	case strings.Contains(v, "mid"):
		return SeniorityMid, nil
	}
	return "", fmt.Errorf("unknown seniority level %q", value)
}

// JobProfile is the job requirement profile consumed read-only by the scorer
type JobProfile struct {
	RoleTitle      string         `json:"role_title" validate:"required"`
	Company        string         `json:"company,omitempty"`
	SeniorityLevel SeniorityLevel `json:"seniority_level" validate:"omitempty,oneof=entry junior mid senior staff principal director"`
	YearsRequired  int            `json:"years_experience_required,omitempty" validate:"gte=0,lte=50"`
	KeySkills      []string       `json:"key_skills"`
	NiceToHave     []string       `json:"nice_to_have,omitempty"`
	FocusAreas     []string       `json:"role_focus_areas,omitempty"`
}

// Validate checks struct-level constraints
func (p *JobProfile) Validate() error {
	validate := validator.New()
	return validate.Struct(p)
}
