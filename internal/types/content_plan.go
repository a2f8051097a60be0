// Package types provides type definitions for structured data used throughout the resume-ats system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// Allotment is the bullet quota granted to one experience entry
type Allotment struct {
	ExperienceIndex int    `json:"experience_index"`
	Company         string `json:"company"`
	Bullets         int    `json:"bullets"`
}

// ContentPlan describes how much content fits the target page count
type ContentPlan struct {
	TargetPages         int         `json:"target_pages"`
	MaxBullets          int         `json:"max_bullets"`
	TotalBullets        int         `json:"total_bullets"`
	Allotments          []Allotment `json:"allotments"`
	IncludeSummary      bool        `json:"include_summary"`
	IncludeProjects     bool        `json:"include_projects"`
	IncludeAchievements bool        `json:"include_achievements"`
	SectionsPriority    []string    `json:"sections_priority"`
}

// AllotmentFor returns the quota for an experience index, or fallback when absent
func (p *ContentPlan) AllotmentFor(index, fallback int) int {
	for _, a := range p.Allotments {
		if a.ExperienceIndex == index {
			return a.Bullets
		}
	}
	return fallback
}
