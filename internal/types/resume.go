// Package types provides type definitions for structured data used throughout the resume-ats system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Basics holds the contact header of a resume
type Basics struct {
	Name     string   `json:"name" validate:"required"`
	Email    string   `json:"email,omitempty" validate:"omitempty,email"`
	Phone    string   `json:"phone,omitempty"`
	Location string   `json:"location,omitempty"`
	Links    []string `json:"links,omitempty" validate:"omitempty,dive,url"`
}

// Education represents a single education entry
type Education struct {
	Institution string `json:"institution" validate:"required"`
	Degree      string `json:"degree,omitempty"`
	Field       string `json:"field,omitempty"`
	StartDate   string `json:"startDate,omitempty"`
	EndDate     string `json:"endDate,omitempty"`
	GPA         string `json:"gpa,omitempty"`
}

// Experience is a role held at a company with its ordered bullets
type Experience struct {
	Company   string   `json:"company" validate:"required"`
	Role      string   `json:"role" validate:"required"`
	StartDate string   `json:"startDate,omitempty"`
	EndDate   string   `json:"endDate,omitempty"`
	Location  string   `json:"location,omitempty"`
	Bullets   []Bullet `json:"bullets" validate:"dive"`
}

// Skills holds the two skill containers of a resume
type Skills struct {
	LanguagesFrameworks []string `json:"languages_frameworks"`
	Tools               []string `json:"tools"`
}

// Empty reports whether both containers are empty
func (s *Skills) Empty() bool {
	return s == nil || (len(s.LanguagesFrameworks) == 0 && len(s.Tools) == 0)
}

// Project represents a side or portfolio project
type Project struct {
	Name        string `json:"name" validate:"required"`
	TechStack   string `json:"techStack,omitempty"`
	Description string `json:"description"`
}

// Resume is the parsed resume consumed by the scorer and the consolidation engine
type Resume struct {
	Basics       *Basics      `json:"basics,omitempty"`
	Summary      string       `json:"summary,omitempty"`
	Experience   []Experience `json:"experience" validate:"dive"`
	Education    []Education  `json:"education,omitempty" validate:"dive"`
	Skills       *Skills      `json:"skills,omitempty"`
	Projects     []Project    `json:"projects,omitempty" validate:"dive"`
	Achievements []string     `json:"achievements,omitempty"`
}

// Validate checks struct-level constraints (required fields, email format)
func (r *Resume) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Clone returns a deep copy of the resume
func (r *Resume) Clone() *Resume {
	if r == nil {
		return nil
	}

	out := &Resume{
		Summary:      r.Summary,
		Achievements: append([]string(nil), r.Achievements...),
		Education:    append([]Education(nil), r.Education...),
		Projects:     append([]Project(nil), r.Projects...),
	}
	if r.Basics != nil {
		basics := *r.Basics
		basics.Links = append([]string(nil), r.Basics.Links...)
		out.Basics = &basics
	}
	if r.Skills != nil {
		out.Skills = &Skills{
			LanguagesFrameworks: append([]string(nil), r.Skills.LanguagesFrameworks...),
			Tools:               append([]string(nil), r.Skills.Tools...),
		}
	}
	if r.Experience != nil {
		out.Experience = make([]Experience, len(r.Experience))
		for i, exp := range r.Experience {
			exp.Bullets = append([]Bullet(nil), exp.Bullets...)
			out.Experience[i] = exp
		}
	}
	return out
}

// ExperienceBulletCount returns the number of bullets across all experience entries
func (r *Resume) ExperienceBulletCount() int {
	total := 0
	for _, exp := range r.Experience {
		total += len(exp.Bullets)
	}
	return total
}

// ScoringTexts returns every line the scorer treats as a bullet: experience
// bullets, project descriptions, then achievements.
func (r *Resume) ScoringTexts() []string {
	texts := make([]string, 0, r.ExperienceBulletCount()+len(r.Projects)+len(r.Achievements))
	for _, exp := range r.Experience {
		texts = append(texts, BulletTexts(exp.Bullets)...)
	}
	for _, proj := range r.Projects {
		texts = append(texts, proj.Description)
	}
	texts = append(texts, r.Achievements...)
	return texts
}

// FindBullet returns the experience and bullet index holding id, or -1, -1.
func (r *Resume) FindBullet(id BulletID) (int, int) {
	for i, exp := range r.Experience {
		for j, b := range exp.Bullets {
			if b.ID == id {
				return i, j
			}
		}
	}
	return -1, -1
}

// RemoveBullet deletes the bullet with the given ID. Returns false if absent.
func (r *Resume) RemoveBullet(id BulletID) bool {
	i, j := r.FindBullet(id)
	if i < 0 {
		return false
	}
	bullets := r.Experience[i].Bullets
	r.Experience[i].Bullets = append(bullets[:j:j], bullets[j+1:]...)
	return true
}

// ReplaceBulletText swaps the text of the bullet with the given ID, keeping the ID.
func (r *Resume) ReplaceBulletText(id BulletID, text string) bool {
	i, j := r.FindBullet(id)
	if i < 0 {
		return false
	}
	r.Experience[i].Bullets[j].Text = text
	return true
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01",
	"01/2006",
	"1/2006",
	"Jan 2006",
	"January 2006",
	"Jan. 2006",
	"2006",
}

// StartTime parses StartDate. Unparseable or empty dates sort as the zero time.
func (e Experience) StartTime() time.Time {
	return ParseResumeDate(e.StartDate)
}

// ParseResumeDate parses the date formats commonly found in resume JSON.
func ParseResumeDate(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}
