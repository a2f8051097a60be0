// Package planning computes content plans: how many pages a resume should
// target, how many bullets fit, and how they are split across roles.
package planning

import (
	"sort"

	"github.com/jonathan/resume-ats/internal/types"
)

// A4 page geometry, in millimetres
const (
	PageHeight       = 297.0
	PageMargin       = 15.0
	LineHeight       = 4.8
	SectionHeader    = 10.0
	FixedHeader      = 25.0
	LinesPerBullet   = 2.5
	AvailableHeight  = PageHeight - 2*PageMargin
	BulletHeight     = LinesPerBullet * LineHeight
	summaryHeight    = 10.0
	estimatorSlack   = 80.0
	roundUpThreshold = 0.8
)

// Caps bound how many bullets a role may hold. Recent applies to the most
// recent role, Older to every other role.
type Caps struct {
	Recent int `json:"recent"`
	Older  int `json:"older"`
}

// Cap returns the cap for the role at position rank in most-recent-first order
func (c Caps) Cap(rank int) int {
	if rank == 0 {
		return c.Recent
	}
	return c.Older
}

var (
	// DefaultCaps is the conservative per-role allotment cap
	DefaultCaps = Caps{Recent: 10, Older: 6}
	// HardCaps is the ceiling no role may exceed, whatever a generator proposes
	HardCaps = Caps{Recent: 20, Older: 12}
)

// Options control Plan. Zero values take the defaults.
type Options struct {
	// TargetPages forces the page count when 1 or more
	TargetPages int
	Caps        Caps
}

// Plan computes the content plan for resume
func Plan(resume *types.Resume, opts Options) types.ContentPlan {
	if resume == nil {
		resume = &types.Resume{}
	}
	caps := opts.Caps
	if caps.Recent <= 0 || caps.Older <= 0 {
		caps = DefaultCaps
	}

	pages := opts.TargetPages
	if pages <= 0 {
		pages = OptimalPages(resume)
	}

	budget := BulletBudget(pages, CountSections(resume))
	allotments := allot(resume, budget, caps)

	total := 0
	for _, a := range allotments {
		total += a.Bullets
	}

	includeSummary := pages >= 2 && len(resume.Experience) > 0
	includeProjects := len(resume.Projects) > 0
	includeAchievements := len(resume.Achievements) > 0

	priority := []string{"experience", "skills", "education"}
	if includeProjects {
		priority = append(priority, "projects")
	}
	if includeAchievements {
		priority = append(priority, "achievements")
	}
	if includeSummary {
		priority = append([]string{"summary"}, priority...)
	}

	return types.ContentPlan{
		TargetPages:         pages,
		MaxBullets:          budget,
		TotalBullets:        total,
		Allotments:          allotments,
		IncludeSummary:      includeSummary,
		IncludeProjects:     includeProjects,
		IncludeAchievements: includeAchievements,
		SectionsPriority:    priority,
	}
}

// OptimalPages picks 2 pages for deep histories and 1 otherwise
func OptimalPages(resume *types.Resume) int {
	exps := len(resume.Experience)
	switch {
	case exps >= 3 || resume.ExperienceBulletCount() >= 12:
		return 2
	case exps >= 2 && len(resume.Projects) >= 2:
		return 2
	default:
		return 1
	}
}

// CountSections counts the non-empty sections that get a header
func CountSections(resume *types.Resume) int {
	count := 0
	for _, present := range []bool{
		resume.Summary != "",
		len(resume.Experience) > 0,
		!resume.Skills.Empty(),
		len(resume.Education) > 0,
		len(resume.Projects) > 0,
		len(resume.Achievements) > 0,
	} {
		if present {
			count++
		}
	}
	return count
}

// BulletBudget is the number of bullets that fit on pages after the fixed
// header and section headers, never negative
func BulletBudget(pages, sections int) int {
	remaining := float64(pages)*AvailableHeight - FixedHeader - float64(sections)*SectionHeader
	return max(0, int(remaining/BulletHeight))
}

// allot distributes budget most recent role first, each entry taking
// min(cap, remaining) until the budget runs out
func allot(resume *types.Resume, budget int, caps Caps) []types.Allotment {
	var out []types.Allotment
	remaining := budget
	for rank, i := range MostRecentFirst(resume.Experience) {
		if remaining <= 0 {
			break
		}
		n := min(caps.Cap(rank), remaining)
		out = append(out, types.Allotment{
			ExperienceIndex: i,
			Company:         resume.Experience[i].Company,
			Bullets:         n,
		})
		remaining -= n
	}
	return out
}

// MostRecentFirst returns experience indices by start date descending,
// stable on list order. Undated roles sort last.
func MostRecentFirst(exps []types.Experience) []int {
	order := make([]int, len(exps))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return exps[order[a]].StartTime().After(exps[order[b]].StartTime())
	})
	return order
}

// AdjustForDensity returns a copy of plan nudged toward target density.
// Sparse pages add one bullet per role; dense pages remove one from every
// role after the second, never going below one.
func AdjustForDensity(plan types.ContentPlan, density, target float64) types.ContentPlan {
	adjusted := plan
	adjusted.Allotments = append([]types.Allotment(nil), plan.Allotments...)
	adjusted.SectionsPriority = append([]string(nil), plan.SectionsPriority...)

	switch {
	case density < target-0.10:
		for i := range adjusted.Allotments {
			adjusted.Allotments[i].Bullets++
		}
	case density > target+0.05:
		for i := 2; i < len(adjusted.Allotments); i++ {
			if adjusted.Allotments[i].Bullets > 1 {
				adjusted.Allotments[i].Bullets--
			}
		}
	default:
		return adjusted
	}

	total := 0
	for _, a := range adjusted.Allotments {
		total += a.Bullets
	}
	adjusted.TotalBullets = total
	return adjusted
}

// BulletTargetForRole returns the planned bullet count for an experience
// index. Roles missing from the plan get 3 when most recent, else 1.
func BulletTargetForRole(plan types.ContentPlan, index int, mostRecent bool) int {
	fallback := 1
	if mostRecent {
		fallback = 3
	}
	return plan.AllotmentFor(index, fallback)
}

// EstimatePageCount estimates rendered pages from content volume. A partial
// page counts only past 80% full.
func EstimatePageCount(bullets, sections int, includeSummary bool) int {
	total := float64(bullets)*BulletHeight + float64(sections)*SectionHeader + FixedHeader
	if includeSummary {
		total += summaryHeight
	}

	pages := total / (AvailableHeight - estimatorSlack)
	whole := int(pages)
	if pages-float64(whole) > roundUpThreshold {
		whole++
	}
	return max(1, whole)
}

// EstimateFills estimates how full each rendered page is, in percent, from
// content volume. Every page but the last is full.
func EstimateFills(resume *types.Resume) []float64 {
	if resume == nil {
		return nil
	}
	height := FixedHeader +
		float64(CountSections(resume))*SectionHeader +
		float64(resume.ExperienceBulletCount())*BulletHeight
	if resume.Summary != "" {
		height += summaryHeight
	}

	var fills []float64
	for height > AvailableHeight {
		fills = append(fills, 100)
		height -= AvailableHeight
	}
	return append(fills, height/AvailableHeight*100)
}
