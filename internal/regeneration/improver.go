package regeneration

import (
	"context"
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jonathan/resume-ats/internal/llm"
	"github.com/jonathan/resume-ats/internal/metrics"
	"github.com/jonathan/resume-ats/internal/pagefill"
	"github.com/jonathan/resume-ats/internal/planning"
	"github.com/jonathan/resume-ats/internal/prompts"
	"github.com/jonathan/resume-ats/internal/skills"
	"github.com/jonathan/resume-ats/internal/types"
)

// minFuzzyMatch is the shortest normalized text matched by containment
const minFuzzyMatch = 10

// LLMImprover asks the LLM for new bullets and replacements for weak ones,
// then merges missing keywords into the skills section.
type LLMImprover struct {
	client llm.Client
	logger zerolog.Logger
}

// NewLLMImprover creates an improver on client
func NewLLMImprover(client llm.Client, logger zerolog.Logger) *LLMImprover {
	return &LLMImprover{client: client, logger: logger}
}

type improvement struct {
	ImprovedBullets []string          `json:"improved_bullets"`
	ReplacementMap  map[string]string `json:"replacement_map"`
}

// Improve implements Improver
func (m *LLMImprover) Improve(ctx context.Context, req ImproveRequest) (*types.Resume, ImproveReport, error) {
	count := requestedBullets(req)

	responseText, err := m.client.GenerateJSON(ctx, buildImprovePrompt(req, count), llm.TierAdvanced)
	if err != nil {
		return nil, ImproveReport{}, &ImproveError{Message: "failed to generate improvements", Cause: err}
	}

	var imp improvement
	if err := json.Unmarshal([]byte(llm.CleanJSONBlock(responseText)), &imp); err != nil {
		return nil, ImproveReport{}, &ImproveError{Message: "failed to parse improvements", Cause: err}
	}

	out, report := ApplyImprovements(req.Resume, req.Profile, req.Score, req.Fill, req.Plan, imp.ImprovedBullets, imp.ReplacementMap)

	m.logger.Debug().
		Int("requested", count).
		Int("returned", len(imp.ImprovedBullets)).
		Int("added", report.Added).
		Int("replaced", report.Replaced).
		Msg("applied LLM improvements")
	return out, report, nil
}

// requestedBullets is how many new bullets to ask for: the page-fill
// estimate, bounded by the room the content plan leaves
func requestedBullets(req ImproveRequest) int {
	count := pagefill.ImprovementBulletCount(&req.Fill)
	if req.Plan.TargetPages > 0 {
		room := planning.Room(req.Resume, planning.RoleLimits(req.Resume, req.Plan, planning.CapsForFill(lastPageFill(req.Fill))))
		count = min(count, max(1, room))
	}
	return count
}

func lastPageFill(fill pagefill.Report) float64 {
	if fill.Pages > 0 {
		return fill.LastPageFill
	}
	return pagefill.TargetFill
}

// ApplyImprovements returns a copy of resume with replacements swapped in,
// missing keywords merged into skills, and new bullets distributed. New
// bullets are sanitized and any that repeat an existing bullet are dropped.
// Each role is held to the smaller of its page-fill cap and, when plan has
// a page target, its planned allotment.
func ApplyImprovements(
	resume *types.Resume,
	profile *types.JobProfile,
	score types.ScoreRecord,
	fill pagefill.Report,
	plan types.ContentPlan,
	newBullets []string,
	replacements map[string]string,
) (*types.Resume, ImproveReport) {
	out := resume.Clone()
	var report ImproveReport
	if out == nil {
		return nil, report
	}

	report.Replaced = applyReplacements(out, replacements)

	if len(score.MissingKeywords) > 0 {
		merged, added := skills.MergeKeywords(out.Skills, score.MissingKeywords)
		report.KeywordsAdded = added

		preserve := append(append([]string(nil), score.MissingKeywords...), profileSkills(profile)...)
		out.Skills = skills.Clean(merged, preserve)
	}

	var texts []string
	for _, b := range newBullets {
		if b = cleanBullet(b); b != "" {
			texts = append(texts, b)
		}
	}
	fresh := freshBullets(out, texts)
	report.Duplicates = len(texts) - len(fresh)

	limits := planning.RoleLimits(out, plan, planning.CapsForFill(lastPageFill(fill)))
	out, report.Added = planning.DistributeWithin(out, fresh, limits)
	return out, report
}

// freshBullets returns the texts that repeat neither an existing bullet of r
// nor an earlier text
func freshBullets(r *types.Resume, texts []string) []string {
	var existing []string
	for _, exp := range r.Experience {
		existing = append(existing, types.BulletTexts(exp.Bullets)...)
	}
	existing = metrics.Dedupe(existing)
	all := metrics.Dedupe(append(existing, texts...))
	return all[len(existing):]
}

// applyReplacements swaps each bullet for the first replacement whose key
// matches it, comparing keys in sorted order. Returns the number replaced.
func applyReplacements(r *types.Resume, replacements map[string]string) int {
	if len(replacements) == 0 {
		return 0
	}
	keys := make([]string, 0, len(replacements))
	for k := range replacements {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	replaced := 0
	for i := range r.Experience {
		for j := range r.Experience[i].Bullets {
			bullet := &r.Experience[i].Bullets[j]
			current := normalizeBullet(bullet.Text)
			for _, weak := range keys {
				better := cleanBullet(replacements[weak])
				if better != "" && bulletsMatch(normalizeBullet(weak), current) {
					bullet.Text = better
					replaced++
					break
				}
			}
		}
	}
	return replaced
}

// bulletsMatch reports whether either normalized text contains the other.
// Texts of minFuzzyMatch characters or fewer only match exactly.
func bulletsMatch(weak, bullet string) bool {
	if weak == "" || bullet == "" {
		return false
	}
	if weak == bullet {
		return true
	}
	return (len(weak) > minFuzzyMatch && strings.Contains(bullet, weak)) ||
		(len(bullet) > minFuzzyMatch && strings.Contains(weak, bullet))
}

func normalizeBullet(s string) string {
	return strings.Trim(strings.TrimSpace(strings.ToLower(s)), `."`)
}

// cleanBullet strips list markers, markdown emphasis and long asides from
// generated text
func cleanBullet(s string) string {
	return metrics.Sanitize(strings.ReplaceAll(s, "**", ""))
}

func profileSkills(p *types.JobProfile) []string {
	if p == nil {
		return nil
	}
	return append(append([]string(nil), p.KeySkills...), p.NiceToHave...)
}

func buildImprovePrompt(req ImproveRequest, count int) string {
	template := prompts.MustGet("improving.json", "improve-resume")

	role, seniority := "", ""
	if req.Profile != nil {
		role = req.Profile.RoleTitle
		seniority = string(req.Profile.SeniorityLevel)
	}

	var current []string
	if req.Resume != nil {
		for _, exp := range req.Resume.Experience {
			current = append(current, exp.Role+" at "+exp.Company+":")
			for _, b := range exp.Bullets {
				current = append(current, "- "+b.Text)
			}
		}
	}

	variation := ""
	if req.ForceVariation && len(req.Variations) > 0 {
		variation = "7. The last attempts scored the same. Change approach:\n" + bulletList(req.Variations)
	}

	return prompts.Format(template, map[string]string{
		"Overall":         strconv.Itoa(req.Score.Overall),
		"KeywordMatch":    strconv.Itoa(req.Score.KeywordMatch),
		"MissingKeywords": orNone(strings.Join(req.Score.MissingKeywords, ", ")),
		"RoleTitle":       role,
		"Seniority":       seniority,
		"CurrentBullets":  strings.Join(current, "\n"),
		"Shortcomings":    orNone(bulletList(req.Score.Shortcomings)),
		"WeakBullets":     orNone(bulletList(req.Score.WeakBullets)),
		"BulletCount":     strconv.Itoa(count),
		"Variation":       variation,
	})
}

func bulletList(items []string) string {
	if len(items) == 0 {
		return ""
	}
	return "- " + strings.Join(items, "\n- ")
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
