package planning

import (
	"github.com/jonathan/resume-ats/internal/types"
)

// CapsForFill loosens the per-role caps when the rendered page is underfilled
func CapsForFill(fill float64) Caps {
	switch {
	case fill < 70:
		return Caps{Recent: 20, Older: 12}
	case fill < 85:
		return Caps{Recent: 18, Older: 10}
	case fill < 95:
		return Caps{Recent: 15, Older: 8}
	default:
		return Caps{Recent: 12, Older: 6}
	}
}

// Clamp returns a copy of resume with every role truncated to HardCaps
func Clamp(resume *types.Resume) *types.Resume {
	return ClampTo(resume, HardCaps)
}

// ClampTo returns a copy of resume with every role truncated to caps. The
// most recent role gets caps.Recent. Extra bullets are dropped from the end.
func ClampTo(resume *types.Resume, caps Caps) *types.Resume {
	out := resume.Clone()
	if out == nil {
		return nil
	}
	for rank, i := range MostRecentFirst(out.Experience) {
		limit := caps.Cap(rank)
		if len(out.Experience[i].Bullets) > limit {
			out.Experience[i].Bullets = out.Experience[i].Bullets[:limit]
		}
	}
	return out
}

// RoleLimits returns the bullet limit of each role, indexed like
// resume.Experience. A role is held to its cap by recency, lowered to
// HardCaps, and to its planned allotment when plan has a page target.
func RoleLimits(resume *types.Resume, plan types.ContentPlan, caps Caps) []int {
	if resume == nil {
		return nil
	}
	caps.Recent = min(caps.Recent, HardCaps.Recent)
	caps.Older = min(caps.Older, HardCaps.Older)

	limits := make([]int, len(resume.Experience))
	for rank, i := range MostRecentFirst(resume.Experience) {
		limit := caps.Cap(rank)
		if plan.TargetPages > 0 {
			limit = min(limit, BulletTargetForRole(plan, i, rank == 0))
		}
		limits[i] = limit
	}
	return limits
}

// Room is how many bullets fit under limits
func Room(resume *types.Resume, limits []int) int {
	if resume == nil {
		return 0
	}
	room := 0
	for i, exp := range resume.Experience {
		if i < len(limits) {
			room += max(0, limits[i]-len(exp.Bullets))
		}
	}
	return room
}

// Distribute appends new bullets to a copy of resume. Each bullet goes to the
// most recent role while it is under caps.Recent, otherwise to the first
// older role under caps.Older. Distribution stops at the first bullet that
// fits nowhere. Caps above HardCaps are lowered to it, and the result is
// clamped to HardCaps. The number of bullets added is returned.
func Distribute(resume *types.Resume, newBullets []string, caps Caps) (*types.Resume, int) {
	return DistributeWithin(resume, newBullets, RoleLimits(resume, types.ContentPlan{}, caps))
}

// DistributeWithin is Distribute with an explicit limit per role, as
// returned by RoleLimits.
func DistributeWithin(resume *types.Resume, newBullets []string, limits []int) (*types.Resume, int) {
	out := resume.Clone()
	if out == nil || len(out.Experience) == 0 {
		return out, 0
	}

	order := MostRecentFirst(out.Experience)
	added := 0
	for _, text := range newBullets {
		target := -1
		for _, i := range order {
			if i < len(limits) && len(out.Experience[i].Bullets) < limits[i] {
				target = i
				break
			}
		}
		if target < 0 {
			break
		}
		out.Experience[target].Bullets = append(out.Experience[target].Bullets, types.NewBullet(text))
		added++
	}

	types.AssignIDs(out)
	return Clamp(out), added
}
