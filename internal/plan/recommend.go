package plan

import "slices"

// Recommend picks a plan for the user's problem areas.
//
// Only the first selected area is considered. With no areas, or an area
// that maps to nothing, the plan with the most actions wins (first one on
// ties). A mapping that matches no library plan falls back to the first plan.
func (l *Library) Recommend(areas []string) Plan {
	if len(l.Plans) == 0 {
		return Plan{}
	}
	if len(areas) == 0 {
		return l.largestPlan()
	}

	mapped := l.AreaPlans[areas[0]]
	if len(mapped) == 0 {
		return l.largestPlan()
	}

	for _, p := range l.Plans {
		if slices.Contains(mapped, p.ID) {
			return p
		}
	}
	return l.Plans[0]
}

func (l *Library) largestPlan() Plan {
	best := l.Plans[0]
	for _, p := range l.Plans[1:] {
		if p.Actions > best.Actions {
			best = p
		}
	}
	return best
}
