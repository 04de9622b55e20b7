package rules

import "strings"

// NormalizeSkill canonicalizes a skill name for comparison: surrounding
// whitespace is dropped and the name is lowercased. Idempotent; both sides of
// any skill comparison must go through it.
func NormalizeSkill(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// NormalizeSkillSet normalizes every name and drops empties and duplicates,
// preserving first-seen order.
func NormalizeSkillSet(names []string) []string {
	if len(names) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		normalized := NormalizeSkill(name)
		if normalized == "" {
			continue
		}
		if _, ok := seen[normalized]; ok {
			continue
		}
		seen[normalized] = struct{}{}
		out = append(out, normalized)
	}
	return out
}

type MatchLabel string

const (
	MatchLabelExcellent MatchLabel = "excellent"
	MatchLabelGood      MatchLabel = "good"
	MatchLabelFair      MatchLabel = "fair"
	MatchLabelPotential MatchLabel = "potential"
)

// MatchLabelForScore buckets a [0,1] match score into the product-level
// quality labels shown in the UI.
func MatchLabelForScore(score float64) MatchLabel {
	switch {
	case score >= 0.8:
		return MatchLabelExcellent
	case score >= 0.6:
		return MatchLabelGood
	case score >= 0.4:
		return MatchLabelFair
	default:
		return MatchLabelPotential
	}
}
