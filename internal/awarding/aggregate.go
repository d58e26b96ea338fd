package awarding

// CategoryCapLimit is the ceiling applied to a category's raw point sum when
// the category is configured with a score cap.
const CategoryCapLimit = 100

// CategoryRule is the slice of a category's configuration the aggregator
// needs: its weight percentage and whether the cap applies.
type CategoryRule struct {
	ID     string
	Name   string
	Ratio  int
	HasCap bool
}

// ScoredMaterial is one resolved material entry as seen by the aggregator.
type ScoredMaterial struct {
	CategoryID string
	Score      int
}

// CategoryScore is the per-category roll-up exposed on application detail,
// ranking rows and the export workbook.
type CategoryScore struct {
	CategoryID   string `json:"categoryId"`
	CategoryName string `json:"categoryName"`
	RawSum       int    `json:"rawScore"`
	EffectiveSum int    `json:"effectiveScore"`
	Ratio        int    `json:"ratio"`
	HasCap       bool   `json:"hasCap"`
	Contribution Score  `json:"contribution"`
}

type Summary struct {
	PerCategory []CategoryScore `json:"perCategory"`
	Total       Score           `json:"total"`
}

// Aggregate rolls resolved material scores up into per-category scores and
// the application total. Categories are reported in rule order; rules with no
// materials are omitted. This is the single scoring roll-up in the codebase:
// the value persisted on save and the values shown by detail/ranking must
// come from here so they can never disagree.
func Aggregate(materials []ScoredMaterial, rules []CategoryRule) Summary {
	rawSums := make(map[string]int, len(rules))
	for _, m := range materials {
		rawSums[m.CategoryID] += m.Score
	}

	summary := Summary{PerCategory: make([]CategoryScore, 0, len(rawSums))}
	for _, rule := range rules {
		raw, ok := rawSums[rule.ID]
		if !ok {
			continue
		}

		effective := raw
		if rule.HasCap && effective > CategoryCapLimit {
			effective = CategoryCapLimit
		}

		// effective * ratio is (points * percent), which is exactly
		// hundredths of a point.
		contribution := Score(int64(effective) * int64(rule.Ratio))

		summary.PerCategory = append(summary.PerCategory, CategoryScore{
			CategoryID:   rule.ID,
			CategoryName: rule.Name,
			RawSum:       raw,
			EffectiveSum: effective,
			Ratio:        rule.Ratio,
			HasCap:       rule.HasCap,
			Contribution: contribution,
		})
		summary.Total += contribution
	}

	return summary
}
