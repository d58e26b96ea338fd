package awarding

import (
	"testing"
)

func TestAggregateWeightsByRatio(t *testing.T) {
	rules := []CategoryRule{
		{ID: "academic", Name: "Academic", Ratio: 60},
		{ID: "sports", Name: "Sports", Ratio: 40},
	}
	materials := []ScoredMaterial{
		{CategoryID: "academic", Score: 50},
		{CategoryID: "academic", Score: 30},
		{CategoryID: "sports", Score: 10},
	}

	summary := Aggregate(materials, rules)

	if len(summary.PerCategory) != 2 {
		t.Fatalf("expected 2 category scores, got %d", len(summary.PerCategory))
	}

	academic := summary.PerCategory[0]
	if academic.RawSum != 80 || academic.EffectiveSum != 80 {
		t.Errorf("academic sums = %d/%d, expected 80/80", academic.RawSum, academic.EffectiveSum)
	}
	// 80 * 60% = 48.00
	if academic.Contribution != Score(4800) {
		t.Errorf("academic contribution = %s, expected 48.00", academic.Contribution)
	}

	sports := summary.PerCategory[1]
	// 10 * 40% = 4.00
	if sports.Contribution != Score(400) {
		t.Errorf("sports contribution = %s, expected 4.00", sports.Contribution)
	}

	if summary.Total != Score(5200) {
		t.Errorf("total = %s, expected 52.00", summary.Total)
	}
}

func TestAggregateAppliesCap(t *testing.T) {
	rules := []CategoryRule{
		{ID: "extra", Name: "Extracurricular", Ratio: 20, HasCap: true},
	}
	materials := []ScoredMaterial{
		{CategoryID: "extra", Score: 90},
		{CategoryID: "extra", Score: 60},
	}

	summary := Aggregate(materials, rules)

	got := summary.PerCategory[0]
	if got.RawSum != 150 {
		t.Errorf("raw sum = %d, expected 150", got.RawSum)
	}
	if got.EffectiveSum != CategoryCapLimit {
		t.Errorf("effective sum = %d, expected cap %d", got.EffectiveSum, CategoryCapLimit)
	}
	// 100 * 20% = 20.00
	if got.Contribution != Score(2000) {
		t.Errorf("contribution = %s, expected 20.00", got.Contribution)
	}
}

func TestAggregateNoCapKeepsRawSum(t *testing.T) {
	rules := []CategoryRule{
		{ID: "extra", Name: "Extracurricular", Ratio: 20},
	}
	materials := []ScoredMaterial{
		{CategoryID: "extra", Score: 150},
	}

	summary := Aggregate(materials, rules)
	if summary.PerCategory[0].EffectiveSum != 150 {
		t.Errorf("effective sum = %d, expected 150", summary.PerCategory[0].EffectiveSum)
	}
	if summary.Total != Score(3000) {
		t.Errorf("total = %s, expected 30.00", summary.Total)
	}
}

func TestAggregateOmitsEmptyCategories(t *testing.T) {
	rules := []CategoryRule{
		{ID: "academic", Name: "Academic", Ratio: 60},
		{ID: "sports", Name: "Sports", Ratio: 40},
	}
	materials := []ScoredMaterial{
		{CategoryID: "sports", Score: 10},
	}

	summary := Aggregate(materials, rules)
	if len(summary.PerCategory) != 1 {
		t.Fatalf("expected 1 category score, got %d", len(summary.PerCategory))
	}
	if summary.PerCategory[0].CategoryID != "sports" {
		t.Errorf("expected sports, got %s", summary.PerCategory[0].CategoryID)
	}
}

func TestAggregateIgnoresMaterialsWithoutRule(t *testing.T) {
	rules := []CategoryRule{
		{ID: "academic", Name: "Academic", Ratio: 60},
	}
	materials := []ScoredMaterial{
		{CategoryID: "academic", Score: 10},
		{CategoryID: "deleted-category", Score: 99},
	}

	summary := Aggregate(materials, rules)
	if len(summary.PerCategory) != 1 {
		t.Fatalf("expected 1 category score, got %d", len(summary.PerCategory))
	}
	if summary.Total != Score(600) {
		t.Errorf("total = %s, expected 6.00", summary.Total)
	}
}
