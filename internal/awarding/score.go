// Package awarding holds the rubric scoring rules shared by application
// saving, detail rendering, ranking and export. Everything here is pure:
// callers load rubric and material rows, this package only does arithmetic.
package awarding

import (
	"fmt"

	"github.com/Vathanak-H/ScholarAward/internal/constant"
)

// Score is a fixed-point amount in hundredths of a point. Category
// contributions are weighted by an integer percentage, so hundredths
// represent every reachable value exactly and keep totals drift-free.
type Score int64

func NewScore(points int) Score {
	return Score(int64(points) * 100)
}

// Points truncates toward zero, matching integer division of the
// stored hundredths.
func (s Score) Points() int64 {
	return int64(s) / 100
}

func (s Score) String() string {
	whole := int64(s) / 100
	frac := int64(s) % 100
	if frac < 0 {
		frac = -frac
	}
	return fmt.Sprintf("%d.%02d", whole, frac)
}

func (s Score) MarshalJSON() ([]byte, error) {
	return []byte(s.String()), nil
}

// RubricKey addresses one cell of an item's score grid.
type RubricKey struct {
	Level constant.AwardLevel
	Grade constant.AwardGrade
}

// RubricTable maps an item's configured grid cells to base scores.
// Unconfigured cells resolve to zero; an admin leaving a cell blank is
// intentional, not an error.
type RubricTable map[RubricKey]int

// Resolve returns the committed score for one material. Team awards are
// worth half the base score, rounded down. The caller-declared score is
// never consulted.
func (t RubricTable) Resolve(level constant.AwardLevel, grade constant.AwardGrade, awardType constant.AwardType) int {
	base := t[RubricKey{Level: level, Grade: grade}]
	if awardType == constant.AwardTypeTeam {
		return base / 2
	}
	return base
}
