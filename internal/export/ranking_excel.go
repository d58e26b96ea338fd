package export

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/Vathanak-H/ScholarAward/internal/awarding"
	"github.com/Vathanak-H/ScholarAward/internal/model"
	"github.com/Vathanak-H/ScholarAward/internal/repository"
	"github.com/xuri/excelize/v2"
)

type SheetSpec struct {
	Title  string
	Header []string
	Rows   [][]string
}

// itemColumn is one "Category - Item" column holding the raw points a
// student declared for that rubric item.
type itemColumn struct {
	ItemID string
	Label  string
}

func itemColumns(catalog []model.Category) []itemColumn {
	var cols []itemColumn
	for _, cat := range catalog {
		for _, item := range cat.Items {
			cols = append(cols, itemColumn{
				ItemID: item.ID,
				Label:  cat.Name + " - " + item.Name,
			})
		}
	}
	return cols
}

// RankingSheet flattens a batch ranking into one sheet. Category columns
// follow the rule order, then one raw-point column per rubric item in
// catalog order, so every row lines up.
func RankingSheet(batchName string, rules []awarding.CategoryRule, catalog []model.Category, ranked []repository.RankedApplication) SheetSpec {
	items := itemColumns(catalog)

	header := []string{"Rank", "Student", "Student ID", "Class", "Major"}
	for _, rule := range rules {
		header = append(header, rule.Name)
	}
	for _, col := range items {
		header = append(header, col.Label)
	}
	header = append(header, "Total", "Reviewed At")

	rows := make([][]string, 0, len(ranked))
	for _, entry := range ranked {
		row := []string{
			fmt.Sprintf("%d", entry.Rank),
			entry.User.RealName,
			entry.User.StudentID,
			entry.User.Class,
			entry.User.Major,
		}

		byCategory := make(map[string]awarding.Score, len(entry.CategoryScores))
		for _, cs := range entry.CategoryScores {
			byCategory[cs.CategoryID] = cs.Contribution
		}
		for _, rule := range rules {
			row = append(row, byCategory[rule.ID].String())
		}

		byItem := make(map[string]int, len(entry.Application.Materials))
		for _, m := range entry.Application.Materials {
			byItem[m.ItemID] += m.Score
		}
		for _, col := range items {
			row = append(row, strconv.Itoa(byItem[col.ItemID]))
		}

		row = append(row, entry.TotalScore.String())
		reviewedAt := ""
		if entry.Application.ReviewedAt != nil {
			reviewedAt = entry.Application.ReviewedAt.Format("2006-01-02 15:04")
		}
		row = append(row, reviewedAt)

		rows = append(rows, row)
	}

	return SheetSpec{
		Title:  sanitizeSheetName(batchName),
		Header: header,
		Rows:   rows,
	}
}

// NewRankingWorkbook builds a styled workbook from the given sheets: bold
// headers, an auto-filter on row 1 and heuristic column widths.
func NewRankingWorkbook(sheets []SheetSpec) (*excelize.File, error) {
	f := excelize.NewFile()

	bold, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	for i, s := range sheets {
		name := s.Title
		if i == 0 {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				return nil, fmt.Errorf("rename sheet: %w", err)
			}
		} else {
			if _, err := f.NewSheet(name); err != nil {
				return nil, fmt.Errorf("new sheet: %w", err)
			}
		}

		for col, h := range s.Header {
			cell := fmt.Sprintf("%s1", colName(col+1))
			if err := f.SetCellStr(name, cell, h); err != nil {
				return nil, fmt.Errorf("set cell %s: %w", cell, err)
			}
		}
		end := colName(len(s.Header)) + "1"
		_ = f.SetCellStyle(name, "A1", end, bold)
		_ = f.AutoFilter(name, "A1:"+end, nil)

		for r, row := range s.Rows {
			for c, val := range row {
				cell := fmt.Sprintf("%s%d", colName(c+1), r+2)
				if err := f.SetCellStr(name, cell, val); err != nil {
					return nil, fmt.Errorf("set cell %s: %w", cell, err)
				}
			}
		}

		// heuristic width from the header and the first rows
		for c := 1; c <= len(s.Header); c++ {
			max := len(s.Header[c-1])
			for r := 0; r < min(50, len(s.Rows)); r++ {
				if c-1 < len(s.Rows[r]) {
					if l := len(s.Rows[r][c-1]); l > max {
						max = l
					}
				}
			}
			w := float64(max) * 0.9
			if w < 12 {
				w = 12
			}
			if w > 40 {
				w = 40
			}
			_ = f.SetColWidth(name, colName(c), colName(c), w)
		}
	}

	return f, nil
}

// WriteRankingWorkbook renders the workbook into a buffer for HTTP download.
func WriteRankingWorkbook(batchName string, rules []awarding.CategoryRule, catalog []model.Category, ranked []repository.RankedApplication) (*bytes.Buffer, error) {
	sheet := RankingSheet(batchName, rules, catalog, ranked)
	f, err := NewRankingWorkbook([]SheetSpec{sheet})
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return f.WriteToBuffer()
}

func colName(n int) string {
	// 1 -> A; 27 -> AA
	s := ""
	for n > 0 {
		n--
		s = string(rune('A'+(n%26))) + s
		n /= 26
	}
	return s
}

// sanitizeSheetName keeps the title within Excel's 31-char sheet name limit
// and strips the characters Excel refuses.
func sanitizeSheetName(name string) string {
	if name == "" {
		return "Ranking"
	}
	out := make([]rune, 0, len(name))
	for _, r := range name {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			continue
		}
		out = append(out, r)
	}
	if len(out) > 31 {
		out = out[:31]
	}
	return string(out)
}
