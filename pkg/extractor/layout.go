package extractor

import (
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/dtnitsch/merit-scan/models"
	"github.com/ledongthuc/pdf"
)

const (
	defaultFontSize = 10.0
	// Horizontal gaps are measured in multiples of the font size.
	cellGapEm  = 1.0
	spaceGapEm = 0.15
	// Glyphs whose baselines differ by less than this share a line.
	baselineEm = 0.4
)

// line is one visual line of a page, split into cells at wide horizontal gaps.
type line struct {
	y     float64
	cells []string
}

// groupLines clusters positioned glyphs into lines (top to bottom) and cells (left to right).
func groupLines(texts []pdf.Text) []line {
	glyphs := make([]pdf.Text, 0, len(texts))
	for _, t := range texts {
		if strings.TrimSpace(t.S) != "" {
			glyphs = append(glyphs, t)
		}
	}
	if len(glyphs) == 0 {
		return nil
	}

	sort.SliceStable(glyphs, func(i, j int) bool {
		return glyphs[i].Y > glyphs[j].Y
	})

	var rows [][]pdf.Text
	var rowY float64
	for _, g := range glyphs {
		n := len(rows)
		if n > 0 && math.Abs(rowY-g.Y) <= math.Max(fontSize(g)*baselineEm, 1.5) {
			rows[n-1] = append(rows[n-1], g)
			continue
		}
		rows = append(rows, []pdf.Text{g})
		rowY = g.Y
	}

	lines := make([]line, 0, len(rows))
	for _, row := range rows {
		sort.SliceStable(row, func(i, j int) bool {
			return row[i].X < row[j].X
		})
		lines = append(lines, line{y: row[0].Y, cells: splitCells(row)})
	}
	return lines
}

// splitCells joins glyphs of one line into cells. Small gaps become spaces,
// gaps of about one em or more start a new cell.
func splitCells(row []pdf.Text) []string {
	var cells []string
	var cur strings.Builder
	prevEnd := 0.0

	for i, g := range row {
		if i > 0 {
			gap := g.X - prevEnd
			size := fontSize(g)
			switch {
			case gap > size*cellGapEm:
				cells = append(cells, strings.TrimSpace(cur.String()))
				cur.Reset()
			case gap > size*spaceGapEm:
				cur.WriteByte(' ')
			}
		}
		cur.WriteString(g.S)
		prevEnd = math.Max(prevEnd, g.X+width(g))
	}
	if s := strings.TrimSpace(cur.String()); s != "" || len(cells) == 0 {
		cells = append(cells, s)
	}
	return cells
}

// detectTables returns runs of consecutive multi-cell lines. A run needs two
// lines, or one when the page draws ruling rectangles.
func detectTables(lines []line, ruled bool) []models.Table {
	minRun := 2
	if ruled {
		minRun = 1
	}

	var tables []models.Table
	var run [][]string
	flush := func() {
		if len(run) >= minRun {
			tables = append(tables, models.Table{Rows: run})
		}
		run = nil
	}

	for _, l := range lines {
		if len(l.cells) < 2 {
			flush()
			continue
		}
		run = append(run, l.cells)
	}
	flush()
	return tables
}

// plainText renders lines top to bottom, cells separated by a single space.
func plainText(lines []line) string {
	var sb strings.Builder
	for i, l := range lines {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(strings.Join(l.cells, " "))
	}
	return sb.String()
}

func fontSize(g pdf.Text) float64 {
	if g.FontSize > 0 {
		return g.FontSize
	}
	return defaultFontSize
}

// width falls back to half an em per rune when the font carries no widths.
func width(g pdf.Text) float64 {
	if g.W > 0 {
		return g.W
	}
	return fontSize(g) * 0.5 * float64(utf8.RuneCountInString(g.S))
}
