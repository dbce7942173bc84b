// Package report renders calculation results for the terminal.
package report

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/yourusername/foodclub/internal/models"
)

var printer = message.NewPrinter(language.English)

// Currency is the suffix of Neopoint amounts
const Currency = "NP"

// Money formats a Neopoint amount with thousands separators
func Money(amount int) string {
	return printer.Sprintf("%d %s", amount, Currency)
}

// Count formats an integer with thousands separators
func Count(n int) string {
	return printer.Sprintf("%d", n)
}

// Ratio formats an expected ratio as "1.234:1"
func Ratio(r float64) string {
	return decimal.NewFromFloat(r).Round(3).StringFixed(3) + ":1"
}

// Percent formats a probability as a percentage with two decimals
func Percent(p float64) string {
	return decimal.NewFromFloat(p).Shift(2).Round(2).StringFixed(2) + "%"
}

// Signed formats a float amount rounded to whole Neopoints with its sign
func Signed(v float64) string {
	d := decimal.NewFromFloat(v).Round(0)
	s := printer.Sprintf("%d", d.IntPart())
	if d.IsPositive() {
		s = "+" + s
	}
	return s
}

// MaxBet formats a max bet, showing the no-max-bet sentinel as a dash
func MaxBet(v int) string {
	if v == models.NoMaxBet {
		return "-"
	}
	return Count(v)
}

// Table is a titled grid of cells aligned by display width
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
	// Right lists the columns aligned to the right
	Right map[int]bool
}

// AddRow appends a row
func (t *Table) AddRow(cells ...string) {
	t.Rows = append(t.Rows, cells)
}

// Render returns the table as text
func (t *Table) Render() string {
	widths := make([]int, len(t.Headers))
	measure := func(row []string) {
		for i, cell := range row {
			if i >= len(widths) {
				widths = append(widths, 0)
			}
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}
	measure(t.Headers)
	for _, row := range t.Rows {
		measure(row)
	}
	if len(widths) == 0 {
		return ""
	}

	var b strings.Builder
	divider := "+"
	inner := -1
	for _, w := range widths {
		divider += strings.Repeat("-", w+2) + "+"
		inner += w + 3
	}
	divider += "\n"

	if t.Title != "" {
		b.WriteString("+" + strings.Repeat("-", inner) + "+\n")
		title := runewidth.Truncate(t.Title, inner, "")
		titleW := runewidth.StringWidth(title)
		left := (inner - titleW) / 2
		b.WriteString("|" + blank(left) + title + blank(inner-titleW-left) + "|\n")
	}
	b.WriteString(divider)
	if len(t.Headers) > 0 {
		t.writeRow(&b, t.Headers, widths)
		b.WriteString(divider)
	}
	for _, row := range t.Rows {
		t.writeRow(&b, row, widths)
	}
	if len(t.Rows) > 0 {
		b.WriteString(divider)
	}
	return b.String()
}

func (t *Table) writeRow(b *strings.Builder, row []string, widths []int) {
	b.WriteString("|")
	for i, w := range widths {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		if t.Right[i] {
			cell = runewidth.FillLeft(cell, w)
		} else {
			cell = runewidth.FillRight(cell, w)
		}
		b.WriteString(" " + cell + " |")
	}
	b.WriteString("\n")
}

func blank(w int) string {
	if w < 1 {
		return ""
	}
	return strings.Repeat(" ", w)
}

func decimalString(v float64) string {
	return decimal.NewFromFloat(v).Round(2).StringFixed(2)
}
