// Package sheet renders a printable character sheet (parchment style) with
// the player's attributes, equipment, pack and latest battle log.
package sheet

import (
	"bytes"
	"fmt"
	"math"
	"sort"

	"anomarpg/internal/game"

	"github.com/jung-kurt/gofpdf/v2"
	"golang.org/x/text/encoding/charmap"
)

const (
	pageW     = 595
	pageH     = 842
	margin    = 40
	colLeft   = 70.0
	colRight  = 320.0
	lineH     = 14.0
	barW      = 180.0
	barH      = 9.0
	fontSize  = 10
	titleSize = 18
	headSize  = 12
	iconSize  = 10.0

	utf8Family = "sheetutf8"
)

// Options tune rendering. FontPath names a UTF-8 TrueType font used for text
// the core Helvetica (cp1252) cannot encode, such as a Chinese battle log.
// Without it such lines are left out and a notice is printed instead.
type Options struct {
	FontPath string
}

// Generate returns PDF bytes for the state's character sheet. battleLog is
// printed as-is; pass nil to omit the section.
func Generate(st game.State, c *game.Catalog, battleLog []string, opts Options) ([]byte, error) {
	if c == nil {
		return nil, fmt.Errorf("sheet: nil catalog")
	}
	p := st.Player
	d := game.Derived(p, c)

	pdf := gofpdf.New("P", "pt", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(false, 0)
	hasUTF8 := opts.FontPath != ""
	if hasUTF8 {
		pdf.AddUTF8Font(utf8Family, "", opts.FontPath)
	}
	pdf.AddPage()

	// Parchment
	pdf.SetFillColor(245, 235, 210)
	pdf.Rect(0, 0, pageW, pageH, "F")
	drawWavyBorder(pdf)

	pdf.SetDrawColor(80, 50, 30)
	pdf.SetTextColor(80, 50, 30)
	pdf.SetLineWidth(1)

	pdf.SetFont("Helvetica", "B", titleSize)
	pdf.SetXY(colLeft, margin+20)
	pdf.CellFormat(pageW-2*colLeft, 20, tr(p.Name), "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "I", fontSize)
	pdf.SetXY(colLeft, margin+42)
	sub := fmt.Sprintf("Level %d  -  %d gold  -  %d skill points", p.Level, p.Gold, p.SkillPoints)
	if st.Companion {
		sub += "  -  companion at your side"
	}
	pdf.CellFormat(pageW-2*colLeft, 12, sub, "", 0, "L", false, 0, "")

	y := margin + 80.0
	y = heading(pdf, colLeft, y, "Vitals")
	y = bar(pdf, colLeft, y, "Health", p.Health, p.MaxHealth, [3]int{180, 40, 40})
	y = bar(pdf, colLeft, y, "Mana", p.Mana, p.MaxMana, [3]int{40, 70, 170})
	y = bar(pdf, colLeft, y, "Experience", p.Experience, p.ExperienceToNext, [3]int{200, 150, 40})

	y += lineH
	y = heading(pdf, colLeft, y, "Attributes")
	attrTop := y
	for _, row := range []struct {
		label string
		v     int
	}{
		{"Strength", p.Strength},
		{"Agility", p.Agility},
		{"Intelligence", p.Intelligence},
		{"Constitution", p.Constitution},
	} {
		y = statLine(pdf, colLeft, y, row.label, row.v)
	}

	ry := heading(pdf, colRight, attrTop-lineH-4, "With equipment")
	ry = statLine(pdf, colRight, ry, "Attack", d.Attack)
	ry = statLine(pdf, colRight, ry, "Defense", d.Defense)
	statLine(pdf, colRight, ry, "Intelligence", d.Intelligence)

	y += lineH
	y = heading(pdf, colLeft, y, "Equipment")
	for _, slot := range []struct {
		label string
		name  string
		kind  game.ItemType
	}{
		{"Weapon", p.Equipment.Weapon, game.ItemWeapon},
		{"Armor", p.Equipment.Armor, game.ItemArmor},
		{"Accessory", p.Equipment.Accessory, game.ItemAccessory},
	} {
		drawSlotIcon(pdf, colLeft+iconSize/2, y+lineH/2, slot.kind)
		name := slot.name
		if name == "" {
			name = "(empty)"
		}
		pdf.SetFont("Helvetica", "B", fontSize)
		pdf.SetXY(colLeft+iconSize+6, y)
		pdf.CellFormat(80, lineH, slot.label, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", fontSize)
		pdf.CellFormat(200, lineH, tr(name), "", 0, "L", false, 0, "")
		y += lineH + 2
	}

	y += lineH
	y = heading(pdf, colLeft, y, "Pack")
	pdf.SetFont("Helvetica", "", fontSize)
	for _, line := range packLines(p.Inventory) {
		pdf.SetXY(colLeft, y)
		pdf.CellFormat(220, lineH, tr(line), "", 0, "L", false, 0, "")
		y += lineH
	}
	if len(p.Inventory) == 0 {
		pdf.SetXY(colLeft, y)
		pdf.CellFormat(220, lineH, "(empty)", "", 0, "L", false, 0, "")
		y += lineH
	}

	y += lineH
	y = heading(pdf, colLeft, y, "Spells")
	pdf.SetFont("Helvetica", "", fontSize)
	for _, name := range p.Spells {
		cost := ""
		if sp, ok := c.Spells[name]; ok {
			cost = fmt.Sprintf("  (%d mana, %s)", sp.Cost, sp.Effect)
		}
		pdf.SetXY(colLeft, y)
		pdf.CellFormat(300, lineH, tr(name+cost), "", 0, "L", false, 0, "")
		y += lineH
	}

	if len(battleLog) > 0 {
		y += lineH
		y = heading(pdf, colLeft, y, "Latest battle")
		for _, row := range logRows(battleLog, hasUTF8) {
			text := tr(row.text)
			if row.utf8 {
				pdf.SetFont(utf8Family, "", fontSize)
				text = row.text
			} else {
				pdf.SetFont("Helvetica", "I", fontSize)
			}
			pdf.SetXY(colLeft, y)
			pdf.CellFormat(pageW-2*colLeft, lineH, text, "", 0, "L", false, 0, "")
			y += lineH
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type logRow struct {
	text string
	utf8 bool
}

// logRows decides how each battle log line is drawn. Lines Helvetica can
// encode stay on it; the rest need the UTF-8 font, or are replaced by one
// notice when there is none.
func logRows(lines []string, hasUTF8 bool) []logRow {
	rows := make([]logRow, 0, len(lines)+1)
	skipped := 0
	for _, line := range lines {
		switch {
		case cp1252(line):
			rows = append(rows, logRow{text: line})
		case hasUTF8:
			rows = append(rows, logRow{text: line, utf8: true})
		default:
			skipped++
		}
	}
	if skipped > 0 {
		rows = append(rows, logRow{text: fmt.Sprintf("(%d entries need a UTF-8 font, see ANOMA_SHEET_FONT)", skipped)})
	}
	return rows
}

// cp1252 reports whether every rune of s exists in the core fonts' encoding.
func cp1252(s string) bool {
	for _, r := range s {
		if _, ok := charmap.Windows1252.EncodeRune(r); !ok {
			return false
		}
	}
	return true
}

// packLines groups duplicate inventory entries as "Name x N", sorted by name.
func packLines(inv []string) []string {
	counts := map[string]int{}
	for _, it := range inv {
		counts[it]++
	}
	names := make([]string, 0, len(counts))
	for n := range counts {
		names = append(names, n)
	}
	sort.Strings(names)
	out := make([]string, 0, len(names))
	for _, n := range names {
		if counts[n] > 1 {
			out = append(out, fmt.Sprintf("%s x %d", n, counts[n]))
			continue
		}
		out = append(out, n)
	}
	return out
}

func heading(pdf *gofpdf.Fpdf, x, y float64, label string) float64 {
	pdf.SetFont("Helvetica", "B", headSize)
	pdf.SetXY(x, y)
	pdf.CellFormat(200, lineH+2, label, "B", 0, "L", false, 0, "")
	return y + lineH + 6
}

func statLine(pdf *gofpdf.Fpdf, x, y float64, label string, v int) float64 {
	pdf.SetFont("Helvetica", "", fontSize)
	pdf.SetXY(x, y)
	pdf.CellFormat(100, lineH, label, "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "B", fontSize)
	pdf.CellFormat(40, lineH, fmt.Sprintf("%d", v), "", 0, "R", false, 0, "")
	return y + lineH
}

// bar draws "label cur/max" followed by a filled gauge.
func bar(pdf *gofpdf.Fpdf, x, y float64, label string, cur, maxV int, rgb [3]int) float64 {
	pdf.SetFont("Helvetica", "", fontSize)
	pdf.SetXY(x, y)
	pdf.CellFormat(80, lineH, label, "", 0, "L", false, 0, "")
	pdf.CellFormat(60, lineH, fmt.Sprintf("%d/%d", cur, maxV), "", 0, "R", false, 0, "")

	bx, by := x+150, y+(lineH-barH)/2
	frac := 0.0
	if maxV > 0 {
		frac = math.Max(0, math.Min(1, float64(cur)/float64(maxV)))
	}
	pdf.SetFillColor(rgb[0], rgb[1], rgb[2])
	if frac > 0 {
		pdf.Rect(bx, by, barW*frac, barH, "F")
	}
	pdf.SetDrawColor(80, 50, 30)
	pdf.Rect(bx, by, barW, barH, "D")
	return y + lineH + 2
}

// drawSlotIcon draws a tiny sword, shield or gem centred on (x, y).
func drawSlotIcon(pdf *gofpdf.Fpdf, x, y float64, kind game.ItemType) {
	r := iconSize / 2
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(1.2)
	switch kind {
	case game.ItemWeapon:
		pdf.Line(x-r, y+r, x+r, y-r)
		pdf.Line(x-r*0.6, y-r*0.1, x+r*0.1, y+r*0.6)
	case game.ItemArmor:
		pdf.Polygon([]gofpdf.PointType{
			{X: x - r, Y: y - r},
			{X: x + r, Y: y - r},
			{X: x + r, Y: y},
			{X: x, Y: y + r},
			{X: x - r, Y: y},
		}, "D")
	default:
		pdf.Polygon([]gofpdf.PointType{
			{X: x, Y: y - r},
			{X: x + r, Y: y},
			{X: x, Y: y + r},
			{X: x - r, Y: y},
		}, "D")
	}
	pdf.SetLineWidth(1)
	pdf.SetDrawColor(80, 50, 30)
}

// drawWavyBorder draws an organic, tattered black border (parchment edge).
func drawWavyBorder(pdf *gofpdf.Fpdf) {
	pts := wavyRectPoints(margin, margin, pageW-2*margin, pageH-2*margin, 12, 4)
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(2)
	pdf.Polygon(pts, "D")
	pdf.SetLineWidth(1)
	pdf.SetDrawColor(80, 50, 30)
}

// wavyRectPoints walks the rectangle clockwise from (x, y) with a
// sinusoidal wobble on each side.
func wavyRectPoints(x, y, w, h float64, steps int, amp float64) []gofpdf.PointType {
	pts := make([]gofpdf.PointType, 0, steps*4+1)
	side := func(x0, y0, dx, dy float64, fx, fy float64, from int) {
		for i := from; i <= steps; i++ {
			t := float64(i) / float64(steps)
			pts = append(pts, gofpdf.PointType{
				X: x0 + t*dx + amp*math.Sin(float64(i)*fx),
				Y: y0 + t*dy + amp*math.Cos(float64(i)*fy),
			})
		}
	}
	side(x, y, w, 0, 0.7, 0.5, 0)
	side(x+w, y, 0, h, 0.6, 0.4, 1)
	side(x+w, y+h, -w, 0, 0.8, 0.3, 1)
	side(x, y+h, 0, -h, 0.5, 0.6, 1)
	return pts
}
