package render

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"cv-polisher/internal/shared/metrics"
)

// Layout fixes page geometry in points. Top is the first baseline measured
// from the top edge of the page.
type Layout struct {
	PageSize    string
	FontFamily  string
	FontSize    float64
	Leading     float64
	Left        float64
	Right       float64
	Top         float64
	Bottom      float64
	TabWidth    int
	Title       string
	TranslateCP string
}

// DefaultLayout is A4 Helvetica 12 with the first baseline 800pt above the
// bottom edge, x = 40pt.
func DefaultLayout() Layout {
	return Layout{
		PageSize:   "A4",
		FontFamily: "Helvetica",
		FontSize:   12,
		Leading:    14.4,
		Left:       40,
		Right:      40,
		Top:        841.89 - 800,
		Bottom:     40,
		TabWidth:   4,
		Title:      "Polished CV",
	}
}

// PDF renders plain text into a PDF document line by line.
type PDF struct {
	layout Layout
}

// NewPDF returns a renderer using layout.
func NewPDF(layout Layout) *PDF {
	return &PDF{layout: layout}
}

// Render writes text as a PDF to w. Each \n starts a new line, blank lines
// advance the cursor, lines wider than the printable width wrap, and a new
// page starts when the bottom margin is reached.
func (p *PDF) Render(w io.Writer, text string) error {
	start := time.Now()
	defer func() { metrics.ObserveRender(time.Since(start)) }()

	l := p.layout
	doc := fpdf.New("P", "pt", l.PageSize, "")
	doc.SetAutoPageBreak(false, 0)
	doc.SetMargins(l.Left, l.Top, l.Right)
	if l.Title != "" {
		doc.SetTitle(l.Title, true)
	}
	doc.SetCreator("cv-polisher", true)
	doc.AddPage()
	doc.SetFont(l.FontFamily, "", l.FontSize)

	tr := doc.UnicodeTranslatorFromDescriptor(l.TranslateCP)
	pageW, pageH := doc.GetPageSize()
	maxWidth := pageW - l.Left - l.Right
	y := l.Top

	for _, line := range Lines(text, l.TabWidth) {
		chunks := []string{""}
		if line != "" {
			if l.TranslateCP == "" || l.TranslateCP == "cp1252" {
				line = toCP1252Runes(line)
			}
			chunks = wrap(doc, tr(line), maxWidth)
		}
		for _, chunk := range chunks {
			if y > pageH-l.Bottom {
				doc.AddPage()
				y = l.Top
			}
			if chunk != "" {
				doc.Text(l.Left, y, chunk)
			}
			y += l.Leading
		}
	}

	if doc.Err() {
		return fmt.Errorf("render pdf: %w", doc.Error())
	}
	if err := doc.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// Lines splits text on \n after normalizing line endings and expanding tabs.
func Lines(text string, tabWidth int) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	if tabWidth > 0 {
		text = strings.ReplaceAll(text, "\t", strings.Repeat(" ", tabWidth))
	}
	return strings.Split(text, "\n")
}

// wrap breaks an already-translated single-byte line into chunks no wider
// than maxWidth, preferring spaces and hard-breaking long words.
func wrap(doc *fpdf.Fpdf, line string, maxWidth float64) []string {
	if doc.GetStringWidth(line) <= maxWidth {
		return []string{line}
	}
	var out []string
	rest := line
	for rest != "" {
		if doc.GetStringWidth(rest) <= maxWidth {
			out = append(out, rest)
			break
		}
		cut := fitPrefix(doc, rest, maxWidth)
		if sp := strings.LastIndexByte(rest[:cut], ' '); sp > 0 {
			cut = sp
		}
		out = append(out, strings.TrimRight(rest[:cut], " "))
		rest = strings.TrimLeft(rest[cut:], " ")
	}
	return out
}

// cp1252Extras are the runes cp1252 places in 0x80-0x9F.
var cp1252Extras = map[rune]bool{
	'\u20AC': true, '\u201A': true, '\u0192': true, '\u201E': true, '\u2026': true,
	'\u2020': true, '\u2021': true, '\u02C6': true, '\u2030': true, '\u0160': true,
	'\u2039': true, '\u0152': true, '\u017D': true, '\u2018': true, '\u2019': true,
	'\u201C': true, '\u201D': true, '\u2022': true, '\u2013': true, '\u2014': true,
	'\u02DC': true, '\u2122': true, '\u0161': true, '\u203A': true, '\u0153': true,
	'\u017E': true, '\u0178': true,
}

// toCP1252Runes replaces runes the core fonts cannot encode with '?' and
// control characters with a space.
func toCP1252Runes(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r < 0x20 || r == 0x7F:
			return ' '
		case r < 0x80, r >= 0xA0 && r <= 0xFF, cp1252Extras[r]:
			return r
		default:
			return '?'
		}
	}, s)
}

// fitPrefix returns the largest byte length of s that fits maxWidth, at least 1.
func fitPrefix(doc *fpdf.Fpdf, s string, maxWidth float64) int {
	lo, hi := 1, len(s)
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if doc.GetStringWidth(s[:mid]) <= maxWidth {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo
}
