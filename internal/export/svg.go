package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/algoviz/internal/algo"
)

const (
	barWidth = 36.0
	barGap   = 8.0
	maxBarH  = 200.0
	labelH   = 24.0
)

// BarsSVG renders values as a bar chart. Bars at indices in marked are
// drawn in the highlight colour.
func BarsSVG(values []float64, marked ...int) string {
	hi := make(map[int]bool, len(marked))
	for _, i := range marked {
		hi[i] = true
	}

	peak := 0.0
	for _, v := range values {
		peak = max(peak, v)
	}
	if peak <= 0 {
		peak = 1
	}

	width := float64(len(values))*(barWidth+barGap) + barGap
	height := maxBarH + 2*labelH

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0f172a"/>
`, width, height, width, height)

	for i, v := range values {
		h := maxBarH * max(v, 0) / peak
		x := barGap + float64(i)*(barWidth+barGap)
		y := labelH + maxBarH - h
		fill := "#38bdf8"
		if hi[i] {
			fill = "#facc15"
		}
		fmt.Fprintf(&sb, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="4" fill="%s"/>
`, x, y, barWidth, h, fill)
		fmt.Fprintf(&sb, `<text x="%.1f" y="%.1f" font-size="12" text-anchor="middle" fill="#e2e8f0">%s</text>
`, x+barWidth/2, y-6, algo.Format(v))
		fmt.Fprintf(&sb, `<text x="%.1f" y="%.1f" font-size="10" text-anchor="middle" fill="#94a3b8">%d</text>
`, x+barWidth/2, height-6, i)
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}
