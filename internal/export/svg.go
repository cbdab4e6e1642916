package export

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/orbitsim/internal/physics"
)

// OrbitsToSVG renders every body's trail as a polyline and its current
// position as a disk. Coordinates are the screen pixels already stored
// in the trails, so the picture matches what the frame loop drew.
// radiusScale multiplies body radii the same way the simulator does.
func OrbitsToSVG(bodies []*physics.Body, width, height int, background color.RGBA, radiusScale float64) string {
	if radiusScale <= 0 {
		radiusScale = 1
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, hex(background)))

	for _, b := range bodies {
		pts := b.Trail.Points()
		if len(pts) >= 2 {
			sb.WriteString(fmt.Sprintf(`<path id="%s-trail" fill="none" stroke="%s" stroke-width="1" d="M`, b.Name, hex(b.Color)))
			for i, p := range pts {
				if i == 0 {
					sb.WriteString(fmt.Sprintf("%d,%d", p.X, p.Y))
				} else {
					sb.WriteString(fmt.Sprintf(" L%d,%d", p.X, p.Y))
				}
			}
			sb.WriteString("\"/>\n")
		}
	}

	// Disks go on top of every trail.
	for _, b := range bodies {
		last, ok := b.Trail.Last()
		if !ok {
			continue
		}
		sb.WriteString(fmt.Sprintf(`<circle id="%s" cx="%d" cy="%d" r="%.1f" fill="%s"/>
`, b.Name, last.X, last.Y, float64(b.Radius)*radiusScale, hex(b.Color)))
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}

func hex(c color.RGBA) string {
	cc, _ := colorful.MakeColor(color.RGBA{c.R, c.G, c.B, 0xff})
	return cc.Hex()
}
