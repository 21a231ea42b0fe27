package grapher

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mediagrapher/mediagrapher/curves"
	"github.com/mediagrapher/mediagrapher/trace"
)

// SVGGrapher writes the traced path as an SVG document. Corner segments map
// to line-to commands and smooth segments to cubic curve-to commands, so the
// renderer consumes the same control polygons that Segments exposes.
type SVGGrapher struct {
	ResX, ResY int
	Color      string // path color, #rrggbb; black when empty
}

// NewSVGGrapher creates an SVG writer for the given source resolution.
func NewSVGGrapher(resX, resY int) *SVGGrapher {
	return &SVGGrapher{ResX: resX, ResY: resY}
}

// SavePlot renders the curves into <outputDir>/<outputFilename>.svg.
func (g *SVGGrapher) SavePlot(frame int, c *curves.Curves, outputDir, outputFilename string) error {
	f, err := os.Create(filepath.Join(outputDir, outputFilename+".svg"))
	if err != nil {
		return fmt.Errorf("create svg: %w", err)
	}
	if err := g.write(f, c.Path()); err != nil {
		f.Close()
		return fmt.Errorf("write svg: %w", err)
	}
	return f.Close()
}

// write emits the SVG document. Positive curves open a new path element;
// their holes (negative curves) are appended as subpaths so the even-odd
// fill rule cuts them out.
func (g *SVGGrapher) write(w io.Writer, path []trace.Curve) error {
	color := g.Color
	if color == "" {
		color = "#000000"
	}
	fmt.Fprintf(w, `<?xml version="1.0" standalone="no"?>
<!DOCTYPE svg PUBLIC "-//W3C//DTD SVG 20010904//EN" "http://www.w3.org/TR/2001/REC-SVG-20010904/DTD/svg10.dtd">
<svg version="1.0" xmlns="http://www.w3.org/2000/svg" width="%dpt" height="%dpt" viewBox="0 0 %d %d" preserveAspectRatio="xMidYMid meet">
<g fill="%s" stroke="none">%s`,
		g.ResX, g.ResY, g.ResX, g.ResY, color, "\n")
	for i, cur := range path {
		if cur.Sign > 0 {
			fmt.Fprint(w, `<path d="`)
		}
		fmt.Fprint(w, svgPath(cur))
		if i+1 == len(path) || path[i+1].Sign > 0 {
			fmt.Fprintln(w, `"/>`)
		} else {
			fmt.Fprint(w, " ")
		}
	}
	_, err := fmt.Fprintln(w, `</g></svg>`)
	return err
}

// svgPath converts one closed curve to an SVG path string.
func svgPath(cur trace.Curve) string {
	if len(cur.Segments) == 0 {
		return ""
	}
	buf := bytes.NewBuffer(nil)
	start := cur.Start()
	fmt.Fprintf(buf, "M%f,%f ", start.X, start.Y)
	for _, seg := range cur.Segments {
		if seg.Kind == trace.Corner {
			fmt.Fprintf(buf, "L%f,%f L%f,%f ", seg.C.X, seg.C.Y, seg.End.X, seg.End.Y)
		} else {
			fmt.Fprintf(buf, "C%f,%f %f,%f %f,%f ", seg.C1.X, seg.C1.Y, seg.C2.X, seg.C2.Y, seg.End.X, seg.End.Y)
		}
	}
	fmt.Fprint(buf, "Z")
	return buf.String()
}
