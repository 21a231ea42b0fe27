// Package grapher renders extracted curve sets with pluggable backends: a
// gonum/plot polyline plotter producing PNG files and an SVG path writer.
package grapher

import "github.com/mediagrapher/mediagrapher/curves"

// Grapher renders one frame's curves into a file named outputFilename (plus
// a backend-specific extension) inside outputDir.
type Grapher interface {
	SavePlot(frame int, c *curves.Curves, outputDir, outputFilename string) error
}
