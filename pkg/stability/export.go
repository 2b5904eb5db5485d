package stability

import (
	"fmt"
	"io"
)

// Debug-only side channel: point clouds in Wavefront OBJ vertex-color
// format, one "v x y z r g b" line per point. Viewers that understand
// vertex colors show segmentation and malformation heat directly.

// WriteSupportsOBJ writes every support point as a magenta vertex.
func WriteSupportsOBJ(w io.Writer, issues Issues) error {
	for _, sp := range issues.SupportPoints {
		_, err := fmt.Fprintf(w, "v %f %f %f  %f %f %f\n",
			sp.Position.X, sp.Position.Y, sp.Position.Z, 1.0, 0.0, 1.0)
		if err != nil {
			return err
		}
	}
	return nil
}

// WriteSegmentationOBJ writes the boundary segments of every island in
// the graph, one vertex per segment endpoint, colored by island index so
// the per-layer segmentation is visible at a glance.
func WriteSegmentationOBJ(w io.Writer, graph []LayerIslands) error {
	for _, layer := range graph {
		for islandIdx, island := range layer.Islands {
			r, g, b := islandColor(islandIdx)
			for _, line := range island.Boundary {
				_, err := fmt.Fprintf(w, "v %f %f %f  %f %f %f\n",
					line.B.X, line.B.Y, layer.Z, r, g, b)
				if err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// WriteMalformationsOBJ writes every malformed boundary segment endpoint,
// colored from green (mild) to red (severe, clamped at 1).
func WriteMalformationsOBJ(w io.Writer, graph []LayerIslands) error {
	for _, layer := range graph {
		for _, island := range layer.Islands {
			for _, line := range island.Boundary {
				if line.Malformation <= 0 {
					continue
				}
				t := line.Malformation
				if t > 1 {
					t = 1
				}
				_, err := fmt.Fprintf(w, "v %f %f %f  %f %f %f\n",
					line.B.X, line.B.Y, layer.Z, t, 1.0-t, 0.0)
				if err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// islandColor spreads island indices over a small fixed palette.
func islandColor(idx int) (r, g, b float64) {
	h := ((idx+127)*33331 + 6907) % 23
	t := float64(h) / 23.0
	switch {
	case t < 1.0/3:
		return 1 - 3*t, 3 * t, 0
	case t < 2.0/3:
		return 0, 2 - 3*t, 3*t - 1
	default:
		return 3*t - 2, 0, 3 - 3*t
	}
}
