// Command buttress analyzes planned toolpaths for mechanical print
// failures and emits corrective support points.
//
// Input is a JSON document {"layers": [{"z": ..., "paths": [...]}, ...]}
// as produced by the toolpath generation stage; output is the support
// point list as JSON on stdout.
package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/chazu/buttress/pkg/stability"
)

// document is the on-disk input format.
type document struct {
	Layers []stability.Layer `json:"layers"`
}

var (
	flagDebugDir string
	flagVerbose  bool
	flagParams   = stability.DefaultParams()
)

var rootCmd = &cobra.Command{
	Use:   "buttress <toolpaths.json>",
	Short: "Predict print stability failures and emit support points",
	Long: `Buttress analyzes a print's planned toolpaths layer by layer, predicts
mechanical failures during printing (detached walls, curling bridges,
toppling, poor bed adhesion) and emits corrective support-point hints for
the support generator.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagVerbose {
			stability.SetLogger(slog.New(slog.NewTextHandler(os.Stderr,
				&slog.HandlerOptions{Level: slog.LevelDebug})))
		}

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading toolpaths: %w", err)
		}
		var doc document
		if err := json.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("decoding toolpaths: %w", err)
		}

		issues, graph := stability.Analyze(doc.Layers, flagParams)

		if flagDebugDir != "" {
			if err := writeDebugFiles(flagDebugDir, issues, graph); err != nil {
				return err
			}
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(issues)
	},
}

// writeDebugFiles dumps the diagnostic point clouds next to the result.
func writeDebugFiles(dir string, issues stability.Issues, graph []stability.LayerIslands) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	files := []struct {
		name  string
		write func(f *os.File) error
	}{
		{"supports.obj", func(f *os.File) error { return stability.WriteSupportsOBJ(f, issues) }},
		{"segmentation.obj", func(f *os.File) error { return stability.WriteSegmentationOBJ(f, graph) }},
		{"malformations.obj", func(f *os.File) error { return stability.WriteMalformationsOBJ(f, graph) }},
	}
	for _, file := range files {
		f, err := os.Create(filepath.Join(dir, file.name))
		if err != nil {
			return err
		}
		if err := file.write(f); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVar(&flagDebugDir, "debug-dir", "", "write diagnostic OBJ point clouds into this directory")
	flags.BoolVarP(&flagVerbose, "verbose", "v", false, "log torque balances and part merges to stderr")
	flags.Float64Var(&flagParams.FlowWidth, "flow-width", flagParams.FlowWidth, "extrusion width (mm)")
	flags.Float64Var(&flagParams.BridgeDistance, "bridge-distance", flagParams.BridgeDistance, "tolerable unsupported span (mm)")
	flags.Float64Var(&flagParams.BridgeCurvatureDecay, "bridge-curvature-decay", flagParams.BridgeCurvatureDecay, "curvature-to-threshold decay factor")
	flags.Float64Var(&flagParams.MinSupportSpacing, "min-support-spacing", flagParams.MinSupportSpacing, "minimum distance between support points (mm)")
	flags.Float64Var(&flagParams.SupportInterfaceRadius, "support-interface-radius", flagParams.SupportInterfaceRadius, "support contact patch radius (mm)")
	flags.Float64Var(&flagParams.FilamentDensity, "filament-density", flagParams.FilamentDensity, "filament density (g/mm^3)")
	flags.Float64Var(&flagParams.Gravity, "gravity", flagParams.Gravity, "gravitational constant (mm/s^2)")
	flags.Float64Var(&flagParams.MaxAcceleration, "max-acceleration", flagParams.MaxAcceleration, "maximum print acceleration (mm/s^2)")
	flags.Float64Var(&flagParams.BedAdhesionYieldStrength, "bed-adhesion-yield", flagParams.BedAdhesionYieldStrength, "bed adhesion yield strength")
	flags.Float64Var(&flagParams.MaterialYieldStrength, "material-yield", flagParams.MaterialYieldStrength, "inter-layer material yield strength")
	flags.Float64Var(&flagParams.ExtruderConflictForce, "extruder-conflict-force", flagParams.ExtruderConflictForce, "baseline extruder drag force")
	flags.Float64Var(&flagParams.MalformationConflictForce, "malformation-conflict-force", flagParams.MalformationConflictForce, "additive conflict force at full malformation")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
