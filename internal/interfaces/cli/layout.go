package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/turtacn/KeyIP-Layout/internal/application/depiction"
	"github.com/turtacn/KeyIP-Layout/internal/domain/layout"
	"github.com/turtacn/KeyIP-Layout/internal/infrastructure/monitoring/logging"
	mtypes "github.com/turtacn/KeyIP-Layout/pkg/types/molecule"
)

type layoutFlags struct {
	input       string
	bondLength  float64
	noOverlap   bool
	noOrient    bool
	noTemplates bool
	noCache     bool
	metricsFile string
}

// NewLayoutCmd returns the command that computes depiction coordinates.
func NewLayoutCmd() *cobra.Command {
	f := &layoutFlags{}

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Compute 2D coordinates for one or more molecules",
		Long: "Read a molecule (or a JSON array of molecules) and print its depiction.\n" +
			"Input is JSON with atoms, bonds and optional rings; use --input - for stdin.",
		Example: "  keyip-layout layout --input benzene.json\n" +
			"  cat batch.json | keyip-layout layout -i - -o table --bond-length 1.5",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLayout(cmd, f)
		},
	}

	cmd.Flags().StringVarP(&f.input, "input", "i", "", "molecule JSON file, or - for stdin [REQUIRED]")
	cmd.Flags().Float64Var(&f.bondLength, "bond-length", 0, "target bond length (default from config)")
	cmd.Flags().BoolVar(&f.noOverlap, "no-overlap", false, "skip overlap resolution")
	cmd.Flags().BoolVar(&f.noOrient, "no-orient", false, "skip orientation optimisation")
	cmd.Flags().BoolVar(&f.noTemplates, "no-templates", false, "do not use cage templates")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "bypass the depiction cache")
	cmd.Flags().StringVar(&f.metricsFile, "metrics-file", "", "write Prometheus text metrics to this file after the run")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func runLayout(cmd *cobra.Command, f *layoutFlags) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}

	molecules, batch, err := readMolecules(cmd, f.input)
	if err != nil {
		return err
	}

	var override *layout.Options
	if f.changed(cmd) {
		o := cliCtx.Config.Layout.ToOptions()
		if cmd.Flags().Changed("bond-length") {
			o.BondLength = f.bondLength
		}
		if f.noOverlap {
			o.ResolveOverlaps = false
		}
		if f.noOrient {
			o.OptimizeOrientation = false
		}
		if f.noTemplates {
			o.UseTemplates = false
		}
		override = &o
	}

	rt, err := newRuntime(cliCtx, !f.noCache)
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx := cmd.Context()
	if cliCtx.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cliCtx.Timeout)
		defer cancel()
	}

	inputs := make([]*depiction.DepictInput, len(molecules))
	for i, m := range molecules {
		inputs[i] = &depiction.DepictInput{Molecule: m, Options: override, NoCache: f.noCache}
	}
	results, errs := rt.service.DepictBatch(ctx, inputs)

	for i, e := range errs {
		if e != nil {
			cliCtx.Logger.Error("layout failed", logging.Int("index", i), logging.String("molecule", molecules[i].Name), logging.Err(e))
			return fmt.Errorf("molecule %d (%s): %w", i, molecules[i].Name, e)
		}
	}

	if f.metricsFile != "" && rt.collector != nil {
		if err := promclient.WriteToTextfile(f.metricsFile, rt.collector.Registry()); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
	}

	if batch {
		return PrintResult(cmd, depictionList(results))
	}
	return PrintResult(cmd, depictionTable{results[0]})
}

func (f *layoutFlags) changed(cmd *cobra.Command) bool {
	return cmd.Flags().Changed("bond-length") || f.noOverlap || f.noOrient || f.noTemplates
}

// readMolecules accepts a single molecule object or an array of them.
func readMolecules(cmd *cobra.Command, path string) ([]*mtypes.Molecule, bool, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read input: %w", err)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var ms []*mtypes.Molecule
		if err := json.Unmarshal(trimmed, &ms); err != nil {
			return nil, false, fmt.Errorf("failed to parse input: %w", err)
		}
		if len(ms) == 0 {
			return nil, false, fmt.Errorf("input contains no molecules")
		}
		for i, m := range ms {
			if m == nil {
				return nil, false, fmt.Errorf("input molecule %d is null", i)
			}
		}
		return ms, true, nil
	}

	var m mtypes.Molecule
	if err := json.Unmarshal(trimmed, &m); err != nil {
		return nil, false, fmt.Errorf("failed to parse input: %w", err)
	}
	return []*mtypes.Molecule{&m}, false, nil
}

// depictionTable renders one depiction as an atom coordinate table.  JSON
// output is the depiction itself.
type depictionTable struct {
	*mtypes.Depiction
}

func (t depictionTable) MarshalJSON() ([]byte, error) { return json.Marshal(t.Depiction) }

func (t depictionTable) TableHeaders() []string { return []string{"ATOM", "SYMBOL", "X", "Y"} }

func (t depictionTable) TableRows() [][]string {
	rows := make([][]string, len(t.Atoms))
	for i, a := range t.Atoms {
		rows[i] = []string{strconv.Itoa(a.ID), a.Symbol, formatCoord(a.X), formatCoord(a.Y)}
	}
	return rows
}

// depictionList renders a batch as a per-molecule summary.
type depictionList []*mtypes.Depiction

func (l depictionList) TableHeaders() []string {
	return []string{"#", "NAME", "SHAPE", "ATOMS", "MEAN BOND", "OVERLAPS", "CACHED"}
}

func (l depictionList) TableRows() [][]string {
	rows := make([][]string, len(l))
	for i, d := range l {
		rows[i] = []string{
			strconv.Itoa(i),
			d.Name,
			d.Shape,
			strconv.Itoa(len(d.Atoms)),
			formatCoord(d.Quality.BondLengthMean),
			strconv.Itoa(d.Quality.OverlapCount),
			strconv.FormatBool(d.Cached),
		}
	}
	return rows
}

func formatCoord(v float64) string { return strconv.FormatFloat(v, 'f', 4, 64) }
