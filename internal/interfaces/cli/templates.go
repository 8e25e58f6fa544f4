package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/turtacn/KeyIP-Layout/internal/application/depiction"
)

// NewTemplatesCmd lists the built-in cage templates.
func NewTemplatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List the built-in cage templates",
		Long:  "List the polycyclic cage scaffolds that are placed from stored coordinates instead of being relaxed.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			rt, err := newRuntime(cliCtx, false)
			if err != nil {
				return err
			}
			defer rt.Close()
			return PrintResult(cmd, templateList(rt.service.Templates()))
		},
	}
}

type templateList []depiction.TemplateInfo

func (l templateList) TableHeaders() []string { return []string{"NAME", "ATOMS", "BONDS"} }

func (l templateList) TableRows() [][]string {
	rows := make([][]string, len(l))
	for i, t := range l {
		rows[i] = []string{t.Name, strconv.Itoa(t.Atoms), strconv.Itoa(t.Bonds)}
	}
	return rows
}

// NewVersionCmd prints build information.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return PrintResult(cmd, buildInfo{Version: Version, Commit: GitCommit, BuildDate: BuildDate})
		},
	}
}

type buildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
}

func (b buildInfo) TableHeaders() []string { return []string{"VERSION", "COMMIT", "BUILT"} }

func (b buildInfo) TableRows() [][]string {
	return [][]string{{b.Version, b.Commit, b.BuildDate}}
}

func (b buildInfo) String() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", b.Version, b.Commit, b.BuildDate)
}
