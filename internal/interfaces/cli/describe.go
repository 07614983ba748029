package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/turtacn/molrad/internal/application/filters"
)

// bankView renders a bank description in every output format.
type bankView struct {
	filters.Description
}

func (v bankView) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "RadialFilterBank %s (%d levels, %s)", v.BankID, v.NumLevels, v.Precision)
	for _, l := range v.Levels {
		fmt.Fprintf(&sb, "\n  level %d: max_sh=%d basis=(%d, %d) mix=%t channels=%d params=%d",
			l.Level, l.MaxSH, l.TrigBasis, l.RPow, l.Mix, l.Channels, l.Parameters)
	}
	return sb.String()
}

func (v bankView) TableHeaders() []string {
	return []string{"LEVEL", "MAX_SH", "BASIS", "MIX", "CHANNELS", "RADIAL_TYPES", "PARAMS"}
}

func (v bankView) TableRows() [][]string {
	rows := make([][]string, 0, len(v.Levels))
	for _, l := range v.Levels {
		rows = append(rows, []string{
			strconv.Itoa(l.Level),
			strconv.Itoa(l.MaxSH),
			"(" + strconv.Itoa(l.TrigBasis) + ", " + strconv.Itoa(l.RPow) + ")",
			strconv.FormatBool(l.Mix),
			strconv.Itoa(l.Channels),
			joinInts(l.RadialTypes),
			strconv.Itoa(l.Parameters),
		})
	}
	return rows
}

func joinInts(xs []int) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = strconv.Itoa(x)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// NewDescribeCmd creates the describe command.
func NewDescribeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "describe",
		Short: "Build the configured filter bank and print its layout",
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			if cliCtx.Client != nil {
				d, err := cliCtx.Client.Filters().Describe(cmd.Context())
				if err != nil {
					return err
				}
				return PrintResult(cmd, bankView{*d})
			}
			bank, err := filters.NewBankFromConfig(cliCtx.Config.Radial, cliCtx.Logger, nil)
			if err != nil {
				return err
			}
			return PrintResult(cmd, bankView{filters.Describe(bank)})
		},
	}
}

//Personal.AI order the ending
