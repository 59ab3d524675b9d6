package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-et-stats/internal/model"
	"github.com/pable/go-et-stats/internal/parser"
	"github.com/pable/go-et-stats/internal/report"
)

var parseWeapons bool

var parseCmd = &cobra.Command{
	Use:   "parse <stats-file>",
	Short: "Decode one stats file and print it without storing",
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func init() {
	parseCmd.Flags().BoolVar(&parseWeapons, "weapons", false, "also print the per-weapon breakdown")
}

func runParse(cmd *cobra.Command, args []string) error {
	f, err := parser.ParseFile(args[0])
	if err != nil {
		return fmt.Errorf("parse file: %w", err)
	}

	report.PrintRoundFile(os.Stdout, f)
	if f.Header.Round == 2 {
		fmt.Fprintln(os.Stdout, "Round 2 values are cumulative over both rounds.")
	}

	rows := make([]model.StoredPlayerRound, 0, len(f.Records))
	weapons := make(map[string][]model.WeaponStat, len(f.Records))
	names := make(map[string]string, len(f.Records))
	for _, r := range f.Records {
		rows = append(rows, model.StoredPlayerRound{FileHash: f.Hash, Kind: model.KindRaw, Record: r})
		weapons[r.GUID] = r.Weapons
		names[r.GUID] = r.Name
	}
	report.PrintRoundTable(os.Stdout, rows)
	if parseWeapons {
		fmt.Fprintln(os.Stdout)
		report.PrintWeaponTable(os.Stdout, weapons, names, "")
	}
	return nil
}
