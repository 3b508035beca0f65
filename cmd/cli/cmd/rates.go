// Package cmd - rate table commands
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"retreat-quote/core/output"
	"retreat-quote/core/ratetable"
	"retreat-quote/core/types"
)

var ratesCmd = &cobra.Command{
	Use:   "rates",
	Short: "Inspect, validate and export rate tables",
	Long: `Rate table commands.

The active table is the one named by --rates, then the config file,
then the built-in defaults.`,
}

var ratesShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the active rate table",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rates, err := loadRates()
		if err != nil {
			return err
		}
		printRates(cmd.OutOrStdout(), rates)
		return nil
	},
}

var ratesValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Check a rate table file",
	Long: `Parse a rate table file (.hcl or .json) and check that it covers every
formula and room with prices and percents in range.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rates, err := ratetable.Load(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ %s: rate table %s is valid (fingerprint %s)\n",
			args[0], rates.Version, rates.Fingerprint())
		return nil
	},
}

var exportOut string

var ratesExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the active rate table as HCL",
	Long: `Write the active rate table as HCL. Start from the export of the
built-in table to author a new season's rates.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rates, err := loadRates()
		if err != nil {
			return err
		}
		src := ratetable.Export(rates)
		if exportOut == "" {
			_, err := cmd.OutOrStdout().Write(src)
			return err
		}
		if err := os.WriteFile(exportOut, src, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", exportOut, err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Rate table %s written to %s\n", rates.Version, exportOut)
		return nil
	},
}

func init() {
	ratesExportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (default stdout)")

	ratesCmd.AddCommand(ratesShowCmd)
	ratesCmd.AddCommand(ratesValidateCmd)
	ratesCmd.AddCommand(ratesExportCmd)
}

func printRates(w io.Writer, t *ratetable.RateTable) {
	fmt.Fprintf(w, "Rate table %s (%s), fingerprint %s\n\n", t.Version, t.Currency, t.Fingerprint())

	fmt.Fprintln(w, "Formulas")
	for _, f := range types.Formulas {
		r := t.Formulas[f]
		fmt.Fprintf(w, "  %-14s %-12s %10s/night  %d per bedroom  facilitator %d/%d/%d%%\n",
			f, r.Label, output.Money(r.Nightly), r.RoomCapacity,
			r.Primary.Small, r.Primary.Medium, r.Primary.Large)
	}

	fmt.Fprintln(w, "\nRooms (per day)")
	for _, room := range types.Rooms {
		r := t.Rooms[room]
		fmt.Fprintf(w, "  %-14s %-12s %10s  discounted %s\n",
			room, r.Label, output.Money(r.Standard), output.Money(r.Discounted))
	}

	fmt.Fprintln(w, "\nOptions")
	fmt.Fprintf(w, "  heater               %s/night\n", output.Money(t.Options.HeaterPerNight))
	fmt.Fprintf(w, "  equipment            %s/person\n", output.Money(t.Options.EquipmentPerPerson))
	fmt.Fprintf(w, "  audio/video          %s\n", output.Money(t.Options.AudioVideoFlat))
	fmt.Fprintf(w, "  privatization        %s/empty room/night, %d bedrooms\n",
		output.Money(t.Venue.PrivatizationPerRoomNight), t.Venue.Rooms)

	fmt.Fprintf(w, "\nBands: medium from %d, large from %d. Second facilitator %d/%d/%d%%\n",
		t.Bands.MediumFrom, t.Bands.LargeFrom,
		t.Secondary.Small, t.Secondary.Medium, t.Secondary.Large)
}
