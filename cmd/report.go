package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var reportFlags filterFlags
var reportCmd = &cobra.Command{
	Use:   "report [from (optional)] [to (optional)]",
	Short: "Prints a YAML summary of the top artists",
	Long: `Prints total plays, artists and listening hours, followed by the top artist
metrics, as YAML.
` + dateArgsHelp,
	Args: cobra.MaximumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		err := runReport(os.Stdout, args)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error generating report: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportFlags.register(reportCmd)
}

func runReport(out io.Writer, args []string) error {
	config, err := reportFlags.pipelineConfig(args)
	if err != nil {
		return err
	}

	report, err := runPipeline(config)
	if err != nil {
		return fmt.Errorf("analyzing data: %w", err)
	}

	encoder := yaml.NewEncoder(out)
	encoder.SetIndent(2)
	if err := encoder.Encode(report); err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	return encoder.Close()
}
