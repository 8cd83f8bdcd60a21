package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"github.com/strandkit/strand"
	"github.com/strandkit/strand/csvio"
	"github.com/strandkit/strand/fs"
	"github.com/strandkit/strand/tablefmt"
)

func newGenerateCmd(opts *rootOptions) *cobra.Command {
	var (
		inputPattern string
		outputPath   string
		preview      bool
	)

	cmd := &cobra.Command{
		Use:   "generate <prompt template>",
		Short: "Personalize a CSV of records",
		Long: `Generate one output per input record. The prompt template references
input columns as {{column}} placeholders:

  strand generate "Write a greeting for {{name}} in {{city}}" --input people.csv

Use --preview to stream a single example row and stop, without burning the
full run. The full run writes the resulting table to --output as CSV.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, opts, args[0], inputPattern, outputPath, preview)
		},
	}

	cmd.Flags().StringVar(&inputPattern, "input", "", "Input CSV path or glob (required)")
	cmd.Flags().StringVar(&outputPath, "output", "", "Output CSV path (default: <input>.out.csv)")
	cmd.Flags().BoolVar(&preview, "preview", false, "Stream one example row and stop")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func runGenerate(cmd *cobra.Command, opts *rootOptions, prompt, inputPattern, outputPath string, preview bool) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	logger := opts.logger()

	inputPath, err := fs.ResolveOne(inputPattern)
	if err != nil {
		return err
	}
	columns, records, err := csvio.ReadFile(inputPath)
	if err != nil {
		return err
	}
	logger.Debug("input loaded", "path", inputPath, "columns", len(columns), "records", len(records))

	req := strand.TableRequest{
		Prompt:  prompt,
		Columns: columns,
		Records: records,
		Model:   opts.model,
	}
	gen := strand.NewGenerator(opts.client())

	if preview {
		table, err := gen.Preview(ctx, req)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), tablefmt.Render(table, strand.DefaultTheme()))
		return nil
	}

	rows := 0
	table, err := gen.Run(ctx, req, strand.WithTableSnapshotHandler(func(snap strand.Table) {
		if len(snap.Rows) > rows {
			rows = len(snap.Rows)
			fmt.Fprintf(os.Stderr, "\rrows: %d/%d", rows, len(records))
		}
	}))
	if rows > 0 {
		fmt.Fprintln(os.Stderr)
	}
	if err != nil {
		return err
	}

	if outputPath == "" {
		outputPath = strings.TrimSuffix(inputPath, ".csv") + ".out.csv"
	}
	if err := csvio.WriteFile(outputPath, table); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d rows to %s\n", len(table.Rows), outputPath)
	return nil
}
