package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cpainsight/internal/cleaner"
	"cpainsight/internal/service"
)

var cleanFlags struct {
	input  string
	output string
	schema string
}

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Normalize a long-format export into one row per evaluation",
	RunE:  runClean,
}

func init() {
	f := cleanCmd.Flags()
	f.StringVarP(&cleanFlags.input, "input", "i", "", "Raw export CSV path, or - for stdin (required)")
	f.StringVarP(&cleanFlags.output, "output", "o", "", "Cleaned CSV path (default stdout)")
	f.StringVar(&cleanFlags.schema, "schema", "", "YAML schema override")

	_ = cleanCmd.MarkFlagRequired("input")
}

func runClean(cmd *cobra.Command, _ []string) error {
	sch, err := loadSchema(cleanFlags.schema)
	if err != nil {
		return err
	}

	in, err := openInput(cleanFlags.input)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer in.Close()

	rows, err := cleaner.ReadLongCSV(in)
	if err != nil {
		return fmt.Errorf("read export: %w", err)
	}

	records := cleaner.New(sch).Clean(rows)

	out, closeOut, err := openOutput(cleanFlags.output, cmd.OutOrStdout())
	if err != nil {
		return fmt.Errorf("open output: %w", err)
	}
	if err := cleaner.WriteRecordsCSV(out, records, sch); err != nil {
		closeOut()
		return fmt.Errorf("write cleaned csv: %w", err)
	}
	if err := closeOut(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Cleaned %d rows into %d records (%d students)\n",
		len(rows), len(records), len(service.Students(records)))
	return nil
}
