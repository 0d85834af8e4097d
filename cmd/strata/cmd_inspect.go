package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/tuannm99/strata/internal/record"
	"github.com/tuannm99/strata/internal/sampling"
	"github.com/tuannm99/strata/internal/table"
	"github.com/tuannm99/strata/internal/tableio"
)

var filterOpts struct {
	column string
	value  string
	negate bool
	output string
}

var filterCmd = &cobra.Command{
	Use:   "filter <source>",
	Short: "Keep rows whose column equals (or, with --negate, differs from) a value",
	Long: `Rows with a missing cell in the column never equal the value, so they
are dropped by a plain filter and kept by --negate.

Without --output the result is printed.`,
	Args: cobra.ExactArgs(1),
	RunE: runFilter,
}

var columnsCmd = &cobra.Command{
	Use:   "columns <source>",
	Short: "List columns with their inferred type and value counts",
	Args:  cobra.ExactArgs(1),
	RunE:  runColumns,
}

var valuesCmd = &cobra.Command{
	Use:   "values <source> <column>",
	Short: "List the distinct non-missing values of a column",
	Args:  cobra.ExactArgs(2),
	RunE:  runValues,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as YAML",
	Args:  cobra.NoArgs,
	RunE:  runConfig,
}

func init() {
	f := filterCmd.Flags()
	f.StringVar(&filterOpts.column, "column", "", "Column to compare (required)")
	f.StringVar(&filterOpts.value, "value", "", "Value to compare against, typed like the column")
	f.BoolVar(&filterOpts.negate, "negate", false, "Keep the rows that do not match")
	f.StringVarP(&filterOpts.output, "output", "o", "", "Destination; prints the rows when empty")
	_ = filterCmd.MarkFlagRequired("column")
}

func runFilter(cmd *cobra.Command, args []string) error {
	ctx := cmdContext(cmd)
	out := cmd.OutOrStdout()

	t, err := tableio.Load(ctx, args[0])
	if err != nil {
		return err
	}
	value, err := parseCell(t, filterOpts.column, filterOpts.value)
	if err != nil {
		return err
	}
	res, err := sampling.Filter(t, filterOpts.column, value, filterOpts.negate)
	if err != nil {
		return err
	}
	currentLogger().Info("filtered",
		zap.String("column", filterOpts.column),
		zap.String("value", record.FormatValue(value)),
		zap.Bool("negate", filterOpts.negate),
		zap.Int("rows_in", t.NumRows()),
		zap.Int("rows_out", res.NumRows()))

	if filterOpts.output == "" {
		return table.Render(out, res, 0)
	}
	dest := tableio.EnsureExtension(filterOpts.output)
	if err := tableio.Write(ctx, res, dest); err != nil {
		return err
	}
	fmt.Fprintln(out, noteStyle.Render("Output written to "+dest))
	return nil
}

func runColumns(cmd *cobra.Command, args []string) error {
	t, err := tableio.Load(cmdContext(cmd), args[0])
	if err != nil {
		return err
	}
	schema := record.Schema{Cols: []record.Column{
		{Name: "column", Type: record.ColText},
		{Name: "type", Type: record.ColText},
		{Name: "distinct", Type: record.ColInt64},
		{Name: "missing", Type: record.ColInt64},
	}}
	info := t.Describe()
	rows := make([][]any, len(info))
	for i, ci := range info {
		rows[i] = []any{ci.Name, ci.Type.String(), int64(ci.Distinct), int64(ci.Missing)}
	}
	summary, err := table.New(schema, rows)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d rows\n", t.NumRows())
	return table.Render(cmd.OutOrStdout(), summary, 0)
}

func runValues(cmd *cobra.Command, args []string) error {
	t, err := tableio.Load(cmdContext(cmd), args[0])
	if err != nil {
		return err
	}
	values, err := t.Distinct(args[1])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, v := range values {
		fmt.Fprintln(out, record.FormatValue(v))
	}
	return nil
}

func runConfig(cmd *cobra.Command, args []string) error {
	c, err := currentConfig()
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return err
	}
	return enc.Close()
}
