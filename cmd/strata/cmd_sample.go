package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tuannm99/strata/internal"
	"github.com/tuannm99/strata/internal/prompt"
	"github.com/tuannm99/strata/internal/record"
	"github.com/tuannm99/strata/internal/sampling"
	"github.com/tuannm99/strata/internal/table"
	"github.com/tuannm99/strata/internal/tableio"
)

var sampleOpts struct {
	labelColumn string
	labelValue  string
	groupColumn string
	quota       int
	groups      int
	otherGroups int
	mode        string
	other       string
	output      string
	oversample  bool
	history     string
}

var noteStyle = lipgloss.NewStyle().Bold(true)

var sampleCmd = &cobra.Command{
	Use:   "sample <source>",
	Short: "Draw a stratified sample from a table",
	Long: `Splits the table into rows whose label column equals the label value and
the rest, draws a roster of groups on each side and fills the row quota by
cycling through the roster.

Without --label-column the run is interactive. With it, every answer comes
from flags:

  strata sample animals.tsv --label-column Class --label-value Mammal \
      --group-column Order --quota 4 --groups 2 --other-groups 2`,
	Args: cobra.ExactArgs(1),
	RunE: runSample,
}

func init() {
	f := sampleCmd.Flags()
	f.StringVar(&sampleOpts.labelColumn, "label-column", "", "Column that splits the table (enables non-interactive mode)")
	f.StringVar(&sampleOpts.labelValue, "label-value", "", "Label value of the selected partition")
	f.StringVar(&sampleOpts.groupColumn, "group-column", "", "Column whose values form the groups")
	f.IntVar(&sampleOpts.quota, "quota", 0, "Rows to draw from each partition")
	f.IntVar(&sampleOpts.groups, "groups", 0, "Groups to draw from the selected partition")
	f.IntVar(&sampleOpts.otherGroups, "other-groups", 0, "Groups to draw from the other partition (grouped strategy)")
	f.StringVar(&sampleOpts.mode, "mode", "", "strict|lenient (default from config)")
	f.StringVar(&sampleOpts.other, "other", "", "grouped|flat|all (default from config)")
	f.StringVarP(&sampleOpts.output, "output", "o", "", "Destination (default from config)")
	f.BoolVar(&sampleOpts.oversample, "oversample", false, "Allow quotas larger than the rostered population")
	f.StringVar(&sampleOpts.history, "history", prompt.DefaultHistoryPath(), "Answer history file for interactive mode")
}

func runSample(cmd *cobra.Command, args []string) error {
	ctx := cmdContext(cmd)
	out := cmd.OutOrStdout()

	c, err := currentConfig()
	if err != nil {
		return err
	}
	t, err := tableio.Load(ctx, args[0])
	if err != nil {
		return err
	}
	currentLogger().Debug("table loaded",
		zap.String("source", args[0]),
		zap.Int("rows", t.NumRows()),
		zap.Strings("columns", t.Schema.Names()))

	var (
		req  sampling.Request
		dest string
	)
	if sampleOpts.labelColumn != "" {
		req, dest, err = requestFromFlags(cmd, c, t)
	} else {
		req, dest, err = requestFromPrompt(cmd, c, t)
	}
	if err != nil {
		return err
	}

	oversample := c.Sampling.Oversample
	if cmd.Flags().Changed("oversample") {
		oversample = sampleOpts.oversample
	}
	res, err := newSampler(cmd, c, oversample).Stratify(t, req)
	if err != nil {
		return err
	}

	printRosters(out, req, res)
	if err := table.Render(out, res.Table, c.Output.PreviewRows); err != nil {
		return err
	}

	if err := tableio.Write(ctx, res.Table, dest); err != nil {
		return err
	}
	fmt.Fprintln(out, noteStyle.Render("Output written to "+dest))
	return nil
}

func requestFromFlags(cmd *cobra.Command, c *internal.StrataConfig, t *table.Table) (sampling.Request, string, error) {
	var req sampling.Request

	value, err := parseCell(t, sampleOpts.labelColumn, sampleOpts.labelValue)
	if err != nil {
		return req, "", err
	}

	modeName := c.Sampling.Mode
	if cmd.Flags().Changed("mode") {
		modeName = sampleOpts.mode
	}
	mode, err := sampling.ParseMode(modeName)
	if err != nil {
		return req, "", err
	}
	otherName := c.Sampling.Other
	if cmd.Flags().Changed("other") {
		otherName = sampleOpts.other
	}
	other, err := sampling.ParseOtherStrategy(otherName)
	if err != nil {
		return req, "", err
	}

	req = sampling.Request{
		LabelColumn:        sampleOpts.labelColumn,
		LabelValue:         value,
		GroupColumn:        sampleOpts.groupColumn,
		RowQuotaEach:       sampleOpts.quota,
		GroupCountSelected: sampleOpts.groups,
		GroupCountOther:    sampleOpts.otherGroups,
		Mode:               mode,
		Other:              other,
	}

	dest := sampleOpts.output
	if dest == "" {
		dest = c.Output.DefaultPath
	}
	return req, tableio.EnsureExtension(dest), nil
}

func requestFromPrompt(cmd *cobra.Command, c *internal.StrataConfig, t *table.Table) (sampling.Request, string, error) {
	mode, err := sampling.ParseMode(c.Sampling.Mode)
	if err != nil {
		return sampling.Request{}, "", err
	}

	hist := prompt.NewHistory(sampleOpts.history)
	if err := hist.Load(2000); err != nil {
		currentLogger().Warn("history not loaded", zap.Error(err))
	}
	rl, err := prompt.NewTerminal(hist)
	if err != nil {
		return sampling.Request{}, "", fmt.Errorf("readline: %w", err)
	}
	defer func() { _ = rl.Close() }()

	p := prompt.New(rl, cmd.OutOrStdout()).WithHistory(hist)
	plan, err := p.Plan(t, prompt.Defaults{Mode: mode, OutputPath: c.Output.DefaultPath})
	if err != nil {
		return sampling.Request{}, "", err
	}
	return plan.Request, plan.Output, nil
}

// parseCell converts a flag string to the type of column's cells.
func parseCell(t *table.Table, column, raw string) (any, error) {
	idx, err := t.Column(column)
	if err != nil {
		return nil, err
	}
	typ := t.Schema.Cols[idx].Type
	v, err := record.ParseValue(typ, raw)
	if err != nil {
		return nil, fmt.Errorf("value for %q: %w", column, err)
	}
	if v == nil {
		return nil, fmt.Errorf("value for %q: %q is a missing-value marker", column, raw)
	}
	return v, nil
}

func printRosters(w io.Writer, req sampling.Request, res *sampling.Outcome) {
	label := record.FormatValue(req.LabelValue)
	if res.SelectedRoster != nil {
		fmt.Fprintf(w, "Selected groups from %s '%s': %s\n", req.GroupColumn, label, formatRoster(res.SelectedRoster))
	}
	if res.OtherRoster != nil {
		fmt.Fprintf(w, "Selected groups from %s 'non-%s': %s\n", req.GroupColumn, label, formatRoster(res.OtherRoster))
	}
}

func formatRoster(roster []any) string {
	parts := make([]string, len(roster))
	for i, g := range roster {
		parts[i] = record.FormatValue(g)
	}
	return fmt.Sprintf("%v", parts)
}
