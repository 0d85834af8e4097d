package prompt

import (
	"fmt"
	"strings"

	"github.com/tuannm99/strata/internal/record"
	"github.com/tuannm99/strata/internal/sampling"
	"github.com/tuannm99/strata/internal/table"
)

// Plan is everything one interactive run decided.
type Plan struct {
	Request sampling.Request
	Output  string
}

const DefaultOutput = "sampled_data.tsv"

type Defaults struct {
	Mode       sampling.Mode
	OutputPath string
}

// Plan walks the user through a stratified draw over t. Over-large answers
// are clamped to what the data holds, with a message.
func (p *Prompter) Plan(t *table.Table, def Defaults) (*Plan, error) {
	p.Printf("Columns in data: %v\n", t.Schema.Names())

	labelCol, err := p.Column(t, "Enter the main grouping column")
	if err != nil {
		return nil, err
	}
	labelVal, err := p.Value(t, labelCol)
	if err != nil {
		return nil, err
	}
	groupCol, err := p.Column(t, "Enter the secondary column to organize sampling from")
	if err != nil {
		return nil, err
	}

	selected, err := sampling.Filter(t, labelCol, labelVal, false)
	if err != nil {
		return nil, err
	}
	other, err := sampling.Filter(t, labelCol, labelVal, true)
	if err != nil {
		return nil, err
	}
	shownVal := record.FormatValue(labelVal)

	p.Printf("Number of samples available matching selected value: %d\n", selected.NumRows())
	quota, err := p.PositiveInt("Enter the number of samples to select from each group: ")
	if err != nil {
		return nil, err
	}
	if quota > selected.NumRows() {
		p.Printf("Not enough data to sample %d items from the selected group.\n", quota)
		p.Printf("Selecting maximum available samples instead.\n")
		quota = selected.NumRows()
	}

	selGroups, err := selected.Distinct(groupCol)
	if err != nil {
		return nil, err
	}
	p.Printf("Number of unique '%s' values available in selected group: %d\n", groupCol, len(selGroups))
	groups, err := p.PositiveInt(fmt.Sprintf("Enter number of unique '%s' values to sample from %s: ", groupCol, shownVal))
	if err != nil {
		return nil, err
	}
	if groups > len(selGroups) {
		p.Printf("Not enough unique values to sample %d from the selected group.\n", groups)
		p.Printf("Sampling from all available groups instead.\n")
		groups = len(selGroups)
	}

	req := sampling.Request{
		LabelColumn:        labelCol,
		LabelValue:         labelVal,
		GroupColumn:        groupCol,
		RowQuotaEach:       quota,
		GroupCountSelected: groups,
		Mode:               def.Mode,
		Other:              sampling.OtherAll,
	}

	choose, err := p.YesNo("Do you want to input the number of groups to sample from the non-selected group? (y/n): ")
	if err != nil {
		return nil, err
	}
	if choose {
		otherGroups, err := other.Distinct(groupCol)
		if err != nil {
			return nil, err
		}
		p.Printf("Number of unique '%s' values in non-selected group: %d\n", groupCol, len(otherGroups))
		n, err := p.PositiveInt(fmt.Sprintf("Enter number of unique '%s' values to sample from non-%s: ", groupCol, shownVal))
		if err != nil {
			return nil, err
		}
		if n > len(otherGroups) {
			p.Printf("Only %d available. Using the full non-selected group instead.\n", len(otherGroups))
		} else {
			req.GroupCountOther = n
			req.Other = sampling.OtherGrouped
		}
	}

	if def.OutputPath == "" {
		def.OutputPath = DefaultOutput
	}
	out, err := p.Text(fmt.Sprintf("Enter output filename (default: %s): ", def.OutputPath), def.OutputPath)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(out, ".tsv") {
		out += ".tsv"
	}
	return &Plan{Request: req, Output: out}, nil
}
