/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package vars provides the vars command for themevars.
package vars

import (
	"fmt"
	"io"
	"regexp"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"bennypowers.dev/themevars/cmd/cmdutil"
	"bennypowers.dev/themevars/cmd/render"
	"bennypowers.dev/themevars/project"
)

// Cmd is the vars cobra command.
var Cmd = &cobra.Command{
	Use:   "vars [query]",
	Short: "List theme variables",
	Long: `List every theme variable with its value in each theme.

A query filters variables by name, token path or value. Use --regex to
treat the query as a regular expression.`,
	Args: cobra.MaximumNArgs(1),
	RunE: run,
}

func init() {
	Cmd.Flags().StringP("format", "f", "table", "Output format: table, json, markdown, names, css")
	Cmd.Flags().Bool("regex", false, "Query is a regex")
	Cmd.Flags().Bool("name", false, "Search names and paths only")
	Cmd.Flags().Bool("value", false, "Search values only")
	Cmd.Flags().String("theme", "", "Only list variables the theme defines")
	Cmd.Flags().Bool("swatches", false, "Show color swatches in table output")
	Cmd.Flags().Bool("toc", false, "Include a table of contents in markdown output")
	Cmd.Flags().Int("toc-depth", 3, "Maximum table of contents depth")
}

// Filter selects rows.
type Filter struct {
	Query     string
	Pattern   *regexp.Regexp
	NameOnly  bool
	ValueOnly bool
	Theme     string
}

func run(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	useRegex, _ := cmd.Flags().GetBool("regex")
	nameOnly, _ := cmd.Flags().GetBool("name")
	valueOnly, _ := cmd.Flags().GetBool("value")
	theme, _ := cmd.Flags().GetString("theme")
	swatches, _ := cmd.Flags().GetBool("swatches")
	toc, _ := cmd.Flags().GetBool("toc")
	tocDepth, _ := cmd.Flags().GetInt("toc-depth")

	filter := Filter{NameOnly: nameOnly, ValueOnly: valueOnly, Theme: theme}
	if len(args) > 0 {
		filter.Query = args[0]
		if useRegex {
			pattern, err := regexp.Compile(filter.Query)
			if err != nil {
				return fmt.Errorf("invalid regex: %w", err)
			}
			filter.Pattern = pattern
		}
	}

	p, err := cmdutil.Open(cmd.Context())
	if err != nil {
		return err
	}
	if theme != "" && !slices.Contains(p.Preset.Keys(), theme) {
		return fmt.Errorf("unknown theme %q, have %s", theme, strings.Join(p.Preset.Keys(), ", "))
	}

	return Print(cmd.OutOrStdout(), p, format, filter, PrintOptions{
		Swatches: swatches,
		Markdown: render.MarkdownOptions{IncludeTOC: toc, TOCDepth: tocDepth},
	})
}

// PrintOptions configures table and markdown output.
type PrintOptions struct {
	Swatches bool
	Markdown render.MarkdownOptions
}

// Print writes the project's variables that pass filter in format.
func Print(w io.Writer, p *project.Project, format string, filter Filter, opts PrintOptions) error {
	keys := p.Preset.Keys()
	rows := FilterRows(render.ComputeRows(p.Preset.Table().Variables(), keys), filter)

	switch format {
	case "json":
		return render.JSON(w, rows)
	case "names":
		return render.Names(w, rows)
	case "markdown", "md":
		return render.Markdown(w, rows, keys, opts.Markdown)
	case "css":
		css, err := p.Preset.StaticCSS()
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(w, css)
		return err
	case "table", "":
		return render.Table(w, rows, opts.Swatches)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

// FilterRows returns the rows that pass f, in order.
func FilterRows(rows []render.Row, f Filter) []render.Row {
	var out []render.Row
	for _, row := range rows {
		if f.Theme != "" && !hasTheme(row, f.Theme) {
			continue
		}
		if f.Query != "" && !f.matches(row) {
			continue
		}
		out = append(out, row)
	}
	return out
}

func (f Filter) matches(row render.Row) bool {
	names := func() bool {
		return matchString(row.Name, f.Query, f.Pattern) ||
			matchString(strings.Join(row.Path, "."), f.Query, f.Pattern)
	}
	values := func() bool {
		for _, v := range row.Values {
			if matchString(v.Display, f.Query, f.Pattern) || matchString(v.Hex, f.Query, f.Pattern) {
				return true
			}
		}
		return false
	}
	switch {
	case f.NameOnly:
		return names()
	case f.ValueOnly:
		return values()
	default:
		return names() || values()
	}
}

func hasTheme(row render.Row, theme string) bool {
	for _, v := range row.Values {
		if v.Theme == theme {
			return true
		}
	}
	return false
}

func matchString(s, query string, pattern *regexp.Regexp) bool {
	if s == "" {
		return false
	}
	if pattern != nil {
		return pattern.MatchString(s)
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(query))
}
