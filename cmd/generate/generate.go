/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package generate provides the generate command for themevars.
package generate

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"bennypowers.dev/themevars/cmd/cmdutil"
	"bennypowers.dev/themevars/engine"
	"bennypowers.dev/themevars/internal/logger"
	"bennypowers.dev/themevars/project"
)

// Cmd is the generate cobra command.
var Cmd = &cobra.Command{
	Use:   "generate [utilities...]",
	Short: "Generate CSS for utility classes",
	Long: `Generate CSS for the utilities named on the command line, the targets
listed in the config and the utilities found in content files.

The theme layer declares only the variables the generated utilities use.
With --all, every theme variable is declared and no utilities are emitted.`,
	Args: cobra.ArbitraryArgs,
	RunE: run,
}

func init() {
	Cmd.Flags().StringP("output", "o", "", "Output file (default: config output, or stdout)")
	Cmd.Flags().Bool("no-scan", false, "Do not scan content files for utilities")
	Cmd.Flags().Bool("no-preflights", false, "Omit the theme variable layer")
	Cmd.Flags().Bool("all", false, "Declare every theme variable instead of only the used ones")
}

// Options controls Render.
type Options struct {
	Targets      []string
	NoScan       bool
	NoPreflights bool
	All          bool
}

func run(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")
	noScan, _ := cmd.Flags().GetBool("no-scan")
	noPreflights, _ := cmd.Flags().GetBool("no-preflights")
	all, _ := cmd.Flags().GetBool("all")

	p, err := cmdutil.Open(cmd.Context())
	if err != nil {
		return err
	}

	css, err := Render(cmd.Context(), p, Options{
		Targets:      args,
		NoScan:       noScan,
		NoPreflights: noPreflights,
		All:          all,
	})
	if err != nil {
		return err
	}

	if output == "" {
		output = p.Config.Output
	}
	if output == "" || output == "-" {
		_, err := fmt.Fprint(cmd.OutOrStdout(), css)
		return err
	}
	return Write(p, output, css)
}

// Render generates the stylesheet for p.
func Render(ctx context.Context, p *project.Project, opts Options) (string, error) {
	if opts.All {
		return p.Preset.StaticCSS()
	}

	var targets []string
	if opts.NoScan {
		targets = append(append(targets, p.Config.Targets...), opts.Targets...)
	} else {
		var err error
		if targets, err = p.Targets(ctx, opts.Targets); err != nil {
			return "", err
		}
	}
	if len(targets) == 0 {
		logger.Warn("no utilities to generate: pass them as arguments, or set targets or content in the config")
	}

	res, err := p.Generator.Generate(ctx, targets, engine.GenerateOptions{Preflights: !opts.NoPreflights})
	if err != nil {
		return "", err
	}
	logger.Debug("matched %d of %d candidates", len(res.Matched), len(targets))
	return res.CSS, nil
}

// Write writes css to output, relative to the project root.
func Write(p *project.Project, output, css string) error {
	if !filepath.IsAbs(output) {
		output = filepath.Join(p.Root, output)
	}
	if err := p.FS.MkdirAll(filepath.Dir(output), 0755); err != nil {
		return fmt.Errorf("error creating output directory: %w", err)
	}
	if err := p.FS.WriteFile(output, []byte(css), 0644); err != nil {
		return fmt.Errorf("error writing %s: %w", output, err)
	}
	logger.Info("wrote %s", output)
	return nil
}
