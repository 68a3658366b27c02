/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package validate provides the validate command for themevars.
package validate

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"bennypowers.dev/themevars/cmd/cmdutil"
	"bennypowers.dev/themevars/config"
	"bennypowers.dev/themevars/fs"
	"bennypowers.dev/themevars/load"
	"bennypowers.dev/themevars/project"
)

// Cmd is the validate cobra command.
var Cmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the themevars config and its themes",
	Long: `Validate the config, load every theme file, check that all themes
share one shape and render the full variable stylesheet.`,
	Args: cobra.NoArgs,
	RunE: run,
}

func init() {
	Cmd.Flags().Bool("quiet", false, "Only output errors")
}

// Summary describes a valid project.
type Summary struct {
	Config       string
	Themes       []string
	Variables    int
	ContentFiles int
}

func run(cmd *cobra.Command, args []string) error {
	quiet, _ := cmd.Flags().GetBool("quiet")

	root, err := cmdutil.Root()
	if err != nil {
		return err
	}
	summary, err := Check(cmd.Context(), fs.NewOSFileSystem(), root, cmdutil.Fetcher())
	if err != nil {
		for _, line := range errorLines(err) {
			fmt.Fprintf(cmd.ErrOrStderr(), "error: %s\n", line)
		}
		return fmt.Errorf("validation failed")
	}
	if !quiet {
		Print(cmd.OutOrStdout(), summary)
	}
	return nil
}

// Check loads and validates the project at root.
func Check(ctx context.Context, filesystem fs.FileSystem, root string, fetcher load.Fetcher) (*Summary, error) {
	cfg, err := config.Load(filesystem, root)
	if err != nil {
		return nil, err
	}
	cmdutil.ApplyOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	p, err := project.Open(ctx, project.Options{Root: root, FS: filesystem, Config: cfg, Fetcher: fetcher})
	if err != nil {
		return nil, err
	}
	if _, err := p.Preset.StaticCSS(); err != nil {
		return nil, err
	}
	files, err := cfg.ExpandContent(filesystem, root)
	if err != nil {
		return nil, err
	}

	return &Summary{
		Config:       cfg.Path,
		Themes:       p.Preset.Keys(),
		Variables:    p.Preset.Table().Len(),
		ContentFiles: len(files),
	}, nil
}

// Print writes a human-readable summary.
func Print(w io.Writer, s *Summary) {
	fmt.Fprintf(w, "✓ %s is valid\n", s.Config)
	fmt.Fprintf(w, "  themes: %s\n", strings.Join(s.Themes, ", "))
	fmt.Fprintf(w, "  variables: %d\n", s.Variables)
	fmt.Fprintf(w, "  content files: %d\n", s.ContentFiles)
}

// errorLines splits joined errors so each prints on its own line.
func errorLines(err error) []string {
	return strings.Split(err.Error(), "\n")
}
