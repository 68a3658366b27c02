/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package cmd provides CLI commands for themevars.
package cmd

import (
	"context"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"bennypowers.dev/themevars/cmd/generate"
	"bennypowers.dev/themevars/cmd/mcp"
	"bennypowers.dev/themevars/cmd/validate"
	"bennypowers.dev/themevars/cmd/vars"
	"bennypowers.dev/themevars/cmd/version"
	"bennypowers.dev/themevars/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "themevars",
	Short: "Generate themed CSS variables for utility classes",
	Long: `themevars turns design-token themes into CSS custom properties.

Theme values become variables on per-theme selectors (:root, .dark, ...),
and utilities reference the variables, so switching a class on an ancestor
switches the theme. Only the variables used by generated utilities are
emitted.

Configuration is read from .config/themevars.{yaml,yml,json}. Flags
override the config file; every persistent flag can also be set through
a THEMEVARS_ environment variable, e.g. THEMEVARS_DARK_MODE=media.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute runs the root command, cancelling on interrupt.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringP("root", "C", ".", "Project directory containing .config/themevars.yaml")
	flags.String("prefix", "", "Variable prefix (default --un-preset-theme)")
	flags.String("dark-mode", "", "Dark mode: class or media")
	flags.String("cdn", "", "CDN for --fetch: unpkg, jsdelivr or esm.sh")
	flags.Bool("fetch", false, "Fetch package theme files from a CDN when they are not installed")
	flags.BoolP("verbose", "v", false, "Log debug messages")

	_ = viper.BindPFlags(flags)
	viper.SetEnvPrefix("THEMEVARS")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	rootCmd.AddCommand(generate.Cmd)
	rootCmd.AddCommand(vars.Cmd)
	rootCmd.AddCommand(validate.Cmd)
	rootCmd.AddCommand(mcp.Cmd)
	rootCmd.AddCommand(version.Cmd)
}

func setup(cmd *cobra.Command, args []string) error {
	logger.SetVerbose(viper.GetBool("verbose"))
	return nil
}
