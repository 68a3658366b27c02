/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package mcp provides the mcp command for themevars.
package mcp

import (
	"io"

	"github.com/spf13/cobra"

	"bennypowers.dev/themevars/cmd/cmdutil"
	"bennypowers.dev/themevars/internal/logger"
	"bennypowers.dev/themevars/mcpserver"
)

// Cmd is the mcp cobra command.
var Cmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run a Model Context Protocol server over stdio",
	Long: `Run a Model Context Protocol server over stdio.

The server exposes the generate_css and list_variables tools for the
project the config describes.`,
	Args: cobra.NoArgs,
	RunE: run,
}

func run(cmd *cobra.Command, args []string) error {
	// stdout carries the protocol
	logger.SetOutput(io.Discard)

	p, err := cmdutil.Open(cmd.Context())
	if err != nil {
		return err
	}
	return mcpserver.NewServer(p).Serve(cmd.Context())
}
