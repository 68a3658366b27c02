/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package mcpserver exposes a themevars project over the Model Context
// Protocol, so agents can generate themed stylesheets and inspect the
// generated variables.
package mcpserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"bennypowers.dev/themevars/cmd/render"
	"bennypowers.dev/themevars/engine"
	"bennypowers.dev/themevars/internal/version"
	"bennypowers.dev/themevars/project"
)

// Server wraps the MCP server with a loaded project.
type Server struct {
	project *project.Project
	server  *mcp.Server
}

// GenerateInput is the input of the generate_css tool.
type GenerateInput struct {
	Targets     []string `json:"targets,omitempty" jsonschema:"utility class names to generate, e.g. text-main-100 or dark:bg-main-200"`
	ScanContent bool     `json:"scanContent,omitempty" jsonschema:"also generate the utilities found in the project's content files"`
	Preflights  *bool    `json:"preflights,omitempty" jsonschema:"emit the theme variable layer; defaults to true"`
}

// GenerateOutput is the output of the generate_css tool.
type GenerateOutput struct {
	CSS     string   `json:"css"`
	Matched []string `json:"matched"`
}

// ListInput is the input of the list_variables tool.
type ListInput struct {
	Filter string `json:"filter,omitempty" jsonschema:"only list variables whose name or token path contains this text"`
}

// ListOutput is the output of the list_variables tool.
type ListOutput struct {
	Themes    []string     `json:"themes"`
	Variables []render.Row `json:"variables"`
}

// NewServer creates an MCP server for p.
func NewServer(p *project.Project) *Server {
	s := &Server{project: p}
	s.server = mcp.NewServer(&mcp.Implementation{
		Name:    "themevars",
		Version: version.Get(),
	}, nil)
	s.registerTools()
	return s
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "generate_css",
		Description: "Generate CSS for utility classes. The theme layer declares only the theme variables the utilities use, once per theme selector.",
	}, s.handleGenerate)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_variables",
		Description: "List the theme variables with their value in every theme.",
	}, s.handleList)
}

// Serve runs the server over stdio until the client disconnects.
func (s *Server) Serve(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// Connect serves a single session over t.
func (s *Server) Connect(ctx context.Context, t mcp.Transport) (*mcp.ServerSession, error) {
	return s.server.Connect(ctx, t, nil)
}

func (s *Server) handleGenerate(ctx context.Context, _ *mcp.CallToolRequest, in GenerateInput) (*mcp.CallToolResult, GenerateOutput, error) {
	targets := in.Targets
	if in.ScanContent {
		var err error
		if targets, err = s.project.Targets(ctx, in.Targets); err != nil {
			return nil, GenerateOutput{}, err
		}
	}
	if len(targets) == 0 {
		return nil, GenerateOutput{}, fmt.Errorf("no targets: pass targets or set scanContent")
	}
	preflights := in.Preflights == nil || *in.Preflights

	res, err := s.project.Generator.Generate(ctx, targets, engine.GenerateOptions{Preflights: preflights})
	if err != nil {
		return nil, GenerateOutput{}, err
	}
	matched := res.Matched
	if matched == nil {
		matched = []string{}
	}
	return nil, GenerateOutput{CSS: res.CSS, Matched: matched}, nil
}

func (s *Server) handleList(_ context.Context, _ *mcp.CallToolRequest, in ListInput) (*mcp.CallToolResult, ListOutput, error) {
	keys := s.project.Preset.Keys()
	rows := render.ComputeRows(s.project.Preset.Table().Variables(), keys)
	filter := strings.ToLower(in.Filter)
	out := ListOutput{Themes: keys, Variables: []render.Row{}}
	for _, row := range rows {
		if filter == "" ||
			strings.Contains(strings.ToLower(row.Name), filter) ||
			strings.Contains(strings.ToLower(strings.Join(row.Path, ".")), filter) {
			out.Variables = append(out.Variables, row)
		}
	}
	return nil, out, nil
}
