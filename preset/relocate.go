/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package preset

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"bennypowers.dev/themevars/cssparse"
	"bennypowers.dev/themevars/engine"
	"bennypowers.dev/themevars/internal/logger"
)

// markerToken is the reserved utility name that makes the engine emit a
// theme's declarations.
const markerToken = "__themevars"

var (
	markerPattern = regexp.MustCompile(`^(?:(?:dark|light):)?` + markerToken + `:([^:\s]+):(\d+)$`)
	schemeOpenRE  = regexp.MustCompile(`^@media \(prefers-color-scheme: (dark|light)\)\{$`)
	ruleLineRE    = regexp.MustCompile(`^([^{}]+)\{([^{}]*)\}$`)
)

// syntheticBlock is the declaration body the engine emitted for one
// theme key.
type syntheticBlock struct {
	key string
	// scheme is "dark" or "light" when the engine wrapped the rule in a
	// prefers-color-scheme query.
	scheme string
	body   string
}

// parseSyntheticBlocks reads engine output for marker utilities.
// markers maps each marker's class selector to its theme key. Every rule
// must target a marker, either alone or under a single ancestor selector,
// and the only at-rules allowed are prefers-color-scheme queries.
func parseSyntheticBlocks(css string, markers map[string]string) ([]syntheticBlock, error) {
	var (
		blocks []syntheticBlock
		scheme string
		open   bool
	)
	for n, line := range strings.Split(css, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case line == "", strings.HasPrefix(line, "/* layer:"):
			continue
		case strings.HasPrefix(line, "@"):
			m := schemeOpenRE.FindStringSubmatch(line)
			if m == nil || open {
				return nil, fmt.Errorf("%w: line %d: %q", ErrUnmatchedMarker, n+1, line)
			}
			scheme, open = m[1], true
		case line == "}":
			if !open {
				return nil, fmt.Errorf("%w: line %d: unexpected '}'", ErrUnmatchedMarker, n+1)
			}
			scheme, open = "", false
		default:
			m := ruleLineRE.FindStringSubmatch(line)
			if m == nil {
				return nil, fmt.Errorf("%w: line %d: %q", ErrUnmatchedMarker, n+1, line)
			}
			key, ok := markerKey(strings.TrimSpace(m[1]), markers)
			if !ok {
				return nil, fmt.Errorf("%w: line %d: selector %q", ErrUnmatchedMarker, n+1, m[1])
			}
			blocks = append(blocks, syntheticBlock{key: key, scheme: scheme, body: m[2]})
		}
	}
	if open {
		return nil, fmt.Errorf("%w: unterminated @media block", ErrUnmatchedMarker)
	}
	return blocks, nil
}

func markerKey(selector string, markers map[string]string) (string, bool) {
	if key, ok := markers[selector]; ok {
		return key, true
	}
	i := strings.LastIndexByte(selector, ' ')
	if i <= 0 || strings.ContainsAny(selector[:i], " \t") {
		return "", false
	}
	key, ok := markers[selector[i+1:]]
	return key, ok
}

// declarations returns the entries of vars that have a value for key,
// each followed by its alpha companion.
func declarations(vars []*Variable, key string) []engine.Entry {
	var entries []engine.Entry
	for _, v := range vars {
		value, ok := v.Values[key]
		if !ok {
			continue
		}
		entries = append(entries, engine.Entry{Property: v.Name, Value: value})
		if v.AlphaName == "" {
			continue
		}
		if alpha, ok := v.AlphaValues[key]; ok {
			entries = append(entries, engine.Entry{Property: v.AlphaName, Value: alpha})
		}
	}
	return entries
}

func renderBody(entries []engine.Entry) string {
	var sb strings.Builder
	for _, e := range entries {
		sb.WriteString(e.Property)
		sb.WriteByte(':')
		sb.WriteString(e.Value)
		sb.WriteByte(';')
	}
	return sb.String()
}

// Block ranks, in output order. Root defaults come first so that the
// scoped blocks after them win the cascade.
const (
	rankBase = iota
	rankScheme
	rankSelector
	rankBreakpoint
)

type renderedBlock struct {
	rank  int
	index int
	css   string
}

// render scopes every block and orders them: the base selector block,
// then prefers-color-scheme blocks, then other selector blocks in theme
// order, then breakpoint blocks.
func (p *Preset) render(blocks []syntheticBlock) (string, error) {
	index := make(map[string]int, len(p.keys))
	for i, key := range p.keys {
		index[key] = i
	}

	out := make([]renderedBlock, 0, len(blocks))
	for _, b := range blocks {
		if b.body == "" {
			continue
		}
		rb := renderedBlock{index: index[b.key]}
		switch {
		case b.scheme != "":
			if !p.selectors.schemeScoped(b.key) {
				return "", fmt.Errorf("%w: theme %q emitted inside a %s color scheme query", ErrUnmatchedMarker, b.key, b.scheme)
			}
			rb.rank = rankScheme
			rb.css = mediaBlock("(prefers-color-scheme: "+b.scheme+")", b.body)
		case strings.HasPrefix(b.key, "@"):
			rb.rank = rankBreakpoint
			rb.css = mediaBlock("(min-width: "+p.breakpoints[b.key[1:]]+")", b.body)
		case b.key == p.base:
			rb.rank = rankBase
			rb.css = p.selectors.Selector(b.key) + "{" + b.body + "}"
		default:
			rb.rank = rankSelector
			rb.css = p.selectors.Selector(b.key) + "{" + b.body + "}"
		}
		out = append(out, rb)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].rank != out[j].rank {
			return out[i].rank < out[j].rank
		}
		return out[i].index < out[j].index
	})

	lines := make([]string, len(out))
	for i, rb := range out {
		lines[i] = rb.css
	}
	return strings.Join(lines, "\n"), nil
}

func mediaBlock(query, body string) string {
	return "@media " + query + "{\n:root{" + body + "}\n}"
}

// stamp returns a token unique to one preflight call.
func (p *Preset) stamp() string {
	return strconv.FormatInt(time.Now().UnixMilli(), 10) + strconv.FormatUint(p.counter.Add(1), 10)
}

// themeCSS is the theme layer preflight. It asks the engine for one
// marker utility per theme key, then scopes the resulting declaration
// blocks.
func (p *Preset) themeCSS(ctx context.Context, run *engine.Run) (string, error) {
	if run.Nested() {
		return "", nil
	}
	if p.table == nil {
		return "", ErrNotBound
	}
	// the marker rule reads this session through the nested run
	p.session(run)

	stamp := p.stamp()
	markers := make(map[string]string, len(p.keys))
	targets := make([]string, 0, len(p.keys))
	for _, key := range p.keys {
		raw := markerToken + ":" + key + ":" + stamp
		if p.selectors.schemeScoped(key) {
			raw = key + ":" + raw
		}
		markers[engine.ClassSelector(raw)] = key
		targets = append(targets, raw)
	}
	logger.Debug("generating theme markers: %s", strings.Join(targets, " "))

	res, err := run.Generator.Generate(ctx, targets, engine.GenerateOptions{Parent: run})
	if err != nil {
		return "", fmt.Errorf("generating theme markers: %w", err)
	}

	blocks, err := parseSyntheticBlocks(res.CSS, markers)
	if err != nil {
		return "", err
	}
	css, err := p.render(blocks)
	if err != nil {
		return "", err
	}
	if err := cssparse.Verify(css, markerToken); err != nil {
		return "", fmt.Errorf("theme layer: %w", err)
	}
	return css, nil
}

// markerRule answers marker utilities in nested runs with the used
// variables' declarations for the marker's theme key.
func (p *Preset) markerRule() engine.Rule {
	return engine.Rule{
		Name:     "themevars-marker",
		Pattern:  markerPattern,
		Layer:    LayerTheme,
		Volatile: true,
		Handler: func(m []string, ctx *engine.RuleContext) ([]engine.Entry, bool) {
			if !ctx.Run.Nested() {
				return nil, false
			}
			return declarations(p.session(ctx.Run).Used(), m[1]), true
		},
	}
}
