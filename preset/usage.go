/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package preset

import (
	"regexp"

	"bennypowers.dev/themevars/engine"
)

// Ledger records which variables generated utilities referenced.
type Ledger struct {
	entries []*Variable
	used    map[string]bool
}

// Mark records a use of v.
func (l *Ledger) Mark(v *Variable) {
	if l.used == nil {
		l.used = make(map[string]bool)
	}
	l.entries = append(l.entries, v)
	l.used[v.Name] = true
}

// Used reports whether v was referenced.
func (l *Ledger) Used(v *Variable) bool {
	return l.used[v.Name]
}

// Len returns the number of recorded uses, duplicates included.
func (l *Ledger) Len() int {
	return len(l.entries)
}

// Session is the usage state of one generation run. It is created on
// the outermost run, so runs never share a ledger.
type Session struct {
	table  *Table
	varRE  *regexp.Regexp
	ledger Ledger
}

type sessionKey struct{}

func newSession(table *Table, varRE *regexp.Regexp) *Session {
	return &Session{table: table, varRE: varRE}
}

// varPattern matches var() references to variables under prefix and
// captures the name.
func varPattern(prefix string) *regexp.Regexp {
	return regexp.MustCompile(`var\((` + regexp.QuoteMeta(prefix) + `(?:\\.|[\w-])*)`)
}

// Track marks every table variable referenced by the utility's values.
func (s *Session) Track(u *engine.Utility) {
	for _, e := range u.Entries {
		for _, m := range s.varRE.FindAllStringSubmatch(e.Value, -1) {
			if v, ok := s.table.Lookup(m[1]); ok {
				s.ledger.Mark(v)
			}
		}
	}
}

// Ledger returns the session's ledger.
func (s *Session) Ledger() *Ledger {
	return &s.ledger
}

// Used returns the referenced variables in table order.
func (s *Session) Used() []*Variable {
	var out []*Variable
	for _, v := range s.table.Variables() {
		if s.ledger.Used(v) {
			out = append(out, v)
		}
	}
	return out
}
