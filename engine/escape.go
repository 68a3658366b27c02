/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package engine

import (
	"fmt"
	"strings"
)

// EscapeSelector escapes a candidate for use as a class selector,
// following the CSS.escape() algorithm: "dark:text-a/40" becomes
// "dark\:text-a\/40".
func EscapeSelector(raw string) string {
	var sb strings.Builder
	for i, r := range raw {
		switch {
		case r == 0:
			sb.WriteString("�")
		case r >= 0x01 && r <= 0x1f, r == 0x7f:
			fmt.Fprintf(&sb, "\\%x ", r)
		case i == 0 && r >= '0' && r <= '9':
			fmt.Fprintf(&sb, "\\%x ", r)
		case i == 1 && r >= '0' && r <= '9' && raw[0] == '-':
			fmt.Fprintf(&sb, "\\%x ", r)
		case i == 0 && r == '-' && len(raw) == 1:
			sb.WriteString("\\-")
		case r >= 0x80, r == '-', r == '_',
			r >= '0' && r <= '9', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			sb.WriteRune(r)
		default:
			sb.WriteByte('\\')
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// ClassSelector returns the class selector for a candidate.
func ClassSelector(raw string) string {
	return "." + EscapeSelector(raw)
}
