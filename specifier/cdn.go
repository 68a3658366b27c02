/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package specifier

import "fmt"

// CDN names a package CDN used for network fallback.
type CDN string

const (
	CDNUnpkg    CDN = "unpkg"
	CDNJSDelivr CDN = "jsdelivr"
	CDNEsmSh    CDN = "esm.sh"
)

// ParseCDN validates a CDN name. The empty string selects unpkg.
func ParseCDN(s string) (CDN, error) {
	switch CDN(s) {
	case "", CDNUnpkg:
		return CDNUnpkg, nil
	case CDNJSDelivr, CDNEsmSh:
		return CDN(s), nil
	}
	return "", fmt.Errorf("unknown cdn %q (valid: unpkg, jsdelivr, esm.sh)", s)
}

// CDNURL returns the URL of a package specifier's file on cdn.
// Only esm.sh serves jsr: packages. Returns ("", false) for local paths
// and specifiers without a file.
func CDNURL(spec *Specifier, cdn CDN) (string, bool) {
	if spec.Kind == KindLocal || spec.Package == "" || spec.File == "" {
		return "", false
	}
	if cdn == "" {
		cdn = CDNUnpkg
	}
	switch cdn {
	case CDNEsmSh:
		if spec.Kind == KindJSR {
			return "https://esm.sh/jsr/" + spec.Package + "/" + spec.File, true
		}
		return "https://esm.sh/" + spec.Package + "/" + spec.File, true
	case CDNJSDelivr:
		if spec.Kind == KindJSR {
			return "", false
		}
		return "https://cdn.jsdelivr.net/npm/" + spec.Package + "/" + spec.File, true
	default:
		if spec.Kind == KindJSR {
			return "", false
		}
		return "https://unpkg.com/" + spec.Package + "/" + spec.File, true
	}
}
