/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package tree

// Merge returns a deep merge of patch onto base. Neither argument is
// modified. Nested mappings merge recursively; any other node in patch
// replaces the node in base, so sequences are replaced wholesale. Keys
// already in base keep their position and new keys are appended.
func Merge(base, patch *Mapping) *Mapping {
	out := base.CloneMapping()
	mergeInto(out, patch)
	return out
}

// MergeAll folds Merge over mappings from left to right.
func MergeAll(mappings ...*Mapping) *Mapping {
	out := NewMapping()
	for _, m := range mappings {
		mergeInto(out, m)
	}
	return out
}

func mergeInto(dst, patch *Mapping) {
	if patch == nil {
		return
	}
	for _, k := range patch.keys {
		pv := patch.values[k]
		if pm, ok := pv.(*Mapping); ok {
			if dm, ok := dst.Mapping(k); ok {
				mergeInto(dm, pm)
				continue
			}
		}
		if pv != nil {
			pv = pv.Clone()
		}
		dst.Set(k, pv)
	}
}
