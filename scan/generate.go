// SPDX-License-Identifier: MIT

package scan

import (
	"fmt"
	"strings"

	"github.com/katalvlaran/rulial/rule"
)

// Mode selects how a scan produces its rules.
type Mode string

const (
	// ModeRandom draws each rule from its own seeded stream.
	ModeRandom Mode = "random"
	// ModeCondensate draws like ModeRandom and adds B0 when the birth set
	// holds neither 0 nor 1.
	ModeCondensate Mode = "condensate"
	// ModeList scans Config.Rules verbatim.
	ModeList Mode = "list"
)

// ParseMode accepts random, condensate and list.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeRandom, ModeCondensate, ModeList:
		return m, nil
	}

	return "", fmt.Errorf("%w: mode %q", ErrInvalidConfig, s)
}

// Generate returns the rules a scan visits: Count draws for the random
// modes, Rules for ModeList. Duplicates are dropped, keeping first
// occurrence; random scans may therefore return fewer than Count rules.
func Generate(cfg Config) []rule.Spec {
	var raw []rule.Spec
	switch cfg.Mode {
	case ModeList:
		raw = cfg.Rules
	default:
		raw = make([]rule.Spec, cfg.Count)
		for i := range raw {
			spec := rule.Random(ruleRNG(cfg.Seed, i))
			if cfg.Mode == ModeCondensate && !spec.Born(0) && !spec.Born(1) {
				spec = spec.WithBorn(0)
			}
			raw[i] = spec
		}
	}

	seen := make(map[rule.Spec]struct{}, len(raw))
	out := make([]rule.Spec, 0, len(raw))
	for _, spec := range raw {
		if _, dup := seen[spec]; dup {
			continue
		}
		seen[spec] = struct{}{}
		out = append(out, spec)
	}

	return out
}
