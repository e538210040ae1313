// Package util provides common utility functions.
package util

import (
	"regexp"
	"strings"
)

var (
	// Runs of whitespace, underscores, dots, and slashes become one dash.
	separatorRe = regexp.MustCompile(`[\s_./]+`)
	// Anything that is not a lowercase letter, digit, or dash is dropped.
	strayRe = regexp.MustCompile(`[^a-z0-9-]`)
	// Collapses dash runs left over after stripping.
	dashRunRe = regexp.MustCompile(`--+`)
)

// NormalizeTagSlug derives the canonical slug a tag name is unique
// under. Two names that normalize to the same slug are the same tag;
// the name itself keeps the caller's spelling.
//
// The input is lowercased, separator characters become dashes, anything
// else non-alphanumeric is dropped, and dash runs collapse:
//
//	"Slow Burn"  -> "slow-burn"
//	"SLOW_BURN"  -> "slow-burn"
//	"c++"        -> "c"
//	"  a  b  "   -> "a-b"
//
// Returns "" when nothing usable remains; callers reject that.
func NormalizeTagSlug(input string) string {
	s := strings.ToLower(strings.TrimSpace(input))
	s = separatorRe.ReplaceAllString(s, "-")
	s = strayRe.ReplaceAllString(s, "")
	s = dashRunRe.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
