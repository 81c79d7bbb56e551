// Package fuzzy scores string similarity the way the city search needs it:
// a SequenceMatcher ratio and the order-independent token-set ratio built on it.
// Scores are integers on a 0-100 scale.
package fuzzy

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/pmezard/go-difflib/difflib"
)

// Ratio returns 2*M/T scaled to 0-100, where M is the number of matched characters
// and T the combined length. Empty input scores 0.
func Ratio(a, b string) int {
	if a == "" || b == "" {
		return 0
	}
	m := difflib.NewMatcher(strings.Split(a, ""), strings.Split(b, ""))
	return int(math.Round(100 * m.Ratio()))
}

// TokenSetRatio compares the de-duplicated word sets of a and b. Shared tokens are
// scored against each side's leftovers, so a string whose tokens are a subset of the
// other's scores 100 regardless of order.
func TokenSetRatio(a, b string) int {
	p1, p2 := Process(a), Process(b)
	if p1 == "" || p2 == "" {
		return 0
	}

	t1, t2 := tokenSet(p1), tokenSet(p2)

	var sect, diff12, diff21 []string
	for tok := range t1 {
		if _, ok := t2[tok]; ok {
			sect = append(sect, tok)
		} else {
			diff12 = append(diff12, tok)
		}
	}
	for tok := range t2 {
		if _, ok := t1[tok]; !ok {
			diff21 = append(diff21, tok)
		}
	}
	sort.Strings(sect)
	sort.Strings(diff12)
	sort.Strings(diff21)

	sorted := strings.Join(sect, " ")
	combined12 := strings.TrimSpace(sorted + " " + strings.Join(diff12, " "))
	combined21 := strings.TrimSpace(sorted + " " + strings.Join(diff21, " "))

	return max(
		Ratio(sorted, combined12),
		Ratio(sorted, combined21),
		Ratio(combined12, combined21),
	)
}

// Process drops non-ASCII characters, turns every other non-word character into a
// space, lower-cases and trims.
func Process(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r > unicode.MaxASCII:
			continue
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_':
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteByte(' ')
		}
	}
	return strings.TrimSpace(b.String())
}

func tokenSet(s string) map[string]struct{} {
	fields := strings.Fields(s)
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}
