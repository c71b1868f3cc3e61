package dedup

import (
	"sort"
	"strings"
	"unicode"

	"github.com/MikeSquared-Agency/nexus/internal/patterns"
	"github.com/MikeSquared-Agency/nexus/internal/resolve"
	"github.com/MikeSquared-Agency/nexus/internal/talent"
)

// Reasons two entries are considered the same person.
const (
	ReasonPhone       = "phone"
	ReasonNameCompany = "name_company"
)

// DuplicatePair is two pool indices that look like the same candidate.
type DuplicatePair struct {
	I, J   int
	Reason string
}

// FindPairs returns every pair of entries that share a phone number or the
// same name and company path. Pairs are ordered by (I, J) with I < J.
func FindPairs(recs []*talent.Record) []DuplicatePair {
	byPhone := make(map[string][]int)
	byName := make(map[string][]int)
	for i, rec := range recs {
		if k := phoneKey(rec.Phone()); k != "" {
			byPhone[k] = append(byPhone[k], i)
		}
		if k := nameKey(rec); k != "" {
			byName[k] = append(byName[k], i)
		}
	}

	seen := make(map[[2]int]bool)
	var pairs []DuplicatePair
	add := func(groups map[string][]int, reason string) {
		for _, idx := range groups {
			for a := 0; a < len(idx); a++ {
				for b := a + 1; b < len(idx); b++ {
					key := [2]int{idx[a], idx[b]}
					if seen[key] {
						continue
					}
					seen[key] = true
					pairs = append(pairs, DuplicatePair{I: idx[a], J: idx[b], Reason: reason})
				}
			}
		}
	}
	add(byPhone, ReasonPhone)
	add(byName, ReasonNameCompany)

	return sortPairs(pairs)
}

func sortPairs(pairs []DuplicatePair) []DuplicatePair {
	sort.Slice(pairs, func(a, b int) bool {
		if pairs[a].I != pairs[b].I {
			return pairs[a].I < pairs[b].I
		}
		return pairs[a].J < pairs[b].J
	})
	return pairs
}

// phoneKey keeps only the digits of a code-derived phone. Sentinels and
// numbers too short to identify anyone yield "".
func phoneKey(phone string) string {
	if phone == patterns.NotProvided {
		return ""
	}
	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, phone)
	if len(digits) < 7 {
		return ""
	}
	return digits
}

func nameKey(rec *talent.Record) string {
	name, company := rec.Name(), rec.CompanyPath()
	if name == resolve.Default || company == resolve.Default {
		return ""
	}
	return resolve.NormalizeKey(name) + "\x00" + resolve.NormalizeKey(company)
}
