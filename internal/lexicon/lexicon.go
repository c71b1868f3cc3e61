// Package lexicon holds the reference tables used by the rule-based
// extractors: cities, education tiers and international regions.
//
// Tables are decoded once and never mutated afterwards, so a *Lexicon can be
// shared freely between goroutines.
package lexicon

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed lexicon.yaml
var builtin []byte

// Region codes.
const (
	APAC = "APAC"
	EMEA = "EMEA"
	AMS  = "AMS"
)

// Tier identifies an education tier.
type Tier int

const (
	Tier1 Tier = iota + 1
	Tier2
	Tier3
)

// Region is one geographic grouping with the names that signal it.
type Region struct {
	Code      string
	Countries []string
	Keywords  []string

	countriesLower []string
	keywordsLower  []string
}

// Lexicon is an immutable set of lookup tables.
type Lexicon struct {
	version     string
	cities      []string
	tiers       [3][]string
	tiersLower  [3][]string
	tierMembers [3]map[string]struct{}
	labels      [3]string
	regions     []Region
	regionOrder []string
}

type fileFormat struct {
	Version   string   `yaml:"version"`
	Cities    []string `yaml:"cities"`
	Education struct {
		Labels struct {
			Tier1 string `yaml:"tier1"`
			Tier2 string `yaml:"tier2"`
			Tier3 string `yaml:"tier3"`
		} `yaml:"labels"`
		Tier1 []string `yaml:"tier1"`
		Tier2 []string `yaml:"tier2"`
		Tier3 []string `yaml:"tier3"`
	} `yaml:"education"`
	RegionOrder []string `yaml:"region_order"`
	Regions     []struct {
		Code      string   `yaml:"code"`
		Countries []string `yaml:"countries"`
		Keywords  []string `yaml:"keywords"`
	} `yaml:"regions"`
}

var (
	defaultOnce sync.Once
	defaultLex  *Lexicon
)

// Default returns the built-in tables. The embedded document is validated by
// tests, so a decode failure here is a build defect.
func Default() *Lexicon {
	defaultOnce.Do(func() {
		lex, err := Load(strings.NewReader(string(builtin)))
		if err != nil {
			panic(fmt.Sprintf("lexicon: embedded tables: %v", err))
		}
		defaultLex = lex
	})
	return defaultLex
}

// LoadFile decodes a table set from a YAML file.
func LoadFile(path string) (*Lexicon, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open lexicon: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Load decodes a table set from YAML.
func Load(r io.Reader) (*Lexicon, error) {
	var ff fileFormat
	if err := yaml.NewDecoder(r).Decode(&ff); err != nil {
		return nil, fmt.Errorf("decode lexicon: %w", err)
	}
	if len(ff.Cities) == 0 {
		return nil, fmt.Errorf("decode lexicon: no cities")
	}
	if len(ff.Regions) == 0 {
		return nil, fmt.Errorf("decode lexicon: no regions")
	}

	lex := &Lexicon{
		version:     ff.Version,
		cities:      clean(ff.Cities),
		regionOrder: ff.RegionOrder,
		labels:      [3]string{ff.Education.Labels.Tier1, ff.Education.Labels.Tier2, ff.Education.Labels.Tier3},
	}
	for i, list := range [][]string{ff.Education.Tier1, ff.Education.Tier2, ff.Education.Tier3} {
		lex.tiers[i] = clean(list)
		lex.tiersLower[i] = lowerAll(lex.tiers[i])
		lex.tierMembers[i] = make(map[string]struct{}, len(lex.tiers[i]))
		for _, name := range lex.tiers[i] {
			lex.tierMembers[i][name] = struct{}{}
		}
		if lex.labels[i] == "" {
			return nil, fmt.Errorf("decode lexicon: missing label for tier %d", i+1)
		}
	}

	seen := make(map[string]bool)
	for _, r := range ff.Regions {
		if r.Code == "" || seen[r.Code] {
			return nil, fmt.Errorf("decode lexicon: invalid region code %q", r.Code)
		}
		seen[r.Code] = true
		countries, keywords := clean(r.Countries), clean(r.Keywords)
		lex.regions = append(lex.regions, Region{
			Code:           r.Code,
			Countries:      countries,
			Keywords:       keywords,
			countriesLower: lowerAll(countries),
			keywordsLower:  lowerAll(keywords),
		})
	}
	ordered := make(map[string]bool, len(lex.regionOrder))
	for _, code := range lex.regionOrder {
		if !seen[code] {
			return nil, fmt.Errorf("decode lexicon: region_order names unknown region %q", code)
		}
		if ordered[code] {
			return nil, fmt.Errorf("decode lexicon: region_order repeats region %q", code)
		}
		ordered[code] = true
	}
	if len(lex.regionOrder) != len(lex.regions) {
		return nil, fmt.Errorf("decode lexicon: region_order must list every region once")
	}

	return lex, nil
}

// Version is the table set version string.
func (l *Lexicon) Version() string { return l.version }

// Cities returns a copy of the city table in priority order.
func (l *Lexicon) Cities() []string { return append([]string(nil), l.cities...) }

// Schools returns a copy of the institution list for a tier.
func (l *Lexicon) Schools(t Tier) []string {
	return append([]string(nil), l.tiers[t-1]...)
}

// Label returns the tag emitted for a tier.
func (l *Lexicon) Label(t Tier) string { return l.labels[t-1] }

// InTier reports whether name is listed verbatim in tier t.
func (l *Lexicon) InTier(t Tier, name string) bool {
	_, ok := l.tierMembers[t-1][name]
	return ok
}

// MatchTier returns the first entry of tier t whose lower-cased form is
// contained in lowered, skipping entries listed verbatim in any of the
// excluded tiers.
func (l *Lexicon) MatchTier(t Tier, lowered string, exclude ...Tier) (string, bool) {
	for i, entry := range l.tiersLower[t-1] {
		if !strings.Contains(lowered, entry) {
			continue
		}
		name := l.tiers[t-1][i]
		excluded := false
		for _, ex := range exclude {
			if l.InTier(ex, name) {
				excluded = true
				break
			}
		}
		if !excluded {
			return name, true
		}
	}
	return "", false
}

// Regions returns the region table in declaration order.
func (l *Lexicon) Regions() []Region {
	out := make([]Region, len(l.regions))
	for i, r := range l.regions {
		out[i] = Region{
			Code:           r.Code,
			Countries:      append([]string(nil), r.Countries...),
			Keywords:       append([]string(nil), r.Keywords...),
			countriesLower: r.countriesLower,
			keywordsLower:  r.keywordsLower,
		}
	}
	return out
}

// RegionOrder is the fixed order used when joining two region codes.
func (l *Lexicon) RegionOrder() []string { return append([]string(nil), l.regionOrder...) }

// Detect reports whether lowered mentions the region. Keywords are only
// consulted when no country matched.
func (r Region) Detect(lowered string) bool {
	for _, c := range r.countriesLower {
		if strings.Contains(lowered, c) {
			return true
		}
	}
	for _, k := range r.keywordsLower {
		if strings.Contains(lowered, k) {
			return true
		}
	}
	return false
}

func clean(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func lowerAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(s)
	}
	return out
}
