// Package patterns pulls structured facts out of raw profile text with
// fixed regular expressions and lexicon lookups. Every extractor returns a
// sentinel instead of an empty string when nothing matches.
package patterns

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/samber/lo"

	"github.com/MikeSquared-Agency/nexus/internal/lexicon"
)

// Sentinels.
const (
	NotProvided = "not provided"
	Unknown     = "unknown"
	None        = "none"
	Global      = "Global"
)

// Phone patterns in priority order. The mobile pattern always wins over
// landline shapes, wherever they appear in the text. Separators accept the
// ideographic space U+3000 as well as ASCII whitespace.
var phonePatterns = []*regexp.Regexp{
	regexp.MustCompile(`1[3-9]\d{9}`),
	regexp.MustCompile(`\(?0\d{2,3}\)[\s\x{3000}-]?\d{3,4}[\s\x{3000}-]?\d{4}`),
	regexp.MustCompile(`0\d{2,3}[\s\x{3000}]?\d{3,4}[\s\x{3000}]?\d{4}`),
	regexp.MustCompile(`\d{3,4}-\d{3,4}-\d{4}`),
}

// Fallback institution patterns, tried in order when no lexicon tier matches.
var institutionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`[\x{4e00}-\x{9fa5}]{2,20}(?:大学|学院|理工大学|工业大学|科技大学|师范大学|医科大学|农业大学|财经大学|政法大学|外国语大学|体育大学|艺术学院|音乐学院|美术学院)`),
	regexp.MustCompile(`[\x{4e00}-\x{9fa5}]{2,20}(?:University|College|Institute)`),
}

// Degenerate institution matches that are only a suffix word.
var bareSuffixes = map[string]bool{"大学": true, "学院": true, "理工大学": true}

// Extractor runs the pattern extractors against one lexicon.
type Extractor struct {
	lex *lexicon.Lexicon
}

// New returns an Extractor over lex. A nil lex means lexicon.Default().
func New(lex *lexicon.Lexicon) *Extractor {
	if lex == nil {
		lex = lexicon.Default()
	}
	return &Extractor{lex: lex}
}

// Lexicon returns the tables the extractor matches against.
func (e *Extractor) Lexicon() *lexicon.Lexicon { return e.lex }

// Phone returns the first phone number found in text, verbatim.
func (e *Extractor) Phone(text string) string {
	for _, re := range phonePatterns {
		if m := re.FindString(text); m != "" {
			return m
		}
	}
	return NotProvided
}

// City returns the first entry of cities contained in text, in table order.
// A nil table means the lexicon's city list.
func (e *Extractor) City(text string, cities []string) string {
	if text == "" {
		return Unknown
	}
	if cities == nil {
		cities = e.lex.Cities()
	}
	for _, c := range cities {
		if c != "" && strings.Contains(text, c) {
			return c
		}
	}
	return Unknown
}

// Education classifies text into a tier label, a raw institution name or
// Unknown.
func (e *Extractor) Education(text string) string {
	if text == "" {
		return Unknown
	}
	lowered := strings.ToLower(text)

	if _, ok := e.lex.MatchTier(lexicon.Tier1, lowered); ok {
		return e.lex.Label(lexicon.Tier1)
	}
	if _, ok := e.lex.MatchTier(lexicon.Tier2, lowered, lexicon.Tier1); ok {
		return e.lex.Label(lexicon.Tier2)
	}
	if _, ok := e.lex.MatchTier(lexicon.Tier3, lowered, lexicon.Tier1, lexicon.Tier2); ok {
		return e.lex.Label(lexicon.Tier3)
	}

	for _, re := range institutionPatterns {
		m := re.FindString(text)
		if m == "" {
			continue
		}
		if utf8.RuneCountInString(m) >= 4 && !bareSuffixes[m] {
			return m
		}
	}
	return Unknown
}

// Region labels the international exposure found across both texts.
func (e *Extractor) Region(notes, cv string) string {
	combined := strings.ToLower(notes + cv)

	detected := make(map[string]bool)
	for _, r := range e.lex.Regions() {
		if r.Detect(combined) {
			detected[r.Code] = true
		}
	}

	switch n := len(detected); {
	case n == 0:
		return None
	case n >= 3:
		return Global
	}
	ordered := lo.Filter(e.lex.RegionOrder(), func(code string, _ int) bool {
		return detected[code]
	})
	return strings.Join(ordered, "+")
}

// Facts is every locally extracted value for one profile.
type Facts struct {
	Phone             string `json:"phone"`
	Education         string `json:"edu"`
	Region            string `json:"intl"`
	Location          string `json:"loc"`
	PreferredLocation string `json:"target_loc"`
	Native            string `json:"native"`
}

// Extract runs every extractor. Phone and education read the communication
// log followed by the resume; the preferred location reads only the log and
// the native region only the resume.
func (e *Extractor) Extract(notes, cv string) Facts {
	both := notes + cv
	return Facts{
		Phone:             e.Phone(both),
		Education:         e.Education(both),
		Region:            e.Region(notes, cv),
		Location:          e.City(both, nil),
		PreferredLocation: e.City(notes, nil),
		Native:            e.City(cv, nil),
	}
}

var std = New(nil)

// Phone runs Extractor.Phone against the default lexicon.
func Phone(text string) string { return std.Phone(text) }

// City runs Extractor.City against the default lexicon.
func City(text string, cities []string) string { return std.City(text, cities) }

// Education runs Extractor.Education against the default lexicon.
func Education(text string) string { return std.Education(text) }

// Region runs Extractor.Region against the default lexicon.
func Region(notes, cv string) string { return std.Region(notes, cv) }

// Extract runs Extractor.Extract against the default lexicon.
func Extract(notes, cv string) Facts { return std.Extract(notes, cv) }
