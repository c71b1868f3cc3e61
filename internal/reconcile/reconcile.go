// Package reconcile merges an inference record with locally extracted facts
// into one canonical talent record.
package reconcile

import (
	"errors"

	"github.com/MikeSquared-Agency/nexus/internal/patterns"
	"github.com/MikeSquared-Agency/nexus/internal/record"
	"github.com/MikeSquared-Agency/nexus/internal/talent"
)

// ErrNoRecord is returned when there is no inference record to merge.
var ErrNoRecord = errors.New("no record to reconcile")

type fieldPair struct{ from, to string }

// Legacy top-level keys and the canonical field each one feeds.
var aliases = []fieldPair{
	{talent.FieldCNDate, talent.FieldCommDate},
	{talent.FieldCompany, talent.FieldCompanyPath},
	{talent.FieldEdu, talent.FieldSchoolTag},
	{talent.FieldOnGoing, talent.FieldCurrentOpportunity},
	{talent.FieldMotivationSummary, talent.FieldCareerSummary},
}

// Tag entries promoted to top-level fields.
var tagPromotions = []fieldPair{
	{talent.TagMotivation, talent.FieldCareerMotive},
	{talent.TagStability, talent.FieldStabilityTag},
}

// Top-level fields gathered into personal_info.
var personalInfo = []fieldPair{
	{talent.FieldSalary, talent.InfoSalary},
	{talent.FieldLoc, talent.InfoLocation},
	{talent.FieldTargetLoc, talent.InfoPrefLocation},
	{talent.FieldLevel, talent.InfoRank},
	{talent.FieldTitle, talent.InfoTitle},
	{talent.FieldPhone, talent.InfoPhone},
	{talent.FieldManagement, talent.InfoManagement},
	{talent.FieldFamily, talent.InfoFamily},
	{talent.FieldNative, talent.InfoNative},
}

// Input is the locally sourced half of a merge.
type Input struct {
	Notes string
	CV    string
	Facts patterns.Facts
}

// FromText builds an Input by running the default extractors over both texts.
func FromText(notes, cv string) Input {
	return Input{Notes: notes, CV: cv, Facts: patterns.Extract(notes, cv)}
}

// Merge folds in into rec and returns the canonical record. Merge takes
// ownership of rec and edits it in place. Upstream values for phone, edu and
// tags.intl are always replaced by the extracted ones; every other field is
// only filled when absent or empty.
func Merge(rec *record.Object, in Input) (*talent.Record, error) {
	if rec == nil {
		return nil, ErrNoRecord
	}

	rec.SetString(talent.FieldRawNotes, in.Notes)
	rec.SetString(talent.FieldRawCVText, in.CV)

	rec.SetString(talent.FieldPhone, in.Facts.Phone)
	rec.SetString(talent.FieldEdu, in.Facts.Education)
	tags := objectField(rec, talent.FieldTags)
	tags.SetString(talent.TagIntl, in.Facts.Region)

	for _, a := range aliases {
		if v, ok := rec.Get(a.from); ok && empty(rec, a.to) {
			rec.Set(a.to, v.Clone())
		}
	}

	backfill(rec, talent.FieldLoc, in.Facts.Location)
	backfill(rec, talent.FieldTargetLoc, in.Facts.PreferredLocation)
	backfill(rec, talent.FieldNative, in.Facts.Native)

	for _, p := range tagPromotions {
		if v, ok := tags.Get(p.from); ok && !v.IsEmpty() && empty(rec, p.to) {
			rec.Set(p.to, v.Clone())
		}
	}
	if !tags.Has(talent.TagIntl) {
		tags.SetString(talent.TagIntl, in.Facts.Region)
	}

	if intl, ok := tags.Get(talent.TagIntl); ok && !intl.IsEmpty() && empty(rec, talent.FieldGlobalRegion) {
		rec.Set(talent.FieldGlobalRegion, intl.Clone())
	}

	info := existingObject(rec, talent.FieldPersonalInfo)
	for _, p := range personalInfo {
		if v, ok := rec.Get(p.from); ok && empty(info, p.to) {
			info.Set(p.to, v.Clone())
		}
	}
	if info.Len() > 0 {
		rec.Set(talent.FieldPersonalInfo, record.ObjectValue(info))
	}

	if v, ok := rec.Get(talent.FieldAgeTag); ok && empty(rec, talent.FieldAge) {
		rec.Set(talent.FieldAge, v.Clone())
	}

	return talent.NewRecord(rec), nil
}

func empty(obj *record.Object, key string) bool {
	v, ok := obj.Get(key)
	return !ok || v.IsEmpty()
}

func backfill(rec *record.Object, key, value string) {
	if empty(rec, key) {
		rec.SetString(key, value)
	}
}

// objectField returns the object stored under key, replacing a missing or
// non-object value with a new empty object.
func objectField(rec *record.Object, key string) *record.Object {
	if v, ok := rec.Get(key); ok {
		if obj, ok := v.Object(); ok {
			return obj
		}
	}
	obj := record.NewObject()
	rec.Set(key, record.ObjectValue(obj))
	return obj
}

// existingObject returns the object under key, or a detached new one when
// the key is missing or not an object.
func existingObject(rec *record.Object, key string) *record.Object {
	if v, ok := rec.Get(key); ok {
		if obj, ok := v.Object(); ok {
			return obj
		}
	}
	return record.NewObject()
}
