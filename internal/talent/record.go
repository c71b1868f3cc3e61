// Package talent defines the canonical profile record and the ordered
// collection that confirmed profiles are kept in.
package talent

import (
	"fmt"

	"github.com/MikeSquared-Agency/nexus/internal/record"
	"github.com/MikeSquared-Agency/nexus/internal/resolve"
)

// Canonical field names. Stored profiles are keyed by these; never rename one.
const (
	FieldRawNotes            = "raw_notes"
	FieldRawCVText           = "raw_cv_text"
	FieldName                = "name"
	FieldPhone               = "phone"
	FieldEdu                 = "edu"
	FieldTags                = "tags"
	FieldCommDate            = "comm_date"
	FieldCompanyPath         = "company_path"
	FieldSchoolTag           = "school_tag"
	FieldCurrentOpportunity  = "current_opportunity"
	FieldCareerSummary       = "career_summary"
	FieldCareerMotive        = "career_motive"
	FieldStabilityTag        = "stability_tag"
	FieldGlobalRegion        = "global_region"
	FieldPersonalInfo        = "personal_info"
	FieldAge                 = "age"
	FieldAgeTag              = "age_tag"
	FieldLevel               = "level"
	FieldTitle               = "title"
	FieldSalary              = "salary"
	FieldLoc                 = "loc"
	FieldTargetLoc           = "target_loc"
	FieldNative              = "native"
	FieldManagement          = "management"
	FieldFamily              = "family"
	FieldSummary             = "summary"
	FieldExperienceTags      = "experience_tags"
	FieldMotivationSummary   = "motivation_summary"
	FieldOpportunityAttitude = "opportunity_attitude"
	FieldConflictReport      = "conflict_report"
)

// Legacy keys the inference service has used for canonical fields.
const (
	FieldCNDate  = "cn_date"
	FieldCompany = "company"
	FieldOnGoing = "on_going"
)

// Keys inside the tags object.
const (
	TagIntl                = "intl"
	TagMotivation          = "motivation"
	TagStability           = "stability"
	TagOpportunityAttitude = "opportunity_attitude"
)

// Keys inside the personal_info object.
const (
	InfoSalary       = "salary"
	InfoLocation     = "location"
	InfoPrefLocation = "pref_location"
	InfoRank         = "rank"
	InfoTitle        = "title"
	InfoPhone        = "phone"
	InfoManagement   = "management"
	InfoFamily       = "family"
	InfoNative       = "native"
)

// Record is one canonical profile. It wraps the merged record tree and keeps
// every upstream key alongside the canonical ones.
type Record struct {
	obj *record.Object
}

// NewRecord wraps obj. A nil obj yields an empty record.
func NewRecord(obj *record.Object) *Record {
	if obj == nil {
		obj = record.NewObject()
	}
	return &Record{obj: obj}
}

// ParseRecord decodes a single JSON object into a Record.
func ParseRecord(data []byte) (*Record, error) {
	obj, err := record.ParseObject(data)
	if err != nil {
		return nil, fmt.Errorf("parse talent: %w", err)
	}
	return NewRecord(obj), nil
}

// Object exposes the underlying tree. Callers must not modify a record that
// has been added to a collection.
func (r *Record) Object() *record.Object { return r.obj }

// Clone returns a deep copy of r.
func (r *Record) Clone() *Record { return &Record{obj: r.obj.Clone()} }

// Field returns the text of a top-level field, or "" when it is absent.
func (r *Record) Field(name string) string {
	v, ok := r.obj.Get(name)
	if !ok {
		return ""
	}
	return v.Text()
}

// Resolve renders the first non-empty candidate, or def.
func (r *Record) Resolve(candidates []string, def string) string {
	return resolve.Value(r.obj, candidates, def)
}

func (r *Record) Name() string        { return r.Resolve(nameKeys, resolve.Default) }
func (r *Record) CompanyPath() string { return r.Resolve(companyKeys, resolve.Default) }

// Phone is the code-derived phone field.
func (r *Record) Phone() string { return r.Field(FieldPhone) }

func (r *Record) MarshalJSON() ([]byte, error) {
	return r.obj.MarshalJSON()
}

func (r *Record) UnmarshalJSON(data []byte) error {
	obj, err := record.ParseObject(data)
	if err != nil {
		return err
	}
	r.obj = obj
	return nil
}
