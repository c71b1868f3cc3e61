package talent

import (
	"github.com/MikeSquared-Agency/nexus/internal/resolve"
)

// Candidate keys per display field, most specific first.
var (
	nameKeys          = []string{"name", "姓名"}
	summaryKeys       = []string{"summary", "摘要", "executive_summary"}
	commDateKeys      = []string{"comm_date", "沟通日期"}
	motiveKeys        = []string{"career_motive", "职业动因", "动因"}
	motiveSummaryKeys = []string{"motivation_summary", "职业动因总结", "career_summary"}
	stabilityKeys     = []string{"stability_tag", "稳定性评级", "稳定性"}
	attitudeKeys      = []string{"tags.opportunity_attitude", "opportunity_attitude", "看机会"}
	experienceKeys    = []string{"experience_tags", "经验标签", "经验"}
	schoolKeys        = []string{"school_tag", "学校背景", "学校"}
	ageKeys           = []string{"age_tag", "年龄"}
	companyKeys       = []string{"company_path", "公司历程", "公司"}
	regionKeys        = []string{"global_region", "国际化经验", "国际化"}
	managementKeys    = []string{"personal_info.management", "management", "管理规模", "管理"}
	opportunityKeys   = []string{"current_opportunity", "目前在聊机会", "在聊机会"}
	salaryKeys        = []string{"personal_info.salary", "salary", "薪资"}
	locationKeys      = []string{"personal_info.location", "location", "所在地"}
	prefLocationKeys  = []string{"personal_info.pref_location", "pref_location", "倾向地点"}
	rankKeys          = []string{"personal_info.rank", "rank", "职级"}
	positionKeys      = []string{"personal_info.rank", "rank", "职位", "职级"}
	familyKeys        = []string{"personal_info.family", "family", "家庭情况"}
	nativeKeys        = []string{"personal_info.native", "native", "籍贯"}
	phoneKeys         = []string{"personal_info.phone", "phone", "电话"}
)

// Card is the detail view of one profile with every field rendered.
type Card struct {
	Name                string `json:"name"`
	Summary             string `json:"summary"`
	CommDate            string `json:"comm_date"`
	Motive              string `json:"motive"`
	Stability           string `json:"stability"`
	OpportunityAttitude string `json:"opportunity_attitude"`
	ExperienceTags      string `json:"experience_tags"`
	School              string `json:"school"`
	Age                 string `json:"age"`
	CompanyPath         string `json:"company_path"`
	GlobalRegion        string `json:"global_region"`
	Management          string `json:"management"`
	CurrentOpportunity  string `json:"current_opportunity"`
	Salary              string `json:"salary"`
	Location            string `json:"location"`
	PreferredLocation   string `json:"pref_location"`
	Rank                string `json:"rank"`
	Family              string `json:"family"`
	Native              string `json:"native"`
	Phone               string `json:"phone"`
	RawNotes            string `json:"raw_notes,omitempty"`
	RawCVText           string `json:"raw_cv_text,omitempty"`
}

// Card renders the detail view.
func (r *Record) Card() Card {
	res := resolve.New(r.obj)
	v := func(keys []string) string { return res.Value(keys, resolve.Default) }

	motive := v(motiveKeys)
	if s := res.Value(motiveSummaryKeys, ""); s != "" && s != resolve.Default {
		motive += " - " + s
	}

	return Card{
		Name:                v(nameKeys),
		Summary:             v(summaryKeys),
		CommDate:            v(commDateKeys),
		Motive:              motive,
		Stability:           v(stabilityKeys),
		OpportunityAttitude: v(attitudeKeys),
		ExperienceTags:      v(experienceKeys),
		School:              v(schoolKeys),
		Age:                 v(ageKeys),
		CompanyPath:         v(companyKeys),
		GlobalRegion:        v(regionKeys),
		Management:          v(managementKeys),
		CurrentOpportunity:  v(opportunityKeys),
		Salary:              v(salaryKeys),
		Location:            v(locationKeys),
		PreferredLocation:   v(prefLocationKeys),
		Rank:                v(rankKeys),
		Family:              v(familyKeys),
		Native:              v(nativeKeys),
		Phone:               v(phoneKeys),
		RawNotes:            r.Field(FieldRawNotes),
		RawCVText:           r.Field(FieldRawCVText),
	}
}

// Row is one line of the pool board.
type Row struct {
	Index              int    `json:"index"`
	CommDate           string `json:"comm_date"`
	Company            string `json:"company"`
	Name               string `json:"name"`
	Position           string `json:"position"`
	Rank               string `json:"rank"`
	Salary             string `json:"salary"`
	School             string `json:"school"`
	CurrentOpportunity string `json:"current_opportunity"`
	Location           string `json:"location"`
	PreferredLocation  string `json:"pref_location"`
	Phone              string `json:"phone"`
}

// Row renders the board line for the record at index. Compensation,
// location and phone are read from personal_info when it is a non-empty
// object, and from the whole record otherwise.
func (r *Record) Row(index int) Row {
	res := resolve.New(r.obj)
	info := res
	if v, ok := r.obj.Get(FieldPersonalInfo); ok && !v.IsEmpty() {
		if obj, ok := v.Object(); ok {
			info = resolve.New(obj)
		}
	}

	return Row{
		Index:              index,
		CommDate:           res.Value(commDateKeys, resolve.Default),
		Company:            res.Value(companyKeys, resolve.Default),
		Name:               res.Value(nameKeys, resolve.Default),
		Position:           res.Value(positionKeys, resolve.Default),
		Rank:               res.Value(rankKeys, resolve.Default),
		Salary:             info.Value([]string{InfoSalary, "薪资"}, resolve.Default),
		School:             res.Value([]string{FieldSchoolTag, "学校"}, resolve.Default),
		CurrentOpportunity: res.Value(opportunityKeys, resolve.Default),
		Location:           info.Value([]string{InfoLocation, "所在地"}, resolve.Default),
		PreferredLocation:  info.Value([]string{InfoPrefLocation, "倾向地点"}, resolve.Default),
		Phone:              info.Value([]string{InfoPhone, "电话"}, resolve.Default),
	}
}

// Rows renders the board for an ordered collection.
func Rows(recs []*Record) []Row {
	rows := make([]Row, len(recs))
	for i, rec := range recs {
		rows[i] = rec.Row(i)
	}
	return rows
}
