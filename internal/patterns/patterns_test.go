package patterns

import (
	"strings"
	"testing"

	"github.com/MikeSquared-Agency/nexus/internal/lexicon"
)

func TestPhone(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"mobile", "电话13812345678", "13812345678"},
		{"mobile wins over earlier landline", "座机 (010)8888-6666 手机 13912345678", "13912345678"},
		{"parenthesized area code", "办公室(0571) 8888 6666", "(0571) 8888 6666"},
		{"spaced landline", "座机 010 88886666 转", "010 88886666"},
		{"ideographic space landline", "座机 010\u300088886666", "010\u300088886666"},
		{"ideographic space after area code", "办公室(0571)\u30008888 6666", "(0571)\u30008888 6666"},
		{"hyphenated", "hotline 400-123-4567", "400-123-4567"},
		{"mobile second digit out of range", "12345678901", NotProvided},
		{"too short", "call 12345", NotProvided},
		{"empty", "", NotProvided},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Phone(tt.text); got != tt.want {
				t.Errorf("Phone(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestPhone_NeverEmpty(t *testing.T) {
	for _, text := range []string{"", "无", "abc", "2024年入职", "---"} {
		if got := Phone(text); got == "" {
			t.Errorf("Phone(%q) returned empty string", text)
		}
	}
}

func TestCity(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		cities []string
		want   string
	}{
		{"single", "现居上海", nil, "上海"},
		{"table order beats text order", "想去杭州，目前在北京", nil, "北京"},
		{"no city", "远程办公", nil, Unknown},
		{"empty", "", nil, Unknown},
		{"explicit table", "based in Springfield", []string{"Shelbyville", "Springfield"}, "Springfield"},
		{"explicit empty table", "北京", []string{}, Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := City(tt.text, tt.cities); got != tt.want {
				t.Errorf("City(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestEducation(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"tier1", "本科清华大学", "985"},
		{"tier1 latin alias any case", "BS, TSINGHUA", "985"},
		{"tier2 only", "苏州大学 计算机", "211"},
		{"tier3 only", "香港科技大学 MPhil", "海外"},
		{"tier1 beats tier3 listing", "复旦大学", "985"},
		{"fallback institution", "毕业于某某理工学院", "毕业于某某理工学院"},
		{"fallback latin suffix", "江湖University", "江湖University"},
		{"bare suffix rejected", "大学", Unknown},
		{"nothing", "高中学历", Unknown},
		{"empty", "", Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Education(tt.text); got != tt.want {
				t.Errorf("Education(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestEducation_StableUnderSurroundingText(t *testing.T) {
	schools := []string{"清华大学", "苏州大学", "香港大学"}
	wrappers := []struct{ before, after string }{
		{"", ""},
		{"工作十年，", ""},
		{"", "，后来去了互联网公司"},
		{"候选人背景：", "。期望薪资面议"},
	}

	for _, school := range schools {
		base := Education(school)
		for _, w := range wrappers {
			text := w.before + school + w.after
			if got := Education(text); got != base {
				t.Errorf("Education(%q) = %q, want %q", text, got, base)
			}
		}
	}
}

func TestRegion(t *testing.T) {
	tests := []struct {
		name  string
		notes string
		cv    string
		want  string
	}{
		{"none", "一直在北京", "", None},
		{"single", "常驻日本", "", lexicon.APAC},
		{"keyword only", "负责亚太业务", "", lexicon.APAC},
		{"apac and emea", "德国项目", "日本分公司", "APAC+EMEA"},
		{"emea listed first still ordered", "英国", "巴西", "AMS+EMEA"},
		{"split across blobs", "新加坡", "美国", "APAC+AMS"},
		{"all three", "日本", "英国 美国", Global},
		{"case-insensitive keyword", "EMEA lead", "", lexicon.EMEA},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Region(tt.notes, tt.cv); got != tt.want {
				t.Errorf("Region(%q, %q) = %q, want %q", tt.notes, tt.cv, got, tt.want)
			}
		})
	}
}

func TestRegion_OrderIndependentOfInput(t *testing.T) {
	a := Region("日本 德国", "")
	b := Region("德国 日本", "")
	c := Region("", "德国\n日本")
	if a != "APAC+EMEA" || b != a || c != a {
		t.Errorf("got %q, %q, %q; want APAC+EMEA for all", a, b, c)
	}
}

func TestExtract(t *testing.T) {
	f := Extract("电话13812345678，期望杭州", "籍贯武汉，曾在新加坡工作，毕业于浙江大学")

	if f.Phone != "13812345678" {
		t.Errorf("Phone = %q", f.Phone)
	}
	if f.Education != "985" {
		t.Errorf("Education = %q", f.Education)
	}
	if f.Region != lexicon.APAC {
		t.Errorf("Region = %q", f.Region)
	}
	if f.Location != "杭州" {
		t.Errorf("Location = %q, want first table city across both texts", f.Location)
	}
	if f.PreferredLocation != "杭州" {
		t.Errorf("PreferredLocation = %q", f.PreferredLocation)
	}
	if f.Native != "武汉" {
		t.Errorf("Native = %q", f.Native)
	}
}

func TestExtract_NoCity(t *testing.T) {
	f := Extract("电话13812345678", "")
	if f.Phone != "13812345678" {
		t.Errorf("Phone = %q", f.Phone)
	}
	if f.Location != Unknown {
		t.Errorf("Location = %q, want %q", f.Location, Unknown)
	}
}

func TestExtract_TextsAreConcatenated(t *testing.T) {
	f := Extract("联系138123", "45678")
	if f.Phone != "13812345678" {
		t.Errorf("Phone = %q, want the number spanning both texts", f.Phone)
	}
}

func TestExtractor_CustomLexicon(t *testing.T) {
	lex, err := lexicon.Load(strings.NewReader(`version: t
cities: [Springfield]
education:
  labels: {tier1: A, tier2: B, tier3: C}
  tier1: [Alpha]
  tier2: [Alpha, Beta]
  tier3: [Gamma]
region_order: [APAC, AMS, EMEA]
regions:
  - {code: APAC, countries: [japan]}
  - {code: EMEA, countries: [france]}
  - {code: AMS, countries: [brazil]}
`))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	e := New(lex)

	if got := e.City("Springfield office", nil); got != "Springfield" {
		t.Errorf("City = %q", got)
	}
	if got := e.Education("beta grad"); got != "B" {
		t.Errorf("Education = %q", got)
	}
	if got := e.Region("France", "Japan"); got != "APAC+EMEA" {
		t.Errorf("Region = %q", got)
	}
}
