package talent

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustRecord(t *testing.T, doc string) *Record {
	t.Helper()
	rec, err := ParseRecord([]byte(doc))
	require.NoError(t, err)
	return rec
}

func TestCard(t *testing.T) {
	rec := mustRecord(t, `{
		"name": "王五",
		"summary": "十年支付经验",
		"comm_date": "2025-06-01",
		"career_motive": "寻求平台",
		"motivation_summary": "想做海外业务",
		"stability_tag": "稳定",
		"tags": {"opportunity_attitude": "积极", "intl": "APAC"},
		"experience_tags": ["支付", "风控"],
		"school_tag": "985",
		"age_tag": "约35岁",
		"company_path": "A公司 -> B公司",
		"global_region": "APAC",
		"current_opportunity": "C公司-总监",
		"personal_info": {"salary": "80w", "location": "上海", "pref_location": "杭州", "rank": "P8", "phone": "13812345678"},
		"raw_notes": "聊了半小时"
	}`)

	card := rec.Card()
	assert.Equal(t, "王五", card.Name)
	assert.Equal(t, "寻求平台 - 想做海外业务", card.Motive)
	assert.Equal(t, "积极", card.OpportunityAttitude)
	assert.Equal(t, "支付, 风控", card.ExperienceTags)
	assert.Equal(t, "80w", card.Salary)
	assert.Equal(t, "上海", card.Location)
	assert.Equal(t, "杭州", card.PreferredLocation)
	assert.Equal(t, "P8", card.Rank)
	assert.Equal(t, "13812345678", card.Phone)
	assert.Equal(t, "—", card.Family)
	assert.Equal(t, "聊了半小时", card.RawNotes)
	assert.Empty(t, card.RawCVText)
}

func TestCard_MotiveWithoutSummary(t *testing.T) {
	rec := mustRecord(t, `{"career_motive": "涨薪"}`)
	assert.Equal(t, "涨薪", rec.Card().Motive)
}

func TestRow_PersonalInfoOrWholeRecord(t *testing.T) {
	nested := mustRecord(t, `{"name": "甲", "salary": "top", "personal_info": {"salary": "60w", "电话": "021-1234-5678"}}`)
	row := nested.Row(3)
	assert.Equal(t, 3, row.Index)
	assert.Equal(t, "甲", row.Name)
	assert.Equal(t, "60w", row.Salary)
	assert.Equal(t, "021-1234-5678", row.Phone)
	assert.Equal(t, "—", row.Location)

	flat := mustRecord(t, `{"姓名": "乙", "薪资": "40w", "location": "深圳", "personal_info": {}}`)
	row = flat.Row(0)
	assert.Equal(t, "乙", row.Name)
	assert.Equal(t, "40w", row.Salary)
	assert.Equal(t, "深圳", row.Location)
}

func TestRows(t *testing.T) {
	rows := Rows([]*Record{
		mustRecord(t, `{"name": "a"}`),
		mustRecord(t, `{"name": "b"}`),
	})
	require.Len(t, rows, 2)
	assert.Equal(t, 1, rows[1].Index)
	assert.Equal(t, "b", rows[1].Name)
}

func TestPool_AppendListRemove(t *testing.T) {
	ctx := context.Background()
	p := NewPool()

	for _, name := range []string{"a", "b", "c"} {
		_, err := p.Append(ctx, mustRecord(t, `{"name": "`+name+`"}`))
		require.NoError(t, err)
	}
	assert.Equal(t, 3, p.Len())

	removed, err := p.Remove(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "b", removed.Name())

	recs, err := p.List(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "a", recs[0].Name())
	assert.Equal(t, "c", recs[1].Name())

	_, err = p.Get(ctx, 2)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = p.Remove(ctx, -1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPool_StoredRecordsDoNotChange(t *testing.T) {
	ctx := context.Background()
	p := NewPool()
	rec := mustRecord(t, `{"name": "a"}`)
	_, err := p.Append(ctx, rec)
	require.NoError(t, err)

	rec.Object().SetString("name", "changed")
	got, err := p.Get(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, "a", got.Name())

	got.Object().SetString("name", "changed again")
	again, _ := p.Get(ctx, 0)
	assert.Equal(t, "a", again.Name())
}

func TestPool_ConcurrentAppend(t *testing.T) {
	ctx := context.Background()
	p := NewPool()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = p.Append(ctx, NewRecord(nil))
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, p.Len())
}

func TestPool_Rewrite(t *testing.T) {
	ctx := context.Background()
	p := NewPool(mustRecord(t, `{"name": "a"}`), mustRecord(t, `{"name": "b"}`))

	err := p.Rewrite(ctx, func(recs []*Record) ([]*Record, error) {
		require.Len(t, recs, 2)
		return recs[1:], nil
	})
	require.NoError(t, err)
	list, _ := p.List(ctx)
	require.Len(t, list, 1)
	assert.Equal(t, "b", list[0].Name())

	boom := errors.New("boom")
	err = p.Rewrite(ctx, func([]*Record) ([]*Record, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, p.Len())

	err = p.Rewrite(ctx, func([]*Record) ([]*Record, error) { return []*Record{nil}, nil })
	assert.Error(t, err)
	assert.Equal(t, 1, p.Len())
}

func TestPool_RewriteHoldsOffAppends(t *testing.T) {
	ctx := context.Background()
	p := NewPool(mustRecord(t, `{"name": "a"}`))
	newcomer := mustRecord(t, `{"name": "b"}`)

	done := make(chan struct{})
	err := p.Rewrite(ctx, func(recs []*Record) ([]*Record, error) {
		go func() {
			_, _ = p.Append(ctx, newcomer)
			close(done)
		}()
		return nil, nil
	})
	require.NoError(t, err)
	<-done

	list, _ := p.List(ctx)
	require.Len(t, list, 1)
	assert.Equal(t, "b", list[0].Name())
}

func TestExportImport(t *testing.T) {
	recs := []*Record{
		mustRecord(t, `{"name": "张三", "tags": {"intl": "APAC+AMS"}, "z": 1, "a": 2}`),
		mustRecord(t, `{"name": "李四"}`),
	}

	var buf bytes.Buffer
	require.NoError(t, Export(&buf, recs))
	assert.Equal(t, `[{"name":"张三","tags":{"intl":"APAC+AMS"},"z":1,"a":2},{"name":"李四"}]`, buf.String())

	back, err := Import(&buf)
	require.NoError(t, err)
	require.Len(t, back, 2)
	assert.Equal(t, []string{"name", "tags", "z", "a"}, back[0].Object().Keys())

	p := NewPool(recs[1])
	require.NoError(t, p.Replace(context.Background(), back))
	assert.Equal(t, 2, p.Len())
}

func TestExport_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Export(&buf, nil))
	assert.Equal(t, "[]", buf.String())
}

func TestImport_Rejects(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"envelope object", `{"talents": []}`},
		{"non-object element", `[{"name": "a"}, "b"]`},
		{"malformed", `[{"name": }]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Import(strings.NewReader(tt.in))
			assert.Error(t, err)
		})
	}
}
