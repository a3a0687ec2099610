package pipeline

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/use-agent/hustings/models"
)

func deriveRecords(t *testing.T, opts DeriveOptions, recs ...models.RawConstituencyRecord) *Table {
	t.Helper()
	assembled, err := Assemble(mustFlatten(recs...))
	require.NoError(t, err)
	derived, err := Derive(assembled, opts)
	require.NoError(t, err)
	return derived
}

func TestDerive_EndToEnd(t *testing.T) {
	table := deriveRecords(t, DeriveOptions{},
		record("E001", "+1.5%", 20000, 15000, 1000),
		record("E002", "-0.8%", 30000, 25000),
	)

	require.Equal(t, 2, table.Len())
	a, b := table.Rows[0], table.Rows[1]

	assert.Equal(t, String("Party 3"), a.Get("3rd_place_party"))
	assert.True(t, b.Get("3rd_place_party").IsNull())

	assert.Equal(t, Int(36000), a.Get(ColTotalVotes))
	assert.Equal(t, Int(55000), b.Get(ColTotalVotes))

	assert.Equal(t, Int(5000), a.Get(ColWinMargin))
	assert.Equal(t, Int(5000), b.Get(ColWinMargin))

	assert.Equal(t, Float(1.5), a.Get(ColTurnoutChange))
	assert.Equal(t, Float(-0.8), b.Get(ColTurnoutChange))
}

func TestDerive_ColumnLayout(t *testing.T) {
	table := deriveRecords(t, DeriveOptions{},
		record("E001", "+1.5%", 20000, 15000),
		record("E002", "-0.8%", 30000, 25000, 10),
	)
	assert.Equal(t, []string{
		"ons_id", "name", "turnout", "registered_voters", "turnout_change",
		"total_votes", "win_margin",
		"1st_place_party", "1st_place_candidate", "1st_place_votes",
		"2nd_place_party", "2nd_place_candidate", "2nd_place_votes",
		"3rd_place_party", "3rd_place_candidate", "3rd_place_votes",
	}, table.Columns)
}

func TestDerive_TotalVotesIgnoresNullsAndOtherColumns(t *testing.T) {
	table := deriveRecords(t, DeriveOptions{},
		record("E001", "+1.5%", 50, 40, 30, 20, 10),
		record("E002", "-0.8%", 60, 50),
	)
	for _, row := range table.Rows {
		var want int64
		for rank := 1; rank <= 5; rank++ {
			if v, ok := row.Get(RankColumn(rank, FieldVotes)).AsInt(); ok {
				want += v
			}
		}
		assert.Equal(t, Int(want), row.Get(ColTotalVotes))
	}
	assert.Equal(t, Int(150), table.Rows[0].Get(ColTotalVotes))
	assert.Equal(t, Int(110), table.Rows[1].Get(ColTotalVotes))
}

func TestDerive_PreSuppliedColumns(t *testing.T) {
	rec := record("W07000041", "+3.0%", 18000, 9000, 4000)
	rec.Variant = models.Y2019
	rec.Turnout = nil
	rec.WinMargin = ptr(9001)

	table := deriveRecords(t, DeriveOptions{}, rec)
	row := table.Rows[0]

	assert.Equal(t, Int(9001), row.Get(ColWinMargin), "pre-supplied margin must win")
	assert.Equal(t, Int(31000), row.Get(ColTurnout), "missing turnout becomes the vote count")
	assert.Equal(t, Int(31000), row.Get(ColTotalVotes))
}

func TestDerive_PresentTurnoutKept(t *testing.T) {
	table := deriveRecords(t, DeriveOptions{}, record("E001", "+1.5%", 2, 1))
	assert.Equal(t, Float(61.5), table.Rows[0].Get(ColTurnout))
}

func TestDerive_Uncontested(t *testing.T) {
	tests := []struct {
		policy  MarginPolicy
		want    Value
		wantErr bool
	}{
		{MarginError, Null(), true},
		{MarginNull, Null(), false},
		{MarginTotal, Int(25000), false},
	}
	for _, tt := range tests {
		t.Run(tt.policy.String(), func(t *testing.T) {
			assembled, err := Assemble(mustFlatten(record("E001", "+1.5%", 25000)))
			require.NoError(t, err)

			derived, err := Derive(assembled, DeriveOptions{Uncontested: tt.policy})
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, models.IsCode(err, models.ErrCodeMalformed))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, derived.Rows[0].Get(ColWinMargin))
		})
	}
}

func TestDerive_BadTurnoutChange(t *testing.T) {
	assembled, err := Assemble(mustFlatten(record("E001", "1.5%", 2, 1)))
	require.NoError(t, err)

	_, err = Derive(assembled, DeriveOptions{})
	require.Error(t, err)
	assert.True(t, models.IsCode(err, models.ErrCodeMalformed))
	assert.Contains(t, err.Error(), "E001")
}

func TestDerive_DoesNotMutateInput(t *testing.T) {
	assembled, err := Assemble(mustFlatten(record("E001", "+1.5%", 2, 1)))
	require.NoError(t, err)
	before := assembled.Clone()

	_, err = Derive(assembled, DeriveOptions{})
	require.NoError(t, err)
	assert.Equal(t, before, assembled)
}

func TestDerive_Idempotent(t *testing.T) {
	recs := []models.RawConstituencyRecord{
		record("E001", "+1.5%", 20000, 15000, 1000),
		record("E002", "-0.8%", 30000, 25000),
	}

	first := deriveRecords(t, DeriveOptions{}, recs...)
	second := deriveRecords(t, DeriveOptions{}, recs...)
	if diff := cmp.Diff(first.Records(), second.Records(), cmp.AllowUnexported(Value{})); diff != "" {
		t.Errorf("repeated derive differs (-first +second):\n%s", diff)
	}

	again, err := Derive(first, DeriveOptions{})
	require.NoError(t, err)
	assert.Equal(t, first.Columns, again.Columns)
	if diff := cmp.Diff(first.Records(), again.Records(), cmp.AllowUnexported(Value{})); diff != "" {
		t.Errorf("derive of derived table differs (-first +again):\n%s", diff)
	}
}

func TestDerive_EmptyInput(t *testing.T) {
	_, err := Derive(&Table{}, DeriveOptions{})
	assert.True(t, models.IsCode(err, models.ErrCodeEmptyInput))
}
