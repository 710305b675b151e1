package classify

import (
	"testing"

	"github.com/huangsam/almanac/schema"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		table   string
		context string
		want    schema.TableKind
	}{
		{
			name:    "standings with won lost pct",
			table:   "Team Won Lost Pct GB New York Yankees 110 44 .714 --",
			context: "American League Team Standings",
			want:    schema.StandingsTable,
		},
		{
			name:  "won lost without standings columns",
			table: "Pitcher Won Lost Lefty Grove 31 4",
			want:  schema.UnknownTable,
		},
		{
			name:    "hitting leaders",
			table:   "1 Babe Ruth New York 60",
			context: "Home Runs",
			want:    schema.HittingTable,
		},
		{
			name:    "hitting vocabulary but team totals",
			table:   "Team Batting Average Hits Doubles",
			context: "",
			want:    schema.UnknownTable,
		},
		{
			name:    "pitching leaders",
			table:   "Lefty Grove Philadelphia 2.81",
			context: "ERA Leaders",
			want:    schema.PitchingTable,
		},
		{
			name:    "pitching excludes win token",
			table:   "Strikeouts Won",
			context: "",
			want:    schema.UnknownTable,
		},
		{
			name:  "era does not match inside words",
			table: "General federal operations",
			want:  schema.UnknownTable,
		},
		{
			name:  "plural keyword matches",
			table: "Most home runs in a season",
			want:  schema.HittingTable,
		},
		{
			name:  "nothing recognizable",
			table: "Site Map Contact Us",
			want:  schema.UnknownTable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.table, tt.context))
		})
	}
}

func TestClassifyDeterministic(t *testing.T) {
	table := "Batting Average Leaders Ty Cobb Detroit .420"
	first := Classify(table, "")
	for range 10 {
		assert.Equal(t, first, Classify(table, ""))
	}
}

func TestRulesOrder(t *testing.T) {
	kinds := make([]schema.TableKind, len(Rules))
	for i, r := range Rules {
		kinds[i] = r.Kind
	}
	assert.Equal(t, []schema.TableKind{schema.StandingsTable, schema.HittingTable, schema.PitchingTable}, kinds)
}
