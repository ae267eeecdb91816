package calculator

import (
	"reflect"
	"testing"
	"time"

	"FundDashboard/internal/model"
)

func seriesTable(cols []string, values ...[]model.Cell) *model.TidyTable {
	tbl := &model.TidyTable{Columns: cols}
	d := date(2024, time.January, 1)
	for _, row := range values {
		tbl.Rows = append(tbl.Rows, model.TidyRow{Date: d, Cells: row})
		d = d.AddDays(1)
	}
	return tbl
}

func TestRebase_PercentFromBase(t *testing.T) {
	tbl := seriesTable([]string{"A"},
		[]model.Cell{model.Number(100)},
		[]model.Cell{model.Number(110)},
		[]model.Cell{model.Number(90)},
	)
	got := Rebase(tbl, []string{"A"}).Series("A")
	want := []float64{0, 10, -10}
	for i, w := range want {
		v, ok := got[i].Value()
		if !ok {
			t.Fatalf("row %d: unexpected null", i)
		}
		if diff := v - w; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("row %d: expected %v, got %v", i, w, v)
		}
	}
}

func TestRebase_BaseIsFirstNonNull(t *testing.T) {
	tbl := seriesTable([]string{"A"},
		[]model.Cell{model.Null()},
		[]model.Cell{model.Number(50)},
		[]model.Cell{model.Null()},
		[]model.Cell{model.Number(75)},
	)
	got := Rebase(tbl, []string{"A"}).Series("A")
	if !got[0].IsNull() || !got[2].IsNull() {
		t.Errorf("expected nulls to propagate, got %v", got)
	}
	if v, _ := got[1].Value(); v != 0 {
		t.Errorf("expected 0 at base, got %v", v)
	}
	if v, _ := got[3].Value(); v != 50 {
		t.Errorf("expected 50, got %v", v)
	}
}

func TestRebase_AllNullAndMissingColumns(t *testing.T) {
	tbl := seriesTable([]string{"A", "B"},
		[]model.Cell{model.Null(), model.Number(1)},
		[]model.Cell{model.Null(), model.Number(2)},
	)
	out := Rebase(tbl, []string{"A", "Missing"})
	if out.Len() != 2 {
		t.Fatalf("expected 2 rows, got %d", out.Len())
	}
	for _, name := range []string{"A", "Missing"} {
		col := out.Series(name)
		if len(col) != 2 {
			t.Fatalf("%s: expected 2 cells, got %d", name, len(col))
		}
		for i, c := range col {
			if !c.IsNull() {
				t.Errorf("%s row %d: expected null, got %v", name, i, c)
			}
		}
	}
}

func TestRebase_ZeroBaseYieldsNull(t *testing.T) {
	tbl := seriesTable([]string{"A"},
		[]model.Cell{model.Number(0)},
		[]model.Cell{model.Number(5)},
	)
	for i, c := range Rebase(tbl, []string{"A"}).Series("A") {
		if !c.IsNull() {
			t.Errorf("row %d: expected null, got %v", i, c)
		}
	}
}

func TestFilterThenRebase_Repeatable(t *testing.T) {
	tbl := dailyTable(date(2023, time.January, 1), date(2024, time.April, 30))
	first := Rebase(FilterPeriod(tbl, model.Period3M), []string{"A"})
	second := Rebase(FilterPeriod(tbl, model.Period3M), []string{"A"})
	if !reflect.DeepEqual(first, second) {
		t.Error("expected identical results for identical inputs")
	}
}
