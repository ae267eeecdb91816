package render

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"cloud.google.com/go/civil"

	"FundDashboard/internal/model"
	"FundDashboard/internal/view"
)

func sampleView(t *testing.T) *view.View {
	t.Helper()
	tbl := &model.TidyTable{Columns: []string{"Pensum Global", "OSEBX"}}
	d := civil.Date{Year: 2024, Month: time.January, Day: 1}
	for _, row := range [][]model.Cell{
		{model.Number(100), model.Number(50)},
		{model.Number(110), model.Null()},
		{model.Number(90), model.Number(55)},
	} {
		tbl.Rows = append(tbl.Rows, model.TidyRow{Date: d, Cells: row})
		d = d.AddDays(1)
	}
	v := view.Build(tbl, view.Request{Period: model.PeriodMax, Series: tbl.Columns, ShowTable: true})
	if v.Empty {
		t.Fatal("expected a non-empty view")
	}
	return v
}

func TestFormatDate(t *testing.T) {
	if got := FormatDate(civil.Date{Year: 2024, Month: time.March, Day: 5}); got != "05.03.2024" {
		t.Errorf("expected 05.03.2024, got %s", got)
	}
}

func TestFormatPercent(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{10.000000000000009, "10.00"},
		{-9.999, "-10.00"},
		{0.125, "0.13"},
		{0, "0.00"},
	}
	for _, tt := range tests {
		if got := FormatPercent(tt.in); got != tt.want {
			t.Errorf("FormatPercent(%v): expected %s, got %s", tt.in, tt.want, got)
		}
	}
}

func TestTooltipLabel(t *testing.T) {
	if got := TooltipLabel("Pensum Norge", 1.234); got != "Pensum Norge: 1.23%" {
		t.Errorf("expected %q, got %q", "Pensum Norge: 1.23%", got)
	}
}

func TestCaption(t *testing.T) {
	now := time.Date(2024, time.June, 15, 9, 7, 0, 0, time.UTC)
	if got := Caption(now); got != "Sist oppdatert: 15.06.2024 09:07" {
		t.Errorf("unexpected caption %q", got)
	}
}

func TestTableRows(t *testing.T) {
	header, rows := TableRows(sampleView(t))
	if strings.Join(header, ",") != "Dato,Pensum Global,OSEBX" {
		t.Errorf("unexpected header %q", header)
	}
	want := [][]string{
		{"01.01.2024", "0.00", "0.00"},
		{"02.01.2024", "10.00", ""},
		{"03.01.2024", "-10.00", "10.00"},
	}
	if len(rows) != len(want) {
		t.Fatalf("expected %d rows, got %d", len(want), len(rows))
	}
	for i := range want {
		if strings.Join(rows[i], ",") != strings.Join(want[i], ",") {
			t.Errorf("row %d: expected %q, got %q", i, want[i], rows[i])
		}
	}
}

func TestTableHTML(t *testing.T) {
	out, err := TableHTML(sampleView(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"<table>", "Pensum Global", "03.01.2024", "-10.00"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in table html:\n%s", want, out)
		}
	}
}

func TestTableMarkdown_Empty(t *testing.T) {
	v := &view.View{Empty: true, EmptyMessage: view.EmptyMessage}
	if out := TableMarkdown(v); !strings.Contains(out, view.EmptyMessage) {
		t.Errorf("expected empty message, got %q", out)
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleView(t)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Dato,Pensum Global,OSEBX", "02.01.2024,10.00,", "03.01.2024,-10.00,10.00"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in csv:\n%s", want, out)
		}
	}
}

func TestChartSVG(t *testing.T) {
	var buf bytes.Buffer
	if err := ChartSVG(&buf, sampleView(t), 800, 420); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "<svg") {
		t.Errorf("expected svg output, got %q", buf.String()[:40])
	}
}

func TestChartSVG_NoData(t *testing.T) {
	err := ChartSVG(&bytes.Buffer{}, &view.View{Empty: true}, 800, 420)
	if !errors.Is(err, ErrNoChartData) {
		t.Errorf("expected ErrNoChartData, got %v", err)
	}
}

func TestWritePage(t *testing.T) {
	v := sampleView(t)
	d, err := NewPageData("http://sheet", []string{"Pensum Global", "OSEBX", "Other"}, v, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var buf bytes.Buffer
	if err := WritePage(&buf, d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	for _, want := range []string{PageTitle, "/chart.svg?", `data-src="/api/series?`, `id="tooltip"`, "<table>", "Sist oppdatert:", `value="Other">`} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in page", want)
		}
	}
}

func TestWritePage_Error(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePage(&buf, ErrorPageData("http://sheet", model.PeriodYTD, errors.New("status 404"))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "Kunne ikke laste data: status 404") {
		t.Error("expected error banner")
	}
	if strings.Contains(buf.String(), "<img") {
		t.Error("expected no chart on error")
	}
}

func TestTableHTML_LiteralSeriesNames(t *testing.T) {
	tbl := &model.TidyTable{Columns: []string{"Fund *A*", "B|C <x>"}}
	d := civil.Date{Year: 2024, Month: time.January, Day: 1}
	for _, row := range [][]model.Cell{
		{model.Number(100), model.Number(10)},
		{model.Number(110), model.Number(11)},
	} {
		tbl.Rows = append(tbl.Rows, model.TidyRow{Date: d, Cells: row})
		d = d.AddDays(1)
	}
	v := view.Build(tbl, view.Request{Period: model.PeriodMax, Series: tbl.Columns})

	out, err := TableHTML(v)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(out, "<em>") || strings.Contains(out, "<x>") {
		t.Errorf("series names interpreted as markup:\n%s", out)
	}
	for _, want := range []string{"Fund *A*", "B|C &lt;x&gt;"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in table html:\n%s", want, out)
		}
	}
}
