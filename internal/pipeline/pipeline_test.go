package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ppiankov/sharechart/internal/ingest"
	"github.com/ppiankov/sharechart/internal/model"
	"github.com/ppiankov/sharechart/internal/transit"
)

const heightCSV = "구분 , 검사인원\n150 미만, 20\n150-160 , 30\n160-170, 50\n190 이상, -\n"

const subwayCSV = `사용일자,노선명,역명,승차총승객수,하차총승객수
20251001,1호선,서울역,100,80
20251001,1호선,시청,50,70
20251001,2호선,강남,300,310
20251002,1호선,서울역,0,0
`

func newTestPipeline(t *testing.T) (*Pipeline, *model.Config, string) {
	t.Helper()
	dir := t.TempDir()

	cfg := model.DefaultConfig()
	cfg.Pages[0].Source = filepath.Join(dir, "cm.csv")
	cfg.Transit.Source = filepath.Join(dir, "subway.csv")

	if err := os.WriteFile(cfg.Pages[0].Source, []byte(heightCSV), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(cfg.Transit.Source, []byte(subwayCSV), 0o644); err != nil {
		t.Fatal(err)
	}

	p, err := NewPipeline(cfg, nil)
	if err != nil {
		t.Fatalf("NewPipeline: %v", err)
	}
	p.now = func() time.Time { return time.Date(2025, 10, 19, 9, 0, 0, 0, time.UTC) }
	return p, cfg, dir
}

func TestBuildPage(t *testing.T) {
	p, cfg, _ := newTestPipeline(t)

	report, err := p.BuildPage(context.Background(), cfg.Pages[0])
	if err != nil {
		t.Fatalf("BuildPage: %v", err)
	}

	if report.Total != 100 {
		t.Errorf("expected total 100, got %d", report.Total)
	}
	if report.Empty {
		t.Error("expected non-empty report")
	}
	if len(report.Chart) != 4 {
		t.Fatalf("expected 4 chart bars (zero row kept), got %d", len(report.Chart))
	}
	if len(report.Table) != 3 {
		t.Fatalf("expected 3 table rows (zero row dropped), got %d", len(report.Table))
	}
	if report.Chart[0].Label != "160-170" || report.Chart[0].Color.CSS != "red" {
		t.Errorf("unexpected top bar: %+v", report.Chart[0])
	}
	if report.Chart[3].Label != "190 이상" || report.Chart[3].Percentage != 0 {
		t.Errorf("expected zero row last, got %+v", report.Chart[3])
	}
	if report.CategoryHeading != "키 그룹" || report.CountHeading != "검사 인원" {
		t.Errorf("unexpected headings: %q / %q", report.CategoryHeading, report.CountHeading)
	}
	if report.Theme != model.PaletteGradient {
		t.Errorf("expected gradient palette, got %s", report.Theme)
	}
}

func TestBuildPage_AllZero(t *testing.T) {
	p, cfg, dir := newTestPipeline(t)
	page := cfg.Pages[0]
	page.Source = filepath.Join(dir, "zero.csv")
	if err := os.WriteFile(page.Source, []byte("구분,검사인원\nA,0\nB,x\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	report, err := p.BuildPage(context.Background(), page)
	if err != nil {
		t.Fatalf("expected empty report, not error: %v", err)
	}
	if !report.Empty || report.HasData() || report.Total != 0 {
		t.Errorf("expected empty report, got %+v", report)
	}
}

func TestBuildPage_IngestionErrors(t *testing.T) {
	p, cfg, dir := newTestPipeline(t)

	missing := cfg.Pages[0]
	missing.Source = filepath.Join(dir, "missing.csv")
	_, err := p.BuildPage(context.Background(), missing)
	var mfe *ingest.MissingFileError
	if !errors.As(err, &mfe) {
		t.Errorf("expected MissingFileError, got %v", err)
	}

	badColumn := cfg.Pages[0]
	badColumn.CountColumns = []string{"인원수"}
	_, err = p.BuildPage(context.Background(), badColumn)
	var pe *ingest.ParseError
	if !errors.As(err, &pe) {
		t.Errorf("expected ParseError, got %v", err)
	}
}

func TestBuildTransit(t *testing.T) {
	p, _, _ := newTestPipeline(t)

	report, err := p.BuildTransit(context.Background(), TransitQuery{Month: "2025-10"})
	if err != nil {
		t.Fatalf("BuildTransit: %v", err)
	}

	if report.Transit == nil {
		t.Fatal("expected transit detail")
	}
	if report.Transit.Date != "2025-10-01" || report.Transit.Line != "1호선" {
		t.Errorf("expected default selection, got %s / %s", report.Transit.Date, report.Transit.Line)
	}
	if len(report.Transit.Dates) != 2 || len(report.Transit.Lines) != 2 {
		t.Errorf("unexpected choices: %v %v", report.Transit.Dates, report.Transit.Lines)
	}
	if report.Total != 300 {
		t.Errorf("expected total 300, got %d", report.Total)
	}
	if report.Chart[0].Label != "서울역" || report.Chart[0].Color.CSS != "yellow" {
		t.Errorf("unexpected top bar: %+v", report.Chart[0])
	}
	if report.Theme != model.PaletteFade {
		t.Errorf("expected fade palette, got %s", report.Theme)
	}
	if !strings.Contains(report.Title, "2025-10-01 1호선") {
		t.Errorf("expected selection in title, got %q", report.Title)
	}
}

func TestBuildTransit_ZeroRidershipIsEmpty(t *testing.T) {
	p, _, _ := newTestPipeline(t)

	report, err := p.BuildTransit(context.Background(), TransitQuery{Date: "2025-10-02", Line: "1호선"})
	if err != nil {
		t.Fatalf("BuildTransit: %v", err)
	}
	if !report.Empty {
		t.Error("expected empty report for zero ridership")
	}
	if len(report.Transit.Stations) != 1 {
		t.Errorf("expected station row to survive, got %d", len(report.Transit.Stations))
	}
}

func TestBuildTransit_UnknownSelection(t *testing.T) {
	p, _, _ := newTestPipeline(t)

	_, err := p.BuildTransit(context.Background(), TransitQuery{Line: "9호선"})
	if !errors.Is(err, transit.ErrUnknownSelection) {
		t.Errorf("expected ErrUnknownSelection, got %v", err)
	}
}

func TestRenderReport(t *testing.T) {
	p, cfg, dir := newTestPipeline(t)
	report, err := p.BuildPage(context.Background(), cfg.Pages[0])
	if err != nil {
		t.Fatal(err)
	}

	var term bytes.Buffer
	out := Outputs{
		JSON:     filepath.Join(dir, "out", "height.json"),
		Markdown: filepath.Join(dir, "out", "height.md"),
		Chart:    filepath.Join(dir, "out", "height.svg"),
		Terminal: &term,
	}
	if err := p.RenderReport(report, out); err != nil {
		t.Fatalf("RenderReport: %v", err)
	}

	data, err := os.ReadFile(out.JSON)
	if err != nil {
		t.Fatal(err)
	}
	var decoded model.Report
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if decoded.Total != 100 || len(decoded.Table) != 3 {
		t.Errorf("unexpected decoded report: total=%d table=%d", decoded.Total, len(decoded.Table))
	}

	md, err := os.ReadFile(out.Markdown)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"# 2024 신체검사 키 비율 막대그래프", "| 160-170 | 50 | 50.00% |", "| 1 | 160-170 | 50.0% | `red` |", "Generated by sharechart"} {
		if !strings.Contains(string(md), want) {
			t.Errorf("markdown missing %q", want)
		}
	}

	if _, err := os.Stat(out.Chart); err != nil {
		t.Errorf("expected chart file: %v", err)
	}
	if !strings.Contains(term.String(), "160-170") {
		t.Error("expected terminal summary")
	}
}

func TestRenderReport_EmptySkipsChart(t *testing.T) {
	p, _, dir := newTestPipeline(t)
	report := &model.Report{Title: "empty", Empty: true}

	chartPath := filepath.Join(dir, "empty.png")
	mdPath := filepath.Join(dir, "empty.md")
	if err := p.RenderReport(report, Outputs{Chart: chartPath, Markdown: mdPath}); err != nil {
		t.Fatalf("RenderReport: %v", err)
	}
	if _, err := os.Stat(chartPath); !os.IsNotExist(err) {
		t.Error("expected no chart for empty report")
	}
	md, _ := os.ReadFile(mdPath)
	if !strings.Contains(string(md), "nothing to show") {
		t.Error("expected empty state in markdown")
	}
}

func TestMarkdown_NoFooter(t *testing.T) {
	r, err := NewRenderer(false, model.DefaultConfig().Chart)
	if err != nil {
		t.Fatal(err)
	}
	md := r.Markdown(&model.Report{Title: "x", Empty: true})
	if strings.Contains(md, "Generated by sharechart") {
		t.Error("footer should be omitted")
	}
}
