package worker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/ppiankov/sharechart/internal/model"
	"github.com/ppiankov/sharechart/internal/pipeline"
)

// mockBuilder implements Builder
type mockBuilder struct {
	mu       sync.Mutex
	fail     map[string]bool
	empty    map[string]bool
	rendered []pipeline.Outputs
}

func (m *mockBuilder) BuildPage(ctx context.Context, page model.PageConfig) (*model.Report, error) {
	// Earlier pages finish later so ordering is exercised
	if page.Name == "first" {
		time.Sleep(20 * time.Millisecond)
	}
	if m.fail[page.Name] {
		return nil, errors.New("load failed")
	}
	return &model.Report{Page: page.Name, Title: page.Title, Empty: m.empty[page.Name]}, nil
}

func (m *mockBuilder) BuildTransit(ctx context.Context, q pipeline.TransitQuery) (*model.Report, error) {
	return &model.Report{Page: "transit", Title: q.Date + " " + q.Line}, nil
}

func (m *mockBuilder) RenderReport(report *model.Report, out pipeline.Outputs) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rendered = append(m.rendered, out)
	return nil
}

func TestBatchProcessor_Process(t *testing.T) {
	builder := &mockBuilder{fail: map[string]bool{"broken": true}}
	processor := NewBatchProcessor(builder, 3, "out", "svg")

	pages := []model.PageConfig{{Name: "first"}, {Name: "broken"}, {Name: "third"}}
	results := processor.Process(context.Background(), PageTargets(pages))

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for i, want := range []string{"first", "broken", "third"} {
		if results[i].Name != want {
			t.Errorf("result %d: expected %s, got %s", i, want, results[i].Name)
		}
	}

	if results[1].GetError() == nil {
		t.Error("expected error for broken page")
	}
	if results[0].GetError() != nil || results[2].GetError() != nil {
		t.Error("one failure should not affect other pages")
	}

	if results[0].Outputs.Chart != filepath.Join("out", "first.svg") {
		t.Errorf("unexpected chart path %s", results[0].Outputs.Chart)
	}
	if len(builder.rendered) != 2 {
		t.Errorf("expected 2 rendered reports, got %d", len(builder.rendered))
	}
}

func TestBatchProcessor_EmptyReportSkipsChart(t *testing.T) {
	builder := &mockBuilder{empty: map[string]bool{"zero": true}}
	processor := NewBatchProcessor(builder, 1, "out", "")

	results := processor.Process(context.Background(), PageTargets([]model.PageConfig{{Name: "zero"}}))
	if results[0].Outputs.Chart != "" {
		t.Errorf("expected no chart output, got %s", results[0].Outputs.Chart)
	}
	if results[0].Outputs.JSON == "" {
		t.Error("expected JSON output for empty report")
	}
}

func TestPageTargets_StayInsideOutDir(t *testing.T) {
	builder := &mockBuilder{}
	processor := NewBatchProcessor(builder, 2, "out", ".png")

	pages := []model.PageConfig{{Name: "a/b"}, {Name: "../x"}, {Name: `c\d`}}
	results := processor.Process(context.Background(), PageTargets(pages))

	for i, want := range []string{"a_b", ".._x", "c_d"} {
		if results[i].Name != want {
			t.Errorf("result %d: expected %s, got %s", i, want, results[i].Name)
		}
		for _, path := range []string{results[i].Outputs.JSON, results[i].Outputs.Markdown, results[i].Outputs.Chart} {
			if filepath.Dir(path) != "out" {
				t.Errorf("output %s escapes out dir", path)
			}
		}
	}
}

func TestBatchProcessor_Process_Empty(t *testing.T) {
	processor := NewBatchProcessor(&mockBuilder{}, 2, "out", ".png")

	results := processor.Process(context.Background(), nil)
	if len(results) != 0 {
		t.Errorf("expected 0 results, got %d", len(results))
	}
}

func TestBuildJob_NoTarget(t *testing.T) {
	job := &BuildJob{Target: Target{Name: "nothing"}, Builder: &mockBuilder{}}
	if job.Execute(context.Background()).GetError() == nil {
		t.Error("expected error for empty target")
	}
}

func TestTransitTargets(t *testing.T) {
	targets := TransitTargets([]string{"2025-10-01", "2025-10-02"}, []string{"1호선", "경의 중앙선"}, "2025-10")

	if len(targets) != 4 {
		t.Fatalf("expected 4 targets, got %d", len(targets))
	}
	if targets[0].Name != "transit-2025-10-01-1호선" {
		t.Errorf("unexpected name %s", targets[0].Name)
	}
	if targets[1].Name != "transit-2025-10-01-경의_중앙선" {
		t.Errorf("expected spaces replaced, got %s", targets[1].Name)
	}
	if targets[3].Transit.Date != "2025-10-02" || targets[3].Transit.Month != "2025-10" {
		t.Errorf("unexpected query %+v", targets[3].Transit)
	}
}

func TestSelectPages(t *testing.T) {
	cfg := model.DefaultConfig()

	all, err := SelectPages(cfg, nil)
	if err != nil || len(all) != len(cfg.Pages) {
		t.Fatalf("expected all pages, got %d (%v)", len(all), err)
	}

	if _, err := SelectPages(cfg, []string{"nope"}); err == nil {
		t.Error("expected error for unknown page")
	}
}

func TestReadPageNames(t *testing.T) {
	content := "height\n# comment\n  weight  \n\nheight\n"
	path := filepath.Join(t.TempDir(), "pages.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	names, err := ReadPageNames(path)
	if err != nil {
		t.Fatalf("ReadPageNames failed: %v", err)
	}

	expected := []string{"height", "weight"}
	if len(names) != len(expected) {
		t.Fatalf("expected %d names, got %d", len(expected), len(names))
	}
	for i, name := range names {
		if name != expected[i] {
			t.Errorf("expected %s at index %d, got %s", expected[i], i, name)
		}
	}
}

func TestReadPageNames_NonExistent(t *testing.T) {
	_, err := ReadPageNames("non_existent_file.txt")
	if err == nil {
		t.Error("expected error for non-existent file, got nil")
	}
}

func TestBuildResult_GetError(t *testing.T) {
	expected := errors.New("build failed")
	r := &BuildResult{Name: "height", Error: expected}
	if r.GetError() != expected {
		t.Errorf("expected %v, got %v", expected, r.GetError())
	}
}
