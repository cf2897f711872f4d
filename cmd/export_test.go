package cmd

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Tiliavir/hourlog/internal/model"
	"github.com/Tiliavir/hourlog/internal/tracker"
)

func TestCsvEscape(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"plain", "plain"},
		{"with space", "with space"},
		{"with,comma", `"with,comma"`},
		{`with"quote`, `"with""quote"`},
		{"with\nnewline", "\"with\nnewline\""},
		{"with\rreturn", "\"with\rreturn\""},
		{"", ""},
	}
	for _, tt := range tests {
		got := csvEscape(tt.input)
		if got != tt.want {
			t.Errorf("csvEscape(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

var sampleRecords = []tracker.Record{
	{Date: "2026-10-15", Hour: 9, Activity: model.Work, Note: "review, part 1", CreatedAt: time.Date(2026, 10, 15, 10, 1, 0, 0, time.UTC)},
	{Date: "2026-10-16", Hour: 14, Activity: model.Rest, CreatedAt: time.Date(2026, 10, 16, 15, 0, 0, 0, time.UTC)},
}

func TestWriteExport_CSV(t *testing.T) {
	var buf bytes.Buffer
	if err := writeExport(&buf, "csv", sampleRecords); err != nil {
		t.Fatalf("writeExport: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3:\n%s", len(lines), buf.String())
	}
	if lines[0] != "date,hour,activity,note,created_at" {
		t.Errorf("header = %q", lines[0])
	}
	if want := `2026-10-15,9,work,"review, part 1",2026-10-15T10:01:00Z`; lines[1] != want {
		t.Errorf("row = %q, want %q", lines[1], want)
	}
}

func TestWriteExport_JSON(t *testing.T) {
	var buf bytes.Buffer
	if err := writeExport(&buf, "json", sampleRecords); err != nil {
		t.Fatalf("writeExport: %v", err)
	}
	var got []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if len(got) != 2 || got[1]["activity"] != "rest" || got[0]["hour"] != float64(9) {
		t.Errorf("decoded = %v", got)
	}
}

func TestWriteExport_YAML(t *testing.T) {
	var buf bytes.Buffer
	if err := writeExport(&buf, "yaml", sampleRecords); err != nil {
		t.Fatalf("writeExport: %v", err)
	}
	var got []map[string]any
	if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not YAML: %v", err)
	}
	if len(got) != 2 || got[0]["note"] != "review, part 1" {
		t.Errorf("decoded = %v", got)
	}
}

func TestWriteExport_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := writeExport(&buf, "json", nil); err != nil {
		t.Fatalf("writeExport: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Errorf("empty export = %q, want []", buf.String())
	}
}
