// ABOUTME: Tests for the kbctl root command and its subcommands
// ABOUTME: Covers command structure plus a migrate round trip on temp files
package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"legalbot/internal/models"
)

func TestNewRootCmd(t *testing.T) {
	cmd := NewRootCmd()

	if cmd.Use != "kbctl" {
		t.Errorf("Use = %q, want %q", cmd.Use, "kbctl")
	}
	if cmd.Short == "" {
		t.Error("Short description should not be empty")
	}
	if !cmd.SilenceUsage {
		t.Error("SilenceUsage should be true to prevent usage on errors")
	}
}

func TestRootCmd_Subcommands(t *testing.T) {
	cmd := NewRootCmd()

	expectedSubcommands := []string{"migrate", "analyze", "version"}

	for _, subCmdName := range expectedSubcommands {
		t.Run(subCmdName, func(t *testing.T) {
			found := false
			for _, sub := range cmd.Commands() {
				if sub.Use == subCmdName || strings.HasPrefix(sub.Use, subCmdName+" ") {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("Subcommand %q not found", subCmdName)
			}
		})
	}
}

func TestMigrateCmd_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "knowledge.csv")
	jsonPath := filepath.Join(dir, "knowledge.json")

	csvData := "id,topic,question,answer,law_refs,url\n" +
		"1.0,Аренда,Как оформить аренду?,Заключите договор аренды.,ГК РФ гл. 34,https://rosreestr.gov.ru\n"
	if err := os.WriteFile(csvPath, []byte(csvData), 0644); err != nil {
		t.Fatal(err)
	}

	cmd := NewRootCmd()
	var output bytes.Buffer
	cmd.SetOut(&output)
	cmd.SetErr(&output)
	cmd.SetArgs([]string{"migrate", csvPath, jsonPath})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(output.String(), "Migrated 1 records") {
		t.Errorf("output = %q, want migration summary", output.String())
	}

	data, err := os.ReadFile(jsonPath)
	if err != nil {
		t.Fatal(err)
	}
	var records []models.Record
	if err := json.Unmarshal(data, &records); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	rec := records[0]
	if rec.ID != "1" {
		t.Errorf("ID = %q, want %q", rec.ID, "1")
	}
	if rec.Topic != "Аренда" {
		t.Errorf("Topic = %q, want %q", rec.Topic, "Аренда")
	}
	if len(rec.Sources) != 1 || rec.Sources[0].URL != "https://rosreestr.gov.ru" {
		t.Errorf("Sources = %+v, want one rosreestr source", rec.Sources)
	}
}

func TestMigrateCmd_MissingInput(t *testing.T) {
	dir := t.TempDir()

	cmd := NewRootCmd()
	var output bytes.Buffer
	cmd.SetOut(&output)
	cmd.SetErr(&output)
	cmd.SetArgs([]string{"migrate", filepath.Join(dir, "nope.csv"), filepath.Join(dir, "out.json")})

	if err := cmd.Execute(); err == nil {
		t.Fatal("expected error for missing input file")
	}
}

func TestVersionCmd_Output(t *testing.T) {
	SetVersion("1.2.3", "abc123", "2026-01-01")
	defer SetVersion("dev", "none", "unknown")

	cmd := NewRootCmd()
	var output bytes.Buffer
	cmd.SetOut(&output)
	cmd.SetErr(&output)
	cmd.SetArgs([]string{"version"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	got := output.String()
	if !strings.Contains(got, "kbctl 1.2.3") {
		t.Errorf("output = %q, want version line", got)
	}
	if !strings.Contains(got, "abc123") {
		t.Errorf("output = %q, want commit hash", got)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in     string
		maxLen int
		want   string
	}{
		{"short", 60, "short"},
		{"аренда жилого помещения", 10, "аренда ..."},
		{"ab", 2, "ab"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.maxLen); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.maxLen, got, tt.want)
		}
	}
}
