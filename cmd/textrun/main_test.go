package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/tsawler/textrun"
	"github.com/tsawler/textrun/internal/pdftest"
	"github.com/tsawler/textrun/logging"
	"github.com/tsawler/textrun/sections"
)

var fonts = []pdftest.Font{{Name: "F1", BaseFont: "Plain"}}

func line(y int, s string) string {
	return fmt.Sprintf("BT /F1 10 Tf 1 0 0 1 72 %d Tm (%s) Tj ET\n", y, s)
}

func page(strs ...string) string {
	var b strings.Builder
	for i, s := range strs {
		b.WriteString(line(700-i*20, s))
	}
	return b.String()
}

func writeAppendix(t *testing.T) string {
	t.Helper()
	data := pdftest.Document(fonts,
		page("Table of Contents", "Index of Locations", "3"),
		page("Introduction", "2"),
		page("Index of Locations", "Name", "Location", "Diagram", "Notes", "Acton Bridge", "MD101", "Footer", "3"),
		page("Index of Locations", "Name", "Location", "Diagram", "Crewe", "MD103", "Footer", "4"),
		page("Diagrams", "Overview", "5"),
	)
	path := filepath.Join(t.TempDir(), "appendix.pdf")
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Cleanup(func() { logging.SetLogger(nil) })

	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func TestStringsCommand(t *testing.T) {
	path := writeAppendix(t)

	out, err := run(t, "strings", path, "--pages", "2,5")
	require.NoError(t, err)
	assert.Equal(t, "--- page 2 ---\nIntroduction\n2\n\n--- page 5 ---\nDiagrams\nOverview\n5\n", out)
}

func TestStringsCommandJSON(t *testing.T) {
	out, err := run(t, "strings", writeAppendix(t), "-p", "2", "-f", "json")
	require.NoError(t, err)

	var got []textrun.PageStrings
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, []textrun.PageStrings{{Page: 2, Strings: []string{"Introduction", "2"}}}, got)
}

func TestIndexCommandYAML(t *testing.T) {
	out, err := run(t, "index", writeAppendix(t), "--format", "yaml")
	require.NoError(t, err)

	var got sections.Index
	require.NoError(t, yaml.Unmarshal([]byte(out), &got))
	assert.Equal(t, "3", got.Label)
	assert.Equal(t, 3, got.FirstPage)
	assert.Equal(t, 4, got.LastPage)
	assert.Equal(t, []string{"Acton Bridge", "MD101", "Crewe", "MD103"}, got.Entries)
}

func TestIndexCommandText(t *testing.T) {
	out, err := run(t, "index", writeAppendix(t))
	require.NoError(t, err)
	assert.Equal(t, "# Index of Locations (pages 3-4)\nActon Bridge\nMD101\nCrewe\nMD103\n", out)
}

func TestTOCCommand(t *testing.T) {
	out, err := run(t, "toc", writeAppendix(t))
	require.NoError(t, err)
	assert.Equal(t, "Index of Locations: label \"3\", listed on page 1, starts on page 3\n", out)

	_, err = run(t, "toc", writeAppendix(t), "--entry", "Glossary")
	assert.ErrorIs(t, err, sections.ErrEntryNotFound)
}

func TestRunsCommand(t *testing.T) {
	out, err := run(t, "runs", writeAppendix(t), "--pages", "2", "--format", "json")
	require.NoError(t, err)

	var got []pageRunsView
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 1)
	require.Len(t, got[0].Runs, 2)
	assert.Equal(t, runView{X: 72, Y: 700, Font: "F1", FontSize: 10, AvgWidth: 0.521, Raw: "496E74726F64756374696F6E", Text: "Introduction"}, got[0].Runs[0])

	_, err = run(t, "runs", writeAppendix(t))
	assert.Error(t, err)
}

func TestConfigFlagsOverride(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("cluster:\n  max_baseline_drift: 100\n  max_advance_gap: 1000\n"), 0644))

	// With huge tolerances every run of a page merges into one string
	out, err := run(t, "--config", cfgPath, "strings", writeAppendix(t), "-p", "2")
	require.NoError(t, err)
	assert.Equal(t, "--- page 2 ---\nIntroduction2\n", out)

	out, err = run(t, "--config", cfgPath, "--max-dy", "0.05", "strings", writeAppendix(t), "-p", "2")
	require.NoError(t, err)
	assert.Equal(t, "--- page 2 ---\nIntroduction\n2\n", out)
}

func TestInvalidLogLevel(t *testing.T) {
	_, err := run(t, "--log-level", "loud", "version")
	assert.Error(t, err)
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "textrun dev\n"))
}

func TestParsePages(t *testing.T) {
	tests := []struct {
		list    string
		want    []int
		wantErr bool
	}{
		{"1", []int{1}, false},
		{"1,3-5", []int{1, 3, 4, 5}, false},
		{" 2 , 4 - 5 ", []int{2, 4, 5}, false},
		{"", nil, false},
		{"0", nil, true},
		{"5-3", nil, true},
		{"a", nil, true},
		{"1-b", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.list, func(t *testing.T) {
			got, err := parsePages(tt.list)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWriteUnknownFormat(t *testing.T) {
	err := write(&bytes.Buffer{}, "xml", nil, nil)
	assert.Error(t, err)
}
