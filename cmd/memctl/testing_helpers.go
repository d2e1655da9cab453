package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/wentworth/Malloc/malloc"
	"github.com/wentworth/Malloc/mem"
)

// writeTrace writes a trace script to a temp file and returns its path
func writeTrace(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "workload.trace")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write trace: %v", err)
	}
	return path
}

// buildImage replays a small workload onto a file-backed heap and returns
// the image path. The image holds one live block between two free ones.
func buildImage(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "heap.img")

	f, err := mem.CreateFile(path)
	if err != nil {
		t.Fatalf("failed to create image: %v", err)
	}
	h, err := malloc.New(f, nil)
	if err != nil {
		t.Fatalf("failed to init heap: %v", err)
	}

	p1, _, err := h.Alloc(48)
	if err != nil {
		t.Fatalf("alloc failed: %v", err)
	}
	if _, _, err := h.Alloc(64); err != nil {
		t.Fatalf("alloc failed: %v", err)
	}
	if err := h.Free(p1); err != nil {
		t.Fatalf("free failed: %v", err)
	}

	if err := f.Sync(); err != nil {
		t.Fatalf("sync failed: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	return path
}

// corruptImage zeroes the epilogue word so both the sentinel check and the
// heap walk fault on the image
func corruptImage(t *testing.T, path string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read image: %v", err)
	}
	for i := len(data) - 4; i < len(data); i++ {
		data[i] = 0
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("failed to rewrite image: %v", err)
	}
}

// captureOutput captures stdout while running a function
func captureOutput(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	// Save original stdout
	origStdout := os.Stdout

	// Create a pipe to capture output
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}

	// Redirect stdout to pipe
	os.Stdout = w

	// Run function
	fnErr := fn()

	// Close write end and restore stdout
	w.Close()
	os.Stdout = origStdout

	// Read captured output
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		t.Fatalf("failed to read output: %v", err)
	}

	return buf.String(), fnErr
}

// assertJSON checks that output is valid JSON
func assertJSON(t *testing.T, output string) {
	t.Helper()
	var result interface{}
	if err := json.Unmarshal([]byte(output), &result); err != nil {
		t.Errorf("invalid JSON output: %v\nOutput: %s", err, output)
	}
}

// assertContains checks that output contains all expected strings
func assertContains(t *testing.T, output string, expected []string) {
	t.Helper()
	for _, want := range expected {
		if !strings.Contains(output, want) {
			t.Errorf("output missing expected string %q\nGot: %s", want, output)
		}
	}
}

// assertNotContains checks that output doesn't contain unwanted strings
func assertNotContains(t *testing.T, output string, unwanted []string) {
	t.Helper()
	for _, dont := range unwanted {
		if strings.Contains(output, dont) {
			t.Errorf("output contains unwanted string %q\nGot: %s", dont, output)
		}
	}
}
