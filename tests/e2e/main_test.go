package main_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// buildTLV compiles the binary into a temp dir and returns its path.
func buildTLV(t *testing.T) string {
	t.Helper()
	binPath := filepath.Join(t.TempDir(), "tlv")

	cmd := exec.Command("go", "build", "-o", binPath, "./cmd/tlv")
	cmd.Dir = "../../" // Run from project root
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("Build failed: %v\n%s", err, out)
	}
	return binPath
}

// writeEnv creates a working directory holding .tlv/timeline.yaml.
func writeEnv(t *testing.T) string {
	t.Helper()
	envDir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(envDir, ".tlv"), 0755); err != nil {
		t.Fatal(err)
	}

	yamlContent := `title: E2E History
entries:
  - id: founded
    title: Founded
    date: 1999-01-02T00:00:00Z
    summary: Two people, one garage
  - id: ipo
    title: IPO
    date: 2004-08-19T00:00:00Z
    link: https://example.com/ipo
`
	if err := os.WriteFile(filepath.Join(envDir, ".tlv", "timeline.yaml"), []byte(yamlContent), 0644); err != nil {
		t.Fatal(err)
	}
	return envDir
}

func TestEndToEndVersion(t *testing.T) {
	tlv := buildTLV(t)

	runCmd := exec.Command(tlv, "--version")
	out, err := runCmd.CombinedOutput()
	if err != nil {
		t.Fatalf("Execution failed: %v\n%s", err, out)
	}
	if !strings.HasPrefix(string(out), "tlv v") {
		t.Errorf("unexpected version output: %q", out)
	}
}

func TestEndToEndExports(t *testing.T) {
	tlv := buildTLV(t)
	envDir := writeEnv(t)

	runCmd := exec.Command(tlv,
		"--export-md", "history.md",
		"--export-svg", "history.svg",
		"--export-png", "history.png",
	)
	runCmd.Dir = envDir
	if out, err := runCmd.CombinedOutput(); err != nil {
		t.Fatalf("Export failed: %v\n%s", err, out)
	}

	md, err := os.ReadFile(filepath.Join(envDir, "history.md"))
	if err != nil {
		t.Fatalf("markdown not written: %v", err)
	}
	for _, want := range []string{"# E2E History", "Founded", "[Read more](https://example.com/ipo)"} {
		if !strings.Contains(string(md), want) {
			t.Errorf("markdown missing %q", want)
		}
	}

	svg, err := os.ReadFile(filepath.Join(envDir, "history.svg"))
	if err != nil {
		t.Fatalf("svg not written: %v", err)
	}
	if strings.Count(string(svg), "<circle") != 2 {
		t.Errorf("svg should mark 2 entries")
	}

	if info, err := os.Stat(filepath.Join(envDir, "history.png")); err != nil || info.Size() == 0 {
		t.Errorf("png not written: %v", err)
	}
}

func TestEndToEndMissingTimeline(t *testing.T) {
	tlv := buildTLV(t)

	runCmd := exec.Command(tlv, "--export-md", "out.md")
	runCmd.Dir = t.TempDir()
	out, err := runCmd.CombinedOutput()
	if err == nil {
		t.Fatalf("expected failure without a timeline, got:\n%s", out)
	}
	if !strings.Contains(string(out), "Error") {
		t.Errorf("expected an error message, got %q", out)
	}
}
