//go:build integration

package integration

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// binaryPath returns the path to the built CLI binary
func binaryPath(t *testing.T) string {
	t.Helper()
	// Look for the binary in common locations
	paths := []string{
		"../orgchart",
		"./orgchart",
		filepath.Join(os.Getenv("GOPATH"), "bin", "orgchart"),
	}

	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			abs, _ := filepath.Abs(p)
			return abs
		}
	}

	// Try to build it
	t.Log("Binary not found, building...")
	cmd := exec.Command("go", "build", "-o", "../orgchart", "../cmd/orgchart")
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("Failed to build binary: %v\n%s", err, out)
	}

	abs, _ := filepath.Abs("../orgchart")
	return abs
}

// createTestConfig creates a temporary config file for testing
func createTestConfig(t *testing.T, seedPath string) string {
	t.Helper()
	configPath := TempConfigPath(t)

	config := `[general]
seed_path = "` + seedPath + `"

[display]
indent = "  "
styled = false

[log]
level = "error"
`

	if err := os.WriteFile(configPath, []byte(config), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	return configPath
}

// TestCLI_Show tests the show command with a seed from config
func TestCLI_Show(t *testing.T) {
	binary := binaryPath(t)
	configPath := createTestConfig(t, SeedPath(t, "company.yaml"))

	cmd := exec.Command(binary, "show", "--config", configPath)
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("show command failed: %v\n%s", err, out)
	}

	output := string(out)

	expected := []string{
		"CEO (ID: 100): Margaret",
		"  CTO (ID: 110): Linus",
		"      Engineer (ID: 113): Dennis",
		"  CFO (ID: 120): Frances",
		"7 employees across 4 levels",
	}
	for _, line := range expected {
		if !strings.Contains(output, line) {
			t.Errorf("Expected %q in output, got: %s", line, output)
		}
	}
}

// TestCLI_ShowTOMLMatchesYAML checks both seed formats render identically
func TestCLI_ShowTOMLMatchesYAML(t *testing.T) {
	binary := binaryPath(t)

	yamlOut, err := exec.Command(binary, "show", "--config", TempConfigPath(t), "--seed", SeedPath(t, "company.yaml")).CombinedOutput()
	if err != nil {
		t.Fatalf("show yaml failed: %v\n%s", err, yamlOut)
	}
	tomlOut, err := exec.Command(binary, "show", "--config", TempConfigPath(t), "--seed", SeedPath(t, "company.toml")).CombinedOutput()
	if err != nil {
		t.Fatalf("show toml failed: %v\n%s", err, tomlOut)
	}

	if string(yamlOut) != string(tomlOut) {
		t.Errorf("YAML and TOML output differ:\n%s\n---\n%s", yamlOut, tomlOut)
	}
}

// TestCLI_FindByPosition tests the find command returns pre-order matches
func TestCLI_FindByPosition(t *testing.T) {
	binary := binaryPath(t)
	configPath := createTestConfig(t, SeedPath(t, "company.yaml"))

	cmd := exec.Command(binary, "find", "--position", "Engineer", "--config", configPath)
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("find command failed: %v\n%s", err, out)
	}

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	want := []string{
		"ID: 111, Name: Ken, Position: Engineer",
		"ID: 112, Name: Barbara, Position: Engineer",
		"ID: 113, Name: Dennis, Position: Engineer",
	}
	if len(lines) != len(want) {
		t.Fatalf("Expected %d lines, got %d: %s", len(want), len(lines), out)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

// TestCLI_FindMissingID tests that an unknown id exits non-zero
func TestCLI_FindMissingID(t *testing.T) {
	binary := binaryPath(t)
	configPath := createTestConfig(t, SeedPath(t, "company.yaml"))

	cmd := exec.Command(binary, "find", "--id", "999", "--config", configPath)
	out, err := cmd.CombinedOutput()
	if err == nil {
		t.Fatalf("Expected error for unknown id, got: %s", out)
	}
	if !strings.Contains(string(out), "employee not found") {
		t.Errorf("Expected 'employee not found' in output, got: %s", out)
	}
}

// TestCLI_Shell drives the interactive menu through stdin
func TestCLI_Shell(t *testing.T) {
	binary := binaryPath(t)
	configPath := createTestConfig(t, SeedPath(t, "company.yaml"))

	input := strings.Join([]string{
		"9", "110", // delete the CTO and their team
		"4", "113", // Dennis went with them
		"7", "121", "Controller",
		"3",
		"0",
	}, "\n") + "\n"

	cmd := exec.Command(binary, "shell", "--config", configPath)
	cmd.Stdin = strings.NewReader(input)
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("shell command failed: %v\n%s", err, out)
	}

	output := string(out)
	expected := []string{
		"Employee with ID 110 has been deleted.",
		"No employee found with ID: 113",
		"Employee with ID 121 has been promoted.",
		"    Controller (ID: 121): John",
		"3 employees across 3 levels",
		"Goodbye.",
	}
	for _, s := range expected {
		if !strings.Contains(output, s) {
			t.Errorf("Expected %q in output, got: %s", s, output)
		}
	}
}

// TestCLI_Demo tests the demo command
func TestCLI_Demo(t *testing.T) {
	binary := binaryPath(t)

	cmd := exec.Command(binary, "demo", "--config", TempConfigPath(t))
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("demo command failed: %v\n%s", err, out)
	}

	if !strings.Contains(string(out), "Employee with ID 4 has been deleted.") {
		t.Errorf("Expected delete message in output, got: %s", out)
	}
}

// TestCLI_InvalidSeed tests that a broken seed is reported
func TestCLI_InvalidSeed(t *testing.T) {
	binary := binaryPath(t)
	seedPath := CopySeedToTemp(t, "company.yaml")
	if err := os.WriteFile(seedPath, []byte("id: [broken"), 0644); err != nil {
		t.Fatal(err)
	}

	cmd := exec.Command(binary, "show", "--seed", seedPath, "--config", TempConfigPath(t))
	out, err := cmd.CombinedOutput()
	if err == nil {
		t.Fatalf("Expected error for broken seed, got: %s", out)
	}
	if !strings.Contains(string(out), "decoding yaml seed") {
		t.Errorf("Expected decode error in output, got: %s", out)
	}
}
