package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// ScenarioDir is the shared scenario corpus, relative to any package
// directory under internal/.
const ScenarioDir = "../scenario/testdata/scenarios"

// GoldenDir holds the golden traces for ScenarioDir.
const GoldenDir = "../scenario/testdata/golden"

// WriteScenario writes body to dir/name.yaml and returns the path.
func WriteScenario(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name+".yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write scenario %s: %v", name, err)
	}
	return path
}
