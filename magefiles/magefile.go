//go:build mage

// Package main provides build targets for dynarray using Mage.
//
// Usage:
//
//	mage build     Compile the dynarray binary to bin/
//	mage test      Run all tests
//	mage race      Run all tests with the race detector
//	mage golden    Regenerate golden traces from the scenario corpus
//	mage lint      Run golangci-lint
//	mage clean     Remove build artifacts
package main

import (
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binaryName  = "dynarray"
	binaryDir   = "bin"
	cmdDir      = "./cmd/dynarray"
	scenarioDir = "internal/scenario/testdata/scenarios"
	goldenDir   = "internal/scenario/testdata/golden"
)

// sqlite3 needs cgo.
var buildEnv = map[string]string{"CGO_ENABLED": "1"}

// Build compiles the dynarray binary to bin/.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	return sh.RunWithV(buildEnv, "go", "build", "-v", "-o", filepath.Join(binaryDir, binaryName), cmdDir)
}

// Test runs all tests.
func Test() error {
	return sh.RunWithV(buildEnv, "go", "test", "./...")
}

// Race runs all tests with the race detector.
func Race() error {
	return sh.RunWithV(buildEnv, "go", "test", "-race", "./...")
}

// Golden rewrites the golden traces with the current scenario output.
func Golden() error {
	mg.Deps(Build)
	return sh.RunV(filepath.Join(binaryDir, binaryName), "test", scenarioDir, "--golden", goldenDir, "--update")
}

// Lint runs golangci-lint.
func Lint() error {
	return sh.RunV("golangci-lint", "run", "./...")
}

// Clean removes build artifacts.
func Clean() error {
	if err := os.RemoveAll(binaryDir); err != nil {
		return err
	}
	return sh.RunV("go", "clean")
}
