//go:build mage

// Package main provides build targets for the schemalab project using Mage.
//
// Usage:
//
//	mage build          Compile the schemalab binary to bin/
//	mage clean          Remove build artifacts
//	mage install        Install schemalab to GOPATH/bin
//	mage lint           Run golangci-lint
//	mage test:all       Run every test
//	mage test:unit      Run tests without the race detector, short mode
//	mage test:cover     Run tests and write coverage.out
//	mage stats          Print Go lines of code per package
package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binGo      = "go"
	binaryName = "schemalab"
	binaryDir  = "bin"
	cmdDir     = "./cmd/schemalab"
	versionVar = "github.com/mesh-intelligence/schemalab/internal/cli.Version"
)

// ldflags stamps the version from SCHEMALAB_VERSION or the latest git tag.
func ldflags() string {
	v := os.Getenv("SCHEMALAB_VERSION")
	if v == "" {
		tag, err := sh.Output("git", "describe", "--tags", "--abbrev=0")
		if err != nil {
			return ""
		}
		v = strings.TrimPrefix(tag, "v")
	}
	return "-X " + versionVar + "=" + v
}

// Build compiles the schemalab binary to bin/.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	args := []string{"build", "-v", "-o", filepath.Join(binaryDir, binaryName)}
	if flags := ldflags(); flags != "" {
		args = append(args, "-ldflags", flags)
	}
	return sh.RunV(binGo, append(args, cmdDir)...)
}

// Clean removes build artifacts.
func Clean() error {
	for _, p := range []string{binaryDir, coverProfile} {
		if err := os.RemoveAll(p); err != nil {
			return err
		}
	}
	return sh.RunV(binGo, "clean")
}

// Install builds and copies the binary to GOPATH/bin.
func Install() error {
	mg.Deps(Build)
	gopath, err := sh.Output(binGo, "env", "GOPATH")
	if err != nil {
		return err
	}
	src := filepath.Join(binaryDir, binaryName)
	dst := filepath.Join(gopath, "bin", binaryName)
	return sh.Copy(dst, src)
}
