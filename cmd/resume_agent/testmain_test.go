package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/joho/godotenv"
)

// TestMain loads the module root's .env, when there is one, so integration
// runs pick up LLM and database settings. go test runs from the package
// directory, so the file is looked up beside go.mod.
func TestMain(m *testing.M) {
	if root, ok := moduleRoot(); ok {
		_ = godotenv.Load(filepath.Join(root, ".env"))
	}
	os.Exit(m.Run())
}

func moduleRoot() (string, bool) {
	dir, err := os.Getwd()
	if err != nil {
		return "", false
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}
