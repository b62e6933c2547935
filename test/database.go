package test

import (
	"path/filepath"
	"testing"

	"github.com/google/uuid"
)

// TmpFile returns the path for a throwaway sqlite database. Each call yields
// a fresh path in a directory the testing package removes when the test ends.
func TmpFile(t *testing.T) string {
	t.Helper()

	return filepath.Join(t.TempDir(), uuid.NewString()+".db")
}
