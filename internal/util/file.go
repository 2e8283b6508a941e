package util

import (
	"github.com/natefinch/atomic"
	"path/filepath"
	"strings"
)

func resolvePath(path string) (string, error) {
	return filepath.EvalSymlinks(path)
}

// WriteStringToFileAtomic replaces the content of the file at path with text,
// so readers never observe a partially written file.
func WriteStringToFileAtomic(text string, path string) error {
	evaluatedPath, err := resolvePath(path)
	if len(evaluatedPath) > 0 && err == nil {
		path = evaluatedPath
	}
	return atomic.WriteFile(path, strings.NewReader(text))
}
