package gen

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
)

// File permission constants.
const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// WriteFiles writes all generated files, creating directories as needed.
func WriteFiles(files []GeneratedFile) error {
	for _, file := range files {
		if err := os.MkdirAll(filepath.Dir(file.Path), dirPerm); err != nil {
			return errors.Wrapf(err, "creating directory for %s", file.Path)
		}

		if err := os.WriteFile(file.Path, file.Content, filePerm); err != nil {
			return errors.Wrapf(err, "writing file %s", file.Path)
		}
	}

	return nil
}

// Check compares generated files with the files on disk and returns the
// paths of those that are missing or differ.
func Check(files []GeneratedFile) ([]string, error) {
	var stale []string

	for _, file := range files {
		current, err := os.ReadFile(file.Path)
		if errors.Is(err, os.ErrNotExist) {
			stale = append(stale, file.Path)
			continue
		}

		if err != nil {
			return nil, errors.Wrapf(err, "reading %s", file.Path)
		}

		if !bytes.Equal(current, file.Content) {
			stale = append(stale, file.Path)
		}
	}

	return stale, nil
}

// Orphans returns the output files of units that generate nothing but still
// exist on disk as generated files. Files without the generated header are
// left alone.
func (g *Generator) Orphans(units []Unit, files []GeneratedFile) ([]string, error) {
	generated := make(map[string]bool, len(files))
	for _, f := range files {
		generated[f.Path] = true
	}

	var orphans []string

	for _, u := range units {
		path := g.OutputPath(u)
		if generated[path] {
			continue
		}

		content, err := os.ReadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}

		if err != nil {
			return nil, errors.Wrapf(err, "reading %s", path)
		}

		if bytes.HasPrefix(content, []byte(Header)) {
			orphans = append(orphans, path)
		}
	}

	return orphans, nil
}

// RemoveFiles deletes the given files; files already gone are skipped.
func RemoveFiles(paths []string) error {
	for _, path := range paths {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return errors.Wrapf(err, "removing %s", path)
		}
	}

	return nil
}

// writeDebugUnformatted writes unformatted code to a sidecar next to the
// intended output and returns its path. The leading underscore keeps the go
// tool from compiling it.
func writeDebugUnformatted(path string, content []byte) (string, error) {
	if path == "" {
		return "", errors.New("no output path")
	}

	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return "", err
	}

	dir, name := filepath.Split(path)
	sidecar := filepath.Join(dir, "_"+strings.TrimSuffix(name, ".go")+".unformatted.go")

	return sidecar, os.WriteFile(sidecar, content, filePerm)
}
