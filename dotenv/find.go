package dotenv

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultFilename is the file Find looks for when none is given.
const DefaultFilename = ".env"

// Find searches start and each of its parent directories, up to the
// filesystem root, for filename and returns the path of the first match.
//
// An empty start means the working directory; a start that names a file is
// searched from its directory. An empty filename means DefaultFilename.
// When nothing is found Find returns "" and ErrNotFound; callers that treat a
// missing file as normal can ignore the error.
func Find(start, filename string) (string, error) {
	if filename == "" {
		filename = DefaultFilename
	}
	if start == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		start = wd
	}

	info, err := os.Stat(start)
	if err != nil {
		return "", fmt.Errorf("starting path not found: %w", err)
	}
	if !info.IsDir() {
		start = filepath.Dir(start)
	}

	dir, err := filepath.Abs(start)
	if err != nil {
		return "", err
	}
	for {
		candidate := filepath.Join(dir, filename)
		if exists(candidate) {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", fmt.Errorf("%s from %s: %w", filename, start, ErrNotFound)
}
