package mapfile

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Collect expands paths into the list of map files to process.
//
// Directories are walked recursively and contribute every regular file
// with extension ext (DefaultExtension if empty). Existing files are
// included as given, whatever their extension. Paths that do not exist
// are ignored.
func Collect(paths []string, ext string) ([]string, error) {
	if ext == "" {
		ext = DefaultExtension
	}

	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}

		if !info.IsDir() {
			files = append(files, path)
			continue
		}

		err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.Type().IsRegular() && filepath.Ext(p) == ext {
				files = append(files, p)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("scanning %s: %w", path, err)
		}
	}

	return files, nil
}
