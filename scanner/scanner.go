package scanner

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"filesage/extractor"
)

// ErrNotDirectory is returned when the scan root exists but is not a directory.
var ErrNotDirectory = errors.New("not a directory")

// FileInfo holds metadata about a discovered supported file.
type FileInfo struct {
	Path string
	Name string
	Size int64
}

// Options controls directory traversal.
type Options struct {
	// MaxDepth limits subdirectory nesting below the root; 0 means unlimited.
	MaxDepth int
	// MaxFileSize skips files larger than this many bytes; 0 means unlimited.
	MaxFileSize int64
}

// Scan walks the directory tree rooted at root and returns the supported
// files in walk order. Re-running Scan re-walks the directory. Unsupported
// files are ignored without error; unreadable entries below the root are
// skipped so one bad entry cannot abort the walk.
func Scan(root string, opts Options) ([]FileInfo, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("cannot access '%s': %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("'%s': %w", root, ErrNotDirectory)
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve '%s': %w", root, err)
	}

	var files []FileInfo
	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == absRoot {
				return err
			}
			return nil
		}

		rel, relErr := filepath.Rel(absRoot, path)
		if relErr != nil {
			return nil
		}

		if d.IsDir() {
			if path == absRoot {
				return nil
			}
			if isDefaultIgnored(d.Name()) {
				return filepath.SkipDir
			}
			if opts.MaxDepth > 0 && pathDepth(rel) > opts.MaxDepth {
				return filepath.SkipDir
			}
			return nil
		}

		if d.Type()&fs.ModeSymlink != 0 {
			return nil
		}
		if !extractor.IsSupported(path) {
			return nil
		}

		fi, err := d.Info()
		if err != nil {
			return nil
		}
		if opts.MaxFileSize > 0 && fi.Size() > opts.MaxFileSize {
			return nil
		}

		files = append(files, FileInfo{
			Path: path,
			Name: d.Name(),
			Size: fi.Size(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk '%s': %w", root, err)
	}

	return files, nil
}

// pathDepth counts how many directories deep rel is below the scan root.
func pathDepth(rel string) int {
	return len(strings.Split(filepath.ToSlash(rel), "/"))
}
