package scanner

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
)

// Scanner lists the files of a vault whose extension is included. Hidden
// directories such as .obsidian and .trash are not descended into.
type Scanner struct {
	includeExt map[string]bool
}

// New returns a scanner for the given extensions. No extensions means every file.
func New(extensions []string) *Scanner {
	extMap := make(map[string]bool)
	for _, ext := range extensions {
		extMap[strings.TrimPrefix(strings.ToLower(ext), ".")] = true
	}
	return &Scanner{includeExt: extMap}
}

// Scan walks fs from its root and returns slash-separated paths relative to
// it, sorted.
func (s *Scanner) Scan(fs afero.Fs) ([]string, error) {
	var entries []string

	err := afero.Walk(fs, "/", func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			if path != "/" && strings.HasPrefix(info.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}

		ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
		if len(s.includeExt) > 0 && !s.includeExt[ext] {
			return nil
		}

		entries = append(entries, strings.TrimPrefix(filepath.ToSlash(path), "/"))
		return nil
	})

	sort.Strings(entries)
	return entries, err
}
