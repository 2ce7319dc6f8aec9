// Package icons loads Phosphor-style SVG icons, prepares them for
// recolouring and renders their bitmap fallbacks.
package icons

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/klytics/slidekit/internal/errinfo"
)

// fileSuffix is appended to icon names on disk; callers use the bare name.
const fileSuffix = "-fill.svg"

// Store is a directory of <name>-fill.svg files.
type Store struct {
	Dir string
}

// NewStore returns a store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{Dir: dir}
}

// Path returns where the icon would live on disk.
func (s *Store) Path(name string) string {
	return filepath.Join(s.Dir, name+fileSuffix)
}

func validName(name string) bool {
	return name != "" && !strings.ContainsAny(name, `/\`) && !strings.HasPrefix(name, ".")
}

// Exists reports whether the icon is present.
func (s *Store) Exists(name string) bool {
	if !validName(name) {
		return false
	}
	info, err := os.Stat(s.Path(name))
	return err == nil && !info.IsDir()
}

// Load returns the icon's SVG. A missing icon is NotFound, with similar
// curated names suggested in the message.
func (s *Store) Load(name string) ([]byte, error) {
	if !validName(name) {
		return nil, errinfo.InvalidArgument("load icon", "invalid icon name %q", name)
	}
	data, err := os.ReadFile(s.Path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, notFound(name)
		}
		return nil, fmt.Errorf("could not read icon %s: %w", name, err)
	}
	return data, nil
}

func notFound(name string) error {
	suggestion := ""
	if similar := Similar(name, 5); len(similar) > 0 {
		suggestion = " Similar icons: " + strings.Join(similar, ", ")
	}
	return errinfo.NotFound("load icon", "Icon '%s' not found.%s\nBrowse all icons at: https://phosphoricons.com/", name, suggestion)
}

// Names lists the icons on disk, sorted.
func (s *Store) Names() ([]string, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("could not list icons: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), fileSuffix) {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), fileSuffix))
	}
	sort.Strings(names)
	return names, nil
}
