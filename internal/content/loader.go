// Package content loads the static site configuration (business, services,
// areas, FAQs, navigation, visual assets, projects) and exposes the typed
// accessors the site pages read from.
package content

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Site is the loaded content of one deployment.
type Site struct {
	business   Business
	services   []Service
	areas      []Area
	faqs       []FAQ
	navigation Navigation
	assets     VisualAssets
	projects   []Project
}

type projectsFile struct {
	Projects []Project `json:"projects"`
}

// Load reads the content JSON files from dir. Missing files leave the
// corresponding section empty; malformed files are an error.
func Load(dir string) (*Site, error) {
	s := &Site{}
	var pf projectsFile

	files := []struct {
		name string
		dest interface{}
	}{
		{"business.json", &s.business},
		{"services.json", &s.services},
		{"areas.json", &s.areas},
		{"faqs.json", &s.faqs},
		{"navigation.json", &s.navigation},
		{"visual-assets.json", &s.assets},
		{"projects.json", &pf},
	}

	for _, f := range files {
		if err := readJSON(filepath.Join(dir, f.name), f.dest); err != nil {
			return nil, err
		}
	}
	s.projects = pf.Projects
	return s, nil
}

func readJSON(path string, dest interface{}) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return nil
}
