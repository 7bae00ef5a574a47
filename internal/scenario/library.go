package scenario

import (
	"embed"
	"fmt"
	"sort"
)

//go:embed library/*.yaml
var libraryFS embed.FS

// List returns the built-in scenario names, sorted.
func List() []string {
	entries, err := libraryFS.ReadDir("library")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		s, err := loadEmbedded(e.Name())
		if err != nil {
			continue
		}
		names = append(names, s.Name)
	}
	sort.Strings(names)
	return names
}

// Get loads a built-in scenario by its declared name (not its file
// name), e.g. "linear-chain".
func Get(name string) (*Scenario, error) {
	entries, err := libraryFS.ReadDir("library")
	if err != nil {
		return nil, fmt.Errorf("scenario: no built-in library: %w", err)
	}
	for _, e := range entries {
		s, err := loadEmbedded(e.Name())
		if err != nil {
			continue
		}
		if s.Name == name {
			return s, nil
		}
	}
	return nil, fmt.Errorf("scenario: no built-in scenario named %q", name)
}

func loadEmbedded(filename string) (*Scenario, error) {
	data, err := libraryFS.ReadFile("library/" + filename)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}
