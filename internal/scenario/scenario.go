// Package scenario loads declarative YAML descriptions of a small cell
// graph (cells, links, a scripted sequence of writes) and wires them
// against pkg/reactor, so the CLI can demo, inspect, and watch the
// engine without any Go code of its own.
package scenario

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// CellSpec declares one scalar cell.
type CellSpec struct {
	Name    string  `yaml:"name"`
	Initial float64 `yaml:"initial"`
}

// LinkSpec declares one link: an operation applied to Inputs, written
// to Output. See Op for the supported operation names.
type LinkSpec struct {
	Name   string             `yaml:"name"`
	Inputs []string           `yaml:"inputs"`
	Output string             `yaml:"output"`
	Op     string             `yaml:"op"`
	Params map[string]float64 `yaml:"params,omitempty"`
}

// EventSpec is one scripted event scope: a batch of writes to apply to
// named cells, all inside a single reactor.EventGraph.Event call.
type EventSpec struct {
	Label string             `yaml:"label,omitempty"`
	Set   map[string]float64 `yaml:"set"`
}

// Scenario is a complete, runnable cell graph plus a script of events
// to replay against it.
type Scenario struct {
	Name        string      `yaml:"name"`
	Description string      `yaml:"description,omitempty"`
	Cells       []CellSpec  `yaml:"cells"`
	Links       []LinkSpec  `yaml:"links"`
	Events      []EventSpec `yaml:"events"`
}

// Load reads and parses a scenario from a YAML file at path.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scenario: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a scenario from raw YAML bytes.
func Parse(data []byte) (*Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("scenario: decode: %w", err)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// LoadOrDefault behaves like Load, except a missing file yields the
// built-in "linear-chain" scenario rather than an error, mirroring the
// config-loader fall-back-to-defaults Load behavior.
func LoadOrDefault(path string) (*Scenario, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Get("linear-chain")
	}
	return Load(path)
}

func (s *Scenario) validate() error {
	if s.Name == "" {
		return fmt.Errorf("scenario: missing name")
	}
	known := make(map[string]bool, len(s.Cells))
	for _, c := range s.Cells {
		if c.Name == "" {
			return fmt.Errorf("scenario %s: cell with empty name", s.Name)
		}
		if known[c.Name] {
			return fmt.Errorf("scenario %s: duplicate cell %q", s.Name, c.Name)
		}
		known[c.Name] = true
	}
	for _, l := range s.Links {
		if l.Output != "" && !known[l.Output] {
			return fmt.Errorf("scenario %s: link %s writes undeclared cell %q", s.Name, l.Name, l.Output)
		}
		for _, in := range l.Inputs {
			if !known[in] {
				return fmt.Errorf("scenario %s: link %s reads undeclared cell %q", s.Name, l.Name, in)
			}
		}
	}
	return nil
}
