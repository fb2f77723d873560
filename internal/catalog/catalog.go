// Package catalog holds the selectable country list for the dashboard.
package catalog

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Country is one selectable entry: an ISO country code and a display name.
type Country struct {
	Code string `yaml:"code" json:"code"`
	Name string `yaml:"name" json:"name"`
}

// Catalog is the full country selection list.
type Catalog struct {
	Countries []Country `yaml:"countries"`
}

// Default returns the built-in country list used when no catalog file is
// configured.
func Default() *Catalog {
	return &Catalog{Countries: []Country{
		{Code: "US", Name: "United States"},
		{Code: "CN", Name: "China"},
		{Code: "JP", Name: "Japan"},
		{Code: "DE", Name: "Germany"},
		{Code: "IN", Name: "India"},
		{Code: "GB", Name: "United Kingdom"},
		{Code: "FR", Name: "France"},
		{Code: "BR", Name: "Brazil"},
	}}
}

// Load reads a YAML catalog file and expands environment variables in it.
// An empty path returns the default catalog.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	expanded := os.ExpandEnv(string(data))

	var c Catalog
	if err := yaml.Unmarshal([]byte(expanded), &c); err != nil {
		return nil, fmt.Errorf("parse catalog yaml: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("validate catalog: %w", err)
	}
	return &c, nil
}

func (c *Catalog) validate() error {
	if len(c.Countries) == 0 {
		return fmt.Errorf("catalog lists no countries")
	}
	seen := make(map[string]bool, len(c.Countries))
	for i, ct := range c.Countries {
		code := strings.TrimSpace(ct.Code)
		if code == "" {
			return fmt.Errorf("entry %d has an empty code", i)
		}
		if seen[code] {
			return fmt.Errorf("duplicate country code %q", code)
		}
		seen[code] = true
	}
	return nil
}

// Has reports whether the catalog contains the given country code.
func (c *Catalog) Has(code string) bool {
	for _, ct := range c.Countries {
		if ct.Code == code {
			return true
		}
	}
	return false
}
