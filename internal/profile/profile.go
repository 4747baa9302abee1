// Package profile holds the personal page content served at /about.
package profile

import (
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// Profile is the view model for the personal page.
type Profile struct {
	Name      string `yaml:"name" json:"name"`
	RollNo    string `yaml:"roll_no" json:"roll_no"`
	GitHubURL string `yaml:"github_url" json:"github_url"`
	Twitter   string `yaml:"twitter" json:"twitter"`
	Portrait  string `yaml:"portrait" json:"portrait,omitempty"`
	Tagline   string `yaml:"tagline" json:"tagline"`
}

// Default returns the built-in profile content.
func Default() *Profile {
	return &Profile{
		Name:      "Muhammad Ishaque Nizamani",
		RollNo:    "25MEIT007",
		GitHubURL: "https://github.com/MuhammadNizamani",
		Twitter:   "@NizamaniIshaque",
		Tagline:   "A simple 'About Me' page for the image storyteller.",
	}
}

// Load returns the default profile, overridden by the YAML document at path
// when one is set. A missing or malformed override keeps the default and
// logs a warning; it never fails startup.
func Load(path string) *Profile {
	p := Default()
	if path == "" {
		return p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		slog.Warn("profile override not readable, using built-in profile", "path", path, "error", err)
		return p
	}
	if err := yaml.Unmarshal(data, p); err != nil {
		slog.Warn("profile override not parseable, using built-in profile", "path", path, "error", err)
		return Default()
	}
	return p
}
