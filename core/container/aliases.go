package container

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// aliasFile is the on-disk layout of a virtual directory table:
//
//	aliases:
//	  /shared: /srv/shared
//	  /docs: ../docs
type aliasFile struct {
	Aliases map[string]string `yaml:"aliases"`
}

// LoadAliases reads a YAML virtual directory table. Relative targets are
// resolved against the directory holding the file.
func LoadAliases(file string) (map[string]string, error) {
	cleanPath := filepath.Clean(file)
	data, err := os.ReadFile(cleanPath) // #nosec G304 - alias file path comes from operator config
	if err != nil {
		return nil, fmt.Errorf("failed to read aliases file: %w", err)
	}

	var af aliasFile
	if err := yaml.Unmarshal(data, &af); err != nil {
		return nil, fmt.Errorf("failed to parse aliases file: %w", err)
	}

	dir, err := filepath.Abs(filepath.Dir(cleanPath))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve aliases file directory: %w", err)
	}

	out := make(map[string]string, len(af.Aliases))
	for prefix, target := range af.Aliases {
		if target == "" {
			return nil, fmt.Errorf("%w: %q has no target", ErrInvalidAlias, prefix)
		}
		if !filepath.IsAbs(target) {
			target = filepath.Join(dir, target)
		}
		out[prefix] = target
	}
	return out, nil
}
