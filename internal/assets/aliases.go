package assets

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	atlaserrors "github.com/taskpilot/droidtask/internal/errors"
)

// aliasFile is the YAML shape of an aliases.yaml file (§6 File formats):
// {aliases: {displayName: referenceName, …}}.
type aliasFile struct {
	Aliases map[string]string `yaml:"aliases"`
}

// loadAliases reads path and returns its alias table. A missing file is not
// an error: handlers without an aliases.yaml simply have no display-name
// synonyms.
func loadAliases(path string) (map[string]string, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is resolved from a fixed handler-directory layout
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("%w: read aliases file %s: %w", atlaserrors.ErrAssetNotFound, path, err)
	}

	var parsed aliasFile
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("%w: parse aliases file %s: %w", atlaserrors.ErrAssetNotFound, path, err)
	}
	if parsed.Aliases == nil {
		return map[string]string{}, nil
	}
	return parsed.Aliases, nil
}
