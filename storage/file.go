// Package storage saves and restores live-cell sets, either as JSON files or in a
// SQLite pattern library.
package storage

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-life/model"
)

// SaveFile writes the generation to path as a JSON array of {"x","y"} objects
func SaveFile(path string, g model.Generation) error {
	data, err := json.MarshalIndent(g.Cells(), "", "  ")
	if err != nil {
		return errors.Wrapf(err, "[SaveFile] failed to marshal generation for file: %+v", path)
	}
	if err = os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "[SaveFile] failed to write file: %+v", path)
	}
	return nil
}

// LoadFile reads a generation written by SaveFile
func LoadFile(path string) (model.Generation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "[LoadFile] failed to read file: %+v", path)
	}

	var cells []model.Cell
	if err = json.Unmarshal(data, &cells); err != nil {
		return nil, errors.Wrapf(err, "[LoadFile] failed to unmarshal data from file: %+v", path)
	}
	return model.NewGeneration(cells...), nil
}
