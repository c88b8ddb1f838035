// Package fixture serves fleet rows from a YAML or JSON file. The file is
// read again on every fetch so edits show up on the next refresh.
package fixture

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/motofleet/core/factory"
	"github.com/kilianp07/motofleet/core/logger"
	"github.com/kilianp07/motofleet/core/model"
	"github.com/kilianp07/motofleet/core/store"
	infralogger "github.com/kilianp07/motofleet/infra/logger"
)

// File is the on-disk layout. Field names follow the upstream column names.
type File struct {
	Assets      []map[string]any `json:"assets" yaml:"assets"`
	Maintenance []map[string]any `json:"maintenance" yaml:"maintenance"`
}

// Repository implements store.Repository over a fixture file.
type Repository struct {
	path string
	log  logger.Logger
}

// New returns a repository reading path.
func New(path string, log logger.Logger) *Repository {
	return &Repository{path: path, log: logger.OrNop(log)}
}

// Load parses a fixture file. The format is chosen by extension; anything
// other than .json is read as YAML.
func Load(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("read fixture: %w", err)
	}
	var f File
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(data, &f)
	default:
		err = yaml.Unmarshal(data, &f)
	}
	if err != nil {
		return File{}, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	return f, nil
}

// Assets implements store.Repository.
func (r *Repository) Assets(context.Context) ([]model.AssetSnapshot, error) {
	f, err := Load(r.path)
	if err != nil {
		return nil, err
	}
	raw := make([]model.RawAsset, len(f.Assets))
	for i, d := range f.Assets {
		raw[i] = model.RawAssetFromMap(d)
	}
	return store.DecodeAssets(raw, r.log), nil
}

// Maintenance implements store.Repository.
func (r *Repository) Maintenance(context.Context) ([]model.MaintenanceRecord, error) {
	f, err := Load(r.path)
	if err != nil {
		return nil, err
	}
	raw := make([]model.RawMaintenance, len(f.Maintenance))
	for i, d := range f.Maintenance {
		raw[i] = model.RawMaintenanceFromMap(d)
	}
	return store.DecodeMaintenance(raw, r.log), nil
}

func init() {
	_ = store.RegisterRepository("fixture", func(conf map[string]any) (store.Repository, error) {
		var c struct {
			Path string `json:"path"`
		}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		if c.Path == "" {
			return nil, fmt.Errorf("fixture path is required")
		}
		return New(c.Path, infralogger.New("fixture")), nil
	})
}
