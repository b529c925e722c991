package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"sales-monitor/internal/models"
)

// TargetsFile is the on-disk override of monthly unit targets:
//
//	[targets]
//	"Unit A" = 150000000
//	"Unit B" = 90000000
type TargetsFile struct {
	Targets map[string]float64 `toml:"targets"`
}

// LoadTargets reads a targets file. An empty path yields an empty map.
func LoadTargets(path string) (models.TargetMap, error) {
	targets := models.TargetMap{}
	if path == "" {
		return targets, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read targets file: %w", err)
	}

	var file TargetsFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse targets file %s: %w", path, err)
	}

	for unit, amount := range file.Targets {
		if amount < 0 {
			return nil, fmt.Errorf("target for %q is negative", unit)
		}
		targets[unit] = amount
	}
	return targets, nil
}
