package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/pageza/foodgram/backend/internal/models"
)

type ingredientRecord struct {
	Name            string `json:"name" yaml:"name"`
	MeasurementUnit string `json:"measurement_unit" yaml:"measurement_unit"`
}

type tagRecord struct {
	Name string `json:"name" yaml:"name"`
	Slug string `json:"slug" yaml:"slug"`
}

// decodeFile reads path as YAML when it ends in .yaml or .yml, JSON otherwise.
func decodeFile(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, out)
	default:
		err = json.Unmarshal(data, out)
	}
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

func loadIngredients(path string) ([]models.Ingredient, error) {
	var records []ingredientRecord
	if err := decodeFile(path, &records); err != nil {
		return nil, err
	}
	out := make([]models.Ingredient, 0, len(records))
	for i, r := range records {
		name, unit := strings.TrimSpace(r.Name), strings.TrimSpace(r.MeasurementUnit)
		if name == "" || unit == "" {
			return nil, fmt.Errorf("%s: entry %d needs name and measurement_unit", path, i)
		}
		out = append(out, models.Ingredient{Name: name, MeasurementUnit: unit})
	}
	return out, nil
}

func loadTags(path string) ([]models.Tag, error) {
	var records []tagRecord
	if err := decodeFile(path, &records); err != nil {
		return nil, err
	}
	out := make([]models.Tag, 0, len(records))
	for i, r := range records {
		name, slug := strings.TrimSpace(r.Name), strings.TrimSpace(r.Slug)
		if name == "" || slug == "" {
			return nil, fmt.Errorf("%s: entry %d needs name and slug", path, i)
		}
		out = append(out, models.Tag{Name: name, Slug: slug})
	}
	return out, nil
}
