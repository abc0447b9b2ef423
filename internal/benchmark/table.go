// Package benchmark grades a rep count against age/gender cohorts.
package benchmark

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/saturnino-fabrica-de-software/talentspark/internal/domain"
)

// DefaultExercise is the only exercise the assessment app records today.
const DefaultExercise = "squats"

// Thresholds are the minimum rep counts for each category.
type Thresholds struct {
	Excellent int `yaml:"excellent" json:"excellent"`
	Good      int `yaml:"good" json:"good"`
	Average   int `yaml:"average" json:"average"`
	Below     int `yaml:"below" json:"below"`
}

func (t Thresholds) validate() error {
	if !(t.Excellent > t.Good && t.Good > t.Average && t.Average > t.Below && t.Below > 0) {
		return fmt.Errorf("thresholds must satisfy excellent > good > average > below > 0, got %+v", t)
	}
	return nil
}

// Table is keyed by exercise, gender and age band.
type Table map[string]map[domain.Gender]map[string]Thresholds

// Lookup returns the thresholds for a cohort, if any.
func (t Table) Lookup(exercise string, gender domain.Gender, ageBand string) (Thresholds, bool) {
	th, ok := t[exercise][gender][ageBand]
	return th, ok
}

// Validate checks every row and key.
func (t Table) Validate() error {
	if len(t) == 0 {
		return fmt.Errorf("benchmark table is empty")
	}
	for exercise, genders := range t {
		for gender, bands := range genders {
			if _, err := domain.ParseGender(string(gender)); err != nil {
				return fmt.Errorf("%s: unknown gender %q", exercise, gender)
			}
			for band, th := range bands {
				if !domain.ValidAgeBand(band) {
					return fmt.Errorf("%s/%s: unknown age band %q", exercise, gender, band)
				}
				if err := th.validate(); err != nil {
					return fmt.Errorf("%s/%s/%s: %w", exercise, gender, band, err)
				}
			}
		}
	}
	return nil
}

// DefaultTable returns the built-in squat benchmarks. There is no row
// for the 36+ band.
func DefaultTable() Table {
	return Table{
		DefaultExercise: {
			domain.GenderMale: {
				domain.AgeBand13To15: {Excellent: 30, Good: 25, Average: 20, Below: 15},
				domain.AgeBand16To18: {Excellent: 35, Good: 30, Average: 25, Below: 20},
				domain.AgeBand19To25: {Excellent: 40, Good: 35, Average: 30, Below: 25},
				domain.AgeBand26To35: {Excellent: 35, Good: 30, Average: 25, Below: 20},
			},
			domain.GenderFemale: {
				domain.AgeBand13To15: {Excellent: 25, Good: 20, Average: 16, Below: 12},
				domain.AgeBand16To18: {Excellent: 30, Good: 25, Average: 20, Below: 16},
				domain.AgeBand19To25: {Excellent: 35, Good: 30, Average: 25, Below: 20},
				domain.AgeBand26To35: {Excellent: 30, Good: 25, Average: 20, Below: 16},
			},
		},
	}
}

// LoadTable reads a YAML table from path. An empty path yields DefaultTable.
func LoadTable(path string) (Table, error) {
	if path == "" {
		return DefaultTable(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read benchmark table: %w", err)
	}
	return ParseTable(data)
}

// ParseTable decodes and validates a YAML table.
func ParseTable(data []byte) (Table, error) {
	var t Table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse benchmark table: %w", err)
	}
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("invalid benchmark table: %w", err)
	}
	return t, nil
}
