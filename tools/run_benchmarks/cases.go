package main

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/elektrokombinacija/parkroute/internal/algo"
	"github.com/elektrokombinacija/parkroute/internal/core"
)

var errBadCase = errors.New("bad benchmark case")

// CaseFile is the YAML benchmark definition.
type CaseFile struct {
	Maps  string `yaml:"maps"`
	Cases []Case `yaml:"cases"`
}

// Case is one slot request run against every strategy.
type Case struct {
	Name         string  `yaml:"name"`
	Category     string  `yaml:"category"`
	DesiredFloor *int    `yaml:"desired_floor"`
	WeightLobby  float64 `yaml:"w_lobby"`
	WeightCar    float64 `yaml:"w_car"`
}

func loadCases(path string) (*CaseFile, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var cf CaseFile
	if err := yaml.NewDecoder(file).Decode(&cf); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	for i, c := range cf.Cases {
		if c.Name == "" {
			return nil, fmt.Errorf("case %d has no name: %w", i, errBadCase)
		}
		if _, ok := core.ParseCategory(c.Category); !ok {
			return nil, fmt.Errorf("case %q: category %q: %w", c.Name, c.Category, errBadCase)
		}
		if c.WeightLobby < 0 || c.WeightCar < 0 {
			return nil, fmt.Errorf("case %q: negative weight: %w", c.Name, errBadCase)
		}
	}
	return &cf, nil
}

// request builds the slot request for c; Strategy is filled by the caller.
func (c Case) request() algo.Request {
	cat, _ := core.ParseCategory(c.Category)
	return algo.Request{
		Category:     cat,
		DesiredFloor: c.DesiredFloor,
		WeightLobby:  c.WeightLobby,
		WeightCar:    c.WeightCar,
	}
}
