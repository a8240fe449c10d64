package catalog

import (
	"context"
	"fmt"
	"os"

	"courtbook/internal/availability"
	"courtbook/pkg/model"

	"gopkg.in/yaml.v3"
)

type fileCatalog struct {
	Courts []model.Court `yaml:"courts"`
}

// StaticReader serves a fixed set of courts loaded once at startup.
type StaticReader struct {
	courts map[string]model.Court
}

// LoadFile reads a YAML court snapshot. Every court is checked up front so a
// malformed catalog fails at startup rather than on the first booking.
func LoadFile(path string) (*StaticReader, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*StaticReader, error) {
	var file fileCatalog
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	return NewStaticReader(file.Courts...)
}

func NewStaticReader(courts ...model.Court) (*StaticReader, error) {
	r := &StaticReader{courts: make(map[string]model.Court, len(courts))}
	for _, c := range courts {
		if _, dup := r.courts[c.ID]; dup {
			return nil, fmt.Errorf("duplicate court id %q in catalog", c.ID)
		}
		if err := availability.CheckCourt(&c); err != nil {
			return nil, err
		}
		r.courts[c.ID] = c
	}
	return r, nil
}

// GetCourt returns a copy so callers cannot mutate the snapshot.
func (r *StaticReader) GetCourt(_ context.Context, id string) (*model.Court, error) {
	c, ok := r.courts[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCourtNotFound, id)
	}
	return &c, nil
}

func (r *StaticReader) Len() int {
	return len(r.courts)
}
