// Package floorplan serves building floor plan documents.
//
// A missing document is not a user-facing error: callers show an empty
// viewer.
package floorplan

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/okian/campnav/internal/domain/model"
	"github.com/okian/campnav/pkg/logger"
	"github.com/okian/campnav/pkg/metrics"
)

const (
	ext         = ".pdf"
	maxDocBytes = 64 << 20
)

// Store opens floor plan documents by name, without extension.
type Store interface {
	Open(ctx context.Context, name string) ([]byte, error)
}

// Buildings returns the campus buildings that have floor plans.
func Buildings() []model.Building {
	return []model.Building{
		{Name: "Wallace Library", FloorPlan: "floorA"},
		{Name: "Student Alumni Union", FloorPlan: "SAUFloorPlans"},
	}
}

// Service resolves buildings to documents.
type Service struct {
	store Store
	log   logger.Logger
}

// NewService creates a Service over store.
func NewService(store Store, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{store: store, log: log}
}

// Buildings returns the building list.
func (s *Service) Buildings() []model.Building {
	return Buildings()
}

// Lookup finds a building by name, case-insensitively.
func (s *Service) Lookup(name string) (model.Building, error) {
	for _, b := range Buildings() {
		if strings.EqualFold(b.Name, strings.TrimSpace(name)) {
			return b, nil
		}
	}
	return model.Building{}, fmt.Errorf("%w: %q", ErrUnknownBuilding, name)
}

// FloorPlan returns the PDF for a building.
func (s *Service) FloorPlan(ctx context.Context, building string) (model.Building, []byte, error) {
	b, err := s.Lookup(building)
	if err != nil {
		metrics.RecordFloorPlanLookup("unknown_building")
		return model.Building{}, nil, err
	}

	data, err := s.store.Open(ctx, b.FloorPlan)
	switch {
	case errors.Is(err, ErrNotFound):
		metrics.RecordFloorPlanLookup("missing")
		s.log.Warn(ctx, "floor plan document missing",
			logger.String("building", b.Name),
			logger.String("document", b.FloorPlan),
		)
		return b, nil, err
	case err != nil:
		metrics.RecordFloorPlanLookup("error")
		return b, nil, fmt.Errorf("open floor plan %s: %w", b.FloorPlan, err)
	}
	metrics.RecordFloorPlanLookup("hit")
	return b, data, nil
}

func objectName(name string) (string, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || !fs.ValidPath(name) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return name + ext, nil
}

// FSStore reads documents from a file system, e.g. a bundled asset
// directory.
type FSStore struct {
	fsys fs.FS
}

// NewFSStore creates a store over fsys.
func NewFSStore(fsys fs.FS) *FSStore {
	return &FSStore{fsys: fsys}
}

// Open reads <name>.pdf.
func (s *FSStore) Open(_ context.Context, name string) ([]byte, error) {
	file, err := objectName(name)
	if err != nil {
		return nil, err
	}
	data, err := fs.ReadFile(s.fsys, file)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, file)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", file, err)
	}
	return data, nil
}
