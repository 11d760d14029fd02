package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"
	"sync"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/option"
	"github.com/viant/afs/url"

	"github.com/procsim/procsim/model/process"
	"github.com/procsim/procsim/service/dao"
	"github.com/procsim/procsim/service/dao/criteria"
)

// Service implements filesystem-backed process storage. It is used as a
// post-mortem archive: one JSON document per process, addressable by any
// URL scheme the afs service understands.
type Service struct {
	basePath string
	fs       afs.Service
	mu       sync.RWMutex
}

var _ dao.Service[string, process.Process] = (*Service)(nil)

// Save persists a process to the filesystem.
func (s *Service) Save(ctx context.Context, p *process.Process) error {
	if p == nil {
		return dao.ErrNilEntity
	}
	if p.ID == "" {
		return dao.ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal process: %w", err)
	}

	filePath := s.processPath(p.ID)
	if err = s.fs.Upload(ctx, filePath, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to save process to file %s: %w", filePath, err)
	}
	return nil
}

// Load retrieves a process from the filesystem.
func (s *Service) Load(ctx context.Context, id string) (*process.Process, error) {
	if id == "" {
		return nil, dao.ErrInvalidID
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	filePath := s.processPath(id)
	exists, err := s.fs.Exists(ctx, filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to check if process exists: %w", err)
	}
	if !exists {
		return nil, dao.ErrNotFound
	}

	data, err := s.fs.DownloadWithURL(ctx, filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read process file: %w", err)
	}

	var p process.Process
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal process data: %w", err)
	}
	return &p, nil
}

// Delete removes a process document.
func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return dao.ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	filePath := s.processPath(id)
	exists, err := s.fs.Exists(ctx, filePath)
	if err != nil {
		return fmt.Errorf("failed to check if process exists: %w", err)
	}
	if !exists {
		return dao.ErrNotFound
	}

	if err := s.fs.Delete(ctx, filePath); err != nil {
		return fmt.Errorf("failed to delete process file: %w", err)
	}
	return nil
}

// List returns all archived processes matching the optional state filter.
func (s *Service) List(ctx context.Context, parameters ...*dao.Parameter) ([]*process.Process, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	objects, err := s.fs.List(ctx, s.basePath, option.NewRecursive(true))
	if err != nil {
		return nil, fmt.Errorf("failed to list process files: %w", err)
	}

	var processes []*process.Process
	for _, object := range objects {
		if object.IsDir() || !strings.HasSuffix(object.Name(), ".json") {
			continue
		}

		data, err := s.fs.Download(ctx, object)
		if err != nil {
			continue
		}
		var p process.Process
		if err := json.Unmarshal(data, &p); err != nil {
			continue
		}
		if !criteria.FilterByState(p.State, parameters) {
			continue
		}
		processes = append(processes, &p)
	}
	return processes, nil
}

// processPath returns the file path for a process document. Identifiers may
// contain a name prefix separated by '/', which is flattened so that every
// process maps to a single file.
func (s *Service) processPath(id string) string {
	return path.Join(s.basePath, fmt.Sprintf("%s.json", strings.ReplaceAll(id, "/", "-")))
}

// New creates a new filesystem process storage service.
func New(basePath string) (*Service, error) {
	if basePath == "" {
		return nil, fmt.Errorf("base path cannot be empty")
	}

	fs := afs.New()

	ctx := context.Background()
	exists, _ := fs.Exists(ctx, basePath)
	if !exists {
		if err := fs.Create(ctx, basePath, file.DefaultDirOsMode, true); err != nil {
			return nil, fmt.Errorf("failed to create base directory: %w", err)
		}
	}

	basePath = url.Normalize(basePath, file.Scheme)

	return &Service{
		basePath: basePath,
		fs:       fs,
	}, nil
}
