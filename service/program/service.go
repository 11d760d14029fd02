package program

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/url"
	"gopkg.in/yaml.v3"

	"github.com/procsim/procsim/model"
)

// Service loads declarative program definitions from YAML documents
// addressable by any URL scheme the afs service understands.
type Service struct {
	fs      afs.Service
	baseURL string
}

// Option customises the loader.
type Option func(*Service)

// WithBaseURL resolves relative program locations against the supplied base.
func WithBaseURL(baseURL string) Option {
	return func(s *Service) {
		s.baseURL = baseURL
	}
}

// New creates a program loader.
func New(opts ...Option) *Service {
	s := &Service{fs: afs.New()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load loads a program definition from YAML at the specified URL.
func (s *Service) Load(ctx context.Context, URL string) (*model.Program, error) {
	if filepath.Ext(URL) == "" {
		URL += ".yaml"
	}
	if s.baseURL != "" && url.Scheme(URL, "") == "" && !strings.HasPrefix(URL, "/") {
		URL = url.Join(s.baseURL, URL)
	}
	data, err := s.fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to load program from %s: %w", URL, err)
	}
	program, err := s.DecodeYAML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse program from %s: %w", URL, err)
	}
	program.Source = &model.Source{URL: URL}
	if program.Name == "" {
		program.Name = nameFromURL(URL)
	}
	if issues := program.Validate(); len(issues) > 0 {
		return nil, issues[0]
	}
	return program, nil
}

// DecodeYAML decodes a program definition from YAML bytes.
func (s *Service) DecodeYAML(encoded []byte) (*model.Program, error) {
	program := &model.Program{}
	if err := yaml.Unmarshal(encoded, program); err != nil {
		return nil, err
	}
	return program, nil
}

// nameFromURL extracts a program name from its location (file name without
// extension).
func nameFromURL(URL string) string {
	base := filepath.Base(URL)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
