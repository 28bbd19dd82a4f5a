package scoring

import (
	"fmt"
	"os"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

// Registry holds the set of scoreable frameworks. The built-in tables can be
// extended or replaced at runtime from a YAML overrides file, which is how
// `complyctl frameworks watch` hot-reloads mappings.
type Registry struct {
	mu         sync.RWMutex
	frameworks map[string]Framework
}

// NewRegistry returns a registry seeded with the built-in frameworks.
func NewRegistry() *Registry {
	r := &Registry{frameworks: make(map[string]Framework, len(builtinFrameworks))}
	for _, fw := range builtinFrameworks {
		r.frameworks[fw.ID] = fw
	}
	return r
}

// Get returns a framework by ID.
func (r *Registry) Get(id string) (Framework, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fw, ok := r.frameworks[id]
	return fw, ok
}

// List returns all registered frameworks sorted by ID.
func (r *Registry) List() []Framework {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Framework, 0, len(r.frameworks))
	for _, fw := range r.frameworks {
		out = append(out, fw)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Register adds or replaces a framework.
func (r *Registry) Register(fw Framework) error {
	if fw.ID == "" {
		return fmt.Errorf("framework is missing an id")
	}
	if len(fw.Requirements) == 0 {
		return fmt.Errorf("framework %q has no requirements", fw.ID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.frameworks[fw.ID] = fw
	return nil
}

// ScoreAll scores controls against every registered framework.
func (r *Registry) ScoreAll(controls []Control) []FrameworkScore {
	frameworks := r.List()

	scores := make([]FrameworkScore, 0, len(frameworks))
	for _, fw := range frameworks {
		scores = append(scores, ScoreFramework(fw, controls))
	}
	return scores
}

// overridesFile is the YAML shape of a framework overrides file.
type overridesFile struct {
	Frameworks []Framework `yaml:"frameworks"`
}

// LoadOverrides merges framework definitions from a YAML file into the
// registry, replacing any framework with the same ID.
func (r *Registry) LoadOverrides(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read overrides file: %w", err)
	}

	var file overridesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse overrides file %s: %w", path, err)
	}

	for _, fw := range file.Frameworks {
		if err := r.Register(fw); err != nil {
			return err
		}
	}
	return nil
}

// DefaultRegistry is the registry used by the server and CLI.
var DefaultRegistry = NewRegistry()
