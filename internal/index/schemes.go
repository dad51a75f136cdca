package index

import (
	"fmt"
	"sync"
)

// EqualScheme is the always-present default weighting scheme.
const EqualScheme = "equal"

// SchemeRegistry holds named weighting schemes. Lookup of an unknown name
// resolves to "equal" rather than failing; the engine logs the fallback so
// caller typos stay observable.
type SchemeRegistry struct {
	mu      sync.RWMutex
	schemes map[string]map[string]float64
}

func NewSchemeRegistry() *SchemeRegistry {
	equal := make(map[string]float64, len(criteria))
	for _, c := range criteria {
		equal[c.ID] = 1.0
	}
	return &SchemeRegistry{
		schemes: map[string]map[string]float64{EqualScheme: equal},
	}
}

// Register adds or replaces a named scheme. Weights must be positive and
// keyed by known criterion ids; criteria missing from the map keep their
// default weight of 1.0.
func (r *SchemeRegistry) Register(name string, weights map[string]float64) error {
	if name == "" {
		return fmt.Errorf("scheme name required")
	}
	resolved := make(map[string]float64, len(criteria))
	for _, c := range criteria {
		resolved[c.ID] = 1.0
	}
	for id, w := range weights {
		if _, ok := CriterionByID(id); !ok {
			return fmt.Errorf("unknown criterion in scheme %q: %s", name, id)
		}
		if w <= 0 {
			return fmt.Errorf("non-positive weight for %s in scheme %q: %f", id, name, w)
		}
		resolved[id] = w
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.schemes[name] = resolved
	return nil
}

// Resolve returns the weights for name and the name they were resolved
// under. Unknown names fall back to "equal".
func (r *SchemeRegistry) Resolve(name string) (map[string]float64, string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if w, ok := r.schemes[name]; ok {
		return w, name, true
	}
	return r.schemes[EqualScheme], EqualScheme, false
}

// Snapshot returns a deep copy of the registry for read-only exposure.
func (r *SchemeRegistry) Snapshot() map[string]map[string]float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]map[string]float64, len(r.schemes))
	for name, weights := range r.schemes {
		cp := make(map[string]float64, len(weights))
		for id, w := range weights {
			cp[id] = w
		}
		out[name] = cp
	}
	return out
}
