package platforms

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Platform is a registered schema with its transforms bound.
type Platform struct {
	Schema

	Side      SideFunc
	Timestamp TimestampFunc
	Price     PriceFunc
	Quantity  QuantityFunc
	Fees      FeesFunc
	// Filter is nil when every row is imported.
	Filter RowFilterFunc
}

// Info is the public description of a platform.
type Info struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	RequiresDate    bool   `json:"requires_date"`
	GroupExecutions bool   `json:"group_executions"`
}

// Info returns the public description of the platform.
func (p *Platform) Info() Info {
	return Info{
		ID:              p.ID,
		Name:            p.Name,
		Description:     p.Description,
		RequiresDate:    p.RequiresDate,
		GroupExecutions: p.GroupExecutions,
	}
}

// Compile binds a schema's transform names to catalog functions.
// Price, quantity and fees fall back to the standard transforms.
func Compile(s Schema) (*Platform, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	p := &Platform{Schema: s}

	var ok bool
	if p.Side, ok = sideTransforms[s.Transforms[FieldSide]]; !ok {
		return nil, fmt.Errorf("schema %s: unknown side transform %q", s.ID, s.Transforms[FieldSide])
	}
	if p.Timestamp, ok = timestampTransforms[s.Transforms[FieldTimestamp]]; !ok {
		return nil, fmt.Errorf("schema %s: unknown timestamp transform %q", s.ID, s.Transforms[FieldTimestamp])
	}
	if p.Price, ok = priceTransforms[orDefault(s.Transforms[FieldPrice], PriceCurrency)]; !ok {
		return nil, fmt.Errorf("schema %s: unknown price transform %q", s.ID, s.Transforms[FieldPrice])
	}
	if p.Quantity, ok = quantityTransforms[orDefault(s.Transforms[FieldQuantity], QuantityInteger)]; !ok {
		return nil, fmt.Errorf("schema %s: unknown quantity transform %q", s.ID, s.Transforms[FieldQuantity])
	}
	if p.Fees, ok = feesTransforms[orDefault(s.Transforms[FieldFees], FeesLenient)]; !ok {
		return nil, fmt.Errorf("schema %s: unknown fees transform %q", s.ID, s.Transforms[FieldFees])
	}
	if s.RowFilter != "" {
		if p.Filter, ok = rowFilters[s.RowFilter]; !ok {
			return nil, fmt.Errorf("schema %s: unknown row filter %q", s.ID, s.RowFilter)
		}
	}
	return p, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// Registry holds the platforms available to the importer.
// It is safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	platforms map[string]*Platform
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{platforms: make(map[string]*Platform)}
}

// NewDefaultRegistry returns a registry holding the built-in platforms.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	for _, s := range BuiltinSchemas() {
		if err := r.Register(s); err != nil {
			panic(fmt.Sprintf("builtin platform %s: %v", s.ID, err))
		}
	}
	return r
}

// Register compiles and adds a schema, replacing any platform with the same id.
func (r *Registry) Register(s Schema) error {
	p, err := Compile(s)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.platforms[s.ID] = p
	return nil
}

// Resolve looks a platform up by id.
func (r *Registry) Resolve(id string) (*Platform, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.platforms[id]
	return p, ok
}

// ByName looks a platform up by display name, ignoring case.
func (r *Registry) ByName(name string) (*Platform, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.platforms {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return nil, false
}

// List returns all platforms sorted by id.
func (r *Registry) List() []Info {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Info, 0, len(r.platforms))
	for _, p := range r.platforms {
		out = append(out, p.Info())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
