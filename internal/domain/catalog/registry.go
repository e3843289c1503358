package catalog

import "sort"

// Registry is an ordered, immutable-after-construction collection of model
// descriptors with a designated default.
type Registry struct {
	ordered    []Descriptor
	byKey      map[string]Descriptor
	defaultKey string
}

// NewRegistry builds a registry from descriptors in the given order. The
// first descriptor becomes the default. An empty descriptor list yields an
// empty registry with no default.
func NewRegistry(descriptors ...Descriptor) *Registry {
	r := &Registry{
		byKey: make(map[string]Descriptor, len(descriptors)),
	}
	for _, d := range descriptors {
		if _, exists := r.byKey[d.Key]; exists {
			continue
		}
		r.ordered = append(r.ordered, d)
		r.byKey[d.Key] = d
	}
	if len(r.ordered) > 0 {
		r.defaultKey = r.ordered[0].Key
	}
	return r
}

// Lookup returns the descriptor for key. Unknown or empty keys fall back to
// the default descriptor; ok reports whether the key itself matched.
func (r *Registry) Lookup(key string) (Descriptor, bool) {
	if d, ok := r.byKey[key]; ok {
		return d, true
	}
	return r.byKey[r.defaultKey], false
}

// Default returns the default descriptor.
func (r *Registry) Default() Descriptor {
	return r.byKey[r.defaultKey]
}

// List returns all descriptors in registration order.
func (r *Registry) List() []Descriptor {
	out := make([]Descriptor, len(r.ordered))
	copy(out, r.ordered)
	return out
}

// ListByCategory returns descriptors of the given category in registration order.
func (r *Registry) ListByCategory(c Category) []Descriptor {
	var out []Descriptor
	for _, d := range r.ordered {
		if d.Category == c {
			out = append(out, d)
		}
	}
	return out
}

// Categories returns the distinct categories present in the registry, sorted.
func (r *Registry) Categories() []Category {
	seen := make(map[Category]struct{})
	var out []Category
	for _, d := range r.ordered {
		if _, ok := seen[d.Category]; ok {
			continue
		}
		seen[d.Category] = struct{}{}
		out = append(out, d.Category)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// claudeFallbackRoute is the alternate Claude route tried when newer text
// models are not yet enabled in an account's regions.
const claudeFallbackRoute = "anthropic.claude-3-5-sonnet-20241022-v2:0"

// DefaultRegistry returns the built-in model catalog.
func DefaultRegistry() *Registry {
	return NewRegistry(
		Descriptor{
			Key:             "claude-opus-4",
			ProviderID:      "anthropic.claude-opus-4-20250514-v1:0",
			DisplayName:     "Claude Opus 4",
			Description:     "Most capable model for complex reasoning and analysis",
			Category:        CategoryText,
			MaxOutputTokens: 8192,
			PayloadShape:    ShapeAnthropicMessages,
			OverrideRoutes:  []string{claudeFallbackRoute},
		},
		Descriptor{
			Key:             "claude-sonnet-4",
			ProviderID:      "anthropic.claude-sonnet-4-20250514-v1:0",
			DisplayName:     "Claude Sonnet 4",
			Description:     "Balanced model for everyday tasks",
			Category:        CategoryText,
			MaxOutputTokens: 8192,
			PayloadShape:    ShapeAnthropicMessages,
			OverrideRoutes:  []string{claudeFallbackRoute},
		},
		Descriptor{
			Key:             "claude-3-7-sonnet",
			ProviderID:      "anthropic.claude-3-7-sonnet-20250219-v1:0",
			DisplayName:     "Claude 3.7 Sonnet",
			Description:     "Fast hybrid reasoning model",
			Category:        CategoryText,
			MaxOutputTokens: 8192,
			PayloadShape:    ShapeAnthropicMessages,
			OverrideRoutes:  []string{claudeFallbackRoute},
		},
		Descriptor{
			Key:             "nova-canvas",
			ProviderID:      "amazon.nova-canvas-v1:0",
			DisplayName:     "Nova Canvas",
			Description:     "Image generation and variation",
			Category:        CategoryImage,
			MaxOutputTokens: 1024,
			PayloadShape:    ShapeNovaCanvas,
		},
		Descriptor{
			Key:             "nova-reel",
			ProviderID:      "amazon.nova-reel-v1:0",
			DisplayName:     "Nova Reel",
			Description:     "Short video generation",
			Category:        CategoryVideo,
			MaxOutputTokens: 1024,
			PayloadShape:    ShapeNovaReel,
		},
	)
}
