package generation

import (
	"fmt"
	"strings"

	"bongo-server/internal/domain/catalog"
)

// Candidate is one endpoint attempt in fallback order.
type Candidate struct {
	// URL is the full provider invoke URL for this attempt.
	URL string
	// Strategy labels the attempt for logs and the response's approach field.
	Strategy string
	// Order is the 1-based position in the fallback sequence.
	Order int
}

// Resolver expands a descriptor into an ordered list of endpoint candidates.
// The sequence covers region and routing variations that recover from models
// not yet enabled in a given region:
//
//  1. direct invocation in the home region
//  2. cross-region inference profile (marker-prefixed model ID)
//  3. each override route of the descriptor, marker-prefixed in the
//     cross region
//  4. direct invocation in the alternate region
//  5. version-stripped model ID in the home region
type Resolver struct {
	homeRegion        string
	crossRegion       string
	crossRegionMarker string
	altRegion         string
}

// NewResolver creates a Resolver over the configured regions.
func NewResolver(homeRegion, crossRegion, crossRegionMarker, altRegion string) *Resolver {
	return &Resolver{
		homeRegion:        homeRegion,
		crossRegion:       crossRegion,
		crossRegionMarker: crossRegionMarker,
		altRegion:         altRegion,
	}
}

func invokeURL(region, modelID string) string {
	return fmt.Sprintf("https://bedrock-runtime.%s.amazonaws.com/model/%s/invoke", region, modelID)
}

// stripVersionSuffix removes a trailing ":<version>" from a model ID, e.g.
// "amazon.nova-canvas-v1:0" becomes "amazon.nova-canvas-v1".
func stripVersionSuffix(modelID string) string {
	if i := strings.LastIndex(modelID, ":"); i > 0 {
		return modelID[:i]
	}
	return modelID
}

// Resolve returns the candidate list for a descriptor. Candidates with URLs
// already produced by an earlier slot are dropped so each endpoint is tried
// at most once.
func (r *Resolver) Resolve(d catalog.Descriptor) []Candidate {
	type slot struct {
		url      string
		strategy string
	}

	slots := []slot{
		{invokeURL(r.homeRegion, d.ProviderID), "direct"},
		{invokeURL(r.crossRegion, r.crossRegionMarker+"."+d.ProviderID), "cross-region"},
	}
	for _, route := range d.OverrideRoutes {
		slots = append(slots, slot{invokeURL(r.crossRegion, r.crossRegionMarker+"."+route), "override-route"})
	}
	slots = append(slots,
		slot{invokeURL(r.altRegion, d.ProviderID), "alt-region"},
		slot{invokeURL(r.homeRegion, stripVersionSuffix(d.ProviderID)), "version-stripped"},
	)

	seen := make(map[string]struct{}, len(slots))
	candidates := make([]Candidate, 0, len(slots))
	for _, s := range slots {
		if _, dup := seen[s.url]; dup {
			continue
		}
		seen[s.url] = struct{}{}
		candidates = append(candidates, Candidate{
			URL:      s.url,
			Strategy: s.strategy,
			Order:    len(candidates) + 1,
		})
	}
	return candidates
}
