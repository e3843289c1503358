package catalog

// Category classifies what a model produces.
type Category string

const (
	CategoryText  Category = "text"
	CategoryImage Category = "image"
	CategoryVideo Category = "video"
)

// PayloadShape selects the provider request body format for a descriptor.
type PayloadShape string

const (
	// ShapeAnthropicMessages is the Anthropic messages body used by Claude models.
	ShapeAnthropicMessages PayloadShape = "anthropic_messages"
	// ShapeNovaCanvas is the Amazon Nova Canvas image generation body.
	ShapeNovaCanvas PayloadShape = "nova_canvas"
	// ShapeNovaReel is the Amazon Nova Reel video generation body.
	ShapeNovaReel PayloadShape = "nova_reel"
)

// Descriptor describes one invokable model.
type Descriptor struct {
	// Key is the stable client-facing identifier, e.g. "claude-opus-4".
	Key string
	// ProviderID is the provider model identifier used in invoke URLs,
	// e.g. "anthropic.claude-opus-4-20250514-v1:0".
	ProviderID string
	// DisplayName is a human-readable model name.
	DisplayName string
	// Description is a short blurb shown in model listings.
	Description string
	// Category determines billing cost and response normalization.
	Category Category
	// MaxOutputTokens caps the requested output size for text models.
	MaxOutputTokens int
	// PayloadShape selects the request body builder.
	PayloadShape PayloadShape
	// OverrideRoutes lists alternate provider IDs tried during endpoint
	// fallback, in order, after the cross-region attempt. Empty means no
	// override attempt for this descriptor.
	OverrideRoutes []string
}
