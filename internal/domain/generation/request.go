package generation

// Request is a single generation request after HTTP-layer validation.
type Request struct {
	// Prompt is the user's message or image/video prompt.
	Prompt string
	// ModelKey selects a catalog descriptor. Empty falls back to the default model.
	ModelKey string
	// MaxTokens caps text output. Zero uses the descriptor's maximum; values
	// above the descriptor's maximum are clamped down.
	MaxTokens int
	// Category optionally requests a branch of the catalog ("text", "image",
	// "video"). Billing always follows the resolved descriptor's category.
	Category string
	// ImageData is an optional base64 source image, with or without a data-URI
	// prefix. Image models use it for variation, video models as a first frame.
	ImageData string
}
