// Package requests contains HTTP request DTOs for bongo-server.
package requests

// GenerateRequest is the body of POST /v1/generations.
type GenerateRequest struct {
	Message   string `json:"message"`
	ModelKey  string `json:"modelKey"`
	MaxTokens int    `json:"maxTokens"`
	Category  string `json:"category"`
	ImageData string `json:"imageData"`
}

// TokenCheckRequest is the body of POST /v1/tokens/check. Either a model key
// or a category selects the cost to check against; both empty means the
// default model.
type TokenCheckRequest struct {
	ModelKey string `json:"model"`
	Category string `json:"category"`
}

// TokenConsumeRequest is the body of POST /v1/tokens/consume. Endpoint is an
// informational label from the caller; it does not affect the cost.
type TokenConsumeRequest struct {
	ModelKey string `json:"model"`
	Category string `json:"category"`
	Endpoint string `json:"endpoint"`
}

// GrantTokensRequest is the body of the admin token grant endpoint.
type GrantTokensRequest struct {
	Subject string `json:"subject" binding:"required"`
	Amount  int64  `json:"amount" binding:"required"`
}
