// Package responses contains HTTP response DTOs for bongo-server.
package responses

import (
	"time"

	"bongo-server/internal/domain/account"
	"bongo-server/internal/domain/catalog"
	"bongo-server/internal/domain/generation"
	"bongo-server/internal/domain/meter"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error *ErrorDetail `json:"error"`
}

// ErrorDetail contains error details.
type ErrorDetail struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    string `json:"code,omitempty"`
}

// GenerateResponse is the success body of POST /v1/generations. Tokens is
// the provider usage object, empty for non-text generations.
type GenerateResponse struct {
	Response string `json:"response"`
	Model    string `json:"model"`
	Tokens   any    `json:"tokens"`
	Approach string `json:"approach"`
	ImageURL string `json:"imageUrl,omitempty"`
	Category string `json:"category"`
}

// NewGenerateResponse builds a GenerateResponse from pipeline outputs.
func NewGenerateResponse(out *generation.Outputs) *GenerateResponse {
	var tokens any = struct{}{}
	if out.Result.Usage != nil {
		tokens = out.Result.Usage
	}
	return &GenerateResponse{
		Response: out.Result.Response,
		Model:    out.Result.Model,
		Tokens:   tokens,
		Approach: out.Result.Approach,
		ImageURL: out.Result.MediaURL,
		Category: string(out.Result.Category),
	}
}

// TokenCheckResponse is the body of POST /v1/tokens/check. The answer is a
// snapshot; the balance may change before a later consume.
type TokenCheckResponse struct {
	HasEnoughTokens bool  `json:"hasEnoughTokens"`
	Required        int64 `json:"required"`
	Available       int64 `json:"available"`
}

// NewTokenCheckResponse builds a TokenCheckResponse from a meter check.
func NewTokenCheckResponse(res *meter.CheckResult) *TokenCheckResponse {
	return &TokenCheckResponse{
		HasEnoughTokens: res.HasEnough,
		Required:        res.Required,
		Available:       res.Available,
	}
}

// TokenConsumeResponse is the body of POST /v1/tokens/consume. Message is
// set only on the failure shape.
type TokenConsumeResponse struct {
	Success         bool   `json:"success"`
	RemainingTokens int64  `json:"remainingTokens"`
	TotalAPICalls   int64  `json:"totalApiCalls"`
	Message         string `json:"message,omitempty"`
}

// NewTokenConsumeResponse builds a TokenConsumeResponse from a consumption.
func NewTokenConsumeResponse(res *meter.Consumption) *TokenConsumeResponse {
	return &TokenConsumeResponse{
		Success:         true,
		RemainingTokens: res.RemainingTokens,
		TotalAPICalls:   res.TotalAPICalls,
	}
}

// AccountResponse is the body of GET /v1/accounts/me.
type AccountResponse struct {
	ID            string    `json:"id"`
	Email         string    `json:"email,omitempty"`
	Name          string    `json:"name,omitempty"`
	Tokens        int64     `json:"tokens"`
	TotalAPICalls int64     `json:"totalApiCalls"`
	CreatedAt     time.Time `json:"createdAt"`
}

// NewAccountResponse builds an AccountResponse from a domain account.
func NewAccountResponse(acc *account.Account) *AccountResponse {
	return &AccountResponse{
		ID:            acc.PublicID,
		Email:         acc.Email,
		Name:          acc.Name,
		Tokens:        acc.Tokens,
		TotalAPICalls: acc.TotalAPICalls,
		CreatedAt:     acc.CreatedAt,
	}
}

// ModelResponse describes one catalog model.
type ModelResponse struct {
	Key             string `json:"key"`
	DisplayName     string `json:"displayName"`
	Description     string `json:"description"`
	Category        string `json:"category"`
	MaxOutputTokens int    `json:"maxOutputTokens"`
	Cost            int64  `json:"cost"`
	Default         bool   `json:"default"`
}

// ModelListResponse is the body of GET /v1/models.
type ModelListResponse struct {
	Models []ModelResponse `json:"models"`
}

// NewModelListResponse builds a model listing with per-category costs.
func NewModelListResponse(descriptors []catalog.Descriptor, defaultKey string, costs meter.CostTable) *ModelListResponse {
	models := make([]ModelResponse, 0, len(descriptors))
	for _, d := range descriptors {
		models = append(models, ModelResponse{
			Key:             d.Key,
			DisplayName:     d.DisplayName,
			Description:     d.Description,
			Category:        string(d.Category),
			MaxOutputTokens: d.MaxOutputTokens,
			Cost:            costs.Cost(d.Category),
			Default:         d.Key == defaultKey,
		})
	}
	return &ModelListResponse{Models: models}
}
