package generation

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"bongo-server/internal/domain/catalog"
	"bongo-server/internal/utils/platformerrors"
)

// Usage reports provider-side token accounting for text generations.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// Result is the normalized outcome of a generation, independent of which
// provider model or payload shape produced it.
type Result struct {
	// Response is the text answer or a confirmation message.
	Response string
	// Model is the display name of the descriptor that served the request.
	Model string
	// Usage is provider token accounting; nil for non-text categories.
	Usage *Usage
	// MediaURL references generated media: the storage URL when persisted,
	// otherwise an inline data URI for images. Empty when no media exists.
	MediaURL string
	// Approach is the strategy label of the candidate that succeeded.
	Approach string
	// Category is the descriptor category the request billed under.
	Category catalog.Category
}

// MediaStore persists generated media and returns a public URL for it.
type MediaStore interface {
	Save(ctx context.Context, data []byte, contentType string) (string, error)
}

// Normalizer converts raw provider success bodies into Results. A nil media
// store leaves images inline as data URIs.
type Normalizer struct {
	media MediaStore
	log   zerolog.Logger
}

// NewNormalizer creates a Normalizer. media may be nil.
func NewNormalizer(media MediaStore, log zerolog.Logger) *Normalizer {
	return &Normalizer{media: media, log: log}
}

type anthropicResponse struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
	Usage Usage `json:"usage"`
}

type canvasResponse struct {
	Images []string `json:"images"`
}

type reelResponse struct {
	Video string `json:"video"`
}

// Normalize builds a Result from a provider body for the given descriptor.
// Media payloads are optional: a success body without images or video still
// normalizes to a generic confirmation, never an error.
func (n *Normalizer) Normalize(ctx context.Context, d catalog.Descriptor, prompt string, body []byte, strategy string) (*Result, error) {
	res := &Result{
		Model:    d.DisplayName,
		Approach: strategy,
		Category: d.Category,
	}

	switch d.Category {
	case catalog.CategoryText:
		var parsed anthropicResponse
		if err := json.Unmarshal(body, &parsed); err != nil {
			return nil, malformed(d, err)
		}
		if len(parsed.Content) == 0 || parsed.Content[0].Text == "" {
			return nil, malformed(d, fmt.Errorf("response has no content blocks"))
		}
		res.Response = parsed.Content[0].Text
		res.Usage = &parsed.Usage

	case catalog.CategoryImage:
		var parsed canvasResponse
		if err := json.Unmarshal(body, &parsed); err != nil {
			return nil, malformed(d, err)
		}
		if len(parsed.Images) == 0 {
			res.Response = "Image generated successfully"
			break
		}
		res.Response = "Generated image: " + prompt
		res.MediaURL = n.persist(ctx, parsed.Images[0], "image/png")
		if res.MediaURL == "" {
			res.MediaURL = "data:image/png;base64," + parsed.Images[0]
		}

	case catalog.CategoryVideo:
		var parsed reelResponse
		if err := json.Unmarshal(body, &parsed); err != nil {
			return nil, malformed(d, err)
		}
		if parsed.Video == "" {
			res.Response = "Video generated successfully"
			break
		}
		res.Response = "Video generated successfully: " + prompt
		res.MediaURL = n.persist(ctx, parsed.Video, "video/mp4")

	default:
		return nil, platformerrors.NewError(platformerrors.ErrorTypeConfiguration,
			platformerrors.LayerDomain,
			fmt.Sprintf("no normalizer for category %q", d.Category), nil)
	}

	return res, nil
}

// persist stores decoded media bytes when a media store is configured. A
// storage failure never fails the generation.
func (n *Normalizer) persist(ctx context.Context, b64, contentType string) string {
	if n.media == nil {
		return ""
	}
	data, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		n.log.Warn().Err(err).Msg("[Normalizer] Generated media is not valid base64, skipping persistence")
		return ""
	}
	url, err := n.media.Save(ctx, data, contentType)
	if err != nil {
		n.log.Warn().Err(err).Msg("[Normalizer] Failed to persist generated media")
		return ""
	}
	return url
}

func malformed(d catalog.Descriptor, err error) error {
	return platformerrors.NewError(platformerrors.ErrorTypeExternal,
		platformerrors.LayerDomain,
		fmt.Sprintf("malformed provider response for model %s", d.Key), err)
}
