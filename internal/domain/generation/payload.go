package generation

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"

	"bongo-server/internal/domain/catalog"
	"bongo-server/internal/utils/platformerrors"
)

// Provider payload constants.
const (
	anthropicVersion = "bedrock-2023-05-31"

	defaultMaxTokens = 1000

	imageWidth    = 1024
	imageHeight   = 1024
	imageCfgScale = 8.0
	imageQuality  = "standard"

	videoDurationSeconds = 6
	videoFPS             = 24
	videoDimension       = "1280x720"
)

// seedFn produces a provider seed in [0, 2^31-1). Swappable in tests.
var seedFn = func() int64 {
	return rand.Int63n(2147483647)
}

// stripDataURI removes a "data:<mime>;base64," prefix when present, leaving
// bare base64 for the provider.
func stripDataURI(data string) string {
	if strings.HasPrefix(data, "data:") {
		if _, rest, found := strings.Cut(data, ","); found {
			return rest
		}
	}
	return data
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicPayload struct {
	AnthropicVersion string             `json:"anthropic_version"`
	MaxTokens        int                `json:"max_tokens"`
	Messages         []anthropicMessage `json:"messages"`
}

type imageGenerationConfig struct {
	NumberOfImages int     `json:"numberOfImages"`
	Quality        string  `json:"quality"`
	Height         int     `json:"height"`
	Width          int     `json:"width"`
	CfgScale       float64 `json:"cfgScale"`
	Seed           int64   `json:"seed"`
}

type textToImageParams struct {
	Text string `json:"text"`
}

type imageVariationParams struct {
	Text               string   `json:"text"`
	Images             []string `json:"images"`
	SimilarityStrength float64  `json:"similarityStrength"`
}

type canvasPayload struct {
	TaskType              string                `json:"taskType"`
	TextToImageParams     *textToImageParams    `json:"textToImageParams,omitempty"`
	ImageVariationParams  *imageVariationParams `json:"imageVariationParams,omitempty"`
	ImageGenerationConfig imageGenerationConfig `json:"imageGenerationConfig"`
}

type videoInputImage struct {
	Format string `json:"format"`
	Source struct {
		Bytes string `json:"bytes"`
	} `json:"source"`
}

type textToVideoParams struct {
	Text   string            `json:"text"`
	Images []videoInputImage `json:"images,omitempty"`
}

type videoGenerationConfig struct {
	DurationSeconds int    `json:"durationSeconds"`
	FPS             int    `json:"fps"`
	Dimension       string `json:"dimension"`
	Seed            int64  `json:"seed"`
}

type reelPayload struct {
	TaskType              string                `json:"taskType"`
	TextToVideoParams     textToVideoParams     `json:"textToVideoParams"`
	VideoGenerationConfig videoGenerationConfig `json:"videoGenerationConfig"`
}

// BuildPayload renders the provider request body for a descriptor. The build
// has no side effects; billing happens only after it succeeds.
func BuildPayload(d catalog.Descriptor, req Request) ([]byte, error) {
	switch d.PayloadShape {
	case catalog.ShapeAnthropicMessages:
		return buildAnthropicPayload(d, req)
	case catalog.ShapeNovaCanvas:
		return buildCanvasPayload(req)
	case catalog.ShapeNovaReel:
		return buildReelPayload(req)
	default:
		return nil, platformerrors.NewError(platformerrors.ErrorTypeConfiguration,
			platformerrors.LayerDomain,
			fmt.Sprintf("no payload builder for shape %q (model %s)", d.PayloadShape, d.Key), nil)
	}
}

func buildAnthropicPayload(d catalog.Descriptor, req Request) ([]byte, error) {
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	if maxTokens > d.MaxOutputTokens {
		maxTokens = d.MaxOutputTokens
	}

	return json.Marshal(anthropicPayload{
		AnthropicVersion: anthropicVersion,
		MaxTokens:        maxTokens,
		Messages: []anthropicMessage{
			{Role: "user", Content: req.Prompt},
		},
	})
}

func buildCanvasPayload(req Request) ([]byte, error) {
	payload := canvasPayload{
		ImageGenerationConfig: imageGenerationConfig{
			NumberOfImages: 1,
			Quality:        imageQuality,
			Height:         imageHeight,
			Width:          imageWidth,
			CfgScale:       imageCfgScale,
			Seed:           seedFn(),
		},
	}

	if req.ImageData != "" {
		payload.TaskType = "IMAGE_VARIATION"
		payload.ImageVariationParams = &imageVariationParams{
			Text:               req.Prompt,
			Images:             []string{stripDataURI(req.ImageData)},
			SimilarityStrength: 0.7,
		}
	} else {
		payload.TaskType = "TEXT_IMAGE"
		payload.TextToImageParams = &textToImageParams{Text: req.Prompt}
	}

	return json.Marshal(payload)
}

func buildReelPayload(req Request) ([]byte, error) {
	payload := reelPayload{
		TaskType: "TEXT_TO_VIDEO",
		TextToVideoParams: textToVideoParams{
			Text: req.Prompt,
		},
		VideoGenerationConfig: videoGenerationConfig{
			DurationSeconds: videoDurationSeconds,
			FPS:             videoFPS,
			Dimension:       videoDimension,
			Seed:            seedFn(),
		},
	}

	if req.ImageData != "" {
		payload.TaskType = "IMAGE_TO_VIDEO"
		img := videoInputImage{Format: "png"}
		img.Source.Bytes = stripDataURI(req.ImageData)
		payload.TextToVideoParams.Images = []videoInputImage{img}
	}

	return json.Marshal(payload)
}
