package generation

import (
	"context"
	"encoding/base64"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bongo-server/internal/domain/catalog"
	"bongo-server/internal/utils/platformerrors"
)

type fakeMediaStore struct {
	saved       []byte
	contentType string
	url         string
	err         error
}

func (s *fakeMediaStore) Save(_ context.Context, data []byte, contentType string) (string, error) {
	s.saved = data
	s.contentType = contentType
	return s.url, s.err
}

func textModel() catalog.Descriptor {
	return catalog.Descriptor{Key: "claude-opus-4", DisplayName: "Claude Opus 4", Category: catalog.CategoryText}
}

func imageModel() catalog.Descriptor {
	return catalog.Descriptor{Key: "nova-canvas", DisplayName: "Nova Canvas", Category: catalog.CategoryImage}
}

func videoModel() catalog.Descriptor {
	return catalog.Descriptor{Key: "nova-reel", DisplayName: "Nova Reel", Category: catalog.CategoryVideo}
}

func TestNormalizeText(t *testing.T) {
	n := NewNormalizer(nil, zerolog.Nop())

	body := []byte(`{"content":[{"type":"text","text":"The answer is 4."}],"usage":{"input_tokens":12,"output_tokens":7}}`)
	res, err := n.Normalize(context.Background(), textModel(), "what is 2+2", body, "direct")
	require.NoError(t, err)

	assert.Equal(t, "The answer is 4.", res.Response)
	assert.Equal(t, "Claude Opus 4", res.Model)
	assert.Equal(t, "direct", res.Approach)
	assert.Equal(t, catalog.CategoryText, res.Category)
	require.NotNil(t, res.Usage)
	assert.Equal(t, 12, res.Usage.InputTokens)
	assert.Equal(t, 7, res.Usage.OutputTokens)
	assert.Empty(t, res.MediaURL)
}

func TestNormalizeTextEmptyContent(t *testing.T) {
	n := NewNormalizer(nil, zerolog.Nop())

	_, err := n.Normalize(context.Background(), textModel(), "p", []byte(`{"content":[]}`), "direct")
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeExternal))
}

func TestNormalizeImageInline(t *testing.T) {
	n := NewNormalizer(nil, zerolog.Nop())

	res, err := n.Normalize(context.Background(), imageModel(), "a red barn", []byte(`{"images":["QkFTRTY0"]}`), "cross-region")
	require.NoError(t, err)

	assert.Equal(t, "Generated image: a red barn", res.Response)
	assert.Equal(t, "data:image/png;base64,QkFTRTY0", res.MediaURL)
	assert.Nil(t, res.Usage)
}

func TestNormalizeImagePersistsToStore(t *testing.T) {
	raw := []byte("fake-png-bytes")
	b64 := base64.StdEncoding.EncodeToString(raw)
	store := &fakeMediaStore{url: "https://cdn.example.com/generated/x.png"}

	n := NewNormalizer(store, zerolog.Nop())

	res, err := n.Normalize(context.Background(), imageModel(), "a red barn", []byte(`{"images":["`+b64+`"]}`), "direct")
	require.NoError(t, err)

	assert.Equal(t, "https://cdn.example.com/generated/x.png", res.MediaURL)
	assert.Equal(t, raw, store.saved)
	assert.Equal(t, "image/png", store.contentType)
	assert.Equal(t, "Generated image: a red barn", res.Response)
}

func TestNormalizeImageStoreFailureKeepsInline(t *testing.T) {
	b64 := base64.StdEncoding.EncodeToString([]byte("img"))
	store := &fakeMediaStore{err: assert.AnError}

	n := NewNormalizer(store, zerolog.Nop())

	res, err := n.Normalize(context.Background(), imageModel(), "p", []byte(`{"images":["`+b64+`"]}`), "direct")
	require.NoError(t, err, "storage failure must not fail the generation")
	assert.Equal(t, "data:image/png;base64,"+b64, res.MediaURL)
}

func TestNormalizeImageWithoutImagesIsStillSuccess(t *testing.T) {
	n := NewNormalizer(nil, zerolog.Nop())

	for name, body := range map[string]string{
		"empty body":       `{}`,
		"empty array":      `{"images":[]}`,
		"rejection notice": `{"images":[],"error":"content policy violation"}`,
	} {
		t.Run(name, func(t *testing.T) {
			res, err := n.Normalize(context.Background(), imageModel(), "p", []byte(body), "direct")
			require.NoError(t, err, "missing images are optional, not a failure")
			assert.Equal(t, "Image generated successfully", res.Response)
			assert.Empty(t, res.MediaURL)
		})
	}
}

func TestNormalizeVideoWithoutPayload(t *testing.T) {
	n := NewNormalizer(nil, zerolog.Nop())

	res, err := n.Normalize(context.Background(), videoModel(), "waves", []byte(`{"invocationArn":"arn:aws:bedrock:..."}`), "alt-region")
	require.NoError(t, err)
	assert.Equal(t, "Video generated successfully", res.Response)
	assert.Equal(t, "alt-region", res.Approach)
	assert.Empty(t, res.MediaURL)
}

func TestNormalizeVideoPersistsPayload(t *testing.T) {
	raw := []byte("fake-mp4-bytes")
	b64 := base64.StdEncoding.EncodeToString(raw)
	store := &fakeMediaStore{url: "https://cdn.example.com/generated/v.mp4"}

	n := NewNormalizer(store, zerolog.Nop())

	res, err := n.Normalize(context.Background(), videoModel(), "waves at sunset", []byte(`{"video":"`+b64+`"}`), "direct")
	require.NoError(t, err)

	assert.Equal(t, "Video generated successfully: waves at sunset", res.Response)
	assert.Equal(t, "https://cdn.example.com/generated/v.mp4", res.MediaURL)
	assert.Equal(t, raw, store.saved)
	assert.Equal(t, "video/mp4", store.contentType)
}

func TestNormalizeVideoWithoutStoreConfirmsAnyway(t *testing.T) {
	n := NewNormalizer(nil, zerolog.Nop())

	b64 := base64.StdEncoding.EncodeToString([]byte("vid"))
	res, err := n.Normalize(context.Background(), videoModel(), "waves", []byte(`{"video":"`+b64+`"}`), "direct")
	require.NoError(t, err)
	assert.Equal(t, "Video generated successfully: waves", res.Response)
	assert.Empty(t, res.MediaURL, "video bytes are never inlined")
}

func TestNormalizeMalformedJSON(t *testing.T) {
	n := NewNormalizer(nil, zerolog.Nop())

	_, err := n.Normalize(context.Background(), textModel(), "p", []byte(`not json`), "direct")
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeExternal))
}
