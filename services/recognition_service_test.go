package services

import (
	"context"
	"errors"
	"testing"

	"foodcal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubVision replays a canned reply and records the prompt it was given.
type stubVision struct {
	reply      string
	err        error
	configured bool
	lastPrompt string
	lastImage  string
	calls      int
}

func (s *stubVision) Configured() bool {
	return s.configured
}

func (s *stubVision) AnalyzeImage(_ context.Context, prompt, imageURL string) (string, error) {
	s.calls++
	s.lastPrompt = prompt
	s.lastImage = imageURL
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func TestAnalyzeMissingImage(t *testing.T) {
	svc := NewRecognitionService(&stubVision{configured: true})
	_, err := svc.Analyze(context.Background(), "  ", "")
	assert.ErrorIs(t, err, ErrMissingImage)
}

func TestAnalyzeNotConfigured(t *testing.T) {
	vision := &stubVision{configured: false}
	svc := NewRecognitionService(vision)
	_, err := svc.Analyze(context.Background(), "aGVsbG8=", "")
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.Zero(t, vision.calls, "provider must not be called without a key")
}

func TestAnalyzeWrapsBareBase64(t *testing.T) {
	vision := &stubVision{configured: true, reply: `{"food_name":"apple"}`}
	svc := NewRecognitionService(vision)

	_, err := svc.Analyze(context.Background(), "aGVsbG8=", "")
	require.NoError(t, err)
	assert.Equal(t, "data:image/jpeg;base64,aGVsbG8=", vision.lastImage)
}

func TestAnalyzePassesDataURIThrough(t *testing.T) {
	vision := &stubVision{configured: true, reply: `{"food_name":"apple"}`}
	svc := NewRecognitionService(vision)

	_, err := svc.Analyze(context.Background(), "data:image/png;base64,aGVsbG8=", "")
	require.NoError(t, err)
	assert.Equal(t, "data:image/png;base64,aGVsbG8=", vision.lastImage)
}

func TestAnalyzeNormalizesPartialReply(t *testing.T) {
	vision := &stubVision{
		configured: true,
		reply:      "Sure! Here is the result:\n```json\n{\"food_name\": \"apple\", \"calorie_estimate\": 52}\n```",
	}
	svc := NewRecognitionService(vision)

	result, err := svc.Analyze(context.Background(), "aGVsbG8=", "")
	require.NoError(t, err)

	assert.Equal(t, "apple", result.FoodName)
	assert.Equal(t, 52.0, result.CalorieEstimate.Kcal())
	assert.Equal(t, models.DefaultConfidence, result.Confidence)
	assert.Equal(t, models.DefaultGIValue, result.GIValue)
	assert.Equal(t, models.SuitabilityUnknown, result.SuitableForDiabetes)
	assert.Equal(t, "0g", result.Nutrition.Protein)
}

func TestAnalyzeSubstitutesPlaceholderOnGarbage(t *testing.T) {
	vision := &stubVision{configured: true, reply: "I really cannot tell what this is."}
	svc := NewRecognitionService(vision)

	result, err := svc.Analyze(context.Background(), "aGVsbG8=", "")
	require.NoError(t, err, "parse failures must not surface as errors")

	placeholder := models.PlaceholderResult()
	assert.Equal(t, placeholder.FoodName, result.FoodName)
	assert.Equal(t, placeholder.Nutrition, result.Nutrition)
}

func TestAnalyzeEmbedsFoodNameHint(t *testing.T) {
	vision := &stubVision{configured: true, reply: `{"food_name":"yogurt"}`}
	svc := NewRecognitionService(vision)

	_, err := svc.Analyze(context.Background(), "aGVsbG8=", "yogurt")
	require.NoError(t, err)
	assert.Contains(t, vision.lastPrompt, `The user suggests the food may be "yogurt"`)
}

func TestAnalyzePropagatesProviderError(t *testing.T) {
	wantErr := &ProviderError{StatusCode: 503, Body: "overloaded"}
	vision := &stubVision{configured: true, err: wantErr}
	svc := NewRecognitionService(vision)

	_, err := svc.Analyze(context.Background(), "aGVsbG8=", "")
	var provider *ProviderError
	require.True(t, errors.As(err, &provider))
	assert.Equal(t, 503, provider.StatusCode)
}

func TestMockVisionClientHints(t *testing.T) {
	mock := NewMockVisionClient()
	svc := NewRecognitionService(mock)

	result, err := svc.Analyze(context.Background(), "aGVsbG8=", "rice")
	require.NoError(t, err)
	assert.Equal(t, "rice", result.FoodName)
	assert.Equal(t, 73, result.GIValue)
	assert.Equal(t, models.SuitabilityModerate, result.SuitableForDiabetes)

	// Unknown hints fall back to the apple fixture.
	result, err = svc.Analyze(context.Background(), "aGVsbG8=", "space burger")
	require.NoError(t, err)
	assert.Equal(t, "apple", result.FoodName)
}
