package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"foodcal/models"
	"foodcal/utils"
)

// Validation and configuration failures surfaced by Analyze.
var (
	ErrMissingImage  = errors.New("missing image data")
	ErrNotConfigured = errors.New("vision API key is not configured")
)

// recognitionPrompt is the fixed instruction contract sent with every image.
// The model is asked for exactly the canonical JSON shape the API returns.
const recognitionPrompt = `Identify the food in this image and return its name, estimated calories, GI value, diabetic suitability, health advice and a detailed macro breakdown. Reply strictly with the following JSON and nothing else: {"food_name": "name", "calorie_estimate": "52kcal", "confidence": 0.95, "health_tips": "advice", "gi_value": 36, "suitable_for_diabetes": "suitable/moderate/unsuitable", "nutrition": {"protein": "0.3g", "carbs": "14g", "fat": "0.2g", "calories": "52kcal"}}`

// RecognitionService turns an encoded food image into a normalized
// recognition result via the injected vision client.
type RecognitionService struct {
	vision VisionClient
}

func NewRecognitionService(vision VisionClient) *RecognitionService {
	return &RecognitionService{vision: vision}
}

// Configured reports whether the underlying vision client has a credential.
// Clients that don't expose the check (the mock) count as configured.
func (s *RecognitionService) Configured() bool {
	if c, ok := s.vision.(interface{ Configured() bool }); ok {
		return c.Configured()
	}
	return true
}

// Analyze validates the request, invokes the model once and normalizes the
// reply. foodName is an optional hint used by mock/test deployments.
func (s *RecognitionService) Analyze(ctx context.Context, image, foodName string) (*models.RecognitionResult, error) {
	if strings.TrimSpace(image) == "" {
		return nil, ErrMissingImage
	}
	if !s.Configured() {
		return nil, ErrNotConfigured
	}

	imageURL := image
	if !strings.HasPrefix(imageURL, "data:") {
		imageURL = "data:image/jpeg;base64," + imageURL
	}

	prompt := recognitionPrompt
	if foodName != "" {
		prompt += fmt.Sprintf(` The user suggests the food may be "%s".`, foodName)
	}

	reply, err := s.vision.AnalyzeImage(ctx, prompt, imageURL)
	if err != nil {
		return nil, err
	}

	result := parseReply(reply)
	result.ApplyDefaults()
	return result, nil
}

// parseReply extracts and decodes the JSON object in the model's reply.
// Unparseable replies degrade to the placeholder record; parse failures are
// logged, never propagated.
func parseReply(reply string) *models.RecognitionResult {
	raw := utils.ExtractJSON(reply)
	if raw == "" {
		log.Printf("vision reply contained no JSON, substituting placeholder: %.200s", reply)
		placeholder := models.PlaceholderResult()
		return &placeholder
	}

	var result models.RecognitionResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		log.Printf("vision reply JSON did not decode (%v), substituting placeholder: %.200s", err, raw)
		placeholder := models.PlaceholderResult()
		return &placeholder
	}
	return &result
}
