package services

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// hintPattern lifts the food-name hint the recognition service embeds in the
// prompt when the caller supplied one.
var hintPattern = regexp.MustCompile(`The user suggests the food may be "([^"]+)"`)

// MockVisionClient serves fixture replies keyed by the food-name hint so the
// pipeline can run end-to-end without provider credentials.
type MockVisionClient struct {
	fixtures map[string]string
}

// NewMockVisionClient builds the mock with its built-in fixture table.
func NewMockVisionClient() *MockVisionClient {
	mk := func(name string, kcal, gi int, suit, tips, protein, carbs, fat string) string {
		b, _ := json.Marshal(map[string]any{
			"food_name":             name,
			"calorie_estimate":      kcal,
			"confidence":            0.95,
			"health_tips":           tips,
			"gi_value":              gi,
			"suitable_for_diabetes": suit,
			"nutrition": map[string]string{
				"protein":  protein,
				"carbs":    carbs,
				"fat":      fat,
				"calories": fmt.Sprintf("%dkcal", kcal),
			},
		})
		return string(b)
	}
	return &MockVisionClient{
		fixtures: map[string]string{
			"apple":          mk("apple", 52, 36, "suitable", "rich in fiber, a good snack between meals", "0.3g", "14g", "0.2g"),
			"chicken breast": mk("chicken breast", 165, 0, "suitable", "lean protein, grill rather than fry", "31g", "0g", "3.6g"),
			"rice":           mk("rice", 130, 73, "moderate", "high GI, pair with vegetables and protein", "2.7g", "28g", "0.3g"),
			"yogurt":         mk("yogurt", 59, 35, "suitable", "pick unsweetened varieties", "10g", "3.6g", "0.4g"),
			"broccoli":       mk("broccoli", 34, 15, "suitable", "low calorie and high in vitamin C", "2.8g", "7g", "0.4g"),
		},
	}
}

// AnalyzeImage returns the fixture matching the prompt's food-name hint, or
// the apple fixture when no hint matches.
func (m *MockVisionClient) AnalyzeImage(_ context.Context, prompt, _ string) (string, error) {
	if match := hintPattern.FindStringSubmatch(prompt); len(match) > 1 {
		if fixture, ok := m.fixtures[strings.ToLower(strings.TrimSpace(match[1]))]; ok {
			return fixture, nil
		}
	}
	return m.fixtures["apple"], nil
}
