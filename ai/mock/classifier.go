package mock

import (
	"context"

	"github.com/poiesic/symptomap/core"
)

// MockClassifier is a test double for ai.Classifier.
type MockClassifier struct {
	// PredictFunc is called by Predict if set.
	// If nil, the fixed Prediction field is returned.
	PredictFunc func(ctx context.Context, text string) (core.Prediction, error)

	// Prediction is the fixed verdict returned when PredictFunc is nil.
	Prediction core.Prediction

	callCount int
}

// NewMockClassifier creates a mock classifier returning the given fixed verdict.
func NewMockClassifier(prediction core.Prediction) *MockClassifier {
	return &MockClassifier{Prediction: prediction}
}

// Predict returns the injected or fixed prediction.
func (m *MockClassifier) Predict(ctx context.Context, text string) (core.Prediction, error) {
	m.callCount++

	if m.PredictFunc != nil {
		return m.PredictFunc(ctx, text)
	}
	return m.Prediction, nil
}

// CallCount returns the number of times Predict was called.
func (m *MockClassifier) CallCount() int {
	return m.callCount
}
