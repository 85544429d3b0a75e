package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePrediction(t *testing.T) {
	tests := []struct {
		name    string
		pred    *Prediction
		wantErr error
	}{
		{"valid", &Prediction{DiseaseID: "Flu", Score: 0.5}, nil},
		{"score zero", &Prediction{DiseaseID: "Flu", Score: 0}, nil},
		{"score one", &Prediction{DiseaseID: "Flu", Score: 1}, nil},
		{"nil prediction", nil, ErrInvalidPrediction},
		{"empty disease id", &Prediction{Score: 0.5}, ErrEmptyDiseaseID},
		{"negative score", &Prediction{DiseaseID: "Flu", Score: -0.1}, ErrScoreOutOfRange},
		{"score above one", &Prediction{DiseaseID: "Flu", Score: 1.1}, ErrScoreOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePrediction(tt.pred)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestValidateVocabEntry(t *testing.T) {
	tests := []struct {
		name    string
		entry   *VocabEntry
		wantErr error
	}{
		{"valid", &VocabEntry{Key: "sym:fever", Text: "fever"}, nil},
		{"valid without vector", &VocabEntry{Key: "Q38933", Text: "fever"}, nil},
		{"nil entry", nil, ErrInvalidVocabEntry},
		{"empty key", &VocabEntry{Text: "fever"}, ErrEmptyVocabKey},
		{"empty text", &VocabEntry{Key: "sym:fever"}, ErrEmptyVocabText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateVocabEntry(tt.entry)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}
