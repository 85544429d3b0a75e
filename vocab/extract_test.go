package vocab

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractCandidatePhrases(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "plain symptom listing",
			text: "fever and headache",
			want: []string{"fever", "headache"},
		},
		{
			name: "stop words and short tokens filtered",
			text: "I have a bad dry cough",
			want: []string{"cough"},
		},
		{
			name: "bigrams over adjacent content words",
			text: "skin rash since monday",
			want: []string{"skin", "skin rash", "rash", "rash since", "since", "since monday", "monday"},
		},
		{
			name: "filler bigrams excluded",
			text: "been feeling feverish",
			want: []string{"been", "feeling", "feeling feverish", "feverish"},
		},
		{
			name: "duplicates keep first position",
			text: "headache headache fever headache",
			want: []string{"headache", "headache headache", "headache fever", "fever", "fever headache"},
		},
		{
			name: "punctuation normalized away",
			text: "Fever, chills... FATIGUE!",
			want: []string{"fever", "fever chills", "chills", "chills fatigue", "fatigue"},
		},
		{
			name: "empty input",
			text: "",
			want: []string{},
		},
		{
			name: "only filler",
			text: "I'm just really not that",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractCandidatePhrases(tt.text))
		})
	}
}
