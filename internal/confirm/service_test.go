package confirm_test

import (
	"testing"

	"github.com/AlmaBetter-School/ai-voice-assistant/internal/confirm"
)

func TestClassify(t *testing.T) {
	svc := confirm.New()

	tests := []struct {
		name        string
		text        string
		affirmative bool
		negative    bool
	}{
		{name: "Plain yes", text: "yes", affirmative: true},
		{name: "Yes with padding", text: "  YES, go for it ", affirmative: true},
		{name: "Sounds good please", text: "sounds good, please", affirmative: true},
		{name: "Go ahead", text: "go ahead then", affirmative: true},
		{name: "Okay", text: "okay", affirmative: true},
		{name: "Plain no", text: "no", negative: true},
		{name: "Dont ascii apostrophe", text: "don't do that", negative: true},
		{name: "Dont typographic apostrophe", text: "don’t", negative: true},
		{name: "Not now", text: "not now", negative: true},
		{name: "Cancel", text: "cancel it", negative: true},
		{name: "Ambiguous", text: "maybe later"},
		{name: "Empty", text: ""},
		{name: "No as substring does not match", text: "nothing special"},
		{name: "Yes as substring does not match", text: "yesterday was fine"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := svc.IsAffirmative(tt.text); got != tt.affirmative {
				t.Errorf("IsAffirmative(%q) = %v, want %v", tt.text, got, tt.affirmative)
			}
			if got := svc.IsNegative(tt.text); got != tt.negative {
				t.Errorf("IsNegative(%q) = %v, want %v", tt.text, got, tt.negative)
			}
		})
	}
}
