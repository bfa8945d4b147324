package errors

import (
	"strings"
	"testing"
)

func TestValidateNodeID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{"simple", "person:erasmus", false},
		{"unicode", "Œuvres complètes", false},
		{"empty", "", true},
		{"control", "a\x00b", true},
		{"newline", "a\nb", true},
		{"too long", strings.Repeat("x", 513), true},
		{"max length", strings.Repeat("x", 512), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNodeID(tt.id)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateNodeID(%q) error = %v, wantErr %v", tt.id, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("expected INVALID_INPUT, got %v", GetCode(err))
			}
		})
	}
}

func TestValidateLayoutType(t *testing.T) {
	valid := map[string]bool{"force": true, "circular": true}
	if err := ValidateLayoutType("force", valid); err != nil {
		t.Errorf("force: %v", err)
	}
	err := ValidateLayoutType("spiral", valid)
	if !Is(err, ErrCodeInvalidLayout) {
		t.Errorf("spiral: got %v, want INVALID_LAYOUT", err)
	}
}

func TestValidateSizeBy(t *testing.T) {
	valid := map[string]bool{"count": true}
	if err := ValidateSizeBy("count", valid); err != nil {
		t.Errorf("count: %v", err)
	}
	if err := ValidateSizeBy("pagerank", valid); !Is(err, ErrCodeInvalidSizeBy) {
		t.Errorf("pagerank: got %v, want INVALID_SIZE_BY", err)
	}
}

func TestValidateColor(t *testing.T) {
	tests := []struct {
		color   string
		wantErr bool
	}{
		{"#fff", false},
		{"#4C72B0", false},
		{"#4c72b0cc", false},
		{"4c72b0", true},
		{"#12345", true},
		{"red", true},
		{"", true},
	}
	for _, tt := range tests {
		err := ValidateColor(tt.color)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateColor(%q) error = %v, wantErr %v", tt.color, err, tt.wantErr)
		}
	}
}
