package errors

import (
	"math"
	"testing"
)

func TestValidateDimension(t *testing.T) {
	tests := []struct {
		name    string
		value   int
		wantErr bool
	}{
		{"one", 1, false},
		{"texture size", 1024, false},
		{"zero", 0, true},
		{"negative", -32, true},
		{"too large", 1<<30 + 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDimension("tile width", tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDimension(%d) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("code = %v, want %v", GetCode(err), ErrCodeInvalidInput)
			}
		})
	}
}

func TestValidateCanvas(t *testing.T) {
	tests := []struct {
		name    string
		w, h    float64
		wantErr bool
	}{
		{"hd", 1920, 1080, false},
		{"zero width", 0, 100, true},
		{"negative height", 100, -1, true},
		{"nan", math.NaN(), 100, true},
		{"inf", 100, math.Inf(1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCanvas(tt.w, tt.h)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCanvas(%g, %g) error = %v, wantErr %v", tt.w, tt.h, err, tt.wantErr)
			}
		})
	}
}

func TestValidateZoomRange(t *testing.T) {
	tests := []struct {
		name     string
		min, max float64
		wantErr  bool
	}{
		{"defaults", 0.005, 3.0, false},
		{"equal", 1, 1, false},
		{"zero min", 0, 3, true},
		{"inverted", 3, 0.005, true},
		{"nan", math.NaN(), 3, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateZoomRange(tt.min, tt.max)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateZoomRange(%g, %g) error = %v, wantErr %v", tt.min, tt.max, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"relative", "data/aln.fasta", false},
		{"absolute", "/tmp/aln.fa", false},
		{"empty", "", true},
		{"null byte", "aln\x00.fa", true},
		{"control char", "aln\x01.fa", true},
		{"too long", string(make([]byte, 5000)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateAddr(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"port only", ":8080", false},
		{"host and port", "localhost:8080", false},
		{"empty", "", true},
		{"no port", "localhost", true},
		{"trailing colon", "localhost:", true},
		{"bad port", "localhost:http", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAddr(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateAddr(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
