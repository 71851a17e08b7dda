package errors

import (
	"testing"
)

func TestValidateFamilyID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"numeric", "10001", false},
		{"with dash", "fam-3", false},
		{"with underscore", "fam_3", false},
		{"with dot", "fam.v2", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 200)), true},
		{"path traversal", "..", true},
		{"slash", "a/b", true},
		{"backslash", "a\\b", true},
		{"leading dash", "-x", true},
		{"space", "a b", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFamilyID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFamilyID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidFamilyID) {
				t.Errorf("ValidateFamilyID(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidFamilyID)
			}
		})
	}
}

func TestValidatePersonID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"typical", "10001-01-001", false},
		{"placeholder", "m_10001-01-001", false},
		{"unicode", "José", false},

		{"empty", "", true},
		{"newline", "a\nb", true},
		{"null byte", "a\x00b", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePersonID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePersonID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
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
		{"simple", "processed/10001.json", false},
		{"nested", "a/b/c.json", false},

		{"empty", "", true},
		{"absolute", "/etc/passwd", true},
		{"traversal", "a/../b", true},
		{"backslash", "a\\b", true},
		{"null byte", "a\x00b", true},
		{"too long", string(make([]byte, 600)), true},
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
