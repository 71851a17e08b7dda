package render

import (
	"errors"
	"os/exec"
	"testing"
)

func TestParseFormat(t *testing.T) {
	for _, f := range Formats {
		got, err := ParseFormat(string(f))
		if err != nil || got != f {
			t.Errorf("ParseFormat(%q) = %q, %v", f, got, err)
		}
	}
	if _, err := ParseFormat("gif"); err == nil {
		t.Error("ParseFormat(gif) should fail")
	}
}

func TestFormatExtAndType(t *testing.T) {
	tests := []struct {
		f     Format
		ext   string
		ctype string
	}{
		{FormatJSON, "json", "application/json"},
		{FormatDOT, "dot", "text/vnd.graphviz"},
		{FormatSVG, "svg", "image/svg+xml"},
		{FormatGraphviz, "gv.svg", "image/svg+xml"},
		{FormatPNG, "png", "image/png"},
		{FormatPDF, "pdf", "application/pdf"},
	}
	for _, tt := range tests {
		if got := tt.f.Ext(); got != tt.ext {
			t.Errorf("%s.Ext() = %q, want %q", tt.f, got, tt.ext)
		}
		if got := tt.f.ContentType(); got != tt.ctype {
			t.Errorf("%s.ContentType() = %q, want %q", tt.f, got, tt.ctype)
		}
	}
}

func TestToPNGWithoutConverter(t *testing.T) {
	if _, err := exec.LookPath("rsvg-convert"); err == nil {
		t.Skip("rsvg-convert is installed")
	}
	_, err := ToPNG(t.Context(), []byte("<svg/>"), 1)
	if !errors.Is(err, ErrNoConverter) {
		t.Errorf("ToPNG() error = %v, want ErrNoConverter", err)
	}
}
