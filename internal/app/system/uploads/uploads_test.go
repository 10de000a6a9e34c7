package uploads

import (
	"strings"
	"testing"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "logo.png", "logo.png"},
		{"spaces and unicode", "my chápter logo.png", "my_ch__pter_logo.png"},
		{"strips directories", "../../etc/passwd", "passwd"},
		{"empty", "", "file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeFilename(tt.in); got != tt.want {
				t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSanitizeFilename_Truncates(t *testing.T) {
	long := strings.Repeat("a", 200) + ".png"
	got := SanitizeFilename(long)
	if len(got) > 100 {
		t.Errorf("length %d, want <= 100", len(got))
	}
	if !strings.HasSuffix(got, ".png") {
		t.Errorf("extension lost: %q", got)
	}
}
