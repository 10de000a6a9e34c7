package htmlsanitize

import (
	"strings"
	"testing"
)

func TestSanitize_RemovesScript(t *testing.T) {
	in := `Hello <script>alert("x")</script><b>world</b>`
	got := Sanitize(in)

	if strings.Contains(got, "<script") {
		t.Errorf("script tag survived: %q", got)
	}
	if !strings.Contains(got, "<b>world</b>") {
		t.Errorf("benign markup stripped: %q", got)
	}
}

func TestSanitize_KeepsLinks(t *testing.T) {
	in := `See <a href="https://gdg.community.dev">the site</a>`
	got := Sanitize(in)
	if !strings.Contains(got, "https://gdg.community.dev") {
		t.Errorf("link stripped: %q", got)
	}
}

func TestStrip_RemovesAllMarkup(t *testing.T) {
	in := `<p>Join <b>us</b> tonight</p>`
	got := Strip(in)
	if strings.ContainsAny(got, "<>") {
		t.Errorf("markup survived Strip: %q", got)
	}
	if !strings.Contains(got, "Join") || !strings.Contains(got, "us") {
		t.Errorf("text content lost: %q", got)
	}
}
