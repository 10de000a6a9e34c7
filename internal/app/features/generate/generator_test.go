package generate

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/chapterhub/internal/domain/models"
)

func TestCannedGenerator(t *testing.T) {
	g := &CannedGenerator{} // no delay in tests
	ev := models.Event{
		Title:    "DevFest Providence",
		Date:     "2099-10-12",
		Time:     "09:00",
		Type:     "conference",
		Location: "RISD Auditorium",
		Link:     "https://example.com/devfest",
	}

	drafts, err := g.Generate(context.Background(), ev, []string{"twitter", "linkedin"}, "")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(drafts) != 2 {
		t.Fatalf("expected 2 drafts, got %d", len(drafts))
	}

	for _, d := range drafts {
		if !strings.Contains(d.Text, "DevFest Providence") {
			t.Errorf("%s draft missing the event title: %q", d.Platform, d.Text)
		}
		if !strings.Contains(d.Text, "2099-10-12") {
			t.Errorf("%s draft missing the date: %q", d.Platform, d.Text)
		}
	}
	if drafts[0].Platform != "twitter" || drafts[1].Platform != "linkedin" {
		t.Errorf("platform order: got %s, %s", drafts[0].Platform, drafts[1].Platform)
	}
}

func TestCannedGenerator_SkipsUnknownPlatform(t *testing.T) {
	g := &CannedGenerator{}
	ev := models.Event{Title: "Meetup", Date: "2099-01-01"}

	drafts, err := g.Generate(context.Background(), ev, []string{"twitter", "myspace"}, "")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(drafts) != 1 {
		t.Fatalf("expected 1 draft, got %d", len(drafts))
	}
}

func TestCannedGenerator_Tone(t *testing.T) {
	g := &CannedGenerator{}
	ev := models.Event{Title: "Meetup", Date: "2099-01-01"}

	drafts, err := g.Generate(context.Background(), ev, []string{"facebook"}, "casual")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !strings.HasPrefix(drafts[0].Text, "Hey everyone!") {
		t.Errorf("casual tone missing: %q", drafts[0].Text)
	}
}

func TestCannedGenerator_CancelledContext(t *testing.T) {
	g := &CannedGenerator{Delay: time.Minute}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := g.Generate(ctx, models.Event{Title: "Meetup"}, []string{"twitter"}, "")
	if err == nil {
		t.Fatal("expected a context error")
	}
}
