// internal/app/features/generate/generator.go
package generate

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/chapterhub/internal/domain/models"
)

// Draft is one generated piece of content for a single platform.
type Draft struct {
	Platform string
	Text     string
}

// Generator produces platform-specific drafts for an event. The canned
// implementation below is the only one today; a real text-generation
// provider would implement the same interface.
type Generator interface {
	Generate(ctx context.Context, ev models.Event, platforms []string, tone string) ([]Draft, error)
}

// CannedGenerator fills fixed per-platform templates from the event and
// sleeps briefly to mimic a remote provider's latency. It never fails
// except on context cancellation.
type CannedGenerator struct {
	Delay time.Duration
}

func NewCannedGenerator() *CannedGenerator {
	return &CannedGenerator{Delay: 1500 * time.Millisecond}
}

func (g *CannedGenerator) Generate(ctx context.Context, ev models.Event, platforms []string, tone string) ([]Draft, error) {
	if g.Delay > 0 {
		select {
		case <-time.After(g.Delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	drafts := make([]Draft, 0, len(platforms))
	for _, p := range platforms {
		if !models.IsValidPlatform(p) {
			continue
		}
		drafts = append(drafts, Draft{Platform: p, Text: cannedText(p, ev, tone)})
	}
	return drafts, nil
}

func cannedText(platform string, ev models.Event, tone string) string {
	when := ev.Date
	if ev.Time != "" {
		when += " at " + ev.Time
	}
	where := ev.Location
	if where == "" {
		where = "online"
	}

	var b strings.Builder
	switch platform {
	case "twitter":
		fmt.Fprintf(&b, "%s is happening %s! Join us %s.", ev.Title, when, where)
		if ev.Link != "" {
			fmt.Fprintf(&b, " Details: %s", ev.Link)
		}
		b.WriteString(" #community #" + ev.Type)
	case "linkedin":
		fmt.Fprintf(&b, "We're excited to announce %s on %s.\n\n", ev.Title, when)
		if ev.Description != "" {
			b.WriteString(ev.Description + "\n\n")
		}
		fmt.Fprintf(&b, "Location: %s.", where)
		if ev.Link != "" {
			fmt.Fprintf(&b, " Register here: %s", ev.Link)
		}
	case "facebook":
		fmt.Fprintf(&b, "Mark your calendars! %s is coming up %s, %s.", ev.Title, when, where)
		if ev.Link != "" {
			fmt.Fprintf(&b, " More info: %s", ev.Link)
		}
	case "instagram":
		fmt.Fprintf(&b, "%s\n%s\n%s", ev.Title, when, where)
		b.WriteString("\n#community #" + ev.Type + " #meetup")
	default:
		fmt.Fprintf(&b, "%s on %s, %s.", ev.Title, when, where)
	}

	text := b.String()
	if tone == "casual" {
		text = "Hey everyone! " + text
	}
	return text
}
