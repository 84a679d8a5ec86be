package digests

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/julianstephens/habitlit/internal/cli/clitest"
	"github.com/julianstephens/habitlit/internal/coach"
	"github.com/julianstephens/habitlit/internal/llm"
	"github.com/julianstephens/habitlit/internal/models"
	"github.com/julianstephens/habitlit/internal/motivation"
	"github.com/julianstephens/habitlit/internal/storage/storagetest"
)

type stubGenerator struct {
	reply string
	err   error
	calls int
}

func (g *stubGenerator) Generate(ctx context.Context, system, prompt string) (string, error) {
	g.calls++
	return g.reply, g.err
}

type stubImages struct{ url string }

func (s stubImages) RandomImage(ctx context.Context) (string, error) {
	if s.url == "" {
		return "", motivation.ErrUnavailable
	}
	return s.url, nil
}

type stubQuotes struct{ quote motivation.Quote }

func (s stubQuotes) Today(ctx context.Context) (motivation.Quote, error) {
	return s.quote, nil
}

func TestCoachCmd_GeneratesAndCaches(t *testing.T) {
	gen := &stubGenerator{reply: "Nice work on stretching."}
	ctx, out := clitest.NewWithDeps(t, coach.Deps{Generator: gen})
	storagetest.MustAddHabit(t, ctx.Store, "Stretching")

	if err := (&CoachCmd{}).Run(ctx); err != nil {
		t.Fatalf("coach failed: %v", err)
	}
	if !strings.Contains(out.String(), "Nice work on stretching.") {
		t.Errorf("unexpected output: %q", out.String())
	}

	out.Reset()
	if err := (&CoachCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if gen.calls != 1 {
		t.Errorf("cached digest should not call the generator again, calls = %d", gen.calls)
	}
	if !strings.Contains(out.String(), "Nice work on stretching.") {
		t.Errorf("cached text not printed: %q", out.String())
	}

	gen.reply = "Fresh advice."
	out.Reset()
	if err := (&CoachCmd{Regenerate: true}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if gen.calls != 2 || !strings.Contains(out.String(), "Fresh advice.") {
		t.Errorf("regenerate: calls = %d, output %q", gen.calls, out.String())
	}
}

func TestCoachCmd_Unavailable(t *testing.T) {
	ctx, out := clitest.New(t)
	if err := (&CoachCmd{}).Run(ctx); err != nil {
		t.Fatalf("missing generator should not be an error: %v", err)
	}
	if !strings.Contains(out.String(), "coach message is unavailable") || !strings.Contains(out.String(), "keys set") {
		t.Errorf("unexpected output: %q", out.String())
	}
}

func TestInsightCmd_KeepsCacheOnFailure(t *testing.T) {
	gen := &stubGenerator{err: fmt.Errorf("%w: rate limited", llm.ErrUnavailable)}
	ctx, out := clitest.NewWithDeps(t, coach.Deps{Generator: gen})
	if err := ctx.Store.SaveDigest(clitest.Date, models.DigestInsight, "Mondays are strong."); err != nil {
		t.Fatal(err)
	}

	if err := (&InsightCmd{Regenerate: true}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "pattern insight is unavailable") {
		t.Errorf("unexpected output: %q", out.String())
	}
	d, err := ctx.Store.GetDigest(clitest.Date, models.DigestInsight)
	if err != nil {
		t.Fatal(err)
	}
	if d.Content != "Mondays are strong." {
		t.Errorf("cached digest was replaced: %q", d.Content)
	}
}

func TestQuoteCmd(t *testing.T) {
	ctx, out := clitest.NewWithDeps(t, coach.Deps{Quotes: stubQuotes{motivation.Quote{Text: "Small steps.", Author: "Anon"}}})
	if err := (&QuoteCmd{}).Run(ctx); err != nil {
		t.Fatalf("quote failed: %v", err)
	}
	if !strings.Contains(out.String(), `"Small steps." - Anon`) {
		t.Errorf("unexpected output: %q", out.String())
	}
	if _, err := ctx.Store.GetDigest(clitest.Date, models.DigestQuote); err != nil {
		t.Errorf("quote was not cached: %v", err)
	}
}

func TestQuoteCmd_Unavailable(t *testing.T) {
	ctx, out := clitest.New(t)
	if err := (&QuoteCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "quote of the day is unavailable") {
		t.Errorf("unexpected output: %q", out.String())
	}
}

func TestRewardCmd(t *testing.T) {
	tests := []struct {
		name string
		done bool
		url  string
		want string
	}{
		{"not eligible", false, "https://images.dog.ceo/a.jpg", "No reward yet: 0% done, 70% needed."},
		{"eligible", true, "https://images.dog.ceo/a.jpg", "https://images.dog.ceo/a.jpg"},
		{"image unavailable", true, "", "could not be fetched"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, out := clitest.NewWithDeps(t, coach.Deps{Images: stubImages{tt.url}})
			h := storagetest.MustAddHabit(t, ctx.Store, "Stretching")
			if _, err := ctx.Store.UpsertLog(clitest.Date, h.ID, tt.done, ""); err != nil {
				t.Fatal(err)
			}
			if err := (&RewardCmd{}).Run(ctx); err != nil {
				t.Fatalf("reward failed: %v", err)
			}
			if !strings.Contains(out.String(), tt.want) {
				t.Errorf("output %q does not contain %q", out.String(), tt.want)
			}
		})
	}
}
