package digests

import (
	"context"
	"errors"

	"github.com/julianstephens/habitlit/internal/cli"
	"github.com/julianstephens/habitlit/internal/llm"
	"github.com/julianstephens/habitlit/internal/models"
	"github.com/julianstephens/habitlit/internal/motivation"
	"github.com/julianstephens/habitlit/internal/storage"
	"github.com/julianstephens/habitlit/internal/tui"
)

type CoachCmd struct {
	Date       string `help:"Date (YYYY-MM-DD). Defaults to today."`
	Regenerate bool   `short:"r" help:"Ignore the cached text and generate it again."`
}

func (c *CoachCmd) Run(ctx *cli.Context) error {
	return showDigest(ctx, c.Date, models.DigestCoach, c.Regenerate)
}

type InsightCmd struct {
	Date       string `help:"Last day of the 30-day window (YYYY-MM-DD). Defaults to today."`
	Regenerate bool   `short:"r" help:"Ignore the cached text and generate it again."`
}

func (c *InsightCmd) Run(ctx *cli.Context) error {
	return showDigest(ctx, c.Date, models.DigestInsight, c.Regenerate)
}

type QuoteCmd struct {
	Date string `help:"Date (YYYY-MM-DD). Defaults to today."`
}

func (c *QuoteCmd) Run(ctx *cli.Context) error {
	return showDigest(ctx, c.Date, models.DigestQuote, false)
}

// showDigest prints the cached digest of kind, generating it first when it
// is missing or regenerate is set.
func showDigest(ctx *cli.Context, dateFlag string, kind models.DigestKind, regenerate bool) error {
	svc, err := ctx.Service()
	if err != nil {
		return err
	}
	date, err := ctx.ResolveDate(dateFlag)
	if err != nil {
		return err
	}
	bg := context.Background()

	if !regenerate {
		cached, err := svc.Digest(bg, date, kind)
		if err == nil {
			show(ctx, cached.Content)
			return nil
		}
		if !errors.Is(err, storage.ErrNotFound) {
			return err
		}
	}

	text, err := svc.GenerateDigest(bg, date, kind)
	if errors.Is(err, llm.ErrUnavailable) {
		ctx.Printf("The %s is unavailable right now.\n", label(kind))
		if kind != models.DigestQuote {
			ctx.Println("Set an API key with 'habitlit keys set openai' or 'habitlit keys set gemini' and try again.")
		}
		return nil
	}
	if err != nil {
		return err
	}
	show(ctx, text)
	return nil
}

func show(ctx *cli.Context, text string) {
	if ctx.Terminal() {
		text = tui.RenderMarkdown(text, 80)
	}
	ctx.Println(text)
}

func label(kind models.DigestKind) string {
	switch kind {
	case models.DigestInsight:
		return "pattern insight"
	case models.DigestQuote:
		return "quote of the day"
	default:
		return "coach message"
	}
}

type RewardCmd struct {
	Date string `help:"Date (YYYY-MM-DD). Defaults to today."`
}

func (c *RewardCmd) Run(ctx *cli.Context) error {
	svc, err := ctx.Service()
	if err != nil {
		return err
	}
	date, err := ctx.ResolveDate(c.Date)
	if err != nil {
		return err
	}
	r, err := svc.Reward(context.Background(), date)
	if errors.Is(err, motivation.ErrUnavailable) {
		ctx.Printf("You reached %d%% today, but the reward image could not be fetched. Try again later.\n", r.Rate)
		return nil
	}
	if err != nil {
		return err
	}
	if !r.Eligible {
		ctx.Printf("No reward yet: %d%% done, %d%% needed.\n", r.Rate, r.Threshold)
		return nil
	}
	ctx.Printf("Reward unlocked at %d%%! Here is your dog:\n%s\n", r.Rate, r.ImageURL)
	return nil
}
