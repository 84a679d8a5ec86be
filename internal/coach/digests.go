package coach

import (
	"context"
	"fmt"

	"github.com/julianstephens/habitlit/internal/constants"
	"github.com/julianstephens/habitlit/internal/digest"
	"github.com/julianstephens/habitlit/internal/llm"
	"github.com/julianstephens/habitlit/internal/logger"
	"github.com/julianstephens/habitlit/internal/models"
	"github.com/julianstephens/habitlit/internal/validation"
	"github.com/julianstephens/habitlit/internal/weather"
)

// Digest returns the cached digest of kind for date, or storage.ErrNotFound.
func (s *Service) Digest(ctx context.Context, date string, kind models.DigestKind) (models.CachedDigest, error) {
	if err := ctx.Err(); err != nil {
		return models.CachedDigest{}, err
	}
	if err := validation.ValidateDate(date); err != nil {
		return models.CachedDigest{}, err
	}
	if err := validation.ValidateDigestKind(kind); err != nil {
		return models.CachedDigest{}, err
	}
	return s.store.GetDigest(date, kind)
}

// GenerateDigest builds the digest of kind for date, generates the text and
// caches it. Any provider failure returns an error wrapping
// llm.ErrUnavailable and leaves the previously cached digest untouched.
func (s *Service) GenerateDigest(ctx context.Context, date string, kind models.DigestKind) (string, error) {
	if err := validation.ValidateDate(date); err != nil {
		return "", err
	}
	if err := validation.ValidateDigestKind(kind); err != nil {
		return "", err
	}

	var (
		text string
		err  error
	)
	switch kind {
	case models.DigestQuote:
		text, err = s.quoteOfTheDay(ctx)
	default:
		text, err = s.generate(ctx, date, kind)
	}
	if err != nil {
		return "", err
	}

	if err := s.store.SaveDigest(date, kind, text); err != nil {
		return "", fmt.Errorf("failed to cache %s digest: %w", kind, err)
	}
	logger.Info("Digest generated", "date", date, "kind", kind)
	return text, nil
}

func (s *Service) generate(ctx context.Context, date string, kind models.DigestKind) (string, error) {
	if s.gen == nil {
		return "", fmt.Errorf("%w: no text generator configured", llm.ErrUnavailable)
	}
	prompt, err := s.BuildDigest(ctx, date, kind)
	if err != nil {
		return "", err
	}
	ctx = llm.WithTemperature(ctx, digest.Temperature(kind))
	return s.gen.Generate(ctx, digest.SystemInstruction(kind), prompt)
}

func (s *Service) quoteOfTheDay(ctx context.Context) (string, error) {
	if s.quotes == nil {
		return "", fmt.Errorf("%w: no quote source configured", llm.ErrUnavailable)
	}
	q, err := s.quotes.Today(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %w", llm.ErrUnavailable, err)
	}
	return digest.BuildQuotePrompt(q), nil
}

// BuildDigest renders the user digest for kind without calling a generator.
func (s *Service) BuildDigest(ctx context.Context, date string, kind models.DigestKind) (string, error) {
	switch kind {
	case models.DigestCoach:
		habits, logs, err := s.day(ctx, date)
		if err != nil {
			return "", err
		}
		recent, err := s.engine.Series(ctx, date, constants.RecentSummaryDays)
		if err != nil {
			return "", err
		}
		w := s.lookupWeather(ctx)
		return digest.BuildCoach(digest.CoachInput{
			Date:    date,
			Habits:  habits,
			Logs:    logs,
			Weather: w,
			Routine: weather.RoutineRecommendation(w),
			Recent:  recent,
		}), nil
	case models.DigestInsight:
		month, err := s.lastDays(ctx, date, constants.InsightDays)
		if err != nil {
			return "", err
		}
		return digest.BuildInsight(month.Habits, month.Weekdays), nil
	default:
		if err := validation.ValidateDigestKind(kind); err != nil {
			return "", err
		}
		return "", fmt.Errorf("%s digests are not built from habit data", kind)
	}
}
