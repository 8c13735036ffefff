package allergy

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"cloud.google.com/go/civil"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/yanqian/pollen-calendar/internal/domain/forecast"
	apperrors "github.com/yanqian/pollen-calendar/pkg/errors"
)

// Service exposes the personalized pollen calendar.
type Service interface {
	Plants(ctx context.Context) PlantsResponse
	Levels(ctx context.Context, userID int64) (LevelsResponse, error)
	UpdateLevels(ctx context.Context, userID int64, req UpdateLevelsRequest) (LevelsResponse, error)
	Calendar(ctx context.Context, userID int64, req CalendarRequest) (CalendarResponse, error)
	Week(ctx context.Context, userID int64, req WeekRequest) (WeekResponse, error)
	Upcoming(ctx context.Context, userID int64, req UpcomingRequest) (UpcomingResponse, error)
	Today(ctx context.Context, userID int64, req TodayRequest) (TodayResponse, error)
}

// Dependencies groups the collaborators of the service. Archive and Chat may be nil.
type Dependencies struct {
	Shifts    ShiftClient
	Intensity IntensityClient
	Levels    LevelRepository
	Store     ForecastStore
	Archive   Archive
	Chat      ChatClient
}

const defaultFetchTimeout = 45 * time.Second

type service struct {
	cfg     Config
	catalog *Catalog
	deps    Dependencies
	flight  singleflight.Group
	logger  *slog.Logger
	now     func() time.Time
}

// NewService wires up the allergy domain.
func NewService(cfg Config, catalog *Catalog, deps Dependencies, logger *slog.Logger) Service {
	if cfg.Timezone == nil {
		cfg.Timezone = time.UTC
	}
	if cfg.UpcomingLimit <= 0 {
		cfg.UpcomingLimit = 3
	}
	if cfg.FetchConcurrency <= 0 {
		cfg.FetchConcurrency = 4
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = defaultFetchTimeout
	}
	if cfg.Palette == nil {
		cfg.Palette = forecast.DefaultPalette()
	}
	return &service{
		cfg:     cfg,
		catalog: catalog,
		deps:    deps,
		logger:  logger.With("component", "allergy.service"),
		now:     time.Now,
	}
}

func (s *service) Plants(ctx context.Context) PlantsResponse {
	return PlantsResponse{Plants: s.catalog.Specs()}
}

func (s *service) Levels(ctx context.Context, userID int64) (LevelsResponse, error) {
	levels, err := s.levels(ctx, userID)
	if err != nil {
		return LevelsResponse{}, err
	}
	return LevelsResponse{Levels: levels}, nil
}

func (s *service) UpdateLevels(ctx context.Context, userID int64, req UpdateLevelsRequest) (LevelsResponse, error) {
	if userID == 0 {
		return LevelsResponse{}, apperrors.Wrap(apperrors.CodeUnauthorized, "sign in to save sensitivity levels", nil)
	}
	if len(req.Levels) == 0 {
		return LevelsResponse{}, apperrors.Wrap(apperrors.CodeInvalidInput, "levels cannot be empty", nil)
	}
	updates := make(forecast.Levels, len(req.Levels))
	for name, level := range req.Levels {
		plant := forecast.NormalizePlant(name)
		if !s.catalog.Has(plant) {
			return LevelsResponse{}, apperrors.Wrap(apperrors.CodeInvalidInput, fmt.Sprintf("unknown plant %q", name), nil)
		}
		updates[plant] = level
	}
	updates = forecast.ClampLevels(updates)

	stored, err := s.deps.Levels.Get(ctx, userID)
	if err != nil {
		return LevelsResponse{}, apperrors.Wrap(apperrors.CodeStorageError, "failed to load sensitivity levels", err)
	}
	merged := make(forecast.Levels, len(stored)+len(updates))
	for plant, level := range stored {
		merged[plant] = level
	}
	for plant, level := range updates {
		merged[plant] = level
	}
	if err := s.deps.Levels.Save(ctx, userID, merged); err != nil {
		return LevelsResponse{}, apperrors.Wrap(apperrors.CodeStorageError, "failed to save sensitivity levels", err)
	}
	s.logger.Info("sensitivity levels updated", "userId", userID, "plants", len(updates))
	return s.Levels(ctx, userID)
}

func (s *service) Calendar(ctx context.Context, userID int64, req CalendarRequest) (CalendarResponse, error) {
	sel := forecast.ParseSelection(req.Plant)
	if !sel.All() && !s.catalog.Has(forecast.Plant(sel)) {
		return CalendarResponse{}, apperrors.Wrap(apperrors.CodeInvalidInput, fmt.Sprintf("unknown plant %q", req.Plant), nil)
	}
	adjusted, _, err := s.adjusted(ctx, userID, req.Location)
	if err != nil {
		return CalendarResponse{}, err
	}
	return CalendarResponse{
		Selection:   sel,
		MarkedDates: forecast.Segments(adjusted, sel, s.cfg.Palette),
		Legend:      s.legend(),
	}, nil
}

func (s *service) Week(ctx context.Context, userID int64, req WeekRequest) (WeekResponse, error) {
	var ref civil.Date
	if strings.TrimSpace(req.Date) != "" {
		parsed, err := civil.ParseDate(strings.TrimSpace(req.Date))
		if err != nil {
			return WeekResponse{}, apperrors.Wrap(apperrors.CodeInvalidInput, "date must be formatted as YYYY-MM-DD", err)
		}
		ref = parsed
	}
	adjusted, today, err := s.adjusted(ctx, userID, req.Location)
	if err != nil {
		return WeekResponse{}, err
	}
	if !ref.IsValid() {
		ref = today
	}
	days := forecast.WeekOf(ref)
	week := forecast.AggregateWeek(adjusted, ref)
	return WeekResponse{
		Start:  days[0],
		End:    days[6],
		Plants: adjusted.Plants(),
		Days:   week,
		Peaks:  forecast.WeeklyPeaks(week),
	}, nil
}

func (s *service) Upcoming(ctx context.Context, userID int64, req UpcomingRequest) (UpcomingResponse, error) {
	if req.Limit < 0 {
		return UpcomingResponse{}, apperrors.Wrap(apperrors.CodeInvalidInput, "limit cannot be negative", nil)
	}
	limit := req.Limit
	if limit == 0 {
		limit = s.cfg.UpcomingLimit
	}
	adjusted, today, err := s.adjusted(ctx, userID, req.Location)
	if err != nil {
		return UpcomingResponse{}, err
	}
	return UpcomingResponse{Today: today, Items: forecast.Upcoming(adjusted, today, limit)}, nil
}

func (s *service) Today(ctx context.Context, userID int64, req TodayRequest) (TodayResponse, error) {
	adjusted, today, err := s.adjusted(ctx, userID, req.Location)
	if err != nil {
		return TodayResponse{}, err
	}
	summary := forecast.Today(adjusted, today)
	return TodayResponse{TodaySummary: summary, Advice: s.advise(ctx, summary)}, nil
}

func (s *service) legend() map[forecast.Bucket]LegendEntry {
	buckets := []forecast.Bucket{
		forecast.BucketVeryLow,
		forecast.BucketLow,
		forecast.BucketModerate,
		forecast.BucketHigh,
		forecast.BucketVeryHigh,
	}
	out := make(map[forecast.Bucket]LegendEntry, len(buckets))
	for _, b := range buckets {
		out[b] = LegendEntry{Label: b.Label(), Color: s.cfg.Palette.Color(b)}
	}
	return out
}

// levels merges stored levels over catalog defaults. Anonymous users get the defaults.
func (s *service) levels(ctx context.Context, userID int64) (forecast.Levels, error) {
	levels := s.catalog.DefaultLevels()
	if userID == 0 {
		return levels, nil
	}
	stored, err := s.deps.Levels.Get(ctx, userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeStorageError, "failed to load sensitivity levels", err)
	}
	for plant, level := range forecast.ClampLevels(stored) {
		if s.catalog.Has(plant) {
			levels[plant] = level
		}
	}
	return levels, nil
}

func (s *service) adjusted(ctx context.Context, userID int64, loc Location) (forecast.Forecast, civil.Date, error) {
	today := civil.DateOf(s.now().In(s.cfg.Timezone))
	raw, err := s.loadForecast(ctx, loc, today)
	if err != nil {
		return nil, today, err
	}
	levels, err := s.levels(ctx, userID)
	if err != nil {
		return nil, today, err
	}
	return forecast.Adjust(raw, levels), today, nil
}

func (s *service) seasonYear(today civil.Date) int {
	if s.cfg.SeasonYear > 0 {
		return s.cfg.SeasonYear
	}
	return today.Year
}

func (s *service) loadForecast(ctx context.Context, loc Location, today civil.Date) (forecast.Forecast, error) {
	year := s.seasonYear(today)
	key := loc.cacheKey(year, today)
	if raw, ok, err := s.deps.Store.Get(ctx, key); err != nil {
		s.logger.Warn("forecast cache lookup failed", "key", key, "error", err)
	} else if ok {
		s.logger.Debug("forecast cache hit", "key", key)
		return raw, nil
	}

	ch := s.flight.DoChan(key, func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.FetchTimeout)
		defer cancel()
		if raw, ok, err := s.deps.Store.Get(fetchCtx, key); err == nil && ok {
			s.logger.Debug("forecast cache filled while waiting", "key", key)
			return raw, nil
		}
		return s.fetchForecast(fetchCtx, key, loc, year)
	})
	select {
	case <-ctx.Done():
		return nil, apperrors.Wrap(apperrors.CodeForecastUnavailable, "forecast request cancelled", ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			s.logger.Debug("forecast fetch shared", "key", key)
		}
		return res.Val.(forecast.Forecast), nil
	}
}

func (s *service) fetchForecast(ctx context.Context, key string, loc Location, year int) (forecast.Forecast, error) {
	shift, err := s.deps.Shifts.Shift(ctx)
	if err != nil {
		s.logger.Warn("bloom shift unavailable, using nominal windows", "error", err)
		shift = forecast.Shift{}
	}
	shifts := make(map[forecast.Plant]forecast.Shift, len(s.cfg.CalibratedPlants))
	for _, plant := range s.cfg.CalibratedPlants {
		shifts[plant] = shift
	}
	windows, err := forecast.RequestWindows(s.catalog.Windows(), year, shifts)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to calibrate bloom windows", err)
	}

	var (
		mu  sync.Mutex
		raw = make(forecast.Forecast, len(windows))
		g   errgroup.Group
	)
	g.SetLimit(s.cfg.FetchConcurrency)
	for plant, window := range windows {
		plant, window := plant, window
		g.Go(func() error {
			table, err := s.deps.Intensity.Intensity(ctx, IntensityRequest{
				Plant:     plant,
				Window:    window,
				Latitude:  loc.Latitude,
				Longitude: loc.Longitude,
			})
			if err != nil {
				s.logger.Warn("intensity prediction failed", "plant", plant, "error", err)
				return nil
			}
			if err := forecast.ValidateRaw(forecast.Forecast{plant: table}); err != nil {
				s.logger.Warn("intensity prediction rejected", "plant", plant, "error", err)
				return nil
			}
			mu.Lock()
			raw[plant] = table
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeForecastUnavailable, "forecast fetch timed out", err)
	}
	if len(raw) == 0 {
		return nil, apperrors.Wrap(apperrors.CodeForecastUnavailable, "no plant predictions available", nil)
	}
	s.logger.Info("forecast fetched", "key", key, "plants", len(raw), "startShift", shift.StartDays, "endShift", shift.EndDays)

	if err := s.deps.Store.Set(ctx, key, raw, s.cfg.CacheTTL); err != nil {
		s.logger.Warn("forecast cache store failed", "key", key, "error", err)
	}
	if s.deps.Archive != nil {
		snap := Snapshot{Key: key, Location: loc, SeasonYear: year, FetchedAt: s.now().UTC(), Shift: shift, Raw: raw}
		if err := s.deps.Archive.Put(ctx, snap); err != nil {
			s.logger.Warn("forecast archive failed", "key", key, "error", err)
		}
	}
	return raw, nil
}
