package allergy

import (
	"fmt"
	"math"
	"time"

	"cloud.google.com/go/civil"

	"github.com/yanqian/pollen-calendar/internal/domain/forecast"
	"github.com/yanqian/pollen-calendar/pkg/metrics"
)

// Location is where the forecast is requested for.
type Location struct {
	Latitude  float64 `json:"latitude" binding:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" binding:"gte=-180,lte=180"`
	City      string  `json:"city" binding:"max=120"`
}

// cacheKey rounds coordinates to two decimals (about one kilometre) so nearby requests share a
// forecast.
func (l Location) cacheKey(seasonYear int, today civil.Date) string {
	return fmt.Sprintf("%.2f:%.2f:%d:%s", round2(l.Latitude), round2(l.Longitude), seasonYear, today)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// CalendarRequest selects the plant to render; empty or "All" merges every plant.
type CalendarRequest struct {
	Location Location `json:"location"`
	Plant    string   `json:"plant"`
}

// CalendarResponse carries the marked days keyed by YYYY-MM-DD.
type CalendarResponse struct {
	Selection   forecast.Selection              `json:"selection"`
	MarkedDates map[civil.Date]forecast.Segment `json:"markedDates"`
	Legend      map[forecast.Bucket]LegendEntry `json:"legend"`
}

// LegendEntry renders one bucket in the calendar legend.
type LegendEntry struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

// WeekRequest asks for the week containing Date (YYYY-MM-DD); empty means today.
type WeekRequest struct {
	Location Location `json:"location"`
	Date     string   `json:"date"`
}

// WeekResponse holds one value per plant for each day, in Plants order, and the daily peaks.
type WeekResponse struct {
	Start  civil.Date           `json:"start"`
	End    civil.Date           `json:"end"`
	Plants []forecast.Plant     `json:"plants"`
	Days   map[civil.Date][]int `json:"days"`
	Peaks  []forecast.DayPeak   `json:"peaks"`
}

// UpcomingRequest limits how many season starts are returned; 0 uses the configured default.
type UpcomingRequest struct {
	Location Location `json:"location"`
	Limit    int      `json:"limit" binding:"gte=0,lte=20"`
}

// UpcomingResponse lists the nearest season starts.
type UpcomingResponse struct {
	Today civil.Date               `json:"today"`
	Items []forecast.UpcomingBloom `json:"items"`
}

// TodayRequest asks what is in the air today.
type TodayRequest struct {
	Location Location `json:"location"`
}

// TodayResponse combines the blooming list with advice for the strongest bucket.
type TodayResponse struct {
	forecast.TodaySummary
	Advice Advice `json:"advice"`
}

// Advice is shown next to the current maximum bucket.
type Advice struct {
	Summary  string   `json:"summary"`
	Symptoms string   `json:"symptoms"`
	Tips     []string `json:"tips"`
	Source   string   `json:"source"`
	// Usage is set for LLM generated advice.
	Usage *metrics.TokenUsage `json:"usage,omitempty"`
}

// LevelsResponse is the merged sensitivity view for a user.
type LevelsResponse struct {
	Levels forecast.Levels `json:"levels"`
}

// UpdateLevelsRequest replaces the given plants' levels; other plants keep their stored value.
type UpdateLevelsRequest struct {
	Levels map[string]int `json:"levels" binding:"required"`
}

// PlantsResponse lists the catalog.
type PlantsResponse struct {
	Plants []PlantSpec `json:"plants"`
}

// Snapshot is an archived raw forecast together with the inputs that produced it.
type Snapshot struct {
	Key        string            `json:"key"`
	Location   Location          `json:"location"`
	SeasonYear int               `json:"seasonYear"`
	FetchedAt  time.Time         `json:"fetchedAt"`
	Shift      forecast.Shift    `json:"shift"`
	Raw        forecast.Forecast `json:"raw"`
}

// Config wires runtime behaviour of the allergy service.
type Config struct {
	Timezone         *time.Location
	SeasonYear       int
	UpcomingLimit    int
	CacheTTL         time.Duration
	FetchConcurrency int
	// FetchTimeout bounds a shared upstream fetch, which outlives the caller that started it.
	FetchTimeout     time.Duration
	CalibratedPlants []forecast.Plant
	Palette          forecast.Palette
	Advice           AdviceConfig
}

// AdviceConfig drives the optional LLM advice.
type AdviceConfig struct {
	Model       string
	Temperature float32
	Prompt      string
}
