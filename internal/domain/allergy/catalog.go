package allergy

import (
	"errors"
	"fmt"

	"github.com/yanqian/pollen-calendar/internal/domain/forecast"
)

// PlantSpec describes one tracked plant.
type PlantSpec struct {
	Plant        forecast.Plant       `json:"plant"`
	Name         string               `json:"name"`
	Window       forecast.BloomWindow `json:"window"`
	DefaultLevel int                  `json:"defaultLevel"`
}

// Catalog is the fixed set of plants the service predicts for, in configuration order.
type Catalog struct {
	specs []PlantSpec
	index map[forecast.Plant]int
}

// NewCatalog validates the plant specs. Year-less windows must resolve in every year, so 29/02 is
// rejected, and default levels must lie in [0,5].
func NewCatalog(specs []PlantSpec) (*Catalog, error) {
	if len(specs) == 0 {
		return nil, errors.New("plant catalog is empty")
	}
	c := &Catalog{
		specs: make([]PlantSpec, 0, len(specs)),
		index: make(map[forecast.Plant]int, len(specs)),
	}
	for _, spec := range specs {
		spec.Plant = forecast.NormalizePlant(string(spec.Plant))
		if spec.Plant == "" {
			return nil, errors.New("plant name cannot be empty")
		}
		if _, dup := c.index[spec.Plant]; dup {
			return nil, fmt.Errorf("plant %s listed twice", spec.Plant)
		}
		if spec.DefaultLevel < forecast.MinIntensity || spec.DefaultLevel > forecast.MaxIntensity {
			return nil, fmt.Errorf("plant %s default level %d outside [0,5]", spec.Plant, spec.DefaultLevel)
		}
		if _, err := spec.Window.Resolve(2025); err != nil {
			return nil, fmt.Errorf("plant %s window: %w", spec.Plant, err)
		}
		if spec.Name == "" {
			spec.Name = string(spec.Plant)
		}
		c.index[spec.Plant] = len(c.specs)
		c.specs = append(c.specs, spec)
	}
	return c, nil
}

// Specs returns a copy of the catalog entries.
func (c *Catalog) Specs() []PlantSpec {
	out := make([]PlantSpec, len(c.specs))
	copy(out, c.specs)
	return out
}

// Has reports whether plant is tracked.
func (c *Catalog) Has(plant forecast.Plant) bool {
	_, ok := c.index[plant]
	return ok
}

// DefaultLevels is the sensitivity map applied to anonymous users and missing entries.
func (c *Catalog) DefaultLevels() forecast.Levels {
	levels := make(forecast.Levels, len(c.specs))
	for _, spec := range c.specs {
		levels[spec.Plant] = spec.DefaultLevel
	}
	return levels
}

// Windows returns the nominal bloom window per plant.
func (c *Catalog) Windows() map[forecast.Plant]forecast.BloomWindow {
	windows := make(map[forecast.Plant]forecast.BloomWindow, len(c.specs))
	for _, spec := range c.specs {
		windows[spec.Plant] = spec.Window
	}
	return windows
}
