package core

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/Pouria-007/airport-digital-twin/internal/logging"
	"github.com/Pouria-007/airport-digital-twin/model"
)

// Color is a packed 0xAARRGGBB draw colour, matching the debug-draw wire
// format of the stage tooling.
type Color uint32

const (
	ColorGreen   Color = 0xFF00FF00
	ColorYellow  Color = 0xFFFFFF00
	ColorRed     Color = 0xFFFF0000
	ColorBlocked Color = 0xFFAA0000
)

// ColorFromDistance maps an unobstructed link distance to its draw colour:
// green within DistanceNear, yellow within DistanceMed, red beyond.
func ColorFromDistance(distance float64) Color {
	switch {
	case distance <= DistanceNear:
		return ColorGreen
	case distance <= DistanceMed:
		return ColorYellow
	default:
		return ColorRed
	}
}

// DashboardRow is the per-antenna line shown on the operations dashboard.
type DashboardRow struct {
	Antenna       string
	State         model.SignalState
	Type          string
	FrequencyBand string
	RequiresLOS   bool
	PolicyLocked  bool
	Zone          string
	Position      r3.Vec
}

// Presenter receives the per-tick draw requests and dashboard rows. It is a
// thin outbound surface; implementations must not call back into the
// engines.
type Presenter interface {
	DrawSegment(from, to r3.Vec, color Color, widthFrom, widthTo float64)
	UpdateDashboard(rows []DashboardRow)
}

// NopPresenter discards all output.
type NopPresenter struct{}

func (NopPresenter) DrawSegment(from, to r3.Vec, color Color, widthFrom, widthTo float64) {}
func (NopPresenter) UpdateDashboard(rows []DashboardRow)                                  {}

// LogPresenter writes draw requests and dashboard rows to the structured
// log. Segments log at debug level (one line per antenna per tick is
// noisy); dashboard rows log at info level only when something changed.
type LogPresenter struct {
	Log logging.Logger

	lastRows string
}

func NewLogPresenter(log logging.Logger) *LogPresenter {
	if log == nil {
		log = logging.Noop()
	}
	return &LogPresenter{Log: log}
}

func (p *LogPresenter) DrawSegment(from, to r3.Vec, color Color, widthFrom, widthTo float64) {
	p.Log.Debug(context.Background(), "draw segment",
		logging.String("from", fmt.Sprintf("(%.0f, %.0f, %.0f)", from.X, from.Y, from.Z)),
		logging.String("to", fmt.Sprintf("(%.0f, %.0f, %.0f)", to.X, to.Y, to.Z)),
		logging.String("color", fmt.Sprintf("#%08X", uint32(color))),
		logging.Any("width", widthFrom),
	)
}

func (p *LogPresenter) UpdateDashboard(rows []DashboardRow) {
	summary := ""
	for _, r := range rows {
		summary += fmt.Sprintf("%s=%s/%s ", r.Antenna, r.State, r.Zone)
	}
	if summary == p.lastRows {
		return
	}
	p.lastRows = summary

	ctx := context.Background()
	for _, r := range rows {
		p.Log.Info(ctx, "dashboard row",
			logging.String("antenna", r.Antenna),
			logging.String("state", string(r.State)),
			logging.String("zone", r.Zone),
			logging.String("freq", r.FrequencyBand),
			logging.Any("locked", r.PolicyLocked),
			logging.String("pos", fmt.Sprintf("(%.0f, %.0f, %.0f)", r.Position.X, r.Position.Y, r.Position.Z)),
		)
	}
}
