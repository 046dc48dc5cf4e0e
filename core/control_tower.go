package core

import (
	"context"
	"fmt"
	"sync/atomic"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/Pouria-007/airport-digital-twin/internal/logging"
	"github.com/Pouria-007/airport-digital-twin/model"
)

// TickRecorder receives simulation counters from the control tower. The
// observability package provides a Prometheus-backed implementation; the
// default is a no-op.
type TickRecorder interface {
	IncFrame()
	IncRaycast(clear bool)
	IncSkippedEntity()
	IncTransition(antennaID string, from, to model.SignalState)
	ObserveServingDistance(antennaID string, distance float64)
	SetSignalState(antennaID string, state model.SignalState)
}

// NopRecorder drops all counters.
type NopRecorder struct{}

func (NopRecorder) IncFrame()                                                  {}
func (NopRecorder) IncRaycast(bool)                                            {}
func (NopRecorder) IncSkippedEntity()                                          {}
func (NopRecorder) IncTransition(string, model.SignalState, model.SignalState) {}
func (NopRecorder) ObserveServingDistance(string, float64)                     {}
func (NopRecorder) SetSignalState(string, model.SignalState)                   {}

// ControlTowerConfig wires the control tower's collaborators. Zero-value
// fields fall back to sensible defaults.
type ControlTowerConfig struct {
	Scene     SceneProvider
	Presenter Presenter
	Log       logging.Logger
	Recorder  TickRecorder

	// TowerRoot / AntennaRoot are the scene paths discovery enumerates.
	TowerRoot   string
	AntennaRoot string

	// Volumes are the policy volumes evaluated against every antenna.
	Volumes []model.Volume
}

// ControlTower runs the per-frame evaluation for every antenna: serving
// tower selection, policy state derivation, state write-back, dashboard
// rows, and draw requests. It must be activated before ticking.
//
// Each tick issues one occlusion query per (antenna, tower) pair. The
// queries are synchronous and their latency is not bounded here: a slow
// tester stalls the tick. Disabling the tower only stops future ticks,
// never an in-flight one.
type ControlTower struct {
	scene     SceneProvider
	presenter Presenter
	log       logging.Logger
	recorder  TickRecorder
	tracer    trace.Tracer

	towerRoot   string
	antennaRoot string
	volumes     []model.Volume

	resolver ConnectivityResolver
	policy   *PolicyStateEngine

	// Populated by Activate, immutable for the session afterwards.
	occlusion   OcclusionTester
	alwaysClear bool
	towers      []model.Tower
	towersByID  map[string]model.Tower
	antennas    []model.Antenna

	enabled atomic.Bool
	frame   atomic.Int64
}

func NewControlTower(cfg ControlTowerConfig) *ControlTower {
	if cfg.Presenter == nil {
		cfg.Presenter = NopPresenter{}
	}
	if cfg.Log == nil {
		cfg.Log = logging.Noop()
	}
	if cfg.Recorder == nil {
		cfg.Recorder = NopRecorder{}
	}
	if cfg.TowerRoot == "" {
		cfg.TowerRoot = DefaultTowerRoot
	}
	if cfg.AntennaRoot == "" {
		cfg.AntennaRoot = DefaultAntennaRoot
	}

	ct := &ControlTower{
		scene:       cfg.Scene,
		presenter:   cfg.Presenter,
		log:         cfg.Log,
		recorder:    cfg.Recorder,
		tracer:      otel.Tracer("airport-digital-twin/core"),
		towerRoot:   cfg.TowerRoot,
		antennaRoot: cfg.AntennaRoot,
		volumes:     append([]model.Volume(nil), cfg.Volumes...),
		policy:      NewPolicyStateEngine(),
	}

	ct.policy.Subscribe(func(ev Transition) {
		ct.recorder.IncTransition(ev.AntennaID, ev.From, ev.To)
		ct.log.Info(context.Background(), "antenna state change",
			logging.String("antenna", ev.AntennaID),
			logging.String("from", string(ev.From)),
			logging.String("to", string(ev.To)),
		)
	})

	return ct
}

// Activate performs the two-phase setup: it acquires the occlusion tester
// once (falling back to the documented always-clear mode when tester is
// nil, with no per-query retry) and discovers the tower and antenna sets
// from the scene. Discovering no towers or no antennas at all is a setup
// failure; individual entities that cannot be read are skipped with a
// warning.
func (ct *ControlTower) Activate(ctx context.Context, tester OcclusionTester) error {
	if ct.scene == nil {
		return fmt.Errorf("%w: control tower has no scene provider", ErrInvalidConfiguration)
	}

	ct.occlusion = tester
	ct.alwaysClear = false
	if tester == nil {
		ct.occlusion = AlwaysClear{}
		ct.alwaysClear = true
		ct.log.Warn(ctx, "occlusion tester unavailable; treating all paths as clear")
	}

	towers, err := ct.discoverTowers(ctx)
	if err != nil {
		return err
	}
	ct.towers = towers
	ct.towersByID = make(map[string]model.Tower, len(towers))
	for _, tw := range towers {
		ct.towersByID[tw.ID] = tw
	}

	antennas, err := ct.discoverAntennas(ctx)
	if err != nil {
		return err
	}
	ct.antennas = antennas

	ct.enabled.Store(true)
	ct.log.Info(ctx, "control tower activated",
		logging.Int("towers", len(ct.towers)),
		logging.Int("antennas", len(ct.antennas)),
		logging.Any("always_clear", ct.alwaysClear),
	)
	return nil
}

// discoverTowers enumerates the tower set once. The ascending order
// returned by EnumerateChildren is what makes the resolver's blocked-tower
// fallback reproducible.
func (ct *ControlTower) discoverTowers(ctx context.Context) ([]model.Tower, error) {
	ids := ct.scene.EnumerateChildren(ct.towerRoot, TowerNamePattern)
	towers := make([]model.Tower, 0, len(ids))
	for _, id := range ids {
		pos, err := ct.scene.GetPosition(id)
		if err != nil {
			ct.log.Warn(ctx, "skipping tower", logging.String("tower", id), logging.String("error", err.Error()))
			continue
		}
		towers = append(towers, model.Tower{ID: id, Position: pos})
	}
	if len(towers) == 0 {
		return nil, fmt.Errorf("%w: no towers discovered under %q", ErrInvalidConfiguration, ct.towerRoot)
	}
	return towers, nil
}

// discoverAntennas reads each antenna's static descriptive attributes.
// Missing attributes default (unlocked, untyped) rather than dropping the
// antenna, matching how the reference dashboard displayed them.
func (ct *ControlTower) discoverAntennas(ctx context.Context) ([]model.Antenna, error) {
	ids := ct.scene.EnumerateChildren(ct.antennaRoot, AntennaNamePattern)
	antennas := make([]model.Antenna, 0, len(ids))
	for _, id := range ids {
		ant := model.Antenna{ID: id, Type: "UNKNOWN", FrequencyBand: "N/A"}

		if v, err := ct.scene.GetBoolAttribute(id, "policy_locked"); err == nil {
			ant.PolicyLocked = v
		}
		if v, err := ct.scene.GetBoolAttribute(id, "requires_los"); err == nil {
			ant.RequiresLOS = v
		}
		if v, err := ct.scene.GetStringAttribute(id, "antenna_type"); err == nil {
			ant.Type = v
		}
		if v, err := ct.scene.GetStringAttribute(id, "frequency_band"); err == nil {
			ant.FrequencyBand = v
		}
		antennas = append(antennas, ant)
	}
	if len(antennas) == 0 {
		return nil, fmt.Errorf("%w: no antennas discovered under %q", ErrInvalidConfiguration, ct.antennaRoot)
	}
	return antennas, nil
}

// SetEnabled toggles future tick scheduling. It never aborts an in-flight
// evaluation.
func (ct *ControlTower) SetEnabled(enabled bool) { ct.enabled.Store(enabled) }

// Enabled reports whether ticks currently run.
func (ct *ControlTower) Enabled() bool { return ct.enabled.Load() }

// AlwaysClearMode reports whether Activate fell back to the always-clear
// occlusion policy.
func (ct *ControlTower) AlwaysClearMode() bool { return ct.alwaysClear }

// Towers returns the tower set discovered at activation.
func (ct *ControlTower) Towers() []model.Tower {
	return append([]model.Tower(nil), ct.towers...)
}

// Tick evaluates every antenna once: serving tower, policy state, state
// write-back, draw request and dashboard row. Per-entity failures are
// isolated — a bad entity is skipped with a warning and the rest of the
// batch continues.
func (ct *ControlTower) Tick(ctx context.Context) {
	if !ct.enabled.Load() {
		return
	}
	frame := ct.frame.Add(1)

	ctx, span := ct.tracer.Start(ctx, "controltower.tick",
		trace.WithAttributes(attribute.Int64("sim.frame", frame)))
	defer span.End()

	ct.recorder.IncFrame()

	rows := make([]DashboardRow, 0, len(ct.antennas))
	for _, ant := range ct.antennas {
		pos, err := ct.scene.GetPosition(ant.ID)
		if err != nil {
			ct.recorder.IncSkippedEntity()
			ct.log.Warn(ctx, "skipping antenna this tick",
				logging.String("antenna", ant.ID),
				logging.String("error", err.Error()),
			)
			continue
		}

		link := ct.resolver.Resolve(pos, ct.towers, ct.occlusion)
		policy := ct.policy.Evaluate(ant, pos, ct.volumes)

		if err := ct.scene.SetStringAttribute(ant.ID, SignalStateAttr, string(policy.State)); err != nil {
			ct.recorder.IncSkippedEntity()
			ct.log.Warn(ctx, "state write-back failed",
				logging.String("antenna", ant.ID),
				logging.String("error", err.Error()),
			)
		}

		ct.recorder.SetSignalState(ant.ID, policy.State)
		if link.TowerID != "" {
			ct.recorder.IncRaycast(!link.Occluded)
			ct.recorder.ObserveServingDistance(ant.ID, link.Distance)
		}
		ct.drawLink(pos, link)

		rows = append(rows, DashboardRow{
			Antenna:       ant.ID,
			State:         policy.State,
			Type:          ant.Type,
			FrequencyBand: ant.FrequencyBand,
			RequiresLOS:   ant.RequiresLOS,
			PolicyLocked:  ant.PolicyLocked,
			Zone:          policy.Zone,
			Position:      pos,
		})
	}

	ct.presenter.UpdateDashboard(rows)
}

// drawLink turns a link state into one draw request: colour from distance,
// width from the visual weight curve, both overridden when the link is
// occluded.
func (ct *ControlTower) drawLink(antennaPos r3.Vec, link model.LinkState) {
	if link.TowerID == "" {
		return
	}
	tower, ok := ct.towersByID[link.TowerID]
	if !ok {
		return
	}

	color := ColorFromDistance(link.Distance)
	width := VisualWeight(link.Distance)
	if link.Occluded {
		color = ColorBlocked
		width = RayWidthMin
	}
	ct.presenter.DrawSegment(tower.Position, antennaPos, color, width, width)
}
