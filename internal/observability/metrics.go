package observability

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Pouria-007/airport-digital-twin/model"
)

// TowerCollector bundles the Prometheus metrics emitted by the simulation
// loop. It satisfies the control tower's TickRecorder interface so the core
// package never depends on Prometheus directly.
type TowerCollector struct {
	gatherer prometheus.Gatherer

	Frames      prometheus.Counter
	Raycasts    *prometheus.CounterVec
	Transitions *prometheus.CounterVec
	Skipped     prometheus.Counter

	ServingDistance *prometheus.GaugeVec
	SignalStates    *prometheus.GaugeVec
}

// NewTowerCollector registers the simulation metrics against the provided
// registerer, defaulting to the global Prometheus registry when nil.
func NewTowerCollector(reg prometheus.Registerer) (*TowerCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	frames, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sim_frames_total",
		Help: "Total number of simulation frames evaluated.",
	}), "sim_frames_total")
	if err != nil {
		return nil, err
	}

	raycasts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "rf_raycasts_total",
		Help: "Line-of-sight checks for the selected serving tower, labeled by result.",
	}, []string{"result"})
	raycasts, err = registerCounterVec(reg, raycasts, "rf_raycasts_total")
	if err != nil {
		return nil, err
	}

	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "antenna_state_transitions_total",
		Help: "Antenna signal state transitions, labeled by antenna and the states involved.",
	}, []string{"antenna", "from", "to"})
	transitions, err = registerCounterVec(reg, transitions, "antenna_state_transitions_total")
	if err != nil {
		return nil, err
	}

	skipped, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "scene_entities_skipped_total",
		Help: "Entities skipped during a tick because a scene read or write failed.",
	}), "scene_entities_skipped_total")
	if err != nil {
		return nil, err
	}

	serving := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "antenna_serving_distance",
		Help: "Distance from each antenna to its selected serving tower, in scene units.",
	}, []string{"antenna"})
	serving, err = registerGaugeVec(reg, serving, "antenna_serving_distance")
	if err != nil {
		return nil, err
	}

	states := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "antenna_signal_state",
		Help: "Current signal state per antenna: 2=ON, 1=DEGRADED, 0=OFF.",
	}, []string{"antenna"})
	states, err = registerGaugeVec(reg, states, "antenna_signal_state")
	if err != nil {
		return nil, err
	}

	return &TowerCollector{
		gatherer:        gatherer,
		Frames:          frames,
		Raycasts:        raycasts,
		Transitions:     transitions,
		Skipped:         skipped,
		ServingDistance: serving,
		SignalStates:    states,
	}, nil
}

// Handler exposes a ready-to-use /metrics handler.
func (c *TowerCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// IncFrame counts one evaluated frame.
func (c *TowerCollector) IncFrame() {
	if c == nil || c.Frames == nil {
		return
	}
	c.Frames.Inc()
}

// IncRaycast counts one line-of-sight check against the serving tower.
func (c *TowerCollector) IncRaycast(clear bool) {
	if c == nil || c.Raycasts == nil {
		return
	}
	result := "blocked"
	if clear {
		result = "clear"
	}
	c.Raycasts.WithLabelValues(result).Inc()
}

// IncSkippedEntity counts one entity dropped from a tick.
func (c *TowerCollector) IncSkippedEntity() {
	if c == nil || c.Skipped == nil {
		return
	}
	c.Skipped.Inc()
}

// IncTransition counts one antenna state change.
func (c *TowerCollector) IncTransition(antennaID string, from, to model.SignalState) {
	if c == nil || c.Transitions == nil {
		return
	}
	c.Transitions.WithLabelValues(antennaID, string(from), string(to)).Inc()
}

// ObserveServingDistance records the antenna's current serving distance.
func (c *TowerCollector) ObserveServingDistance(antennaID string, distance float64) {
	if c == nil || c.ServingDistance == nil {
		return
	}
	c.ServingDistance.WithLabelValues(antennaID).Set(distance)
}

// SetSignalState records the antenna's current signal state as a gauge.
func (c *TowerCollector) SetSignalState(antennaID string, state model.SignalState) {
	if c == nil || c.SignalStates == nil {
		return
	}
	c.SignalStates.WithLabelValues(antennaID).Set(stateValue(state))
}

func stateValue(state model.SignalState) float64 {
	switch state {
	case model.SignalOn:
		return 2
	case model.SignalDegraded:
		return 1
	default:
		return 0
	}
}

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return counter, nil
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerGaugeVec(reg prometheus.Registerer, vec *prometheus.GaugeVec, name string) (*prometheus.GaugeVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.GaugeVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}
