package metrics

import (
	"github.com/annel0/shopcraft/internal/world"
	"github.com/prometheus/client_golang/prometheus"
)

// Collector переводит события движка в метрики Prometheus.
// Реализует world.EventSink и вызывается из кадрового цикла.
//
// Метрики:
// * shopcraft_placements_total{kind,type} — counter (без авто-пола)
// * shopcraft_breaks_total{kind,type} — counter
// * shopcraft_rejections_total{op,reason} — counter
// * shopcraft_door_transitions_total{phase} — counter
// * shopcraft_placements_live — gauge (включая авто-пол)
// * shopcraft_parcel_area_cells — gauge
type Collector struct {
	placements  *prometheus.CounterVec
	breaks      *prometheus.CounterVec
	rejections  *prometheus.CounterVec
	transitions *prometheus.CounterVec
	live        prometheus.Gauge
	parcelArea  prometheus.Gauge

	lastPhase map[world.PlacementID]world.DoorPhase
}

// NewCollector создаёт метрики и регистрирует их в reg
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		placements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shopcraft",
			Name:      "placements_total",
			Help:      "Размещения, сделанные игроком.",
		}, []string{"kind", "type"}),
		breaks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shopcraft",
			Name:      "breaks_total",
			Help:      "Удалённые размещения.",
		}, []string{"kind", "type"}),
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shopcraft",
			Name:      "rejections_total",
			Help:      "Отклонённые операции по причинам.",
		}, []string{"op", "reason"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shopcraft",
			Name:      "door_transitions_total",
			Help:      "Смены фазы автоматических дверей.",
		}, []string{"phase"}),
		live: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "shopcraft",
			Name:      "placements_live",
			Help:      "Текущее число размещений, включая авто-пол.",
		}),
		parcelArea: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "shopcraft",
			Name:      "parcel_area_cells",
			Help:      "Площадь участка в клетках.",
		}),
		lastPhase: make(map[world.PlacementID]world.DoorPhase),
	}

	reg.MustRegister(c.placements, c.breaks, c.rejections, c.transitions, c.live, c.parcelArea)
	return c
}

// SetParcel выставляет площадь участка до первого расширения
func (c *Collector) SetParcel(p world.Parcel) {
	c.parcelArea.Set(float64(p.Width() * p.Depth()))
}

// Emit реализует world.EventSink
func (c *Collector) Emit(ev world.Event) {
	switch e := ev.(type) {
	case world.PlacedEvent:
		c.live.Inc()
		if !e.AutoFloor {
			c.placements.WithLabelValues(e.Kind.String(), e.TypeID).Inc()
		}
	case world.BrokenEvent:
		c.live.Dec()
		c.breaks.WithLabelValues(e.Kind.String(), e.TypeID).Inc()
		delete(c.lastPhase, e.ID)
	case world.RejectedEvent:
		c.rejections.WithLabelValues(e.Op, e.Reason).Inc()
	case world.DoorPhaseEvent:
		// Событие приходит и при смене проходимости без смены фазы
		prev, seen := c.lastPhase[e.ID]
		if !seen {
			prev = world.DoorClosed
		}
		if prev != e.Phase {
			c.transitions.WithLabelValues(e.Phase.String()).Inc()
		}
		c.lastPhase[e.ID] = e.Phase
	case world.ParcelExpandedEvent:
		c.SetParcel(e.Parcel)
	case world.LayoutImportedEvent:
		// Прежние размещения исчезли без BrokenEvent, двери начинают закрытыми
		c.live.Set(float64(e.Live))
		c.lastPhase = make(map[world.PlacementID]world.DoorPhase)
		c.SetParcel(e.Parcel)
	}
}
