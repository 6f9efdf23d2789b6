package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/annel0/shopcraft/internal/logging"
	"github.com/annel0/shopcraft/internal/vec"
	"github.com/annel0/shopcraft/internal/world"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(t *testing.T) (*world.Engine, *Collector, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	e := world.NewEngine(world.Options{Sink: c, Logger: logging.Discard()})
	c.SetParcel(e.Parcel())
	return e, c, reg
}

func TestCollector_PlacementsAndBreaks(t *testing.T) {
	e, c, _ := newEngine(t)

	id, err := e.TryPlaceBlock("wall", vec.Vec3{X: 0, Y: 0, Z: 0}, 0)
	require.NoError(t, err)
	// Окно подкладывает авто-пол
	_, err = e.TryPlaceBlock("window", vec.Vec3{X: 1, Y: 0, Z: 0}, 0)
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.placements.WithLabelValues("block", "wall")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.placements.WithLabelValues("block", "window")))
	assert.Equal(t, 0.0, testutil.ToFloat64(c.placements.WithLabelValues("block", "floor")), "авто-пол не считается")
	assert.Equal(t, float64(e.Len()), testutil.ToFloat64(c.live))

	require.True(t, e.Break(id))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.breaks.WithLabelValues("block", "wall")))
	assert.Equal(t, float64(e.Len()), testutil.ToFloat64(c.live))
}

func TestCollector_Rejections(t *testing.T) {
	e, c, _ := newEngine(t)

	assert.False(t, e.PlaceBlock("wall", vec.Vec3{X: 99, Y: 0, Z: 0}, 0))
	assert.False(t, e.PlaceBlock("wall", vec.Vec3{X: 0, Y: 5, Z: 0}, 0))
	assert.False(t, e.Break(12345))

	assert.Equal(t, 1.0, testutil.ToFloat64(c.rejections.WithLabelValues("place", "out_of_parcel")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.rejections.WithLabelValues("place", "unsupported")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.rejections.WithLabelValues("break", "unknown_ref")))
}

func TestCollector_DoorTransitions(t *testing.T) {
	e, c, _ := newEngine(t)

	_, err := e.TryPlaceBlock("door", vec.Vec3{X: 0, Y: 0, Z: 0}, 0)
	require.NoError(t, err)

	near := []vec.Vec3Float{{X: 0.5, Y: 1.7, Z: 0.5}}
	for i := 0; i < 20; i++ {
		e.Tick(near, 0.1)
	}
	assert.Equal(t, 1.0, testutil.ToFloat64(c.transitions.WithLabelValues("open")))

	for i := 0; i < 20; i++ {
		e.Tick(nil, 0.1)
	}
	assert.Equal(t, 1.0, testutil.ToFloat64(c.transitions.WithLabelValues("closed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.transitions.WithLabelValues("open")), "смена проходимости не считается переходом")
}

func TestCollector_ParcelArea(t *testing.T) {
	e, c, _ := newEngine(t)
	assert.Equal(t, 441.0, testutil.ToFloat64(c.parcelArea))

	e.ExpandParcel(2, 2)
	assert.Equal(t, 625.0, testutil.ToFloat64(c.parcelArea))
}

func TestHandler_ExposesMetrics(t *testing.T) {
	e, _, reg := newEngine(t)
	require.True(t, e.PlaceBlock("wall", vec.Vec3{X: 0, Y: 0, Z: 0}, 0))

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	assert.Equal(t, 200, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `shopcraft_placements_total{kind="block",type="wall"} 1`), body)
	assert.Contains(t, body, "shopcraft_parcel_area_cells 441")
}

func TestCollector_LayoutImportResetsLiveGauge(t *testing.T) {
	src := world.NewEngine(world.Options{Logger: logging.Discard()})
	require.True(t, src.PlaceBlock("wall", vec.Vec3{X: 0, Y: 0, Z: 0}, 0))
	require.True(t, src.PlaceBlock("wall", vec.Vec3{X: 1, Y: 0, Z: 0}, 0))
	layout := src.Export()

	e, c, _ := newEngine(t)
	require.True(t, e.PlaceBlock("slab", vec.Vec3{X: 5, Y: 0, Z: 5}, 0))
	require.NoError(t, e.Import(layout))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.live), "датчик равен числу загруженных размещений")

	require.True(t, e.BreakAt(vec.Vec3{X: 0, Y: 0, Z: 0}))
	require.True(t, e.BreakAt(vec.Vec3{X: 1, Y: 0, Z: 0}))
	assert.Equal(t, float64(e.Len()), testutil.ToFloat64(c.live))
	assert.Equal(t, 0.0, testutil.ToFloat64(c.live), "датчик не уходит в минус")
}

func TestCollector_LayoutImportForgetsDoorPhases(t *testing.T) {
	e, c, _ := newEngine(t)
	_, err := e.TryPlaceBlock("door", vec.Vec3{X: 0, Y: 0, Z: 0}, 0)
	require.NoError(t, err)

	near := []vec.Vec3Float{{X: 0.5, Y: 1.7, Z: 0.5}}
	e.Tick(near, 0.1)
	require.Equal(t, 1.0, testutil.ToFloat64(c.transitions.WithLabelValues("open")))

	// После импорта та же дверь снова закрыта и открывается заново
	require.NoError(t, e.Import(e.Export()))
	e.Tick(near, 0.1)
	assert.Equal(t, 2.0, testutil.ToFloat64(c.transitions.WithLabelValues("open")))
	assert.Equal(t, 0.0, testutil.ToFloat64(c.transitions.WithLabelValues("closed")), "импорт не считается закрытием")
}
