package eventbus

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, ch <-chan *Envelope, n int) []*Envelope {
	t.Helper()
	var out []*Envelope
	timeout := time.After(2 * time.Second)
	for len(out) < n {
		select {
		case ev := <-ch:
			out = append(out, ev)
		case <-timeout:
			t.Fatalf("получено %d событий из %d", len(out), n)
		}
	}
	return out
}

func TestMemoryBus_PublishSubscribeWithFilter(t *testing.T) {
	bus := NewMemoryBus(16)
	defer bus.Close()

	all := make(chan *Envelope, 8)
	placed := make(chan *Envelope, 8)
	ctx := context.Background()

	_, err := bus.Subscribe(ctx, Filter{}, func(_ context.Context, ev *Envelope) { all <- ev })
	require.NoError(t, err)
	_, err = bus.Subscribe(ctx, Filter{Types: []string{"placed"}}, func(_ context.Context, ev *Envelope) { placed <- ev })
	require.NoError(t, err)

	require.NoError(t, bus.Publish(ctx, &Envelope{ID: "1", EventType: "placed"}))
	require.NoError(t, bus.Publish(ctx, &Envelope{ID: "2", EventType: "broken"}))

	assert.Len(t, collect(t, all, 2), 2)
	got := collect(t, placed, 1)
	assert.Equal(t, "1", got[0].ID)

	select {
	case ev := <-placed:
		t.Fatalf("фильтр пропустил %s", ev.EventType)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestMemoryBus_UnsubscribeAndClose(t *testing.T) {
	bus := NewMemoryBus(4)
	ctx := context.Background()

	got := make(chan *Envelope, 4)
	sub, err := bus.Subscribe(ctx, Filter{}, func(_ context.Context, ev *Envelope) { got <- ev })
	require.NoError(t, err)
	sub.Unsubscribe()

	require.NoError(t, bus.Publish(ctx, &Envelope{ID: "x", EventType: "placed"}))
	require.NoError(t, bus.Close())
	assert.Empty(t, got, "после отписки события не приходят")

	assert.ErrorIs(t, bus.Publish(ctx, &Envelope{ID: "y"}), ErrClosed)
	assert.NoError(t, bus.Close(), "повторное закрытие безопасно")
	assert.Equal(t, uint64(1), bus.Metrics().Published)
}

func TestMatchFilter(t *testing.T) {
	ev := &Envelope{EventType: "placed", Source: "sandbox"}

	assert.True(t, matchFilter(ev, Filter{}))
	assert.True(t, matchFilter(ev, Filter{Types: []string{"broken", "placed"}}))
	assert.False(t, matchFilter(ev, Filter{Sources: []string{"other"}}))
}

type fakeStatsBus struct {
	EventBus
	stats Stats
}

func (f *fakeStatsBus) Metrics() Stats { return f.stats }

func TestMetricsExporter_Collect(t *testing.T) {
	reg := prometheus.NewRegistry()
	bus := &fakeStatsBus{stats: Stats{Published: 3, Consumed: 2, InFlight: 1}}
	me := NewMetricsExporter(bus, reg)

	me.Collect()
	bus.stats = Stats{Published: 5, Consumed: 5, Dropped: 1}
	me.Collect()

	assert.Equal(t, 5.0, testutil.ToFloat64(me.published))
	assert.Equal(t, 5.0, testutil.ToFloat64(me.consumed))
	assert.Equal(t, 1.0, testutil.ToFloat64(me.dropped))
	assert.Equal(t, 0.0, testutil.ToFloat64(me.inflight))
}
