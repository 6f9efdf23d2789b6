package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/annel0/shopcraft/internal/logging"
	"github.com/annel0/shopcraft/internal/world"
	"github.com/google/uuid"
)

// PayloadVersion — версия JSON-схемы событий мира
const PayloadVersion = 1

// WorldSink переводит события движка в Envelope и публикует их в шину.
// Emit не блокирует кадровый цикл: события копятся в буфере и
// отправляются отдельной горутиной; при переполнении отбрасываются.
type WorldSink struct {
	bus     EventBus
	source  string
	timeout time.Duration
	logger  *logging.Logger

	queue chan *Envelope
	done  chan struct{}

	mu      sync.RWMutex
	closed  bool
	dropped uint64
}

// NewWorldSink создает мост; source попадает в Envelope.Source
func NewWorldSink(bus EventBus, source string, buffer int, logger *logging.Logger) *WorldSink {
	if buffer <= 0 {
		buffer = 256
	}
	return &WorldSink{
		bus:     bus,
		source:  source,
		timeout: 2 * time.Second,
		logger:  logger,
		queue:   make(chan *Envelope, buffer),
		done:    make(chan struct{}),
	}
}

// Start запускает отправку. ctx ограничивает каждую публикацию.
func (s *WorldSink) Start(ctx context.Context) {
	go s.run(ctx)
}

func (s *WorldSink) run(ctx context.Context) {
	defer close(s.done)
	for env := range s.queue {
		pctx, cancel := context.WithTimeout(ctx, s.timeout)
		if err := s.bus.Publish(pctx, env); err != nil {
			atomic.AddUint64(&s.dropped, 1)
			s.logger.Warn("не удалось опубликовать %s %s: %v", env.EventType, env.ID, err)
		}
		cancel()
	}
}

// Emit реализует world.EventSink
func (s *WorldSink) Emit(ev world.Event) {
	env, err := NewEnvelope(s.source, ev)
	if err != nil {
		atomic.AddUint64(&s.dropped, 1)
		s.logger.Error("не удалось сериализовать событие %s: %v", ev.GetType(), err)
		return
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		atomic.AddUint64(&s.dropped, 1)
		return
	}
	select {
	case s.queue <- env:
	default:
		atomic.AddUint64(&s.dropped, 1)
	}
}

// Dropped возвращает число потерянных событий
func (s *WorldSink) Dropped() uint64 { return atomic.LoadUint64(&s.dropped) }

// Close дожидается отправки буфера. Start должен быть вызван раньше.
func (s *WorldSink) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	close(s.queue)
	s.mu.Unlock()
	<-s.done
}

// priorityOf — приоритет для back-pressure шины в памяти
func priorityOf(t world.EventType) int {
	switch t {
	case world.EventTypePlaced, world.EventTypeBroken, world.EventTypeParcelExpanded, world.EventTypeLayoutImported:
		return 7
	case world.EventTypeDoorPhase:
		return 3
	default:
		return 1
	}
}

// NewEnvelope упаковывает событие мира в Envelope с новым UUID
func NewEnvelope(source string, ev world.Event) (*Envelope, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return nil, err
	}
	return &Envelope{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Source:    source,
		EventType: ev.GetType().String(),
		Version:   PayloadVersion,
		Priority:  priorityOf(ev.GetType()),
		Payload:   payload,
	}, nil
}

// DecodeWorldEvent восстанавливает событие мира из Envelope
func DecodeWorldEvent(env *Envelope) (world.Event, error) {
	if env.Version != PayloadVersion {
		return nil, fmt.Errorf("неподдерживаемая версия %d", env.Version)
	}

	var (
		ev  world.Event
		err error
	)
	switch env.EventType {
	case world.EventTypePlaced.String():
		var e world.PlacedEvent
		err = json.Unmarshal(env.Payload, &e)
		ev = e
	case world.EventTypeBroken.String():
		var e world.BrokenEvent
		err = json.Unmarshal(env.Payload, &e)
		ev = e
	case world.EventTypeRejected.String():
		var e world.RejectedEvent
		err = json.Unmarshal(env.Payload, &e)
		ev = e
	case world.EventTypeDoorPhase.String():
		var e world.DoorPhaseEvent
		err = json.Unmarshal(env.Payload, &e)
		ev = e
	case world.EventTypeParcelExpanded.String():
		var e world.ParcelExpandedEvent
		err = json.Unmarshal(env.Payload, &e)
		ev = e
	case world.EventTypeLayoutImported.String():
		var e world.LayoutImportedEvent
		err = json.Unmarshal(env.Payload, &e)
		ev = e
	default:
		return nil, fmt.Errorf("неизвестный тип события %q", env.EventType)
	}
	if err != nil {
		return nil, fmt.Errorf("разбор %s: %w", env.EventType, err)
	}
	return ev, nil
}
