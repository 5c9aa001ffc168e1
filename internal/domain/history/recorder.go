package history

import (
	"context"
	"log/slog"

	evbus "github.com/asaskevich/EventBus"
)

// Topic is the event-bus topic login events are published on.
const Topic = "login:event"

// MirrorPublisher forwards events to the external mirror channel. Delivery
// is best effort; implementations must never block the caller.
type MirrorPublisher interface {
	Enqueue(event Event)
}

// Recorder fans login events out to the registered sinks over the event
// bus. Database sinks run synchronously on the publishing goroutine so the
// attempt-phase rows are committed before the success phase starts; the
// mirror sink only enqueues.
type Recorder struct {
	bus    evbus.Bus
	logger *slog.Logger
}

func NewRecorder(bus evbus.Bus, store Store, mirror MirrorPublisher, logger *slog.Logger) (*Recorder, error) {
	r := &Recorder{
		bus:    bus,
		logger: logger,
	}

	sink := &storeSink{store: store, logger: logger}
	if err := bus.Subscribe(Topic, sink.handle); err != nil {
		return nil, err
	}
	if mirror != nil {
		ms := &mirrorSink{mirror: mirror}
		if err := bus.Subscribe(Topic, ms.handle); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Record publishes one event. Sink failures are logged by the sinks and
// never surface to the login flow.
func (r *Recorder) Record(ctx context.Context, e Event) {
	r.bus.Publish(Topic, ctx, e)
}

type storeSink struct {
	store  Store
	logger *slog.Logger
}

func (s *storeSink) handle(ctx context.Context, e Event) {
	var err error
	switch e.Channel {
	case ChannelAttempt:
		err = s.store.SaveAttempt(ctx, &LoginAttempt{
			Username:    e.Username,
			Nickname:    e.Nickname,
			IP:          e.IP,
			CountryCode: e.CountryCode,
			Device:      e.Device,
			AttemptedAt: e.At,
		})
	case ChannelAdmin:
		err = s.store.SaveAdminAttempt(ctx, &AdminLoginAttempt{
			Username:    e.Username,
			Nickname:    e.Nickname,
			Success:     e.Success,
			IP:          e.IP,
			CountryCode: e.CountryCode,
			Device:      e.Device,
			AttemptedAt: e.At,
		})
	case ChannelSuccess:
		if err = s.store.SaveSuccess(ctx, &LoginSuccess{
			UserID:    e.UserID,
			IP:        e.IP,
			UserAgent: e.UserAgent,
			LoggedAt:  e.At,
		}); err != nil {
			break
		}
		if e.RecordConnection {
			err = s.store.SaveConnectionInfo(ctx, &ConnectionInfo{
				Username:       e.Username,
				Nickname:       e.Nickname,
				Distributor:    e.Distributor,
				AccessedIP:     e.IP,
				AccessedDevice: e.Device,
				LastVisit:      e.At,
			})
		}
	case ChannelMirror:
		// handled by the mirror sink
	}
	if err != nil {
		s.logger.Error("login history write failed",
			"channel", string(e.Channel), "username", e.Username, "error", err)
	}
}

type mirrorSink struct {
	mirror MirrorPublisher
}

func (s *mirrorSink) handle(_ context.Context, e Event) {
	if e.Channel != ChannelMirror {
		return
	}
	s.mirror.Enqueue(e)
}
