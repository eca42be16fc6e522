package realtime

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/esports-hub/internal/domain/notify"
	"github.com/riskibarqy/esports-hub/internal/platform/logging"
	"github.com/valyala/bytebufferpool"
)

const defaultPublishWorkers = 8

type broadcaster interface {
	Broadcast(topic string, payload []byte) int
}

// AsyncPublisher encodes notifications and hands the fan-out to a worker
// pool so committed writes never wait on websocket clients.
type AsyncPublisher struct {
	hub    broadcaster
	pool   *ants.Pool
	logger *logging.Logger
}

var _ notify.Publisher = (*AsyncPublisher)(nil)

func NewAsyncPublisher(hub broadcaster, workers int, logger *logging.Logger) (*AsyncPublisher, error) {
	if workers <= 0 {
		workers = defaultPublishWorkers
	}
	if logger == nil {
		logger = logging.Default()
	}
	pool, err := ants.NewPool(workers, ants.WithNonblocking(true))
	if err != nil {
		return nil, fmt.Errorf("create publish worker pool: %w", err)
	}
	return &AsyncPublisher{hub: hub, pool: pool, logger: logger}, nil
}

func (p *AsyncPublisher) Publish(ctx context.Context, msg notify.Message) {
	payload, err := encodeMessage(msg)
	if err != nil {
		p.logger.WarnContext(ctx, "encode notification failed", "topic", msg.Topic, "type", msg.Type, "error", err)
		return
	}

	if err := p.pool.Submit(func() {
		p.hub.Broadcast(msg.Topic, payload)
	}); err != nil {
		p.logger.WarnContext(ctx, "notification dropped", "topic", msg.Topic, "type", msg.Type, "error", err)
	}
}

// Close waits up to timeout for running broadcasts and stops the workers.
func (p *AsyncPublisher) Close(timeout time.Duration) error {
	return p.pool.ReleaseTimeout(timeout)
}

func encodeMessage(msg notify.Message) ([]byte, error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := sonic.ConfigDefault.NewEncoder(buf).Encode(msg); err != nil {
		return nil, err
	}
	out := make([]byte, buf.Len())
	copy(out, buf.B)
	return out, nil
}
