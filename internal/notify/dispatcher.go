package notify

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// AsyncDispatcher публикует события в отдельной горутине с собственным таймаутом.
// Контекст запроса используется только для значений, его отмена публикацию не прерывает.
type AsyncDispatcher struct {
	publisher Publisher
	logger    *logrus.Logger
	timeout   time.Duration
	wg        sync.WaitGroup
}

func NewAsyncDispatcher(publisher Publisher, logger *logrus.Logger, timeout time.Duration) *AsyncDispatcher {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &AsyncDispatcher{
		publisher: publisher,
		logger:    logger,
		timeout:   timeout,
	}
}

// Dispatch ставит событие в очередь и сразу возвращает управление
func (d *AsyncDispatcher) Dispatch(ctx context.Context, event Event) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)
		defer cancel()

		log := d.logger.WithFields(logrus.Fields{
			"component":   "notify",
			"kind":        event.Kind,
			"incident_id": event.IncidentID,
		})
		if err := d.publisher.Publish(pubCtx, event); err != nil {
			log.WithError(err).Error("Failed to enqueue notification")
			return
		}
		log.Debug("Notification enqueued")
	}()
}

// Wait дожидается завершения уже запущенных публикаций
func (d *AsyncDispatcher) Wait() {
	d.wg.Wait()
}
