package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shenikar/incident_reporting/internal/models"
	"github.com/sirupsen/logrus"
)

// UserLookup возвращает учетные записи по идентификаторам
type UserLookup interface {
	GetUsers(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.User, error)
}

// WorkerConfig - параметры доставки
type WorkerConfig struct {
	QueueKey    string
	MaxRetries  int
	BaseDelay   time.Duration
	PollTimeout time.Duration
}

// Worker забирает события из очереди Redis и отправляет письма авторам
type Worker struct {
	redisClient *redis.Client
	users       UserLookup
	sender      Sender
	logger      *logrus.Logger
	cfg         WorkerConfig
}

// NewWorker создает новый Worker
func NewWorker(redisClient *redis.Client, users UserLookup, sender Sender, logger *logrus.Logger, cfg WorkerConfig) *Worker {
	if cfg.QueueKey == "" {
		cfg.QueueKey = DefaultQueueKey
	}
	if cfg.MaxRetries < 1 {
		cfg.MaxRetries = 1
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = time.Second
	}
	if cfg.PollTimeout <= 0 {
		cfg.PollTimeout = 5 * time.Second
	}
	return &Worker{
		redisClient: redisClient,
		users:       users,
		sender:      sender,
		logger:      logger,
		cfg:         cfg,
	}
}

// Start запускает горутину обработки очереди
func (w *Worker) Start(ctx context.Context) {
	w.logger.Info("Starting notification worker...")
	go w.Run(ctx)
}

// Run обрабатывает очередь до отмены контекста
func (w *Worker) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Stopping notification worker.")
			return
		default:
		}

		if _, err := w.popAndProcess(ctx); err != nil {
			if errors.Is(err, context.Canceled) {
				continue
			}
			w.logger.WithError(err).Error("Failed to pop notification event from Redis")
			sleepCtx(ctx, w.cfg.BaseDelay) // Ждем перед повторной попыткой
		}
	}
}

// popAndProcess ждет одно событие не дольше PollTimeout. Возвращает false, если очередь была пуста.
func (w *Worker) popAndProcess(ctx context.Context) (bool, error) {
	// BRPOP - блокирующее извлечение из правой части списка
	result, err := w.redisClient.BRPop(ctx, w.cfg.PollTimeout, w.cfg.QueueKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}

	// result[0] - ключ, result[1] - значение
	var event Event
	if err := json.Unmarshal([]byte(result[1]), &event); err != nil {
		w.logger.WithError(err).Error("Failed to unmarshal notification event from Redis")
		return true, nil
	}

	if err := w.Deliver(ctx, event); err != nil {
		w.logger.WithError(err).WithField("incident_id", event.IncidentID).Error("Notification dropped")
	}
	return true, nil
}

// Deliver находит получателя, формирует письмо и отправляет его с повторами
func (w *Worker) Deliver(ctx context.Context, event Event) error {
	log := w.logger.WithFields(logrus.Fields{
		"kind":        event.Kind,
		"incident_id": event.IncidentID,
		"reporter_id": event.ReporterID,
	})
	log.Debug("Processing notification event...")

	users, err := w.users.GetUsers(ctx, []uuid.UUID{event.ReporterID})
	if err != nil {
		return fmt.Errorf("failed to look up reporter: %w", err)
	}
	user, ok := users[event.ReporterID]
	if !ok || user.Email == "" {
		log.Warn("Reporter has no email address. Skipping notification.")
		return nil
	}

	msg, err := Render(event, user.Name)
	if err != nil {
		return err
	}
	msg.ToEmail = user.Email
	msg.ToName = user.Name

	delay := w.cfg.BaseDelay
	for i := 0; i < w.cfg.MaxRetries; i++ {
		err = w.sender.Send(ctx, msg)
		if err == nil {
			log.Info("Notification delivered successfully.")
			return nil
		}
		left := w.cfg.MaxRetries - 1 - i
		log.WithError(err).Warnf("Failed to send notification. Retrying in %v. Retries left: %d", delay, left)
		if left == 0 || !sleepCtx(ctx, delay) {
			break
		}
		delay *= 2 // Экспоненциальная задержка
	}
	return fmt.Errorf("failed to deliver notification after %d attempts: %w", w.cfg.MaxRetries, err)
}

// sleepCtx ждет d или отмены контекста. Возвращает false при отмене.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
