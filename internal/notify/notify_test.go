package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shenikar/incident_reporting/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func silentLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах
	return logger
}

type fakeUsers struct {
	users map[uuid.UUID]models.User
	err   error
}

func (f *fakeUsers) GetUsers(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make(map[uuid.UUID]models.User)
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			out[id] = u
		}
	}
	return out, nil
}

type fakeSender struct {
	mu       sync.Mutex
	failures int
	sent     []Message
	attempts int
}

func (f *fakeSender) Send(_ context.Context, msg Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attempts++
	if f.attempts <= f.failures {
		return errors.New("smtp unavailable")
	}
	f.sent = append(f.sent, msg)
	return nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []Event
	err    error
	block  chan struct{}
}

func (f *fakePublisher) Publish(ctx context.Context, event Event) error {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return f.err
}

func TestRender_EscapesUserInput(t *testing.T) {
	ev := Event{Kind: KindRejected, IncidentType: models.TypeRoadHazard, Reason: "<script>x</script>"}

	msg, err := Render(ev, "Анна <b>")

	require.NoError(t, err)
	assert.Equal(t, "Incident Report Update", msg.Subject)
	assert.Contains(t, msg.HTML, "road hazard")
	assert.Contains(t, msg.HTML, "&lt;script&gt;")
	assert.NotContains(t, msg.HTML, "<script>")
	assert.Contains(t, msg.HTML, "Анна &lt;b&gt;")
	assert.Contains(t, msg.Text, "Reason: <script>x</script>")
}

func TestRender_AllKinds(t *testing.T) {
	for _, kind := range []Kind{KindReported, KindVerified, KindRejected, KindResolved} {
		msg, err := Render(Event{Kind: kind, IncidentType: models.TypeFire}, "Иван")
		require.NoError(t, err, kind)
		assert.NotEmpty(t, msg.Subject)
		assert.Contains(t, msg.Text, "Hello Иван")
	}
	_, err := Render(Event{Kind: "deleted"}, "Иван")
	assert.Error(t, err)
}

func TestAsyncDispatcher_DoesNotBlockCaller(t *testing.T) {
	pub := &fakePublisher{block: make(chan struct{})}
	d := NewAsyncDispatcher(pub, silentLogger(), time.Second)

	done := make(chan struct{})
	go func() {
		d.Dispatch(context.Background(), Event{Kind: KindVerified})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Dispatch blocked on publisher")
	}

	close(pub.block)
	d.Wait()
	assert.Len(t, pub.events, 1)
}

func TestAsyncDispatcher_SurvivesCanceledRequestAndErrors(t *testing.T) {
	pub := &fakePublisher{err: errors.New("redis down")}
	d := NewAsyncDispatcher(pub, silentLogger(), time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d.Dispatch(ctx, Event{Kind: KindResolved})
	d.Wait()

	assert.Len(t, pub.events, 1)
}

func newMiniRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisPublisher_Publish(t *testing.T) {
	mr, client := newMiniRedis(t)
	pub := NewRedisPublisher(client, "")
	ev := Event{Kind: KindReported, IncidentID: uuid.New(), IncidentType: models.TypeTheft}

	require.NoError(t, pub.Publish(context.Background(), ev))

	items, err := mr.List(DefaultQueueKey)
	require.NoError(t, err)
	require.Len(t, items, 1)
	var got Event
	require.NoError(t, json.Unmarshal([]byte(items[0]), &got))
	assert.Equal(t, ev.IncidentID, got.IncidentID)
	assert.Equal(t, KindReported, got.Kind)
}

func TestWorker_PopAndDeliver(t *testing.T) {
	_, client := newMiniRedis(t)
	reporter := uuid.New()
	users := &fakeUsers{users: map[uuid.UUID]models.User{
		reporter: {ID: reporter, Name: "Мария", Email: "maria@example.com"},
	}}
	sender := &fakeSender{}
	w := NewWorker(client, users, sender, silentLogger(), WorkerConfig{QueueKey: "q", BaseDelay: time.Millisecond, PollTimeout: time.Second})

	pub := NewRedisPublisher(client, "q")
	require.NoError(t, pub.Publish(context.Background(), Event{Kind: KindVerified, ReporterID: reporter, IncidentType: models.TypeFlooding}))

	processed, err := w.popAndProcess(context.Background())

	require.NoError(t, err)
	assert.True(t, processed)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "maria@example.com", sender.sent[0].ToEmail)
	assert.Equal(t, "Your Incident Report Has Been Verified", sender.sent[0].Subject)
}

func TestWorker_RetriesWithBackoff(t *testing.T) {
	reporter := uuid.New()
	users := &fakeUsers{users: map[uuid.UUID]models.User{reporter: {ID: reporter, Email: "a@b.c"}}}
	sender := &fakeSender{failures: 2}
	w := NewWorker(nil, users, sender, silentLogger(), WorkerConfig{MaxRetries: 3, BaseDelay: time.Millisecond})

	err := w.Deliver(context.Background(), Event{Kind: KindResolved, ReporterID: reporter})

	require.NoError(t, err)
	assert.Equal(t, 3, sender.attempts)
	assert.Len(t, sender.sent, 1)
}

func TestWorker_GivesUpAfterMaxRetries(t *testing.T) {
	reporter := uuid.New()
	users := &fakeUsers{users: map[uuid.UUID]models.User{reporter: {ID: reporter, Email: "a@b.c"}}}
	sender := &fakeSender{failures: 10}
	w := NewWorker(nil, users, sender, silentLogger(), WorkerConfig{MaxRetries: 2, BaseDelay: time.Millisecond})

	err := w.Deliver(context.Background(), Event{Kind: KindResolved, ReporterID: reporter})

	assert.ErrorContains(t, err, "after 2 attempts")
	assert.Equal(t, 2, sender.attempts)
}

func TestWorker_SkipsReporterWithoutEmail(t *testing.T) {
	sender := &fakeSender{}
	w := NewWorker(nil, &fakeUsers{}, sender, silentLogger(), WorkerConfig{})

	err := w.Deliver(context.Background(), Event{Kind: KindReported, ReporterID: uuid.New()})

	require.NoError(t, err)
	assert.Zero(t, sender.attempts)
}

func TestWorker_EmptyQueue(t *testing.T) {
	_, client := newMiniRedis(t)
	w := NewWorker(client, &fakeUsers{}, &fakeSender{}, silentLogger(), WorkerConfig{PollTimeout: 100 * time.Millisecond})

	processed, err := w.popAndProcess(context.Background())

	require.NoError(t, err)
	assert.False(t, processed)
}
