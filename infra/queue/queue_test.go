package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dteaa/membership_service/internal/logger"
)

type fakeWriter struct {
	msgs []kafka.Message
	err  error
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error { return nil }

func TestPublishMessage(t *testing.T) {
	fw := &fakeWriter{}
	p := NewProducerWithWriter(fw, logger.NewTestLogger(t))

	require.NoError(t, p.PublishMessage([]byte("user-1"), []byte(`{"type":"profile.submitted"}`)))
	require.Len(t, fw.msgs, 1)
	assert.Equal(t, "user-1", string(fw.msgs[0].Key))
	assert.False(t, fw.msgs[0].Time.IsZero())
}

func TestPublishMessage_Error(t *testing.T) {
	fw := &fakeWriter{err: errors.New("leader not available")}
	p := NewProducerWithWriter(fw, logger.NewTestLogger(t))
	assert.Error(t, p.PublishMessage([]byte("k"), []byte("v")))
}

func TestPublishMessage_NilProducer(t *testing.T) {
	var p *Producer
	assert.NoError(t, p.PublishMessage([]byte("k"), []byte("v")))
	assert.NoError(t, p.Close())
}

type fakeReader struct {
	mu   sync.Mutex
	msgs []kafka.Message
	errs []error
}

func (f *fakeReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	f.mu.Lock()
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		f.mu.Unlock()
		return kafka.Message{}, err
	}
	if len(f.msgs) > 0 {
		m := f.msgs[0]
		f.msgs = f.msgs[1:]
		f.mu.Unlock()
		return m, nil
	}
	f.mu.Unlock()
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func (f *fakeReader) Close() error { return nil }

type recordingHandler struct {
	mu   sync.Mutex
	seen []string
	fail bool
	done chan struct{}
	want int
}

func (h *recordingHandler) HandleMessage(_ context.Context, message []byte) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.seen = append(h.seen, string(message))
	if len(h.seen) == h.want {
		close(h.done)
	}
	if h.fail {
		return errors.New("smtp refused")
	}
	return nil
}

func TestListen_DeliversUntilCancelled(t *testing.T) {
	reader := &fakeReader{
		errs: []error{errors.New("rebalance in progress")},
		msgs: []kafka.Message{{Value: []byte("a")}, {Value: []byte("b")}},
	}
	h := &recordingHandler{fail: true, done: make(chan struct{}), want: 2}
	c := NewKafkaConsumerWithReader(reader, h, logger.NewTestLogger(t))
	c.backoff = time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	result := make(chan error, 1)
	go func() { result <- c.Listen(ctx) }()

	select {
	case <-h.done:
	case <-time.After(2 * time.Second):
		t.Fatal("handler was not called")
	}
	cancel()

	select {
	case err := <-result:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("listen did not stop")
	}
	assert.Equal(t, []string{"a", "b"}, h.seen)
}
