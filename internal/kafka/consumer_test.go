package kafka

import (
	"context"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReader struct {
	mu        sync.Mutex
	msgs      []kafka.Message
	next      int
	committed []int64
	closed    bool
}

func (f *fakeReader) FetchMessage(context.Context) (kafka.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.next >= len(f.msgs) {
		return kafka.Message{}, io.EOF
	}
	m := f.msgs[f.next]
	f.next++
	return m, nil
}

func (f *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range msgs {
		f.committed = append(f.committed, m.Offset)
	}
	return nil
}

func (f *fakeReader) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeReader) snapshot() []int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int64(nil), f.committed...)
}

func TestConsumer_CommitsOnlyHandledMessages(t *testing.T) {
	r := &fakeReader{msgs: []kafka.Message{
		{Offset: 1, Value: []byte("a")},
		{Offset: 2, Value: []byte("poison")},
		{Offset: 3, Value: []byte("b")},
	}}
	c := &Consumer{r: r, workers: 1}

	err := c.Start(context.Background(), func(_ context.Context, m kafka.Message) error {
		if string(m.Value) == "poison" {
			return fmt.Errorf("handler rejected message")
		}
		return nil
	})

	require.ErrorIs(t, err, io.EOF)
	// Workers drain the job channel after Start returns.
	require.Eventually(t, func() bool { return len(r.snapshot()) == 2 }, time.Second, 10*time.Millisecond)
	assert.ElementsMatch(t, []int64{1, 3}, r.snapshot(),
		"failed message must stay uncommitted for redelivery")
	assert.True(t, r.closed)
}

func TestConsumer_StopsCleanlyOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := &fakeReader{}
	c := &Consumer{r: r, workers: 1}

	err := c.Start(ctx, func(context.Context, kafka.Message) error { return nil })

	assert.NoError(t, err)
	assert.True(t, r.closed)
}
