package eventbus

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/glennajones/gummy-bear/pkg/logging"
)

type scheduleSaved struct {
	runID string
}

type moldToggled struct {
	moldID string
}

func bufferedLogger(level logrus.Level) (*logrus.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	log := logrus.New()
	log.SetOutput(buf)
	log.SetLevel(level)
	return log, buf
}

func TestPublisher_Publish_NoMatchingSubscriber(t *testing.T) {
	log, buf := bufferedLogger(logrus.WarnLevel)
	publisher := NewEventPublisher(log)
	publisher.Subscribe(func(e *scheduleSaved) {
		t.Error("should not be called")
	})

	publisher.Publish(&moldToggled{moldID: "M1"})

	require.Contains(t, buf.String(), "eventbus.Publish: no matching subscribers")
}

func TestPublisher_Subscribe(t *testing.T) {
	publisher := NewEventPublisher(logging.ConsoleLogger(logrus.WarnLevel))
	var got string
	publisher.Subscribe(func(e *scheduleSaved) {
		got = e.runID
	})

	publisher.Publish(&scheduleSaved{runID: "run-1"})

	require.Equal(t, "run-1", got)
}

func TestPublisher_Unsubscribe(t *testing.T) {
	publisher := NewEventPublisher(nil)
	calls := 0
	handler := func(e *scheduleSaved) { calls++ }
	other := func(e *moldToggled) {}

	publisher.Subscribe(handler)
	publisher.Subscribe(other)
	require.Equal(t, 2, publisher.SubscribersCount())

	publisher.Unsubscribe(handler)
	require.Equal(t, 1, publisher.SubscribersCount())

	publisher.Publish(&scheduleSaved{})
	require.Zero(t, calls)

	publisher.Clear()
	require.Zero(t, publisher.SubscribersCount())
}

func TestMatchSignature(t *testing.T) {
	require.True(t, MatchSignature(func(e *scheduleSaved) {}, []interface{}{&scheduleSaved{}}))
	require.False(t, MatchSignature(func(e *scheduleSaved) {}, []interface{}{&moldToggled{}}))
	require.False(t, MatchSignature(func(e *scheduleSaved) {}, []interface{}{}))
	require.False(t, MatchSignature(func(e *scheduleSaved) {}, []interface{}{&scheduleSaved{}, &scheduleSaved{}}))
	require.True(t, MatchSignature(func(ctx context.Context) {}, []interface{}{context.Background()}))
	require.True(t, MatchSignature(func(e *scheduleSaved) {}, []interface{}{nil}))
	require.False(t, MatchSignature(func(e scheduleSaved) {}, []interface{}{nil}))
}

func TestPublisher_PanicRecovery(t *testing.T) {
	t.Run("panic is logged and other handlers still run", func(t *testing.T) {
		log, buf := bufferedLogger(logrus.ErrorLevel)
		publisher := NewEventPublisher(log)

		var first, last bool
		publisher.Subscribe(func(e *scheduleSaved) { first = true })
		publisher.Subscribe(func(e *scheduleSaved) { panic("handler 2 panic") })
		publisher.Subscribe(func(e *scheduleSaved) { last = true })

		publisher.Publish(&scheduleSaved{runID: "run-1"})

		require.True(t, first)
		require.True(t, last)
		require.Contains(t, buf.String(), "panicked")
		require.Contains(t, buf.String(), "handler 2 panic")
	})

	t.Run("all handlers panicking counts as unhandled", func(t *testing.T) {
		log, buf := bufferedLogger(logrus.WarnLevel)
		publisher := NewEventPublisher(log)
		publisher.Subscribe(func(e *scheduleSaved) { panic("always panics") })

		publisher.Publish(&scheduleSaved{})

		require.Contains(t, buf.String(), "no matching subscribers")
	})
}

func TestPublisher_PublishE(t *testing.T) {
	t.Run("returns ErrNoSubscribers when none match", func(t *testing.T) {
		publisher := NewEventPublisher(logrus.New())
		require.ErrorIs(t, publisher.PublishE(&scheduleSaved{}), ErrNoSubscribers)
	})

	t.Run("joins errors from multiple handlers", func(t *testing.T) {
		publisher := NewEventPublisher(logrus.New())
		err1 := errors.New("err1")
		err2 := errors.New("err2")
		publisher.Subscribe(func(e *scheduleSaved) error { return err1 })
		publisher.Subscribe(func(e *scheduleSaved) error { return err2 })

		err := publisher.PublishE(&scheduleSaved{})
		require.ErrorIs(t, err, err1)
		require.ErrorIs(t, err, err2)
	})

	t.Run("panic surfaces as error", func(t *testing.T) {
		publisher := NewEventPublisher(nil)
		called := false
		publisher.Subscribe(func(e *scheduleSaved) error { panic("boom") })
		publisher.Subscribe(func(e *scheduleSaved) error { called = true; return nil })

		require.Error(t, publisher.PublishE(&scheduleSaved{}))
		require.True(t, called)
	})

	t.Run("invalid handler return", func(t *testing.T) {
		publisher := NewEventPublisher(nil)
		publisher.Subscribe(func(e *scheduleSaved) int { return 1 })
		require.ErrorIs(t, publisher.PublishE(&scheduleSaved{}), ErrInvalidHandlerReturn)
	})
}

func TestPublisher_ConcurrentSubscribeAndPublish(t *testing.T) {
	publisher := NewEventPublisher(nil)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			publisher.Subscribe(func(e *moldToggled) {})
		}()
		go func() {
			defer wg.Done()
			publisher.Publish(&moldToggled{moldID: "M1"})
		}()
	}
	wg.Wait()
	require.Equal(t, 20, publisher.SubscribersCount())
}
