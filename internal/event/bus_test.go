package event_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mixelka/mailvault/internal/event"
)

type captureSink struct {
	events []event.Event
}

func (s *captureSink) Notify(_ context.Context, e event.Event) {
	s.events = append(s.events, e)
}

func TestPublishFansOut(t *testing.T) {
	bus := event.NewBus(slog.New(slog.NewTextHandler(io.Discard, nil)))
	first := &captureSink{}
	second := &captureSink{}
	bus.Subscribe(first)
	bus.Subscribe(second)

	bus.Publish(context.Background(), event.Event{
		Kind:      event.KindMessageCreated,
		Principal: "AU12AliceWallet",
		MessageID: 1,
		Text:      "Message created: 1",
	})

	require.Len(t, first.events, 1)
	require.Len(t, second.events, 1)

	got := first.events[0]
	require.Equal(t, event.KindMessageCreated, got.Kind)
	require.NotEmpty(t, got.ID)
	require.False(t, got.At.IsZero())
}

func TestPublishWithoutSinks(t *testing.T) {
	bus := event.NewBus(slog.New(slog.NewTextHandler(io.Discard, nil)))
	// Nothing subscribed; publishing must not panic.
	bus.Publish(context.Background(), event.Event{Kind: event.KindSpamListUpdated})
}
