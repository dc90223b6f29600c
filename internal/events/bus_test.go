package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus_PublishInSubscriptionOrder(t *testing.T) {
	bus := NewBus()

	var got []string

	bus.Subscribe(func(e Event) { got = append(got, "first:"+string(e.Kind)) })
	bus.Subscribe(func(e Event) { got = append(got, "second:"+string(e.Kind)) })

	bus.Publish(Event{Kind: DataChanged})

	assert.Equal(t, []string{"first:data-changed", "second:data-changed"}, got)
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := NewBus()
	calls := 0

	unsubscribe := bus.Subscribe(func(Event) { calls++ })
	bus.Publish(Event{Kind: DataChanged})

	unsubscribe()
	unsubscribe()
	bus.Publish(Event{Kind: DataChanged})

	assert.Equal(t, 1, calls)
}

func TestBus_StampsTime(t *testing.T) {
	bus := NewBus()

	var got Event

	bus.Subscribe(func(e Event) { got = e })
	bus.Publish(Event{Kind: DataChanged})

	assert.False(t, got.At.IsZero())
}

type fakeChannel struct {
	exchange string
	key      string
	msg      amqp091.Publishing
	err      error
}

func (f *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp091.Publishing) error {
	f.exchange = exchange
	f.key = key
	f.msg = msg

	return f.err
}

func TestAMQPBridge_Forward(t *testing.T) {
	ch := &fakeChannel{}
	bridge := &AMQPBridge{channel: ch, exchange: "previsao", origin: "tui-1"}

	at := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, bridge.Forward(context.Background(), Event{Kind: DataChanged, Reason: "repair", At: at}))

	assert.Equal(t, "previsao", ch.exchange)
	assert.Equal(t, "data-changed", ch.key)
	assert.Equal(t, "application/json", ch.msg.ContentType)

	var e Event
	require.NoError(t, json.Unmarshal(ch.msg.Body, &e))
	assert.Equal(t, "repair", e.Reason)
	assert.Equal(t, "tui-1", e.Origin)
	assert.True(t, at.Equal(e.At))
}

func TestAMQPBridge_ForwardError(t *testing.T) {
	bridge := &AMQPBridge{channel: &fakeChannel{err: errors.New("channel closed")}, exchange: "previsao"}

	err := bridge.Forward(context.Background(), Event{Kind: DataChanged})
	assert.ErrorContains(t, err, "publish event")
}

func TestDecodeEvent(t *testing.T) {
	type testCase struct {
		name    string
		body    string
		want    Event
		wantErr bool
	}

	at := time.Date(2025, time.October, 16, 9, 0, 0, 0, time.UTC)

	tests := []testCase{
		{
			name: "Valid",
			body: `{"kind":"data-changed","reason":"repair","at":"2025-10-16T09:00:00Z"}`,
			want: Event{Kind: DataChanged, Reason: "repair", At: at},
		},
		{name: "MissingKind", body: `{"reason":"repair"}`, wantErr: true},
		{name: "Malformed", body: `not json`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeEvent([]byte(tt.body))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAMQPBridge_ListenWithoutConnection(t *testing.T) {
	bridge := &AMQPBridge{exchange: "previsao"}

	assert.Error(t, bridge.Listen(context.Background(), func(Event) {}))
}

func TestAMQPBridge_DeliverSkipsOwnEvents(t *testing.T) {
	type testCase struct {
		name string
		body string
		want bool
	}

	tests := []testCase{
		{name: "OwnEvent", body: `{"kind":"data-changed","origin":"tui-1"}`},
		{name: "OtherProcess", body: `{"kind":"data-changed","origin":"api-7"}`, want: true},
		{name: "NoOrigin", body: `{"kind":"data-changed"}`, want: true},
		{name: "Malformed", body: `{"origin":"api-7"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bridge := &AMQPBridge{exchange: "previsao", origin: "tui-1"}

			called := false
			bridge.deliver([]byte(tt.body), func(Event) { called = true })

			assert.Equal(t, tt.want, called)
		})
	}
}

func TestAMQPBridge_ForwardThenDeliverRoundTrip(t *testing.T) {
	ch := &fakeChannel{}
	own := &AMQPBridge{channel: ch, exchange: "previsao", origin: "tui-1"}
	other := &AMQPBridge{exchange: "previsao", origin: "api-7"}

	require.NoError(t, own.Forward(context.Background(), Event{Kind: DataChanged, Reason: "status"}))

	var got []string

	own.deliver(ch.msg.Body, func(e Event) { got = append(got, "own:"+e.Reason) })
	other.deliver(ch.msg.Body, func(e Event) { got = append(got, "other:"+e.Reason) })

	assert.Equal(t, []string{"other:status"}, got)
}
