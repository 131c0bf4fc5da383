package feed

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

type doneToken struct {
	mqtt.Token
	err error
}

func (t doneToken) Wait() bool                     { return true }
func (t doneToken) WaitTimeout(time.Duration) bool { return true }
func (t doneToken) Error() error                   { return t.err }
func (t doneToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

type fakeMessage struct {
	mqtt.Message
	topic   string
	payload []byte
}

func (m fakeMessage) Topic() string   { return m.topic }
func (m fakeMessage) Payload() []byte { return m.payload }

type published struct {
	topic   string
	payload string
}

type fakeClient struct {
	mqtt.Client

	mu        sync.Mutex
	published []published
	handlers  map[string]mqtt.MessageHandler
}

func (c *fakeClient) IsConnected() bool { return true }

func (c *fakeClient) Publish(topic string, _ byte, _ bool, payload interface{}) mqtt.Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.published = append(c.published, published{topic, string(payload.([]byte))})
	return doneToken{}
}

func (c *fakeClient) Subscribe(topic string, _ byte, h mqtt.MessageHandler) mqtt.Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.handlers == nil {
		c.handlers = map[string]mqtt.MessageHandler{}
	}
	c.handlers[topic] = h
	return doneToken{}
}

func (c *fakeClient) Unsubscribe(...string) mqtt.Token { return doneToken{} }

func (c *fakeClient) deliver(topic, payload string) bool {
	c.mu.Lock()
	h := c.handlers[topic]
	c.mu.Unlock()
	if h == nil {
		return false
	}
	h(c, fakeMessage{topic: topic, payload: []byte(payload)})
	return true
}

func testMQTT(c *fakeClient) *MQTT {
	m := NewMQTT(MQTTConfig{
		Broker:         "tcp://localhost:1883",
		AddNodesTopic:  "test/addnodes",
		SelectionTopic: "test/selection",
	}, nil)
	m.client = c
	return m
}

func TestMQTTNotifySelectionPublishesX(t *testing.T) {
	c := &fakeClient{}
	m := testMQTT(c)

	if err := m.NotifySelection(5000000); err != nil {
		t.Fatalf("NotifySelection failed: %v", err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.published) != 1 {
		t.Fatalf("expected one message, got %d", len(c.published))
	}
	if got := c.published[0]; got.topic != "test/selection" || got.payload != "5000000" {
		t.Errorf("published %+v", got)
	}
}

func TestMQTTRunDeliversBatches(t *testing.T) {
	c := &fakeClient{}
	m := testMQTT(c)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out := make(chan Inbound, 4)
	done := make(chan error, 1)
	go func() { done <- Pump(ctx, m, out, nil) }()

	deadline := time.Now().Add(time.Second)
	for !c.deliver("test/addnodes", `{"list":[{"x":4000000,"y":25}]}`) {
		if time.Now().After(deadline) {
			t.Fatal("subscription never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	select {
	case msg := <-out:
		if msg.Err != nil || len(msg.Points) != 1 || msg.Points[0].X != 4e6 {
			t.Errorf("unexpected message %+v", msg)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for batch")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Pump returned %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Pump did not stop")
	}
	if s := m.Stats(); s.Received != 1 {
		t.Errorf("received = %d, want 1", s.Received)
	}
}

func waitSubscribed(t *testing.T, c *fakeClient, topic string) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for {
		c.mu.Lock()
		h := c.handlers[topic]
		c.mu.Unlock()
		if h != nil {
			return
		}
		if time.Now().After(deadline) {
			t.Fatal("subscription never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestMQTTHandlerDoesNotBlockOnSlowDelivery(t *testing.T) {
	c := &fakeClient{}
	m := testMQTT(c)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	release := make(chan struct{})
	var mu sync.Mutex
	var got []string
	deliver := func(p []byte) {
		<-release
		mu.Lock()
		got = append(got, string(p))
		mu.Unlock()
	}
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx, deliver) }()
	waitSubscribed(t, c, "test/addnodes")

	handled := make(chan struct{})
	go func() {
		defer close(handled)
		for _, p := range []string{"1", "2", "3"} {
			c.deliver("test/addnodes", p)
		}
	}()
	select {
	case <-handled:
	case <-time.After(time.Second):
		t.Fatal("handler blocked while delivery was stalled")
	}

	close(release)
	deadline := time.Now().Add(time.Second)
	for {
		mu.Lock()
		n := len(got)
		mu.Unlock()
		if n == 3 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("delivered %d of 3 payloads", n)
		}
		time.Sleep(5 * time.Millisecond)
	}
	mu.Lock()
	if strings.Join(got, ",") != "1,2,3" {
		t.Errorf("delivery order %v, want [1 2 3]", got)
	}
	mu.Unlock()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop")
	}
	if s := m.Stats(); s.Received != 3 {
		t.Errorf("received = %d, want 3", s.Received)
	}
}

func TestMQTTPublishBatch(t *testing.T) {
	c := &fakeClient{}
	m := testMQTT(c)
	if err := m.PublishBatch(context.Background(), []byte(`{"list":[]}`)); err != nil {
		t.Fatalf("PublishBatch failed: %v", err)
	}
	if s := m.Stats(); s.Published != 1 || s.Errors != 0 {
		t.Errorf("stats = %+v", s)
	}
}

func TestMQTTNotConnected(t *testing.T) {
	m := NewMQTT(MQTTConfig{}, nil)
	if err := m.NotifySelection(1); err == nil {
		t.Error("expected error without a connection")
	}
}

func TestDefaultClientID(t *testing.T) {
	a, b := DefaultClientID(), DefaultClientID()
	if !strings.HasPrefix(a, "scatterlive-") || a == b {
		t.Errorf("client ids %q, %q", a, b)
	}
}
