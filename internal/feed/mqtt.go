package feed

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
)

// MQTTConfig holds broker settings for the push channel.
type MQTTConfig struct {
	Broker         string
	ClientID       string
	AddNodesTopic  string
	SelectionTopic string
	QoS            byte
}

// MQTT is the push channel over an MQTT broker: it subscribes to the
// addnodes topic and publishes selections without waiting for delivery.
type MQTT struct {
	cfg    MQTTConfig
	log    *slog.Logger
	client mqtt.Client

	mu        sync.RWMutex
	connected bool
	published uint64
	received  uint64
	errors    uint64
}

// NewMQTT creates the client; Connect must be called before use.
func NewMQTT(cfg MQTTConfig, log *slog.Logger) *MQTT {
	if cfg.ClientID == "" {
		cfg.ClientID = DefaultClientID()
	}
	if log == nil {
		log = slog.Default()
	}
	return &MQTT{cfg: cfg, log: log}
}

// DefaultClientID returns a unique client id for this process.
func DefaultClientID() string {
	return "scatterlive-" + uuid.NewString()[:8]
}

// Connect establishes the broker connection. Reconnection after that is
// handled by the client library.
func (m *MQTT) Connect(ctx context.Context) error {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(m.cfg.Broker)
	opts.SetClientID(m.cfg.ClientID)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(2 * time.Second)
	opts.SetMaxReconnectInterval(30 * time.Second)

	opts.OnConnect = func(c mqtt.Client) {
		m.setConnected(true)
		m.log.Info("mqtt connection established",
			"broker", m.cfg.Broker,
			"client_id", m.cfg.ClientID)
	}
	opts.OnConnectionLost = func(c mqtt.Client, err error) {
		m.setConnected(false)
		m.log.Warn("mqtt connection lost, will auto-reconnect",
			"error", err,
			"broker", m.cfg.Broker)
	}

	m.client = mqtt.NewClient(opts)
	m.log.Info("connecting to mqtt broker", "broker", m.cfg.Broker)

	if err := wait(ctx, m.client.Connect(), 5*time.Second); err != nil {
		return fmt.Errorf("mqtt connect %s: %w", m.cfg.Broker, err)
	}
	m.setConnected(true)
	return nil
}

// Run subscribes to the addnodes topic and delivers every payload until ctx is done.
func (m *MQTT) Run(ctx context.Context, deliver func([]byte)) error {
	if m.client == nil {
		return fmt.Errorf("mqtt: not connected")
	}
	// paho calls handlers on its router goroutine, which must not block: the
	// handler only queues and a single drain goroutine delivers in arrival order.
	var (
		qmu     sync.Mutex
		pending [][]byte
	)
	wake := make(chan struct{}, 1)
	handler := func(_ mqtt.Client, msg mqtt.Message) {
		m.mu.Lock()
		m.received++
		m.mu.Unlock()
		qmu.Lock()
		pending = append(pending, msg.Payload())
		qmu.Unlock()
		select {
		case wake <- struct{}{}:
		default:
		}
	}
	topic := m.cfg.AddNodesTopic
	m.log.Info("subscribing to batches", "topic", topic, "qos", m.cfg.QoS)
	if err := wait(ctx, m.client.Subscribe(topic, m.cfg.QoS, handler), 5*time.Second); err != nil {
		return fmt.Errorf("mqtt subscribe %s: %w", topic, err)
	}
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		for {
			select {
			case <-ctx.Done():
				return
			case <-wake:
			}
			qmu.Lock()
			batch := pending
			pending = nil
			qmu.Unlock()
			for _, p := range batch {
				if ctx.Err() != nil {
					return
				}
				deliver(p)
			}
		}
	}()
	<-ctx.Done()
	if m.client.IsConnected() {
		m.client.Unsubscribe(topic).WaitTimeout(time.Second)
	}
	<-drained
	return ctx.Err()
}

// NotifySelection publishes the selected x value. It does not wait for the
// broker; a failed delivery is only logged.
func (m *MQTT) NotifySelection(x float64) error {
	if m.client == nil {
		return fmt.Errorf("mqtt: not connected")
	}
	payload := EncodeSelection(x)
	tok := m.client.Publish(m.cfg.SelectionTopic, m.cfg.QoS, false, payload)
	go func() {
		<-tok.Done()
		if err := tok.Error(); err != nil {
			m.countError()
			m.log.Debug("selection publish failed", "topic", m.cfg.SelectionTopic, "error", err)
			return
		}
		m.countPublished()
	}()
	return nil
}

// PublishBatch sends one addnodes message and waits for the broker.
func (m *MQTT) PublishBatch(ctx context.Context, payload []byte) error {
	if m.client == nil {
		return fmt.Errorf("mqtt: not connected")
	}
	if err := wait(ctx, m.client.Publish(m.cfg.AddNodesTopic, m.cfg.QoS, false, payload), 2*time.Second); err != nil {
		m.countError()
		return fmt.Errorf("mqtt publish %s: %w", m.cfg.AddNodesTopic, err)
	}
	m.countPublished()
	m.log.Debug("batch published", "topic", m.cfg.AddNodesTopic, "size", len(payload))
	return nil
}

func (m *MQTT) Disconnect() {
	if m.client != nil && m.client.IsConnected() {
		m.client.Disconnect(250)
		m.log.Info("mqtt disconnected")
	}
	m.setConnected(false)
}

// Stats contains channel statistics.
type Stats struct {
	Connected bool
	Published uint64
	Received  uint64
	Errors    uint64
}

func (m *MQTT) Stats() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Stats{
		Connected: m.connected,
		Published: m.published,
		Received:  m.received,
		Errors:    m.errors,
	}
}

func (m *MQTT) setConnected(v bool) {
	m.mu.Lock()
	m.connected = v
	m.mu.Unlock()
}

func (m *MQTT) countPublished() {
	m.mu.Lock()
	m.published++
	m.mu.Unlock()
}

func (m *MQTT) countError() {
	m.mu.Lock()
	m.errors++
	m.mu.Unlock()
}

func wait(ctx context.Context, tok mqtt.Token, timeout time.Duration) error {
	t := time.NewTimer(timeout)
	defer t.Stop()
	select {
	case <-tok.Done():
		return tok.Error()
	case <-t.C:
		return fmt.Errorf("timeout after %s", timeout)
	case <-ctx.Done():
		return ctx.Err()
	}
}
