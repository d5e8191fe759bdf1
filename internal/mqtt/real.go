package mqtt

import (
	"fmt"
	"log"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/sweeney/whack-a-mole/internal/logic"
)

// bufferCapacity is how many messages are held while the broker is unreachable.
const bufferCapacity = 256

// client is the part of paho.Client the publisher uses.
type client interface {
	IsConnectionOpen() bool
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
	Disconnect(quiesce uint)
}

// RealPublisher publishes to an actual MQTT broker.
//
// Publishing never blocks the caller: while disconnected, messages go into a
// ring buffer that is replayed, oldest first, when the connection comes up.
type RealPublisher struct {
	client client

	mu            sync.Mutex
	pending       *ringBuffer
	everConnected bool
	now           func() time.Time
}

// NewRealPublisher creates a publisher for the given broker. The connection is
// established (and re-established) in the background.
func NewRealPublisher(broker string) *RealPublisher {
	p := newPublisher(nil)

	will, _ := FormatSystemPayload(SystemEvent{
		Timestamp: time.Now(),
		Event:     "SHUTDOWN",
		Reason:    "MQTT_DISCONNECT",
	})

	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID("whack-a-mole").
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5*time.Second).
		SetWill(TopicSystem, string(will), 1, true).
		SetOnConnectHandler(func(paho.Client) { p.onConnect() }).
		SetConnectionLostHandler(func(_ paho.Client, err error) {
			log.Printf("mqtt: connection lost: %v", err)
		})

	c := paho.NewClient(opts)
	p.client = c
	c.Connect()
	return p
}

func newPublisher(c client) *RealPublisher {
	return &RealPublisher{
		client:  c,
		pending: newRingBuffer(bufferCapacity),
		now:     time.Now,
	}
}

// Publish sends a game event to the MQTT broker.
func (p *RealPublisher) Publish(event logic.Event) error {
	payload, err := FormatPayload(event)
	if err != nil {
		return fmt.Errorf("format payload: %w", err)
	}

	// QoS 0 (at-most-once), not retained
	return p.send(message{topic: Topic, payload: payload})
}

// PublishSystem sends a system lifecycle event to the MQTT broker.
func (p *RealPublisher) PublishSystem(event SystemEvent) error {
	payload, err := FormatSystemPayload(event)
	if err != nil {
		return fmt.Errorf("format system payload: %w", err)
	}

	// QoS 1 (at-least-once) for lifecycle events - we want to ensure delivery
	return p.send(message{topic: TopicSystem, payload: payload, qos: 1, retained: event.Retained})
}

func (p *RealPublisher) send(msg message) error {
	p.mu.Lock()
	if !p.client.IsConnectionOpen() {
		p.pending.push(msg)
		p.mu.Unlock()
		return nil
	}
	p.mu.Unlock()

	return p.publish(msg)
}

// publish hands msg to paho and reports only errors that are already known.
func (p *RealPublisher) publish(msg message) error {
	token := p.client.Publish(msg.topic, msg.qos, msg.retained, msg.payload)
	select {
	case <-token.Done():
		if err := token.Error(); err != nil {
			return fmt.Errorf("publish %s: %w", msg.topic, err)
		}
	default:
	}
	return nil
}

// onConnect replays buffered messages and announces reconnections.
func (p *RealPublisher) onConnect() {
	p.mu.Lock()
	backlog := p.pending.drain()
	reconnected := p.everConnected
	p.everConnected = true
	p.mu.Unlock()

	log.Printf("mqtt: connected, replaying %d buffered messages", len(backlog))
	for _, msg := range backlog {
		if err := p.publish(msg); err != nil {
			log.Printf("mqtt: replay: %v", err)
		}
	}

	if reconnected {
		payload, _ := FormatSystemPayload(SystemEvent{Timestamp: p.now(), Event: "RECONNECTED"})
		if err := p.publish(message{topic: TopicSystem, payload: payload, qos: 1}); err != nil {
			log.Printf("mqtt: reconnected event: %v", err)
		}
	}
}

// IsConnected reports whether the broker connection is currently up.
func (p *RealPublisher) IsConnected() bool {
	return p.client.IsConnectionOpen()
}

// Buffered returns the number of messages waiting for a connection.
func (p *RealPublisher) Buffered() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pending.len()
}

// Close disconnects from the broker.
func (p *RealPublisher) Close() error {
	p.client.Disconnect(1000) // 1 second timeout
	return nil
}
