package server

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
)

// DeltaSubscriber consumes delta payloads from a NATS subject and feeds
// them into the component, as an alternative to the HTTP /delta
// endpoint. The payload format is identical: a JSON array of changesets.
type DeltaSubscriber struct {
	component *Component
	conn      *nats.Conn
	sub       *nats.Subscription
}

// SubscribeDeltas connects to the NATS server and subscribes to the
// given subject.
func SubscribeDeltas(url, subject string, component *Component) (*DeltaSubscriber, error) {
	conn, err := nats.Connect(url, nats.Name("enrich-submission-service"))
	if err != nil {
		return nil, fmt.Errorf("connect to nats %s: %w", url, err)
	}

	s := &DeltaSubscriber{component: component, conn: conn}
	sub, err := conn.Subscribe(subject, s.handle)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("subscribe to %s: %w", subject, err)
	}
	s.sub = sub

	component.logger.Info("Subscribed to delta subject", "url", url, "subject", subject)
	return s, nil
}

func (s *DeltaSubscriber) handle(msg *nats.Msg) {
	var delta Delta
	if err := json.Unmarshal(msg.Data, &delta); err != nil {
		s.component.logger.Warn("Failed to decode delta message", "subject", msg.Subject, "error", err)
		return
	}
	s.component.ProcessDelta(context.Background(), delta)
}

// Close drains the subscription and closes the connection.
func (s *DeltaSubscriber) Close() {
	if s.sub != nil {
		_ = s.sub.Drain()
	}
	if s.conn != nil {
		s.conn.Close()
	}
}
