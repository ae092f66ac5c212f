package events

import (
	"fmt"
	"log"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"

	"github.com/avolkau/ringmaster/internal/config"
)

// natsPublisher publishes events to a NATS broker, either an external one or
// an in-process embedded server.
type natsPublisher struct {
	conn *nats.Conn
	srv  *server.Server // non-nil when embedded
}

// NewNATS connects a publisher according to the events configuration. When
// cfg.Embedded is set, an in-process nats-server is started and the client
// connects to it directly without a listening socket. Returns a no-op
// publisher when neither a URL nor the embedded flag is configured.
func NewNATS(cfg config.EventsConfig) (Publisher, error) {
	if cfg.NATSURL == "" && !cfg.Embedded {
		return Nop(), nil
	}

	var (
		srv  *server.Server
		conn *nats.Conn
		err  error
	)

	if cfg.Embedded {
		srv, err = server.NewServer(&server.Options{DontListen: true})
		if err != nil {
			return nil, fmt.Errorf("creating embedded nats server: %w", err)
		}
		go srv.Start()
		if !srv.ReadyForConnections(5 * time.Second) {
			srv.Shutdown()
			return nil, fmt.Errorf("embedded nats server did not become ready")
		}
		conn, err = nats.Connect("", nats.InProcessServer(srv))
	} else {
		conn, err = nats.Connect(cfg.NATSURL,
			nats.RetryOnFailedConnect(true),
			nats.MaxReconnects(-1),
		)
	}
	if err != nil {
		if srv != nil {
			srv.Shutdown()
		}
		return nil, fmt.Errorf("connecting to nats: %w", err)
	}

	return &natsPublisher{conn: conn, srv: srv}, nil
}

// Publish sends a JSON-encoded event. Delivery failures are logged and
// otherwise ignored.
func (p *natsPublisher) Publish(subject string, payload any) {
	data, ok := marshalPayload(subject, payload)
	if !ok {
		return
	}
	if err := p.conn.Publish(subject, data); err != nil {
		log.Printf("Failed to publish %s: %v", subject, err)
	}
}

// Close drains the connection and stops the embedded server if one is running
func (p *natsPublisher) Close() {
	if err := p.conn.Drain(); err != nil {
		p.conn.Close()
	}
	if p.srv != nil {
		p.srv.Shutdown()
		p.srv.WaitForShutdown()
	}
}
