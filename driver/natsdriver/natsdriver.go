// Package natsdriver publishes trace reports to a NATS subject, one JSON
// message per reporting tick.
package natsdriver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/torosent/functrace"
)

// DefaultSubject is used when no subject is configured.
const DefaultSubject = "functrace.reports"

// Driver ships reports over a NATS connection.
type Driver struct {
	nc       *nats.Conn
	subject  string
	ownsConn bool
}

// New connects to the NATS server at url and returns a driver publishing
// to subject. Close releases the connection.
func New(url, subject string) (*Driver, error) {
	nc, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("natsdriver: connect %s: %w", url, err)
	}
	d := FromConn(nc, subject)
	d.ownsConn = true
	return d, nil
}

// FromConn wraps an existing connection. The caller keeps ownership of nc;
// Close will not touch it.
func FromConn(nc *nats.Conn, subject string) *Driver {
	if subject == "" {
		subject = DefaultSubject
	}
	return &Driver{nc: nc, subject: subject}
}

// Emit publishes the report as JSON.
func (d *Driver) Emit(_ context.Context, report *functrace.Report) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("natsdriver: marshal report: %w", err)
	}
	if err := d.nc.Publish(d.subject, data); err != nil {
		return fmt.Errorf("natsdriver: publish %s: %w", d.subject, err)
	}
	return nil
}

// Close drains and closes the connection if the driver opened it.
func (d *Driver) Close() {
	if d.ownsConn && d.nc != nil {
		_ = d.nc.Drain()
	}
}
