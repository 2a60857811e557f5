package natsdriver_test

import (
	"testing"

	"github.com/torosent/functrace/driver/natsdriver"
)

func TestNewConnectError(t *testing.T) {
	if _, err := natsdriver.New("nats://127.0.0.1:1", ""); err == nil {
		t.Error("New() = nil error for unreachable server, want error")
	}
}

func TestFromConnDefaultsSubject(t *testing.T) {
	d := natsdriver.FromConn(nil, "")
	if d == nil {
		t.Fatal("FromConn returned nil")
	}
	// Close must be a no-op for a borrowed (even nil) connection.
	d.Close()
}
