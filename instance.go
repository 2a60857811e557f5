package functrace

import (
	"os"

	"github.com/google/uuid"
)

// Instance identifies the reporting process. It is built once at startup
// and read-only afterwards, so it needs no locking.
type Instance struct {
	Hostname string `json:"hostname"`
	ID       string `json:"id"`
}

// NewInstance returns instance metadata with the machine hostname and a
// process-lifetime-stable random identifier.
func NewInstance() Instance {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}
	return Instance{
		Hostname: hostname,
		ID:       uuid.NewString(),
	}
}
