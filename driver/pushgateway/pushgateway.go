// Package pushgateway ships trace reports to a Prometheus pushgateway as
// text-format gauges.
//
// Each window stat becomes a gauge named
// "<job>:<identity>_<stat>" with characters outside the Prometheus metric
// alphabet replaced by underscores.
package pushgateway

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/torosent/functrace"
)

const defaultTimeout = 10 * time.Second

// Driver POSTs reports to <base>/metrics/job/<job>.
type Driver struct {
	job    string
	url    string
	client *http.Client
}

// New creates a driver for the pushgateway at baseURL, publishing under
// the given job name.
func New(job, baseURL string) *Driver {
	return &Driver{
		job:    job,
		url:    strings.TrimRight(baseURL, "/") + "/metrics/job/" + job,
		client: &http.Client{Timeout: defaultTimeout},
	}
}

// Emit renders the report as text-format gauges and pushes it.
func (d *Driver) Emit(ctx context.Context, report *functrace.Report) error {
	body := d.render(report)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.url, strings.NewReader(body))
	if err != nil {
		return fmt.Errorf("pushgateway: build request: %w", err)
	}
	req.Header.Set("Content-Type", "text/plain; version=0.0.4")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("pushgateway: push to %s: %w", d.url, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("pushgateway: push to %s: unexpected status %s", d.url, resp.Status)
	}
	return nil
}

func (d *Driver) render(report *functrace.Report) string {
	var lines []string

	identities := make([]string, 0, len(report.Traces))
	for identity := range report.Traces {
		identities = append(identities, identity)
	}
	sort.Strings(identities)

	for _, identity := range identities {
		name := metricName(d.job + ":" + identity)
		windows := report.Traces[identity]

		keys := make([]string, 0, len(windows))
		for key := range windows {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		for _, key := range keys {
			stats := windows[key]
			for _, stat := range []struct {
				suffix string
				value  float64
			}{
				{"count", float64(stats.Count)},
				{"avg", stats.Avg},
				{"min", stats.Min},
				{"max", stats.Max},
			} {
				lines = append(lines, fmt.Sprintf("# TYPE %s_%s gauge", name, stat.suffix))
				lines = append(lines, fmt.Sprintf("%s_%s %0.2f", name, stat.suffix, stat.value))
			}
		}
	}

	// The gateway requires a trailing empty line.
	lines = append(lines, "")
	return strings.Join(lines, "\n")
}

// metricName maps arbitrary identities onto the Prometheus metric
// alphabet [a-zA-Z0-9_:].
func metricName(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_', r == ':':
			b.WriteRune(r)
		case r >= '0' && r <= '9' && i > 0:
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
