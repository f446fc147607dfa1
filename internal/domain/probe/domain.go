package probe

import "time"

// Endpoint is a candidate URL to probe.
type Endpoint string

// Result is the outcome of one probe attempt. StatusCode is set only when
// Reachable, Error only when not.
type Result struct {
	URL        string        `json:"url"`
	Reachable  bool          `json:"reachable"`
	StatusCode int           `json:"status,omitempty"`
	Error      string        `json:"error,omitempty"`
	Latency    time.Duration `json:"latency"`
	CheckedAt  time.Time     `json:"checked_at"`
}

// Run holds results in endpoint input order.
type Run []Result

func (r Run) Reachable() int {
	n := 0
	for _, res := range r {
		if res.Reachable {
			n++
		}
	}
	return n
}

func (r Run) Unreachable() int { return len(r) - r.Reachable() }

// DefaultTimeout applies when a probe is given no positive timeout.
const DefaultTimeout = 5 * time.Second

// DefaultEndpoints are the local development hosts a device or emulator
// usually reaches the backend through, plus one API path.
var DefaultEndpoints = []Endpoint{
	"http://localhost:8000",
	"http://127.0.0.1:8000",
	"http://10.0.2.2:8000",
	"http://192.168.1.100:8000",
	"http://localhost:8000/api/",
}
