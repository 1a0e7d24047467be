package pool

import "sync/atomic"

type counter struct {
	v atomic.Int64
}

func (c *counter) inc() int64 {
	return c.v.Add(1)
}

func (c *counter) val() int64 {
	return c.v.Load()
}

type stats struct {
	request      counter
	success      counter
	timeout      counter
	created      counter
	createFailed counter
	destroyed    counter
}

func newStats() *stats {
	return &stats{}
}

func (s *stats) fill(out *Stats) {
	out.Requests = s.request.val()
	out.Successes = s.success.val()
	out.Timeouts = s.timeout.val()
	out.Created = s.created.val()
	out.CreateFailed = s.createFailed.val()
	out.Destroyed = s.destroyed.val()
}

// Stats is a point-in-time view of a pool.
type Stats struct {
	Name    string `json:"name"`
	Min     int    `json:"min"`
	Max     int    `json:"max"`
	Open    int    `json:"open"`
	Idle    int    `json:"idle"`
	InUse   int    `json:"in_use"`
	Waiting int    `json:"waiting"`
	Closed  bool   `json:"closed"`

	Requests     int64 `json:"requests"`
	Successes    int64 `json:"successes"`
	Timeouts     int64 `json:"timeouts"`
	Created      int64 `json:"created"`
	CreateFailed int64 `json:"create_failed"`
	Destroyed    int64 `json:"destroyed"`
}

// Available returns the number of connections Acquire could still hand out
// without waiting: idle ones plus unopened capacity.
func (s Stats) Available() int {
	return s.Idle + s.Max - s.Open
}
