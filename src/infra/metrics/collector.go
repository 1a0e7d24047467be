package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// statsCollector turns pool snapshots into gauges at scrape time.
type statsCollector struct {
	source StatsSource

	open    *prometheus.Desc
	idle    *prometheus.Desc
	inUse   *prometheus.Desc
	waiting *prometheus.Desc
	max     *prometheus.Desc
	min     *prometheus.Desc
}

func newStatsCollector(namespace string, source StatsSource) *statsCollector {
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "pool", name), help, []string{"pool"}, nil)
	}
	return &statsCollector{
		source:  source,
		open:    desc("open_connections", "Open connections, including ones being created"),
		idle:    desc("idle_connections", "Idle connections"),
		inUse:   desc("in_use_connections", "Checked-out connections"),
		waiting: desc("waiting_acquires", "Callers waiting for a connection"),
		max:     desc("max_connections", "Configured upper bound"),
		min:     desc("min_connections", "Configured lower bound"),
	}
}

func (c *statsCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.open
	ch <- c.idle
	ch <- c.inUse
	ch <- c.waiting
	ch <- c.max
	ch <- c.min
}

func (c *statsCollector) Collect(ch chan<- prometheus.Metric) {
	for _, s := range c.source.Stats() {
		ch <- prometheus.MustNewConstMetric(c.open, prometheus.GaugeValue, float64(s.Open), s.Name)
		ch <- prometheus.MustNewConstMetric(c.idle, prometheus.GaugeValue, float64(s.Idle), s.Name)
		ch <- prometheus.MustNewConstMetric(c.inUse, prometheus.GaugeValue, float64(s.InUse), s.Name)
		ch <- prometheus.MustNewConstMetric(c.waiting, prometheus.GaugeValue, float64(s.Waiting), s.Name)
		ch <- prometheus.MustNewConstMetric(c.max, prometheus.GaugeValue, float64(s.Max), s.Name)
		ch <- prometheus.MustNewConstMetric(c.min, prometheus.GaugeValue, float64(s.Min), s.Name)
	}
}
