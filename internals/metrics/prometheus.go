package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "examplanner"

// Outcome labels for verdict counters.
const (
	OutcomeOK   = "ok"
	OutcomeSoft = "soft"
	OutcomeHard = "hard"
)

// Collector owns the planner's Prometheus metrics on a private registry.
type Collector struct {
	reg *prometheus.Registry

	verdicts      *prometheus.CounterVec
	exports       *prometheus.CounterVec
	versionOps    *prometheus.CounterVec
	httpRequests  *prometheus.CounterVec
	httpDurations *prometheus.HistogramVec
}

func New() *Collector {
	c := &Collector{
		reg: prometheus.NewRegistry(),
		verdicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "assignment",
			Name:      "verdicts_total",
			Help:      "Assignment verdicts by operation (validate, assign) and outcome.",
		}, []string{"op", "outcome"}),
		exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "export",
			Name:      "documents_total",
			Help:      "Generated exports by format and source (live, version).",
		}, []string{"format", "source"}),
		versionOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "version",
			Name:      "operations_total",
			Help:      "Calendar version operations (save, restore, delete).",
		}, []string{"op"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method and status code.",
		}, []string{"method", "status"}),
		httpDurations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by method.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"method"}),
	}
	c.reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		c.verdicts, c.exports, c.versionOps, c.httpRequests, c.httpDurations,
	)
	return c
}

// Default is the process-wide collector used by controllers and main.
var Default = New()

func (c *Collector) Registry() *prometheus.Registry { return c.reg }

func (c *Collector) ObserveVerdict(op string, valid, soft bool) {
	outcome := OutcomeOK
	switch {
	case !valid:
		outcome = OutcomeHard
	case soft:
		outcome = OutcomeSoft
	}
	c.verdicts.WithLabelValues(op, outcome).Inc()
}

func (c *Collector) ObserveExport(format string, fromVersion bool) {
	source := "live"
	if fromVersion {
		source = "version"
	}
	c.exports.WithLabelValues(format, source).Inc()
}

func (c *Collector) ObserveVersionOp(op string) {
	c.versionOps.WithLabelValues(op).Inc()
}

// Middleware records count and latency of every request. Route paths are
// left out of the labels to keep cardinality bounded.
func (c *Collector) Middleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		start := time.Now()
		err := ctx.Next()

		status := ctx.Response().StatusCode()
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		}
		method := ctx.Method()
		c.httpRequests.WithLabelValues(method, strconv.Itoa(status)).Inc()
		c.httpDurations.WithLabelValues(method).Observe(time.Since(start).Seconds())
		return err
	}
}

// Handler serves the registry in the Prometheus text format.
func (c *Collector) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{}))
}
