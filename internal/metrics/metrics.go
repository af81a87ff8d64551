// internal/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "relay"

// NewRegistry returns a registry carrying Go runtime and process metrics.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// ---- GATEWAY ----

// Gateway holds gateway-side metrics.
// All methods are nil-safe so components run without metrics in tests.
type Gateway struct {
	NetworkConnected prometheus.Gauge
	BusConnected     prometheus.Gauge
	NetworkAttempts  prometheus.Counter
	BusAttempts      prometheus.Counter
	Forwarded        prometheus.Counter
	ForwardErrors    prometheus.Counter
	ForwardedBytes   prometheus.Counter
	InboxDropped     prometheus.Counter
}

// NewGateway creates and registers gateway metrics.
func NewGateway(reg prometheus.Registerer) *Gateway {
	g := &Gateway{
		NetworkConnected: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "network", Name: "connected",
			Help: "Network session state (1=connected, 0=not connected)",
		}),
		BusConnected: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "bus", Name: "connected",
			Help: "Bus session state (1=connected, 0=not connected)",
		}),
		NetworkAttempts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "network", Name: "attempts_total",
			Help: "Network association attempts",
		}),
		BusAttempts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "bus", Name: "attempts_total",
			Help: "Bus session establishment attempts",
		}),
		Forwarded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "forwarded_total",
			Help: "Bus messages written to the serial link",
		}),
		ForwardErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "forward_errors_total",
			Help: "Bus messages that failed to reach the serial link",
		}),
		ForwardedBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "forwarded_bytes_total",
			Help: "Bytes written to the serial link, terminators included",
		}),
		InboxDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "bus", Name: "inbox_dropped_total",
			Help: "Inbound bus messages dropped because the inbox was full",
		}),
	}

	reg.MustRegister(
		g.NetworkConnected,
		g.BusConnected,
		g.NetworkAttempts,
		g.BusAttempts,
		g.Forwarded,
		g.ForwardErrors,
		g.ForwardedBytes,
		g.InboxDropped,
	)
	return g
}

// ObserveState records the two session states.
func (g *Gateway) ObserveState(networkUp, busUp bool) {
	if g == nil {
		return
	}
	g.NetworkConnected.Set(boolGauge(networkUp))
	g.BusConnected.Set(boolGauge(busUp))
}

func (g *Gateway) NetworkAttempt() {
	if g != nil {
		g.NetworkAttempts.Inc()
	}
}

func (g *Gateway) BusAttempt() {
	if g != nil {
		g.BusAttempts.Inc()
	}
}

// ForwardOK counts one forwarded message of n bytes.
func (g *Gateway) ForwardOK(n int) {
	if g == nil {
		return
	}
	g.Forwarded.Inc()
	g.ForwardedBytes.Add(float64(n))
}

func (g *Gateway) ForwardFailed() {
	if g != nil {
		g.ForwardErrors.Inc()
	}
}

func (g *Gateway) Dropped() {
	if g != nil {
		g.InboxDropped.Inc()
	}
}

// ---- CONTROLLER ----

// Command results used as label values.
const (
	ResultOK        = "ok"
	ResultBadMotor  = "bad_motor"
	ResultBadLED    = "bad_led"
	ResultUnknown   = "unknown"
	ResultTruncated = "truncated"
)

// Controller holds controller-side metrics. Nil-safe.
type Controller struct {
	Commands      *prometheus.CounterVec
	OverflowBytes prometheus.Counter
}

func NewController(reg prometheus.Registerer) *Controller {
	c := &Controller{
		Commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "commands_total",
			Help: "Dispatched command lines by result",
		}, []string{"result"}),
		OverflowBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "overflow_bytes_total",
			Help: "Received bytes dropped because the command buffer was full",
		}),
	}
	reg.MustRegister(c.Commands, c.OverflowBytes)
	return c
}

func (c *Controller) Command(result string) {
	if c != nil {
		c.Commands.WithLabelValues(result).Inc()
	}
}

func (c *Controller) Overflow(n uint64) {
	if c != nil && n > 0 {
		c.OverflowBytes.Add(float64(n))
	}
}

func boolGauge(v bool) float64 {
	if v {
		return 1
	}
	return 0
}
