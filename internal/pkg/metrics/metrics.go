// Package metrics coleta e expõe métricas Prometheus do backend.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder é o contrato usado por serviços e middlewares.
type Recorder interface {
	ObserveHTTPRequest(method, route string, status int, duration time.Duration)
	RecordLogin(outcome string)
	RecordRegistration(outcome string)
	RecordReservationCreated()
	RecordTokenRejected(reason string)
	RecordRateLimited(route string)
}

// Resultados usados nos rótulos "outcome".
const (
	OutcomeSuccess   = "success"
	OutcomeInvalid   = "invalid"
	OutcomeDuplicate = "duplicate"
	OutcomeError     = "error"
)

// Collector implementa Recorder sobre contadores e histogramas Prometheus.
type Collector struct {
	httpRequests      *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
	logins            *prometheus.CounterVec
	registrations     *prometheus.CounterVec
	reservations      prometheus.Counter
	tokensRejected    *prometheus.CounterVec
	rateLimitRejected *prometheus.CounterVec
}

// NewCollector cria o Collector e registra as métricas no registry informado.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "seaconnector_http_requests_total",
			Help: "Total de requisições HTTP por método, rota e status",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "seaconnector_http_request_duration_seconds",
			Help:    "Latência das requisições HTTP (segundos)",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "seaconnector_logins_total",
			Help: "Tentativas de login por resultado",
		}, []string{"outcome"}),
		registrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "seaconnector_registrations_total",
			Help: "Tentativas de registro por resultado",
		}, []string{"outcome"}),
		reservations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "seaconnector_reservations_created_total",
			Help: "Reservas criadas",
		}),
		tokensRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "seaconnector_tokens_rejected_total",
			Help: "Requisições barradas pelo middleware de autenticação",
		}, []string{"reason"}),
		rateLimitRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "seaconnector_rate_limited_total",
			Help: "Requisições rejeitadas por rate limit",
		}, []string{"route"}),
	}

	reg.MustRegister(
		c.httpRequests,
		c.httpDuration,
		c.logins,
		c.registrations,
		c.reservations,
		c.tokensRejected,
		c.rateLimitRejected,
	)

	return c
}

func (c *Collector) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func (c *Collector) RecordLogin(outcome string) {
	c.logins.WithLabelValues(outcome).Inc()
}

func (c *Collector) RecordRegistration(outcome string) {
	c.registrations.WithLabelValues(outcome).Inc()
}

func (c *Collector) RecordReservationCreated() {
	c.reservations.Inc()
}

func (c *Collector) RecordTokenRejected(reason string) {
	c.tokensRejected.WithLabelValues(reason).Inc()
}

func (c *Collector) RecordRateLimited(route string) {
	c.rateLimitRejected.WithLabelValues(route).Inc()
}

// Handler expõe o registry no formato de exposição do Prometheus.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Nop descarta todas as observações.
type Nop struct{}

func (Nop) ObserveHTTPRequest(string, string, int, time.Duration) {}
func (Nop) RecordLogin(string)                                    {}
func (Nop) RecordRegistration(string)                             {}
func (Nop) RecordReservationCreated()                             {}
func (Nop) RecordTokenRejected(string)                            {}
func (Nop) RecordRateLimited(string)                              {}
