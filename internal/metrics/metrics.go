// Package metrics exports generation statistics to Prometheus.
package metrics

import (
	"context"
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"smartrockets/internal/ga"
)

// Collector owns a private registry so several runs can coexist in one process
type Collector struct {
	registry *prometheus.Registry

	generation  prometheus.Gauge
	successRate prometheus.Gauge
	bestFitness prometheus.Gauge
	meanFitness prometheus.Gauge
	rockets     *prometheus.CounterVec
}

// NewCollector creates and registers all collectors
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		generation: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "smartrockets_generation",
			Help: "Generation whose results were recorded last.",
		}),
		successRate: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "smartrockets_success_rate",
			Help: "Fraction of rockets that reached the target in the last generation.",
		}),
		bestFitness: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "smartrockets_best_fitness",
			Help: "Highest fitness in the last generation.",
		}),
		meanFitness: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "smartrockets_mean_fitness",
			Help: "Mean fitness in the last generation.",
		}),
		rockets: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "smartrockets_rockets_total",
			Help: "Finished rockets by outcome.",
		}, []string{"outcome"}),
	}
	c.registry.MustRegister(c.generation, c.successRate, c.bestFitness, c.meanFitness, c.rockets)
	return c
}

// Record updates the collectors from a generation summary
func (c *Collector) Record(_ context.Context, s ga.Summary) error {
	c.generation.Set(float64(s.Generation))
	c.successRate.Set(s.SuccessRate)
	c.bestFitness.Set(s.BestFitness)
	c.meanFitness.Set(s.MeanFitness)
	c.rockets.WithLabelValues("hit").Add(float64(s.Outcomes.Hits))
	c.rockets.WithLabelValues("crashed").Add(float64(s.Outcomes.Crashes))
	c.rockets.WithLabelValues("exhausted").Add(float64(s.Outcomes.Exhausted))
	return nil
}

// Registry exposes the underlying registry
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus text format
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is cancelled
func (c *Collector) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		<-ctx.Done()
		_ = srv.Close()
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
