// Package metrics records build and stage measurements.
//
// Components receive a Recorder and default to NoopRecorder, so metrics cost
// nothing unless a PrometheusRecorder is injected. The preview server exposes
// the Prometheus registry on /metrics.
package metrics
