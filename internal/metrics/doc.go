// Package metrics records build and stage metrics.
//
// Components receive a Recorder and default to NoopRecorder, so metrics cost
// nothing unless a PrometheusRecorder is injected:
//
//	reg := prometheus.NewRegistry()
//	rec := metrics.NewPrometheusRecorder(reg)
//	result, err := site.NewService().WithRecorder(rec).Run(ctx, site.Request{Config: cfg})
//	_ = metrics.WriteTextfile("build.prom", reg)
//
// There is no long-running process to scrape, so metrics are exported as a
// Prometheus textfile for the node exporter's textfile collector.
package metrics
