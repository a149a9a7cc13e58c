// Package metrics records generation metrics behind a small Recorder
// interface.
//
// Components receive a Recorder through their options and default to
// NoopRecorder, so no call site needs a nil check:
//
//	gen := generate.New(module, store, generate.Options{
//	    Recorder: metrics.NewPrometheusRecorder(reg),
//	})
//
// The CLI activates the Prometheus implementation only when a metrics
// textfile is configured and writes the registry after the run with
// WriteTextfile, in the format the node exporter's textfile collector reads.
package metrics
