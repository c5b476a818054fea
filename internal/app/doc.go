// Package app bootstraps rollcall for one command invocation.
//
// NewApplication loads config.yaml, initialises logging and assembles the
// authenticated request pipeline, leaves first:
//
//	FileStore -> Terminator -> HTTPRenewer -> Coordinator -> Transport -> api.Client
//
// The renewer talks to the refresh endpoint with its own plain http.Client so
// that renewal never re-enters the pipeline. All pipeline metrics are
// registered on a per-application prometheus.Registry.
package app
