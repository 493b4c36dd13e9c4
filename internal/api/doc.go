// Package api implements the HTTP REST API and WebSocket server of the
// target platform service.
//
// This package provides:
//   - REST endpoints over the target module: variants, devices, settings,
//     feature and toolchain queries, and format negotiation
//   - The recorded device event history
//   - A WebSocket hub broadcasting device.discovered and device.lost events
//   - Prometheus metrics at /metrics
//   - Middleware stack (request ID, logging, recovery, metrics, CORS)
//
// # Architecture
//
// The server sits between the cook pipeline and the target module. Every
// request names a variant; the first request for a variant creates its
// target. Device events reach the WebSocket hub and the metrics through
// the relay package: Hub and Metrics both implement relay.Sink.
//
//	srv, err := api.New(deps)
//	rel.AddSink("websocket", srv.Hub())
//	rel.AddSink("metrics", srv.Metrics())
//	srv.Start(ctx)
//	defer srv.Close()
//
// Passwords are accepted on write and never returned.
package api
