// Package ssr evaluates route traces against structural safety gates and ranks
// the routes that pass.
//
// # Reading Guide
//
// Start with these files to follow a route from disk to ranking:
//   - trace.go: column-source resolution and cell coercion (RouteTrace, Sample)
//   - metrics.go: structural coordinates, step costs, path lengths, robust stats
//   - gate.go: permission and spike gates combined under a deny policy
//   - rank.go: allowed/denied partition and stable ranking
//   - pipeline.go: Run ties the stages together for one RunConfig
//
// # Architecture
//
// Every stage is a pure function of its inputs plus an explicit configuration
// value; there is no package-level mutable state. Rendering lives in
// ssr/report and fixture synthesis in ssr/tracegen.
package ssr
