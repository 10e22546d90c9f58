// Package server exposes the HTTP surface: token capture and refresh
// endpoints for trusted backend callers, health probes, and Prometheus
// metrics.
package server
