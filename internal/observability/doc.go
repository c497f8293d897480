// Package observability builds the service's zap logger and the Prometheus
// collectors recorded by the doctor gate.
package observability
