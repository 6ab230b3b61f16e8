/*
Package observability provides tools for monitoring the Dreamboard slots.

It exposes Prometheus metrics fed from slot lifecycle hooks: triggers, settled
outcomes per error kind, request latency, in-flight requests and discarded late
results.
*/
package observability
