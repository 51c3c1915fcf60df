// Package infra holds the adapters behind the planner's core interfaces:
// upstream HTTP and file sources, state backends, MQTT publishing, metrics
// sinks, Sentry reporting and logging.
package infra
