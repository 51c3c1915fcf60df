// Package metrics defines the sinks used to observe plan generation. Sinks
// like PromSink and InfluxSink record generated plans, source fallbacks and
// readiness counts, and can be combined with NewMultiSink. The factory helpers
// return a MultiSink automatically when multiple sinks are configured.
package metrics
