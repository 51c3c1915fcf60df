// Package events defines the planner events emitted on the event bus.
//
// Available event types:
//   - PlanEvent: a plan was generated
//   - ReadinessEvent: readiness records were refreshed
//   - FallbackEvent: a collaborator failed and its fallback was used
package events
