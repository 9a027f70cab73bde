// Package outcome defines the structured failure vocabulary shared by the
// backend adapters and the tool layer. Adapters never let a raw transport
// fault cross the tool boundary; every failure is mapped to an Error carrying
// one of the codes below so the planner can read and narrate it.
package outcome
