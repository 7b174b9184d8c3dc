// Package automation drives the bench without a user: scripted scenarios
// loaded from YAML, one-parameter sweeps, and grid searches that minimize a
// named metric.
package automation
