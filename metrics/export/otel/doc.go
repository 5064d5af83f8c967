// Package otel bridges authpipe stage metrics into OpenTelemetry through
// observable instruments collected on the meter's schedule.
package otel
