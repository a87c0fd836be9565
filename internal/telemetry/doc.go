// Package telemetry records alignment run history in a local SQLite file.
// All telemetry data is stored locally - no external reporting.
package telemetry
