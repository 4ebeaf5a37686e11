// Package observability provides the append-only event log, the in-process
// notification feed, metrics derived from engine events, and optional
// external alert delivery.
package observability
