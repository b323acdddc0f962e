// Package testutil is the integration test harness: it writes HCL documents
// to a temporary directory, loads them the way the CLI does and drives a
// local session against the result.
package testutil
