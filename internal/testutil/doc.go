// Package testutil holds the integration test harness: it writes scene files
// to a temporary directory, runs a full App against them and captures what the
// App wrote.
package testutil
