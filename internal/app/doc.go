// Package app wires configuration, logging, the analytics service and the
// HTTP transport into a runnable application with graceful shutdown.
package app
