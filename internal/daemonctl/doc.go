// Package daemonctl launches, stops, and inspects the background daemon on
// behalf of CLI commands.
package daemonctl
