// Package app wires stores, services and the relay client into the
// dependency graph the CLI consumes.
package app
