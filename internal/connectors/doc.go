// Package connectors groups the issue tracker integrations. Each
// subpackage implements driven.Tracker for one tracker; github is the only
// one today.
package connectors
