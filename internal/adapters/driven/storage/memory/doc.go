// Package memory provides in-memory implementations of the driven storage
// ports. They back unit tests and dry runs; nothing is persisted.
package memory
