// Package meilisearch implements the search sink on a Meilisearch index.
//
// Documents are keyed by their "id" attribute. Every write is an
// asynchronous Meilisearch task; Upsert returns only once the task has
// finished, and a failed task surfaces as *domain.SinkRejectionError with
// the server's diagnostic fields.
package meilisearch
