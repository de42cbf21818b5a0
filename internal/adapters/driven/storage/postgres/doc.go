// Package postgres provides a PostgreSQL-backed checkpoint and run store
// for deployments where several hosts share one sync state.
//
// It uses sqlx over lib/pq. Item IDs are stored in BIGINT columns by bit
// reinterpretation (see domain.StorageID). The schema is applied from
// embedded migrations on open.
package postgres
