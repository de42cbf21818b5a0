// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// Services are pure Go with no CGO. The synchronisation engine is
// strictly sequential: one page fetch, then one comment fetch per item,
// one sink write and one checkpoint write, repeated. Pacing of tracker
// calls belongs to the PagedSource adapter.
package services
