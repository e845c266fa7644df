// Package gateway adapts the firm's domain services to Discord. It owns
// the websocket session, slash command registration and routing, and the
// side-effect adapters (role sync, channel scaffolding, message upserts)
// the service layer depends on through interfaces.
//
// Every command runs through an ordered middleware pipeline before its
// handler body executes; validation failures answer the interaction
// directly and the handler never runs.
package gateway
