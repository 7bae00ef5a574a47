// Package anim implements the engine's Animator: a collaborator that
// drives time-based writes into scalar cells, one event scope per
// frame, independent of the link-activation machinery in pkg/reactor.
package anim
