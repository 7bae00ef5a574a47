package livetrace

import "github.com/recera/lunk/pkg/reactor"

// EventKind identifies which field of Event is populated.
type EventKind string

const (
	EventPassStart     EventKind = "pass_start"
	EventLinkActivated EventKind = "link_activated"
	EventSnapshot      EventKind = "snapshot"
)

// Event is the JSON frame broadcast to every connected inspector. Only
// the field matching Kind is populated; the others are the zero value
// and omitted by their "omitempty" tags.
type Event struct {
	Kind EventKind `json:"kind"`

	PassInvolved int `json:"pass_involved,omitempty"`
	PassLeaves   int `json:"pass_leaves,omitempty"`

	LinkID uint64 `json:"link_id,omitempty"`

	Snapshot *reactor.Data `json:"snapshot,omitempty"`
}
