// Package reactor implements a synchronous, single-threaded reactive
// event-graph: typed Cells with declared-dependency Links, scheduled
// across cycle-tolerant passes inside an EventGraph's event scopes.
package reactor
