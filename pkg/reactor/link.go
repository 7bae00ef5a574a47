package reactor

import "sync/atomic"

var nextLinkID atomic.Uint64

func newLinkID() uint64 {
	return nextLinkID.Add(1)
}

// Link is an executable dependency between declared input cells and an
// optional output cell. Links strongly own their inputs and output;
// cells hold only weak back-references to links (see CellHandle).
type Link struct {
	lid    uint64
	inputs []CellHandle
	output CellHandle // nil when the link has no output
	cb     func(ctx *Ctx)
}

// Register creates a link with the given inputs and optional output
// (pass nil for none) and the callback cb. Registration:
//
//  1. adds a weak back-reference to the new link in every input's
//     dependent set (and, if output is non-nil, in its writer set);
//  2. marks the link as pending first activation in ctx's graph, so it
//     fires at least once before the enclosing event scope returns,
//     regardless of whether any input was written.
//
// There is deliberately no arity-specific helper here (e.g. a
// "Link1"/"Link2" convenience) — the ergonomic link-declaration layer
// over this primitive is out of scope for this engine.
func Register(ctx *Ctx, inputs []CellHandle, output CellHandle, cb func(ctx *Ctx)) *Link {
	l := &Link{
		lid:    newLinkID(),
		inputs: append([]CellHandle(nil), inputs...),
		output: output,
		cb:     cb,
	}
	for _, in := range l.inputs {
		in.addDependent(l)
	}
	if l.output != nil {
		l.output.addWriter(l)
	}
	if debugLog != nil {
		debugLog("[reactor] link", l.lid, "registered with", len(l.inputs), "inputs")
	}
	ctx.noteNewLink(l)
	return l
}

// ID returns the link's stable identity.
func (l *Link) ID() uint64 { return l.lid }

// Unlink releases this link's strong references to its inputs and
// output and removes its back-references from them. After Unlink, the
// link is no longer reachable from the graph even if a stray strong
// reference to it survives client-side (the explicit-teardown
// teardown, in addition to weak-reference garbage collection).
func (l *Link) Unlink() {
	for _, in := range l.inputs {
		in.removeDependent(l)
	}
	if l.output != nil {
		l.output.removeWriter(l)
	}
	l.inputs = nil
	l.output = nil
	l.cb = nil
}
