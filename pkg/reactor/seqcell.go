package reactor

// SeqCell is a Cell specialized for sequence values. It exposes
// splice/insert/remove in addition to Get/Set, each of which mutates
// the underlying slice and registers a dirty root if the mutation
// actually changed the sequence's content. The equality
// check still applies to the whole value; SeqCell does not attempt
// element-level dirty tracking (a deliberate choice, resolved here
// in favor of the simpler atomic-cell model).
type SeqCell[T any] struct {
	*Cell[[]T]
}

// NewSeqCell wraps a slice value in a SeqCell. eq defaults to a
// length+element comparison via reflect.DeepEqual through Cell's
// normal default; pass WithEqual to override.
func NewSeqCell[T any](initial []T, opts ...CellOption[[]T]) *SeqCell[T] {
	return &SeqCell[T]{Cell: NewCell(append([]T(nil), initial...), opts...)}
}

// Splice removes deleteCount elements starting at start and inserts
// items in their place, following the semantics of JavaScript's
// Array.prototype.splice. It registers a dirty root iff the resulting
// slice differs from the previous one under the cell's equality
// predicate.
func (s *SeqCell[T]) Splice(ctx *Ctx, start, deleteCount int, items ...T) {
	cur := s.Cell.Get()
	if start < 0 {
		start += len(cur)
		if start < 0 {
			start = 0
		}
	}
	if start > len(cur) {
		start = len(cur)
	}
	end := start + deleteCount
	if end < start {
		end = start
	}
	if end > len(cur) {
		end = len(cur)
	}

	next := make([]T, 0, len(cur)-(end-start)+len(items))
	next = append(next, cur[:start]...)
	next = append(next, items...)
	next = append(next, cur[end:]...)

	s.Cell.Set(ctx, next)
}

// Insert inserts items at index, equivalent to Splice(ctx, index, 0, items...).
func (s *SeqCell[T]) Insert(ctx *Ctx, index int, items ...T) {
	s.Splice(ctx, index, 0, items...)
}

// Remove deletes count elements starting at index, equivalent to
// Splice(ctx, index, count).
func (s *SeqCell[T]) Remove(ctx *Ctx, index, count int) {
	s.Splice(ctx, index, count)
}
