package types

// slot is one entry in the union-find forest backing Subs. parent
// points at an ancestor toward the representative; content is only
// meaningful when read from the representative (root) slot.
type slot struct {
	parent  Variable
	rank    int
	content Content
}

// Subs is the union-find substitution table: it maps Variables to
// Content and supports merging two variables as equivalent. Created
// once per module solve, mutated by the solver, then read by the
// exporter and emitter.
type Subs struct {
	slots []slot
}

// NewSubs returns an empty Subs.
func NewSubs() *Subs {
	return &Subs{}
}

// Fresh allocates a new Variable with the given initial Content.
func (s *Subs) Fresh(content Content) Variable {
	v := Variable(len(s.slots))
	s.slots = append(s.slots, slot{parent: v, rank: 0, content: content})
	return v
}

// Len reports how many variables have been allocated.
func (s *Subs) Len() int {
	return len(s.slots)
}

// root finds v's representative, compressing the path if compact is
// true. GetWithoutCompacting needs the uncompressed variant so
// diagnostics can observe the union-find structure as it actually is.
func (s *Subs) root(v Variable, compact bool) Variable {
	if s.slots[v].parent == v {
		return v
	}
	r := s.root(s.slots[v].parent, compact)
	if compact {
		s.slots[v].parent = r
	}
	return r
}

// Root returns v's union-find representative, path-compressing along
// the way. Two variables are equivalent (already unified) exactly
// when Root returns the same Variable for both.
func (s *Subs) Root(v Variable) Variable {
	return s.root(v, true)
}

// Get returns v's current Content, path-compressing along the way.
func (s *Subs) Get(v Variable) Content {
	r := s.root(v, true)
	return s.slots[r].content
}

// GetWithoutCompacting returns v's current Content without mutating
// any parent pointers.
func (s *Subs) GetWithoutCompacting(v Variable) Content {
	r := s.root(v, false)
	return s.slots[r].content
}

// ContentAt returns the Content stored directly at v, without
// following the union-find chain. Correct only when v is known to be
// its own representative - true of every variable in a freshly built
// StorageSubs, since storage.ImportVariableFrom never calls Union.
func (s *Subs) ContentAt(v Variable) Content {
	return s.slots[v].content
}

// SetContent replaces the Content at v's representative.
func (s *Subs) SetContent(v Variable, content Content) {
	r := s.root(v, true)
	s.slots[r].content = content
}

// Union merges a and b into one equivalence class. The narrower
// representation absorbs into the wider: the shallower tree is grafted
// onto the deeper one by rank, and the surviving root's Content is
// replaced by whichever side's Content is "wider" per contentWidth -
// FlexVar < Structure < Alias < RigidVar < ErrorContent. A merge never
// replaces a RigidVar with a FlexVar, Structure or Alias; the solver's
// mismatch path does replace one with ErrorContent.
func (s *Subs) Union(a, b Variable) {
	ra, rb := s.root(a, true), s.root(b, true)
	if ra == rb {
		return
	}

	winner, loser := ra, rb
	if contentWidth(s.slots[rb].content) > contentWidth(s.slots[ra].content) {
		winner, loser = rb, ra
	}

	// Attach the shallower tree under the deeper one by rank, but the
	// surviving Content always comes from winner regardless of which
	// tree ends up on top - rank only bounds find() depth.
	if s.slots[ra].rank < s.slots[rb].rank {
		s.slots[ra].parent = rb
		s.mergeInto(rb, winner, loser)
	} else if s.slots[ra].rank > s.slots[rb].rank {
		s.slots[rb].parent = ra
		s.mergeInto(ra, winner, loser)
	} else {
		s.slots[rb].parent = ra
		s.slots[ra].rank++
		s.mergeInto(ra, winner, loser)
	}
}

func (s *Subs) mergeInto(survivor, winner, loser Variable) {
	s.slots[survivor].content = s.slots[winner].content
	_ = loser
}

// contentWidth ranks Content by how constrained it is: a FlexVar
// carries no information (narrowest), a Structure carries concrete
// shape, and Alias, RigidVar and ErrorContent rank above it in that
// order, so a merge of two different kinds keeps the higher-ranked one.
func contentWidth(c Content) int {
	switch c.(type) {
	case FlexVar:
		return 0
	case Structure:
		return 1
	case Alias:
		return 2
	case RigidVar:
		return 3
	case ErrorContent:
		return 4
	default:
		return 1
	}
}
