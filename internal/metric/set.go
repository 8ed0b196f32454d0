package metric

import (
	"encoding/json"
	"sort"
)

// ValueSet is an ordered, deduplicated collection of Values. Ordering and
// deduplication both follow Value.Compare, so values of different kinds
// (including NaN floats) behave deterministically. The zero value is an
// empty set ready for use.
type ValueSet struct {
	values []Value
}

// NewValueSet builds a set from the given values.
func NewValueSet(values ...Value) ValueSet {
	var s ValueSet
	for _, v := range values {
		s.Add(v)
	}
	return s
}

// Add inserts v, keeping the set sorted. Duplicates are ignored.
func (s *ValueSet) Add(v Value) {
	i := sort.Search(len(s.values), func(i int) bool {
		return s.values[i].Compare(v) >= 0
	})
	if i < len(s.values) && s.values[i].Equal(v) {
		return
	}
	s.values = append(s.values, Value{})
	copy(s.values[i+1:], s.values[i:])
	s.values[i] = v
}

// AddAll inserts every value of o.
func (s *ValueSet) AddAll(o ValueSet) {
	for _, v := range o.values {
		s.Add(v)
	}
}

// Contains reports whether v is a member.
func (s ValueSet) Contains(v Value) bool {
	i := sort.Search(len(s.values), func(i int) bool {
		return s.values[i].Compare(v) >= 0
	})
	return i < len(s.values) && s.values[i].Equal(v)
}

// Len returns the number of distinct members.
func (s ValueSet) Len() int { return len(s.values) }

// Values returns the members in ascending order. The slice is shared; the
// caller must not mutate it.
func (s ValueSet) Values() []Value { return s.values }

// Equal reports whether both sets hold the same members.
func (s ValueSet) Equal(o ValueSet) bool {
	if len(s.values) != len(o.values) {
		return false
	}
	for i, v := range s.values {
		if !v.Equal(o.values[i]) {
			return false
		}
	}
	return true
}

// Clone returns an independent copy.
func (s ValueSet) Clone() ValueSet {
	out := make([]Value, len(s.values))
	copy(out, s.values)
	return ValueSet{values: out}
}

// MarshalJSON encodes the set as a sorted JSON array.
func (s ValueSet) MarshalJSON() ([]byte, error) {
	if s.values == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s.values)
}
