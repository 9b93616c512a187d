package depot

import (
	"iter"
	"slices"
	"strconv"
	"strings"
)

// Signature is the canonical form of a component set: ids sorted ascending
// with duplicates removed, so set-equal signatures compare equal.
type Signature struct {
	ids []ComponentID
}

func NewSignature(ids ...ComponentID) Signature {
	sorted := slices.Clone(ids)
	slices.Sort(sorted)
	return Signature{ids: slices.Compact(sorted)}
}

// SignatureOf returns the signature formed by the keys of values.
func SignatureOf(values Values) Signature {
	ids := make([]ComponentID, 0, len(values))
	for id := range values {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return Signature{ids: ids}
}

func (s Signature) Len() int {
	return len(s.ids)
}

// IDs returns a copy of the component ids in ascending order.
func (s Signature) IDs() []ComponentID {
	return slices.Clone(s.ids)
}

func (s Signature) All() iter.Seq[ComponentID] {
	return slices.Values(s.ids)
}

func (s Signature) Contains(id ComponentID) bool {
	_, found := slices.BinarySearch(s.ids, id)
	return found
}

// Index returns the position of id within the signature, or -1.
func (s Signature) Index(id ComponentID) int {
	i, found := slices.BinarySearch(s.ids, id)
	if !found {
		return -1
	}
	return i
}

// ContainsAll reports whether s is a superset of other.
func (s Signature) ContainsAll(other Signature) bool {
	for _, id := range other.ids {
		if !s.Contains(id) {
			return false
		}
	}
	return true
}

func (s Signature) Equal(other Signature) bool {
	return slices.Equal(s.ids, other.ids)
}

// With returns s ∪ {id}.
func (s Signature) With(id ComponentID) Signature {
	i, found := slices.BinarySearch(s.ids, id)
	if found {
		return s
	}
	return Signature{ids: slices.Insert(slices.Clone(s.ids), i, id)}
}

// Without returns s minus {id}.
func (s Signature) Without(id ComponentID) Signature {
	i, found := slices.BinarySearch(s.ids, id)
	if !found {
		return s
	}
	return Signature{ids: slices.Delete(slices.Clone(s.ids), i, i+1)}
}

func (s Signature) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, id := range s.ids {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatUint(uint64(id), 10))
	}
	b.WriteByte('}')
	return b.String()
}
