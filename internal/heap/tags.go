// Package heap implements the heap object model that sits at the center of
// the runtime core: the type-tag set, boxed primitives, composite
// constructors/destructors, the reference-count protocol that dispatches on
// those tags, and the minimal persistent set (spec.md §3-§4.6). It is built
// directly on internal/allocator for the header-prefixed payload and on
// internal/layout for payload sizing.
package heap

// Tag is the closed set of heap object variants a destructor can dispatch
// on (spec.md §3). The numeric values match the original reml_type_tag_t
// exactly so the embedding ABI's binary layout (spec.md §6) is unchanged.
type Tag uint32

const (
	TagInt     Tag = 1
	TagFloat   Tag = 2
	TagBool    Tag = 3
	TagString  Tag = 4
	TagTuple   Tag = 5
	TagRecord  Tag = 6
	TagClosure Tag = 7
	TagADT     Tag = 8
	TagSet     Tag = 9
	TagChar    Tag = 10
	TagArray   Tag = 11
)

func (t Tag) String() string {
	switch t {
	case TagInt:
		return "int"
	case TagFloat:
		return "float"
	case TagBool:
		return "bool"
	case TagString:
		return "string"
	case TagTuple:
		return "tuple"
	case TagRecord:
		return "record"
	case TagClosure:
		return "closure"
	case TagADT:
		return "adt"
	case TagSet:
		return "set"
	case TagChar:
		return "char"
	case TagArray:
		return "array"
	default:
		return "unknown"
	}
}
