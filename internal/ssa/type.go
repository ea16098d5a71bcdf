package ssa

// Type is the type of an SSA value.
type Type uint8

const (
	TypeInvalid Type = iota
	TypeFloat        // double
	TypeBool         // i1, only as a comparison result
)

func (t Type) String() string {
	switch t {
	case TypeFloat:
		return "double"
	case TypeBool:
		return "i1"
	}
	return "invalid"
}
