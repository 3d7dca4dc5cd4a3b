package generator

import "fmt"

// UnknownTypeError is raised when a descriptor references a field type the
// emitter cannot categorize into a wire type.
type UnknownTypeError struct {
	Message string
	Field   string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("unknown type for field %s.%s", e.Message, e.Field)
}

// CapacityError is raised when a message declares more presence-bearing
// fields than fit in the bitmask.
type CapacityError struct {
	Message string
	Count   int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("message %s declares %d presence-bearing fields, exceeding the %d-bit capacity", e.Message, e.Count, maxPresenceBits)
}

// maxPresenceBits is the width of the presence bitmask. The LUT may assign
// indices 0..maxPresenceBits-1.
const maxPresenceBits = 62

// maxFieldNumber is the top of the field-number range spec.md §3 allows
// (1..2^30-1), enforced only when Config.StrictFieldNumbers is set.
const maxFieldNumber = 1<<30 - 1

// FieldNumberError is raised (under Config.StrictFieldNumbers) when a field
// number falls outside the valid 1..2^30-1 range.
type FieldNumberError struct {
	Message string
	Field   string
	Number  int32
}

func (e *FieldNumberError) Error() string {
	return fmt.Sprintf("field %s.%s has field number %d, outside the valid 1..%d range", e.Message, e.Field, e.Number, maxFieldNumber)
}

// FieldOrderError is raised (unless Config.AllowNonMonotonicFields is set)
// when a message's fields are not in strictly increasing field-number
// order relative to descriptor order.
type FieldOrderError struct {
	Message string
	Field   string
	Number  int32
	Prev    int32
}

func (e *FieldOrderError) Error() string {
	return fmt.Sprintf("field %s.%s has field number %d, not greater than the preceding field's %d", e.Message, e.Field, e.Number, e.Prev)
}

// EnumValueError is raised (under Config.StrictEnumValidation) when a
// proto3 enum's first declared value is not numbered 0, as proto3 requires.
type EnumValueError struct {
	Enum string
}

func (e *EnumValueError) Error() string {
	return fmt.Sprintf("enum %s: proto3 requires the first value to be numbered 0", e.Enum)
}
