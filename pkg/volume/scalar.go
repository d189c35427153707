package volume

// ScalarType names the storage type of a volume's samples.
type ScalarType int

const (
	Unknown ScalarType = iota
	Int8
	Uint8
	Int16
	Uint16
	Int32
	Uint32
	Int64
	Uint64
	Float32
	Float64
)

var scalarNames = [...]string{
	Unknown: "unknown",
	Int8:    "int8",
	Uint8:   "uint8",
	Int16:   "int16",
	Uint16:  "uint16",
	Int32:   "int32",
	Uint32:  "uint32",
	Int64:   "int64",
	Uint64:  "uint64",
	Float32: "float32",
	Float64: "float64",
}

func (s ScalarType) String() string {
	if s < 0 || int(s) >= len(scalarNames) {
		return scalarNames[Unknown]
	}
	return scalarNames[s]
}

// Scalar is the set of sample types a Grid can store.
type Scalar interface {
	~int8 | ~uint8 | ~int16 | ~uint16 | ~int32 | ~uint32 |
		~int64 | ~uint64 | ~float32 | ~float64
}

// Sample is the subset of Scalar the correlation kernel accepts. 64-bit
// integers are left out: their squares overflow the accumulation types
// long before the windows fill.
type Sample interface {
	~int8 | ~uint8 | ~int16 | ~uint16 | ~int32 | ~uint32 | ~float32 | ~float64
}

// ScalarTypeOf returns the ScalarType tag for T.
func ScalarTypeOf[T Scalar]() ScalarType {
	var v T
	switch any(v).(type) {
	case int8:
		return Int8
	case uint8:
		return Uint8
	case int16:
		return Int16
	case uint16:
		return Uint16
	case int32:
		return Int32
	case uint32:
		return Uint32
	case int64:
		return Int64
	case uint64:
		return Uint64
	case float32:
		return Float32
	case float64:
		return Float64
	}
	return Unknown
}
