package framegraph

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"lumen/internal/asset"
	"lumen/internal/logging"
	"lumen/internal/scene"
)

// Integer vectors. Float vectors use the mgl32 types.
type (
	IVec2 [2]int32
	IVec3 [3]int32
	IVec4 [4]int32
	UVec2 [2]uint32
	UVec3 [3]uint32
	UVec4 [4]uint32
)

// PrimitiveKind identifies the concrete value type held by a Primitive.
// Kinds up to KindBool go through the serialization and inspector tables;
// the rest are storage only.
type PrimitiveKind int

const (
	KindFloat PrimitiveKind = iota
	KindVec2
	KindVec3
	KindVec4
	KindInt
	KindIVec2
	KindIVec3
	KindIVec4
	KindUint
	KindUVec2
	KindUVec3
	KindUVec4
	KindBool
	KindEntity
	KindHandle
	KindOpaque
)

var primitiveKindNames = [...]string{
	KindFloat:  "Float",
	KindVec2:   "Vec2",
	KindVec3:   "Vec3",
	KindVec4:   "Vec4",
	KindInt:    "Int",
	KindIVec2:  "IVec2",
	KindIVec3:  "IVec3",
	KindIVec4:  "IVec4",
	KindUint:   "Uint",
	KindUVec2:  "UVec2",
	KindUVec3:  "UVec3",
	KindUVec4:  "UVec4",
	KindBool:   "Bool",
	KindEntity: "Entity",
	KindHandle: "Handle",
	KindOpaque: "Opaque",
}

func (k PrimitiveKind) String() string {
	if k < 0 || int(k) >= len(primitiveKindNames) {
		return fmt.Sprintf("PrimitiveKind(%d)", int(k))
	}
	return primitiveKindNames[k]
}

// ParsePrimitiveKind is the inverse of PrimitiveKind.String.
func ParsePrimitiveKind(s string) (PrimitiveKind, error) {
	for i, n := range primitiveKindNames {
		if n == s {
			return PrimitiveKind(i), nil
		}
	}
	return KindOpaque, fmt.Errorf("framegraph: unknown primitive kind %q", s)
}

func primitiveKindOf[T any]() PrimitiveKind {
	var zero T
	switch any(zero).(type) {
	case float32:
		return KindFloat
	case mgl32.Vec2:
		return KindVec2
	case mgl32.Vec3:
		return KindVec3
	case mgl32.Vec4:
		return KindVec4
	case int32:
		return KindInt
	case IVec2:
		return KindIVec2
	case IVec3:
		return KindIVec3
	case IVec4:
		return KindIVec4
	case uint32:
		return KindUint
	case UVec2:
		return KindUVec2
	case UVec3:
		return KindUVec3
	case UVec4:
		return KindUVec4
	case bool:
		return KindBool
	case scene.Entity:
		return KindEntity
	case asset.Handle:
		return KindHandle
	}
	return KindOpaque
}

// PrimitiveValue is the kind-erased view of a Primitive.
type PrimitiveValue interface {
	Component
	Kind() PrimitiveKind
	Any() any
	// Set stores v, which must have the primitive's exact value type.
	Set(v any) error
}

// Primitive holds a plain value. Its kind follows from T, so a literal
// Primitive is as good as one from NewPrimitive.
type Primitive[T any] struct {
	Value T
}

// NewPrimitive wraps v.
func NewPrimitive[T any](v T) *Primitive[T] {
	return &Primitive[T]{Value: v}
}

func (*Primitive[T]) Type() ComponentType { return TypePrimitive }
func (*Primitive[T]) Kind() PrimitiveKind { return primitiveKindOf[T]() }
func (p *Primitive[T]) Any() any          { return p.Value }

func (p *Primitive[T]) Set(v any) error {
	t, ok := v.(T)
	if !ok {
		return fmt.Errorf("framegraph: cannot store %T in a %s primitive", v, p.Kind())
	}
	p.Value = t
	return nil
}

func (p *Primitive[T]) Inspect(in Inspector) {
	kind := p.Kind()
	switch kind {
	case KindEntity:
		if e, ok := any(p.Value).(scene.Entity); ok && e.Valid() {
			in.Property("Entity", e.Name())
			return
		}
		in.Property("Entity", "<none>")
	case KindHandle, KindOpaque:
		logging.Logger().Warn("framegraph: primitive kind has no inspector", "kind", kind.String(), "type", fmt.Sprintf("%T", p.Value))
	default:
		in.Property(kind.String(), p.Value)
	}
}

// PrimitiveAs downcasts c to a Primitive holding a T.
func PrimitiveAs[T any](c Component) (*Primitive[T], bool) {
	p, ok := c.(*Primitive[T])
	return p, ok
}

// Dispatched reports whether kind goes through the serialization table.
func (k PrimitiveKind) Dispatched() bool {
	_, ok := primitiveCodecs[k]
	return ok
}
