package framegraph

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"lumen/internal/asset"
	"lumen/internal/logging"
)

// Format is the text encoding of a resource config.
type Format int

const (
	FormatYAML Format = iota
	FormatTOML
)

func (f Format) String() string {
	if f == FormatTOML {
		return "toml"
	}
	return "yaml"
}

// FormatForPath picks the format from the file extension; YAML unless the
// path ends in .toml.
func FormatForPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return FormatTOML
	}
	return FormatYAML
}

type document struct {
	Renderer   string  `yaml:"Renderer" toml:"Renderer"`
	Components []entry `yaml:"Components" toml:"Components"`
}

type entry struct {
	Name      string `yaml:"Name" toml:"Name"`
	Type      string `yaml:"Type" toml:"Type"`
	Primitive string `yaml:"Primitive,omitempty" toml:"Primitive,omitempty"`
	Value     any    `yaml:"Value" toml:"Value"`
}

// primitiveCodec converts one primitive kind to and from the plain values
// the YAML and TOML codecs understand.
type primitiveCodec struct {
	encode func(v any) any
	decode func(raw any) (any, error)
}

var primitiveCodecs = map[PrimitiveKind]primitiveCodec{
	KindFloat: {
		encode: func(v any) any { return float64(v.(float32)) },
		decode: func(raw any) (any, error) {
			f, err := toFloat(raw)
			return float32(f), err
		},
	},
	KindVec2: {
		encode: func(v any) any { x := v.(mgl32.Vec2); return encodeFloats(x[:]) },
		decode: func(raw any) (any, error) {
			var out mgl32.Vec2
			err := decodeFloats(raw, out[:])
			return out, err
		},
	},
	KindVec3: {
		encode: func(v any) any { x := v.(mgl32.Vec3); return encodeFloats(x[:]) },
		decode: func(raw any) (any, error) {
			var out mgl32.Vec3
			err := decodeFloats(raw, out[:])
			return out, err
		},
	},
	KindVec4: {
		encode: func(v any) any { x := v.(mgl32.Vec4); return encodeFloats(x[:]) },
		decode: func(raw any) (any, error) {
			var out mgl32.Vec4
			err := decodeFloats(raw, out[:])
			return out, err
		},
	},
	KindInt: {
		encode: func(v any) any { return int64(v.(int32)) },
		decode: func(raw any) (any, error) {
			i, err := toInt(raw, math.MinInt32, math.MaxInt32)
			return int32(i), err
		},
	},
	KindIVec2: {
		encode: func(v any) any { x := v.(IVec2); return encodeInts(x[:]) },
		decode: func(raw any) (any, error) {
			var out IVec2
			err := decodeInts(raw, out[:])
			return out, err
		},
	},
	KindIVec3: {
		encode: func(v any) any { x := v.(IVec3); return encodeInts(x[:]) },
		decode: func(raw any) (any, error) {
			var out IVec3
			err := decodeInts(raw, out[:])
			return out, err
		},
	},
	KindIVec4: {
		encode: func(v any) any { x := v.(IVec4); return encodeInts(x[:]) },
		decode: func(raw any) (any, error) {
			var out IVec4
			err := decodeInts(raw, out[:])
			return out, err
		},
	},
	KindUint: {
		encode: func(v any) any { return int64(v.(uint32)) },
		decode: func(raw any) (any, error) {
			i, err := toInt(raw, 0, math.MaxUint32)
			return uint32(i), err
		},
	},
	KindUVec2: {
		encode: func(v any) any { x := v.(UVec2); return encodeUints(x[:]) },
		decode: func(raw any) (any, error) {
			var out UVec2
			err := decodeUints(raw, out[:])
			return out, err
		},
	},
	KindUVec3: {
		encode: func(v any) any { x := v.(UVec3); return encodeUints(x[:]) },
		decode: func(raw any) (any, error) {
			var out UVec3
			err := decodeUints(raw, out[:])
			return out, err
		},
	},
	KindUVec4: {
		encode: func(v any) any { x := v.(UVec4); return encodeUints(x[:]) },
		decode: func(raw any) (any, error) {
			var out UVec4
			err := decodeUints(raw, out[:])
			return out, err
		},
	},
	KindBool: {
		encode: func(v any) any { return v.(bool) },
		decode: func(raw any) (any, error) {
			b, ok := raw.(bool)
			if !ok {
				return false, fmt.Errorf("expected bool, got %T", raw)
			}
			return b, nil
		},
	},
}

// Serializable reports whether c can be written to a resource config.
func Serializable(c Component) bool {
	switch c.Type() {
	case TypeTexture, TypeMaterial, TypeEnvironmentMap:
		return true
	case TypePrimitive:
		p, ok := c.(PrimitiveValue)
		return ok && p.Kind().Dispatched()
	}
	return false
}

func handleOf(c Component) (*asset.Handle, bool) {
	switch v := c.(type) {
	case *TextureComponent:
		return &v.Handle, true
	case *MaterialComponent:
		return &v.Handle, true
	case *EnvironmentMapComponent:
		return &v.Handle, true
	}
	return nil, false
}

// Marshal encodes every serialized resource of fr. Resources that cannot
// be encoded are logged and left out.
func Marshal(fr *FrameRenderer, format Format) ([]byte, error) {
	log := logging.Logger()
	doc := document{Renderer: fr.Name()}
	for _, name := range fr.SerializedNames() {
		c, ok := fr.resources[name]
		if !ok {
			log.Warn("framegraph: serialized resource no longer exists", "name", name)
			continue
		}
		e := entry{Name: name, Type: c.Type().String()}
		if h, ok := handleOf(c); ok {
			e.Value = encodeHandle(*h)
			doc.Components = appendEncodable(doc.Components, e, format)
			continue
		}
		p, ok := c.(PrimitiveValue)
		if !ok {
			log.Warn("framegraph: serialization not implemented for component type", "name", name, "type", c.Type().String())
			continue
		}
		codec, ok := primitiveCodecs[p.Kind()]
		if !ok {
			log.Warn("framegraph: serialization not implemented for primitive kind", "name", name, "kind", p.Kind().String())
			continue
		}
		e.Primitive = p.Kind().String()
		e.Value = codec.encode(p.Any())
		doc.Components = appendEncodable(doc.Components, e, format)
	}

	if format == FormatTOML {
		return toml.Marshal(doc)
	}
	return yaml.Marshal(doc)
}

// appendEncodable adds e unless format cannot encode its value, so one bad
// entry never costs the rest of the document.
func appendEncodable(list []entry, e entry, format Format) []entry {
	var err error
	if format == FormatTOML {
		_, err = toml.Marshal(e)
	} else {
		_, err = yaml.Marshal(e)
	}
	if err != nil {
		logging.Logger().Warn("framegraph: resource cannot be encoded, leaving it out",
			"name", e.Name, "format", format.String(), "err", err)
		return list
	}
	return append(list, e)
}

// encodeHandle writes h as a signed 64-bit integer. TOML has no unsigned
// integers, so handles above MaxInt64 wrap to negative values and
// decodeHandle wraps them back.
func encodeHandle(h asset.Handle) int64 { return int64(h) }

func decodeHandle(raw any) (asset.Handle, error) {
	if u, ok := raw.(uint64); ok {
		return asset.Handle(u), nil
	}
	n, err := toInt(raw, math.MinInt64, math.MaxInt64)
	if err != nil {
		return asset.Invalid, err
	}
	return asset.Handle(uint64(n)), nil
}

// Unmarshal applies an encoded resource config to the live resources of
// fr. Only malformed documents are errors; entries that do not fit the
// live renderer are logged and skipped.
func Unmarshal(fr *FrameRenderer, data []byte, format Format) error {
	var doc document
	var err error
	if format == FormatTOML {
		err = toml.Unmarshal(data, &doc)
	} else {
		err = yaml.Unmarshal(data, &doc)
	}
	if err != nil {
		return fmt.Errorf("framegraph: decode %s resource config: %w", format, err)
	}

	log := logging.Logger()
	if doc.Renderer != "" && doc.Renderer != fr.Name() {
		log.Debug("framegraph: resource config written by another renderer", "file", doc.Renderer, "renderer", fr.Name())
	}
	for _, e := range doc.Components {
		if err := applyEntry(fr, e); err != nil {
			log.Warn("framegraph: skipping resource config entry", "name", e.Name, "err", err)
		}
	}
	return nil
}

func applyEntry(fr *FrameRenderer, e entry) error {
	live, ok := fr.resources[e.Name]
	if !ok {
		return fmt.Errorf("%w: not registered in %s", ErrUnknownResource, fr.Name())
	}
	typ, err := ParseComponentType(e.Type)
	if err != nil {
		return err
	}
	if typ != live.Type() {
		return fmt.Errorf("%w: file has %s, renderer has %s", ErrTypeMismatch, typ, live.Type())
	}

	if h, ok := handleOf(live); ok {
		v, err := decodeHandle(e.Value)
		if err != nil {
			return err
		}
		*h = v
		return nil
	}

	p, ok := live.(PrimitiveValue)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotSerializable, live.Type())
	}
	if e.Primitive != "" && e.Primitive != p.Kind().String() {
		return fmt.Errorf("%w: file has %s, renderer has %s", ErrTypeMismatch, e.Primitive, p.Kind())
	}
	codec, ok := primitiveCodecs[p.Kind()]
	if !ok {
		return fmt.Errorf("%w: primitive kind %s", ErrNotSerializable, p.Kind())
	}
	v, err := codec.decode(e.Value)
	if err != nil {
		return err
	}
	return p.Set(v)
}

// SerializeRenderer writes fr's serialized resources to path, creating
// parent directories as needed.
func SerializeRenderer(fr *FrameRenderer, path string) error {
	data, err := Marshal(fr, FormatForPath(path))
	if err != nil {
		return fmt.Errorf("framegraph: encode resource config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("framegraph: create config dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("framegraph: write resource config: %w", err)
	}
	logging.Logger().Info("framegraph: resource config saved", "path", path, "entries", len(fr.serialized))
	return nil
}

// DeserializeRenderer reads path and applies it to fr.
func DeserializeRenderer(fr *FrameRenderer, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("framegraph: read resource config: %w", err)
	}
	if err := Unmarshal(fr, data, FormatForPath(path)); err != nil {
		return err
	}
	logging.Logger().Info("framegraph: resource config loaded", "path", path)
	return nil
}

func encodeFloats(xs []float32) []any {
	out := make([]any, len(xs))
	for i, x := range xs {
		out[i] = float64(x)
	}
	return out
}

func encodeInts(xs []int32) []any {
	out := make([]any, len(xs))
	for i, x := range xs {
		out[i] = int64(x)
	}
	return out
}

func encodeUints(xs []uint32) []any {
	out := make([]any, len(xs))
	for i, x := range xs {
		out[i] = int64(x)
	}
	return out
}

func asList(raw any, n int) ([]any, error) {
	list, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("expected a list of %d values, got %T", n, raw)
	}
	if len(list) != n {
		return nil, fmt.Errorf("expected %d values, got %d", n, len(list))
	}
	return list, nil
}

func decodeFloats(raw any, out []float32) error {
	list, err := asList(raw, len(out))
	if err != nil {
		return err
	}
	for i, v := range list {
		f, err := toFloat(v)
		if err != nil {
			return err
		}
		out[i] = float32(f)
	}
	return nil
}

func decodeInts(raw any, out []int32) error {
	list, err := asList(raw, len(out))
	if err != nil {
		return err
	}
	for i, v := range list {
		n, err := toInt(v, math.MinInt32, math.MaxInt32)
		if err != nil {
			return err
		}
		out[i] = int32(n)
	}
	return nil
}

func decodeUints(raw any, out []uint32) error {
	list, err := asList(raw, len(out))
	if err != nil {
		return err
	}
	for i, v := range list {
		n, err := toInt(v, 0, math.MaxUint32)
		if err != nil {
			return err
		}
		out[i] = uint32(n)
	}
	return nil
}

// toFloat accepts any numeric value the YAML or TOML decoders produce.
func toFloat(raw any) (float64, error) {
	switch v := raw.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	}
	return 0, fmt.Errorf("expected a number, got %T", raw)
}

// toInt accepts integral numbers within [lo, hi].
func toInt(raw any, lo, hi int64) (int64, error) {
	var n int64
	switch v := raw.(type) {
	case int:
		n = int64(v)
	case int64:
		n = v
	case uint64:
		if v > math.MaxInt64 {
			return 0, fmt.Errorf("%d out of range", v)
		}
		n = int64(v)
	case float64:
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("expected an integer, got %v", v)
		}
		n = int64(v)
	default:
		return 0, fmt.Errorf("expected an integer, got %T", raw)
	}
	if n < lo || n > hi {
		return 0, fmt.Errorf("%d out of range [%d, %d]", n, lo, hi)
	}
	return n, nil
}
