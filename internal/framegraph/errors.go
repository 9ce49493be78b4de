package framegraph

import "errors"

var (
	ErrInvalidComponent = errors.New("framegraph: invalid component")
	ErrTypeChanged      = errors.New("framegraph: resource type cannot change")
	ErrUnknownResource  = errors.New("framegraph: unknown resource")
	ErrResourceInUse    = errors.New("framegraph: resource is used by a pass")
	ErrNilPass          = errors.New("framegraph: nil pass")
	ErrInputCount       = errors.New("framegraph: input count does not match pass signature")
	ErrTypeMismatch     = errors.New("framegraph: input type does not match pass signature")
	ErrNotSerializable  = errors.New("framegraph: resource kind cannot be serialized")
)
