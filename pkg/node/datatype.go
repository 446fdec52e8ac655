package node

import "strings"

// DataType identifies the kind of value a port carries.
//
// Scalars (string, integer, float, boolean, bigint), enum and any can be
// supplied as literal node configuration. Everything else (image, model,
// latent, mask and friends) is a connection-only tag: the value can only
// arrive over an edge from an upstream node. The tag space is open so that
// custom node manifests may introduce their own connection types.
type DataType string

const (
	TypeString  DataType = "string"
	TypeInteger DataType = "integer"
	TypeFloat   DataType = "float"
	TypeBoolean DataType = "boolean"
	TypeBigInt  DataType = "bigint"
	TypeEnum    DataType = "enum"
	TypeAny     DataType = "any"
)

// Well-known connection-only tags used by the builtin node set.
const (
	TypeImage        DataType = "image"
	TypeModel        DataType = "model"
	TypeLatent       DataType = "latent"
	TypeMask         DataType = "mask"
	TypeDetector     DataType = "detector"
	TypeSegs         DataType = "segs"
	TypeSAMModel     DataType = "sam_model"
	TypeLoRA         DataType = "lora"
	TypeLoRAStack    DataType = "lora_stack"
	TypeControlNet   DataType = "controlnet"
	TypeVAE          DataType = "vae"
	TypePhotoMaker   DataType = "photo_maker"
	TypeTextEncoders DataType = "text_encoders"
)

// ListOf returns the list type with the given element type.
func ListOf(elem DataType) DataType {
	return DataType("list<" + string(elem) + ">")
}

// IsList reports whether t is a list type.
func (t DataType) IsList() bool {
	return strings.HasPrefix(string(t), "list<") && strings.HasSuffix(string(t), ">")
}

// Elem returns the element type of a list type, or TypeAny for non-lists.
func (t DataType) Elem() DataType {
	if !t.IsList() {
		return TypeAny
	}
	return DataType(string(t)[len("list<") : len(t)-1])
}

// IsScalar reports whether t is one of the literal scalar types.
func (t DataType) IsScalar() bool {
	switch t {
	case TypeString, TypeInteger, TypeFloat, TypeBoolean, TypeBigInt:
		return true
	}
	return false
}

// IsConnectionOnly reports whether t can only be satisfied by an incoming
// edge. Any tag outside the scalar/enum/any/list space qualifies; the tag
// table is open so custom manifests can add their own.
func (t DataType) IsConnectionOnly() bool {
	if t == "" || t == TypeEnum || t == TypeAny || t.IsScalar() || t.IsList() {
		return false
	}
	return true
}

// Normalize maps an unresolvable (empty) type to the permissive wildcard.
func (t DataType) Normalize() DataType {
	if t == "" {
		return TypeAny
	}
	return t
}

// Compatible reports whether a value of type out may flow into a port of
// type in. The wildcard matches anything on either side; list types are
// compared structurally by element type; everything else must match exactly.
func Compatible(out, in DataType) bool {
	out, in = out.Normalize(), in.Normalize()
	if out == TypeAny || in == TypeAny {
		return true
	}
	if out.IsList() && in.IsList() {
		return Compatible(out.Elem(), in.Elem())
	}
	return out == in
}
