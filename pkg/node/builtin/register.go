// Package builtin holds the statically compiled node types and wires them
// into a registry at startup.
package builtin

import (
	"github.com/leaxer/engine/pkg/inference"
	"github.com/leaxer/engine/pkg/node"
	"github.com/leaxer/engine/pkg/registry"
)

// RegisterAll registers every builtin node type.
func RegisterAll(r *registry.Registry) {
	r.RegisterBuiltin(newPrimitive("primitive.string", "String", node.TypeString, "", withMultiline()))
	r.RegisterBuiltin(newPrimitive("primitive.integer", "Integer", node.TypeInteger, 0))
	r.RegisterBuiltin(newPrimitive("primitive.float", "Float", node.TypeFloat, 0.0))
	r.RegisterBuiltin(newPrimitive("primitive.boolean", "Boolean", node.TypeBoolean, false))
	r.RegisterBuiltin(newPrimitive("primitive.bigint", "BigInt", node.TypeBigInt, "0"))

	r.RegisterBuiltin(&textGeneration{newClient: inference.NewClient})
}
