// Package manifest discovers custom node types from declarative .hcl
// manifest files. A manifest names the type, its display metadata and its
// input/output ports; the engine gives manifest nodes a generic process body
// that maps resolved inputs onto same-named outputs.
//
// Example:
//
//	node "latent.upscale" {
//	  label    = "Latent Upscale"
//	  category = "Image/Transform"
//
//	  input "samples" { type = "latent" }
//	  input "scale" {
//	    type    = "float"
//	    default = 2.0
//	  }
//	  output "samples" { type = "latent" }
//	}
package manifest

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/leaxer/engine/pkg/node"
)

type fileRoot struct {
	Nodes []*nodeBlock `hcl:"node,block"`
}

type nodeBlock struct {
	Type        string       `hcl:"type,label"`
	Label       string       `hcl:"label,optional"`
	Category    string       `hcl:"category,optional"`
	Description string       `hcl:"description,optional"`
	Inputs      []*portBlock `hcl:"input,block"`
	Outputs     []*portBlock `hcl:"output,block"`
}

type portBlock struct {
	Name         string         `hcl:"name,label"`
	Type         string         `hcl:"type"`
	Label        string         `hcl:"label,optional"`
	Default      cty.Value      `hcl:"default,optional"`
	Min          *float64       `hcl:"min,optional"`
	Max          *float64       `hcl:"max,optional"`
	Optional     bool           `hcl:"optional,optional"`
	Configurable bool           `hcl:"configurable,optional"`
	Multiline    bool           `hcl:"multiline,optional"`
	Description  string         `hcl:"description,optional"`
	Options      []*optionBlock `hcl:"option,block"`
}

type optionBlock struct {
	Value cty.Value `hcl:"value"`
	Label string    `hcl:"label,optional"`
}

// LoadDir parses every .hcl file under dir (recursively) and returns the
// node types they declare. A missing directory yields no nodes; any parse or
// decode failure aborts the whole scan so a registry reload never installs a
// half-read set.
func LoadDir(dir string) ([]node.Node, error) {
	files, err := findManifests(dir)
	if err != nil {
		return nil, err
	}

	parser := hclparse.NewParser()
	var nodes []node.Node
	seen := make(map[string]string)

	for _, path := range files {
		hclFile, diags := parser.ParseHCLFile(path)
		if diags.HasErrors() {
			return nil, fmt.Errorf("parse manifest %s: %w", path, diags)
		}

		var root fileRoot
		if diags := gohcl.DecodeBody(hclFile.Body, nil, &root); diags.HasErrors() {
			return nil, fmt.Errorf("decode manifest %s: %w", path, diags)
		}

		for _, blk := range root.Nodes {
			if prev, dup := seen[blk.Type]; dup {
				return nil, fmt.Errorf("node type %q declared in both %s and %s", blk.Type, prev, path)
			}
			seen[blk.Type] = path

			n, err := buildNode(blk)
			if err != nil {
				return nil, fmt.Errorf("manifest %s: %w", path, err)
			}
			nodes = append(nodes, n)
		}
	}
	return nodes, nil
}

func findManifests(dir string) ([]string, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, nil
	}
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".hcl") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk custom nodes dir %s: %w", dir, err)
	}
	sort.Strings(files)
	return files, nil
}

func buildNode(blk *nodeBlock) (node.Node, error) {
	if blk.Type == "" {
		return nil, fmt.Errorf("node block missing type label")
	}

	inputs, err := buildPorts(blk.Inputs)
	if err != nil {
		return nil, fmt.Errorf("node %q: %w", blk.Type, err)
	}
	outputs, err := buildPorts(blk.Outputs)
	if err != nil {
		return nil, fmt.Errorf("node %q: %w", blk.Type, err)
	}

	return &manifestNode{
		typ:         blk.Type,
		label:       blk.Label,
		category:    node.NormalizeCategory(blk.Category),
		description: blk.Description,
		inputs:      inputs,
		outputs:     outputs,
	}, nil
}

func buildPorts(blocks []*portBlock) (map[string]node.FieldSpec, error) {
	ports := make(map[string]node.FieldSpec, len(blocks))
	for _, p := range blocks {
		if p.Name == "" {
			return nil, fmt.Errorf("port block missing name label")
		}
		if _, dup := ports[p.Name]; dup {
			return nil, fmt.Errorf("port %q declared twice", p.Name)
		}

		dt := node.DataType(p.Type).Normalize()
		def, err := ctyToNative(p.Default)
		if err != nil {
			return nil, fmt.Errorf("port %q: default: %w", p.Name, err)
		}
		if def != nil && dt.IsConnectionOnly() {
			return nil, fmt.Errorf("port %q: connection type %q cannot carry a literal default", p.Name, dt)
		}

		var options []node.Option
		for _, opt := range p.Options {
			val, err := ctyToNative(opt.Value)
			if err != nil {
				return nil, fmt.Errorf("port %q: option value: %w", p.Name, err)
			}
			options = append(options, node.Option{Value: val, Label: opt.Label})
		}

		ports[p.Name] = node.FieldSpec{
			Type:         dt,
			Label:        p.Label,
			Default:      def,
			Min:          p.Min,
			Max:          p.Max,
			Options:      options,
			Optional:     p.Optional,
			Configurable: p.Configurable,
			Multiline:    p.Multiline,
			Description:  p.Description,
		}
	}
	return ports, nil
}
