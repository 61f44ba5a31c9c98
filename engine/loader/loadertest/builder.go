// Package loadertest builds small glTF documents in memory for tests.
// Buffers are embedded as base64 data URIs so documents need no files beside them.
package loadertest

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"os"
	"path/filepath"
)

// Component types and accessor types used by the builder.
const (
	ComponentByte          = 5120
	ComponentUnsignedByte  = 5121
	ComponentShort         = 5122
	ComponentUnsignedShort = 5123
	ComponentFloat         = 5126
)

// Builder accumulates nodes, accessors, and one animation.
type Builder struct {
	buf        bytes.Buffer
	nodes      []map[string]any
	accessors  []map[string]any
	views      []map[string]any
	samplers   []map[string]any
	channels   []map[string]any
	animations int
	name       string
	extensions map[string]any
}

// New returns a builder whose document has one (initially empty) animation.
func New() *Builder {
	return &Builder{animations: 1, extensions: map[string]any{}}
}

// NoAnimation makes the document define zero animations.
func (b *Builder) NoAnimation() *Builder {
	b.animations = 0
	return b
}

// ExtraAnimation adds a second, empty animation after the first.
func (b *Builder) ExtraAnimation() *Builder {
	b.animations = 2
	return b
}

// AnimationName names the first animation.
func (b *Builder) AnimationName(name string) *Builder {
	b.name = name
	return b
}

// Extension sets a root extension object.
func (b *Builder) Extension(name string, v any) *Builder {
	b.extensions[name] = v
	return b
}

// Node appends a node and returns its index. An empty name leaves the node unnamed.
func (b *Builder) Node(name string, children ...int) int {
	n := map[string]any{}
	if name != "" {
		n["name"] = name
	}
	if len(children) > 0 {
		n["children"] = children
	}
	b.nodes = append(b.nodes, n)
	return len(b.nodes) - 1
}

// Children appends child node indices to parent.
func (b *Builder) Children(parent int, children ...int) {
	prev, _ := b.nodes[parent]["children"].([]int)
	b.nodes[parent]["children"] = append(prev, children...)
}

// NodeTRS sets the local transform of node i. Rotation is (x, y, z, w).
func (b *Builder) NodeTRS(i int, t [3]float32, r [4]float32, s [3]float32) {
	b.nodes[i]["translation"] = t
	b.nodes[i]["rotation"] = r
	b.nodes[i]["scale"] = s
}

// NodeMatrix sets the column-major local matrix of node i.
func (b *Builder) NodeMatrix(i int, m [16]float32) {
	b.nodes[i]["matrix"] = m
}

// Floats appends a FLOAT accessor of the given element type ("SCALAR", "VEC3", "VEC4")
// and returns its index.
func (b *Builder) Floats(typ string, vals ...float32) int {
	width := map[string]int{"SCALAR": 1, "VEC2": 2, "VEC3": 3, "VEC4": 4}[typ]
	return b.accessor(typ, ComponentFloat, false, len(vals)/width, vals)
}

// Int16s appends a normalized SHORT VEC4 accessor and returns its index.
func (b *Builder) Int16s(vals ...int16) int {
	return b.accessor("VEC4", ComponentShort, true, len(vals)/4, vals)
}

// Uint8s appends a normalized UNSIGNED_BYTE VEC4 accessor and returns its index.
func (b *Builder) Uint8s(vals ...uint8) int {
	return b.accessor("VEC4", ComponentUnsignedByte, true, len(vals)/4, vals)
}

func (b *Builder) accessor(typ string, component int, normalized bool, count int, data any) int {
	for b.buf.Len()%4 != 0 {
		b.buf.WriteByte(0)
	}
	offset := b.buf.Len()
	binary.Write(&b.buf, binary.LittleEndian, data)
	b.views = append(b.views, map[string]any{
		"buffer":     0,
		"byteOffset": offset,
		"byteLength": b.buf.Len() - offset,
	})
	acc := map[string]any{
		"bufferView":    len(b.views) - 1,
		"componentType": component,
		"count":         count,
		"type":          typ,
	}
	if normalized {
		acc["normalized"] = true
	}
	b.accessors = append(b.accessors, acc)
	return len(b.accessors) - 1
}

// Channel adds a sampler and a channel targeting node on the first animation.
// A negative node leaves the target node unset.
func (b *Builder) Channel(node int, path, interpolation string, input, output int) {
	b.samplers = append(b.samplers, map[string]any{
		"input":         input,
		"output":        output,
		"interpolation": interpolation,
	})
	b.ChannelSampler(node, path, len(b.samplers)-1)
}

// ChannelSampler adds a channel that references an arbitrary sampler index.
func (b *Builder) ChannelSampler(node int, path string, sampler int) {
	target := map[string]any{"path": path}
	if node >= 0 {
		target["node"] = node
	}
	b.channels = append(b.channels, map[string]any{"sampler": sampler, "target": target})
}

// JSON renders the document as glTF JSON.
func (b *Builder) JSON() []byte {
	doc := map[string]any{
		"asset":       map[string]any{"version": "2.0", "generator": "loadertest"},
		"nodes":       b.nodes,
		"accessors":   b.accessors,
		"bufferViews": b.views,
		"buffers": []map[string]any{{
			"uri":        "data:application/octet-stream;base64," + base64.StdEncoding.EncodeToString(b.buf.Bytes()),
			"byteLength": b.buf.Len(),
		}},
	}
	if b.nodes == nil {
		doc["nodes"] = []any{}
	}
	var anims []map[string]any
	for i := 0; i < b.animations; i++ {
		a := map[string]any{"channels": []any{}, "samplers": []any{}}
		if i == 0 {
			a["name"] = b.name
			if b.channels != nil {
				a["channels"] = b.channels
				a["samplers"] = b.samplers
			}
		}
		anims = append(anims, a)
	}
	if anims != nil {
		doc["animations"] = anims
	}
	if len(b.extensions) > 0 {
		doc["extensions"] = b.extensions
	}
	data, err := json.Marshal(doc)
	if err != nil {
		panic(err)
	}
	return data
}

// GLB renders the document as a binary container with the buffer in the BIN chunk.
func (b *Builder) GLB() []byte {
	var doc map[string]any
	if err := json.Unmarshal(b.JSON(), &doc); err != nil {
		panic(err)
	}
	doc["buffers"] = []map[string]any{{"byteLength": b.buf.Len()}}
	js, err := json.Marshal(doc)
	if err != nil {
		panic(err)
	}
	for len(js)%4 != 0 {
		js = append(js, ' ')
	}
	bin := append([]byte(nil), b.buf.Bytes()...)
	for len(bin)%4 != 0 {
		bin = append(bin, 0)
	}

	var out bytes.Buffer
	total := 12 + 8 + len(js) + 8 + len(bin)
	binary.Write(&out, binary.LittleEndian, [3]uint32{0x46546C67, 2, uint32(total)})
	binary.Write(&out, binary.LittleEndian, [2]uint32{uint32(len(js)), 0x4E4F534A})
	out.Write(js)
	binary.Write(&out, binary.LittleEndian, [2]uint32{uint32(len(bin)), 0x004E4942})
	out.Write(bin)
	return out.Bytes()
}

// WriteFile writes the JSON document to dir/name and returns the full path.
func (b *Builder) WriteFile(dir, name string) (string, error) {
	path := filepath.Join(dir, name)
	data := b.JSON()
	if ext := filepath.Ext(name); ext == ".glb" || ext == ".vrm" || ext == ".vrma" {
		data = b.GLB()
	}
	return path, os.WriteFile(path, data, 0o644)
}

// Walk is a ready-made two-bone clip used across packages: LeftUpLeg rotates a quarter
// turn about X over one second (LINEAR) and Hips translates on STEP keys over two seconds.
func Walk() *Builder {
	b := New().AnimationName("walk")
	hips := b.Node("Hips")
	leg := b.Node("LeftUpLeg")
	b.Children(hips, leg)

	legTimes := b.Floats("SCALAR", 0, 1)
	legRot := b.Floats("VEC4", 0, 0, 0, 1, 0.70710677, 0, 0, 0.70710677)
	b.Channel(leg, "rotation", "LINEAR", legTimes, legRot)

	hipTimes := b.Floats("SCALAR", 0, 1, 2)
	hipPos := b.Floats("VEC3", 0, 1, 0, 0, 2, 0, 0, 3, 0)
	b.Channel(hips, "translation", "STEP", hipTimes, hipPos)
	return b
}
