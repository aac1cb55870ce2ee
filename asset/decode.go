// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asset

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/Masterminds/semver/v3"
	"github.com/h2non/filetype"
)

// GLB container layout.
const (
	glbMagic     = 0x46546c67 // "glTF"
	glbChunkJSON = 0x4e4f534a // "JSON"
	glbHeaderLen = 12
	glbChunkLen  = 8
)

// glbType is the file type registered with filetype for GLB containers.
var glbType = filetype.NewType("glb", "model/gltf-binary")

func init() {
	filetype.AddMatcher(glbType, func(buf []byte) bool {
		return len(buf) >= 4 && binary.LittleEndian.Uint32(buf) == glbMagic
	})
}

// SupportedVersions are the asset format versions that can be decoded.
var SupportedVersions = ">= 2.0, < 3.0"

// Decoder decodes fetched asset bytes into a [Fragment].
type Decoder func(path string, data []byte) (*Fragment, error)

// gltfDoc is the subset of a glTF document needed to build a [Fragment].
type gltfDoc struct {
	Asset struct {
		Generator  string `json:"generator,omitempty"`
		Version    string `json:"version"`
		MinVersion string `json:"minVersion,omitempty"`
	} `json:"asset"`
	Meshes []struct {
		Name string `json:"name,omitempty"`
	} `json:"meshes,omitempty"`
	Nodes []struct {
		Name     string `json:"name,omitempty"`
		Mesh     *int   `json:"mesh,omitempty"`
		Children []int  `json:"children,omitempty"`
	} `json:"nodes,omitempty"`
	Scene  *int `json:"scene,omitempty"`
	Scenes []struct {
		Nodes []int `json:"nodes,omitempty"`
	} `json:"scenes,omitempty"`
}

// Decode decodes a glTF or GLB asset into a [Fragment]. The content is
// sniffed rather than trusting the file extension. Only the scene
// structure is decoded; vertex buffers are left to the engine.
// All failures are returned as a [*ParseError].
func Decode(path string, data []byte) (*Fragment, error) {
	if len(data) == 0 {
		return nil, &ParseError{Path: path, Reason: "empty asset"}
	}
	kind, _ := filetype.Match(data)
	format := GLTF
	js := data
	switch {
	case kind == glbType:
		format = GLB
		var err error
		js, err = glbJSON(data)
		if err != nil {
			return nil, &ParseError{Path: path, Reason: "invalid GLB container", Err: err}
		}
	case kind != filetype.Unknown:
		return nil, &ParseError{Path: path, Reason: "unsupported content type " + kind.MIME.Value}
	}
	var doc gltfDoc
	if err := json.Unmarshal(js, &doc); err != nil {
		return nil, &ParseError{Path: path, Reason: "invalid JSON", Err: err}
	}
	if err := checkVersion(doc.Asset.Version); err != nil {
		return nil, &ParseError{Path: path, Reason: "unsupported version", Err: err}
	}
	frag := &Fragment{Name: path, Format: format, Version: doc.Asset.Version, Generator: doc.Asset.Generator, Size: len(data)}
	for i, m := range doc.Meshes {
		nm := m.Name
		if nm == "" {
			nm = fmt.Sprintf("mesh%d", i)
		}
		frag.Meshes = append(frag.Meshes, nm)
	}
	for i, n := range doc.Nodes {
		fn := FragmentNode{Name: n.Name, Mesh: -1, Children: n.Children}
		if fn.Name == "" {
			fn.Name = fmt.Sprintf("node%d", i)
		}
		if n.Mesh != nil {
			if *n.Mesh < 0 || *n.Mesh >= len(frag.Meshes) {
				return nil, &ParseError{Path: path, Reason: fmt.Sprintf("node %d: invalid mesh index %d", i, *n.Mesh)}
			}
			fn.Mesh = *n.Mesh
		}
		for _, c := range n.Children {
			if c < 0 || c >= len(doc.Nodes) {
				return nil, &ParseError{Path: path, Reason: fmt.Sprintf("node %d: invalid child index %d", i, c)}
			}
		}
		frag.Nodes = append(frag.Nodes, fn)
	}
	frag.Roots = roots(&doc)
	for _, r := range frag.Roots {
		if r < 0 || r >= len(frag.Nodes) {
			return nil, &ParseError{Path: path, Reason: fmt.Sprintf("invalid scene node index %d", r)}
		}
	}
	return frag, nil
}

// roots returns the root nodes of the default scene, or all nodes
// that are not children of another node if there are no scenes.
func roots(doc *gltfDoc) []int {
	if len(doc.Scenes) > 0 {
		si := 0
		if doc.Scene != nil && *doc.Scene >= 0 && *doc.Scene < len(doc.Scenes) {
			si = *doc.Scene
		}
		return doc.Scenes[si].Nodes
	}
	child := make(map[int]bool)
	for _, n := range doc.Nodes {
		for _, c := range n.Children {
			child[c] = true
		}
	}
	var rs []int
	for i := range doc.Nodes {
		if !child[i] {
			rs = append(rs, i)
		}
	}
	return rs
}

func checkVersion(version string) error {
	if version == "" {
		return fmt.Errorf("missing asset.version")
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return err
	}
	c, err := semver.NewConstraint(SupportedVersions)
	if err != nil {
		return err
	}
	if !c.Check(v) {
		return fmt.Errorf("version %s does not satisfy %s", version, SupportedVersions)
	}
	return nil
}

// glbJSON returns the JSON chunk of a GLB container.
func glbJSON(data []byte) ([]byte, error) {
	if len(data) < glbHeaderLen+glbChunkLen {
		return nil, fmt.Errorf("truncated header")
	}
	var hdr [3]uint32
	if err := binary.Read(bytes.NewReader(data[:glbHeaderLen]), binary.LittleEndian, hdr[:]); err != nil {
		return nil, err
	}
	if hdr[1] != 2 {
		return nil, fmt.Errorf("container version %d", hdr[1])
	}
	if int(hdr[2]) > len(data) {
		return nil, fmt.Errorf("declared length %d exceeds %d bytes", hdr[2], len(data))
	}
	clen := binary.LittleEndian.Uint32(data[glbHeaderLen:])
	ctyp := binary.LittleEndian.Uint32(data[glbHeaderLen+4:])
	if ctyp != glbChunkJSON || clen == 0 {
		return nil, fmt.Errorf("first chunk is not JSON")
	}
	start := glbHeaderLen + glbChunkLen
	if start+int(clen) > len(data) {
		return nil, fmt.Errorf("truncated JSON chunk")
	}
	return data[start : start+int(clen)], nil
}
