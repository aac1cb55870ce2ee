// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asset

import (
	"bytes"
	"encoding/binary"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// makeGLB wraps the given JSON in a GLB container.
func makeGLB(js string) []byte {
	for len(js)%4 != 0 {
		js += " "
	}
	var buf bytes.Buffer
	total := uint32(glbHeaderLen + glbChunkLen + len(js))
	binary.Write(&buf, binary.LittleEndian, []uint32{glbMagic, 2, total, uint32(len(js)), glbChunkJSON})
	buf.WriteString(js)
	return buf.Bytes()
}

func TestDecodeGLTF(t *testing.T) {
	data, err := os.ReadFile("testdata/duck.gltf")
	require.NoError(t, err)
	frag, err := Decode("duck.gltf", data)
	require.NoError(t, err)
	assert.Equal(t, GLTF, frag.Format)
	assert.Equal(t, "2.0", frag.Version)
	assert.Equal(t, "stage test", frag.Generator)
	assert.Equal(t, []string{"body", "mesh1"}, frag.Meshes)
	require.Len(t, frag.Nodes, 3)
	assert.Equal(t, "node2", frag.Nodes[2].Name)
	assert.Equal(t, -1, frag.Nodes[0].Mesh)
	assert.Equal(t, []int{0}, frag.Roots)
	assert.Equal(t, len(data), frag.Size)
}

func TestDecodeGLB(t *testing.T) {
	frag, err := Decode("model.bin", makeGLB(`{"asset":{"version":"2.0"},"nodes":[{"name":"a","children":[1]},{"name":"b"}]}`))
	require.NoError(t, err)
	assert.Equal(t, GLB, frag.Format)
	assert.Equal(t, []int{0}, frag.Roots)
}

func TestDecodeErrors(t *testing.T) {
	png := []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0}
	cases := map[string][]byte{
		"empty":        nil,
		"png":          png,
		"json":         []byte(`{"asset":`),
		"no version":   []byte(`{"asset":{}}`),
		"version 1":    []byte(`{"asset":{"version":"1.0"}}`),
		"version 3":    []byte(`{"asset":{"version":"3.1"}}`),
		"mesh index":   []byte(`{"asset":{"version":"2.0"},"nodes":[{"mesh":4}]}`),
		"child index":  []byte(`{"asset":{"version":"2.0"},"nodes":[{"children":[9]}]}`),
		"scene index":  []byte(`{"asset":{"version":"2.0"},"scenes":[{"nodes":[3]}]}`),
		"glb truncate": makeGLB(`{"asset":{"version":"2.0"}}`)[:16],
	}
	for name, data := range cases {
		_, err := Decode(name, data)
		var pe *ParseError
		assert.ErrorAs(t, err, &pe, name)
	}
}
