// Copyright 2026 streamrec Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package floats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDot(t *testing.T) {
	a := []float32{1, 2, 3, 4}
	b := []float32{5, 6, 7, 8}
	assert.Equal(t, float32(70), Dot(a, b))
	assert.Equal(t, Dot(a, b), Dot(b, a))
	assert.Panics(t, func() { Dot(a, b[:3]) })
}

func TestSubTo(t *testing.T) {
	a := []float32{5, 6, 7, 8}
	b := []float32{1, 2, 3, 4}
	dst := make([]float32, 4)
	SubTo(a, b, dst)
	assert.Equal(t, []float32{4, 4, 4, 4}, dst)
	assert.Panics(t, func() { SubTo(a, b[:3], dst) })
}

func TestMulConst(t *testing.T) {
	a := []float32{1, 2, 3, 4}
	MulConst(a, 2)
	assert.Equal(t, []float32{2, 4, 6, 8}, a)
}

func TestMulConstTo(t *testing.T) {
	a := []float32{1, 2, 3, 4}
	dst := make([]float32, 4)
	MulConstTo(a, 3, dst)
	assert.Equal(t, []float32{3, 6, 9, 12}, dst)
	assert.Panics(t, func() { MulConstTo(a, 3, dst[:3]) })
}

func TestMulConstAdd(t *testing.T) {
	a := []float32{1, 2, 3, 4}
	dst := []float32{1, 1, 1, 1}
	MulConstAdd(a, 2, dst)
	assert.Equal(t, []float32{3, 5, 7, 9}, dst)
	assert.Panics(t, func() { MulConstAdd(a, 2, dst[:3]) })
}

func TestMulConstAddTo(t *testing.T) {
	a := []float32{1, 2, 3, 4}
	c := []float32{1, 1, 1, 1}
	dst := make([]float32, 4)
	MulConstAddTo(a, 2, c, dst)
	assert.Equal(t, []float32{3, 5, 7, 9}, dst)
	assert.Panics(t, func() { MulConstAddTo(a, 2, c[:3], dst) })
}

func TestZero(t *testing.T) {
	a := []float32{1, 2, 3, 4}
	Zero(a)
	assert.Equal(t, []float32{0, 0, 0, 0}, a)
	m := [][]float32{{1, 2}, {3, 4}}
	MatZero(m)
	assert.Equal(t, [][]float32{{0, 0}, {0, 0}}, m)
}

func TestMean(t *testing.T) {
	assert.Equal(t, float32(2.5), Mean([]float32{1, 2, 3, 4}))
}

func TestStdDev(t *testing.T) {
	assert.InDelta(t, 1.29099, StdDev([]float32{1, 2, 3, 4}), 1e-4)
}
