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

package mf

import (
	"github.com/streamrec-io/streamrec/base"
)

// Initializer supplies initial values for parameters created on first sight of
// an entity. Bias terms are created as 1-element vectors.
type Initializer interface {
	NewVector(size int) []float32
}

// ZeroInitializer returns all-zero vectors. Zero initialization is valid for
// bias terms but produces degenerate gradients when a model relies on latent
// dot products alone.
type ZeroInitializer struct{}

func NewZeroInitializer() *ZeroInitializer {
	return &ZeroInitializer{}
}

func (init *ZeroInitializer) NewVector(size int) []float32 {
	return make([]float32, size)
}

// NormalInitializer draws each coordinate independently from a normal
// distribution. The sequence of draws is reproducible for identical seeds and
// identical call order.
type NormalInitializer struct {
	mean   float32
	stdDev float32
	rng    base.RandomGenerator
}

func NewNormalInitializer(mean, stdDev float32, seed int64) *NormalInitializer {
	return &NormalInitializer{
		mean:   mean,
		stdDev: stdDev,
		rng:    base.NewRandomGenerator(seed),
	}
}

func (init *NormalInitializer) NewVector(size int) []float32 {
	return init.rng.NewNormalVector(size, init.mean, init.stdDev)
}
