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
	"github.com/chewxy/math32"

	"github.com/streamrec-io/streamrec/common/floats"
)

// Optimizer applies one gradient step to a parameter in place. The learning
// rate is configured per instance, so bias terms and latent vectors can be
// driven by independent optimizers. Stateful optimizers key their state on the
// identity of the parameter storage, which Store keeps stable for the lifetime
// of the model.
type Optimizer interface {
	Step(param, grad []float32)
}

// SGD is plain stochastic gradient descent: param -= lr * grad. It keeps no
// per-parameter state and can be shared across any number of parameters.
type SGD struct {
	lr float32
}

func NewSGD(lr float32) *SGD {
	return &SGD{lr: lr}
}

func (sgd *SGD) Step(param, grad []float32) {
	floats.MulConstAdd(grad, -sgd.lr, param)
}

// AdaGrad scales the learning rate of each coordinate by the accumulated
// squared gradient magnitude.
type AdaGrad struct {
	lr   float32
	eps  float32
	sums map[*float32][]float32
}

func NewAdaGrad(lr float32) *AdaGrad {
	return &AdaGrad{
		lr:   lr,
		eps:  1e-8,
		sums: make(map[*float32][]float32),
	}
}

func (ada *AdaGrad) Step(param, grad []float32) {
	sum, ok := ada.sums[&param[0]]
	if !ok {
		sum = make([]float32, len(param))
		ada.sums[&param[0]] = sum
	}
	for i := range param {
		sum[i] += grad[i] * grad[i]
		param[i] -= ada.lr * grad[i] / (math32.Sqrt(sum[i]) + ada.eps)
	}
}
