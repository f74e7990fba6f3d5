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

// Package mf implements online matrix factorization models for rating
// prediction. Models learn from one observation at a time via stochastic
// gradient descent and never revisit prior observations. All models are
// single-threaded: callers running concurrent goroutines must serialize
// access to one model instance.
package mf

import (
	"io"

	"github.com/juju/errors"
	"github.com/samber/lo"

	"github.com/streamrec-io/streamrec/common/floats"
	"github.com/streamrec-io/streamrec/model"
)

// Predictor scores a (user, item) pair.
type Predictor interface {
	Predict(userId, itemId string) float32
}

// OnlineModel is the interface of online rating prediction models.
type OnlineModel interface {
	model.Model
	// Update consumes one observed rating and adjusts all implicated
	// parameters in a single gradient step.
	Update(userId, itemId string, rating float32)
	// GlobalMean returns the running mean of observed ratings.
	GlobalMean() float32
	// NumObserved returns the number of consumed observations.
	NumObserved() int64
	// Marshal model into byte stream.
	Marshal(w io.Writer) error
	// Unmarshal model from byte stream.
	Unmarshal(r io.Reader) error
}

// Option overrides a default collaborator of a model.
type Option func(*options)

type options struct {
	biasOptimizer     Optimizer
	latentOptimizer   Optimizer
	biasInitializer   Initializer
	latentInitializer Initializer
}

// WithBiasOptimizer sets the optimizer applied to bias terms.
func WithBiasOptimizer(o Optimizer) Option {
	return func(opts *options) { opts.biasOptimizer = o }
}

// WithLatentOptimizer sets the optimizer applied to latent vectors.
func WithLatentOptimizer(o Optimizer) Option {
	return func(opts *options) { opts.latentOptimizer = o }
}

// WithBiasInitializer sets the initializer of bias terms.
func WithBiasInitializer(i Initializer) Option {
	return func(opts *options) { opts.biasInitializer = i }
}

// WithLatentInitializer sets the initializer of latent vectors.
func WithLatentInitializer(i Initializer) Option {
	return func(opts *options) { opts.latentInitializer = i }
}

// BaseOnlineModel is embedded by every online model. It owns the user and item
// parameter stores and the running global mean.
type BaseOnlineModel struct {
	model.BaseModel
	Users *Store
	Items *Store

	mean  float32
	count int64
}

// GlobalMean returns the running mean of observed ratings, 0 before the first
// observation.
func (m *BaseOnlineModel) GlobalMean() float32 {
	return m.mean
}

// NumObserved returns the number of consumed observations.
func (m *BaseOnlineModel) NumObserved() int64 {
	return m.count
}

// updateMean consumes one observation into the running global mean:
// mean += (y - mean) / n. Called exactly once per Update regardless of the
// model variant.
func (m *BaseOnlineModel) updateMean(rating float32) {
	m.count++
	m.mean += (rating - m.mean) / float32(m.count)
}

// Baseline predicts the baseline estimate for given user and item:
//
//	\hat{r}_{ui} = b_{ui} = μ + b_u + b_i
//
// Bias terms of unseen users and items start at zero, so the prediction before
// any update equals the global mean. Hyper-parameters:
//
//	BiasLr  - The learning rate of bias terms. Default is 0.005.
//	BiasReg - The regularization strength of bias terms. Default is 0.02.
type Baseline struct {
	BaseOnlineModel
	// Hyper parameters
	biasLr  float32
	biasReg float32
	// Collaborators
	biasOptimizer Optimizer
	// Buffers
	biasGrad [1]float32
}

// NewBaseline creates a Baseline model.
func NewBaseline(params model.Params, opts ...Option) (*Baseline, error) {
	bl := new(Baseline)
	if err := bl.init(params, opts...); err != nil {
		return nil, errors.Trace(err)
	}
	return bl, nil
}

func (bl *Baseline) init(params model.Params, opts ...Option) error {
	bl.SetParams(params)
	bl.biasLr = bl.Params.GetFloat32(model.BiasLr, bl.Params.GetFloat32(model.Lr, 0.005))
	bl.biasReg = bl.Params.GetFloat32(model.BiasReg, bl.Params.GetFloat32(model.Reg, 0.02))
	o := options{
		biasOptimizer:   NewSGD(bl.biasLr),
		biasInitializer: NewZeroInitializer(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	bl.biasOptimizer = o.biasOptimizer
	bl.Users = NewStore(0, o.biasInitializer, nil)
	bl.Items = NewStore(0, o.biasInitializer, nil)
	bl.mean = 0
	bl.count = 0
	return nil
}

func (bl *Baseline) GetParamsGrid(_ bool) model.ParamsGrid {
	return model.ParamsGrid{
		model.BiasLr:  {0.001, 0.005, 0.01, 0.05},
		model.BiasReg: {0.001, 0.01, 0.02, 0.1},
	}
}

// Predict by the Baseline model. Unseen users and items are materialized with
// zero bias on first sight.
func (bl *Baseline) Predict(userId, itemId string) float32 {
	return bl.mean + bl.Users.Bias(userId)[0] + bl.Items.Bias(itemId)[0]
}

// Update the Baseline model with one observed rating.
func (bl *Baseline) Update(userId, itemId string, rating float32) {
	userBias := bl.Users.Bias(userId)
	itemBias := bl.Items.Bias(itemId)
	prediction := bl.mean + userBias[0] + itemBias[0]
	diff := rating - prediction
	bl.updateMean(rating)
	bl.biasGrad[0] = -diff + bl.biasReg*userBias[0]
	bl.biasOptimizer.Step(userBias, bl.biasGrad[:])
	bl.biasGrad[0] = -diff + bl.biasReg*itemBias[0]
	bl.biasOptimizer.Step(itemBias, bl.biasGrad[:])
}

// FunkMF is the unbiased matrix factorization popularized by Simon Funk during
// the Netflix Prize:
//
//	\hat{r}_{ui} = q_i^T p_u
//
// Latent vectors must not be zero-initialized: the gradient of the dot product
// is degenerate at the origin and the model never learns. Hyper-parameters:
//
//	NFactors   - The number of latent factors. Default is 16.
//	Lr         - The learning rate of latent factors. Default is 0.005.
//	Reg        - The regularization strength of latent factors. Default is 0.02.
//	InitMean   - The mean of initial random latent factors. Default is 0.
//	InitStdDev - The standard deviation of initial random latent factors. Default is 0.1.
type FunkMF struct {
	BaseOnlineModel
	// Hyper parameters
	nFactors   int
	lr         float32
	reg        float32
	initMean   float32
	initStdDev float32
	// Collaborators
	latentOptimizer Optimizer
	// Buffers
	userGrad []float32
	itemGrad []float32
}

// NewFunkMF creates a FunkMF model.
func NewFunkMF(params model.Params, opts ...Option) (*FunkMF, error) {
	funk := new(FunkMF)
	if err := funk.init(params, opts...); err != nil {
		return nil, errors.Trace(err)
	}
	return funk, nil
}

func (funk *FunkMF) init(params model.Params, opts ...Option) error {
	funk.SetParams(params)
	funk.nFactors = funk.Params.GetInt(model.NFactors, 16)
	funk.lr = funk.Params.GetFloat32(model.Lr, 0.005)
	funk.reg = funk.Params.GetFloat32(model.Reg, 0.02)
	funk.initMean = funk.Params.GetFloat32(model.InitMean, 0)
	funk.initStdDev = funk.Params.GetFloat32(model.InitStdDev, 0.1)
	if funk.nFactors <= 0 {
		return errors.Errorf("mf: NFactors must be positive, got %d", funk.nFactors)
	}
	o := options{
		latentOptimizer: NewSGD(funk.lr),
		latentInitializer: NewNormalInitializer(funk.initMean, funk.initStdDev,
			funk.Params.GetInt64(model.RandomState, 0)),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if _, isZero := o.latentInitializer.(*ZeroInitializer); isZero {
		return errors.New("mf: zero-initialized latent factors cannot learn from dot-product gradients")
	}
	funk.latentOptimizer = o.latentOptimizer
	funk.Users = NewStore(funk.nFactors, nil, o.latentInitializer)
	funk.Items = NewStore(funk.nFactors, nil, o.latentInitializer)
	funk.userGrad = make([]float32, funk.nFactors)
	funk.itemGrad = make([]float32, funk.nFactors)
	funk.mean = 0
	funk.count = 0
	return nil
}

func (funk *FunkMF) GetParamsGrid(withSize bool) model.ParamsGrid {
	return model.ParamsGrid{
		model.NFactors:   lo.If(withSize, []interface{}{8, 16, 32, 64}).Else([]interface{}{16}),
		model.Lr:         {0.001, 0.005, 0.01, 0.05},
		model.Reg:        {0.001, 0.01, 0.02, 0.1},
		model.InitStdDev: {0.001, 0.01, 0.1},
	}
}

// Predict by the FunkMF model. Unseen users and items are materialized with
// random latent vectors on first sight.
func (funk *FunkMF) Predict(userId, itemId string) float32 {
	return floats.Dot(funk.Users.Vector(userId), funk.Items.Vector(itemId))
}

// Update the FunkMF model with one observed rating. Both latent vectors are
// updated simultaneously: each gradient uses the pre-update value of the other
// vector.
func (funk *FunkMF) Update(userId, itemId string, rating float32) {
	userFactor := funk.Users.Vector(userId)
	itemFactor := funk.Items.Vector(itemId)
	prediction := floats.Dot(userFactor, itemFactor)
	diff := rating - prediction
	funk.updateMean(rating)
	// grad_u = -diff * q_i + reg * p_u
	floats.MulConstTo(itemFactor, -diff, funk.userGrad)
	floats.MulConstAdd(userFactor, funk.reg, funk.userGrad)
	// grad_i = -diff * p_u + reg * q_i
	floats.MulConstTo(userFactor, -diff, funk.itemGrad)
	floats.MulConstAdd(itemFactor, funk.reg, funk.itemGrad)
	funk.latentOptimizer.Step(userFactor, funk.userGrad)
	funk.latentOptimizer.Step(itemFactor, funk.itemGrad)
}

// BiasedMF is the biased matrix factorization model:
//
//	\hat{r}_{ui} = μ + b_u + b_i + q_i^T p_u
//
// Hyper-parameters:
//
//	NFactors   - The number of latent factors. Default is 16.
//	Lr         - The learning rate of latent factors. Default is 0.005.
//	BiasLr     - The learning rate of bias terms. Default is Lr.
//	Reg        - The regularization strength of latent factors. Default is 0.02.
//	BiasReg    - The regularization strength of bias terms. Default is Reg.
//	InitMean   - The mean of initial random latent factors. Default is 0.
//	InitStdDev - The standard deviation of initial random latent factors. Default is 0.1.
type BiasedMF struct {
	BaseOnlineModel
	// Hyper parameters
	nFactors   int
	lr         float32
	biasLr     float32
	reg        float32
	biasReg    float32
	initMean   float32
	initStdDev float32
	// Collaborators
	biasOptimizer   Optimizer
	latentOptimizer Optimizer
	// Buffers
	biasGrad [1]float32
	userGrad []float32
	itemGrad []float32
}

// NewBiasedMF creates a BiasedMF model.
func NewBiasedMF(params model.Params, opts ...Option) (*BiasedMF, error) {
	mf := new(BiasedMF)
	if err := mf.init(params, opts...); err != nil {
		return nil, errors.Trace(err)
	}
	return mf, nil
}

func (mf *BiasedMF) init(params model.Params, opts ...Option) error {
	mf.SetParams(params)
	mf.nFactors = mf.Params.GetInt(model.NFactors, 16)
	mf.lr = mf.Params.GetFloat32(model.Lr, 0.005)
	mf.biasLr = mf.Params.GetFloat32(model.BiasLr, mf.lr)
	mf.reg = mf.Params.GetFloat32(model.Reg, 0.02)
	mf.biasReg = mf.Params.GetFloat32(model.BiasReg, mf.reg)
	mf.initMean = mf.Params.GetFloat32(model.InitMean, 0)
	mf.initStdDev = mf.Params.GetFloat32(model.InitStdDev, 0.1)
	if mf.nFactors <= 0 {
		return errors.Errorf("mf: NFactors must be positive, got %d", mf.nFactors)
	}
	o := options{
		biasOptimizer:   NewSGD(mf.biasLr),
		latentOptimizer: NewSGD(mf.lr),
		biasInitializer: NewZeroInitializer(),
		latentInitializer: NewNormalInitializer(mf.initMean, mf.initStdDev,
			mf.Params.GetInt64(model.RandomState, 0)),
	}
	for _, opt := range opts {
		opt(&o)
	}
	mf.biasOptimizer = o.biasOptimizer
	mf.latentOptimizer = o.latentOptimizer
	mf.Users = NewStore(mf.nFactors, o.biasInitializer, o.latentInitializer)
	mf.Items = NewStore(mf.nFactors, o.biasInitializer, o.latentInitializer)
	mf.userGrad = make([]float32, mf.nFactors)
	mf.itemGrad = make([]float32, mf.nFactors)
	mf.mean = 0
	mf.count = 0
	return nil
}

func (mf *BiasedMF) GetParamsGrid(withSize bool) model.ParamsGrid {
	return model.ParamsGrid{
		model.NFactors:   lo.If(withSize, []interface{}{8, 16, 32, 64}).Else([]interface{}{16}),
		model.Lr:         {0.001, 0.005, 0.01, 0.05},
		model.Reg:        {0.001, 0.01, 0.02, 0.1},
		model.InitStdDev: {0.001, 0.01, 0.1},
	}
}

// Predict by the BiasedMF model. Unseen users and items are materialized on
// first sight.
func (mf *BiasedMF) Predict(userId, itemId string) float32 {
	return mf.mean +
		mf.Users.Bias(userId)[0] + mf.Items.Bias(itemId)[0] +
		floats.Dot(mf.Users.Vector(userId), mf.Items.Vector(itemId))
}

// Update the BiasedMF model with one observed rating.
func (mf *BiasedMF) Update(userId, itemId string, rating float32) {
	userBias := mf.Users.Bias(userId)
	itemBias := mf.Items.Bias(itemId)
	userFactor := mf.Users.Vector(userId)
	itemFactor := mf.Items.Vector(itemId)
	prediction := mf.mean + userBias[0] + itemBias[0] + floats.Dot(userFactor, itemFactor)
	diff := rating - prediction
	mf.updateMean(rating)
	// Update bias terms
	mf.biasGrad[0] = -diff + mf.biasReg*userBias[0]
	mf.biasOptimizer.Step(userBias, mf.biasGrad[:])
	mf.biasGrad[0] = -diff + mf.biasReg*itemBias[0]
	mf.biasOptimizer.Step(itemBias, mf.biasGrad[:])
	// Update latent vectors simultaneously: gradients read the pre-update
	// value of the other vector.
	floats.MulConstTo(itemFactor, -diff, mf.userGrad)
	floats.MulConstAdd(userFactor, mf.reg, mf.userGrad)
	floats.MulConstTo(userFactor, -diff, mf.itemGrad)
	floats.MulConstAdd(itemFactor, mf.reg, mf.itemGrad)
	mf.latentOptimizer.Step(userFactor, mf.userGrad)
	mf.latentOptimizer.Step(itemFactor, mf.itemGrad)
}
