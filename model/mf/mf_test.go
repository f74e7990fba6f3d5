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
	"fmt"
	"testing"

	"github.com/chewxy/math32"
	"github.com/streamrec-io/streamrec/common/floats"
	"github.com/streamrec-io/streamrec/model"
	"github.com/stretchr/testify/assert"
)

// constInitializer fills every coordinate with the same value.
type constInitializer struct {
	value float32
}

func (init *constInitializer) NewVector(size int) []float32 {
	vec := make([]float32, size)
	for i := range vec {
		vec[i] = init.value
	}
	return vec
}

func TestBaseline_PredictsMeanForUnseenPairs(t *testing.T) {
	bl, err := NewBaseline(nil)
	assert.NoError(t, err)
	// before any update, the global mean is 0
	assert.Zero(t, bl.Predict("alice", "inception"))
	bl.Update("alice", "inception", 4)
	bl.Update("bob", "matrix", 2)
	// predictions of unseen pairs fall back to the global mean
	assert.Equal(t, bl.GlobalMean(), bl.Predict("carol", "memento"))
}

func TestBaseline_OneUpdateSetsMean(t *testing.T) {
	bl, err := NewBaseline(nil)
	assert.NoError(t, err)
	bl.Update("alice", "inception", 3.5)
	assert.Equal(t, float32(3.5), bl.GlobalMean())
	assert.Equal(t, int64(1), bl.NumObserved())
}

func TestBaseline_MeanUpdatedOncePerUpdate(t *testing.T) {
	bl, err := NewBaseline(nil)
	assert.NoError(t, err)
	bl.Update("alice", "inception", 4)
	bl.Update("alice", "inception", 2)
	assert.Equal(t, int64(2), bl.NumObserved())
	assert.Equal(t, float32(3), bl.GlobalMean())
}

func TestBaseline_GradientStep(t *testing.T) {
	bl, err := NewBaseline(model.Params{
		model.BiasLr:  0.1,
		model.BiasReg: 0.0,
	})
	assert.NoError(t, err)
	bl.Update("alice", "inception", 1)
	// diff = 1, gradient = -1, step = -0.1 * -1
	assert.InDelta(t, 0.1, bl.Users.Bias("alice")[0], 1e-6)
	assert.InDelta(t, 0.1, bl.Items.Bias("inception")[0], 1e-6)
}

func TestFunkMF_Predict(t *testing.T) {
	funk, err := NewFunkMF(model.Params{model.NFactors: 4},
		WithLatentInitializer(&constInitializer{value: 0.5}))
	assert.NoError(t, err)
	// dot([0.5 x 4], [0.5 x 4]) = 1
	assert.InDelta(t, 1, funk.Predict("alice", "inception"), 1e-6)
	// prediction matches the dot product of the stored vectors
	assert.Equal(t,
		floats.Dot(funk.Users.Vector("alice"), funk.Items.Vector("inception")),
		funk.Predict("alice", "inception"))
}

func TestFunkMF_MeanTrackedWithoutBiases(t *testing.T) {
	funk, err := NewFunkMF(model.Params{model.NFactors: 2})
	assert.NoError(t, err)
	funk.Update("alice", "inception", 5)
	funk.Update("bob", "matrix", 1)
	assert.Equal(t, float32(3), funk.GlobalMean())
	assert.Equal(t, int64(2), funk.NumObserved())
}

func TestFunkMF_SimultaneousLatentUpdate(t *testing.T) {
	funk, err := NewFunkMF(model.Params{
		model.NFactors: 2,
		model.Lr:       0.05,
		model.Reg:      0.0,
	}, WithLatentInitializer(&constInitializer{value: 0.1}))
	assert.NoError(t, err)
	funk.Update("alice", "inception", 1)
	// diff = 1 - 0.02 = 0.98, both vectors stepped with the pre-update value
	// of the other: v' = 0.1 + 0.05 * 0.98 * 0.1
	expected := float32(0.1) + 0.05*0.98*0.1
	for f := 0; f < 2; f++ {
		assert.InDelta(t, expected, funk.Users.Vector("alice")[f], 1e-6)
		assert.InDelta(t, expected, funk.Items.Vector("inception")[f], 1e-6)
	}
}

func TestBiasedMF_DescentImprovesLoss(t *testing.T) {
	mf, err := NewBiasedMF(model.Params{
		model.NFactors: 2,
		model.Lr:       0.05,
		model.Reg:      0.0,
		model.BiasReg:  0.0,
	}, WithLatentInitializer(&constInitializer{value: 0.1}))
	assert.NoError(t, err)

	before := mf.Predict("alice", "inception")
	assert.InDelta(t, 0.02, before, 1e-6)
	mf.Update("alice", "inception", 1)
	assert.InDelta(t, 0.98, 1-before, 1e-6)

	after := mf.Predict("alice", "inception")
	assert.Less(t, math32.Abs(1-after), math32.Abs(1-before))
}

func TestBiasedMF_AllTermsParticipate(t *testing.T) {
	mf, err := NewBiasedMF(model.Params{model.NFactors: 2},
		WithLatentInitializer(&constInitializer{value: 0.1}))
	assert.NoError(t, err)
	mf.Update("alice", "inception", 5)
	prediction := mf.GlobalMean() +
		mf.Users.Bias("alice")[0] + mf.Items.Bias("inception")[0] +
		floats.Dot(mf.Users.Vector("alice"), mf.Items.Vector("inception"))
	assert.Equal(t, prediction, mf.Predict("alice", "inception"))
}

func TestPredict_MaterializesOnce(t *testing.T) {
	funk, err := NewFunkMF(model.Params{model.NFactors: 8})
	assert.NoError(t, err)
	first := funk.Predict("alice", "inception")
	vector := append([]float32(nil), funk.Users.Vector("alice")...)
	// a second predict must neither re-draw nor mutate stored parameters
	assert.Equal(t, first, funk.Predict("alice", "inception"))
	assert.Equal(t, vector, funk.Users.Vector("alice"))
}

func TestNamespaceIsolation(t *testing.T) {
	bl, err := NewBaseline(nil)
	assert.NoError(t, err)
	userBias := bl.Users.Bias("7")
	itemBias := bl.Items.Bias("7")
	userBias[0] = 42
	assert.Zero(t, itemBias[0])

	mf, err := NewBiasedMF(model.Params{model.NFactors: 2})
	assert.NoError(t, err)
	userFactor := mf.Users.Vector("7")
	itemFactor := mf.Items.Vector("7")
	userFactor[0] = 42
	assert.NotEqual(t, userFactor[0], itemFactor[0])
}

func TestDeterminism(t *testing.T) {
	params := model.Params{
		model.NFactors:    8,
		model.Lr:          0.01,
		model.Reg:         0.01,
		model.RandomState: int64(42),
	}
	a, err := NewBiasedMF(params)
	assert.NoError(t, err)
	b, err := NewBiasedMF(params)
	assert.NoError(t, err)
	for i := 0; i < 100; i++ {
		userId := fmt.Sprintf("user%d", i%7)
		itemId := fmt.Sprintf("item%d", i%13)
		rating := float32(i%5) + 1
		assert.Equal(t, a.Predict(userId, itemId), b.Predict(userId, itemId))
		a.Update(userId, itemId, rating)
		b.Update(userId, itemId, rating)
	}
}

func TestConstructionErrors(t *testing.T) {
	_, err := NewFunkMF(model.Params{model.NFactors: 0})
	assert.Error(t, err)
	_, err = NewFunkMF(model.Params{model.NFactors: -8})
	assert.Error(t, err)
	_, err = NewBiasedMF(model.Params{model.NFactors: 0})
	assert.Error(t, err)
	// zero-initialized latent factors are rejected for the pure factorization model
	_, err = NewFunkMF(model.Params{model.NFactors: 8},
		WithLatentInitializer(NewZeroInitializer()))
	assert.Error(t, err)
	// but are fine for the biased model
	_, err = NewBiasedMF(model.Params{model.NFactors: 8},
		WithLatentInitializer(NewZeroInitializer()))
	assert.NoError(t, err)
	// Baseline ignores NFactors
	_, err = NewBaseline(model.Params{model.NFactors: 0})
	assert.NoError(t, err)
}

func TestLearningConvergesOnRepeatedRating(t *testing.T) {
	mf, err := NewBiasedMF(model.Params{
		model.NFactors:    4,
		model.Lr:          0.05,
		model.RandomState: int64(0),
	})
	assert.NoError(t, err)
	for i := 0; i < 100; i++ {
		mf.Update("alice", "inception", 4)
	}
	assert.InDelta(t, 4, mf.Predict("alice", "inception"), 0.1)
}
