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

	"github.com/streamrec-io/streamrec/dataset"
)

// Scorer scores predictions against observed ratings.
type Scorer func(predictions, targets []float32) float32

// RMSE is root mean square error.
func RMSE(predictions, targets []float32) float32 {
	var sum float32
	for i := range predictions {
		sum += (targets[i] - predictions[i]) * (targets[i] - predictions[i])
	}
	return math32.Sqrt(sum / float32(len(predictions)))
}

// MAE is mean absolute error.
func MAE(predictions, targets []float32) float32 {
	var sum float32
	for i := range predictions {
		sum += math32.Abs(targets[i] - predictions[i])
	}
	return sum / float32(len(predictions))
}

// EvaluateOnline runs prequential evaluation: each rating is predicted before
// the model learns from it, so every score is an out-of-sample error. The
// model is mutated by the evaluation.
func EvaluateOnline(m OnlineModel, ratings []dataset.Rating, scorers ...Scorer) []float32 {
	predictions := make([]float32, len(ratings))
	targets := make([]float32, len(ratings))
	for i, rating := range ratings {
		predictions[i] = m.Predict(rating.UserId, rating.ItemId)
		targets[i] = rating.Value
		m.Update(rating.UserId, rating.ItemId, rating.Value)
	}
	scores := make([]float32, len(scorers))
	for i, scorer := range scorers {
		scores[i] = scorer(predictions, targets)
	}
	return scores
}

// ClipPredictor clamps the predictions of another predictor into [min, max].
// Rating scales are bounded while raw model output is not, so serving paths
// wrap models with a clipper. Training always sees the unclipped output.
type ClipPredictor struct {
	predictor Predictor
	min       float32
	max       float32
}

// NewClipPredictor wraps a predictor with output clamping.
func NewClipPredictor(predictor Predictor, min, max float32) *ClipPredictor {
	return &ClipPredictor{predictor: predictor, min: min, max: max}
}

func (clip *ClipPredictor) Predict(userId, itemId string) float32 {
	prediction := clip.predictor.Predict(userId, itemId)
	if prediction < clip.min {
		return clip.min
	} else if prediction > clip.max {
		return clip.max
	}
	return prediction
}
