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

	"github.com/juju/errors"
	"go.uber.org/zap"

	"github.com/streamrec-io/streamrec/base"
	"github.com/streamrec-io/streamrec/base/log"
	"github.com/streamrec-io/streamrec/dataset"
	"github.com/streamrec-io/streamrec/model"
)

// ModelFactory creates a fresh model for one search trial. Online models keep
// all state from consumed observations, so every trial starts from a new
// instance instead of clearing a shared one.
type ModelFactory func(params model.Params) (OnlineModel, error)

// ParamsSearchResult contains the return of hyper-parameter search.
type ParamsSearchResult struct {
	BestScore  float32
	BestParams model.Params
	BestIndex  int
	Scores     []float32
	Params     []model.Params
}

func (r *ParamsSearchResult) addScore(params model.Params, score float32) {
	r.Scores = append(r.Scores, score)
	r.Params = append(r.Params, params.Copy())
	if len(r.Scores) == 1 || score < r.BestScore {
		r.BestScore = score
		r.BestParams = params.Copy()
		r.BestIndex = len(r.Params) - 1
	}
}

// GridSearch finds the best parameters for a model over all combinations of
// the grid, scored by prequential RMSE.
func GridSearch(factory ModelFactory, ratings []dataset.Rating, paramGrid model.ParamsGrid) (ParamsSearchResult, error) {
	// Retrieve parameter names and length
	paramNames := make([]model.ParamName, 0, len(paramGrid))
	total := 1
	for paramName, values := range paramGrid {
		paramNames = append(paramNames, paramName)
		total *= len(values)
	}
	// Construct DFS procedure
	results := ParamsSearchResult{
		Scores: make([]float32, 0, total),
		Params: make([]model.Params, 0, total),
	}
	var searchErr error
	var dfs func(deep int, params model.Params)
	count := 0
	dfs = func(deep int, params model.Params) {
		if searchErr != nil {
			return
		}
		if deep == len(paramNames) {
			count++
			log.Logger().Info(fmt.Sprintf("grid search (%v/%v)", count, total),
				zap.Any("params", params))
			m, err := factory(params.Copy())
			if err != nil {
				searchErr = errors.Trace(err)
				return
			}
			score := EvaluateOnline(m, ratings, RMSE)[0]
			results.addScore(params, score)
		} else {
			paramName := paramNames[deep]
			values := paramGrid[paramName]
			for _, val := range values {
				params[paramName] = val
				dfs(deep+1, params)
			}
		}
	}
	params := make(model.Params)
	dfs(0, params)
	if searchErr != nil {
		return ParamsSearchResult{}, searchErr
	}
	return results, nil
}

// RandomSearch searches hyper-parameters by random sampling from the grid,
// scored by prequential RMSE. Falls back to grid search when the grid is
// smaller than the number of trials.
func RandomSearch(factory ModelFactory, ratings []dataset.Rating, paramGrid model.ParamsGrid, numTrials int, seed int64) (ParamsSearchResult, error) {
	// if the number of combinations is less than the number of trials, use grid search
	if paramGrid.NumCombinations() < numTrials {
		return GridSearch(factory, ratings, paramGrid)
	}
	rng := base.NewRandomGenerator(seed)
	results := ParamsSearchResult{
		Scores: make([]float32, 0, numTrials),
		Params: make([]model.Params, 0, numTrials),
	}
	for i := 1; i <= numTrials; i++ {
		// Make parameters
		params := model.Params{}
		for paramName, values := range paramGrid {
			value := values[rng.Intn(len(values))]
			params[paramName] = value
		}
		log.Logger().Info(fmt.Sprintf("random search (%v/%v)", i, numTrials),
			zap.Any("params", params))
		m, err := factory(params.Copy())
		if err != nil {
			return ParamsSearchResult{}, errors.Trace(err)
		}
		score := EvaluateOnline(m, ratings, RMSE)[0]
		results.addScore(params, score)
	}
	return results, nil
}
