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

package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/streamrec-io/streamrec/base/log"
	"github.com/streamrec-io/streamrec/dataset"
	"github.com/streamrec-io/streamrec/model"
	"github.com/streamrec-io/streamrec/model/mf"
)

var tuneCommand = &cobra.Command{
	Use:   "tune",
	Short: "Search hyper-parameters by prequential error.",
	Run: func(cmd *cobra.Command, args []string) {
		conf := setupCommand(cmd)

		// load ratings
		ratings, err := dataset.LoadRatings(conf.Data.Path, conf.Data.Separator)
		if err != nil {
			log.Logger().Fatal("failed to load ratings", zap.Error(err))
		}
		log.Logger().Info("load ratings",
			zap.String("path", conf.Data.Path),
			zap.Int("count", len(ratings)))

		// build the search grid from the model defaults
		probe, err := mf.NewModel(conf.Model.Name, nil)
		if err != nil {
			log.Logger().Fatal("failed to create model", zap.Error(err))
		}
		withSize, _ := cmd.Flags().GetBool("with-size")
		grid := probe.GetParamsGrid(withSize)

		// search
		factory := func(params model.Params) (mf.OnlineModel, error) {
			return mf.NewModel(conf.Model.Name, params)
		}
		result, err := mf.RandomSearch(factory, ratings, grid, conf.Search.NumTrials, conf.Search.RandomState)
		if err != nil {
			log.Logger().Fatal("failed to search hyper-parameters", zap.Error(err))
		}
		log.Logger().Info("search complete",
			zap.String("model", conf.Model.Name),
			zap.Float32("best_RMSE", result.BestScore),
			zap.Any("best_params", result.BestParams))
	},
}

func init() {
	tuneCommand.Flags().Bool("with-size", false, "search the number of latent factors as well")
}
