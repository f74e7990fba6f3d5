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
	"os"

	"github.com/chewxy/math32"
	"github.com/juju/errors"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/streamrec-io/streamrec/base/log"
	"github.com/streamrec-io/streamrec/dataset"
	"github.com/streamrec-io/streamrec/model/mf"
)

var trainCommand = &cobra.Command{
	Use:   "train",
	Short: "Consume a rating stream and report prequential errors.",
	Run: func(cmd *cobra.Command, args []string) {
		conf := setupCommand(cmd)

		// create or restore the model
		var m mf.OnlineModel
		var err error
		if loadPath, _ := cmd.Flags().GetString("load"); loadPath != "" {
			m, err = loadModel(loadPath)
			if err != nil {
				log.Logger().Fatal("failed to load model", zap.Error(err))
			}
			log.Logger().Info("continue training",
				zap.String("model", mf.GetModelName(m)),
				zap.Int64("observed", m.NumObserved()))
		} else {
			m, err = mf.NewModel(conf.Model.Name, conf.Model.GetParams())
			if err != nil {
				log.Logger().Fatal("failed to create model", zap.Error(err))
			}
		}

		// train on the stream, predicting each rating before learning from it
		bar := progressbar.Default(-1, "training")
		var count int
		var sumSquare, sumAbsolute float32
		err = dataset.ForEachRating(conf.Data.Path, conf.Data.Separator, func(rating dataset.Rating) error {
			prediction := m.Predict(rating.UserId, rating.ItemId)
			diff := rating.Value - prediction
			sumSquare += diff * diff
			sumAbsolute += math32.Abs(diff)
			count++
			m.Update(rating.UserId, rating.ItemId, rating.Value)
			return bar.Add(1)
		})
		if err != nil {
			log.Logger().Fatal("failed to train", zap.Error(err))
		}
		_ = bar.Finish()
		if count == 0 {
			log.Logger().Fatal("empty rating stream", zap.String("path", conf.Data.Path))
		}
		log.Logger().Info("training complete",
			zap.String("model", conf.Model.Name),
			zap.Int("count", count),
			zap.Float32("global_mean", m.GlobalMean()),
			zap.Float32("RMSE", math32.Sqrt(sumSquare/float32(count))),
			zap.Float32("MAE", sumAbsolute/float32(count)))

		// save the model
		if conf.Output.ModelPath != "" {
			if err = saveModel(conf.Output.ModelPath, m); err != nil {
				log.Logger().Fatal("failed to save model", zap.Error(err))
			}
			log.Logger().Info("save model", zap.String("path", conf.Output.ModelPath))
		}
	},
}

func init() {
	trainCommand.Flags().String("load", "", "path of a saved model to continue training from")
}

func saveModel(path string, m mf.OnlineModel) error {
	file, err := os.Create(path)
	if err != nil {
		return errors.Trace(err)
	}
	defer file.Close()
	return errors.Trace(mf.MarshalModel(file, m))
}

func loadModel(path string) (mf.OnlineModel, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer file.Close()
	m, err := mf.UnmarshalModel(file)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return m, nil
}
