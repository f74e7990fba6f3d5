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
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/streamrec-io/streamrec/base/log"
	"github.com/streamrec-io/streamrec/model/mf"
)

var predictCommand = &cobra.Command{
	Use:   "predict USER_ID ITEM_ID",
	Short: "Predict the rating of an item by a user with a saved model.",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		conf := setupCommand(cmd)

		// load the model
		if conf.Output.ModelPath == "" {
			log.Logger().Fatal("no model path in config")
		}
		m, err := loadModel(conf.Output.ModelPath)
		if err != nil {
			log.Logger().Fatal("failed to load model", zap.Error(err))
		}

		// predictions are clamped to the rating scale when serving
		predictor := mf.NewClipPredictor(m,
			float32(conf.Output.MinRating), float32(conf.Output.MaxRating))
		fmt.Println(predictor.Predict(args[0], args[1]))
	},
}
