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

package config

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/juju/errors"
	"github.com/spf13/viper"

	"github.com/streamrec-io/streamrec/model"
)

// Config is the configuration for the trainer.
type Config struct {
	Data   DataConfig   `mapstructure:"data"`
	Model  ModelConfig  `mapstructure:"model"`
	Output OutputConfig `mapstructure:"output"`
	Search SearchConfig `mapstructure:"search"`
}

// DataConfig is the configuration for the rating source.
type DataConfig struct {
	// path of the rating file
	Path string `mapstructure:"path"`
	// field separator in the rating file
	Separator string `mapstructure:"separator" validate:"required"`
}

// ModelConfig is the configuration for the online model.
type ModelConfig struct {
	// name of the model (baseline, funk_mf or biased_mf)
	Name string `mapstructure:"name" validate:"oneof=baseline funk_mf biased_mf"`
	// number of latent factors
	NFactors int `mapstructure:"n_factors" validate:"gt=0"`
	// learning rate of latent factors
	Lr float64 `mapstructure:"lr" validate:"gt=0"`
	// regularization strength of latent factors
	Reg float64 `mapstructure:"reg" validate:"gte=0"`
	// learning rate of bias terms
	BiasLr float64 `mapstructure:"bias_lr" validate:"gt=0"`
	// regularization strength of bias terms
	BiasReg float64 `mapstructure:"bias_reg" validate:"gte=0"`
	// random state (seed)
	RandomState int64 `mapstructure:"random_state"`
	// mean of gaussian initial parameters
	InitMean float64 `mapstructure:"init_mean"`
	// standard deviation of gaussian initial parameters
	InitStdDev float64 `mapstructure:"init_std" validate:"gt=0"`
}

// OutputConfig is the configuration for prediction output and model dumps.
type OutputConfig struct {
	// path to save the trained model, empty to skip saving
	ModelPath string `mapstructure:"model_path"`
	// lower bound for clipped predictions
	MinRating float64 `mapstructure:"min_rating"`
	// upper bound for clipped predictions
	MaxRating float64 `mapstructure:"max_rating" validate:"gtefield=MinRating"`
}

// SearchConfig is the configuration for hyper-parameter search.
type SearchConfig struct {
	// number of trials for random search
	NumTrials int `mapstructure:"num_trials" validate:"gt=0"`
	// random state (seed) for random search
	RandomState int64 `mapstructure:"random_state"`
}

// GetDefaultConfig returns a default config.
func GetDefaultConfig() *Config {
	return &Config{
		Data: DataConfig{
			Separator: "\t",
		},
		Model: ModelConfig{
			Name:       "biased_mf",
			NFactors:   16,
			Lr:         0.005,
			Reg:        0.02,
			BiasLr:     0.005,
			BiasReg:    0.02,
			InitMean:   0,
			InitStdDev: 0.1,
		},
		Output: OutputConfig{
			MinRating: 1,
			MaxRating: 5,
		},
		Search: SearchConfig{
			NumTrials: 10,
		},
	}
}

// GetParams returns the hyper-parameters of the model section.
func (config *ModelConfig) GetParams() model.Params {
	return model.Params{
		model.NFactors:    config.NFactors,
		model.Lr:          config.Lr,
		model.Reg:         config.Reg,
		model.BiasLr:      config.BiasLr,
		model.BiasReg:     config.BiasReg,
		model.RandomState: config.RandomState,
		model.InitMean:    config.InitMean,
		model.InitStdDev:  config.InitStdDev,
	}
}

func setDefault() {
	defaultConfig := GetDefaultConfig()
	// [data]
	viper.SetDefault("data.separator", defaultConfig.Data.Separator)
	// [model]
	viper.SetDefault("model.name", defaultConfig.Model.Name)
	viper.SetDefault("model.n_factors", defaultConfig.Model.NFactors)
	viper.SetDefault("model.lr", defaultConfig.Model.Lr)
	viper.SetDefault("model.reg", defaultConfig.Model.Reg)
	viper.SetDefault("model.bias_lr", defaultConfig.Model.BiasLr)
	viper.SetDefault("model.bias_reg", defaultConfig.Model.BiasReg)
	viper.SetDefault("model.random_state", defaultConfig.Model.RandomState)
	viper.SetDefault("model.init_mean", defaultConfig.Model.InitMean)
	viper.SetDefault("model.init_std", defaultConfig.Model.InitStdDev)
	// [output]
	viper.SetDefault("output.min_rating", defaultConfig.Output.MinRating)
	viper.SetDefault("output.max_rating", defaultConfig.Output.MaxRating)
	// [search]
	viper.SetDefault("search.num_trials", defaultConfig.Search.NumTrials)
	viper.SetDefault("search.random_state", defaultConfig.Search.RandomState)
}

type configBinding struct {
	key string
	env string
}

func bindEnv() {
	bindings := []configBinding{
		{"data.path", "STREAMREC_DATA_PATH"},
		{"data.separator", "STREAMREC_DATA_SEPARATOR"},
		{"model.name", "STREAMREC_MODEL_NAME"},
		{"output.model_path", "STREAMREC_MODEL_PATH"},
	}
	for _, binding := range bindings {
		err := viper.BindEnv(binding.key, binding.env)
		if err != nil {
			panic(err)
		}
	}
}

// LoadConfig loads configuration from the toml file at path. Missing fields
// are filled with defaults and environment variables override file values.
func LoadConfig(path string) (*Config, error) {
	// set default config
	setDefault()

	// bind environment variables
	bindEnv()

	// load config file
	viper.SetConfigFile(path)
	if err := viper.ReadInConfig(); err != nil {
		return nil, errors.Trace(err)
	}
	var conf Config
	if err := viper.Unmarshal(&conf); err != nil {
		return nil, errors.Trace(err)
	}

	// validate config file
	if err := conf.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	return &conf, nil
}

// Validate checks the config against the field constraints.
func (config *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(config); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok && len(validationErrors) > 0 {
			fieldError := validationErrors[0]
			return errors.Errorf("invalid value %v for config field %v",
				fieldError.Value(), strings.ToLower(fieldError.Namespace()))
		}
		return errors.Trace(err)
	}
	return nil
}
