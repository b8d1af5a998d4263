// Copyright 2020 Fugue, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// Version is set at build time
	Version = "dev"

	// GitCommit is set at build time
	GitCommit = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:           "cfsign",
	Short:         "Generate CloudFront signed URLs and cookies",
	Version:       fmt.Sprintf("%s, build %s", Version, GitCommit),
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fatal(err)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Flags available to all subcommands
	rootCmd.PersistentFlags().String("key-pair-id", "", "CloudFront public key ID (Key-Pair-Id)")
	rootCmd.PersistentFlags().String("private-key", "", "Private key PEM location (path, s3://bucket/key or ssm:///name)")
	rootCmd.PersistentFlags().Int("expire-seconds", defaultExpireSeconds, "Expiry in seconds from now")
	rootCmd.PersistentFlags().String("region", "", "AWS region used for S3 and SSM key locations")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")

	// Bind flags to environment variables if they are present
	viper.BindPFlag("key-pair-id", rootCmd.PersistentFlags().Lookup("key-pair-id"))
	viper.BindPFlag("private-key", rootCmd.PersistentFlags().Lookup("private-key"))
	viper.BindPFlag("expire-seconds", rootCmd.PersistentFlags().Lookup("expire-seconds"))
	viper.BindPFlag("region", rootCmd.PersistentFlags().Lookup("region"))
	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {

	// Environment variables will be prefixed with "CFSIGN_", with dashes
	// in flag names replaced by underscores
	viper.SetEnvPrefix("cfsign")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	// Search config in home directory with name ".cfsign" (without extension)
	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(home)
	}
	viper.SetConfigName(".cfsign")

	viper.AutomaticEnv()
	configErr := viper.ReadInConfig()

	if viper.GetBool("debug") {
		log.SetLevel(logrus.DebugLevel)
	}
	if configErr == nil {
		log.WithField("file", viper.ConfigFileUsed()).Debug("Loaded config")
	}
}
