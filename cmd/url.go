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
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/fugue/cfsign/sign"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type urlOptions struct {
	signOptions
	URL    string
	Domain string
	Path   string
}

func getURLOptions() urlOptions {
	return urlOptions{
		signOptions: getSignOptions(),
		URL:         viper.GetString("url"),
		Domain:      viper.GetString("domain"),
		Path:        viper.GetString("path"),
	}
}

// resource returns the URL to sign, either given whole or built from
// domain and path
func (o urlOptions) resource() (string, error) {
	var result *multierror.Error
	if err := o.signOptions.validate(); err != nil {
		result = multierror.Append(result, err)
	}
	switch {
	case o.URL != "" && (o.Domain != "" || o.Path != ""):
		result = multierror.Append(result, errors.New("--url cannot be combined with --domain or --path"))
	case o.URL == "" && (o.Domain == "" || o.Path == ""):
		result = multierror.Append(result, errors.New("--url or both --domain and --path are required"))
	}
	if err := result.ErrorOrNil(); err != nil {
		return "", err
	}
	if o.URL != "" {
		return o.URL, nil
	}
	return sign.ResourceURL(o.Domain, o.Path), nil
}

func runURL(ctx context.Context, w io.Writer, opts urlOptions, now time.Time) error {
	resource, err := opts.resource()
	if err != nil {
		return err
	}
	signed, err := signResource(ctx, opts.signOptions, resource, now)
	if err != nil {
		return err
	}
	signedURL, err := sign.SignedURL(resource, signed)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, signedURL)
	return err
}

// NewURLCommand returns a command that prints a signed URL
func NewURLCommand() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "url",
		Short: "Generate a CloudFront signed URL",
		Example: `  cfsign url --domain d111111abcdef8.cloudfront.net --path /slates/slate-sky-5s.mp4 \
    --key-pair-id K2JCJMDEHXQW5F --private-key private_key.pem`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runURL(context.Background(), cmd.OutOrStdout(), getURLOptions(), time.Now())
		},
	}

	cmd.Flags().String("url", "", "Full URL to sign, e.g. https://dxxxxx.cloudfront.net/live/index.m3u8")
	cmd.Flags().String("domain", "", "CloudFront domain name, e.g. dxxxxx.cloudfront.net")
	cmd.Flags().String("path", "", "Path to object, e.g. /slates/slate-sky-5s.mp4")
	viper.BindPFlag("url", cmd.Flags().Lookup("url"))
	viper.BindPFlag("domain", cmd.Flags().Lookup("domain"))
	viper.BindPFlag("path", cmd.Flags().Lookup("path"))

	return cmd
}

func init() {
	rootCmd.AddCommand(NewURLCommand())
}
