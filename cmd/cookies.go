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

	"github.com/fugue/cfsign/format"
	"github.com/fugue/cfsign/sign"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Output formats for the cookies command
const (
	formatText = "text"
	formatJSON = "json"
)

type cookieOptions struct {
	signOptions
	Resource     string
	CookieDomain string
	CookiePath   string
	Format       string
	ManifestURL  string
}

func getCookieOptions() cookieOptions {
	return cookieOptions{
		signOptions:  getSignOptions(),
		Resource:     viper.GetString("resource"),
		CookieDomain: viper.GetString("cookie-domain"),
		CookiePath:   viper.GetString("cookie-path"),
		Format:       viper.GetString("format"),
		ManifestURL:  viper.GetString("manifest-url"),
	}
}

func (o cookieOptions) validate() error {
	var result *multierror.Error
	if err := o.signOptions.validate(); err != nil {
		result = multierror.Append(result, err)
	}
	if o.Resource == "" {
		result = multierror.Append(result, errors.New("--resource is required"))
	}
	if o.Format != formatText && o.Format != formatJSON {
		result = multierror.Append(result, fmt.Errorf("Invalid format %q (text | json)", o.Format))
	}
	if err := sign.ValidateCookieDomain(o.CookieDomain); err != nil {
		result = multierror.Append(result, fmt.Errorf("Invalid --cookie-domain: %s", err))
	}
	return result.ErrorOrNil()
}

func (o cookieOptions) attributes() sign.CookieOptions {
	attrs := sign.DefaultCookieOptions()
	attrs.Domain = o.CookieDomain
	if o.CookiePath != "" {
		attrs.Path = o.CookiePath
	}
	return attrs
}

func runCookies(ctx context.Context, w io.Writer, opts cookieOptions, now time.Time) error {
	if err := opts.validate(); err != nil {
		return err
	}
	signed, err := signResource(ctx, opts.signOptions, opts.Resource, now)
	if err != nil {
		return err
	}
	attrs := opts.attributes()
	if opts.Format == formatJSON {
		return format.CookieJSON(w, format.NewCookieDocument(signed, attrs))
	}
	return format.CookieText(w, signed.Cookies(attrs), format.CookieTextOpts{
		Expires:     signed.Expires,
		ManifestURL: opts.ManifestURL,
	})
}

// NewCookiesCommand returns a command that prints signed cookies
func NewCookiesCommand() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "cookies",
		Short: "Generate CloudFront signed cookies for HLS playback",
		Example: `  cfsign cookies --resource 'https://d111111abcdef8.cloudfront.net/hls/*' \
    --key-pair-id K2JCJMDEHXQW5F --private-key private_key.pem --cookie-domain .example.com`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCookies(context.Background(), cmd.OutOrStdout(), getCookieOptions(), time.Now())
		},
	}

	cmd.Flags().String("resource", "", "Resource pattern, e.g. https://dxxxxx.cloudfront.net/*")
	cmd.Flags().String("cookie-domain", "", "Optional cookie Domain attribute, e.g. .example.com")
	cmd.Flags().String("cookie-path", "/", "Cookie Path attribute")
	cmd.Flags().String("format", formatText, "Output format (text | json)")
	cmd.Flags().String("manifest-url", "", "Manifest URL used in the curl example")
	viper.BindPFlag("resource", cmd.Flags().Lookup("resource"))
	viper.BindPFlag("cookie-domain", cmd.Flags().Lookup("cookie-domain"))
	viper.BindPFlag("cookie-path", cmd.Flags().Lookup("cookie-path"))
	viper.BindPFlag("format", cmd.Flags().Lookup("format"))
	viper.BindPFlag("manifest-url", cmd.Flags().Lookup("manifest-url"))

	cmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{formatText, formatJSON}, cobra.ShellCompDirectiveDefault
	})

	return cmd
}

func init() {
	rootCmd.AddCommand(NewCookiesCommand())
}
