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
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/fugue/cfsign/format"
	"github.com/fugue/cfsign/sign"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type verifyOptions struct {
	SignedURL string
	PublicKey string
	Region    string
}

func getVerifyOptions() verifyOptions {
	return verifyOptions{
		SignedURL: viper.GetString("signed-url"),
		PublicKey: viper.GetString("public-key"),
		Region:    viper.GetString("region"),
	}
}

func (o verifyOptions) validate() error {
	var result *multierror.Error
	if o.SignedURL == "" {
		result = multierror.Append(result, errors.New("--signed-url is required"))
	}
	if o.PublicKey == "" {
		result = multierror.Append(result, errors.New("--public-key is required"))
	}
	return result.ErrorOrNil()
}

type verifyRow struct {
	Resource  string
	Expires   string
	KeyPairID string
	PublicKey string
	Status    string
}

func runVerify(ctx context.Context, w io.Writer, opts verifyOptions, now time.Time) error {
	if err := opts.validate(); err != nil {
		return err
	}
	pemData, err := readKey(ctx, opts.PublicKey, opts.Region)
	if err != nil {
		return err
	}
	pub, err := sign.ParsePublicKey(pemData)
	if err != nil {
		return fmt.Errorf("Invalid public key %s: %s", opts.PublicKey, err)
	}
	fingerprint, err := sign.Fingerprint(pub)
	if err != nil {
		return err
	}

	v, err := sign.VerifyURL(pub, opts.SignedURL, now)
	if err != nil {
		return err
	}

	row := verifyRow{
		Resource:  v.Resource,
		Expires:   format.Unix(v.Expires),
		KeyPairID: v.KeyPairID,
		PublicKey: shortFingerprint(fingerprint),
		Status:    "valid",
	}
	rowColor := format.GreenColor
	if v.Err != nil {
		row.Status = v.Err.Error()
		rowColor = format.RedColor
	}

	lines, err := format.Table(format.TableOpts{
		Rows:       []interface{}{row},
		Colors:     []*color.Color{rowColor},
		Columns:    []string{"Resource", "Expires", "KeyPairID", "PublicKey", "Status"},
		ShowHeader: true,
	})
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, strings.Join(lines, "\n")); err != nil {
		return err
	}
	if v.Err != nil {
		return fmt.Errorf("Verification failed: %s", v.Err)
	}
	return nil
}

// shortFingerprint abbreviates a fingerprint for display
func shortFingerprint(fp string) string {
	if len(fp) > 16 {
		return fp[:16]
	}
	return fp
}

// NewVerifyCommand returns a command that checks a signed URL
func NewVerifyCommand() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify a CloudFront signed URL against a public key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(context.Background(), cmd.OutOrStdout(), getVerifyOptions(), time.Now())
		},
	}

	cmd.Flags().String("signed-url", "", "Signed URL to verify")
	cmd.Flags().String("public-key", "", "Public key PEM location (path, s3://bucket/key or ssm:///name)")
	viper.BindPFlag("signed-url", cmd.Flags().Lookup("signed-url"))
	viper.BindPFlag("public-key", cmd.Flags().Lookup("public-key"))

	return cmd
}

func init() {
	rootCmd.AddCommand(NewVerifyCommand())
}
