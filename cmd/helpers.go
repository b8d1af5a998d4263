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
	"os"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/fugue/cfsign/keysource"
	"github.com/fugue/cfsign/sign"
	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const defaultExpireSeconds = 3600

var log *logrus.Logger

func init() {
	log = logrus.New()
	log.Out = os.Stderr
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, err.Error())
	os.Exit(1)
}

func getSession(region string) (*session.Session, error) {
	cfg := aws.NewConfig().WithMaxRetries(3)
	if region != "" {
		cfg = cfg.WithRegion(region)
	}
	return session.NewSessionWithOptions(session.Options{
		Config:            *cfg,
		SharedConfigState: session.SharedConfigEnable,
	})
}

// readKey reads PEM material from a file, S3 or SSM location
func readKey(ctx context.Context, location, region string) ([]byte, error) {
	location, err := keysource.Expand(location, os.LookupEnv)
	if err != nil {
		return nil, err
	}
	src, err := keysource.New(location, func() (*session.Session, error) {
		return getSession(region)
	})
	if err != nil {
		return nil, err
	}
	log.WithField("source", src.String()).Debug("Reading key")
	return src.Read(ctx)
}

// signOptions are the settings shared by the url and cookies commands
type signOptions struct {
	KeyPairID     string
	PrivateKey    string
	ExpireSeconds int
	Region        string
}

func getSignOptions() signOptions {
	return signOptions{
		KeyPairID:     viper.GetString("key-pair-id"),
		PrivateKey:    viper.GetString("private-key"),
		ExpireSeconds: viper.GetInt("expire-seconds"),
		Region:        viper.GetString("region"),
	}
}

func (o signOptions) validate() error {
	var result *multierror.Error
	if o.KeyPairID == "" {
		result = multierror.Append(result, errors.New("--key-pair-id is required"))
	}
	if o.PrivateKey == "" {
		result = multierror.Append(result, errors.New("--private-key is required"))
	}
	if o.ExpireSeconds <= 0 {
		result = multierror.Append(result, fmt.Errorf("--expire-seconds must be positive, got %d", o.ExpireSeconds))
	} else if int64(o.ExpireSeconds) > sign.MaxExpireSeconds {
		result = multierror.Append(result, fmt.Errorf("--expire-seconds must be at most %d, got %d",
			sign.MaxExpireSeconds, o.ExpireSeconds))
	}
	return result.ErrorOrNil()
}

// expiresAt returns the policy expiry for a signing request made at now
func (o signOptions) expiresAt(now time.Time) (time.Time, error) {
	expires, err := sign.Expiry(now, int64(o.ExpireSeconds))
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(expires, 0), nil
}

// newSigner loads the private key and returns a Signer for it
func newSigner(ctx context.Context, o signOptions) (*sign.Signer, error) {
	pemData, err := readKey(ctx, o.PrivateKey, o.Region)
	if err != nil {
		return nil, err
	}
	key, err := sign.ParsePrivateKey(pemData)
	if err != nil {
		return nil, fmt.Errorf("Invalid private key %s: %s", o.PrivateKey, err)
	}
	return sign.New(o.KeyPairID, key), nil
}

// signResource signs a canned policy for the resource, expiring
// ExpireSeconds after now
func signResource(ctx context.Context, o signOptions, resource string, now time.Time) (*sign.Signed, error) {
	signer, err := newSigner(ctx, o)
	if err != nil {
		return nil, err
	}
	expires, err := o.expiresAt(now)
	if err != nil {
		return nil, err
	}
	signed, err := signer.Sign(resource, expires)
	if err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{
		"key_pair_id": signed.KeyPairID,
		"resource":    signed.Resource,
		"expires":     signed.Expires,
	}).Debug("Signed policy")
	return signed, nil
}
