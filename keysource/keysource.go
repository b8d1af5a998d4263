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
package keysource

import (
	"context"
	"fmt"
	"io"
	"io/ioutil"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/ssm"
)

// MaxKeySize bounds how much key material is read from any source
const MaxKeySize = 64 * 1024

// NotFound indicates the key material does not exist
type NotFound string

func (e NotFound) Error() string { return string(e) }

// Source reads PEM key material
type Source interface {

	// Read returns the raw key material
	Read(ctx context.Context) ([]byte, error)

	// String describes where the key is read from
	String() string
}

// SessionFunc lazily provides an AWS session
type SessionFunc func() (*session.Session, error)

// New returns a Source for the location, which may be a file path,
// "file://path", "s3://bucket/key", "ssm:///parameter/name" or
// "ssm:name". AWS sessions are only requested for S3 and SSM locations.
func New(location string, sessionFunc SessionFunc) (Source, error) {
	if location == "" {
		return nil, fmt.Errorf("No key location given")
	}
	scheme := ""
	if i := strings.Index(location, ":"); i > 0 {
		scheme = strings.ToLower(location[:i])
	}
	switch scheme {
	case "s3":
		u, err := url.Parse(location)
		if err != nil {
			return nil, fmt.Errorf("Invalid S3 location %s: %s", location, err)
		}
		key := strings.TrimPrefix(u.Path, "/")
		if u.Host == "" || key == "" {
			return nil, fmt.Errorf("Invalid S3 location %s: expected s3://bucket/key", location)
		}
		sess, err := sessionFunc()
		if err != nil {
			return nil, err
		}
		return NewS3(s3.New(sess), u.Host, key), nil
	case "ssm":
		name := parameterName(location)
		if name == "" {
			return nil, fmt.Errorf("Invalid SSM location %s: no parameter name", location)
		}
		sess, err := sessionFunc()
		if err != nil {
			return nil, err
		}
		return NewSSM(ssm.New(sess), name), nil
	case "file":
		return NewFile(strings.TrimPrefix(location[len("file:"):], "//")), nil
	default:
		return NewFile(location), nil
	}
}

// parameterName extracts the name from "ssm:name", "ssm:/a/b" or
// "ssm:///a/b".
func parameterName(location string) string {
	name := location[len("ssm:"):]
	if strings.HasPrefix(name, "//") {
		name = name[2:]
	}
	return name
}

// readLimited reads r, failing if it holds more than MaxKeySize bytes
func readLimited(r io.Reader, what string) ([]byte, error) {
	data, err := ioutil.ReadAll(io.LimitReader(r, MaxKeySize+1))
	if err != nil {
		return nil, fmt.Errorf("Failed to read %s: %s", what, err)
	}
	if len(data) > MaxKeySize {
		return nil, fmt.Errorf("Key %s exceeds %d bytes", what, MaxKeySize)
	}
	return data, nil
}

func isNotFound(err error) bool {
	if aerr, ok := err.(awserr.Error); ok {
		switch aerr.Code() {
		case "NotFound", s3.ErrCodeNoSuchKey, s3.ErrCodeNoSuchBucket, ssm.ErrCodeParameterNotFound:
			return true
		}
	}
	return false
}
