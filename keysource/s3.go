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

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"
)

type s3Source struct {
	bucket string
	key    string
	api    S3API
}

// NewS3 returns a Source that reads a key from an S3 object
func NewS3(api S3API, bucket, key string) Source {
	return &s3Source{
		bucket: bucket,
		key:    key,
		api:    api,
	}
}

// Read downloads the object body
func (s *s3Source) Read(ctx context.Context) ([]byte, error) {
	object, err := s.api.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, NotFound(fmt.Sprintf("Not found: %s/%s", s.bucket, s.key))
		}
		return nil, fmt.Errorf("Failed to get %s/%s: %s", s.bucket, s.key, err)
	}
	defer object.Body.Close()
	return readLimited(object.Body, s.String())
}

func (s *s3Source) String() string {
	return fmt.Sprintf("s3://%s/%s", s.bucket, s.key)
}
