// Copyright 2026 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package vertex

import (
	"context"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/pkg/errors"

	"vertex-toolkit/pkg/logging"
)

// BucketEnsurer checks for the output bucket and creates it when missing.
type BucketEnsurer struct {
	Client *storage.Client
}

// NewBucketEnsurer builds a BucketEnsurer on a fresh Cloud Storage client.
func NewBucketEnsurer(ctx context.Context) (*BucketEnsurer, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create Cloud Storage client")
	}
	return &BucketEnsurer{Client: client}, nil
}

// EnsureBucket verifies the bucket exists, creating it in the job's region
// when it does not. A bucket created here is never cleaned up by a later
// failure in the run.
func (b *BucketEnsurer) EnsureBucket(ctx context.Context, projectID, region, bucket string) error {
	handle := b.Client.Bucket(bucket)

	_, err := handle.Attrs(ctx)
	if err == nil {
		logging.Info("Bucket gs://%s already exists.", bucket)
		return nil
	}
	if !errors.Is(err, storage.ErrBucketNotExist) {
		return errors.Wrapf(err, "failed to check bucket gs://%s", bucket)
	}

	logging.Info("Bucket gs://%s not found, creating it in %s...", bucket, region)
	attrs := &storage.BucketAttrs{
		// Bucket locations are upper-case region identifiers.
		Location: strings.ToUpper(region),
	}
	if err := handle.Create(ctx, projectID, attrs); err != nil {
		return errors.Wrapf(err, "failed to create bucket gs://%s", bucket)
	}
	logging.Info("Bucket gs://%s created.", bucket)
	return nil
}
