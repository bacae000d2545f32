package dev

import (
	"context"

	"github.com/vango-dev/routegen/internal/config"
	"github.com/vango-dev/routegen/internal/errors"
	"github.com/vango-dev/routegen/internal/output"
	"github.com/vango-dev/routegen/pkg/router"
)

// OptionsFromConfig derives coordinator options from a project config. The
// returned options write to the OS filesystem and, when publishing is
// configured, to S3.
func OptionsFromConfig(ctx context.Context, cfg *config.Config) (CoordinatorOptions, error) {
	opts := CoordinatorOptions{
		Conventions: cfg.Conventions(),
		Generator:   router.GeneratorOptions{},
		Output:      output.NewFileWriter(nil, cfg.OutputPath()),
		Debounce:    cfg.Dev.Debounce.Std(),
	}

	if path := cfg.ManifestPath(); path != "" {
		opts.Manifest = output.NewFileWriter(nil, path)
	}

	if cfg.Publish.Enabled() {
		client, err := output.NewS3Client(ctx, cfg.Publish.Region, cfg.Publish.Endpoint)
		if err != nil {
			return opts, errors.New(errors.CodePublishFailed).Wrap(err)
		}
		opts.Publish = output.NewS3Writer(client, cfg.Publish.Bucket, cfg.Publish.Key)
	}

	return opts, nil
}
