package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/urfave/cli/v2"

	"github.com/pithecene-io/braket-devices/archive"
	"github.com/pithecene-io/braket-devices/braket"
	"github.com/pithecene-io/braket-devices/catalog"
	devicesconfig "github.com/pithecene-io/braket-devices/cli/config"
	"github.com/pithecene-io/braket-devices/iox"
	"github.com/pithecene-io/braket-devices/log"
	"github.com/pithecene-io/braket-devices/properties"
)

// ExportCommand returns the export command.
// Export writes the device catalog to stdout, a file, or an S3 object.
// With --live the catalog is rebuilt from the current listing.
func ExportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export the device catalog (json, yaml, msgpack)",
		Flags: withFlags([]cli.Flag{ConfigFlag}, SourceFlags(), []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Destination file or s3://bucket/key (default stdout)",
			},
			&cli.StringFlag{
				Name:  "encoding",
				Usage: "Encoding: json, yaml, msgpack (default from the output extension)",
			},
			&cli.BoolFlag{
				Name:  "live",
				Usage: "Rebuild the catalog from the live device listing",
			},
			&cli.StringFlag{
				Name:  "s3-region",
				Usage: "AWS region of the destination bucket",
			},
			&cli.StringFlag{
				Name:  "s3-endpoint",
				Usage: "Custom S3 endpoint (MinIO, R2)",
			},
			&cli.BoolFlag{
				Name:  "s3-path-style",
				Usage: "Force path-style S3 addressing",
			},
		}),
		Action: exportAction,
	}
}

// resolveEncoding picks the encoding: --encoding, then the output
// extension, then JSON.
func resolveEncoding(flag, output string) (catalog.Encoding, error) {
	if flag != "" {
		return catalog.ParseEncoding(flag)
	}
	if output == "" {
		return catalog.EncodingJSON, nil
	}
	return catalog.EncodingFromPath(output), nil
}

func exportAction(c *cli.Context) error {
	output := c.String("output")
	enc, err := resolveEncoding(c.String("encoding"), output)
	if err != nil {
		return cli.Exit(err.Error(), exitConfigError)
	}
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	logger, err := newLogger(c, cfg, "export", "warn")
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := signalContext(c)
	defer cancel()

	cat, err := loadCatalog(c, cfg)
	if err != nil {
		return err
	}
	if c.Bool("live") {
		registry, err := buildRegistry(ctx, c, cfg, logger, nil)
		if err != nil {
			return err
		}
		if cat, err = liveCatalog(ctx, registry, cat, logger); err != nil {
			return exit(err)
		}
	}

	var buf bytes.Buffer
	if err := cat.Encode(&buf, enc, time.Now()); err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}

	switch {
	case output == "" || output == "-":
		_, err = io.Copy(os.Stdout, &buf)
		return err
	case archive.IsS3URI(output):
		s3cfg := archive.S3Config{
			Region:       resolveString(c, "s3-region", configVal(cfg, func(c *devicesconfig.Config) string { return c.Storage.Region })),
			Profile:      resolveString(c, "profile", configVal(cfg, func(c *devicesconfig.Config) string { return c.Profile })),
			Endpoint:     resolveString(c, "s3-endpoint", configVal(cfg, func(c *devicesconfig.Config) string { return c.Storage.Endpoint })),
			UsePathStyle: resolveBool(c, "s3-path-style", configVal(cfg, func(c *devicesconfig.Config) bool { return c.Storage.S3PathStyle })),
		}
		if err := uploadS3(ctx, s3cfg, output, enc, buf.Bytes()); err != nil {
			return cli.Exit(err.Error(), exitUpstream)
		}
	default:
		err := iox.WriteFileAtomic(output, 0o644, func(w io.Writer) error {
			_, err := w.Write(buf.Bytes())
			return err
		})
		if err != nil {
			return cli.Exit(fmt.Sprintf("write %s: %v", output, err), exitError)
		}
	}

	logger.Info("catalog exported", map[string]any{
		"output":   output,
		"encoding": string(enc),
		"devices":  cat.Len(),
	})
	return nil
}

// liveCatalog rebuilds the catalog from a listing. Devices listed without
// a qubit count take it from their capabilities document, falling back to
// the count in the current catalog.
func liveCatalog(ctx context.Context, registry braket.Registry, current *catalog.Catalog, logger *log.Logger) (*catalog.Catalog, error) {
	list, err := registry.ListDevices(ctx)
	if err != nil {
		return nil, err
	}
	printWarnings(list.Warnings)

	counts := make(map[string]int)
	for _, d := range list.Devices {
		if d.QubitCount != nil {
			continue
		}
		detail, err := registry.GetDevice(ctx, d.DeviceArn)
		if err != nil {
			logger.Warn("device detail unavailable", map[string]any{
				"device_arn": d.DeviceArn,
				"error":      err.Error(),
			})
		} else if n := properties.BuildView(detail, logger).Summary.QubitCount; n != nil {
			counts[d.DeviceArn] = *n
			continue
		}
		if e, ok := current.Lookup(d.DeviceArn); ok && e.QubitCount != nil {
			counts[d.DeviceArn] = *e.QubitCount
		}
	}
	return catalog.FromDevices(list.Devices, counts)
}

// uploadS3 writes data to an s3://bucket/key location.
func uploadS3(ctx context.Context, cfg archive.S3Config, uri string, enc catalog.Encoding, data []byte) error {
	bucket, key, err := archive.ParseS3URI(uri)
	if err != nil {
		return err
	}
	if key == "" {
		return fmt.Errorf("invalid S3 location %q: missing object key", uri)
	}
	cfg.Bucket = bucket

	client, err := archive.NewS3Client(ctx, cfg)
	if err != nil {
		return err
	}
	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(enc.ContentType()),
	})
	if err != nil {
		return fmt.Errorf("upload %s: %w", uri, err)
	}
	return nil
}
