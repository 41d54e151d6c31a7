package main

import (
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/weberc2/newfs/pkg/config"
	"github.com/weberc2/newfs/pkg/device"
	"github.com/weberc2/newfs/pkg/filesystem"
	"github.com/weberc2/newfs/pkg/objectstore"
	"github.com/weberc2/newfs/pkg/types"
)

func main() {
	var cfg config.Config

	app := cli.App{
		Name:        "newfs",
		Usage:       "inspect and modify newfs device images",
		Description: "every command mounts the device, runs, and unmounts it",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "path to a YAML config file",
			},
			&cli.StringFlag{
				Name:    "device",
				Aliases: []string{"d"},
				Usage: "the device image path (or snapshot name when a " +
					"snapshot bucket is configured)",
			},
			&cli.Uint64Flag{
				Name:  "inodes",
				Usage: "inode capacity used when formatting a virgin device",
			},
			&cli.Uint64Flag{
				Name:  "data-blocks",
				Usage: "data block capacity used when formatting a virgin device",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "one of debug, info, warn, error",
			},
		},
		Before: func(ctx *cli.Context) error {
			loaded, err := config.Load(ctx.String("config"))
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			cfg = *loaded
			if ctx.IsSet("device") {
				cfg.Device = ctx.String("device")
			}
			if ctx.IsSet("inodes") {
				cfg.InodeCount = ctx.Uint64("inodes")
			}
			if ctx.IsSet("data-blocks") {
				cfg.DataBlockCount = ctx.Uint64("data-blocks")
			}
			if ctx.IsSet("log-level") {
				cfg.LogLevel = ctx.String("log-level")
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			level, err := cfg.Level()
			if err != nil {
				return err
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(
				os.Stderr,
				&slog.HandlerOptions{Level: level},
			)))
			return nil
		},
		Commands: commands(&cfg),
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func opener(cfg *config.Config) (device.Opener, error) {
	if cfg.Snapshot.Bucket == "" {
		return device.OpenFile, nil
	}
	s3Store, err := objectstore.NewS3ObjectStore()
	if err != nil {
		return nil, err
	}
	var store types.ObjectStore = s3Store
	if cfg.Snapshot.Gzip {
		store = &objectstore.GzipObjectStore{ObjectStore: store}
	}
	return device.SnapshotOpener(
		store,
		cfg.Snapshot.Bucket,
		cfg.Snapshot.Size,
		cfg.Snapshot.IOUnit,
	), nil
}

func withFileSystem(
	cfg *config.Config,
	f func(*filesystem.FileSystem, *cli.Context) error,
) cli.ActionFunc {
	return func(ctx *cli.Context) (err error) {
		open, err := opener(cfg)
		if err != nil {
			return fmt.Errorf("opening device: %w", err)
		}
		fs, err := filesystem.MountPath(open, cfg.Device, filesystem.Options{
			Params: cfg.Params(),
			Logger: slog.Default().With("component", "filesystem"),
		})
		if err != nil {
			return err
		}
		defer func() { err = errors.Join(err, fs.Unmount()) }()
		return f(fs, ctx)
	}
}
