package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v2"

	"github.com/weberc2/newfs/pkg/config"
	"github.com/weberc2/newfs/pkg/device"
	"github.com/weberc2/newfs/pkg/directory"
	"github.com/weberc2/newfs/pkg/file"
	"github.com/weberc2/newfs/pkg/filesystem"
	"github.com/weberc2/newfs/pkg/layout"
	"github.com/weberc2/newfs/pkg/tree"
	"github.com/weberc2/newfs/pkg/types"
)

type FileSystem = filesystem.FileSystem

func commands(cfg *config.Config) []*cli.Command {
	return []*cli.Command{{
		Name:    "format",
		Aliases: []string{"mkfs"},
		Usage: "lay out a virgin device (creating the image file first if " +
			"--create-size is given)",
		Flags: []cli.Flag{
			&cli.Uint64Flag{
				Name:  "create-size",
				Usage: "size in bytes of the image file to create",
			},
		},
		Before: func(ctx *cli.Context) error {
			size := ctx.Uint64("create-size")
			if size == 0 || cfg.Snapshot.Bucket != "" {
				return nil
			}
			if _, err := os.Stat(cfg.Device); err == nil {
				return fmt.Errorf("creating image: `%s` already exists", cfg.Device)
			}
			return device.CreateFile(cfg.Device, types.Byte(size))
		},
		Action: withFileSystem(cfg, func(fs *FileSystem, ctx *cli.Context) error {
			return printYAML(info(fs))
		}),
	}, {
		Name:  "info",
		Usage: "print the superblock and usage statistics",
		Action: withFileSystem(cfg, func(fs *FileSystem, ctx *cli.Context) error {
			return printYAML(info(fs))
		}),
	}, {
		Name:      "ls",
		Usage:     "list a directory",
		ArgsUsage: "[PATH]",
		Action: withFileSystem(cfg, func(fs *FileSystem, ctx *cli.Context) error {
			p := ctx.Args().First()
			if p == "" {
				p = "/"
			}
			entries, err := directory.ReadDir(fs, p)
			if err != nil {
				return err
			}
			for _, entry := range entries {
				if _, err := fmt.Printf(
					"%d\t%s\t%s\n",
					entry.Ino,
					entry.FileType,
					entry.Name,
				); err != nil {
					return fmt.Errorf("writing to stdout: %w", err)
				}
			}
			return nil
		}),
	}, {
		Name:      "tree",
		Usage:     "print the directory hierarchy",
		ArgsUsage: "[PATH]",
		Action: withFileSystem(cfg, func(fs *FileSystem, ctx *cli.Context) error {
			p := ctx.Args().First()
			if p == "" {
				p = "/"
			}
			d, err := directory.Resolve(fs, p)
			if err != nil {
				return err
			}
			return directory.Walk(fs, d, func(d *tree.Dentry, depth int) error {
				name := d.Name
				if d.FileType == types.FileTypeDir && !d.IsRoot() {
					name += "/"
				}
				_, err := fmt.Printf("%s%s\n", strings.Repeat("  ", depth), name)
				return err
			})
		}),
	}, {
		Name:      "mkdir",
		Usage:     "create a directory",
		ArgsUsage: "PATH",
		Action: withFileSystem(cfg, func(fs *FileSystem, ctx *cli.Context) error {
			p, err := requireArg(ctx, 0, "PATH")
			if err != nil {
				return err
			}
			_, err = directory.Mkdir(fs, p)
			return err
		}),
	}, {
		Name:      "write",
		Aliases:   []string{"put"},
		Usage:     "write stdin to a regular file, creating it if necessary",
		ArgsUsage: "PATH",
		Action: withFileSystem(cfg, func(fs *FileSystem, ctx *cli.Context) error {
			p, err := requireArg(ctx, 0, "PATH")
			if err != nil {
				return err
			}
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("reading stdin: %w", err)
			}
			return file.WriteFile(fs, p, data)
		}),
	}, {
		Name:      "cat",
		Usage:     "print a regular file",
		ArgsUsage: "PATH",
		Action: withFileSystem(cfg, func(fs *FileSystem, ctx *cli.Context) error {
			p, err := requireArg(ctx, 0, "PATH")
			if err != nil {
				return err
			}
			data, err := file.ReadFile(fs, p)
			if err != nil {
				return err
			}
			if _, err := os.Stdout.Write(data); err != nil {
				return fmt.Errorf("writing to stdout: %w", err)
			}
			return nil
		}),
	}, {
		Name:      "rm",
		Usage:     "remove a file or directory",
		ArgsUsage: "PATH",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "recursive",
				Aliases: []string{"r"},
				Usage:   "remove non-empty directories and their contents",
			},
		},
		Action: withFileSystem(cfg, func(fs *FileSystem, ctx *cli.Context) error {
			p, err := requireArg(ctx, 0, "PATH")
			if err != nil {
				return err
			}
			return directory.Remove(fs, p, ctx.Bool("recursive"))
		}),
	}, {
		Name:      "mv",
		Aliases:   []string{"rename"},
		Usage:     "move a file or directory",
		ArgsUsage: "SRC DST",
		Action: withFileSystem(cfg, func(fs *FileSystem, ctx *cli.Context) error {
			src, err := requireArg(ctx, 0, "SRC")
			if err != nil {
				return err
			}
			dst, err := requireArg(ctx, 1, "DST")
			if err != nil {
				return err
			}
			return directory.Rename(fs, src, dst)
		}),
	}}
}

type fsInfo struct {
	ID         string            `yaml:"id"`
	Superblock layout.Superblock `yaml:"superblock"`
	Stats      filesystem.Stats  `yaml:"stats"`
}

func info(fs *FileSystem) fsInfo {
	return fsInfo{
		ID:         fs.ID.String(),
		Superblock: fs.Superblock(),
		Stats:      fs.Stats(),
	}
}

func printYAML(v interface{}) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshaling to YAML: %w", err)
	}
	if _, err := os.Stdout.Write(data); err != nil {
		return fmt.Errorf("writing YAML to stdout: %w", err)
	}
	return nil
}

func requireArg(ctx *cli.Context, i int, name string) (string, error) {
	if arg := ctx.Args().Get(i); arg != "" {
		return arg, nil
	}
	return "", errors.New("missing required argument: " + name)
}
