package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"github.com/weberc2/newfs/pkg/layout"
	. "github.com/weberc2/newfs/pkg/types"
)

const (
	envVarPrefix = "NEWFS"
	appName      = "newfs"
)

type Config struct {
	Device         string         `envconfig:"NEWFS_DEVICE"           yaml:"device"`
	InodeCount     uint64         `envconfig:"NEWFS_INODE_COUNT"      yaml:"inodeCount"`
	DataBlockCount uint64         `envconfig:"NEWFS_DATA_BLOCK_COUNT" yaml:"dataBlockCount"`
	LogLevel       string         `envconfig:"NEWFS_LOG_LEVEL"        yaml:"logLevel"`
	Snapshot       SnapshotConfig `envconfig:"NEWFS_SNAPSHOT"         yaml:"snapshot"`
}

// SnapshotConfig selects an object-store backed device. When `Bucket` is
// empty, `Device` is a local path.
type SnapshotConfig struct {
	Bucket string `envconfig:"NEWFS_SNAPSHOT_BUCKET"  yaml:"bucket"`
	Size   Byte   `envconfig:"NEWFS_SNAPSHOT_SIZE"    yaml:"size"`
	IOUnit Byte   `envconfig:"NEWFS_SNAPSHOT_IO_UNIT" yaml:"ioUnit"`
	Gzip   bool   `envconfig:"NEWFS_SNAPSHOT_GZIP"    yaml:"gzip"`
}

func Default() Config {
	params := layout.DefaultParams()
	return Config{
		InodeCount:     params.InodeCount,
		DataBlockCount: params.DataBlockCount,
		LogLevel:       "info",
		Snapshot: SnapshotConfig{
			Size:   4 * 1024 * 1024,
			IOUnit: IOUnitDefault,
			Gzip:   true,
		},
	}
}

// Load starts from the defaults, applies the YAML file at `configFile` and
// then the environment. If `configFile` is empty, `$NEWFS_CONFIG_FILE` or
// `$HOME/.config/newfs.yaml` is used; a missing file is not an error.
func Load(configFile string) (*Config, error) {
	if configFile == "" {
		configFile = os.Getenv(envVarPrefix + "_CONFIG_FILE")
	}
	if configFile == "" {
		configFile = filepath.Join(
			os.Getenv("HOME"),
			".config",
			appName+".yaml",
		)
	}

	c := Default()
	data, err := os.ReadFile(configFile)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	} else if err := yaml.UnmarshalStrict(data, &c); err != nil {
		return nil, fmt.Errorf("unmarshaling config file: %w", err)
	}

	if err := envconfig.Process(envVarPrefix, &c); err != nil {
		return nil, fmt.Errorf("parsing environment variables: %w", err)
	}

	return &c, nil
}

func (c *Config) Validate() error {
	if y, e := func() (string, string) {
		if c.Device == "" {
			return "device", "DEVICE"
		}
		if c.InodeCount == 0 {
			return "inodeCount", "INODE_COUNT"
		}
		if c.DataBlockCount == 0 {
			return "dataBlockCount", "DATA_BLOCK_COUNT"
		}
		if c.Snapshot.Bucket != "" {
			if c.Snapshot.Size == 0 {
				return "snapshot.size", "SNAPSHOT_SIZE"
			}
			if c.Snapshot.IOUnit == 0 {
				return "snapshot.ioUnit", "SNAPSHOT_IO_UNIT"
			}
		}
		return "", ""
	}(); y != "" {
		return fmt.Errorf(
			"missing required configuration: %s / %s_%s",
			y,
			envVarPrefix,
			e,
		)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

func (c *Config) Params() layout.Params {
	return layout.Params{
		InodeCount:     c.InodeCount,
		DataBlockCount: c.DataBlockCount,
	}
}

func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return level, fmt.Errorf("parsing log level `%s`: %w", c.LogLevel, err)
	}
	return level, nil
}
