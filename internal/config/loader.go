// Package config loads zipvfs's optional .zipvfsrc file: per-directory
// defaults for which AWS profile and region to use when an archive path is
// given as "s3://bucket/key" instead of a local file, adapted from
// nguyengg-xy3/internal/config.
package config

import (
	"context"
	"os"
	"path/filepath"

	"github.com/go-ini/ini"
)

// Loader loads .zipvfsrc configuration.
type Loader struct {
	cfg *ini.File
}

// Load traverses the directory hierarchy upwards from the current
// directory to find the first ".zipvfsrc" file available and loads its
// contents into the Loader. It returns the path found, or "" if none
// exists anywhere up to the filesystem root — that is not an error.
func (l *Loader) Load(ctx context.Context) (string, error) {
	var (
		path        = filepath.Join(".", ".zipvfsrc")
		cur, parent string
		err         error
	)

	if cur, err = os.Getwd(); err != nil {
		return "", err
	}

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		if fi, statErr := os.Stat(path); statErr == nil {
			if !fi.IsDir() {
				break
			}
		} else if os.IsNotExist(statErr) {
			parent = filepath.Dir(cur)
			if parent == cur || parent == "." || parent == "/" {
				return "", nil
			}
			path = filepath.Join(parent, ".zipvfsrc")
			cur = parent
			continue
		} else {
			return "", statErr
		}

		break
	}

	l.cfg, err = ini.Load(path)
	if err != nil {
		l.cfg = ini.Empty()
		return path, err
	}

	return path, nil
}

// DefaultLoader is the package-level Loader instance used by Load and
// ForS3.
var DefaultLoader = &Loader{cfg: ini.Empty()}

// Load calls Loader.Load on DefaultLoader.
func Load(ctx context.Context) (string, error) {
	return DefaultLoader.Load(ctx)
}

// S3Config holds the [s3] section of a .zipvfsrc file.
type S3Config struct {
	Profile string
	Region  string
}

// ForS3 returns the [s3] section settings, or a zero S3Config if the
// section is absent.
func (l *Loader) ForS3() (c S3Config) {
	sec, err := l.cfg.GetSection("s3")
	if err != nil {
		return c
	}

	c.Profile = sec.Key("aws-profile").Value()
	c.Region = sec.Key("region").Value()
	return
}

// ForS3 calls Loader.ForS3 on DefaultLoader.
func ForS3() (c S3Config) {
	return DefaultLoader.ForS3()
}
