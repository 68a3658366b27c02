/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package cmdutil

import (
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bennypowers.dev/themevars/config"
	"bennypowers.dev/themevars/internal/mapfs"
	"bennypowers.dev/themevars/load"
)

func TestApplyOverrides(t *testing.T) {
	t.Cleanup(viper.Reset)

	cfg := config.Default()
	cfg.Prefix = "from-file"
	ApplyOverrides(cfg)
	assert.Equal(t, "from-file", cfg.Prefix, "unset flags keep file values")

	viper.Set("prefix", "from-flag")
	viper.Set("dark-mode", "media")
	viper.Set("cdn", "esm.sh")
	ApplyOverrides(cfg)
	assert.Equal(t, "from-flag", cfg.Prefix)
	assert.Equal(t, "media", cfg.DarkMode)
	assert.Equal(t, "esm.sh", cfg.CDN)
}

func TestLoadConfig(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("dark-mode", "media")

	mfs := mapfs.New()
	mfs.AddFile("/project/.config/themevars.yaml", "prefix: acme\ndarkMode: class\n", 0644)

	cfg, err := LoadConfig(mfs, "/project")
	require.NoError(t, err)
	assert.Equal(t, "acme", cfg.Prefix)
	assert.Equal(t, "media", cfg.DarkMode)
}

func TestFetcher(t *testing.T) {
	t.Cleanup(viper.Reset)
	assert.Nil(t, Fetcher())

	viper.Set("fetch", true)
	assert.IsType(t, &load.HTTPFetcher{}, Fetcher())
}

func TestRoot(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("root", "some/dir")

	root, err := Root()
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(root))
	assert.Equal(t, "dir", filepath.Base(root))
}
