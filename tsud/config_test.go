/*
Copyright (c) The OpenNIC Project and its affiliates.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package tsud

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// wrap period of a 31 bit nanosecond counter
const testWrap = time.Duration(1<<31) * time.Nanosecond

func TestConfigValidation(t *testing.T) {
	c := DefaultConfig()
	require.NoError(t, c.EvalAndValidate(testWrap))

	c = DefaultConfig()
	c.Interval = 0
	require.Error(t, c.EvalAndValidate(testWrap))

	c = DefaultConfig()
	c.Interval = 2 * time.Minute
	require.Error(t, c.EvalAndValidate(testWrap))

	c = DefaultConfig()
	c.PollInterval = -time.Second
	require.Error(t, c.EvalAndValidate(testWrap))

	// polling slower than half the wrap period loses counter wraps
	c = DefaultConfig()
	c.PollInterval = 2 * time.Second
	require.Error(t, c.EvalAndValidate(testWrap))

	c = DefaultConfig()
	c.ClockRate = 0
	require.Error(t, c.EvalAndValidate(testWrap))
}

func TestReadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tsud.yaml")
	content := `interval: 2s
pollinterval: 250ms
listenaddr: "[::]:4269"
pps: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	c, err := ReadConfig(path)
	require.NoError(t, err)
	require.Equal(t, 2*time.Second, c.Interval)
	require.Equal(t, 250*time.Millisecond, c.PollInterval)
	require.Equal(t, "[::]:4269", c.ListenAddr)
	require.True(t, c.PPS)
	// defaults survive a partial file
	require.Equal(t, uint32(125000000), c.ClockRate)
}

func TestReadConfigRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tsud.yaml")
	require.NoError(t, os.WriteFile(path, []byte("nosuchoption: 1\n"), 0644))

	_, err := ReadConfig(path)
	require.Error(t, err)
}

func TestReadConfigMissingFile(t *testing.T) {
	_, err := ReadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
