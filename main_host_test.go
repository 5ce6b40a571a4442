//go:build !tinygo

package main

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"ember/internal/config"
)

func TestRawInputTranslatesEnterAndStopsOnCtrlC(t *testing.T) {
	interrupted := false
	in := &rawInput{
		r:         strings.NewReader("ab\rc\x03zz"),
		interrupt: func() { interrupted = true },
	}

	got, err := io.ReadAll(in)
	require.NoError(t, err)
	require.Equal(t, "ab\nc", string(got))
	require.True(t, interrupted)
}

func TestCRLFWriter(t *testing.T) {
	var buf bytes.Buffer
	n, err := crlfWriter{w: &buf}.Write([]byte("one\ntwo\n"))
	require.NoError(t, err)
	require.Equal(t, 8, n)
	require.Equal(t, "one\r\ntwo\r\n", buf.String())
}

func TestLoadConfigAppliesChangedFlags(t *testing.T) {
	cmd := &cobra.Command{Use: "ember"}
	addBootFlags(cmd)
	require.NoError(t, cmd.ParseFlags([]string{"--hz=120", "--layout=UK105"}))

	cfg, err := loadConfig(cmd)
	require.NoError(t, err)
	require.Equal(t, 120, cfg.Host.Hz)
	require.Equal(t, "UK105", cfg.Keyboard.Layout)
	require.False(t, cfg.Host.Headless)
}

func TestLoadConfigRejectsInvalidFlag(t *testing.T) {
	cmd := &cobra.Command{Use: "ember"}
	addBootFlags(cmd)
	require.NoError(t, cmd.ParseFlags([]string{"--layout=dvorak"}))

	_, err := loadConfig(cmd)
	require.ErrorIs(t, err, config.ErrInvalid)
}
