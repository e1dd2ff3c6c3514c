package main

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewLogger(t *testing.T) {
	logger, err := newLogger("warn")
	require.NoError(t, err)
	require.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	require.True(t, logger.Core().Enabled(zapcore.WarnLevel))

	_, err = newLogger("loud")
	require.Error(t, err)
}

func TestRunPrice(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.Flags().Int32("tick", 0, "")
	var out bytes.Buffer
	cmd.SetOut(&out)

	require.NoError(t, runPrice(cmd, nil))
	require.Contains(t, out.String(), "sqrt price: 1\n")
	require.Contains(t, out.String(), "price:      1\n")

	require.NoError(t, cmd.Flags().Set("tick", "300000"))
	require.Error(t, runPrice(cmd, nil))
}
