package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_PersistentFlags(t *testing.T) {
	cf := rootCmd.PersistentFlags().Lookup("config")
	require.NotNil(t, cf)
	assert.Empty(t, cf.DefValue)

	vf := rootCmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, vf)
	assert.Equal(t, "v", vf.Shorthand)
}
