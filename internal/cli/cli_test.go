package cli

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_Subcommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["migrate"])
	assert.True(t, names["seed"])
	assert.True(t, names["reset"])

	every := resetCmd.Flags().Lookup("every")
	require.NotNil(t, every)
	assert.Equal(t, "0s", every.DefValue)
}

func TestLoadDataset_DefaultWhenEmpty(t *testing.T) {
	ds, err := loadDataset("")
	require.NoError(t, err)
	assert.Len(t, ds.Categories, 4)
}

func TestSeedCmd_MissingFileFailsBeforeConnecting(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"seed", "--file", filepath.Join(t.TempDir(), "missing.yaml")})
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		seedFile = ""
	})

	err := Execute()
	require.Error(t, err)
	assert.Contains(t, out.String(), "error:")
}
