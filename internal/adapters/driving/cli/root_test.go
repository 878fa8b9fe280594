package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_Use(t *testing.T) {
	assert.Equal(t, "docreader", rootCmd.Use)
}

func TestRootCmd_HasDirFlag(t *testing.T) {
	flag := rootCmd.PersistentFlags().Lookup("dir")
	require.NotNil(t, flag)
	assert.Equal(t, ".", flag.DefValue)
}

func TestDefaultOpenReader_MissingDirectory(t *testing.T) {
	original := artifactDir
	artifactDir = t.TempDir() + "/does-not-exist"
	defer func() { artifactDir = original }()

	_, err := defaultOpenReader()
	assert.Error(t, err)
}

func TestExecute_UnknownCommandErrors(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"bogus-command"})
	defer rootCmd.SetArgs(nil)

	err := Execute()
	assert.Error(t, err)
}
