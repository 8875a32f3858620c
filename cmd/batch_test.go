package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/prospect-cli/internal/model"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestReadBatchCSV(t *testing.T) {
	path := writeCSV(t, `name,city,state,website
Blue Door Cafe,Akron,OH,bluedoorcafe.com
Harbor Grill,Portland,OR
Corner Deli,Boston
`)

	businesses, err := readBatchCSV(path)
	require.NoError(t, err)
	require.Len(t, businesses, 3)

	assert.Equal(t, model.Business{
		Name:    "Blue Door Cafe",
		City:    "Akron",
		State:   "OH",
		Website: "bluedoorcafe.com",
	}, businesses[0])
	assert.Equal(t, model.Business{Name: "Harbor Grill", City: "Portland", State: "OR"}, businesses[1])
	assert.Equal(t, model.Business{Name: "Corner Deli", City: "Boston"}, businesses[2])
}

func TestReadBatchCSV_NoHeader(t *testing.T) {
	path := writeCSV(t, "Blue Door Cafe,Akron\n")

	businesses, err := readBatchCSV(path)
	require.NoError(t, err)
	require.Len(t, businesses, 1)
	assert.Equal(t, "Blue Door Cafe", businesses[0].Name)
}

func TestReadBatchCSV_SkipsShortRows(t *testing.T) {
	path := writeCSV(t, "name,city\nOnlyName\nReal Business,Springfield\n")

	businesses, err := readBatchCSV(path)
	require.NoError(t, err)
	require.Len(t, businesses, 1)
	assert.Equal(t, "Real Business", businesses[0].Name)
}

func TestReadBatchCSV_MissingFile(t *testing.T) {
	_, err := readBatchCSV(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
}
