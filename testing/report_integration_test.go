package testing_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/typegraph/typegraph/internal/gen"
)

func TestIntegration_ReportGeneration(t *testing.T) {
	outputDir := t.TempDir()

	err := gen.New().Build(&gen.Config{
		SearchDir:   "testdata/shop",
		OutputDir:   outputDir,
		OutputTypes: []string{"json", "yaml"},
	})
	require.NoError(t, err)

	raw, err := os.ReadFile(filepath.Join(outputDir, "typegraph.json"))
	require.NoError(t, err)

	var report gen.Report
	require.NoError(t, json.Unmarshal(raw, &report))

	require.Len(t, report.Types, 2)
	names := []string{report.Types[0].Name, report.Types[1].Name}
	assert.ElementsMatch(t, []string{"User", "Purchase"}, names)

	require.Len(t, report.Factories, 1)
	assert.Equal(t, "shop.UserFactory", report.Factories[0].FactoryClass)
	assert.Equal(t, "UserInput", report.Factories[0].InputName)

	require.Len(t, report.Extensions, 2)
	extenders := []string{report.Extensions[0].ExtenderClass, report.Extensions[1].ExtenderClass}
	assert.ElementsMatch(t, []string{"shop.UserStats", "shop.UserBadges"}, extenders)

	yamlRaw, err := os.ReadFile(filepath.Join(outputDir, "typegraph.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(yamlRaw), "shop.User")
}
