package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/welfare-intel/factory"
	"github.com/xuri/excelize/v2"
)

func writeDataset(t *testing.T, companies string) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		factory.ManifestFile: "name: welfare-intel\nversion: test\ncollections:\n  companies: companies.json\n  financials: financials.json\n",
		"companies.json":     companies,
		"financials.json": `[
			{"companyId":"litalico","fiscalYears":[{"year":"2024/03","revenue":28500,"operatingProfit":3000}]},
			{"companyId":"welbe","fiscalYears":[{"year":"2024/03","revenue":12000,"operatingProfit":2400}]}
		]`,
	}
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	return dir
}

const validCompanies = `[
	{"id":"litalico","name":"LITALICO","category":"A","priorityRank":"S","threatLevel":5,"hasFullData":true},
	{"id":"welbe","name":"ウェルビー","category":"A","priorityRank":"A","threatLevel":4,"hasFullData":true}
]`

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestValidateCommand(t *testing.T) {
	// GIVEN: A clean dataset and one with a duplicate company
	// WHEN: validate runs on each
	// THEN: The clean one passes; the other fails with its finding printed

	out, err := run(t, "validate", writeDataset(t, validCompanies))
	require.NoError(t, err)
	assert.Contains(t, out, "0 errors")

	dup := `[
		{"id":"litalico","name":"LITALICO","category":"A","priorityRank":"S","threatLevel":5},
		{"id":"litalico","name":"LITALICO","category":"A","priorityRank":"S","threatLevel":5}
	]`
	out, err = run(t, "validate", writeDataset(t, dup))
	assert.ErrorIs(t, err, errInvalidDataset)
	assert.Contains(t, out, "duplicate company id")
}

func TestBuildDBAndExport(t *testing.T) {
	dir := writeDataset(t, validCompanies)
	dbPath := filepath.Join(t.TempDir(), "welfare.db")

	out, err := run(t, "build-db", dir, dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "written to")

	snap, err := loadFromDB(context.Background(), dbPath)
	require.NoError(t, err)
	assert.Len(t, snap.Companies, 2)

	xlsx := filepath.Join(t.TempDir(), "ranking.xlsx")
	_, err = run(t, "export", "ranking", "--db", dbPath, xlsx)
	require.NoError(t, err)

	f, err := excelize.OpenFile(xlsx)
	require.NoError(t, err)
	defer f.Close()
	name, err := f.GetCellValue("売上ランキング", "B2")
	require.NoError(t, err)
	assert.Equal(t, "LITALICO", name)

	cmpPath := filepath.Join(t.TempDir(), "compare.xlsx")
	_, err = run(t, "export", "compare", "--data", dir, "--ids", "welbe,litalico", cmpPath)
	require.NoError(t, err)
	_, err = os.Stat(cmpPath)
	assert.NoError(t, err)

	_, err = run(t, "export", "compare", "--data", dir, "--ids", "welbe", cmpPath)
	assert.Error(t, err, "a single company cannot be compared")
}

func TestExportUsesConfigDataSection(t *testing.T) {
	// GIVEN: A config whose [data] db points at a compiled snapshot
	// WHEN: export ranking runs with no --data or --db flag
	// THEN: The snapshot named by the config is exported

	dir := writeDataset(t, validCompanies)
	dbPath := filepath.Join(t.TempDir(), "welfare.db")
	_, err := run(t, "build-db", dir, dbPath)
	require.NoError(t, err)

	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	cfgBody := "[data]\ndir = '" + filepath.Join(t.TempDir(), "missing") + "'\ndb = '" + dbPath + "'\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfgBody), 0o644))

	xlsx := filepath.Join(t.TempDir(), "ranking.xlsx")
	_, err = run(t, "--config", cfgPath, "export", "ranking", xlsx)
	require.NoError(t, err)

	f, err := excelize.OpenFile(xlsx)
	require.NoError(t, err)
	defer f.Close()
	name, err := f.GetCellValue("売上ランキング", "B2")
	require.NoError(t, err)
	assert.Equal(t, "LITALICO", name)

	// Flags the user sets still override the config.
	_, err = run(t, "--config", cfgPath, "export", "compare", "--data", dir, "--db", "", xlsx)
	require.NoError(t, err)
}
