package repository

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"FinDash/internal/domain/models"
	"FinDash/pkg/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalogIsWellFormed(t *testing.T) {
	c := DefaultCatalog()
	ps := c.ListPatterns()
	require.NotEmpty(t, ps)

	ids := map[string]bool{}
	names := map[string]bool{}
	for _, p := range ps {
		assert.False(t, ids[p.ID], "duplicate id %s", p.ID)
		assert.False(t, names[p.Name], "duplicate name %s", p.Name)
		ids[p.ID], names[p.Name] = true, true

		_, _, err := util.ParseClock(p.Time)
		assert.NoError(t, err, p.Name)
		assert.True(t, p.Importance.Valid(), p.Name)
	}
	assert.Equal(t, "Non-Farm Payrolls", ps[0].Name)
}

func TestCatalogListIsACopy(t *testing.T) {
	c := NewStaticCatalog(pattern("a", "A", 0, "08:30", "1%", "2%", nil, models.ImportanceHigh))
	ps := c.ListPatterns()
	ps[0].Name = "mutated"
	assert.Equal(t, "A", c.ListPatterns()[0].Name)

	p, ok := c.Find("A")
	require.True(t, ok)
	assert.Equal(t, "a", p.ID)
	_, ok = c.Find("mutated")
	assert.False(t, ok)
	assert.Equal(t, []string{"A"}, c.Names())
}

const goodCatalog = `
indicators:
  - id: "g1"
    name: "GDP"
    day_offset: 0
    time: "08:30"
    previous: "2.1%"
    forecast: "2.3%"
    importance: high
  - id: "g2"
    name: "Housing Starts"
    day_offset: -3
    time: "08:30"
    currency: "USD"
    previous: "1.36M"
    forecast: "1.38M"
    actual: "1.40M"
`

func TestParseCatalog(t *testing.T) {
	c, err := ParseCatalog([]byte(goodCatalog))
	require.NoError(t, err)
	ps := c.ListPatterns()
	require.Len(t, ps, 2)

	assert.Equal(t, "GDP", ps[0].Name)
	assert.Equal(t, "USD", ps[0].Currency)
	assert.Equal(t, models.ImportanceHigh, ps[0].Importance)
	assert.Nil(t, ps[0].Actual)

	assert.Equal(t, -3, ps[1].DayOffset)
	assert.Equal(t, models.ImportanceMedium, ps[1].Importance)
	require.NotNil(t, ps[1].Actual)
	assert.Equal(t, "1.40M", ps[1].Actual.String())
}

func TestParseCatalogRejects(t *testing.T) {
	cases := map[string]string{
		"bad clock": `
indicators:
  - {id: "1", name: "A", time: "25:00", previous: "1%", forecast: "1%"}`,
		"bad importance": `
indicators:
  - {id: "1", name: "A", time: "08:30", previous: "1%", forecast: "1%", importance: urgent}`,
		"bad value": `
indicators:
  - {id: "1", name: "A", time: "08:30", previous: "lots", forecast: "1%"}`,
		"duplicate id": `
indicators:
  - {id: "1", name: "A", time: "08:30", previous: "1%", forecast: "1%"}
  - {id: "1", name: "B", time: "08:30", previous: "1%", forecast: "1%"}`,
		"duplicate name": `
indicators:
  - {id: "1", name: "A", time: "08:30", previous: "1%", forecast: "1%"}
  - {id: "2", name: "A", time: "08:30", previous: "1%", forecast: "1%"}`,
		"missing name": `
indicators:
  - {id: "1", time: "08:30", previous: "1%", forecast: "1%"}`,
		"empty":       `indicators: []`,
		"not yaml":    `indicators: [`,
	}
	for name, doc := range cases {
		_, err := ParseCatalog([]byte(doc))
		assert.Truef(t, errors.Is(err, util.ErrInvalidInput), "%s: %v", name, err)
	}
}

func TestLoadCatalogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(goodCatalog), 0o600))

	c, err := LoadCatalogFile(path)
	require.NoError(t, err)
	assert.Len(t, c.ListPatterns(), 2)

	_, err = LoadCatalogFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
