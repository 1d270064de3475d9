package flightdata

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadReferenceDataCreatesBuiltinTables(t *testing.T) {
	dir := t.TempDir()

	ref := LoadReferenceData(dir, testLogger())

	airport, ok := ref.Airport("jfk")
	require.True(t, ok)
	assert.Equal(t, "New York", airport.City)

	airline, ok := ref.Airline("UA")
	require.True(t, ok)
	assert.Equal(t, "United Airlines", airline.Name)

	// Both tables should have been persisted for the next startup.
	assert.FileExists(t, filepath.Join(dir, airportsFile))
	assert.FileExists(t, filepath.Join(dir, airlinesFile))
}

func TestLoadReferenceDataReadsExistingTables(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, airportsFile),
		[]byte(`[{"code":"PDX","name":"Portland International","city":"Portland"}]`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, airlinesFile),
		[]byte(`[{"code":"AS","name":"Alaska Airlines"}]`), 0644))

	ref := LoadReferenceData(dir, testLogger())

	_, ok := ref.Airport("JFK")
	assert.False(t, ok, "custom table replaces the builtin, not merges")

	airport, ok := ref.Airport("PDX")
	require.True(t, ok)
	assert.Equal(t, "Portland International", airport.Name)

	airline, ok := ref.AirlineForFlight("AS320")
	require.True(t, ok)
	assert.Equal(t, "Alaska Airlines", airline.Name)
}

func TestLoadReferenceDataMalformedFallsBackToBuiltin(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, airportsFile), []byte(`{not json`), 0644))

	ref := LoadReferenceData(dir, testLogger())

	_, ok := ref.Airport("JFK")
	assert.True(t, ok)
}

func TestAirportCodesSorted(t *testing.T) {
	ref := builtinRef()

	codes := ref.AirportCodes()
	require.NotEmpty(t, codes)
	assert.IsIncreasing(t, codes)
	assert.Equal(t, len(codes), len(ref.airportList()))
}
