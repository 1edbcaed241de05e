package dtdl

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ontoforge/ontoforge/pkg/apperrors"
)

const thermostatJSON = `{
	"@context": "dtmi:dtdl:context;4",
	"@id": "dtmi:com:example:Thermostat;1",
	"@type": "Interface",
	"displayName": "Thermostat",
	"contents": [
		{"@type": "Property", "name": "targetTemperature", "schema": "double"},
		{"@type": "Telemetry", "name": "currentTemperature", "schema": "double"}
	]
}`

func TestParseSimpleInterface(t *testing.T) {
	parser := NewParser(zap.NewNop())

	result, err := parser.ParseString(thermostatJSON)
	require.NoError(t, err)
	require.Len(t, result.Interfaces, 1)
	assert.Empty(t, result.Warnings)

	iface := result.Interfaces[0]
	assert.Equal(t, "dtmi:com:example:Thermostat;1", iface.DTMI)
	assert.Equal(t, "Thermostat", iface.ResolvedDisplayName())
	assert.Equal(t, V4, iface.Version())
	require.Len(t, iface.Properties, 1)
	require.Len(t, iface.Telemetries, 1)
	assert.Equal(t, "targetTemperature", iface.Properties[0].Name)
	assert.Equal(t, "double", iface.Properties[0].Schema.Name)
	assert.Equal(t, "currentTemperature", iface.Telemetries[0].Name)
}

func TestParseRelationship(t *testing.T) {
	parser := NewParser(zap.NewNop())

	result, err := parser.ParseString(`{
		"@context": "dtmi:dtdl:context;4",
		"@id": "dtmi:com:example:Room;1",
		"@type": "Interface",
		"displayName": "Room",
		"contents": [
			{"@type": "Relationship", "name": "hasThermostat", "target": "dtmi:com:example:Thermostat;1"}
		]
	}`)
	require.NoError(t, err)
	require.Len(t, result.Interfaces, 1)

	rels := result.Interfaces[0].Relationships
	require.Len(t, rels, 1)
	assert.Equal(t, "hasThermostat", rels[0].Name)
	assert.Equal(t, "dtmi:com:example:Thermostat;1", rels[0].Target)
}

func TestParseEnumSchema(t *testing.T) {
	parser := NewParser(zap.NewNop())

	result, err := parser.ParseString(`{
		"@context": "dtmi:dtdl:context;4",
		"@id": "dtmi:com:example:Device;1",
		"@type": "Interface",
		"contents": [
			{
				"@type": "Property",
				"name": "status",
				"schema": {
					"@type": "Enum",
					"valueSchema": "string",
					"enumValues": [
						{"name": "online", "enumValue": "ONLINE"},
						{"name": "offline", "enumValue": "OFFLINE"}
					]
				}
			}
		]
	}`)
	require.NoError(t, err)
	require.Len(t, result.Interfaces, 1)

	prop := result.Interfaces[0].Properties[0]
	require.True(t, prop.Schema.IsComplex())
	assert.Equal(t, SchemaEnum, prop.Schema.Kind)
	assert.Equal(t, "string", prop.Schema.ValueSchema)
	require.Len(t, prop.Schema.EnumValues, 2)
	assert.Equal(t, "online", prop.Schema.EnumValues[0].Name)
	assert.Equal(t, "ONLINE", prop.Schema.EnumValues[0].Value)
}

func TestParseObjectArrayMapSchemas(t *testing.T) {
	parser := NewParser(zap.NewNop())

	result, err := parser.ParseString(`{
		"@context": "dtmi:dtdl:context;3",
		"@id": "dtmi:com:example:Sensor;1",
		"@type": "Interface",
		"contents": [
			{
				"@type": "Property",
				"name": "location",
				"schema": {
					"@type": "Object",
					"fields": [
						{"name": "lat", "schema": "double"},
						{"name": "lon", "schema": "double"}
					]
				}
			},
			{
				"@type": "Property",
				"name": "readings",
				"schema": {"@type": "Array", "elementSchema": "integer"}
			},
			{
				"@type": "Property",
				"name": "labels",
				"schema": {
					"@type": "Map",
					"mapKey": {"name": "tag", "schema": "string"},
					"mapValue": {"name": "value", "schema": "string"}
				}
			}
		]
	}`)
	require.NoError(t, err)
	require.Len(t, result.Interfaces, 1)

	props := result.Interfaces[0].Properties
	require.Len(t, props, 3)

	location := props[0].Schema
	assert.Equal(t, SchemaObject, location.Kind)
	require.Len(t, location.Fields, 2)
	assert.Equal(t, "lat", location.Fields[0].Name)
	assert.Equal(t, "double", location.Fields[0].Schema.Name)

	readings := props[1].Schema
	assert.Equal(t, SchemaArray, readings.Kind)
	require.NotNil(t, readings.Element)
	assert.Equal(t, "integer", readings.Element.Name)

	labels := props[2].Schema
	assert.Equal(t, SchemaMap, labels.Kind)
	require.NotNil(t, labels.MapValue)
	assert.Equal(t, "string", labels.MapValue.Schema.Name)
}

func TestParseSemanticTypes(t *testing.T) {
	parser := NewParser(zap.NewNop())

	result, err := parser.ParseString(`{
		"@context": "dtmi:dtdl:context;2",
		"@id": "dtmi:com:example:Thermometer;1",
		"@type": "Interface",
		"contents": [
			{
				"@type": ["Telemetry", "Temperature"],
				"name": "temp",
				"schema": "double",
				"unit": "degreeCelsius"
			}
		]
	}`)
	require.NoError(t, err)
	require.Len(t, result.Interfaces, 1)

	tel := result.Interfaces[0].Telemetries[0]
	assert.Equal(t, []string{"Temperature"}, tel.SemanticTypes())
	assert.Equal(t, "degreeCelsius", tel.Unit)
}

func TestParseCommandAndComponent(t *testing.T) {
	parser := NewParser(zap.NewNop())

	result, err := parser.ParseString(`{
		"@context": "dtmi:dtdl:context;4",
		"@id": "dtmi:com:example:Hvac;1",
		"@type": "Interface",
		"contents": [
			{
				"@type": "Command",
				"name": "reboot",
				"request": {"name": "delay", "schema": "integer"},
				"response": {"name": "status", "schema": "string"}
			},
			{"@type": "Component", "name": "fan", "schema": "dtmi:com:example:Fan;1"}
		]
	}`)
	require.NoError(t, err)
	require.Len(t, result.Interfaces, 1)

	iface := result.Interfaces[0]
	require.Len(t, iface.Commands, 1)
	cmd := iface.Commands[0]
	assert.Equal(t, "reboot", cmd.Name)
	require.NotNil(t, cmd.Request)
	assert.Equal(t, "delay", cmd.Request.Name)
	assert.Equal(t, "integer", cmd.Request.Schema.Name)
	require.NotNil(t, cmd.Response)
	assert.Equal(t, "string", cmd.Response.Schema.Name)

	require.Len(t, iface.Components, 1)
	assert.Equal(t, "fan", iface.Components[0].Name)
	assert.Equal(t, "dtmi:com:example:Fan;1", iface.Components[0].Schema)
}

func TestParseLocalizedDisplayName(t *testing.T) {
	parser := NewParser(zap.NewNop())

	result, err := parser.ParseString(`{
		"@context": "dtmi:dtdl:context;3",
		"@id": "dtmi:com:example:Pump;1",
		"@type": "Interface",
		"displayName": {"en": "Pump", "de": "Pumpe"}
	}`)
	require.NoError(t, err)
	require.Len(t, result.Interfaces, 1)
	assert.Equal(t, "Pump", result.Interfaces[0].ResolvedDisplayName())
	assert.Equal(t, "Pumpe", result.Interfaces[0].DisplayName.Localized["de"])
}

func TestParseExtendsSingleString(t *testing.T) {
	parser := NewParser(zap.NewNop())

	result, err := parser.ParseString(`{
		"@context": "dtmi:dtdl:context;3",
		"@id": "dtmi:com:example:Child;1",
		"@type": "Interface",
		"extends": "dtmi:com:example:Parent;1"
	}`)
	require.NoError(t, err)
	require.Len(t, result.Interfaces, 1)
	assert.Equal(t, []string{"dtmi:com:example:Parent;1"}, result.Interfaces[0].Extends)
}

func TestParseArrayDocument(t *testing.T) {
	parser := NewParser(zap.NewNop())

	result, err := parser.ParseString(`[
		{"@context": "dtmi:dtdl:context;4", "@id": "dtmi:com:example:A;1", "@type": "Interface"},
		{"@context": "dtmi:dtdl:context;4", "@id": "dtmi:com:example:B;1", "@type": "Interface"}
	]`)
	require.NoError(t, err)
	assert.Len(t, result.Interfaces, 2)
}

func TestParseEmptyContent(t *testing.T) {
	parser := NewParser(zap.NewNop())

	for _, content := range []string{"", "   ", "\n\t\n"} {
		_, err := parser.ParseString(content)
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.ErrEmptyInput))
	}
}

func TestParseInvalidJSON(t *testing.T) {
	parser := NewParser(zap.NewNop())

	_, err := parser.ParseString(`{"@id": "dtmi:com:example:Broken;1",`)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrParse))
}

func TestParseNonInterfaceSkipped(t *testing.T) {
	parser := NewParser(zap.NewNop())

	result, err := parser.ParseString(`[
		{"@context": "dtmi:dtdl:context;4", "@id": "dtmi:com:example:A;1", "@type": "Interface"},
		{"@id": "dtmi:com:example:Shared;1", "@type": "Telemetry"}
	]`)
	require.NoError(t, err)
	assert.Len(t, result.Interfaces, 1)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "non-Interface")
}

func TestParseContextDefaultsToV2(t *testing.T) {
	parser := NewParser(zap.NewNop())

	result, err := parser.ParseString(`{"@id": "dtmi:com:example:Old;1", "@type": "Interface"}`)
	require.NoError(t, err)
	require.Len(t, result.Interfaces, 1)
	assert.Equal(t, V2, result.Interfaces[0].Version())
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "thermostat.json")
	require.NoError(t, os.WriteFile(path, []byte(thermostatJSON), 0o644))

	parser := NewParser(zap.NewNop())
	result, err := parser.ParseFile(path)
	require.NoError(t, err)
	require.Len(t, result.Interfaces, 1)
	assert.Equal(t, "dtmi:com:example:Thermostat;1", result.Interfaces[0].DTMI)
}

func TestParseDirectory(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"device1.json": `{"@context": "dtmi:dtdl:context;4", "@id": "dtmi:com:example:Device1;1", "@type": "Interface", "contents": []}`,
		"device2.json": `{"@context": "dtmi:dtdl:context;4", "@id": "dtmi:com:example:Device2;1", "@type": "Interface", "contents": []}`,
		"notes.txt":    "not a model",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}

	parser := NewParser(zap.NewNop())
	result, err := parser.ParseDirectory(dir)
	require.NoError(t, err)
	require.Len(t, result.Interfaces, 2)

	m := result.InterfaceMap()
	assert.Contains(t, m, "dtmi:com:example:Device1;1")
	assert.Contains(t, m, "dtmi:com:example:Device2;1")
}

func TestParseDirectorySkipsBadFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "good.json"), []byte(thermostatJSON), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{broken"), 0o644))

	parser := NewParser(zap.NewNop())
	result, err := parser.ParseDirectory(dir)
	require.NoError(t, err)
	assert.Len(t, result.Interfaces, 1)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "bad.json")
}

func TestLocalName(t *testing.T) {
	cases := map[string]string{
		"dtmi:com:example:Thermostat;1": "Thermostat",
		"dtmi:Standalone;2":             "Standalone",
		"dtmi:com:example:Fan":          "Fan",
	}
	for dtmi, want := range cases {
		assert.Equal(t, want, LocalName(dtmi), "dtmi %s", dtmi)
	}
}

func TestResolvedDisplayNameFallsBackToDTMI(t *testing.T) {
	iface := &Interface{DTMI: "dtmi:com:example:Boiler;3"}
	assert.Equal(t, "Boiler", iface.ResolvedDisplayName())
}

func TestScaledDecimalDetection(t *testing.T) {
	parser := NewParser(zap.NewNop())

	result, err := parser.ParseString(`{
		"@context": "dtmi:dtdl:context;4",
		"@id": "dtmi:com:example:Meter;1",
		"@type": "Interface",
		"contents": [
			{"@type": "Property", "name": "reading", "schema": "scaledDecimal"}
		]
	}`)
	require.NoError(t, err)
	require.Len(t, result.Interfaces, 1)
	assert.True(t, result.Interfaces[0].Properties[0].Schema.IsScaledDecimal())
}
