package models

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestNewEntityType_Defaults(t *testing.T) {
	et := NewEntityType("1000000000001", "Person")

	if et.Namespace != DefaultNamespace {
		t.Errorf("Namespace = %q, want %q", et.Namespace, DefaultNamespace)
	}
	if et.NamespaceType != NamespaceTypeCustom {
		t.Errorf("NamespaceType = %q, want %q", et.NamespaceType, NamespaceTypeCustom)
	}
	if et.Visibility != VisibilityVisible {
		t.Errorf("Visibility = %q, want %q", et.Visibility, VisibilityVisible)
	}
	if et.BaseEntityTypeID != "" {
		t.Errorf("BaseEntityTypeID = %q, want empty", et.BaseEntityTypeID)
	}
}

func TestEntityType_JSONMarshaling(t *testing.T) {
	et := NewEntityType("1000000000001", "Person")
	et.Properties = []*EntityTypeProperty{
		{ID: "10000000000010001", Name: "hasName", ValueType: "String"},
	}

	jsonBytes, err := json.Marshal(et)
	if err != nil {
		t.Fatalf("Failed to marshal entity type: %v", err)
	}
	out := string(jsonBytes)

	for _, key := range []string{`"id"`, `"namespace"`, `"name"`, `"namespaceType"`, `"visibility"`, `"properties"`} {
		if !strings.Contains(out, key) {
			t.Errorf("marshaled JSON missing key %s: %s", key, out)
		}
	}
	// Optional fields stay out of the payload until set.
	for _, key := range []string{`"baseEntityTypeId"`, `"entityIdParts"`, `"displayNamePropertyId"`, `"timeseriesProperties"`} {
		if strings.Contains(out, key) {
			t.Errorf("marshaled JSON should omit unset key %s: %s", key, out)
		}
	}

	et.BaseEntityTypeID = "1000000000002"
	et.EntityIDParts = []string{"10000000000010001"}
	jsonBytes, err = json.Marshal(et)
	if err != nil {
		t.Fatalf("Failed to marshal entity type with parent: %v", err)
	}
	out = string(jsonBytes)
	if !strings.Contains(out, `"baseEntityTypeId":"1000000000002"`) {
		t.Errorf("expected baseEntityTypeId in JSON: %s", out)
	}
	if !strings.Contains(out, `"entityIdParts":["10000000000010001"]`) {
		t.Errorf("expected entityIdParts in JSON: %s", out)
	}
}

func TestEntityType_Property(t *testing.T) {
	et := NewEntityType("1000000000001", "Thermostat")
	et.Properties = []*EntityTypeProperty{
		{ID: "p1", Name: "serialNumber", ValueType: "String"},
	}
	et.TimeseriesProperties = []*EntityTypeProperty{
		{ID: "p2", Name: "temperature", ValueType: "Double"},
	}

	if got := et.Property("serialNumber"); got == nil || got.ID != "p1" {
		t.Errorf("Property(serialNumber) = %v, want p1", got)
	}
	if got := et.Property("temperature"); got == nil || got.ID != "p2" {
		t.Errorf("Property(temperature) = %v, want p2 from timeseries set", got)
	}
	if et.Property("missing") != nil {
		t.Error("Property(missing) should be nil")
	}
	if !et.HasProperty("temperature") {
		t.Error("HasProperty(temperature) should be true")
	}
	if et.PropertyCount() != 2 {
		t.Errorf("PropertyCount = %d, want 2", et.PropertyCount())
	}
}

func TestNewRelationshipType(t *testing.T) {
	rel := NewRelationshipType("1000000000003", "worksFor", "1000000000001", "1000000000002")

	if rel.Source.EntityTypeID != "1000000000001" {
		t.Errorf("Source = %q, want 1000000000001", rel.Source.EntityTypeID)
	}
	if rel.Target.EntityTypeID != "1000000000002" {
		t.Errorf("Target = %q, want 1000000000002", rel.Target.EntityTypeID)
	}

	jsonBytes, err := json.Marshal(rel)
	if err != nil {
		t.Fatalf("Failed to marshal relationship type: %v", err)
	}
	out := string(jsonBytes)
	if !strings.Contains(out, `"source":{"entityTypeId":"1000000000001"}`) {
		t.Errorf("source endpoint shape wrong: %s", out)
	}
	if !strings.Contains(out, `"target":{"entityTypeId":"1000000000002"}`) {
		t.Errorf("target endpoint shape wrong: %s", out)
	}
}
