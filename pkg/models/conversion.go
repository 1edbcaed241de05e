package models

import (
	"fmt"
	"strings"
)

// Skipped item categories.
const (
	SkippedClass        = "class"
	SkippedProperty     = "property"
	SkippedRelationship = "relationship"
	SkippedInterface    = "interface"
	SkippedComponent    = "component"
	SkippedCommand      = "command"
)

// SkippedItem records one source item that could not be converted, with the
// reason and the original URI or DTMI so the loss is traceable.
type SkippedItem struct {
	ItemType string `json:"type"`
	Name     string `json:"name"`
	Reason   string `json:"reason"`
	URI      string `json:"uri"`
}

// ConversionResult is the complete outcome of one conversion run: the
// converted types plus everything that was lost or degraded along the way.
// A result is immutable once returned; Merge builds a new one.
type ConversionResult struct {
	EntityTypes       []*EntityType       `json:"entity_types"`
	RelationshipTypes []*RelationshipType `json:"relationship_types"`
	SkippedItems      []SkippedItem       `json:"skipped_items"`
	Warnings          []string            `json:"warnings"`
	OntologyName      string              `json:"ontology_name,omitempty"`
	TripleCount       int                 `json:"triple_count"`    // RDF sources only
	InterfaceCount    int                 `json:"interface_count"` // DTDL sources only
}

// AddWarning appends a non-fatal diagnostic.
func (r *ConversionResult) AddWarning(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// AddSkipped records an item that was dropped from the output.
func (r *ConversionResult) AddSkipped(itemType, name, reason, uri string) {
	r.SkippedItems = append(r.SkippedItems, SkippedItem{
		ItemType: itemType,
		Name:     name,
		Reason:   reason,
		URI:      uri,
	})
}

// SuccessRate is the percentage of processed items that made it into the
// output. An empty run counts as fully successful.
func (r *ConversionResult) SuccessRate() float64 {
	total := len(r.EntityTypes) + len(r.RelationshipTypes) + len(r.SkippedItems)
	if total == 0 {
		return 100.0
	}
	successful := len(r.EntityTypes) + len(r.RelationshipTypes)
	return float64(successful) / float64(total) * 100
}

// HasSkippedItems reports whether anything was dropped.
func (r *ConversionResult) HasSkippedItems() bool {
	return len(r.SkippedItems) > 0
}

// HasWarnings reports whether any warnings were recorded.
func (r *ConversionResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// SkippedByType groups skipped items by category.
func (r *ConversionResult) SkippedByType() map[string]int {
	counts := make(map[string]int)
	for _, item := range r.SkippedItems {
		counts[item.ItemType]++
	}
	return counts
}

// Summary renders a human-readable report of the run.
func (r *ConversionResult) Summary() string {
	var b strings.Builder
	b.WriteString("Conversion Summary:\n")
	fmt.Fprintf(&b, "  Entity Types: %d\n", len(r.EntityTypes))
	fmt.Fprintf(&b, "  Relationships: %d\n", len(r.RelationshipTypes))

	if len(r.SkippedItems) > 0 {
		fmt.Fprintf(&b, "  Skipped: %d\n", len(r.SkippedItems))
		for itemType, count := range r.SkippedByType() {
			fmt.Fprintf(&b, "    - %ss: %d\n", itemType, count)
		}
		const detailLimit = 5
		b.WriteString("    Details:\n")
		for i, item := range r.SkippedItems {
			if i == detailLimit {
				fmt.Fprintf(&b, "    ... and %d more\n", len(r.SkippedItems)-detailLimit)
				break
			}
			fmt.Fprintf(&b, "    - %s %s: %s\n", item.ItemType, item.Name, item.Reason)
		}
	}

	if len(r.Warnings) > 0 {
		fmt.Fprintf(&b, "  Warnings: %d\n", len(r.Warnings))
		const warningLimit = 3
		for i, w := range r.Warnings {
			if i == warningLimit {
				fmt.Fprintf(&b, "    ... and %d more\n", len(r.Warnings)-warningLimit)
				break
			}
			fmt.Fprintf(&b, "    - %s\n", w)
		}
	}

	fmt.Fprintf(&b, "  Success Rate: %.1f%%", r.SuccessRate())
	if r.TripleCount > 0 {
		fmt.Fprintf(&b, "\n  RDF Triples: %d", r.TripleCount)
	}
	if r.InterfaceCount > 0 {
		fmt.Fprintf(&b, "\n  DTDL Interfaces: %d", r.InterfaceCount)
	}
	return b.String()
}

// Merge combines two results into a new one, concatenating in order. Useful
// when converting a batch of files with a shared ID space.
func (r *ConversionResult) Merge(other *ConversionResult) *ConversionResult {
	merged := &ConversionResult{
		EntityTypes:       make([]*EntityType, 0, len(r.EntityTypes)+len(other.EntityTypes)),
		RelationshipTypes: make([]*RelationshipType, 0, len(r.RelationshipTypes)+len(other.RelationshipTypes)),
		SkippedItems:      make([]SkippedItem, 0, len(r.SkippedItems)+len(other.SkippedItems)),
		Warnings:          make([]string, 0, len(r.Warnings)+len(other.Warnings)),
		OntologyName:      r.OntologyName,
		TripleCount:       r.TripleCount + other.TripleCount,
		InterfaceCount:    r.InterfaceCount + other.InterfaceCount,
	}
	if merged.OntologyName == "" {
		merged.OntologyName = other.OntologyName
	}
	merged.EntityTypes = append(append(merged.EntityTypes, r.EntityTypes...), other.EntityTypes...)
	merged.RelationshipTypes = append(append(merged.RelationshipTypes, r.RelationshipTypes...), other.RelationshipTypes...)
	merged.SkippedItems = append(append(merged.SkippedItems, r.SkippedItems...), other.SkippedItems...)
	merged.Warnings = append(append(merged.Warnings, r.Warnings...), other.Warnings...)
	return merged
}
