package dtdl

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ontoforge/ontoforge/pkg/validation"
)

// maxDTMILength is the DTDL limit on interface DTMI length.
const maxDTMILength = 128

// Validator checks parsed interfaces against the DTDL specification: DTMI
// format, name lengths, extends fan-out and depth, and cross-references
// between interfaces. Findings carry their DTDL rule code (DTDL001 and so
// on) in the message.
type Validator struct {
	strict bool
	logger *zap.Logger
}

// NewValidator creates a DTDL validator. In strict mode warnings also render
// the result invalid.
func NewValidator(strict bool, logger *zap.Logger) *Validator {
	return &Validator{strict: strict, logger: logger.Named("dtdl-validator")}
}

// Validate checks a set of interfaces as one model. References between the
// given interfaces resolve against each other; extends targets outside the
// set are reported as warnings, not errors.
func (v *Validator) Validate(interfaces []*Interface) *validation.Result {
	result := validation.NewResult("dtdl")

	ifaceMap := make(map[string]*Interface, len(interfaces))
	for _, iface := range interfaces {
		if iface.DTMI == "" {
			continue
		}
		if _, seen := ifaceMap[iface.DTMI]; seen {
			result.AddError(validation.CategoryNameConflict,
				"duplicate interface DTMI: %s", iface.DTMI)
			continue
		}
		ifaceMap[iface.DTMI] = iface
	}

	stats := struct{ properties, telemetries, relationships, components, commands int }{}
	for _, iface := range interfaces {
		limits := LimitsFor(iface.Version())
		v.checkDTMI(iface, result)
		v.checkStructure(iface, limits, result)
		v.checkInheritance(iface, ifaceMap, limits, result)
		v.checkContents(iface, limits, result)

		stats.properties += len(iface.Properties)
		stats.telemetries += len(iface.Telemetries)
		stats.relationships += len(iface.Relationships)
		stats.components += len(iface.Components)
		stats.commands += len(iface.Commands)
	}

	result.SetStat("interfaces", len(interfaces))
	result.SetStat("properties", stats.properties)
	result.SetStat("telemetries", stats.telemetries)
	result.SetStat("relationships", stats.relationships)
	result.SetStat("components", stats.components)
	result.SetStat("commands", stats.commands)

	if v.strict && result.WarningCount() > 0 {
		result.IsValid = false
	}
	v.logger.Debug("validated DTDL model",
		zap.Int("interfaces", len(interfaces)),
		zap.Int("errors", result.ErrorCount()),
		zap.Int("warnings", result.WarningCount()))
	return result
}

func (v *Validator) checkDTMI(iface *Interface, result *validation.Result) {
	if iface.DTMI == "" {
		result.AddError(validation.CategoryMissingRequired,
			"DTDL001: interface missing required @id (DTMI)")
		return
	}
	dtmi := iface.DTMI
	if !strings.HasPrefix(dtmi, "dtmi:") {
		result.AddError(validation.CategoryInvalidStructure,
			"DTDL002: invalid DTMI format: must start with \"dtmi:\" (got %q)", dtmi)
	}
	if len(dtmi) > maxDTMILength {
		result.AddError(validation.CategoryNameTooLong,
			"DTDL003: interface DTMI exceeds maximum length of %d characters (length %d)",
			maxDTMILength, len(dtmi))
	}
	path := strings.TrimPrefix(dtmi, "dtmi:")
	if idx := strings.IndexByte(path, ';'); idx >= 0 {
		path = path[:idx]
	}
	for _, segment := range strings.Split(path, ":") {
		if strings.HasPrefix(segment, "_") {
			result.Add(validation.Issue{
				Severity: validation.SeverityError,
				Category: validation.CategoryInvalidCharacter,
				Message: fmt.Sprintf(
					"DTDL004: DTMI contains system segment (starts with _): %s", segment),
				Location:       dtmi,
				Recommendation: "User DTMIs cannot contain segments starting with underscore",
			})
		}
	}
}

func (v *Validator) checkStructure(iface *Interface, limits Limits, result *validation.Result) {
	name := iface.ResolvedDisplayName()
	if len(name) > limits.MaxNameLength {
		result.AddError(validation.CategoryNameTooLong,
			"DTDL010: interface name exceeds maximum length of %d characters", limits.MaxNameLength)
	}
	if limits.MaxContents > 0 && iface.ContentCount() > limits.MaxContents {
		result.AddError(validation.CategoryConstraintViolation,
			"DTDL011: interface declares %d content elements, maximum is %d",
			iface.ContentCount(), limits.MaxContents)
	}
}

func (v *Validator) checkInheritance(iface *Interface, ifaceMap map[string]*Interface, limits Limits, result *validation.Result) {
	if limits.MaxExtends > 0 && len(iface.Extends) > limits.MaxExtends {
		result.AddError(validation.CategoryConstraintViolation,
			"DTDL020: interface extends %d interfaces, maximum is %d",
			len(iface.Extends), limits.MaxExtends)
	}

	depth := inheritanceDepth(iface, ifaceMap, make(map[string]bool))
	if limits.MaxExtendsDepth > 0 && depth > limits.MaxExtendsDepth {
		result.AddError(validation.CategoryConstraintViolation,
			"DTDL021: inheritance depth (%d) exceeds maximum (%d)",
			depth, limits.MaxExtendsDepth)
	}

	for _, parent := range iface.Extends {
		if _, ok := ifaceMap[parent]; !ok {
			result.Add(validation.Issue{
				Severity: validation.SeverityWarning,
				Category: validation.CategoryExternalDependency,
				Message: fmt.Sprintf(
					"DTDL022: interface extends external type not in model: %s", parent),
				Location:       iface.DTMI,
				Recommendation: "Include the parent interface definition or remove the extends reference",
			})
		}
	}
}

// inheritanceDepth walks the extends chains depth-first. The visited set is
// shared across branches so cycles terminate.
func inheritanceDepth(iface *Interface, ifaceMap map[string]*Interface, visited map[string]bool) int {
	if visited[iface.DTMI] {
		return 0
	}
	visited[iface.DTMI] = true
	if len(iface.Extends) == 0 {
		return 1
	}
	deepest := 0
	for _, parentDTMI := range iface.Extends {
		parent, ok := ifaceMap[parentDTMI]
		if !ok {
			continue
		}
		if d := inheritanceDepth(parent, ifaceMap, visited); d > deepest {
			deepest = d
		}
	}
	return deepest + 1
}

func (v *Validator) checkContents(iface *Interface, limits Limits, result *validation.Result) {
	for i := range iface.Properties {
		v.checkElementName(iface.Properties[i].Name, "Property", limits, result)
	}
	for i := range iface.Telemetries {
		v.checkElementName(iface.Telemetries[i].Name, "Telemetry", limits, result)
	}
	for i := range iface.Relationships {
		v.checkElementName(iface.Relationships[i].Name, "Relationship", limits, result)
	}
	for i := range iface.Components {
		v.checkElementName(iface.Components[i].Name, "Component", limits, result)
	}
	for i := range iface.Commands {
		v.checkElementName(iface.Commands[i].Name, "Command", limits, result)
	}
}

func (v *Validator) checkElementName(name, elementType string, limits Limits, result *validation.Result) {
	if len(name) > limits.MaxNameLength {
		result.AddError(validation.CategoryNameTooLong,
			"DTDL030: %s name %q exceeds maximum length of %d",
			elementType, name, limits.MaxNameLength)
	}
	if name != "" && !isASCIILetter(name[0]) {
		result.AddError(validation.CategoryInvalidCharacter,
			"DTDL031: %s name must start with a letter: %q", elementType, name)
	}
}

func isASCIILetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
