package dtdl

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func v3Context() Context {
	return Context{Entries: []string{"dtmi:dtdl:context;3"}}
}

func TestValidateValidInterface(t *testing.T) {
	iface := &Interface{
		DTMI:        "dtmi:com:example:Thermostat;1",
		Context:     v3Context(),
		DisplayName: LocalizedString{Value: "Thermostat"},
		Properties:  []Property{{Name: "temperature", Schema: &Schema{Name: "double"}}},
	}

	validator := NewValidator(false, zap.NewNop())
	result := validator.Validate([]*Interface{iface})

	assert.True(t, result.IsValid)
	assert.Empty(t, result.Errors())
	assert.Equal(t, 1, result.Stat("interfaces"))
	assert.Equal(t, 1, result.Stat("properties"))
}

func TestValidateInvalidDTMI(t *testing.T) {
	iface := &Interface{DTMI: "invalid:format", Context: v3Context()}

	validator := NewValidator(false, zap.NewNop())
	result := validator.Validate([]*Interface{iface})

	assert.False(t, result.IsValid)
	found := false
	for _, issue := range result.Errors() {
		if strings.Contains(issue.Message, "DTMI") {
			found = true
		}
	}
	assert.True(t, found, "expected an error mentioning DTMI")
}

func TestValidateMissingDTMI(t *testing.T) {
	iface := &Interface{Context: v3Context()}

	validator := NewValidator(false, zap.NewNop())
	result := validator.Validate([]*Interface{iface})

	assert.False(t, result.IsValid)
	require.NotEmpty(t, result.Errors())
	assert.Contains(t, result.Errors()[0].Message, "DTDL001")
}

func TestValidateOverlongDTMI(t *testing.T) {
	iface := &Interface{
		DTMI:    "dtmi:com:example:" + strings.Repeat("x", 128) + ";1",
		Context: v3Context(),
	}

	validator := NewValidator(false, zap.NewNop())
	result := validator.Validate([]*Interface{iface})

	assert.False(t, result.IsValid)
	assert.Contains(t, result.Errors()[0].Message, "DTDL003")
}

func TestValidateSystemSegment(t *testing.T) {
	iface := &Interface{DTMI: "dtmi:com:_internal:Thing;1", Context: v3Context()}

	validator := NewValidator(false, zap.NewNop())
	result := validator.Validate([]*Interface{iface})

	assert.False(t, result.IsValid)
	found := false
	for _, issue := range result.Errors() {
		if strings.Contains(issue.Message, "DTDL004") {
			found = true
			assert.NotEmpty(t, issue.Recommendation)
		}
	}
	assert.True(t, found)
}

func TestValidateMissingExtendsReference(t *testing.T) {
	iface := &Interface{
		DTMI:    "dtmi:com:example:Child;1",
		Context: v3Context(),
		Extends: []string{"dtmi:com:example:NonExistent;1"},
	}

	validator := NewValidator(false, zap.NewNop())
	result := validator.Validate([]*Interface{iface})

	assert.True(t, result.IsValid, "external extends is a warning, not an error")
	require.Len(t, result.Warnings(), 1)
	assert.Contains(t, result.Warnings()[0].Message, "DTDL022")
}

func TestValidateStrictModePromotesWarnings(t *testing.T) {
	iface := &Interface{
		DTMI:    "dtmi:com:example:Child;1",
		Context: v3Context(),
		Extends: []string{"dtmi:com:example:NonExistent;1"},
	}

	validator := NewValidator(true, zap.NewNop())
	result := validator.Validate([]*Interface{iface})

	assert.False(t, result.IsValid)
	assert.Empty(t, result.Errors())
}

func TestValidateExtendsCountV2(t *testing.T) {
	iface := &Interface{
		DTMI:    "dtmi:com:example:Multi;1",
		Context: Context{Entries: []string{"dtmi:dtdl:context;2"}},
		Extends: []string{
			"dtmi:com:example:A;1",
			"dtmi:com:example:B;1",
			"dtmi:com:example:C;1",
		},
	}

	validator := NewValidator(false, zap.NewNop())
	result := validator.Validate([]*Interface{iface})

	assert.False(t, result.IsValid)
	found := false
	for _, issue := range result.Errors() {
		if strings.Contains(issue.Message, "DTDL020") {
			found = true
		}
	}
	assert.True(t, found)
}

func TestValidateInheritanceDepth(t *testing.T) {
	var interfaces []*Interface
	for i := 0; i < 12; i++ {
		iface := &Interface{
			DTMI:    fmt.Sprintf("dtmi:com:example:Level%d;1", i),
			Context: v3Context(),
		}
		if i > 0 {
			iface.Extends = []string{fmt.Sprintf("dtmi:com:example:Level%d;1", i-1)}
		}
		interfaces = append(interfaces, iface)
	}

	validator := NewValidator(false, zap.NewNop())
	result := validator.Validate(interfaces)

	assert.False(t, result.IsValid)
	found := false
	for _, issue := range result.Errors() {
		if strings.Contains(issue.Message, "DTDL021") {
			found = true
		}
	}
	assert.True(t, found)
}

func TestValidateInheritanceCycleTerminates(t *testing.T) {
	a := &Interface{
		DTMI:    "dtmi:com:example:A;1",
		Context: v3Context(),
		Extends: []string{"dtmi:com:example:B;1"},
	}
	b := &Interface{
		DTMI:    "dtmi:com:example:B;1",
		Context: v3Context(),
		Extends: []string{"dtmi:com:example:A;1"},
	}

	validator := NewValidator(false, zap.NewNop())
	result := validator.Validate([]*Interface{a, b})

	// Depth stays bounded; the cycle must not hang or blow the stack.
	assert.True(t, result.IsValid)
}

func TestValidateDuplicateDTMI(t *testing.T) {
	a := &Interface{DTMI: "dtmi:com:example:Dup;1", Context: v3Context()}
	b := &Interface{DTMI: "dtmi:com:example:Dup;1", Context: v3Context()}

	validator := NewValidator(false, zap.NewNop())
	result := validator.Validate([]*Interface{a, b})

	assert.False(t, result.IsValid)
	assert.Contains(t, result.Errors()[0].Message, "duplicate")
}

func TestValidateElementNames(t *testing.T) {
	iface := &Interface{
		DTMI:    "dtmi:com:example:Names;1",
		Context: Context{Entries: []string{"dtmi:dtdl:context;2"}},
		Properties: []Property{
			{Name: "1badStart", Schema: &Schema{Name: "string"}},
			{Name: strings.Repeat("p", 65), Schema: &Schema{Name: "string"}},
		},
	}

	validator := NewValidator(false, zap.NewNop())
	result := validator.Validate([]*Interface{iface})

	assert.False(t, result.IsValid)
	var sawStart, sawLength bool
	for _, issue := range result.Errors() {
		if strings.Contains(issue.Message, "DTDL031") {
			sawStart = true
		}
		if strings.Contains(issue.Message, "DTDL030") {
			sawLength = true
		}
	}
	assert.True(t, sawStart)
	assert.True(t, sawLength)
}

func TestValidateNameLengthVariesByVersion(t *testing.T) {
	name := strings.Repeat("p", 100)

	v2 := &Interface{
		DTMI:       "dtmi:com:example:OldModel;1",
		Context:    Context{Entries: []string{"dtmi:dtdl:context;2"}},
		Properties: []Property{{Name: name, Schema: &Schema{Name: "string"}}},
	}
	v3 := &Interface{
		DTMI:       "dtmi:com:example:NewModel;1",
		Context:    v3Context(),
		Properties: []Property{{Name: name, Schema: &Schema{Name: "string"}}},
	}

	validator := NewValidator(false, zap.NewNop())
	assert.False(t, validator.Validate([]*Interface{v2}).IsValid)
	assert.True(t, validator.Validate([]*Interface{v3}).IsValid)
}

func TestLimitsFor(t *testing.T) {
	assert.Equal(t, 2, LimitsFor(V2).MaxExtends)
	assert.Equal(t, 1024, LimitsFor(V3).MaxExtends)
	assert.Equal(t, 12, LimitsFor(V4).MaxExtendsDepth)
	assert.True(t, LimitsFor(V4).ScaledDecimal)
	assert.False(t, IsKnownVersion(Version(7)))
	// unknown versions use the v3 limits
	assert.Equal(t, LimitsFor(V3), LimitsFor(Version(7)))
}
