package schema

import (
	"go/types"
	"testing"

	"github.com/griffnb/core-apidoc/internal/domain"
	"github.com/griffnb/core-apidoc/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const typemapSource = `package models

import (
	"encoding/json"
	"time"
)

type Status string

type Level int

type Address struct {
	City string
}

type Stamp time.Time

type Sample struct {
	Name    string
	Count   int64
	Ratio   float32
	Active  bool
	Tags    []string
	Raw     []byte
	Meta    map[string]any
	Created time.Time
	Updated *time.Time
	Status  Status
	Level   Level
	Home    Address
	Work    *Address
	Homes   []Address
	Dur     time.Duration
	Payload json.RawMessage
	Any     interface{}
	Matrix  [][]int
	Stamp   Stamp
	Fixed   [3]int
	Inline  struct{ A int }
}
`

type nameClassifier struct {
	enums   map[string]bool
	schemas map[string]bool
}

func (c nameClassifier) IsEnum(named *types.Named) bool   { return c.enums[named.Obj().Name()] }
func (c nameClassifier) IsSchema(named *types.Named) bool { return c.schemas[named.Obj().Name()] }

func loadSample(t *testing.T) *types.Named {
	t.Helper()
	result := testutil.LoadModule(t, map[string]string{"models/models.go": typemapSource})
	return testutil.Named(t, result, "models", "Sample")
}

func TestTypeMapper_Primitives(t *testing.T) {
	sample := loadSample(t)
	mapper := NewTypeMapper(nil)

	tests := []struct {
		field    string
		wantType string
		wantEx   any
	}{
		{"Name", domain.TypeString, "string"},
		{"Count", domain.TypeInteger, 123},
		{"Ratio", domain.TypeNumber, 123.45},
		{"Active", domain.TypeBoolean, true},
		{"Meta", domain.TypeObject, nil},
		{"Dur", domain.TypeInteger, 123},
		{"Payload", domain.TypeObject, nil},
		{"Any", domain.TypeString, "string"},
		{"Inline", domain.TypeObject, nil},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			m := mapper.Map(testutil.FieldType(t, sample, tt.field))
			assert.Equal(t, KindPrimitive, m.Kind)
			assert.Equal(t, tt.wantType, m.Type)
			assert.Equal(t, tt.wantEx, m.Example)
			assert.False(t, m.Nullable)
		})
	}
}

func TestTypeMapper_Lists(t *testing.T) {
	sample := loadSample(t)
	mapper := NewTypeMapper(nil)

	tags := mapper.Map(testutil.FieldType(t, sample, "Tags"))
	assert.Equal(t, KindArray, tags.Kind)
	require.NotNil(t, tags.Items)
	assert.Equal(t, domain.TypeString, tags.Items.Type)

	raw := mapper.Map(testutil.FieldType(t, sample, "Raw"))
	assert.Equal(t, KindPrimitive, raw.Kind)
	assert.Equal(t, "byte", raw.Format)

	matrix := mapper.Map(testutil.FieldType(t, sample, "Matrix"))
	require.NotNil(t, matrix.Items)
	assert.Equal(t, KindArray, matrix.Items.Kind)
	require.NotNil(t, matrix.Items.Items)
	assert.Equal(t, domain.TypeInteger, matrix.Items.Items.Type)

	fixed := mapper.Map(testutil.FieldType(t, sample, "Fixed"))
	assert.Equal(t, domain.TypeArray, fixed.Type)
}

func TestTypeMapper_DateTime(t *testing.T) {
	sample := loadSample(t)
	mapper := NewTypeMapper(nil)

	created := mapper.Map(testutil.FieldType(t, sample, "Created"))
	assert.Equal(t, KindDateTime, created.Kind)
	assert.False(t, created.Nullable)

	updated := mapper.Map(testutil.FieldType(t, sample, "Updated"))
	assert.Equal(t, KindDateTime, updated.Kind)
	assert.True(t, updated.Nullable)

	stamp := mapper.Map(testutil.FieldType(t, sample, "Stamp"))
	assert.Equal(t, KindDateTime, stamp.Kind)
}

func TestTypeMapper_Classified(t *testing.T) {
	sample := loadSample(t)
	mapper := NewTypeMapper(nameClassifier{
		enums:   map[string]bool{"Status": true, "Level": true},
		schemas: map[string]bool{"Address": true},
	})

	status := mapper.Map(testutil.FieldType(t, sample, "Status"))
	assert.Equal(t, KindEnum, status.Kind)
	assert.Equal(t, domain.TypeString, status.Type)
	assert.Equal(t, "Status", status.Named.Obj().Name())

	level := mapper.Map(testutil.FieldType(t, sample, "Level"))
	assert.Equal(t, KindEnum, level.Kind)
	assert.Equal(t, domain.TypeInteger, level.Type)

	home := mapper.Map(testutil.FieldType(t, sample, "Home"))
	assert.Equal(t, KindRef, home.Kind)

	work := mapper.Map(testutil.FieldType(t, sample, "Work"))
	assert.Equal(t, KindRef, work.Kind)
	assert.True(t, work.Nullable)

	homes := mapper.Map(testutil.FieldType(t, sample, "Homes"))
	require.NotNil(t, homes.Items)
	assert.Equal(t, KindRef, homes.Items.Kind)
}

func TestTypeMapper_UnclassifiedNamedTypes(t *testing.T) {
	sample := loadSample(t)
	mapper := NewTypeMapper(nameClassifier{})

	assert.Equal(t, domain.TypeString, mapper.Map(testutil.FieldType(t, sample, "Status")).Type)
	assert.Equal(t, domain.TypeInteger, mapper.Map(testutil.FieldType(t, sample, "Level")).Type)
	assert.Equal(t, domain.TypeString, mapper.Map(testutil.FieldType(t, sample, "Home")).Type)

	level := testutil.FieldType(t, sample, "Level").(*types.Named)
	assert.Equal(t, domain.TypeInteger, mapper.MapUnderlying(level).Type)
}

func TestMapName(t *testing.T) {
	tests := []struct {
		name   string
		want   string
		wantOK bool
	}{
		{"string", domain.TypeString, true},
		{"int", domain.TypeInteger, true},
		{"Integer", domain.TypeInteger, true},
		{"float64", domain.TypeNumber, true},
		{"double", domain.TypeNumber, true},
		{"bool", domain.TypeBoolean, true},
		{"array", domain.TypeArray, true},
		{"map", domain.TypeObject, true},
		{"OrderDto", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _, ok := MapName(tt.name)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
