package model

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/schema"
)

func parseSchema(t *testing.T, dest interface{}) *schema.Schema {
	t.Helper()
	s, err := schema.Parse(dest, &sync.Map{}, schema.NamingStrategy{})
	require.NoError(t, err)
	return s
}

func TestForeignKeysCascadeOnDelete(t *testing.T) {
	tests := []struct {
		name       string
		model      interface{}
		relation   string
		table      string
		referenced string
	}{
		{name: "tour reviews", model: &Tour{}, relation: "Reviews", table: "reviews", referenced: "tours"},
		{name: "review author", model: &Review{}, relation: "Author", table: "reviews", referenced: "users"},
		{name: "booking tour", model: &Booking{}, relation: "Tour", table: "bookings", referenced: "tours"},
		{name: "booking customer", model: &Booking{}, relation: "Customer", table: "bookings", referenced: "users"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := parseSchema(t, tt.model)
			rel, ok := s.Relationships.Relations[tt.relation]
			require.True(t, ok)

			constraint := rel.ParseConstraint()
			require.NotNil(t, constraint)
			assert.Equal(t, "CASCADE", constraint.OnDelete)
			assert.Equal(t, tt.table, constraint.Schema.Table)
			assert.Equal(t, tt.referenced, constraint.ReferenceSchema.Table)
		})
	}
}

func TestTourGuidesJoinTableCascades(t *testing.T) {
	s := parseSchema(t, &Tour{})
	guides, ok := s.Relationships.Relations["Guides"]
	require.True(t, ok)
	require.NotNil(t, guides.JoinTable)
	assert.Equal(t, "tour_guides", guides.JoinTable.Table)

	referenced := map[string]bool{}
	for _, rel := range guides.JoinTable.Relationships.Relations {
		constraint := rel.ParseConstraint()
		require.NotNil(t, constraint)
		assert.Equal(t, "CASCADE", constraint.OnDelete)
		referenced[constraint.ReferenceSchema.Table] = true
	}
	assert.Equal(t, map[string]bool{"tours": true, "users": true}, referenced)
}
