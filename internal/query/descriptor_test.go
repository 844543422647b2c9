package query

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

type widget struct {
	ID       int
	Name     string
	Price    float64
	Rating   float64
	Duration int
	Secret   bool
	Summary  string
	Version  int
}

func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(mysql.New(mysql.Config{
		DSN:                       "user:pass@tcp(127.0.0.1:3306)/natours",
		SkipInitializeWithVersion: true,
	}), &gorm.Config{DryRun: true, DisableAutomaticPing: true})
	require.NoError(t, err)
	return db
}

func toSQL(t *testing.T, raw string) string {
	t.Helper()
	params, err := url.ParseQuery(raw)
	require.NoError(t, err)
	desc, err := New(widgetSchema, params).Filter().Sort().LimitFields().Paginate().Build()
	require.NoError(t, err)

	db := dryRunDB(t)
	return db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		var out []widget
		return desc.Apply(tx.Model(&widget{})).Find(&out)
	})
}

func TestDescriptor_Apply(t *testing.T) {
	sql := toSQL(t, "price[gte]=100&name=a&name=b&sort=-price&page=2&limit=10")

	assert.Contains(t, sql, "`price` >= 100")
	assert.Contains(t, sql, "`name` IN ('a','b')")
	assert.Contains(t, sql, "ORDER BY `price` DESC")
	assert.Contains(t, sql, "LIMIT 10 OFFSET 10")
	assert.NotContains(t, sql, "version")
}

func TestDescriptor_ApplyProjection(t *testing.T) {
	sql := toSQL(t, "fields=name,price")

	assert.Contains(t, sql, "SELECT `id`,`name`,`price` FROM `widgets`")
	assert.Contains(t, sql, "ORDER BY `rating` DESC")
	assert.Contains(t, sql, "LIMIT 100")
}

func TestDescriptor_Skip(t *testing.T) {
	assert.Equal(t, 0, (&Descriptor{Page: 0, Limit: 10}).Skip())
	assert.Equal(t, 40, (&Descriptor{Page: 5, Limit: 10}).Skip())
}

func TestParseOperator(t *testing.T) {
	for _, s := range []string{"gte", "gt", "lte", "lt", "GTE"} {
		_, ok := ParseOperator(s)
		assert.True(t, ok, s)
	}
	for _, s := range []string{"eq", "in", "ne", "regex", ""} {
		_, ok := ParseOperator(s)
		assert.False(t, ok, s)
	}
}
