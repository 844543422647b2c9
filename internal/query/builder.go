package query

import (
	"fmt"
	"math"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "natours/internal/errors"
)

const (
	DefaultPage  = 1
	DefaultLimit = 100
	MaxLimit     = 1000
	MaxSkip      = math.MaxInt32
)

// reserved keys control the query shape and are never treated as filters.
var reserved = map[string]struct{}{
	"sort":   {},
	"fields": {},
	"page":   {},
	"limit":  {},
}

var operatorKey = regexp.MustCompile(`^([A-Za-z0-9_.]+)\[([A-Za-z]+)\]$`)

// Builder turns query-string parameters into a Descriptor. Each stage owns one part
// of the descriptor, so stages may be chained in any order. The first error wins.
type Builder struct {
	schema Schema
	params url.Values
	desc   Descriptor
	err    error
}

// New creates a builder over a copy of params.
func New(schema Schema, params url.Values) *Builder {
	cp := make(url.Values, len(params))
	for k, v := range params {
		cp[k] = append([]string(nil), v...)
	}
	return &Builder{schema: schema, params: cp}
}

// Filter converts every non-reserved parameter into a condition. `field[op]=v` keys use
// the comparison operators gte, gt, lte and lt; repeated plain keys become an IN match.
func (b *Builder) Filter() *Builder {
	keys := make([]string, 0, len(b.params))
	for k := range b.params {
		if _, ok := reserved[k]; ok {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	conds := make([]Condition, 0, len(keys))
	for _, key := range keys {
		values := b.params[key]
		if len(values) == 0 {
			continue
		}

		name, op := key, OpEq
		if m := operatorKey.FindStringSubmatch(key); m != nil {
			parsed, ok := ParseOperator(m[2])
			if !ok {
				b.fail(apperrors.Validation(fmt.Sprintf("Invalid filter operator: %s", m[2])))
				return b
			}
			name, op = m[1], parsed
		}

		field, ok := b.schema.lookup(name)
		if !ok || !field.Filterable {
			b.fail(apperrors.Validation(fmt.Sprintf("Invalid filter field: %s", name)))
			return b
		}

		if op == OpEq && len(values) > 1 {
			in := make([]any, 0, len(values))
			for _, raw := range values {
				v, err := convert(field.Kind, raw)
				if err != nil {
					b.fail(apperrors.Validation(fmt.Sprintf("Invalid value for %s: %s", name, raw)))
					return b
				}
				in = append(in, v)
			}
			conds = append(conds, Condition{Field: name, Column: field.Column, Op: OpIn, Values: in})
			continue
		}

		raw := values[len(values)-1]
		v, err := convert(field.Kind, raw)
		if err != nil {
			b.fail(apperrors.Validation(fmt.Sprintf("Invalid value for %s: %s", name, raw)))
			return b
		}
		conds = append(conds, Condition{Field: name, Column: field.Column, Op: op, Value: v})
	}

	b.desc.Conditions = conds
	return b
}

// Sort orders by the comma-separated `sort` parameter, falling back to the schema default.
func (b *Builder) Sort() *Builder {
	raw := last(b.params, "sort")
	order, err := b.parseOrder(raw)
	if err != nil {
		b.fail(err)
		return b
	}
	if len(order) == 0 {
		if order, err = b.parseOrder(b.schema.DefaultSort); err != nil {
			b.fail(err)
			return b
		}
	}
	b.desc.Order = order
	return b
}

// LimitFields projects the comma-separated `fields` parameter. Without it every column
// except the version column is returned.
func (b *Builder) LimitFields() *Builder {
	raw := last(b.params, "fields")
	names := splitList(raw)
	if len(names) == 0 {
		b.desc.Select = nil
		b.desc.Omit = nil
		if b.schema.VersionColumn != "" {
			b.desc.Omit = []string{b.schema.VersionColumn}
		}
		return b
	}

	cols := make([]string, 0, len(names)+1)
	seen := make(map[string]struct{}, len(names)+1)
	if pk := b.schema.PrimaryKey; pk != "" {
		cols = append(cols, pk)
		seen[pk] = struct{}{}
	}
	for _, name := range names {
		field, ok := b.schema.lookup(name)
		if !ok {
			b.fail(apperrors.Validation(fmt.Sprintf("Invalid field: %s", name)))
			return b
		}
		if _, dup := seen[field.Column]; dup {
			continue
		}
		seen[field.Column] = struct{}{}
		cols = append(cols, field.Column)
	}
	b.desc.Select = cols
	b.desc.Omit = nil
	return b
}

// Paginate reads `page` and `limit` (defaults 1 and 100). Non-numeric or non-positive
// values are rejected rather than coerced, as is a page that starts past MaxSkip rows.
func (b *Builder) Paginate() *Builder {
	page, err := positiveInt(b.params, "page", DefaultPage)
	if err != nil {
		b.fail(err)
		return b
	}
	limit, err := positiveInt(b.params, "limit", DefaultLimit)
	if err != nil {
		b.fail(err)
		return b
	}
	if limit > MaxLimit {
		b.fail(apperrors.Validation(fmt.Sprintf("Invalid limit: must not exceed %d", MaxLimit)))
		return b
	}
	if page-1 > MaxSkip/limit {
		b.fail(apperrors.Validation("Invalid page: out of range"))
		return b
	}
	b.desc.Page = page
	b.desc.Limit = limit
	return b
}

// Build returns the descriptor, or the first error recorded by any stage.
func (b *Builder) Build() (*Descriptor, error) {
	if b.err != nil {
		return nil, b.err
	}
	d := b.desc
	return &d, nil
}

func (b *Builder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

func (b *Builder) parseOrder(raw string) ([]OrderKey, error) {
	names := splitList(raw)
	order := make([]OrderKey, 0, len(names))
	for _, name := range names {
		desc := strings.HasPrefix(name, "-")
		name = strings.TrimPrefix(name, "-")
		field, ok := b.schema.lookup(name)
		if !ok || !field.Sortable {
			return nil, apperrors.Validation(fmt.Sprintf("Invalid sort field: %s", name))
		}
		order = append(order, OrderKey{Column: field.Column, Desc: desc})
	}
	return order, nil
}

func convert(kind Kind, raw string) (any, error) {
	switch kind {
	case KindNumber:
		return strconv.ParseFloat(raw, 64)
	case KindInt:
		return strconv.Atoi(raw)
	case KindBool:
		return strconv.ParseBool(raw)
	case KindTime:
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			return t, nil
		}
		return time.Parse("2006-01-02", raw)
	case KindUUID:
		return uuid.Parse(raw)
	default:
		return raw, nil
	}
}

func positiveInt(params url.Values, key string, def int) (int, error) {
	raw := last(params, key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, apperrors.Validation(fmt.Sprintf("Invalid %s: must be a positive integer", key))
	}
	return n, nil
}

func last(params url.Values, key string) string {
	values := params[key]
	if len(values) == 0 {
		return ""
	}
	return strings.TrimSpace(values[len(values)-1])
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" && p != "-" {
			out = append(out, p)
		}
	}
	return out
}
