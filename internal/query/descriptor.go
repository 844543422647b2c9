package query

import (
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Operator is a typed comparison understood by Condition.
type Operator string

const (
	OpEq  Operator = "eq"
	OpGte Operator = "gte"
	OpGt  Operator = "gt"
	OpLte Operator = "lte"
	OpLt  Operator = "lt"
	OpIn  Operator = "in"
)

// ParseOperator accepts the operator tokens allowed inside `field[op]` keys.
func ParseOperator(s string) (Operator, bool) {
	switch op := Operator(strings.ToLower(s)); op {
	case OpGte, OpGt, OpLte, OpLt:
		return op, true
	default:
		return "", false
	}
}

// Condition is a single field/operator/value predicate.
type Condition struct {
	Field  string
	Column string
	Op     Operator
	Value  any
	Values []any
}

// Expression renders the condition as a gorm clause.
func (c Condition) Expression() clause.Expression {
	col := clause.Column{Name: c.Column}
	switch c.Op {
	case OpGte:
		return clause.Gte{Column: col, Value: c.Value}
	case OpGt:
		return clause.Gt{Column: col, Value: c.Value}
	case OpLte:
		return clause.Lte{Column: col, Value: c.Value}
	case OpLt:
		return clause.Lt{Column: col, Value: c.Value}
	case OpIn:
		return clause.IN{Column: col, Values: c.Values}
	default:
		return clause.Eq{Column: col, Value: c.Value}
	}
}

type OrderKey struct {
	Column string
	Desc   bool
}

// Descriptor is the request-scoped read query produced by Builder.
type Descriptor struct {
	Conditions []Condition
	Order      []OrderKey
	Select     []string
	Omit       []string
	Page       int
	Limit      int
}

// Skip is the number of rows to skip for the current page.
func (d *Descriptor) Skip() int {
	if d.Page < 1 {
		return 0
	}
	return (d.Page - 1) * d.Limit
}

// Apply adds the descriptor's filter, order, projection and pagination to tx.
func (d *Descriptor) Apply(tx *gorm.DB) *gorm.DB {
	for _, c := range d.Conditions {
		tx = tx.Where(c.Expression())
	}
	for _, o := range d.Order {
		tx = tx.Order(clause.OrderByColumn{Column: clause.Column{Name: o.Column}, Desc: o.Desc})
	}
	if len(d.Select) > 0 {
		tx = tx.Select(d.Select)
	} else if len(d.Omit) > 0 {
		tx = tx.Omit(d.Omit...)
	}
	if d.Limit > 0 {
		tx = tx.Offset(d.Skip()).Limit(d.Limit)
	}
	return tx
}
