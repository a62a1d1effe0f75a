package builder

import (
	"fmt"
	"strings"
)

// WhereBuilder helps build WHERE clauses.
type WhereBuilder struct {
	conditions []Condition
	paramStart int
}

// NewWhereBuilder creates a new WhereBuilder.
func NewWhereBuilder() *WhereBuilder {
	return &WhereBuilder{paramStart: 1}
}

// NewWhereBuilderWithStart creates a new WhereBuilder with a starting parameter number.
func NewWhereBuilderWithStart(paramStart int) *WhereBuilder {
	return &WhereBuilder{paramStart: paramStart}
}

// Add adds a condition to the WHERE clause.
func (w *WhereBuilder) Add(condition Condition) {
	w.conditions = append(w.conditions, condition)
}

// Build generates the WHERE clause SQL and arguments.
func (w *WhereBuilder) Build() (string, []any, error) {
	if len(w.conditions) == 0 {
		return "", nil, nil
	}

	sql, args, err := w.buildConditions(w.conditions, w.paramStart)
	if err != nil {
		return "", nil, err
	}

	return "WHERE " + sql, args, nil
}

// buildConditions recursively builds conditions.
func (w *WhereBuilder) buildConditions(conditions []Condition, paramStart int) (string, []any, error) {
	if len(conditions) == 0 {
		return "", nil, nil
	}

	var parts []string
	var args []any
	paramNum := paramStart

	for i, cond := range conditions {
		if len(cond.Group) > 0 {
			groupSQL, groupArgs, err := w.buildConditions(cond.Group, paramNum)
			if err != nil {
				return "", nil, err
			}
			parts = append(parts, "("+groupSQL+")")
			args = append(args, groupArgs...)
			paramNum += len(groupArgs)
		} else {
			condSQL, condArgs, err := w.buildCondition(cond, paramNum)
			if err != nil {
				return "", nil, err
			}

			if cond.Not {
				condSQL = "NOT (" + condSQL + ")"
			}

			parts = append(parts, condSQL)
			args = append(args, condArgs...)
			paramNum += len(condArgs)
		}

		// Logic operator binds between this condition and the next
		if i < len(conditions)-1 {
			logic := conditions[i+1].Logic
			if logic == "" {
				logic = LogicAnd
			}
			parts[len(parts)-1] += " " + string(logic)
		}
	}

	return strings.Join(parts, " "), args, nil
}

// buildCondition builds a single condition.
func (w *WhereBuilder) buildCondition(cond Condition, paramNum int) (string, []any, error) {
	column := cond.Column
	operator := cond.Operator
	value := cond.Value

	switch operator {
	case OpEqual, OpNotEqual, OpGreaterThan, OpGreaterThanOrEqual, OpLessThan, OpLessThanOrEqual:
		return fmt.Sprintf("%s %s $%d", column, operator, paramNum), []any{value}, nil

	case OpLike, OpILike:
		return fmt.Sprintf("%s %s $%d", column, operator, paramNum), []any{value}, nil

	case OpEqualFold:
		return fmt.Sprintf("lower(%s) = lower($%d)", column, paramNum), []any{value}, nil

	case OpIn, OpNotIn:
		values, ok := value.([]any)
		if !ok {
			return "", nil, fmt.Errorf("IN/NOT IN operator requires []any value")
		}
		if len(values) == 0 {
			return "", nil, fmt.Errorf("IN/NOT IN operator requires at least one value")
		}

		placeholders := make([]string, len(values))
		for i := range values {
			placeholders[i] = fmt.Sprintf("$%d", paramNum+i)
		}

		sql := fmt.Sprintf("%s %s (%s)", column, operator, strings.Join(placeholders, ", "))
		return sql, values, nil

	case OpIsNull:
		return fmt.Sprintf("%s IS NULL", column), nil, nil

	case OpIsNotNull:
		return fmt.Sprintf("%s IS NOT NULL", column), nil, nil

	case OpBetween:
		values, ok := value.([]any)
		if !ok || len(values) != 2 {
			return "", nil, fmt.Errorf("BETWEEN operator requires [min, max] array")
		}

		sql := fmt.Sprintf("%s BETWEEN $%d AND $%d", column, paramNum, paramNum+1)
		return sql, values, nil

	default:
		return "", nil, fmt.Errorf("unknown operator: %s", operator)
	}
}

// Helper functions for building conditions

// Eq creates an equality condition.
func Eq(column string, value any) Condition {
	return Condition{Column: column, Operator: OpEqual, Value: value, Logic: LogicAnd}
}

// NotEq creates a not-equal condition.
func NotEq(column string, value any) Condition {
	return Condition{Column: column, Operator: OpNotEqual, Value: value, Logic: LogicAnd}
}

// Gt creates a greater-than condition.
func Gt(column string, value any) Condition {
	return Condition{Column: column, Operator: OpGreaterThan, Value: value, Logic: LogicAnd}
}

// Gte creates a greater-than-or-equal condition.
func Gte(column string, value any) Condition {
	return Condition{Column: column, Operator: OpGreaterThanOrEqual, Value: value, Logic: LogicAnd}
}

// Lt creates a less-than condition.
func Lt(column string, value any) Condition {
	return Condition{Column: column, Operator: OpLessThan, Value: value, Logic: LogicAnd}
}

// Lte creates a less-than-or-equal condition.
func Lte(column string, value any) Condition {
	return Condition{Column: column, Operator: OpLessThanOrEqual, Value: value, Logic: LogicAnd}
}

// In creates an IN condition.
func In(column string, values ...any) Condition {
	return Condition{Column: column, Operator: OpIn, Value: values, Logic: LogicAnd}
}

// NotIn creates a NOT IN condition.
func NotIn(column string, values ...any) Condition {
	return Condition{Column: column, Operator: OpNotIn, Value: values, Logic: LogicAnd}
}

// Like creates a LIKE condition.
func Like(column string, pattern string) Condition {
	return Condition{Column: column, Operator: OpLike, Value: pattern, Logic: LogicAnd}
}

// ILike creates an ILIKE condition (case-insensitive).
func ILike(column string, pattern string) Condition {
	return Condition{Column: column, Operator: OpILike, Value: pattern, Logic: LogicAnd}
}

// EqFold creates a case-insensitive equality condition. The value is
// matched literally, so % and _ carry no pattern meaning.
func EqFold(column string, value string) Condition {
	return Condition{Column: column, Operator: OpEqualFold, Value: value, Logic: LogicAnd}
}

// IsNull creates an IS NULL condition.
func IsNull(column string) Condition {
	return Condition{Column: column, Operator: OpIsNull, Logic: LogicAnd}
}

// IsNotNull creates an IS NOT NULL condition.
func IsNotNull(column string) Condition {
	return Condition{Column: column, Operator: OpIsNotNull, Logic: LogicAnd}
}

// Between creates a BETWEEN condition.
func Between(column string, min, max any) Condition {
	return Condition{Column: column, Operator: OpBetween, Value: []any{min, max}, Logic: LogicAnd}
}

// Or sets the logic operator to OR for the next condition.
func Or(cond Condition) Condition {
	cond.Logic = LogicOr
	return cond
}

// Not negates a condition.
func Not(cond Condition) Condition {
	cond.Not = true
	return cond
}

// Group creates a grouped condition.
func Group(conditions ...Condition) Condition {
	return Condition{Group: conditions, Logic: LogicAnd}
}
