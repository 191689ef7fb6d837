// Package namefilter compiles meal-name filter expressions into Bun query
// builders. Expressions combine words with `&` (and), `|` (or), `!` (not)
// and parentheses, e.g. `rind & !wok` or `(lachs | fisch) & !pasta`.
// Each word matches case-insensitively as a substring of the meal name.
package namefilter

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/uptrace/bun"
)

var wordPattern = regexp.MustCompile(`^[\p{L}\p{N}_\-]+$`)

func reducex[T any, S ~[]T, U any](s S, f func(T, U) (U, error)) (U, error) {
	var zero U
	var result U
	for _, t := range s {
		var err error
		result, err = f(t, result)
		if err != nil {
			return zero, err
		}
	}
	return result, nil
}

func parseExpr(expr string, qb bun.QueryBuilder, mode bool, negate bool) (bun.QueryBuilder, error) {
	var err error

	expr = strings.TrimSpace(expr)

	// and
	if exprs := splitOnTopLevelChar(expr, '&'); len(exprs) > 1 {
		return reducex(exprs, func(expr string, qb bun.QueryBuilder) (bun.QueryBuilder, error) {
			return parseExpr(expr, qb, true != negate, negate)
		})
	}

	// or
	if exprs := splitOnTopLevelChar(expr, '|'); len(exprs) > 1 {
		return reducex(exprs, func(expr string, qb bun.QueryBuilder) (bun.QueryBuilder, error) {
			return parseExpr(expr, qb, false != negate, negate)
		})
	}

	// negation
	expr, negated := strings.CutPrefix(expr, "!")

	expr = strings.TrimSpace(expr)

	// braces
	if strings.HasPrefix(expr, "(") && strings.HasSuffix(expr, ")") {
		expr = expr[1 : len(expr)-1] // removes braces

		operator := map[bool]string{
			true:  " AND ",
			false: " OR ",
		}[mode]

		if negated {
			// A negated group flips every condition inside it instead of
			// wrapping the group in NOT, which not every engine renders.
			negate = !negate
		}

		qb = qb.WhereGroup(operator, func(qb bun.QueryBuilder) bun.QueryBuilder {
			qb, err = parseExpr(expr, qb, true != negate, negate)
			return qb
		})

		if err != nil {
			return nil, err
		}
		return qb, nil
	}

	// raw word
	{
		if !wordPattern.MatchString(expr) {
			return nil, fmt.Errorf("invalid filter word: %s", expr)
		}

		query := map[bool]string{
			true:  "LOWER(name) NOT LIKE ?",
			false: "LOWER(name) LIKE ?",
		}[negated != negate]

		like := "%" + strings.ToLower(expr) + "%"

		if mode {
			return qb.Where(query, like), nil
		} else {
			return qb.WhereOr(query, like), nil
		}
	}
}

func splitOnTopLevelChar(expr string, op rune) []string {
	var result []string
	depth := 0
	start := 0

	for i, ch := range expr {
		switch ch {
		case '(':
			depth++
		case ')':
			depth--
		case op:
			if depth == 0 {
				result = append(result, expr[start:i])
				start = i + 1
			}
		}
	}

	result = append(result, expr[start:])
	return result
}

// ValidateFilter reports whether the expression parses.
func ValidateFilter(expr string) error {
	sq := &bun.SelectQuery{}
	_, err := parseExpr(expr, sq.QueryBuilder(), true, false)
	return err
}

// GetFilterQueryBuilder validates the expression and returns a function that
// applies its conditions to a query builder.
func GetFilterQueryBuilder(expr string) (func(bun.QueryBuilder) bun.QueryBuilder, error) {
	if err := ValidateFilter(expr); err != nil {
		return nil, err
	}
	return func(qb bun.QueryBuilder) bun.QueryBuilder {
		qb, _ = parseExpr(expr, qb, true, false)
		return qb
	}, nil
}
