package core

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Date query relations.
const (
	RelationAnd = "AND"
	RelationOr  = "OR"
)

// Date columns a clause may target.
const (
	ColumnPostDate     = "post_date"
	ColumnPostModified = "post_modified"
)

// compareOps lists the comparison operators a date clause accepts.
var compareOps = map[string]bool{"=": true, "!=": true, ">": true, ">=": true, "<": true, "<=": true}

// DateClause is a single date_query condition. Nil parts are not constrained.
type DateClause struct {
	Column  string
	Year    *int
	Month   *int
	Day     *int
	Hour    *int
	Minute  *int
	Compare string
}

// DateQuery combines clauses with a relation.
// Each clause is evaluated on its own; two clauses on the same part are not
// merged into a range.
type DateQuery struct {
	Relation string
	Clauses  []DateClause
}

// Empty reports whether the date query constrains nothing.
func (d DateQuery) Empty() bool {
	return len(d.Clauses) == 0
}

// PostQuery is a parsed content query.
type PostQuery struct {
	// PostTypes empty means "post"; AnyType drops the type constraint.
	PostTypes []string
	AnyType   bool
	// PostStatus empty means "publish".
	PostStatus []PostStatus
	// Tag and CategoryName hold term slugs; several slugs match any of them.
	Tag          []string
	CategoryName []string
	DateQuery    DateQuery
	// PostsPerPage 0 means the store default, -1 means unlimited.
	PostsPerPage    int
	OrderBy         string
	Order           string
	SuppressFilters bool

	// Ignored lists the argument keys the parser did not recognize.
	Ignored []string
}

// AnyStatus reports whether the query asks for every non-excluded status.
func (q PostQuery) AnyStatus() bool {
	for _, s := range q.PostStatus {
		if s == StatusAny {
			return true
		}
	}
	return false
}

// QueryArgs is a WP_Query-style argument map.
type QueryArgs map[string]any

// ParseQueryArgs converts a WP_Query-style argument map into a PostQuery.
// Keys are matched exactly, so a misspelled key lands in Ignored and has no
// effect on the query.
func ParseQueryArgs(args QueryArgs) (PostQuery, error) {
	var q PostQuery

	for key, value := range args {
		var err error
		switch key {
		case "post_type":
			var types []string
			types, err = stringList(value)
			for _, t := range types {
				if t == "any" {
					q.AnyType = true
					continue
				}
				q.PostTypes = append(q.PostTypes, t)
			}
		case "post_status":
			var statuses []string
			statuses, err = stringList(value)
			for _, s := range statuses {
				status := PostStatus(s)
				if status != StatusAny && !status.Valid() {
					err = fmt.Errorf("unknown post status %q", s)
					break
				}
				q.PostStatus = append(q.PostStatus, status)
			}
		case "tag":
			q.Tag, err = stringList(value)
		case "category_name":
			q.CategoryName, err = stringList(value)
		case "date_query":
			q.DateQuery, err = parseDateQuery(value)
		case "posts_per_page":
			n, ok := toInt(value)
			if !ok || n < -1 {
				err = fmt.Errorf("invalid value %v", value)
			}
			q.PostsPerPage = n
		case "nopaging":
			if b, _ := value.(bool); b {
				q.PostsPerPage = -1
			}
		case "orderby":
			q.OrderBy, err = stringValue(value)
		case "order":
			var order string
			order, err = stringValue(value)
			q.Order = strings.ToUpper(order)
			if err == nil && q.Order != "ASC" && q.Order != "DESC" {
				err = fmt.Errorf("invalid order %q", order)
			}
		case "suppress_filters":
			q.SuppressFilters, _ = value.(bool)
		default:
			q.Ignored = append(q.Ignored, key)
		}
		if err != nil {
			return PostQuery{}, fmt.Errorf("query arg %q: %w", key, err)
		}
	}

	sort.Strings(q.Ignored)
	return q, nil
}

func parseDateQuery(value any) (DateQuery, error) {
	dq := DateQuery{Relation: RelationAnd}

	var rawClauses []any
	switch v := value.(type) {
	case []map[string]any:
		for _, c := range v {
			rawClauses = append(rawClauses, c)
		}
	case []any:
		rawClauses = v
	case map[string]any:
		if rel, ok := v["relation"]; ok {
			s, err := stringValue(rel)
			if err != nil {
				return dq, err
			}
			dq.Relation = strings.ToUpper(s)
			if dq.Relation != RelationAnd && dq.Relation != RelationOr {
				return dq, fmt.Errorf("invalid relation %q", s)
			}
		}
		if clauses, ok := v["clauses"]; ok {
			nested, err := parseDateQuery(clauses)
			if err != nil {
				return dq, err
			}
			dq.Clauses = nested.Clauses
			return dq, nil
		}
		rawClauses = []any{v}
	default:
		return dq, fmt.Errorf("unsupported date_query type %T", value)
	}

	for i, raw := range rawClauses {
		m, ok := raw.(map[string]any)
		if !ok {
			return dq, fmt.Errorf("clause %d: unsupported type %T", i, raw)
		}
		clause, err := parseDateClause(m)
		if err != nil {
			return dq, fmt.Errorf("clause %d: %w", i, err)
		}
		dq.Clauses = append(dq.Clauses, clause)
	}
	return dq, nil
}

func parseDateClause(m map[string]any) (DateClause, error) {
	c := DateClause{Column: ColumnPostDate, Compare: "="}

	parts := map[string]**int{
		"year":   &c.Year,
		"month":  &c.Month,
		"day":    &c.Day,
		"hour":   &c.Hour,
		"minute": &c.Minute,
	}

	for key, value := range m {
		if dst, ok := parts[key]; ok {
			n, ok := toInt(value)
			if !ok {
				return c, fmt.Errorf("%s: invalid value %v", key, value)
			}
			*dst = &n
			continue
		}
		switch key {
		case "compare":
			op, err := stringValue(value)
			if err != nil {
				return c, err
			}
			if !compareOps[op] {
				return c, fmt.Errorf("unsupported compare %q", op)
			}
			c.Compare = op
		case "column":
			col, err := stringValue(value)
			if err != nil {
				return c, err
			}
			if col != ColumnPostDate && col != ColumnPostModified {
				return c, fmt.Errorf("unsupported column %q", col)
			}
			c.Column = col
		case "relation":
			// Only meaningful at the top level.
		default:
			return c, fmt.Errorf("unsupported key %q", key)
		}
	}

	if c.Hour != nil && (*c.Hour < 0 || *c.Hour > 23) {
		return c, fmt.Errorf("hour %d out of range", *c.Hour)
	}
	if c.Minute != nil && (*c.Minute < 0 || *c.Minute > 59) {
		return c, fmt.Errorf("minute %d out of range", *c.Minute)
	}
	return c, nil
}

// stringList accepts a string (comma separated), []string or []any of strings.
func stringList(value any) ([]string, error) {
	var raw []string
	switch v := value.(type) {
	case string:
		raw = strings.Split(v, ",")
	case []string:
		raw = v
	case []any:
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("expected string, got %T", item)
			}
			raw = append(raw, s)
		}
	default:
		return nil, fmt.Errorf("expected string or list, got %T", value)
	}

	out := make([]string, 0, len(raw))
	for _, s := range raw {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out, nil
}

func stringValue(value any) (string, error) {
	s, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("expected string, got %T", value)
	}
	return strings.TrimSpace(s), nil
}

func toInt(value any) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		if v != float64(int(v)) {
			return 0, false
		}
		return int(v), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		return n, err == nil
	}
	return 0, false
}
