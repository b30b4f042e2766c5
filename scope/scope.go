package scope

import "strings"

// Applier is implemented by statement builders that accept scope fragments.
// It lives here so that orm can import scope without an import cycle.
type Applier interface {
	ApplyWhere(clause string, args []any)
	ApplyOrderBy(clause string)
	ApplyLimit(n int)
	ApplyOffset(n int)
}

// Scope is one reusable query fragment. The zero Scope does nothing.
// Scopes are immutable and safe to reuse across queries.
type Scope struct {
	apply func(Applier)
}

// Apply hands this Scope's fragment to a.
func (s Scope) Apply(a Applier) {
	if s.apply != nil {
		s.apply(a)
	}
}

// Where returns a Scope that ANDs a raw WHERE fragment onto the statement.
//
//	scope.Where("year > ?", 2010)
func Where(clause string, args ...any) Scope {
	return Scope{apply: func(a Applier) { a.ApplyWhere(clause, args) }}
}

// In returns a WHERE scope with an IN clause, one placeholder per value.
// An empty slice matches nothing.
//
//	scope.In("id", []int{1, 2, 3})  // → id IN (?, ?, ?)
func In[T any](column string, values []T) Scope {
	if len(values) == 0 {
		return Where("1 = 0")
	}
	args := make([]any, len(values))
	for i, v := range values {
		args[i] = v
	}
	ph := strings.TrimSuffix(strings.Repeat("?, ", len(values)), ", ")
	return Where(column+" IN ("+ph+")", args...)
}

// OrderBy returns a Scope that adds an ORDER BY term.
//
//	scope.OrderBy("id DESC")
func OrderBy(clause string) Scope {
	return Scope{apply: func(a Applier) { a.ApplyOrderBy(clause) }}
}

func Limit(n int) Scope {
	return Scope{apply: func(a Applier) { a.ApplyLimit(n) }}
}

func Offset(n int) Scope {
	return Scope{apply: func(a Applier) { a.ApplyOffset(n) }}
}

// Paginate returns LIMIT/OFFSET scopes for a 1-based page.
// Pages below 1 are treated as the first page.
func Paginate(page, perPage int) Scopes {
	if page < 1 {
		page = 1
	}
	return Scopes{Limit(perPage), Offset((page - 1) * perPage)}
}

// Scopes is a named slice of Scope for building up fragments conditionally.
//
//	var s scope.Scopes
//	if newestFirst {
//	    s = s.Append(scope.OrderBy("id DESC"))
//	}
//	cars.All(ctx, s...)
type Scopes []Scope

// Append adds scopes and returns a new Scopes. The receiver is not modified.
func (ss Scopes) Append(scopes ...Scope) Scopes {
	return append(append(Scopes(nil), ss...), scopes...)
}

// Merge concatenates two Scopes and returns a new Scopes.
func (ss Scopes) Merge(other Scopes) Scopes {
	return append(append(Scopes(nil), ss...), other...)
}

// Combine creates a Scopes from the given scopes.
func Combine(scopes ...Scope) Scopes {
	return Scopes(scopes)
}
