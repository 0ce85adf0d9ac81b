// Package query evaluates the mapping table's path expressions against
// deserialized report documents. Expressions are jq programs; the same few
// programs run once per finding across a whole batch, so compiled programs
// are kept in an LRU cache keyed by source text.
package query

import (
	"errors"
	"fmt"
	"sort"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/itchyny/gojq"
)

const defaultCacheSize = 256

// Evaluator compiles and runs path expressions. Safe for concurrent use.
type Evaluator struct {
	cache *lru.Cache[string, *gojq.Code]
}

// NewEvaluator returns an evaluator with a compiled-program cache of the
// given size; size <= 0 selects the default.
func NewEvaluator(cacheSize int) (*Evaluator, error) {
	if cacheSize <= 0 {
		cacheSize = defaultCacheSize
	}
	cache, err := lru.New[string, *gojq.Code](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating program cache: %w", err)
	}
	return &Evaluator{cache: cache}, nil
}

func (e *Evaluator) compile(expr string) (*gojq.Code, error) {
	if code, ok := e.cache.Get(expr); ok {
		return code, nil
	}
	parsed, err := gojq.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("parsing path expression %q: %w", expr, err)
	}
	code, err := gojq.Compile(parsed)
	if err != nil {
		return nil, fmt.Errorf("compiling path expression %q: %w", expr, err)
	}
	e.cache.Add(expr, code)
	return code, nil
}

// Check compiles expr without running it, so mapping tables can be
// validated once at load time instead of failing finding-by-finding.
func (e *Evaluator) Check(expr string) error {
	_, err := e.compile(expr)
	return err
}

// Evaluate runs expr against doc and returns every matched value in order.
// A missing terminal object key matches as a null value; a structurally
// inapplicable path (indexing a scalar, iterating a non-container) matches
// nothing. Runtime errors never surface, only a malformed expression does.
func (e *Evaluator) Evaluate(doc any, expr string) ([]any, error) {
	code, err := e.compile(expr)
	if err != nil {
		return nil, err
	}
	var out []any
	iter := code.Run(doc)
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, isErr := v.(error); isErr {
			var halt *gojq.HaltError
			if errors.As(err, &halt) {
				break
			}
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

// EvaluateFirst runs expr against doc and returns the first match. ok is
// false when the expression matched nothing; a null match returns (nil, true).
func (e *Evaluator) EvaluateFirst(doc any, expr string) (any, bool, error) {
	code, err := e.compile(expr)
	if err != nil {
		return nil, false, err
	}
	iter := code.Run(doc)
	for {
		v, ok := iter.Next()
		if !ok {
			return nil, false, nil
		}
		if err, isErr := v.(error); isErr {
			var halt *gojq.HaltError
			if errors.As(err, &halt) {
				return nil, false, nil
			}
			continue
		}
		return v, true, nil
	}
}

// Keys returns the sorted first-level key set of doc when doc is an
// object. Classification of named-key report shapes is built on this.
func Keys(doc any) ([]string, bool) {
	obj, ok := doc.(map[string]any)
	if !ok {
		return nil, false
	}
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, true
}
