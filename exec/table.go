// Package exec implements an iterator-model executor pipeline: a tagged
// Plan tree compiled to a tree of Executors, each supporting
// Next() -> Optional<Tuple>, pulling from an in-memory table rather than
// the B+ tree storage in package bplustree. This subsystem is
// independent of storage and could be pointed at a different backend
// without touching it.
//
// Grounded on the teacher's query_executor/query_parser packages for the
// general shape (a tagged plan dispatched by a factory into an executor
// tree) and on utkarsh5026-StoreMy's pkg/execution (Filter, BaseIterator)
// and pkg/iterator (the pull-based TupleIterator contract) for the
// idiom, simplified to a single next()->Optional<Tuple> signature rather
// than StoreMy's separate HasNext/Next pair.
package exec

import "fmt"

// Value is a column value: either an int64 or a string. Booleans are
// represented as the int64 0/1.
type Value any

// Schema names the columns of a Table, in order.
type Schema struct {
	Columns []string
}

// IndexOf returns the position of name in the schema, or -1.
func (s Schema) IndexOf(name string) int {
	for i, c := range s.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Tuple is one row: a slice of Values aligned with a Schema's columns.
type Tuple struct {
	Values []Value
}

// Table is an in-memory, mutable row store that SeqScan, Insert, Update,
// and Delete executors operate over.
type Table struct {
	Schema Schema
	Rows   []Tuple
}

// Storage is the set of tables a plan can be executed against.
type Storage map[string]*Table

func (s Storage) table(name string) (*Table, error) {
	t, ok := s[name]
	if !ok {
		return nil, fmt.Errorf("exec: table %q not found", name)
	}
	return t, nil
}

func truthy(v Value) bool {
	n, ok := v.(int64)
	return ok && n != 0
}
