// File: symbols_test.go
// Title: Symbol Table Tests
// Description: Tests for ordering, overwrite semantics and encoding.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-15
// Modified: 2026-10-15

package checker

import (
	"reflect"
	"testing"
)

func TestSymbolTable(t *testing.T) {
	s := NewSymbolTable()
	s.Set("b", "integer")
	s.Set("a", "real")
	s.Set("b", "real")

	if s.Len() != 2 {
		t.Errorf("Len() = %d, want 2", s.Len())
	}

	if got := s.Names(); !reflect.DeepEqual(got, []string{"b", "a"}) {
		t.Errorf("Names() = %v, want [b a]", got)
	}

	if typ, ok := s.Lookup("b"); !ok || typ != "real" {
		t.Errorf("Lookup(b) = %q, %v", typ, ok)
	}
	if _, ok := s.Lookup("c"); ok {
		t.Error("Lookup(c) should report false")
	}

	want := []Symbol{{Name: "b", Type: "real"}, {Name: "a", Type: "real"}}
	if got := s.Entries(); !reflect.DeepEqual(got, want) {
		t.Errorf("Entries() = %v, want %v", got, want)
	}

	names := s.Names()
	names[0] = "mutated"
	m := s.Map()
	m["x"] = "integer"
	if s.Names()[0] != "b" || s.Len() != 2 {
		t.Error("Names() and Map() should return copies")
	}
}

func TestSymbolTable_MarshalJSON(t *testing.T) {
	s := NewSymbolTable()
	s.Set("y", "real")
	s.Set("x", "integer")

	data, err := s.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON() error = %v", err)
	}
	if string(data) != `{"x":"integer","y":"real"}` {
		t.Errorf("MarshalJSON() = %s", data)
	}
}
