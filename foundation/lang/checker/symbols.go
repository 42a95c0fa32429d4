// File: symbols.go
// Title: Symbol Table
// Description: Name to declared-type mapping with last-write-wins updates
//              and stable first-declaration ordering.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-15
// Modified: 2026-10-15
//
// Change History:
// - 2026-10-15 v0.1.0: Initial implementation

package checker

import (
	"encoding/json"
)

// Symbol is one declared variable
type Symbol struct {
	Name string `json:"name" yaml:"name"`
	Type string `json:"type" yaml:"type"`
}

// SymbolTable maps variable names to declared type names.
// A redeclaration overwrites the type and keeps the original position.
type SymbolTable struct {
	order []string
	types map[string]string
}

// NewSymbolTable creates an empty symbol table
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{types: make(map[string]string)}
}

// Set declares name with the given type
func (s *SymbolTable) Set(name, typeName string) {
	if _, exists := s.types[name]; !exists {
		s.order = append(s.order, name)
	}
	s.types[name] = typeName
}

// Lookup returns the declared type of name
func (s *SymbolTable) Lookup(name string) (string, bool) {
	typeName, ok := s.types[name]
	return typeName, ok
}

// Len returns the number of declared names
func (s *SymbolTable) Len() int {
	return len(s.order)
}

// Names returns declared names in first-declaration order
func (s *SymbolTable) Names() []string {
	names := make([]string, len(s.order))
	copy(names, s.order)
	return names
}

// Entries returns the symbols in first-declaration order
func (s *SymbolTable) Entries() []Symbol {
	entries := make([]Symbol, len(s.order))
	for i, name := range s.order {
		entries[i] = Symbol{Name: name, Type: s.types[name]}
	}
	return entries
}

// Map returns a copy of the table as a plain map
func (s *SymbolTable) Map() map[string]string {
	m := make(map[string]string, len(s.types))
	for k, v := range s.types {
		m[k] = v
	}
	return m
}

// MarshalJSON encodes the table as a name to type object
func (s *SymbolTable) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Map())
}
