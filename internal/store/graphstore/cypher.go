package graphstore

import "regexp"

// identifierPattern matches safe, unparameterizable Cypher identifiers
// (relationship types, labels). Defense in depth: graphmodel.RelationshipType
// is already a closed set of Go constants, never user input, but a
// relationship type is interpolated into the query text because Cypher
// cannot bind a type name as a parameter, so it is validated anyway.
var identifierPattern = regexp.MustCompile(`^[A-Z_][A-Z0-9_]*$`)

func isValidIdentifier(s string) bool {
	return identifierPattern.MatchString(s)
}
