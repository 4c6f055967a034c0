// Package schema holds the Schema Registry: the immutable mapping from a type
// name to its endpoint, identifier attribute, relations, ordering and payload
// parser.
//
// # Configuration surface
//
// A registry is built from a Config, either assembled in Go or loaded from a
// YAML, JSON or CUE file:
//
//	apiUrl: http://localhost:8000
//	idAttribute: url
//	types:
//	  teams:
//	    url: /api/v2/team/
//	    oneToMany:
//	      members: members
//	  discussions:
//	    url: /api/v2/discussion/
//	    orderBy: -title
//	    parse: results
//	    foreignKey:
//	      message: messages
//
// Relation maps keep their declaration order. The parse field of a file is an
// expr-lang expression evaluated with the top-level keys of the raw response
// (and the whole value as `response`) in scope; Go callers may set ParseFunc
// instead.
//
// # Validation
//
// New validates the whole configuration once: relation targets must exist,
// an attribute may not be both oneToMany and foreignKey, orderBy must match
// `-?[\w-]+` and parse expressions must compile. Entries are read-only
// afterwards and safe for concurrent use.
package schema
