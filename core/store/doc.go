// Package store is the normalization-and-query engine of the entity store.
//
// The Engine owns one table per schema type, mapping an id key to a Record,
// and is the only writer of those tables.
//
// # Ingestion
//
// Set accepts a raw response (JSON text or already decoded values), coerces
// it into a sequence of records, stores each one by id (full replacement, not
// a merge) and rewrites its declared relations:
//
//   - oneToMany: a list of nested objects is stored in the related type and
//     replaced by the list of their ids,
//   - foreignKey: a nested object is stored in the related type and replaced
//     by its id.
//
// Relation attributes are rewritten before recursing into the nested objects.
// An object graph that loops back to a record already being stored therefore
// finds its relations already reduced to ids and the recursive call is an
// idempotent re-upsert. There is no visited set; termination relies on that
// idempotence.
//
// A Set call is all-or-nothing: writes, including those to related types,
// are staged on copies of the touched tables and committed only when every
// record of the batch was stored. Maps passed to Set become owned by the
// engine and are rewritten in place; reads always return copies.
//
// An empty sequence clears the type's table when it holds records.
//
// # Queries
//
// Find and FindAll accept no query, a predicate (single-level equality on
// every key) or, for Find, a scalar id. Results honor the type's orderBy:
// ascending on the lowercased string form of the attribute, reversed as a
// whole when the attribute is prefixed with "-".
package store
