// Package source provides [engine.DataSource] implementations: a
// deterministic seeded dataset for tests and demos, an HTTP client for the
// remote page API, and a SQLite-backed source with keyset pagination.
//
// For a DynamoDB-backed production source, see the dynamo package.
package source
