// Package templates stores sent and curated email templates in Postgres and
// retrieves them by keyword, semantic or hybrid similarity.
//
// Rows carry a pgvector embedding of the subject and description. Hybrid
// search runs the keyword and vector queries concurrently and fuses the two
// rankings with reciprocal rank fusion. When the keyword branch fails the
// semantic ranking is used on its own.
//
// The Service is usable without a database: every operation then fails with
// a configuration error, and Retrieve returns no references.
package templates
