// Package driven provides interfaces for infrastructure adapters
// (secondary/outbound ports): the profile store, the embedding provider,
// and the vector artifact builder/searcher.
package driven
