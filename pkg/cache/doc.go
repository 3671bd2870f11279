// Package cache provides a bounded, thread-safe LRU map.
//
//	embeddings := cache.NewLRU[string, vectorizer.Vector](256)
//	embeddings.Put(text, vec)
//	vec, ok := embeddings.Get(text)
//
// Get and Put mark an entry as most recently used. Once the map holds
// capacity entries, each Put of a new key evicts the least recently used one.
package cache
