// Package cookiejar gives the login engine one read/write-by-domain contract
// over two incompatible cookie storage backends.
//
// The backends are external collaborators:
//
//   - NativeManager mirrors a platform cookie manager keyed by URL that stores
//     cookies one at a time.
//   - Store is a generic jar that stores and retrieves cookie batches by URL.
//     MemoryStore (net/http/cookiejar) and RedisStore (go-redis) are provided.
//
// The embedding application picks the variant once, at construction:
//
//	jar := cookiejar.NewNativeManagerJar(manager)
//	// or
//	jar := cookiejar.NewGenericJar(cookiejar.NewMemoryStore())
//
// Both return a Jar; nothing downstream knows which backend is active.
//
// # Concurrency
//
// Writes to the same domain are serialized and a batch write is applied in full
// before any other read or write of that domain proceeds. Different domains are
// independent.
//
// # Errors
//
// Every backend failure is returned as *StorageError, which matches ErrStorage
// with errors.Is. Failures are never swallowed: a lost session cookie would
// corrupt every following request.
package cookiejar
