// Package async provides a small generic Future and the Promise that completes it.
//
// A Future is obtained either from Go, which runs a function in its own
// goroutine, or from a Promise whose owner settles it exactly once:
//
//	p := async.NewPromise[int]()
//	go func() { p.Resolve(42, nil) }()
//	v, err := p.Future().Await()
//
// The login engine returns a Future from Status.Cancel that settles once the
// polling loop of the attempt has stopped.
package async
