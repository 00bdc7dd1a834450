// Package fetch defines the transport port of the login engine and the
// options describing the remote authority.
//
// The engine never builds an HTTP client. The embedding application supplies
// a Fetcher, which can be a plain function:
//
//	f := fetch.Func(func(ctx context.Context, req *http.Request) (*http.Response, error) {
//		return myTransport.RoundTrip(req.WithContext(ctx))
//	})
//
// or an existing client:
//
//	f := fetch.FromClient(&http.Client{})
//
// Options (the FetcherOptions of the remote authority) can be read from the
// environment with LoadOptions. They are copied by the consumer and must not
// be mutated afterwards.
package fetch
