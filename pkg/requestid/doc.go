// Package requestid correlates requests between the login client and the
// authority. The client stamps every request with Header; the server side
// middleware keeps a well-formed id, stores it in the context and echoes it.
package requestid
