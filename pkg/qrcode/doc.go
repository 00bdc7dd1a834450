// Package qrcode renders short strings, such as an authenticator autostart
// link, as QR codes: PNG bytes, a data URI for <img> tags, or block
// characters for a terminal.
//
// It wraps github.com/skip2/go-qrcode.
//
//	png, err := qrcode.PNG(link, qrcode.WithSize(320))
//	uri, err := qrcode.DataURI(link)
//	fmt.Print(qrcode.Terminal(link))
//
// Empty content fails with ErrEmptyContent; encoder failures match
// ErrGenerate.
package qrcode
