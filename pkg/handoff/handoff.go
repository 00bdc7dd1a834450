// Package handoff turns a challenge token into something the user's
// authenticator app can pick up: an autostart link, or a QR code of that link
// for a second device.
package handoff

import (
	"errors"
	"net/url"
	"strings"

	"github.com/dmitrymomot/eidsession/pkg/login"
	"github.com/dmitrymomot/eidsession/pkg/qrcode"
)

var (
	ErrEmptyToken = errors.New("handoff: challenge token is empty")
	// ErrFakeToken is returned for the token of a test user login, which no
	// authenticator can complete.
	ErrFakeToken = errors.New("handoff: test user token cannot be handed off")
)

const (
	universalLink = "https://app.bankid.com/"
	schemeLink    = "bankid:///"
)

// Options select the link flavour.
type Options struct {
	// Scheme uses the custom URL scheme instead of the universal link.
	// The authenticator then does not return to the caller.
	Scheme bool
	// Redirect is where the authenticator returns after signing. Empty
	// means no return, encoded as "null".
	Redirect string
}

// AutostartURL builds the link that opens the authenticator on token.
func AutostartURL(token string, opts Options) (string, error) {
	if err := check(token); err != nil {
		return "", err
	}

	redirect := "null"
	base := schemeLink
	if !opts.Scheme {
		base = universalLink
		if opts.Redirect != "" {
			redirect = url.QueryEscape(opts.Redirect)
		}
	}
	return base + "?autostarttoken=" + url.QueryEscape(token) + "&redirect=" + redirect, nil
}

// QRCode renders the universal autostart link of token as a PNG image.
func QRCode(token string, size int) ([]byte, error) {
	link, err := AutostartURL(token, Options{})
	if err != nil {
		return nil, err
	}
	return qrcode.PNG(link, qrcode.WithSize(size))
}

// QRCodeDataURI is QRCode as a data URI for an <img> tag.
func QRCodeDataURI(token string, size int) (string, error) {
	link, err := AutostartURL(token, Options{})
	if err != nil {
		return "", err
	}
	return qrcode.DataURI(link, qrcode.WithSize(size))
}

// Terminal renders the universal autostart link of token for a terminal.
func Terminal(token string) (string, error) {
	link, err := AutostartURL(token, Options{})
	if err != nil {
		return "", err
	}
	return qrcode.Terminal(link)
}

func check(token string) error {
	switch strings.TrimSpace(token) {
	case "":
		return ErrEmptyToken
	case login.FakeToken:
		return ErrFakeToken
	}
	return nil
}
