package qrcode

import (
	"encoding/base64"
	"errors"
	"strings"

	skipqrcode "github.com/skip2/go-qrcode"
)

var (
	ErrEmptyContent = errors.New("qrcode: content cannot be empty")
	ErrGenerate     = errors.New("qrcode: failed to generate QR code")
)

const defaultSize = 256

// Level is the error recovery level of a code.
type Level = skipqrcode.RecoveryLevel

const (
	Low     Level = skipqrcode.Low
	Medium  Level = skipqrcode.Medium
	High    Level = skipqrcode.High
	Highest Level = skipqrcode.Highest
)

type options struct {
	size   int
	level  Level
	invert bool
}

type Option func(*options)

// WithSize sets the PNG width and height in pixels. Non-positive values keep the default.
func WithSize(px int) Option {
	return func(o *options) {
		if px > 0 {
			o.size = px
		}
	}
}

func WithLevel(l Level) Option {
	return func(o *options) {
		o.level = l
	}
}

// WithInvert swaps dark and light modules of terminal output, for light
// terminal themes.
func WithInvert() Option {
	return func(o *options) {
		o.invert = true
	}
}

func apply(opts []Option) options {
	o := options{size: defaultSize, level: Medium}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func encode(content string, o options) (*skipqrcode.QRCode, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}
	q, err := skipqrcode.New(content, o.level)
	if err != nil {
		return nil, errors.Join(ErrGenerate, err)
	}
	return q, nil
}

// PNG renders content as a PNG image.
func PNG(content string, opts ...Option) ([]byte, error) {
	o := apply(opts)
	q, err := encode(content, o)
	if err != nil {
		return nil, err
	}
	png, err := q.PNG(o.size)
	if err != nil {
		return nil, errors.Join(ErrGenerate, err)
	}
	return png, nil
}

// DataURI renders content as a base64 PNG data URI, usable as
//
//	<img src="{{.QRCode}}">
func DataURI(content string, opts ...Option) (string, error) {
	png, err := PNG(content, opts...)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

// Terminal renders content with half-block characters, two modules per
// character row.
func Terminal(content string, opts ...Option) (string, error) {
	o := apply(opts)
	q, err := encode(content, o)
	if err != nil {
		return "", err
	}
	return q.ToSmallString(o.invert), nil
}
