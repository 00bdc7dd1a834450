package login

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/dmitrymomot/eidsession/pkg/fetch"
	"github.com/dmitrymomot/eidsession/pkg/requestid"
)

const maxBodySize = 64 << 10

// challenge is the answer to an initiation request.
type challenge struct {
	token    string
	orderRef string
	status   string
}

// response is a fully read response of the remote authority.
type response struct {
	code    int
	body    []byte
	cookies []*http.Cookie
}

func (r *response) ok() bool {
	return r.code >= 200 && r.code < 300
}

// initiate starts a challenge for identifier, which may be empty for
// device-local flows. Cookies set by the authority are stored before returning.
func (a *Api) initiate(ctx context.Context, identifier string) (challenge, error) {
	var body io.Reader
	if identifier != "" {
		payload, err := sjson.SetBytes(nil, "identifier", identifier)
		if err != nil {
			return challenge{}, fmt.Errorf("login: encode init body: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := a.newRequest(ctx, http.MethodPost, a.opts.InitPath, nil, body)
	if err != nil {
		return challenge{}, err
	}
	resp, err := a.do(ctx, "init", req)
	if err != nil {
		return challenge{}, err
	}
	if err := a.capture(ctx, resp.cookies); err != nil {
		return challenge{}, err
	}
	if !resp.ok() {
		return challenge{}, &ProtocolError{Op: "init", StatusCode: resp.code}
	}
	if !gjson.ValidBytes(resp.body) {
		return challenge{}, &ProtocolError{Op: "init", Err: errors.New("body is not JSON")}
	}

	fields := gjson.GetManyBytes(resp.body, "token", "autoStartToken", "orderRef", "status")
	c := challenge{
		token:    fields[0].String(),
		orderRef: fields[2].String(),
		status:   fields[3].String(),
	}
	if c.token == "" {
		c.token = fields[1].String()
	}
	if c.token == "" {
		return challenge{}, &ProtocolError{Op: "init", Err: ErrMissingToken}
	}
	if c.orderRef == "" {
		c.orderRef = c.token
	}
	if c.status != "" {
		st, err := remoteState(c.status)
		if err != nil {
			return challenge{}, err
		}
		if st == StateError {
			return challenge{}, &RejectedError{Status: c.status, Hint: gjson.GetBytes(resp.body, "hintCode").String()}
		}
	}
	return c, nil
}

// fetchStatus performs one status check. It does not touch the cookie jar
// beyond reading it, so a result can be discarded without side effects.
func (a *Api) fetchStatus(ctx context.Context, orderRef string) (*response, error) {
	req, err := a.newRequest(ctx, http.MethodGet, a.opts.StatusPath, url.Values{"orderRef": {orderRef}}, nil)
	if err != nil {
		return nil, err
	}
	return a.do(ctx, "poll", req)
}

// parseStatus extracts the remote status and hint from a poll response body.
// JSON bodies carry {"status": .., "hintCode": ..}; anything else is taken as
// the bare status text.
func parseStatus(body []byte) (status, hint string) {
	if gjson.ValidBytes(body) {
		r := gjson.ParseBytes(body)
		if r.IsObject() {
			return r.Get("status").String(), r.Get("hintCode").String()
		}
		return r.String(), ""
	}
	return strings.TrimSpace(string(body)), ""
}

// newRequest builds a request against the authority with the default headers,
// a request id and the cookies currently stored for the authority's domain.
func (a *Api) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader) (*http.Request, error) {
	target := a.opts.URL(path)
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("login: build request: %w", err)
	}
	for k, v := range a.opts.Headers {
		req.Header.Set(k, v)
	}
	req.Header.Set("Accept", "application/json, text/plain")
	req.Header.Set(requestid.Header, requestid.New())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	cookies, err := a.jar.Read(ctx, a.domain)
	if err != nil {
		return nil, err
	}
	for _, c := range cookies {
		req.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value})
	}
	return req, nil
}

// do sends req through the fetch port with the configured request timeout and
// reads the whole body. Transport failures become *fetch.NetworkError.
func (a *Api) do(ctx context.Context, op string, req *http.Request) (*response, error) {
	if a.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.opts.Timeout)
		defer cancel()
	}

	resp, err := a.fetcher.Fetch(ctx, req.WithContext(ctx))
	if err != nil {
		return nil, &fetch.NetworkError{Op: op, URL: req.URL.String(), Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, &fetch.NetworkError{Op: op, URL: req.URL.String(), Err: err}
	}
	return &response{code: resp.StatusCode, body: body, cookies: resp.Cookies()}, nil
}

// capture stores cookies set by the authority. It is the only place the
// engine writes to the jar.
func (a *Api) capture(ctx context.Context, cookies []*http.Cookie) error {
	if len(cookies) == 0 {
		return nil
	}
	return a.jar.Write(ctx, a.domain, cookies)
}
