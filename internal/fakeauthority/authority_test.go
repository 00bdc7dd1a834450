package fakeauthority_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/eidsession/internal/fakeauthority"
	"github.com/dmitrymomot/eidsession/pkg/requestid"
)

func TestAuthority(t *testing.T) {
	t.Parallel()

	a := fakeauthority.New(fakeauthority.WithScript("PENDING", "OK"))
	srv := httptest.NewServer(a.Handler())
	t.Cleanup(srv.Close)

	resp, err := http.Post(srv.URL+"/auth/bankid/init", "application/json", strings.NewReader(`{"identifier":"199001011234"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(requestid.Header))

	var c struct {
		Token    string `json:"token"`
		OrderRef string `json:"orderRef"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&c))
	require.NotEmpty(t, c.Token)
	assert.Equal(t, 1, a.Orders())

	poll := func() (string, *http.Response) {
		r, err := http.Get(srv.URL + "/auth/bankid/status?orderRef=" + c.OrderRef)
		require.NoError(t, err)
		defer r.Body.Close()
		var body struct {
			Status string `json:"status"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		return body.Status, r
	}

	st, _ := poll()
	assert.Equal(t, "PENDING", st)
	st, r := poll()
	assert.Equal(t, "OK", st)
	require.Len(t, r.Cookies(), 1)
	assert.Equal(t, fakeauthority.SessionCookie, r.Cookies()[0].Name)
	assert.Equal(t, 2, a.Polls(c.OrderRef))

	unknown, err := http.Get(srv.URL + "/auth/bankid/status?orderRef=nope")
	require.NoError(t, err)
	unknown.Body.Close()
	assert.Equal(t, http.StatusNotFound, unknown.StatusCode)

	logout, err := http.Post(srv.URL+"/auth/logout", "", nil)
	require.NoError(t, err)
	logout.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, logout.StatusCode)
}
