package login

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemoteState(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want State
	}{
		{"PENDING", StatePending},
		{"outstandingTransaction", ""},
		{"OUTSTANDING_TRANSACTION", StatePending},
		{" no_client ", StatePending},
		{"USER_SIGN", StateUserSign},
		{"STARTED", StateUserSign},
		{"OK", StateOK},
		{"complete", StateOK},
		{"ERROR", StateError},
		{"EXPIRED_TRANSACTION", StateError},
		{"USER_CANCEL", StateError},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			t.Parallel()
			got, err := remoteState(tt.raw)
			if tt.want == "" {
				require.ErrorIs(t, err, ErrProtocol)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTransitions(t *testing.T) {
	t.Parallel()

	for _, terminal := range []State{StateOK, StateError, StateCancelled} {
		assert.True(t, terminal.Terminal())
		for _, to := range []State{StatePending, StateUserSign, StateOK, StateError, StateCancelled} {
			assert.False(t, canTransition(terminal, to), "%s -> %s", terminal, to)
		}
	}

	assert.True(t, canTransition(StateInit, StatePending))
	assert.False(t, canTransition(StateInit, StateOK))
	assert.False(t, canTransition(StateInit, StateUserSign))
	assert.True(t, canTransition(StatePending, StateUserSign))
	assert.False(t, canTransition(StateUserSign, StatePending))

	assert.Equal(t, StateUserSign, settle(StateUserSign, StatePending))
	assert.Equal(t, StateOK, settle(StateUserSign, StateOK))

	assert.True(t, emits(StatePending, StatePending))
	assert.False(t, emits(StateUserSign, StateUserSign))
	assert.True(t, emits(StatePending, StateUserSign))
}

func TestParseStatus(t *testing.T) {
	t.Parallel()

	st, hint := parseStatus([]byte(`{"status":"ERROR","hintCode":"userCancel"}`))
	assert.Equal(t, "ERROR", st)
	assert.Equal(t, "userCancel", hint)

	st, _ = parseStatus([]byte(`"USER_SIGN"`))
	assert.Equal(t, "USER_SIGN", st)

	st, _ = parseStatus([]byte("PENDING\n"))
	assert.Equal(t, "PENDING", st)

	st, _ = parseStatus([]byte(`{"state":"OK"}`))
	assert.Empty(t, st)
}
