// Package login is the authentication session engine: a client of a remote
// electronic-ID authority that runs a challenge/poll handshake.
//
// # Flow
//
// Api.Login sends the initiation request and returns a *Status handle holding
// the opaque challenge token. The caller hands the token to the external
// authenticator (see pkg/handoff) and observes the attempt:
//
//	api, err := login.New(fetch.FromClient(client), jar, opts, login.WithLogger(log))
//	if err != nil {
//		return err
//	}
//	sub := api.On(login.EventLogin, func(ctx context.Context, e login.Event) {
//		// session established, cookies persisted
//	})
//	defer sub.Unsubscribe()
//
//	status, err := api.Login(ctx, personalNumber,
//		login.OnState(login.StateUserSign, func(ctx context.Context, e login.Event) { ... }),
//		login.OnState(login.StateError, func(ctx context.Context, e login.Event) { ... }),
//	)
//	if err != nil {
//		return err // initiation failed
//	}
//	openAuthenticator(status.Token())
//	state, err := status.Wait(ctx)
//
// A detached goroutine polls the authority every PollInterval. Each answer
// moves the attempt through PENDING and USER_SIGN to OK or ERROR; Cancel ends
// it in CANCELLED. Handlers of a transition run after the transition is
// committed and before the next poll. On OK the cookies set by the authority
// are persisted first, then the OK handlers run, then the Api emits
// EventLogin.
//
// # Failure policy
//
// A single failed poll (transport error, timeout, unexpected HTTP status,
// unknown status value or cookie storage failure) ends the attempt in ERROR;
// polls are never retried. Polling failures are only reported through the
// ERROR event and Status.Err, never returned from Login.
//
// # Test user
//
// The identifier configured as fetch.Options.TestUser logs in without any
// network call, with FakeToken as its token.
package login
