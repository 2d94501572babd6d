/*
Package authsdk provides a client SDK for the estoque authentication
service.

# Overview

The service manages accounts, opaque server-tracked sessions, and
permission grants for the internal inventory tooling. This package
wraps its HTTP surface in typed Go calls.

# SDKClient vs Session

The package is organized around two main types:

  - SDKClient: unauthenticated operations (login, bootstrap, health)
  - Session: authenticated operations carrying the session token

Create an SDKClient to reach public endpoints and log in:

	client := authsdk.NewSDKClient("https://auth.estoque.local")

	// Check service health
	health, err := client.Livez(ctx)

	// One-time setup of the first administrator
	resp, err := client.Bootstrap(ctx, token, req)

	// Authenticate to create a session
	session, err := client.Login(ctx, authsdk.LoginRequest{
		Username: "alice",
		Password: "secret",
	})

Use the Session for everything that needs authentication:

	// Is the session still valid, and what may its owner do?
	check, err := session.CheckSession(ctx)

	// Administrative surface (server enforces the role)
	users, err := session.ListUsers(ctx)
	err = session.DeactivateUser(ctx, userID)

	// Revoke the session when done
	err = session.Logout(ctx)

# Error Handling

Failing calls return *APIError with the server's status code and error
code:

	session, err := client.Login(ctx, req)
	if err != nil {
		var apiErr *authsdk.APIError
		if errors.As(err, &apiErr) && apiErr.Code == authsdk.ErrorCodeInvalidCredentials {
			// wrong username or password
		}
	}

The service never distinguishes unknown accounts from wrong passwords
or deactivated accounts; all three surface as invalid_credentials.
*/
package authsdk
