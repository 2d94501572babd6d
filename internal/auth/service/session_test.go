package service

import (
	"context"
	"testing"
	"time"

	"github.com/logistica/estoque-auth/internal/auth/domain"
	"github.com/logistica/estoque-auth/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestSessionValidate(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := newSessionService(st)

	user := seedUser(t, st, "alice", "pw", domain.RoleStandard)

	t.Run("valid token resolves to owner", func(t *testing.T) {
		token, _, err := svc.Create(ctx, user.ID, false)
		require.NoError(t, err)

		session, owner, err := svc.Validate(ctx, token)
		require.NoError(t, err)
		require.Equal(t, user.ID, owner.ID)
		require.Equal(t, domain.SessionActive, session.Status)
	})

	t.Run("unknown and empty tokens fail", func(t *testing.T) {
		_, _, err := svc.Validate(ctx, "never-issued")
		require.ErrorIs(t, err, ErrUnauthenticated)

		_, _, err = svc.Validate(ctx, "")
		require.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("deadline passing persists expiry on first validate", func(t *testing.T) {
		expired := &SessionService{Store: st, TTL: -time.Minute, RememberTTL: -time.Minute}
		token, session, err := expired.Create(ctx, user.ID, false)
		require.NoError(t, err)

		_, _, err = svc.Validate(ctx, token)
		require.ErrorIs(t, err, ErrUnauthenticated)

		stored, err := st.Sessions().GetSessionByTokenHash(ctx, cryptox.FingerprintToken(token))
		require.NoError(t, err)
		require.Equal(t, session.ID, stored.ID)
		require.Equal(t, domain.SessionExpired, stored.Status)

		// Terminal states are never left.
		_, _, err = svc.Validate(ctx, token)
		require.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("session of a deactivated owner fails", func(t *testing.T) {
		other := seedUser(t, st, "bob", "pw", domain.RoleStandard)
		token, _, err := svc.Create(ctx, other.ID, false)
		require.NoError(t, err)

		require.NoError(t, st.Users().SetActive(ctx, other.ID, false))

		_, _, err = svc.Validate(ctx, token)
		require.ErrorIs(t, err, ErrUnauthenticated)
	})
}

func TestSessionRevoke(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := newSessionService(st)

	user := seedUser(t, st, "alice", "pw", domain.RoleStandard)

	token, session, err := svc.Create(ctx, user.ID, false)
	require.NoError(t, err)

	require.NoError(t, svc.Revoke(ctx, token))

	stored, err := st.Sessions().GetSessionByTokenHash(ctx, cryptox.FingerprintToken(token))
	require.NoError(t, err)
	require.Equal(t, session.ID, stored.ID)
	require.Equal(t, domain.SessionRevoked, stored.Status)

	// Repeats and unknown tokens are no-ops.
	require.NoError(t, svc.Revoke(ctx, token))
	require.NoError(t, svc.Revoke(ctx, "never-issued"))
	require.NoError(t, svc.Revoke(ctx, ""))
}

func TestRevokeAllForUser(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := newSessionService(st)

	user := seedUser(t, st, "alice", "pw", domain.RoleStandard)
	bystander := seedUser(t, st, "bob", "pw", domain.RoleStandard)

	first, _, err := svc.Create(ctx, user.ID, false)
	require.NoError(t, err)
	second, _, err := svc.Create(ctx, user.ID, true)
	require.NoError(t, err)
	theirs, _, err := svc.Create(ctx, bystander.ID, false)
	require.NoError(t, err)

	require.NoError(t, svc.RevokeAllForUser(ctx, user.ID))

	_, _, err = svc.Validate(ctx, first)
	require.ErrorIs(t, err, ErrUnauthenticated)
	_, _, err = svc.Validate(ctx, second)
	require.ErrorIs(t, err, ErrUnauthenticated)

	_, owner, err := svc.Validate(ctx, theirs)
	require.NoError(t, err)
	require.Equal(t, bystander.ID, owner.ID)
}

func TestHousekeepingSweep(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := newSessionService(st)

	user := seedUser(t, st, "alice", "pw", domain.RoleStandard)

	overdue := &SessionService{Store: st, TTL: -48 * time.Hour, RememberTTL: -48 * time.Hour}
	staleToken, _, err := overdue.Create(ctx, user.ID, false)
	require.NoError(t, err)

	liveToken, _, err := svc.Create(ctx, user.ID, false)
	require.NoError(t, err)

	now := time.Now().UTC()
	require.NoError(t, st.Sessions().ExpireSessionsBefore(ctx, now))

	stale, err := st.Sessions().GetSessionByTokenHash(ctx, cryptox.FingerprintToken(staleToken))
	require.NoError(t, err)
	require.Equal(t, domain.SessionExpired, stale.Status)

	live, err := st.Sessions().GetSessionByTokenHash(ctx, cryptox.FingerprintToken(liveToken))
	require.NoError(t, err)
	require.Equal(t, domain.SessionActive, live.Status)

	// Retention delete removes only terminal sessions past the cutoff.
	require.NoError(t, st.Sessions().DeleteTerminalSessionsBefore(ctx, now.Add(-24*time.Hour)))

	_, err = st.Sessions().GetSessionByTokenHash(ctx, cryptox.FingerprintToken(staleToken))
	require.Error(t, err)

	_, _, err = svc.Validate(ctx, liveToken)
	require.NoError(t, err)
}
