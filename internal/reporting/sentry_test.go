package reporting

import (
	"fmt"
	"testing"

	"github.com/getsentry/sentry-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeError(t *testing.T) {
	t.Parallel()

	t.Run("connection reset by peer", func(t *testing.T) {
		t.Parallel()

		err := `failed to find player 42: read tcp [dead:beef:feb1:d745::c001]:64079->[dead:beef::6811:112a]:5432: read: connection reset by peer`
		want := `failed to find player <id>: read tcp <host>-><host>: read: connection reset by peer`
		require.Equal(t, want, sanitizeError(err))
	})
	t.Run("ipv4 dial", func(t *testing.T) {
		t.Parallel()

		err := `failed to store attempt for player 7 on level 3: dial tcp 10.20.0.3:5432: connect: connection refused`
		want := `failed to store attempt for player <id> on level <id>: dial tcp <host>: connect: connection refused`
		require.Equal(t, want, sanitizeError(err))
	})
	t.Run("username", func(t *testing.T) {
		t.Parallel()

		err := `failed to store player player-deadbeef-8315-465d-9d44-cfc238c64f71: context deadline exceeded`
		want := `failed to store player player-<uuid>: context deadline exceeded`
		require.Equal(t, want, sanitizeError(err))
	})
	t.Run("achievement ids", func(t *testing.T) {
		t.Parallel()

		err := `failed to unlock achievement 12 for player 9: pq: deadlock detected`
		want := `failed to unlock achievement <id> for player <id>: pq: deadlock detected`
		require.Equal(t, want, sanitizeError(err))
	})
	t.Run("no match", func(t *testing.T) {
		t.Parallel()

		err := `failed to list achievements: players123 are not ids`
		require.Equal(t, err, sanitizeError(err))
	})
	t.Run("misc ipv6", func(t *testing.T) {
		t.Parallel()

		ips := []string{
			`1:2:3:4:5:6:7:8`,
			`1::`,
			`1:2:3:4:5:6:7::`,
			`1::8`,
			`1:2:3:4:5:6::8`,
			`1::7:8`,
			`1:2:3:4:5::7:8`,
			`1::6:7:8`,
			`1:2:3:4::6:7:8`,
			`1::5:6:7:8`,
			`1:2:3::5:6:7:8`,
			`1::4:5:6:7:8`,
			`1:2::4:5:6:7:8`,
			`1::3:4:5:6:7:8`,
			`::2:3:4:5:6:7:8`,
			`::8`,
			`::`,
		}
		for _, ip := range ips {
			t.Run(ip, func(t *testing.T) {
				t.Parallel()

				require.Equal(t, "<host>", sanitizeError(fmt.Sprintf("[%s]:1234", ip)))
			})
		}
	})
}

func TestReport(t *testing.T) {
	t.Parallel()

	t.Run("without hub", func(t *testing.T) {
		t.Parallel()

		require.NotPanics(t, func() {
			Report(t.Context(), assert.AnError)
		})
	})

	t.Run("with hub", func(t *testing.T) {
		t.Parallel()

		ctx := AddHubToContext(t.Context(), "test")
		ctx = SetPlayerIDInContext(ctx, 5)
		require.NotNil(t, sentry.GetHubFromContext(ctx))

		require.NotPanics(t, func() {
			Report(ctx, assert.AnError, map[string]string{"levelID": "3"})
			Report(ctx, nil)
		})
	})
}

func TestMetaFromContext(t *testing.T) {
	t.Parallel()

	ctx := AddTagsToContext(t.Context(), map[string]string{"operation": "record"})
	ctx = AddExtrasToContext(ctx, map[string]string{"levelID": "3"})
	ctx = SetPlayerIDInContext(ctx, 11)

	meta := MetaFromContext(ctx)
	require.Equal(t, map[string]string{"operation": "record"}, meta.tags)
	require.Equal(t, map[string]string{"levelID": "3"}, meta.extras)
	require.Equal(t, "11", meta.playerID)

	// Mutating a copy does not leak into the context
	meta.tags["other"] = "value"
	require.NotContains(t, MetaFromContext(ctx).tags, "other")
}
