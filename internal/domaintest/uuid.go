package domaintest

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// NewUsername returns a username that is unique across test runs
func NewUsername(t *testing.T) string {
	id, err := uuid.NewRandom()
	require.NoError(t, err)
	return "player-" + id.String()
}
