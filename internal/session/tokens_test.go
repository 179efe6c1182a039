package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnsignedTokensAreBareIDs(t *testing.T) {
	tokens := NewTokens("")
	rec := Record{ID: NewID()}

	tok, err := tokens.Issue(rec)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, tok)

	id, err := tokens.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, id)

	_, err = tokens.Parse("not-a-uuid")
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = tokens.Parse("")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSignedTokensRoundTrip(t *testing.T) {
	tokens := NewTokens("secret")
	now := time.Now().UTC().Truncate(time.Second)
	tokens.now = func() time.Time { return now }
	rec := Record{ID: NewID(), CreatedAt: now, ExpiresAt: now.Add(time.Hour)}

	tok, err := tokens.Issue(rec)
	require.NoError(t, err)
	assert.NotEqual(t, rec.ID, tok)

	id, err := tokens.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, id)
}

func TestSignedTokensRejectForgeryAndExpiry(t *testing.T) {
	tokens := NewTokens("secret")
	now := time.Now().UTC().Truncate(time.Second)
	tokens.now = func() time.Time { return now }
	rec := Record{ID: NewID(), CreatedAt: now, ExpiresAt: now.Add(time.Minute)}

	tok, err := NewTokens("other").Issue(rec)
	require.NoError(t, err)
	_, err = tokens.Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = tokens.Parse(rec.ID)
	assert.ErrorIs(t, err, ErrInvalidToken)

	good, err := tokens.Issue(rec)
	require.NoError(t, err)
	tokens.now = func() time.Time { return now.Add(2 * time.Minute) }
	_, err = tokens.Parse(good)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
