package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestActorFallbacks(t *testing.T) {
	ctx := context.Background()

	assert.Equal(t, AnonymousActor, New("", "").Actor(ctx))
	assert.Equal(t, "admin-1", New("admin-1", "admin").Actor(ctx))
}

func TestRequestActorWins(t *testing.T) {
	s := New("admin-1", "admin")
	ctx := WithActor(context.Background(), "shopper-7", "user")

	assert.Equal(t, "shopper-7", s.Actor(ctx))
	assert.Equal(t, "user", s.Role(ctx))
}
