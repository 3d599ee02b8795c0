package ioerr_test

import (
	"errors"
	"testing"

	"github.com/joomcode/errorx"
	"github.com/stretchr/testify/assert"

	"github.com/outpostmon/redisq/ioerr"
)

func TestNewRedisReplyCarriesMessage(t *testing.T) {
	err := ioerr.NewRedisReply("WRONGTYPE operation against a wrong kind")
	assert.True(t, ioerr.IsRedisReply(err))
	msg, ok := err.Property(ioerr.PropertyKeyMessage)
	assert.True(t, ok)
	assert.Equal(t, "WRONGTYPE operation against a wrong kind", msg)
}

func TestDisconnectedHasConnectivityTrait(t *testing.T) {
	err := ioerr.Disconnected.New("connection reset")
	assert.True(t, err.HasTrait(ioerr.Connectivity))
}

func TestBadIntegerIsOfProtocolType(t *testing.T) {
	err := ioerr.BadInteger.Wrap(errors.New("boom"), "malformed integer")
	assert.True(t, errorx.IsOfType(err, ioerr.Protocol))
	assert.True(t, errorx.IsOfType(err, ioerr.BadInteger))
}

func TestRedisReplyIsNotConnectivity(t *testing.T) {
	err := ioerr.NewRedisReply("ERR x")
	assert.False(t, err.HasTrait(ioerr.Connectivity))
}
