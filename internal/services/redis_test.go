package services

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
)

func TestInitRedis(t *testing.T) {
	redisServer := miniredis.RunT(t)

	client, err := InitRedis("redis://" + redisServer.Addr() + "/0")
	require.NoError(t, err)
	defer client.Close()

	require.NoError(t, client.Set(t.Context(), "key", "value", 0).Err())

	value, err := redisServer.Get("key")
	require.NoError(t, err)
	require.Equal(t, "value", value)
}

func TestInitRedisInvalidURL(t *testing.T) {
	_, err := InitRedis("not a url")
	require.ErrorContains(t, err, "error parsing session registry Redis URL")
}

func TestInitRedisUnreachable(t *testing.T) {
	redisServer, err := miniredis.Run()
	require.NoError(t, err)
	addr := redisServer.Addr()
	redisServer.Close()

	_, err = InitRedis("redis://" + addr + "/0")
	require.ErrorContains(t, err, "error pinging session registry Redis at "+addr)
}
