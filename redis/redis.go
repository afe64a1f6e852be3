package redis

import (
	"time"

	"github.com/gomodule/redigo/redis"
	"github.com/nikahapp/matrimony-backend/env"
)

var pool *redis.Pool

func init() {
	pool = &redis.Pool{
		MaxIdle:     3,
		IdleTimeout: 240 * time.Second,
		Dial: func() (redis.Conn, error) {
			return redis.Dial("tcp", env.REDIS_CONN)
		},
	}
}

func GetConn() redis.Conn {
	return pool.Get()
}
