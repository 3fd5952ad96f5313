package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const dialTimeout = 3 * time.Second

// Client is the Redis connection shared by state stores. Embedding keeps the
// full go-redis command set available, which is what redismock plugs into.
type Client struct {
	*redis.Client
	addr string
}

func NewClient(addr, password string, db int) *Client {
	return &Client{
		Client: redis.NewClient(&redis.Options{
			Addr:        addr,
			Password:    password,
			DB:          db,
			ClientName:  "pgm_storefront",
			DialTimeout: dialTimeout,
		}),
		addr: addr,
	}
}

// HealthCheck pings the server once.
func (c *Client) HealthCheck(ctx context.Context) error {
	const op = "storage.redis.HealthCheck"

	if err := c.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%s: %s: %w", op, c.addr, err)
	}

	return nil
}

func (c *Client) Close() error {
	const op = "storage.redis.Close"

	if err := c.Client.Close(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
