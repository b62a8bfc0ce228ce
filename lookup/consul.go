package lookup

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/consul/api"
)

// DefaultConsulTimeout bounds a single KV read.
const DefaultConsulTimeout = 5 * time.Second

// ConsulKV defines the interface for Consul key-value reads.
// *api.KV satisfies it; tests substitute a fake.
type ConsulKV interface {
	Get(key string, q *api.QueryOptions) (*api.KVPair, *api.QueryMeta, error)
}

// Consul looks settings up in Consul's key-value store.
// The composed name "Db.Timeout" under root "apps/billing" is read from the key
// "apps/billing/Db/Timeout". Values are returned as strings.
type Consul struct {
	kv      ConsulKV
	root    string
	timeout time.Duration
}

// ConsulOption configures a Consul lookup.
type ConsulOption func(*Consul)

// WithConsulTimeout sets the per-read timeout. Non-positive values are ignored.
func WithConsulTimeout(d time.Duration) ConsulOption {
	return func(c *Consul) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// NewConsul creates a Consul lookup rooted at root.
// If kv is nil, a client is built from api.DefaultConfig, which honours
// CONSUL_HTTP_ADDR and CONSUL_HTTP_TOKEN.
func NewConsul(root string, kv ConsulKV, opts ...ConsulOption) (*Consul, error) {
	if kv == nil {
		client, err := api.NewClient(api.DefaultConfig())
		if err != nil {
			return nil, fmt.Errorf("failed to create consul client: %w", err)
		}
		kv = client.KV()
	}

	c := &Consul{
		kv:      kv,
		root:    strings.Trim(root, "/"),
		timeout: DefaultConsulTimeout,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

// Lookup implements setting.Lookup.
func (c *Consul) Lookup(name string) (any, bool, error) {
	key := c.Key(name)

	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	pair, _, err := c.kv.Get(key, (&api.QueryOptions{}).WithContext(ctx))
	if err != nil {
		return nil, false, fmt.Errorf("failed to get consul key %q: %w", key, err)
	}
	if pair == nil {
		return nil, false, nil
	}
	return string(pair.Value), true, nil
}

// Key returns the Consul key that name is read from.
func (c *Consul) Key(name string) string {
	key := strings.ReplaceAll(name, ".", "/")
	if c.root == "" {
		return key
	}
	return c.root + "/" + key
}

// Name returns "consul".
func (c *Consul) Name() string {
	return "consul"
}
