// internal/vault/vault.go
//
// Vault lookups for configuration secrets.
//
// Context
// -------
//   - A configuration value written as `vault:<mount>/<path>#<key>` is a
//     reference to one key of a KV-v2 secret.  Anything else is a literal
//     and is returned unchanged.
//   - The run is short-lived, so there is no token renewal and no cache:
//     one client, one read per reference.
//
// Public workflow
// ---------------
//  1. if vault.IsRef(pw) { cli, err := vault.New("", "") }   // env config.
//  2. pw, err = cli.Resolve(ctx, pw)
//
// Environment expectations: VAULT_ADDR, VAULT_TOKEN (or ~/.vault-token).
package vault

import (
	"context"
	"errors"
	"fmt"
	"strings"

	vault "github.com/hashicorp/vault/api"
)

// RefPrefix marks a value that must be fetched from Vault.
const RefPrefix = "vault:"

// ErrBadRef is returned for references without a path or key.
var ErrBadRef = errors.New("vault reference must look like vault:<mount>/<path>#<key>")

// Client wraps the Vault API client.  Zero value is invalid.
type Client struct {
	api *vault.Client
}

// IsRef reports whether s is a Vault reference.
func IsRef(s string) bool { return strings.HasPrefix(s, RefPrefix) }

// New constructs a client from the environment.  Non-empty addr or token
// override VAULT_ADDR and VAULT_TOKEN.
func New(addr, token string) (*Client, error) {
	cfg := vault.DefaultConfig()
	if err := cfg.ReadEnvironment(); err != nil {
		return nil, fmt.Errorf("vault env cfg: %w", err)
	}
	if addr != "" {
		cfg.Address = addr
	}

	apiCli, err := vault.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("vault api: %w", err)
	}
	if token != "" {
		apiCli.SetToken(token)
	}
	return &Client{api: apiCli}, nil
}

// Resolve returns the secret behind ref, or ref itself when it is not a
// Vault reference.
func (c *Client) Resolve(ctx context.Context, ref string) (string, error) {
	if !IsRef(ref) {
		return ref, nil
	}
	secretPath, key, ok := strings.Cut(strings.TrimPrefix(ref, RefPrefix), "#")
	if !ok || secretPath == "" || key == "" {
		return "", ErrBadRef
	}
	return c.GetKV(ctx, secretPath, key)
}

// GetKV fetches a single string key from a KV-v2 secret.
func (c *Client) GetKV(ctx context.Context, secretPath, key string) (string, error) {
	mount, rel := splitMount(secretPath)
	if mount == "" || rel == "" {
		return "", ErrBadRef
	}

	sec, err := c.api.KVv2(mount).Get(ctx, rel)
	if err != nil {
		return "", fmt.Errorf("vault get %s: %w", secretPath, err)
	}

	raw, ok := sec.Data[key]
	if !ok {
		return "", fmt.Errorf("key %q not found in secret %q", key, secretPath)
	}
	sval, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("value at %s#%s is not a string", secretPath, key)
	}
	return sval, nil
}

func splitMount(p string) (mount, rel string) {
	mount, rel, _ = strings.Cut(strings.Trim(p, "/"), "/")
	return mount, rel
}
