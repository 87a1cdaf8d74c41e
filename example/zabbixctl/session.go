package main

import (
	"context"
	"errors"
	"io/fs"
	"time"

	"github.com/mnehpets/zabbixrpc/sessionseal"
	"github.com/mnehpets/zabbixrpc/zabbix"
)

// Sealed sessions older than sessionMaxAge are discarded without a round trip.
const sessionMaxAge = 24 * time.Hour

// store returns the sealed session store, or nil when no session key is
// configured.
func (c *cli) store() (*sessionseal.FileStore, error) {
	spec := c.v.GetString("session-key")
	if spec == "" {
		return nil, nil
	}
	keyID, keys, err := sessionseal.ParseKeys(spec)
	if err != nil {
		return nil, err
	}
	sealer, err := sessionseal.New(keyID, keys, sessionseal.WithMaxAge(sessionMaxAge))
	if err != nil {
		return nil, err
	}
	return &sessionseal.FileStore{Path: c.v.GetString("session-file"), Sealer: sealer}, nil
}

// save seals the client's current session, if a store is configured.
func (c *cli) save(client *zabbix.Client) error {
	store, err := c.store()
	if err != nil || store == nil {
		return err
	}
	err = store.Save(sessionseal.Snapshot{
		URL:      client.URL(),
		Username: c.v.GetString("user"),
		Token:    client.Token(),
		Variant:  client.Variant().Name(),
	})
	if err != nil {
		return err
	}
	c.log.Debug().Str("path", store.Path).Msg("session saved")
	return nil
}

// restore installs a previously sealed session. It reports whether one was
// found and usable.
func (c *cli) restore(client *zabbix.Client) bool {
	store, err := c.store()
	if err != nil {
		c.log.Warn().Err(err).Msg("session key unusable, ignoring saved session")
		return false
	}
	if store == nil {
		return false
	}
	snap, err := store.Load(client.URL())
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return false
	case err != nil:
		c.log.Debug().Err(err).Msg("saved session discarded")
		return false
	case snap.Variant != client.Variant().Name():
		c.log.Debug().Str("saved", snap.Variant).Msg("saved session is for another API version")
		return false
	}
	client.SetToken(snap.Token)
	c.log.Debug().Time("issued", snap.IssuedAt).Msg("session restored")
	return true
}

// connect returns a client ready for authenticated calls: it uses the
// configured API token, else a saved session, else logs in.
func (c *cli) connect(ctx context.Context) (*zabbix.Client, error) {
	client, err := c.newClient()
	if err != nil {
		return nil, err
	}
	if client.Authenticated() || c.restore(client) {
		return client, nil
	}
	if err := client.Authenticate(ctx); err != nil {
		return nil, err
	}
	if err := c.save(client); err != nil {
		c.log.Warn().Err(err).Msg("cannot save session")
	}
	return client, nil
}
