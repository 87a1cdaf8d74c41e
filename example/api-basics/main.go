//go:build !zabbix_nohost

package main

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mnehpets/zabbixrpc/zabbix"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("No .env file found, using environment variables")
	}

	url := os.Getenv("ZABBIX_API_URL")
	user := os.Getenv("ZABBIX_API_USER")
	password := os.Getenv("ZABBIX_API_PASSWORD")
	if url == "" || user == "" || password == "" {
		log.Fatal().Msg("ZABBIX_API_URL, ZABBIX_API_USER and ZABBIX_API_PASSWORD must be set")
	}

	client, err := zabbix.NewClient(zabbix.Config{
		URL:      url,
		Username: user,
		Password: password,
		Timeout:  10 * time.Second,
		Logger:   &log.Logger,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	ctx := context.Background()

	// apiinfo.version needs no session.
	version, err := client.APIVersion(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Cannot reach API")
	}
	log.Info().Str("version", version).Str("variant", client.Variant().Name()).Msg("Connected")

	if err := client.Authenticate(ctx); err != nil {
		log.Fatal().Err(err).Msg("Login failed")
	}
	defer func() {
		if err := client.Logout(ctx); err != nil {
			log.Error().Err(err).Msg("Logout failed")
		}
	}()

	groups, err := client.GetHostGroups(ctx, zabbix.HostGroupGetParams{
		GetParams: zabbix.GetParams{Output: zabbix.OutputExtend, SortField: []string{"name"}},
	})
	if err != nil {
		log.Error().Err(err).Msg("hostgroup.get failed")
		return
	}
	for _, g := range groups {
		log.Info().Str("groupid", g.GroupID).Str("name", g.Name).Msg("Host group")
	}
}
