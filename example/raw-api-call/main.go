package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mnehpets/zabbixrpc/zabbix"
)

// problem is the subset of problem.get output this example prints.
type problem struct {
	EventID  string `json:"eventid"`
	Name     string `json:"name"`
	Severity string `json:"severity"`
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("No .env file found, using environment variables")
	}

	client, err := zabbix.NewClient(zabbix.Config{
		URL:      os.Getenv("ZABBIX_API_URL"),
		Username: os.Getenv("ZABBIX_API_USER"),
		Password: os.Getenv("ZABBIX_API_PASSWORD"),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	ctx := context.Background()

	raw, err := client.Call(ctx, "apiinfo.version", []string{})
	if err != nil {
		log.Fatal().Err(err).Msg("apiinfo.version failed")
	}
	fmt.Printf("apiinfo.version -> %s\n", raw)

	if err := client.Authenticate(ctx); err != nil {
		log.Fatal().Err(err).Msg("Login failed")
	}
	err = query(ctx, client, os.Stdout)
	if lerr := client.Logout(ctx); lerr != nil {
		log.Error().Err(lerr).Msg("Logout failed")
	}
	var rerr *zabbix.RemoteError
	switch {
	case errors.As(err, &rerr):
		log.Fatal().Int("code", rerr.Code).Str("data", rerr.Data).Msg(rerr.Message)
	case err != nil:
		log.Fatal().Err(err).Msg("Query failed")
	}
}

// query runs the session-bound calls and prints their results to w.
func query(ctx context.Context, client *zabbix.Client, w io.Writer) error {
	// Methods without a typed wrapper go through Call or CallInto.
	var problems []problem
	err := client.CallInto(ctx, "problem.get", map[string]any{
		"output":    []string{"eventid", "name", "severity"},
		"recent":    true,
		"sortfield": []string{"eventid"},
		"sortorder": "DESC",
		"limit":     10,
	}, &problems)
	if err != nil {
		return fmt.Errorf("problem.get: %w", err)
	}
	for _, p := range problems {
		fmt.Fprintf(w, "%s\t%s\t%s\n", p.EventID, p.Severity, p.Name)
	}

	raw, err := client.Call(ctx, "host.get", map[string]any{"countOutput": true})
	if err != nil {
		return fmt.Errorf("host.get: %w", err)
	}
	var count string
	if err := json.Unmarshal(raw, &count); err == nil {
		fmt.Fprintf(w, "hosts: %s\n", count)
	}
	return nil
}
