package main

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mnehpets/zabbixrpc/sessionseal"
	"github.com/mnehpets/zabbixrpc/zabbix"
)

func (c *cli) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the server API version (apiinfo.version)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.newClient()
			if err != nil {
				return err
			}
			version, err := client.APIVersion(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), version)
			return nil
		},
	}
}

func (c *cli) loginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Log in and save the session when a session key is configured",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.newClient()
			if err != nil {
				return err
			}
			if err := client.Authenticate(cmd.Context()); err != nil {
				return err
			}
			if err := c.save(client); err != nil {
				return err
			}
			c.log.Info().Str("user", c.v.GetString("user")).Msg("Logged in")
			return nil
		},
	}
}

func (c *cli) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the saved session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.newClient()
			if err != nil {
				return err
			}
			if !c.restore(client) {
				c.log.Info().Msg("No saved session")
				return nil
			}
			logoutErr := client.Logout(cmd.Context())
			var store *sessionseal.FileStore
			if store, err = c.store(); err == nil && store != nil {
				err = store.Remove()
			}
			if logoutErr != nil {
				return logoutErr
			}
			if err != nil {
				return err
			}
			c.log.Info().Msg("Logged out")
			return nil
		},
	}
}

func (c *cli) callCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "call <method> [params-json]",
		Short: "Call any API method and print the raw result",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var params any
			if len(args) == 2 {
				var raw json.RawMessage
				if err := json.Unmarshal([]byte(args[1]), &raw); err != nil {
					return fmt.Errorf("params: %w", err)
				}
				params = raw
			}

			var client *zabbix.Client
			var err error
			switch args[0] {
			case "apiinfo.version", "user.login", "user.checkAuthentication":
				client, err = c.newClient()
			default:
				client, err = c.connect(cmd.Context())
			}
			if err != nil {
				return err
			}
			result, err := client.Call(cmd.Context(), args[0], params)
			if err != nil {
				return err
			}
			var out bytes.Buffer
			if err := json.Indent(&out, result, "", "  "); err != nil {
				return err
			}
			out.WriteByte('\n')
			_, err = out.WriteTo(cmd.OutOrStdout())
			return err
		},
	}
}
