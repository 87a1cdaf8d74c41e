package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/mnehpets/zabbixrpc/zabbix"
)

// unitCommands are added by files that need an optional entity unit.
var unitCommands []func(*cli) *cobra.Command

// cli carries the state shared by all commands of one invocation.
type cli struct {
	v      *viper.Viper
	log    zerolog.Logger
	closer io.Closer
}

func newRootCmd() *cobra.Command {
	c := &cli{v: viper.New(), log: zerolog.Nop()}

	root := &cobra.Command{
		Use:          "zabbixctl",
		Short:        "Command line client for the Zabbix API",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setupLogging(cmd.ErrOrStderr())
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.closer != nil {
				c.closer.Close()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.String("url", "", "API endpoint, e.g. https://zabbix.example.com/api_jsonrpc.php")
	flags.String("user", "", "user name for user.login")
	flags.String("password", "", "password for user.login")
	flags.String("token", "", "pre-issued API token")
	flags.String("api-version", "", `server API generation: "v6" or "v7" (default v7)`)
	flags.Bool("insecure", false, "skip TLS certificate verification")
	flags.Duration("timeout", 30*time.Second, "per-request timeout")
	flags.String("session-file", defaultSessionFile(), "where the sealed session is kept")
	flags.String("log-file", "", "also write JSON logs to this file, rotated")
	flags.BoolP("verbose", "v", false, "enable debug logging")
	flags.Bool("json-log", false, "write logs to stderr as JSON")

	c.v.SetEnvPrefix("ZABBIX")
	c.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.v.AutomaticEnv()
	c.v.BindPFlags(flags)
	c.v.BindEnv("url", "ZABBIX_API_URL", "ZABBIX_URL")
	c.v.BindEnv("user", "ZABBIX_API_USER", "ZABBIX_USER")
	c.v.BindEnv("password", "ZABBIX_API_PASSWORD", "ZABBIX_PASSWORD")
	c.v.BindEnv("token", "ZABBIX_API_TOKEN", "ZABBIX_TOKEN")
	c.v.BindEnv("session-key", "ZABBIX_SESSION_KEY")

	root.AddCommand(
		c.versionCmd(),
		c.loginCmd(),
		c.logoutCmd(),
		c.callCmd(),
	)
	for _, cmd := range unitCommands {
		root.AddCommand(cmd(c))
	}
	return root
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".zabbixctl-session"
	}
	return filepath.Join(dir, "zabbixctl", "session")
}

func (c *cli) setupLogging(stderr io.Writer) error {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	var console io.Writer = zerolog.ConsoleWriter{Out: stderr, TimeFormat: time.Kitchen}
	if c.v.GetBool("json-log") {
		console = stderr
	}
	out := console
	if path := c.v.GetString("log-file"); path != "" {
		file := &lumberjack.Logger{
			Filename:   path,
			MaxSize:    10,
			MaxBackups: 5,
			MaxAge:     28,
			Compress:   true,
		}
		c.closer = file
		out = zerolog.MultiLevelWriter(console, file)
	}

	level := zerolog.InfoLevel
	if c.v.GetBool("verbose") {
		level = zerolog.DebugLevel
	}
	c.log = zerolog.New(out).Level(level).With().Timestamp().Logger()
	return nil
}

func (c *cli) variant() (zabbix.Variant, error) {
	switch name := c.v.GetString("api-version"); name {
	case "":
		return zabbix.DefaultVariant, nil
	case "v6", "6", "6.0":
		return zabbix.V6, nil
	case "v7", "7", "7.0":
		return zabbix.V7, nil
	default:
		return zabbix.Variant{}, fmt.Errorf("unknown api-version %q", name)
	}
}

// newClient builds an unauthenticated client, or one holding the configured
// API token.
func (c *cli) newClient() (*zabbix.Client, error) {
	variant, err := c.variant()
	if err != nil {
		return nil, err
	}
	return zabbix.NewClient(zabbix.Config{
		URL:                c.v.GetString("url"),
		Username:           c.v.GetString("user"),
		Password:           c.v.GetString("password"),
		Token:              c.v.GetString("token"),
		Variant:            variant,
		Timeout:            c.v.GetDuration("timeout"),
		InsecureSkipVerify: c.v.GetBool("insecure"),
		UserAgent:          "zabbixctl",
		Logger:             &c.log,
	})
}
