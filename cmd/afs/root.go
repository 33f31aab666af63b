package main

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ajitpratap0/afs-connector/pkg/afserrors"
	"github.com/ajitpratap0/afs-connector/pkg/config"
	"github.com/ajitpratap0/afs-connector/pkg/connector"
	jsonpool "github.com/ajitpratap0/afs-connector/pkg/json"
	"github.com/ajitpratap0/afs-connector/pkg/logger"
	"github.com/ajitpratap0/afs-connector/pkg/observability"
	"github.com/ajitpratap0/afs-connector/pkg/reply"
	"github.com/ajitpratap0/afs-connector/pkg/version"
)

// cli holds the state shared by every command.
type cli struct {
	v *viper.Viper
}

func newRootCommand() *cobra.Command {
	c := &cli{v: viper.New()}
	c.v.SetEnvPrefix("AFS")
	c.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.v.AutomaticEnv()

	root := &cobra.Command{
		Use:   "afs",
		Short: "Query AFS web services",
		Long: `afs sends queries to the AFS search platform and prints the JSON reply.

Settings come from a YAML file (--config), then AFS_* environment variables,
then flags. Example:

  afs search --host afs.example.com --service 42 --feed catalog shoes`,
		SilenceUsage: true,
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "Path to a YAML configuration file")
	flags.String("host", "", "AFS host, optionally with a port")
	flags.String("service", "", "AFS service id")
	flags.String("status", "", "AFS service status (stable, rc, alpha, beta, sandbox)")
	flags.String("scheme", "", "URL scheme (http or https)")
	flags.Duration("timeout", 0, "Request timeout (0 = no limit)")
	flags.String("log-level", "", "Log level (debug, info, warn, error)")
	flags.Bool("trace", false, "Print OpenTelemetry spans on stderr")
	flags.String("ip", "", "End user IP address")
	flags.String("user-agent", "", "End user agent")
	flags.String("forwarded-for", "", "X-Forwarded-For chain received from upstream proxies")
	flags.String("request-id", "", "Request id attached to logs (generated when empty)")
	flags.StringArray("param", nil, "Extra query parameter as key=value (repeatable)")
	_ = c.v.BindPFlags(flags)

	root.AddCommand(
		c.searchCommand(),
		c.acpCommand(),
		versionCommand(),
	)
	return root
}

func versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "afs v%s (%s)\n", version.Version, version.APIVersion())
			fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
			fmt.Fprintf(out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}

// loadConfig merges the configuration file, the environment and the flags.
func (c *cli) loadConfig() (*config.File, error) {
	cfg := config.Default()
	if path := c.v.GetString("config"); path != "" {
		if err := config.Load(path, cfg); err != nil {
			return nil, err
		}
	}

	if c.v.IsSet("host") {
		cfg.Connector.Host = c.v.GetString("host")
	}
	if c.v.IsSet("service") {
		cfg.Connector.Service.ID = c.v.GetString("service")
	}
	if c.v.IsSet("status") {
		cfg.Connector.Service.Status = connector.ServiceStatus(c.v.GetString("status"))
	}
	if c.v.IsSet("scheme") {
		cfg.Connector.Scheme = c.v.GetString("scheme")
	}
	if c.v.IsSet("timeout") {
		cfg.Connector.HTTP.RequestTimeout = c.v.GetDuration("timeout")
	}
	if c.v.IsSet("log-level") {
		cfg.Logging.Level = c.v.GetString("log-level")
	}
	if c.v.GetBool("trace") {
		cfg.Tracing.Enabled = true
	}

	cfg.Connector.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *cli) caller() connector.Caller {
	return connector.Caller{
		IP:           c.v.GetString("ip"),
		UserAgent:    c.v.GetString("user-agent"),
		ForwardedFor: c.v.GetString("forwarded-for"),
	}
}

// extraParams adds the --param key=value pairs to params. Values may
// contain commas, so the flag is read from cobra rather than viper.
func extraParams(cmd *cobra.Command, params *connector.Parameters) error {
	pairs, err := cmd.Flags().GetStringArray("param")
	if err != nil {
		return err
	}
	for _, kv := range pairs {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			return afserrors.Newf(afserrors.ErrorTypeValidation, "invalid parameter %q, expected key=value", kv).
				WithDetail("flag", "param")
		}
		params.Add(key, value)
	}
	return nil
}

// run prepares logging and tracing, then calls send with the loaded
// configuration.
func (c *cli) run(cmd *cobra.Command, send func(ctx context.Context, cfg *config.File, log *zap.Logger) (interface{}, error)) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	if err := logger.Init(cfg.Logging); err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	requestID := c.v.GetString("request-id")
	if requestID == "" {
		requestID = uuid.NewString()
	}
	ctx = logger.WithRequestID(ctx, requestID)
	log := logger.WithContext(ctx, nil).With(zap.String("component", "afs-cli"))

	tracing, err := observability.InitTracing(ctx, cfg.Tracing, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracing.Shutdown(shutdownCtx); err != nil {
			log.Warn("failed to flush traces", zap.Error(err))
		}
	}()

	r, err := send(ctx, cfg, log)
	if err != nil {
		return err
	}

	out, err := jsonpool.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode reply: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))

	if messages := reply.ErrorMessages(r); len(messages) > 0 {
		return fmt.Errorf("AFS replied with an error: %s", strings.Join(messages, "; "))
	}
	return nil
}
