// Package cli implements the contextio command line tool.
package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	contextiogo "github.com/forcebit/contextio-go"
	"github.com/forcebit/contextio-go/internal/logging"
	"github.com/forcebit/contextio-go/pkg/client"
	"github.com/forcebit/contextio-go/pkg/config"
	"github.com/forcebit/contextio-go/pkg/params"
)

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	configPath  string
	logLevel    string
	endpoint    string
	noSSL       bool
	insecure    bool
	queryAuth   bool
	saveHeaders bool
	method      string
}

// app carries the state of one invocation.
type app struct {
	out    io.Writer
	errOut io.Writer
	flags  globalFlags

	cfg    *config.Config
	log    zerolog.Logger
	closer io.Closer
}

// NewRootCommand returns the contextio command tree writing to out and
// errOut.
func NewRootCommand(out, errOut io.Writer) *cobra.Command {
	a := &app{out: out, errOut: errOut, log: zerolog.Nop()}

	root := &cobra.Command{
		Use:   "contextio",
		Short: "Signed calls to the Context.IO 2.0 API",
		Long: `contextio signs requests with OAuth 1.0a and sends them to the Context.IO API.

Credentials come from --config, then CONTEXTIO_* environment variables.
Parameters are given as name=value; name=@path uploads a file (POST only).

Examples:
  contextio accounts limit=5
  contextio get messages --account 4f0a limit=10 --jq '.[].subject'
  contextio post messages --account 4f0a dst_folder=INBOX message=@mail.eml
  contextio sign GET https://api.context.io/2.0/accounts`,
		Version:       contextiogo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if a.closer != nil {
				return a.closer.Close()
			}
			return nil
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	pf := root.PersistentFlags()
	pf.StringVarP(&a.flags.configPath, "config", "c", "", "YAML configuration file")
	pf.StringVar(&a.flags.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	pf.StringVar(&a.flags.endpoint, "endpoint", "", "API host, overrides the configuration")
	pf.BoolVar(&a.flags.noSSL, "no-ssl", false, "Use plain HTTP")
	pf.BoolVar(&a.flags.insecure, "insecure", false, "Skip TLS certificate verification")
	pf.BoolVar(&a.flags.queryAuth, "query-auth", false, "Send OAuth parameters in the query string instead of the Authorization header")
	pf.BoolVar(&a.flags.saveHeaders, "save-headers", false, "Capture and print request and response headers")
	pf.StringVar(&a.flags.method, "signature-method", "", "OAuth signature method (HMAC-SHA1, RSA-SHA1, PLAINTEXT)")

	root.AddCommand(
		newSignCommand(a),
		newRequestCommand(a, "GET"),
		newRequestCommand(a, "POST"),
		newRequestCommand(a, "PUT"),
		newRequestCommand(a, "DELETE"),
		newBatchCommand(a),
		newDownloadCommand(a),
		newAccountsCommand(a),
		newDiscoverCommand(a),
		newVersionCommand(a),
	)
	return root
}

// setup resolves configuration and logging. Flags set on the command line
// win over the file and the environment.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.flags.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	override := func(name string, apply func()) {
		if flags.Changed(name) {
			apply()
			cfg.Sources[name] = config.SourceFlag
		}
	}
	override("log-level", func() { cfg.Log.Level = a.flags.logLevel })
	override("endpoint", func() { cfg.Endpoint = a.flags.endpoint })
	override("no-ssl", func() { cfg.UseSSL = !a.flags.noSSL })
	override("insecure", func() { cfg.InsecureSkipTLS = a.flags.insecure })
	override("query-auth", func() { cfg.AuthHeaders = !a.flags.queryAuth })
	override("save-headers", func() { cfg.SaveHeaders = a.flags.saveHeaders })
	override("signature-method", func() { cfg.SignatureMethod = a.flags.method })

	log, closer, err := logging.New(logging.Options{
		Level:   cfg.Log.Level,
		Writers: cfg.Log.Writer,
		File:    cfg.Log.File,
		Console: a.errOut,
	})
	if err != nil {
		return err
	}
	a.cfg, a.log, a.closer = cfg, log, closer
	a.log.Debug().Str("config", cfg.String()).Msg("configuration resolved")
	return nil
}

func (a *app) client() (*client.Client, error) {
	if err := a.cfg.Validate(); err != nil {
		return nil, err
	}
	cc, err := a.cfg.ClientConfig()
	if err != nil {
		return nil, err
	}
	opts := append(a.cfg.ClientOptions(), client.WithLogger(a.log))
	return client.New(cc, opts...)
}

// parseParams turns name=value arguments into a Set. A value starting
// with "@" names a file to upload.
func parseParams(args []string) (*params.Set, error) {
	set := params.New()
	for _, arg := range args {
		name, value, ok := strings.Cut(arg, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("parameter %q must be name=value", arg)
		}
		set.AddValue(name, params.ParseLegacy(value))
	}
	return set, nil
}

func newVersionCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			info := contextiogo.GetVersionInfo()
			_, err := fmt.Fprintf(a.out, "contextio %s (OAuth %s, API %s)\n", info.LibraryVersion, info.OAuthVersion, info.APIVersion)
			return err
		},
	}
}
