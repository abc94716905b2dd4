package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/forcebit/contextio-go/pkg/oauth"
	"github.com/forcebit/contextio-go/pkg/signing"
)

func newSignCommand(a *app) *cobra.Command {
	var (
		nonce     string
		timestamp int64
		realm     string
	)
	cmd := &cobra.Command{
		Use:   "sign <METHOD> <URL> [name=value ...]",
		Short: "Sign a request offline and print the base string, header and URL",
		Long: `sign computes an OAuth 1.0a signature without sending anything. It is
meant for debugging signature mismatches against another implementation.
Fix --nonce and --timestamp to get reproducible output.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.cfg.Validate(); err != nil {
				return err
			}
			cc, err := a.cfg.ClientConfig()
			if err != nil {
				return err
			}
			m, err := signing.Get(a.cfg.SignatureMethod)
			if err != nil {
				return err
			}
			set, err := parseParams(args[2:])
			if err != nil {
				return err
			}

			creds := oauth.Credentials{ConsumerKey: cc.AccessKey, ConsumerSecret: cc.SecretKey}
			if a.cfg.Token.Key != "" {
				creds.Token = &oauth.Token{Key: a.cfg.Token.Key, Secret: a.cfg.Token.Secret}
			}
			req, err := oauth.NewRequest(args[0], args[1], set, creds)
			if err != nil {
				return err
			}

			opts := []oauth.SignOption{oauth.WithNonce(nonce), oauth.WithRealm(realm)}
			if timestamp > 0 {
				opts = append(opts, oauth.WithClock(func() time.Time { return time.Unix(timestamp, 0) }))
			}
			if err := req.Sign(m, opts...); err != nil {
				return err
			}

			header, err := req.AuthorizationHeader()
			if err != nil {
				return err
			}
			signedURL, err := req.URL()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(a.out, "Base string:\n  %s\nAuthorization:\n  %s\nSigned URL:\n  %s\n",
				req.BaseString(), header, signedURL)
			return err
		},
	}
	cmd.Flags().StringVar(&nonce, "nonce", "", "Use this oauth_nonce instead of a random one")
	cmd.Flags().Int64Var(&timestamp, "timestamp", 0, "Use this oauth_timestamp (Unix seconds)")
	cmd.Flags().StringVar(&realm, "realm", "", "Realm to put in the Authorization header")
	return cmd
}
