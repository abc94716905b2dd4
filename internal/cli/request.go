package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/forcebit/contextio-go/pkg/client"
	"github.com/forcebit/contextio-go/pkg/contextio"
)

func newRequestCommand(a *app, method string) *cobra.Command {
	var (
		account string
		out     outputFlags
	)
	cmd := &cobra.Command{
		Use:   strings.ToLower(method) + " <path> [name=value ...]",
		Short: "Send a signed " + method + " request",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if account != "" {
				if err := contextio.ValidateAccount(account); err != nil {
					return err
				}
			}
			set, err := parseParams(args[1:])
			if err != nil {
				return err
			}
			c, err := a.client()
			if err != nil {
				return err
			}
			env, err := c.Execute(cmd.Context(), client.Call{Method: method, Account: account, Path: args[0], Params: set})
			if err != nil {
				return err
			}
			return a.printEnvelope(cmd.Context(), env, out, method+" "+client.ComposePath(account, args[0]))
		},
	}
	cmd.Flags().StringVarP(&account, "account", "a", "", "Account id the path is relative to")
	out.register(cmd)
	return cmd
}

func newBatchCommand(a *app) *cobra.Command {
	var (
		accounts []string
		out      outputFlags
	)
	cmd := &cobra.Command{
		Use:   "batch <path> [name=value ...]",
		Short: "GET the same path for several accounts",
		Long: `batch issues one GET per account, one after the other, and prints the
responses keyed by account. The first failing account aborts the batch and
nothing is printed for the accounts that already succeeded.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, acc := range accounts {
				if err := contextio.ValidateAccount(acc); err != nil {
					return err
				}
			}
			set, err := parseParams(args[1:])
			if err != nil {
				return err
			}
			c, err := a.client()
			if err != nil {
				return err
			}
			results, err := c.GetBatch(cmd.Context(), accounts, args[0], set)
			if err != nil {
				return err
			}

			merged := make(map[string]any, len(results))
			for acc, env := range results {
				switch {
				case out.property != "":
					merged[acc] = env.DataProperty(out.property)
				default:
					merged[acc] = env.Data()
				}
			}
			if out.jq != "" {
				return runJQ(cmd.Context(), a.out, out.jq, merged)
			}
			return writeJSON(a.out, merged)
		},
	}
	cmd.Flags().StringSliceVar(&accounts, "accounts", nil, "Comma-separated account ids")
	_ = cmd.MarkFlagRequired("accounts")
	cmd.Flags().StringVar(&out.property, "property", "", "Print one field per account by dotted path")
	cmd.Flags().StringVar(&out.jq, "jq", "", "Filter the merged result through a jq expression")
	return cmd
}

func newDownloadCommand(a *app) *cobra.Command {
	var (
		account string
		output  string
	)
	cmd := &cobra.Command{
		Use:   "download <path> [name=value ...]",
		Short: "Stream a binary resource, such as files/<id>/content, to a file or stdout",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if account != "" {
				if err := contextio.ValidateAccount(account); err != nil {
					return err
				}
			}
			set, err := parseParams(args[1:])
			if err != nil {
				return err
			}
			c, err := a.client()
			if err != nil {
				return err
			}

			var w io.Writer = a.out
			discard := func() {}
			if output != "" && output != "-" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
				discard = func() {
					_ = f.Close()
					_ = os.Remove(output)
				}
			}

			n, env, err := c.Download(cmd.Context(), account, args[0], set, w)
			if err != nil {
				discard()
				return err
			}
			if env != nil {
				discard()
				return env.Err("GET " + client.ComposePath(account, args[0]))
			}
			a.log.Info().Int64("bytes", n).Str("output", output).Msg("download complete")
			return nil
		},
	}
	cmd.Flags().StringVarP(&account, "account", "a", "", "Account id the path is relative to")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Destination file (default stdout)")
	return cmd
}

func newAccountsCommand(a *app) *cobra.Command {
	var out outputFlags
	cmd := &cobra.Command{
		Use:   "accounts [name=value ...]",
		Short: "List accounts (limit, offset, email, status, status_ok)",
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := parseParams(args)
			if err != nil {
				return err
			}
			c, err := a.client()
			if err != nil {
				return err
			}
			env, err := contextio.New(c).ListAccounts(cmd.Context(), set)
			if env == nil {
				return err
			}
			return a.printEnvelope(cmd.Context(), env, out, "GET accounts")
		},
	}
	out.register(cmd)
	return cmd
}

func newDiscoverCommand(a *app) *cobra.Command {
	var out outputFlags
	cmd := &cobra.Command{
		Use:   "discover <email>",
		Short: "Look up IMAP settings for an email address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			env, err := contextio.New(c).Discovery(cmd.Context(), args[0])
			if env == nil {
				return err
			}
			return a.printEnvelope(cmd.Context(), env, out, fmt.Sprintf("GET discovery (%s)", args[0]))
		},
	}
	out.register(cmd)
	return cmd
}
