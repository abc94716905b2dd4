package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/itchyny/gojq"
	"github.com/spf13/cobra"

	"github.com/forcebit/contextio-go/pkg/response"
)

// outputFlags select what is printed from an envelope.
type outputFlags struct {
	property string
	jq       string
	raw      bool
}

func (o *outputFlags) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&o.property, "property", "", "Print one field by dotted path, e.g. addresses.to.0.email")
	f.StringVar(&o.jq, "jq", "", "Filter the response through a jq expression")
	f.BoolVar(&o.raw, "raw", false, "Print the response body unmodified")
}

// printEnvelope writes env to a.out and turns an error envelope into an
// error after printing its body.
func (a *app) printEnvelope(ctx context.Context, env *response.Envelope, o outputFlags, op string) error {
	if env.RequestHeaders() != nil {
		printHeaders(a.errOut, "> ", env.RequestHeaders())
		printHeaders(a.errOut, "< ", env.ResponseHeaders())
	}

	if env.HasError() || o.raw || env.DecodeFailed() {
		if _, err := a.out.Write(env.Body()); err != nil {
			return err
		}
		if len(env.Body()) > 0 {
			fmt.Fprintln(a.out)
		}
		return env.Err(op)
	}

	switch {
	case o.property != "":
		return writeJSON(a.out, env.DataProperty(o.property))
	case o.jq != "":
		return runJQ(ctx, a.out, o.jq, env.Data())
	default:
		return writeJSON(a.out, env.Data())
	}
}

func printHeaders(w io.Writer, prefix string, h *response.Headers) {
	for _, name := range h.Names() {
		for _, v := range h.Values(name) {
			if name == response.RequestLine || name == response.StatusLine {
				fmt.Fprintf(w, "%s%s\n", prefix, v)
				continue
			}
			fmt.Fprintf(w, "%s%s: %s\n", prefix, name, v)
		}
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// runJQ evaluates expr against data and prints every result.
func runJQ(ctx context.Context, w io.Writer, expr string, data any) error {
	query, err := gojq.Parse(expr)
	if err != nil {
		return fmt.Errorf("invalid jq expression: %w", err)
	}
	code, err := gojq.Compile(query)
	if err != nil {
		return fmt.Errorf("invalid jq expression: %w", err)
	}

	iter := code.RunWithContext(ctx, data)
	for {
		v, ok := iter.Next()
		if !ok {
			return nil
		}
		if err, isErr := v.(error); isErr {
			if _, halt := err.(*gojq.HaltError); halt {
				return nil
			}
			return fmt.Errorf("jq: %w", err)
		}
		if s, isStr := v.(string); isStr {
			if _, err := fmt.Fprintln(w, s); err != nil {
				return err
			}
			continue
		}
		if err := writeJSON(w, v); err != nil {
			return err
		}
	}
}
