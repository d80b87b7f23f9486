package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mr-tron/base58"
	"github.com/spf13/cobra"

	"walletbridge/internal/app"
	"walletbridge/internal/domain"
)

// sessionCmd keeps one process alive for the whole exchange. The key pair and
// the state machine are memory-only, so the process that begins the handshake
// must also consume the wallet's redirects: the command begins the connect,
// then reads lines from stdin until the session ends. On a mobile build the
// OS delivers the redirects; here the user pastes them.
func sessionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "session",
		Short: "Run an interactive wallet session",
		Long: `Run an interactive wallet session.

Begins the connect handshake, then reads lines from stdin:
  <url>                 an inbound wallet redirect
  sign <base58-tx>      ask the wallet to sign a serialized transaction
  sign-message <text>   ask the wallet to sign a message
  status                show the connection state
  disconnect            end the session
  quit                  leave without notifying the wallet`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSession(cmd.Context(), wire, os.Stdin, os.Stdout)
		},
	}
}

func runSession(ctx context.Context, w *app.Wire, in io.Reader, out io.Writer) error {
	if err := w.Establisher.BeginConnect(ctx); err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	fmt.Fprintln(out, "Connect request dispatched; paste the wallet's redirect URL.")

	scanner := bufio.NewScanner(in)
	// Redirect URLs carry base58 transaction payloads well past the default
	// token size.
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":

		case strings.Contains(line, "://"):
			if done, err := handleInbound(ctx, w, out, line); done {
				return err
			}

		case line == "quit":
			return nil

		case line == "status":
			fmt.Fprintf(out, "State: %s\n", w.Establisher.State())

		case line == "disconnect":
			if err := w.Responder.Disconnect(ctx); err != nil {
				fmt.Fprintf(out, "Disconnect: %v\n", err)
			}
			fmt.Fprintln(out, "Disconnected.")
			return nil

		case strings.HasPrefix(line, "sign-message "):
			msg := strings.TrimPrefix(line, "sign-message ")
			err := w.Responder.SignMessage(ctx, []byte(msg), func(signature string, err error) {
				if err != nil {
					fmt.Fprintf(out, "Message signing failed: %v\n", err)
					return
				}
				fmt.Fprintf(out, "Message signature: %s\n", signature)
			})
			if err != nil {
				fmt.Fprintf(out, "sign-message: %v\n", err)
				continue
			}
			fmt.Fprintln(out, "Message sign request dispatched.")

		case strings.HasPrefix(line, "sign "):
			tx, err := base58.Decode(strings.TrimPrefix(line, "sign "))
			if err != nil {
				fmt.Fprintf(out, "Transaction is not base58: %v\n", err)
				continue
			}
			err = w.Responder.SignTransaction(ctx, tx, func(signature string, err error) {
				if err != nil {
					fmt.Fprintf(out, "Sign request failed: %v\n", err)
					return
				}
				fmt.Fprintf(out, "Transaction confirmed: %s\n", signature)
			})
			if err != nil {
				fmt.Fprintf(out, "sign: %v\n", err)
				continue
			}
			fmt.Fprintln(out, "Sign request dispatched.")

		default:
			fmt.Fprintf(out, "Unknown input %q\n", line)
		}
	}
	return scanner.Err()
}

// handleInbound routes one redirect URL. It reports done when the session is
// over: the wallet disconnected, or it declined with nothing left to resume.
func handleInbound(ctx context.Context, w *app.Wire, out io.Writer, rawURL string) (bool, error) {
	err := w.HandleRedirect(ctx, rawURL)
	if err != nil {
		fmt.Fprintf(out, "Redirect rejected: %v\n", err)
		var perr *domain.PeerError
		if errors.As(err, &perr) && w.Establisher.State() == domain.StateIdle {
			return true, err
		}
		return false, nil
	}
	if w.Establisher.State() == domain.StateIdle {
		fmt.Fprintln(out, "Session ended.")
		return true, nil
	}
	fmt.Fprintf(out, "State: %s\n", w.Establisher.State())
	return false, nil
}
