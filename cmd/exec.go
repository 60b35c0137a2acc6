package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/frahmantamala/procurement-portal/internal/command"
	"github.com/frahmantamala/procurement-portal/internal/notify"
	"github.com/spf13/cobra"
)

var execCmd = &cobra.Command{
	Use:   "exec <command> [key=value...]",
	Short: "Dispatch one command with form fields",
	Long: `Dispatch a command from the command table. Values starting with [ or { are
decoded as JSON, so request items can be passed as items='[{"name":"Pens","qty":2}]'.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		payload, err := parsePayload(args[1:])
		if err != nil {
			return err
		}

		deps, err := initializeDependencies(ctx)
		if err != nil {
			return err
		}
		defer deps.Close()

		p := deps.Portal
		dispatchErr := p.Dispatch(ctx, args[0], payload)

		out := struct {
			Command       string                `json:"command"`
			Outcome       string                `json:"outcome"`
			Fragment      string                `json:"fragment"`
			Notifications []notify.Notification `json:"notifications"`
		}{
			Command:       args[0],
			Outcome:       command.Outcome(dispatchErr),
			Fragment:      p.Router.Current(),
			Notifications: p.Inbox.Drain(),
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			return err
		}
		return dispatchErr
	},
}

// parsePayload turns key=value arguments into a command payload.
func parsePayload(args []string) (command.Payload, error) {
	payload := command.Payload{}
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("argument %q is not key=value", arg)
		}

		trimmed := strings.TrimSpace(value)
		if strings.HasPrefix(trimmed, "[") || strings.HasPrefix(trimmed, "{") {
			var decoded any
			if err := json.Unmarshal([]byte(trimmed), &decoded); err != nil {
				return nil, fmt.Errorf("argument %q: %w", key, err)
			}
			payload[key] = decoded
			continue
		}
		payload[key] = value
	}
	return payload, nil
}
