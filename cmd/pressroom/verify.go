package main

import (
	"errors"
	"fmt"

	"github.com/abduss/pressroom/internal/auth"
	"github.com/spf13/cobra"
)

func newVerifyCmd(opts *clientOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Check the admin password against a running server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := opts.client().Verify(cmd.Context(), opts.password)
			switch {
			case err == nil:
			case errors.Is(err, auth.ErrUnauthorized):
				return fmt.Errorf("password rejected")
			default:
				return err
			}
			if opts.jsonOutput {
				return writeJSON(map[string]bool{"success": true})
			}
			return writePlain("password accepted\n")
		},
	}
}
