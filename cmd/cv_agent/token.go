package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var tokenEmail string

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue an API bearer token for an email",
	Long:  `Sign a JWT for --email with JWT_SECRET. The server only accepts tokens whose subject owns the records being accessed.`,
	RunE:  runToken,
}

func init() {
	tokenCmd.Flags().StringVar(&tokenEmail, "email", "", "Email the token is issued for (required)")
	_ = tokenCmd.MarkFlagRequired("email")
	rootCmd.AddCommand(tokenCmd)
}

func runToken(cmd *cobra.Command, _ []string) error {
	auth, err := jwtService(os.Getenv)
	if err != nil {
		return err
	}
	if auth == nil {
		return errors.New("JWT_SECRET environment variable is required")
	}

	token, err := auth.GenerateToken(tokenEmail)
	if err != nil {
		return errors.Wrap(err, "failed to issue token")
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
	return err
}
