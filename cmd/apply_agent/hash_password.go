package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mathieu/apply-pilot/internal/config"
)

var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password [password]",
	Short: "Hash the dashboard password for ADMIN_PASSWORD_HASH",
	Long: `Print the bcrypt hash of a password, suitable as the ADMIN_PASSWORD_HASH
environment variable. With no argument the password is read from stdin,
which keeps it out of the shell history.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHashPassword,
}

func init() {
	rootCmd.AddCommand(hashPasswordCmd)
}

func runHashPassword(_ *cobra.Command, args []string) error {
	pwCfg, err := config.NewPasswordConfig()
	if err != nil {
		return err
	}

	var password string
	if len(args) == 1 {
		password = args[0]
	} else {
		fmt.Fprint(os.Stderr, "Password: ")
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("failed to read password: %w", err)
		}
		password = strings.TrimRight(line, "\r\n")
	}
	if password == "" {
		return fmt.Errorf("password cannot be empty")
	}

	hash, err := pwCfg.HashPassword(password)
	if err != nil {
		return err
	}

	fmt.Fprintln(os.Stdout, hash)
	fmt.Fprintln(os.Stderr, "Set this as ADMIN_PASSWORD_HASH in your environment or .env file.")
	return nil
}
