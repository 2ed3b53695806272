package auth

import (
	"fmt"
	"os"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var AuthCmd = &cobra.Command{
	Use:   "auth",
	Short: "Account management",
	Long:  `Register, log in and log out of a HeyBuddy server.`,
}

func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(password), nil
}

func confirmPassword() (string, error) {
	password, err := readPassword("Password: ")
	if err != nil {
		return "", err
	}
	confirm, err := readPassword("Repeat password: ")
	if err != nil {
		return "", err
	}
	if password != confirm {
		return "", fmt.Errorf("passwords do not match")
	}
	if len(password) < 8 {
		return "", fmt.Errorf("password must be at least 8 characters")
	}
	return password, nil
}

func requireTerminal() error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return fmt.Errorf("interactive terminal required")
	}
	return nil
}
