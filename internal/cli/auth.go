package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage authentication",
	Long: `Manage authentication with the daygrid server.

While logged out, todos and tags stay on this machine. While logged in,
they live in your account on the server instead.`,
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Login to the daygrid server",
	RunE:  runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Logout and return to guest mode",
	RunE:  runLogout,
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a new account on the daygrid server",
	RunE:  runRegister,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show who is logged in",
	RunE:  runStatus,
}

func init() {
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(registerCmd)
	authCmd.AddCommand(statusCmd)

	loginCmd.Flags().String("provider", "", "OAuth provider name (e.g. kakao)")
	loginCmd.Flags().String("access-token", "", "OAuth access token to exchange")
}

func runLogin(cmd *cobra.Command, args []string) error {
	env, err := bootstrap()
	if err != nil {
		return err
	}
	defer env.Close()

	// OAuth token exchange path
	provider, _ := cmd.Flags().GetString("provider")
	accessToken, _ := cmd.Flags().GetString("access-token")

	if provider != "" {
		if accessToken == "" {
			reader := bufio.NewReader(os.Stdin)
			fmt.Printf("Access token for %s: ", provider)
			accessToken, _ = reader.ReadString('\n')
			accessToken = strings.TrimSpace(accessToken)
		}
		if accessToken == "" {
			return fmt.Errorf("access token required")
		}

		fmt.Printf("🔄 Exchanging %s token...\n", provider)
		if err := env.Auth.LoginOAuth(provider, accessToken); err != nil {
			return err
		}
		env.State.Flush()
		fmt.Printf("✅ Logged in as %s!\n", env.Session.User().Nickname)
		return nil
	}

	// Normal password login
	reader := bufio.NewReader(os.Stdin)

	fmt.Print("Username: ")
	username, _ := reader.ReadString('\n')
	username = strings.TrimSpace(username)

	fmt.Print("Password: ")
	passwordBytes, _ := term.ReadPassword(int(syscall.Stdin))
	password := string(passwordBytes)
	fmt.Println()

	fmt.Println("🔄 Logging in...")
	if err := env.Auth.Login(username, password); err != nil {
		return err
	}

	// Wait for the account load so the next command reads fresh state.
	env.State.Flush()
	fmt.Printf("✅ Logged in as %s!\n", env.Session.User().Nickname)
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	env, err := bootstrap()
	if err != nil {
		return err
	}
	defer env.Close()

	if !env.Auth.IsLoggedIn() {
		fmt.Println("Not logged in.")
		return nil
	}

	fmt.Println("🔄 Logging out...")
	if err := env.Auth.Logout(); err != nil {
		return err
	}

	fmt.Println("✅ Logged out. Back to guest mode.")
	return nil
}

func runRegister(cmd *cobra.Command, args []string) error {
	env, err := bootstrap()
	if err != nil {
		return err
	}
	defer env.Close()

	reader := bufio.NewReader(os.Stdin)

	fmt.Print("Username: ")
	username, _ := reader.ReadString('\n')
	username = strings.TrimSpace(username)

	fmt.Print("Email: ")
	email, _ := reader.ReadString('\n')
	email = strings.TrimSpace(email)

	fmt.Print("Password: ")
	passwordBytes, _ := term.ReadPassword(int(syscall.Stdin))
	password := string(passwordBytes)
	fmt.Println()

	fmt.Print("Confirm Password: ")
	confirmBytes, _ := term.ReadPassword(int(syscall.Stdin))
	confirm := string(confirmBytes)
	fmt.Println()

	if password != confirm {
		return fmt.Errorf("passwords do not match")
	}

	fmt.Println("🔄 Creating account...")
	if err := env.Auth.Register(username, email, password); err != nil {
		return err
	}

	env.State.Flush()
	fmt.Println("✅ Account created and logged in!")
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	env, err := bootstrap()
	if err != nil {
		return err
	}
	defer env.Close()

	if user := env.Session.User(); user != nil {
		fmt.Printf("Logged in as %s (%s)\n", user.Nickname, user.ID)
	} else {
		fmt.Println("Guest mode. Data stays on this machine.")
	}
	return nil
}
