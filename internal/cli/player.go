package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// profileFlags are the public identity fields a player signs up with
type profileFlags struct {
	Name   string `json:"name"`
	Email  string `json:"email,omitempty"`
	Avatar string `json:"avatar,omitempty"`
}

func (p *profileFlags) bind(cmd *cobra.Command, withEmail bool) {
	cmd.Flags().StringVar(&p.Name, "name", "", "Display name shown to other players (required)")
	cmd.Flags().StringVar(&p.Avatar, "avatar", "", "Avatar image URL")
	if withEmail {
		cmd.Flags().StringVar(&p.Email, "email", "", "Contact email")
	}
	_ = cmd.MarkFlagRequired("name")
}

func newPlayerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "player",
		Short: "Sign in and show who you are",
	}

	cmd.AddCommand(newPlayerGuestCmd())
	cmd.AddCommand(newPlayerRegisterCmd())
	cmd.AddCommand(newPlayerLoginCmd())
	cmd.AddCommand(newPlayerLogoutCmd())
	cmd.AddCommand(newPlayerMeCmd())

	return cmd
}

// signIn posts body to a sign-in endpoint, saves the issued token and
// prints the identity it belongs to
func signIn(cmd *cobra.Command, path string, body any) error {
	var result AuthResult
	if err := client.Post(cmd.Context(), path, body, &result); err != nil {
		return err
	}
	if err := cfg.SaveToken(result.SessionToken); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	NewOutput(cfg.Output).Print(result)
	return nil
}

func newPlayerGuestCmd() *cobra.Command {
	var profile profileFlags

	cmd := &cobra.Command{
		Use:   "guest",
		Short: "Play as a guest without an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return signIn(cmd, "/api/v1/players/guest", profile)
		},
	}
	profile.bind(cmd, false)
	return cmd
}

func newPlayerRegisterCmd() *cobra.Command {
	var body struct {
		profileFlags
		Username string `json:"username"`
		Password string `json:"password"`
	}

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		RunE: func(cmd *cobra.Command, args []string) error {
			return signIn(cmd, "/api/v1/players/register", body)
		},
	}
	body.bind(cmd, true)
	cmd.Flags().StringVar(&body.Username, "user", "", "Username: 3-24 of a-z, 0-9, _ (required)")
	cmd.Flags().StringVar(&body.Password, "pass", "", "Password, at least 8 characters (required)")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("pass")
	return cmd
}

func newPlayerLoginCmd() *cobra.Command {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to an existing account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return signIn(cmd, "/api/v1/players/login", body)
		},
	}
	cmd.Flags().StringVar(&body.Username, "user", "", "Username (required)")
	cmd.Flags().StringVar(&body.Password, "pass", "", "Password (required)")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("pass")
	return cmd
}

func newPlayerLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session and forget the saved token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.Token != "" {
				if err := client.Post(cmd.Context(), "/api/v1/players/logout", nil, nil); err != nil {
					return err
				}
			}
			if err := cfg.ClearToken(); err != nil {
				return fmt.Errorf("remove token: %w", err)
			}
			NewOutput(cfg.Output).PrintMessage("Signed out")
			return nil
		},
	}
}

func newPlayerMeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show the signed-in player",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Player
			if err := client.Get(cmd.Context(), "/api/v1/players/me", &result); err != nil {
				return err
			}
			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}
