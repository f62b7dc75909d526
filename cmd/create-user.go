package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jon4hz/vazby/internal/audit"
	"github.com/jon4hz/vazby/internal/auth"
	"github.com/jon4hz/vazby/internal/config"
	"github.com/jon4hz/vazby/internal/database"
	"github.com/jon4hz/vazby/internal/directory"
)

var createUserCmdFlags struct {
	Username string
	Email    string
	Password string
	Role     string
}

var createUserCmd = &cobra.Command{
	Use:   "create-user",
	Short: "Create a user account",
	Long:  `Create a user account from the shell. Use it to set up the first admin of a new installation.`,
	Example: `vazby create-user --username admin --email admin@example.com --password secret
vazby create-user --username jana --email jana@example.com --password secret --role editor`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(rootCmdPersistentFlags.ConfigFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		db, err := database.New(cfg.Database.Path)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer db.Close() //nolint: errcheck

		engine := directory.New(db, audit.New(db), auth.NewHasher(cfg.Auth.BcryptCost))
		user, err := engine.CreateUser(cmd.Context(), auth.System(), directory.UserInput{
			Username: createUserCmdFlags.Username,
			Password: createUserCmdFlags.Password,
			Email:    createUserCmdFlags.Email,
			Role:     createUserCmdFlags.Role,
		})
		if err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}

		fmt.Printf("Created %s %q (id %d)\n", user.Role, user.Username, user.ID)
		return nil
	},
}

func init() {
	createUserCmd.Flags().StringVar(&createUserCmdFlags.Username, "username", "", "Username of the new account")
	createUserCmd.Flags().StringVar(&createUserCmdFlags.Email, "email", "", "Email address of the new account")
	createUserCmd.Flags().StringVar(&createUserCmdFlags.Password, "password", "", "Password of the new account")
	createUserCmd.Flags().StringVar(&createUserCmdFlags.Role, "role", string(auth.RoleAdmin), "Role of the new account (viewer, editor, admin)")
	_ = createUserCmd.MarkFlagRequired("username")
	_ = createUserCmd.MarkFlagRequired("email")
	_ = createUserCmd.MarkFlagRequired("password")

	rootCmd.AddCommand(createUserCmd)
}
