package commands

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/sewasangat/attendance/pkg/core/model"
)

// CreateAdminCmd creates the createAdmin command
func CreateAdminCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "createAdmin <username> <password>",
		Short: "Create an admin login account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			username := strings.TrimSpace(args[0])
			password := args[1]
			areaCode, _ := cmd.Flags().GetString("area")

			if len(password) < 8 {
				return fmt.Errorf("password must be at least 8 characters")
			}
			areaCode = strings.ToUpper(strings.TrimSpace(areaCode))
			if len(areaCode) != 2 {
				return fmt.Errorf("--area must be a two-letter area code")
			}

			if err := app.Database.RunMigrations(app.Ctx); err != nil {
				return err
			}

			hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
			if err != nil {
				return fmt.Errorf("failed to hash password: %w", err)
			}

			user := &model.User{
				ID:           uuid.NewString(),
				Username:     username,
				PasswordHash: string(hash),
				Role:         model.RoleAdmin,
				AreaCode:     areaCode,
			}
			if err := app.Database.InsertUser(app.Ctx, user); err != nil {
				return fmt.Errorf("failed to create user: %w", err)
			}

			fmt.Printf("\n✓ Admin account created!\n\n")
			fmt.Printf("Username: %s\n", user.Username)
			fmt.Printf("Area:     %s\n\n", user.AreaCode)

			return nil
		},
	}

	cmd.Flags().String("area", "", "Two-letter area code the admin manages (required)")
	cmd.MarkFlagRequired("area")

	return cmd
}
