package command

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"studytour/internal/microservices/http-api/models"
	"studytour/internal/microservices/http-api/repository"

	"github.com/spf13/cobra"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "User administration",
}

var usersSetRoleCmd = &cobra.Command{
	Use:   "set-role <email> <role>",
	Short: "Change a user's role (user, organizer, admin)",
	Long: `Change a user's role. Existing refresh tokens are revoked so the new
role is picked up at the next login.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup()
		if err != nil {
			return err
		}
		defer e.close()

		user, err := setRole(cmd.Context(),
			repository.NewUserRepository(e.db),
			repository.NewRefreshTokenRepository(e.db),
			args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ %s is now %s\n", user.Email, user.Role)
		return nil
	},
}

func init() {
	usersCmd.AddCommand(usersSetRoleCmd)
}

type tokenRevoker interface {
	RevokeAllForUser(ctx context.Context, userID string) error
}

var errUnknownRole = errors.New("role must be one of user, organizer, admin")

func setRole(ctx context.Context, users repository.UserRepository, tokens tokenRevoker, email, role string) (*models.User, error) {
	r := models.Role(strings.ToLower(strings.TrimSpace(role)))
	if !r.Valid() {
		return nil, fmt.Errorf("%q: %w", role, errUnknownRole)
	}

	user, err := users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("no user with email %s", email)
		}
		return nil, err
	}
	if user.Role == r {
		return user, nil
	}

	user.Role = r
	if err := users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	if err := tokens.RevokeAllForUser(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("revoke sessions: %w", err)
	}
	return user, nil
}
