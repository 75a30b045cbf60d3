package cli

import (
	"errors"
	"fmt"

	"github.com/renatoeco/app-cepf-gestao-sub000/internal/domain"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func tokenCmd(env func() *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "token <email>",
		Short: "Issue a bearer token for a person",
		Long: `Signs an API token for the person registered under email. Permissions are
read from the person's stored roles and projects on every request.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e := env()
			person, err := e.People.GetByEmail(cmd.Context(), args[0])
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("no person registered with email %s", args[0])
				}
				return err
			}
			if person.Status == domain.PersonStatusInactive {
				return fmt.Errorf("%s is inactive", person.Email)
			}

			token, err := e.Tokens.IssueToken(person)
			if err != nil {
				return err
			}
			e.Logger.Info("token issued", zap.String("person_id", person.ID.String()))
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
}
