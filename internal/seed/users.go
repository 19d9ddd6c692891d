package seed

import (
	"context"
	"fmt"
	"strings"
)

type AdminStore interface {
	SetAdminByEmail(ctx context.Context, email string, admin bool) error
}

// PromoteAdmins grants admin rights to already synced users. Users sign in
// through the identity provider first, so unknown emails are an error.
func PromoteAdmins(ctx context.Context, repo AdminStore, emails []string) error {
	promoted := 0
	for _, email := range emails {
		email = strings.TrimSpace(email)
		if email == "" {
			continue
		}

		if err := repo.SetAdminByEmail(ctx, email, true); err != nil {
			return fmt.Errorf("failed to promote %s: %w", email, err)
		}
		fmt.Printf("  Promoted %s to admin\n", email)
		promoted++
	}

	fmt.Printf("Admins promoted: %d\n", promoted)
	return nil
}
