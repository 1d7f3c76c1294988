package cmd

import (
	"fmt"
	"log"

	"github.com/framil09/prefeitura--sub000/internal/accesscontrol"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

var clearData bool

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample staff accounts for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		_, db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}

		if clearData {
			if err := db.Exec("DELETE FROM section_overrides").Error; err != nil {
				log.Fatalf("failed to clear section_overrides: %v", err)
			}
			if err := db.Exec("DELETE FROM users").Error; err != nil {
				log.Fatalf("failed to clear users: %v", err)
			}
			fmt.Println("Cleared existing data")
		}

		hash, _ := bcrypt.GenerateFromPassword([]byte("senha123"), cfg.Security.BCryptCost)

		staff := []struct {
			Email string
			Name  string
			Role  accesscontrol.Role
		}{
			{"prefeito@prefeitura.gov.br", "Prefeito Municipal", accesscontrol.RoleAdmin},
			{"secretario.obras@prefeitura.gov.br", "Secretário de Obras", accesscontrol.RoleDepartmentLead},
			{"redacao@prefeitura.gov.br", "Redação", accesscontrol.RoleEditor},
		}

		for _, s := range staff {
			var exists int
			row := db.Raw("SELECT 1 FROM users WHERE email = ?", s.Email).Row()
			if err := row.Scan(&exists); err == nil {
				fmt.Printf("user %s already exists, skipping\n", s.Email)
				continue
			}

			err := db.Exec(
				"INSERT INTO users (email, name, password_hash, role, is_active, created_at, updated_at) VALUES (?, ?, ?, ?, true, now(), now())",
				s.Email, s.Name, string(hash), string(s.Role),
			).Error
			if err != nil {
				log.Fatalf("failed to insert user %s: %v", s.Email, err)
			}
			fmt.Println("Seeded user:", s.Email)
		}

		// Materialize the editor preset for the redação account so the
		// deny-list behavior is visible right after seeding.
		var editorID int64
		if err := db.Raw("SELECT id FROM users WHERE email = ?", "redacao@prefeitura.gov.br").Row().Scan(&editorID); err != nil {
			log.Fatalf("failed to lookup editor user id: %v", err)
		}

		for _, row := range accesscontrol.PresetEditor.Rows(editorID) {
			err := db.Exec(`
				INSERT INTO section_overrides (user_id, section, allowed, created_at, updated_at)
				VALUES (?, ?, ?, now(), now())
				ON CONFLICT (user_id, section) DO UPDATE SET allowed = EXCLUDED.allowed, updated_at = now()`,
				row.UserID, string(row.Section), row.Allowed,
			).Error
			if err != nil {
				log.Fatalf("failed to seed override %s: %v", row.Section, err)
			}
		}

		fmt.Println("Seeding complete")
	},
}
