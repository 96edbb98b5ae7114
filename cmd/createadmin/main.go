// Command createadmin provisions an ADMIN account from the command line.
// Intended for bootstrapping a fresh deployment before any user exists.
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/sangvinij/user-management-micro-service/internal/common"
	"github.com/sangvinij/user-management-micro-service/internal/dbx"
	"github.com/sangvinij/user-management-micro-service/internal/server/auth"
	"github.com/sangvinij/user-management-micro-service/internal/server/config"
	"github.com/sangvinij/user-management-micro-service/internal/server/models"
	"github.com/sangvinij/user-management-micro-service/internal/server/repositories/repomanager"
)

func main() {
	var (
		username = flag.String("username", "admin", "admin username")
		password = flag.String("password", "", "admin password (required)")
		email    = flag.String("email", "admin@example.com", "admin email")
		phone    = flag.String("phone", "+000000000000", "admin phone number")
		groupID  = flag.Int64("group", 1, "admin group id")
	)
	flag.Parse()

	if *password == "" {
		log.Fatal("password is required")
	}

	cfg := config.LoadConfig()
	ctx := context.Background()

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("db open error: %v", err)
	}
	defer db.Close()

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		log.Fatalf("migration error: %v", err)
	}

	hash, err := auth.NewBcryptHasher(cfg.BcryptCost).Hash(*password)
	if err != nil {
		log.Fatalf("hash error: %v", err)
	}

	// Group check and user insert run in one transaction so the admin can
	// never land in a group that vanished in between.
	var admin *models.User
	err = dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := rm.Groups(tx).GetByID(ctx, *groupID); err != nil {
			return fmt.Errorf("group %d: %w", *groupID, err)
		}

		admin, err = rm.Users(tx).Create(ctx, &models.User{
			Name:         "Admin",
			Surname:      "Admin",
			Username:     *username,
			PasswordHash: hash,
			PhoneNumber:  *phone,
			Email:        *email,
			RoleName:     models.RoleAdmin,
			GroupID:      *groupID,
		})
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			log.Fatalf("admin %q already exists", *username)
		}
		log.Fatalf("create error: %v", err)
	}

	log.Printf("admin created: %s", admin.ID)
}
