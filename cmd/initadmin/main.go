// Command initadmin creates the bootstrap administrator account.
//
// Flags override SUPERUSER_EMAIL, SUPERUSER_PASSWORD and SUPERUSER_FULL_NAME.
// Running it twice is safe.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"

	identityservice "huduma/internal/identity/service"
	identitystore "huduma/internal/identity/store"
	"huduma/internal/platform/config"
	"huduma/internal/platform/logger"
	"huduma/internal/platform/postgres"
	"huduma/pkg/platform/audit/publisher"
	auditpostgres "huduma/pkg/platform/audit/store/postgres"
	txcontext "huduma/pkg/platform/tx"
)

const msgSkipped = "Skipping admin creation (missing env vars)."

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// admin is the account requested on the command line or in the environment.
type admin struct {
	email, password, fullName string
}

func (a admin) complete() bool {
	return strings.TrimSpace(a.email) != "" && a.password != ""
}

// parseAdmin applies flags over the environment defaults in cfg.
func parseAdmin(cfg config.Admin, args []string) (admin, error) {
	flags := pflag.NewFlagSet("initadmin", pflag.ContinueOnError)
	email := flags.String("email", cfg.Email, "admin email address")
	password := flags.String("password", cfg.Password, "admin password")
	fullName := flags.String("full-name", cfg.FullName, "admin display name")
	if err := flags.Parse(args); err != nil {
		return admin{}, err
	}
	return admin{email: *email, password: *password, fullName: *fullName}, nil
}

func run(ctx context.Context, args []string) error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}
	a, err := parseAdmin(cfg.Admin, args)
	if err != nil {
		return err
	}
	if !a.complete() {
		fmt.Println(msgSkipped)
		return nil
	}
	if cfg.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	log := logger.New(cfg.LogLevel)
	db, err := postgres.Open(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()
	if cfg.Database.AutoMigrate {
		if err := postgres.Migrate(ctx, db); err != nil {
			return err
		}
	}

	users := identitystore.NewPostgres(db)
	svc, err := identityservice.New(users, users, txcontext.NewSQLRunner(db),
		identityservice.WithLogger(log),
		identityservice.WithAuditPublisher(publisher.NewPublisher(auditpostgres.New(db), publisher.WithLogger(log))),
	)
	if err != nil {
		return err
	}

	created, err := svc.EnsureAdmin(ctx, a.email, a.password, a.fullName)
	if err != nil {
		return err
	}
	if !created {
		fmt.Println("Admin already exists.")
		return nil
	}
	fmt.Printf("Admin %s created.\n", a.email)
	return nil
}
