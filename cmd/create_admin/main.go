// create_admin crea un usuario aprobado (ADMIN por defecto) en la base configurada.
//
// Uso: go run ./cmd/create_admin -email admin@empresa.com -name "Admin" -password 'secreto123'
// La contraseña también puede venir en ADMIN_PASSWORD para no dejarla en el historial.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/jhoicas/stocktrace-api/internal/application/usecase"
	"github.com/jhoicas/stocktrace-api/internal/domain/entity"
	"github.com/jhoicas/stocktrace-api/internal/infrastructure/postgres"
	"github.com/jhoicas/stocktrace-api/pkg/config"
	"github.com/jhoicas/stocktrace-api/pkg/logger"
)

func main() {
	email := flag.String("email", "", "email del usuario (obligatorio)")
	name := flag.String("name", "Administrador", "nombre visible")
	password := flag.String("password", os.Getenv("ADMIN_PASSWORD"), "contraseña (mínimo 8 caracteres)")
	role := flag.String("role", entity.RoleAdmin, "ADMIN | STAFF")
	flag.Parse()

	if *email == "" || *password == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "create_admin"})
	if cfg.Store.Driver != config.StoreDriverPostgres {
		log.Fatal().Str("store", cfg.Store.Driver).Msg("create_admin requiere STORE_DRIVER=postgres")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()
	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(pool, log.Zerolog()); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
	}

	uc := usecase.NewUserUseCase(postgres.NewUserRepository(pool))
	user, err := uc.CreateUser(ctx, *email, *name, *password, *role)
	if err != nil {
		log.Fatal().Err(err).Str("email", *email).Msg("crear usuario")
	}
	log.Info().Str("id", user.ID).Str("email", user.Email).Str("role", user.Role).Msg("usuario creado")
}
