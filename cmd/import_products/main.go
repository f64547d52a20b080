// import_products carga o actualiza productos desde un CSV exportado del sistema
// anterior (ISO-8859-1, separado por punto y coma). El SKU es la clave: si existe se
// actualiza nombre, categoría, unidad y stock mínimo; si no, se crea.
//
// Uso: go run ./cmd/import_products -file productos.csv [-comma ';'] [-utf8]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/jhoicas/stocktrace-api/internal/application/usecase"
	"github.com/jhoicas/stocktrace-api/internal/infrastructure/postgres"
	"github.com/jhoicas/stocktrace-api/pkg/config"
	"github.com/jhoicas/stocktrace-api/pkg/logger"
)

func main() {
	file := flag.String("file", "", "ruta del CSV (obligatorio)")
	comma := flag.String("comma", ";", "separador de columnas")
	isUTF8 := flag.Bool("utf8", false, "el archivo ya está en UTF-8")
	flag.Parse()

	if *file == "" || utf8.RuneCountInString(*comma) != 1 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "import_products"})
	if cfg.Store.Driver != config.StoreDriverPostgres {
		log.Fatal().Str("store", cfg.Store.Driver).Msg("import_products requiere STORE_DRIVER=postgres")
	}

	f, err := os.Open(*file)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir CSV")
	}
	defer f.Close()

	sep, _ := utf8.DecodeRuneInString(*comma)
	rows, err := readProducts(f, sep, !*isUTF8)
	if err != nil {
		log.Fatal().Err(err).Str("file", *file).Msg("leer CSV")
	}
	log.Info().Int("rows", len(rows)).Msg("CSV leído")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	uc := usecase.NewProductUseCase(postgres.NewTxRunner(pool), postgres.Repos(pool))
	res, err := uc.Import(ctx, rows, 2)
	if err != nil {
		log.Fatal().Err(err).Msg("importar productos")
	}
	for _, fl := range res.Failed {
		log.Warn().Int("row", fl.Row).Str("sku", fl.SKU).Str("error", fl.Error).Msg("fila rechazada")
	}
	log.Info().
		Int("created", res.Created).
		Int("updated", res.Updated).
		Int("failed", len(res.Failed)).
		Msg("importación terminada")
}
