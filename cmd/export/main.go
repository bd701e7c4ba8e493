// export escribe el inventario o el historial de movimientos en un archivo xlsx o pdf.
//
// Uso: go run ./cmd/export --report inventory|history --format xlsx|pdf [--out FILE]
//
//	[--article TEXT] [--recipient NOM] [--type ENTREE|SORTIE|Tous] [--product-id N] [--limit N]
//
// Usa la misma configuración (DB_DRIVER, DB_PATH, ...) que la API.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/drb-alger/gestion-magasin/internal/application/dto"
	"github.com/drb-alger/gestion-magasin/internal/application/inventory"
	"github.com/drb-alger/gestion-magasin/internal/application/report"
	"github.com/drb-alger/gestion-magasin/internal/domain/entity"
	infrapdf "github.com/drb-alger/gestion-magasin/internal/infrastructure/pdf"
	"github.com/drb-alger/gestion-magasin/internal/infrastructure/spreadsheet"
	"github.com/drb-alger/gestion-magasin/internal/infrastructure/store"
	"github.com/drb-alger/gestion-magasin/pkg/config"
	"github.com/drb-alger/gestion-magasin/pkg/logger"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "export:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := pflag.NewFlagSet("export", pflag.ContinueOnError)
	var (
		kind      = fs.String("report", "inventory", "inventory o history")
		format    = fs.String("format", "xlsx", "xlsx o pdf")
		out       = fs.StringP("out", "o", "", "archivo de salida (por defecto inventaire_AAAAMMDD.ext o historique_AAAAMMDD.ext según --report)")
		query     = fs.String("q", "", "inventario: nombre contiene")
		category  = fs.String("category", "", "inventario: categoría exacta")
		article   = fs.String("article", "", "historial: nombre contiene")
		recipient = fs.String("recipient", "", "historial: destinatario exacto")
		mvType    = fs.String("type", "", "historial: ENTREE, SORTIE o Tous")
		productID = fs.Int64("product-id", 0, "historial: id de producto (prioridad sobre --article)")
		limit     = fs.Int("limit", 0, "historial: máximo de filas (0 = por defecto)")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Output: os.Stderr})

	f, err := report.ParseFormat(*format)
	if err != nil {
		return err
	}

	ctx := context.Background()
	st, err := store.Open(ctx, cfg.DB, log)
	if err != nil {
		return err
	}
	defer st.Close()

	historyUC := inventory.NewHistoryUseCase(st.History, cfg.History.DefaultLimit, cfg.History.MaxLimit, log)
	uc := report.NewUseCase(st.Products, historyUC, log,
		spreadsheet.NewExcelRenderer(),
		infrapdf.NewReportRenderer(cfg.App.Name),
	)

	req := report.ExportRequest{Format: f, Path: *out}
	var path string
	switch *kind {
	case "inventory":
		req.Products = entity.ProductFilter{NameContains: *query, Category: *category}
		path, err = uc.ExportInventory(ctx, req)
	case "history":
		req.History = dto.HistoryQuery{Article: *article, Recipient: *recipient, Type: *mvType, Limit: *limit}
		if *productID > 0 {
			req.History.ProductID = productID
		}
		path, err = uc.ExportHistory(ctx, req)
	default:
		return fmt.Errorf("--report desconocido %q (inventory|history)", *kind)
	}
	if err != nil {
		return err
	}
	fmt.Println(path)
	return nil
}
