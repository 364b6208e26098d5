package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/ftoledo/olistmetrics/internal/adapters/export"
	"github.com/ftoledo/olistmetrics/internal/app"
)

func main() {
	_ = godotenv.Load()

	zerolog.TimeFieldFormat = time.RFC3339
	zlog.Logger = zlog.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})

	report := flag.String("report", "", "run one report and exit: monthly|customers|retention|categories|concentration|quality|all")
	out := flag.String("out", "reports", "output directory for -report")
	format := flag.String("format", "json", "output format for -report: json|xlsx (xlsx implies -report=all)")
	flag.Parse()

	dsn := os.Getenv("DB_DSN")
	if strings.TrimSpace(dsn) == "" {
		host := os.Getenv("DB_HOST")
		if host == "" {
			host = "localhost"
		}
		port := os.Getenv("DB_PORT")
		if port == "" {
			port = "5432"
		}
		user := os.Getenv("DB_USER")
		if user == "" {
			user = os.Getenv("POSTGRES_USER")
		}
		if user == "" {
			user = "postgres"
		}
		pass := os.Getenv("DB_PASSWORD")
		if pass == "" {
			pass = os.Getenv("POSTGRES_PASSWORD")
		}
		if pass == "" {
			pass = "postgres"
		}
		name := os.Getenv("DB_NAME")
		if name == "" {
			name = os.Getenv("POSTGRES_DB")
		}
		if name == "" {
			name = "olist"
		}
		ssl := os.Getenv("DB_SSLMODE")
		if ssl == "" {
			ssl = "disable"
		}
		dsn = "host=" + host + " user=" + user + " password=" + pass + " dbname=" + name + " port=" + port + " sslmode=" + ssl
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		zlog.Fatal().Err(err).Msg("failed to connect to database")
	}

	application, err := app.NewApp(db)
	if err != nil {
		zlog.Fatal().Err(err).Msg("failed to create app")
	}
	if err := application.Migrate(); err != nil {
		zlog.Fatal().Err(err).Msg("failed to migrate database")
	}

	if *report != "" {
		runReport(application, *report, *out, *format)
		return
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	server := &http.Server{Addr: ":" + port, Handler: application.HTTPHandler()}

	go func() {
		zlog.Info().Str("port", port).Msg("listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zlog.Fatal().Err(err).Msg("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = server.Shutdown(ctx)
}

func runReport(application *app.App, report, out, format string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	start := time.Now()
	zlog.Info().Str("report", report).Msg("running report")

	if format == "xlsx" || report == "all" {
		rs, err := export.Collect(ctx, application.ExportSources())
		if err != nil {
			zlog.Fatal().Err(err).Msg("report failed")
		}
		var path string
		if format == "xlsx" {
			path = export.TimestampedFilename(out, "kpis", "xlsx")
			f, err := os.Create(path)
			if err != nil {
				zlog.Fatal().Err(err).Msg("create output file")
			}
			defer f.Close()
			if err := export.WriteWorkbook(f, rs); err != nil {
				zlog.Fatal().Err(err).Msg("write workbook")
			}
		} else {
			path = export.TimestampedFilename(out, "kpis", "json")
			if err := export.WriteJSONFile(path, rs); err != nil {
				zlog.Fatal().Err(err).Msg("write json")
			}
		}
		zlog.Info().Str("file", path).Dur("took", time.Since(start)).Msg("report written")
		return
	}

	var (
		data any
		err  error
	)
	switch report {
	case "monthly":
		data, err = application.KPIUC.Monthly(ctx)
	case "customers":
		data, err = application.KPIUC.Customers(ctx)
	case "retention":
		data, err = application.CohortUC.Retention(ctx)
	case "categories":
		data, err = application.CategoryUC.Revenue(ctx)
	case "concentration":
		deciles, derr := application.ConcentrationUC.Deciles(ctx)
		if derr != nil {
			zlog.Fatal().Err(derr).Msg("report failed")
		}
		freq, ferr := application.ConcentrationUC.OrderFrequency(ctx)
		if ferr != nil {
			zlog.Fatal().Err(ferr).Msg("report failed")
		}
		top, terr := application.ConcentrationUC.TopCustomers(ctx, 10)
		if terr != nil {
			zlog.Fatal().Err(terr).Msg("report failed")
		}
		data = map[string]any{"deciles": deciles, "frequency": freq, "top_customers": top}
	case "quality":
		data, err = application.QualityUC.Report(ctx)
	default:
		zlog.Fatal().Str("report", report).Msg("unknown report")
	}
	if err != nil {
		zlog.Fatal().Err(err).Msg("report failed")
	}

	path := export.TimestampedFilename(out, report, "json")
	if err := export.WriteJSONFile(path, data); err != nil {
		zlog.Fatal().Err(err).Msg("write json")
	}
	zlog.Info().Str("file", path).Dur("took", time.Since(start)).Msg("report written")
}
