package app

import (
	"net/http"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"gorm.io/gorm"

	"github.com/ftoledo/olistmetrics/internal/adapters/export"
	"github.com/ftoledo/olistmetrics/internal/adapters/httpserver"
	"github.com/ftoledo/olistmetrics/internal/adapters/repo/postgres"
	"github.com/ftoledo/olistmetrics/internal/domain"
	"github.com/ftoledo/olistmetrics/internal/usecase"
)

type App struct {
	DB              *gorm.DB
	KPIUC           *usecase.KPIUC
	CohortUC        *usecase.CohortUC
	CategoryUC      *usecase.CategoryUC
	ConcentrationUC *usecase.ConcentrationUC
	QualityUC       *usecase.QualityUC
	OAuthConfig     *oauth2.Config
}

func NewApp(db *gorm.DB) (*App, error) {
	facts := postgres.NewFactRepo(db)
	quality := postgres.NewQualityRepo(db)

	var oauthCfg *oauth2.Config
	googleID := os.Getenv("GOOGLE_CLIENT_ID")
	googleSecret := os.Getenv("GOOGLE_CLIENT_SECRET")
	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	if googleID != "" && googleSecret != "" {
		oauthCfg = &oauth2.Config{
			ClientID:     googleID,
			ClientSecret: googleSecret,
			RedirectURL:  baseURL + "/auth/google/callback",
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		}
	}

	return &App{
		DB:              db,
		KPIUC:           &usecase.KPIUC{Facts: facts},
		CohortUC:        &usecase.CohortUC{Facts: facts},
		CategoryUC:      &usecase.CategoryUC{Facts: facts},
		ConcentrationUC: &usecase.ConcentrationUC{Facts: facts},
		QualityUC:       &usecase.QualityUC{Quality: quality},
		OAuthConfig:     oauthCfg,
	}, nil
}

func (a *App) HTTPHandler() http.Handler {
	return httpserver.New(a.KPIUC, a.CohortUC, a.CategoryUC, a.ConcentrationUC, a.QualityUC, a.OAuthConfig)
}

func (a *App) ExportSources() export.Sources {
	return export.Sources{
		KPIs:          a.KPIUC,
		Cohorts:       a.CohortUC,
		Categories:    a.CategoryUC,
		Concentration: a.ConcentrationUC,
		Quality:       a.QualityUC,
	}
}

// Migrate creates the base tables. The dataset itself is loaded externally;
// this service never writes rows.
func (a *App) Migrate() error {
	if err := a.DB.AutoMigrate(
		&domain.Order{}, &domain.OrderItem{}, &domain.Customer{}, &domain.Product{}, &domain.CategoryTranslation{},
	); err != nil {
		return err
	}

	_ = a.DB.Exec("CREATE INDEX IF NOT EXISTS idx_orders_status_purchased ON orders(status, purchased_at)").Error
	_ = a.DB.Exec("CREATE INDEX IF NOT EXISTS idx_customers_customer_uid ON customers(customer_uid)").Error
	_ = a.DB.Exec("CREATE INDEX IF NOT EXISTS idx_order_items_product_id ON order_items(product_id)").Error

	return nil
}
