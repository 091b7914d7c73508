package http

import (
	nethttp "net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/template/html/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/estoque-api/internal/application/auth"
	"github.com/jhoicas/estoque-api/internal/application/inventory"
	"github.com/jhoicas/estoque-api/internal/application/report"
	"github.com/jhoicas/estoque-api/internal/application/usecase"
	"github.com/jhoicas/estoque-api/pkg/logger"
	"github.com/jhoicas/estoque-api/web"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC    *auth.AuthUseCase
	ProductUC *usecase.ProductUseCase
	EntryUC   *inventory.MovementUseCase
	ExitUC    *inventory.MovementUseCase
	ReportUC  *report.UseCase
	Cookie    CookieConfig
	Log       *logger.Logger
}

// AppConfig opciones del servidor fiber.
type AppConfig struct {
	Name string
}

// NewApp construye la aplicación fiber con vistas HTML embebidas, recover, log de peticiones
// y todas las rutas registradas.
func NewApp(cfg AppConfig, deps RouterDeps) *fiber.App {
	if deps.Log == nil {
		deps.Log = logger.Nop()
	}
	app := fiber.New(fiber.Config{
		AppName:      cfg.Name,
		Views:        newViews(),
		ViewsLayout:  "layout",
		ErrorHandler: ErrorHandler(deps.Log),
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(RequestLogger(deps.Log))
	app.Use(recover.New())
	app.Use(FlashMiddleware(NewFlashStore(deps.Cookie.Secure)))
	Router(app, deps)
	return app
}

// Router registra las rutas.
func Router(app *fiber.App, deps RouterDeps) {
	// Público
	app.Get("/health", Health)
	authHandler := NewAuthHandler(deps.AuthUC, deps.Cookie)
	app.Get("/login", authHandler.LoginPage)
	app.Post("/login", authHandler.Login)
	app.Get("/logout", authHandler.Logout)

	// Rutas protegidas (requieren cookie de sesión)
	protected := app.Group("/", SessionMiddleware(deps.AuthUC, deps.Cookie.Name))
	protected.Get("/", func(c *fiber.Ctx) error { return c.Redirect("/produtos", fiber.StatusFound) })

	// Produtos
	productHandler := NewProductHandler(deps.ProductUC)
	protected.Get("/produtos", productHandler.List)
	protected.Get("/produtos/novo", productHandler.New)
	protected.Post("/produtos/novo", productHandler.Create)
	protected.Get("/produtos/:id/editar", productHandler.Edit)
	protected.Post("/produtos/:id/editar", productHandler.Update)
	protected.Post("/produtos/:id/deletar", productHandler.Delete)

	// Entradas y saídas
	for _, h := range []*InventoryHandler{
		NewInventoryHandler(deps.EntryUC, deps.ProductUC),
		NewInventoryHandler(deps.ExitUC, deps.ProductUC),
	} {
		base := h.labels.BasePath
		protected.Get(base, h.List)
		protected.Get(h.labels.NewPath, h.New)
		protected.Post(h.labels.NewPath, h.Create)
		protected.Get(base+"/:id/editar", h.Edit)
		protected.Post(base+"/:id/editar", h.Update)
		protected.Post(base+"/:id/deletar", h.Delete)
	}

	// Relatórios
	reportHandler := NewReportHandler(deps.ReportUC)
	protected.Get("/relatorios", reportHandler.Form)
	protected.Get("/relatorio/pdf", reportHandler.PDF)
	protected.Get("/relatorio/xlsx", reportHandler.XLSX)
}

// newViews motor html/template sobre las plantillas embebidas, con helpers de formato.
func newViews() *html.Engine {
	engine := html.NewFileSystem(nethttp.FS(web.Templates()), ".html")
	engine.AddFunc("qty", func(d decimal.Decimal) string { return d.StringFixed(1) })
	engine.AddFunc("date", func(t time.Time) string { return t.Format("02/01/2006") })
	return engine
}
