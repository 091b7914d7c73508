package http_test

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/estoque-api/internal/application/inventory"
	"github.com/jhoicas/estoque-api/internal/application/report"
	"github.com/jhoicas/estoque-api/internal/application/usecase"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/infrastructure/memory"
	"github.com/jhoicas/estoque-api/internal/infrastructure/pdf"
	"github.com/jhoicas/estoque-api/internal/infrastructure/xlsx"
	apphttp "github.com/jhoicas/estoque-api/internal/interfaces/http"
	"github.com/jhoicas/estoque-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

// buildApp arma la aplicación completa sobre el store en memoria.
func buildApp(t *testing.T) (*fiber.App, *memory.Store) {
	t.Helper()
	s := memory.NewStore()
	calc := inventory.NewStockCalculator(s.Entries(), s.Exits())
	app := apphttp.NewApp(apphttp.AppConfig{Name: "estoque-test"}, apphttp.RouterDeps{
		AuthUC:    newAuthUseCase(t),
		ProductUC: usecase.NewProductUseCase(s, s.Products(), s.Entries(), s.Exits()),
		EntryUC:   inventory.NewEntryUseCase(s, s.Products(), s.Entries()),
		ExitUC:    inventory.NewExitUseCase(s, s.Products(), s.Exits()),
		ReportUC: report.NewUseCase(s.Products(), calc, report.Organization{Name: "JIQUIAGROPECUÁRIA"},
			pdf.NewMarotoPDFGenerator(), xlsx.NewExcelGenerator()),
		Cookie: apphttp.CookieConfig{Name: testCookie},
		Log:    logger.Nop(),
	})
	return app, s
}

func do(t *testing.T, app *fiber.App, req *http.Request, session *http.Cookie) *http.Response {
	t.Helper()
	if session != nil {
		req.AddCookie(session)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func get(t *testing.T, app *fiber.App, target string, session *http.Cookie) *http.Response {
	t.Helper()
	return do(t, app, httptest.NewRequest(http.MethodGet, target, nil), session)
}

func postForm(t *testing.T, app *fiber.App, target string, form url.Values, session *http.Cookie) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", fiber.MIMEApplicationForm)
	return do(t, app, req, session)
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func findCookie(resp *http.Response, name string) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == name && c.Value != "" {
			return c
		}
	}
	return nil
}

// login hace POST /login con la credencial correcta y devuelve la cookie de sesión.
func login(t *testing.T, app *fiber.App) *http.Cookie {
	t.Helper()
	resp := postForm(t, app, "/login", url.Values{"username": {testUser}, "password": {testPassword}}, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusFound, resp.StatusCode)
	session := findCookie(resp, testCookie)
	require.NotNil(t, session, "el login correcto debe setear la cookie de sesión")
	return &http.Cookie{Name: session.Name, Value: session.Value}
}

func seedProduct(t *testing.T, s *memory.Store) *entity.Product {
	t.Helper()
	p := &entity.Product{ID: 1, SKU: entity.SKUFor(1), Name: "Adubo", Brand: "Yara", Unit: "kg"}
	require.NoError(t, s.Products().Create(context.Background(), p))
	return p
}

// ──────────────────────────────────────────────────────────────────────────────
// Públicas y autenticación
// ──────────────────────────────────────────────────────────────────────────────

func TestHealth(t *testing.T) {
	app, _ := buildApp(t)
	resp := get(t, app, "/health", nil)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), `"status":"healthy"`)
	assert.NotEmpty(t, resp.Header.Get(fiber.HeaderXRequestID))
}

func TestSinSesion_RedirigeALogin(t *testing.T) {
	app, _ := buildApp(t)
	for _, path := range []string{"/", "/produtos", "/entradas", "/saidas/nova", "/relatorios", "/relatorio/pdf"} {
		resp := get(t, app, path, nil)
		resp.Body.Close()
		assert.Equal(t, http.StatusFound, resp.StatusCode, path)
		assert.Equal(t, "/login", resp.Header.Get("Location"), path)
	}
}

func TestLogin_PasswordIncorrecto(t *testing.T) {
	app, _ := buildApp(t)
	resp := postForm(t, app, "/login", url.Values{"username": {testUser}, "password": {"errada"}}, nil)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "Credenciais inválidas!")
	assert.Nil(t, findCookie(resp, testCookie), "no debe setear cookie de sesión")
}

func TestLogin_UsuarioIncorrectoMismoMensaje(t *testing.T) {
	app, _ := buildApp(t)
	resp := postForm(t, app, "/login", url.Values{"username": {"root"}, "password": {testPassword}}, nil)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "Credenciais inválidas!")
}

func TestLogin_CorrectoYLogout(t *testing.T) {
	app, _ := buildApp(t)
	session := login(t, app)

	resp := get(t, app, "/produtos", session)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), testUser)

	out := get(t, app, "/logout", session)
	defer out.Body.Close()
	assert.Equal(t, http.StatusFound, out.StatusCode)
	assert.Equal(t, "/login", out.Header.Get("Location"))
}

// ──────────────────────────────────────────────────────────────────────────────
// Produtos
// ──────────────────────────────────────────────────────────────────────────────

func TestProdutos_CrearYBuscar(t *testing.T) {
	app, _ := buildApp(t)
	session := login(t, app)

	resp := postForm(t, app, "/produtos/novo", url.Values{"nome": {"Glifosato"}, "marca": {"Nortox"}, "formato": {"litros"}}, session)
	resp.Body.Close()
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/produtos", resp.Header.Get("Location"))

	// El flash se muestra una sola vez en la página siguiente.
	flash := findCookie(resp, "estoque_flash")
	require.NotNil(t, flash)
	req := httptest.NewRequest(http.MethodGet, "/produtos", nil)
	req.AddCookie(&http.Cookie{Name: flash.Name, Value: flash.Value})
	withFlash := do(t, app, req, session)
	defer withFlash.Body.Close()
	assert.Contains(t, readBody(t, withFlash), "Produto PRD0001 cadastrado com sucesso!")

	list := get(t, app, "/produtos?search=nortox", session)
	defer list.Body.Close()
	body := readBody(t, list)
	assert.Contains(t, body, "PRD0001")
	assert.Contains(t, body, "Glifosato")
	assert.Contains(t, body, "0.0 litros")

	empty := get(t, app, "/produtos?search=inexistente", session)
	defer empty.Body.Close()
	assert.NotContains(t, readBody(t, empty), "PRD0001")
}

func TestProdutos_FormularioInvalido(t *testing.T) {
	app, _ := buildApp(t)
	session := login(t, app)

	resp := postForm(t, app, "/produtos/novo", url.Values{"nome": {""}, "marca": {"Yara"}, "formato": {"kg"}}, session)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "Informe o nome do produto")
}

func TestProdutos_EditarNoCambiaSKU(t *testing.T) {
	app, s := buildApp(t)
	session := login(t, app)
	p := seedProduct(t, s)

	resp := postForm(t, app, "/produtos/1/editar", url.Values{"nome": {"Adubo NPK"}, "marca": {"Yara"}, "formato": {"sacos"}, "sku": {"HACK"}}, session)
	resp.Body.Close()
	require.Equal(t, http.StatusFound, resp.StatusCode)

	got, err := s.Products().GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, "PRD0001", got.SKU)
	assert.Equal(t, "Adubo NPK", got.Name)
}

func TestProdutos_EditarInexistente404(t *testing.T) {
	app, _ := buildApp(t)
	session := login(t, app)

	resp := get(t, app, "/produtos/99/editar", session)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestProdutos_DeletarBloqueadoConMovimientos(t *testing.T) {
	app, s := buildApp(t)
	session := login(t, app)
	p := seedProduct(t, s)
	require.NoError(t, s.Entries().Create(context.Background(), &entity.Movement{
		ProductID: p.ID, Quantity: decimal.NewFromInt(5), Date: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}))

	resp := postForm(t, app, "/produtos/1/deletar", url.Values{}, session)
	resp.Body.Close()
	assert.Equal(t, http.StatusFound, resp.StatusCode)

	got, err := s.Products().GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.NotNil(t, got, "el producto con movimientos no debe eliminarse")
}

// ──────────────────────────────────────────────────────────────────────────────
// Entradas y saídas
// ──────────────────────────────────────────────────────────────────────────────

func TestSaidas_EstoqueInsuficiente422(t *testing.T) {
	app, s := buildApp(t)
	session := login(t, app)
	seedProduct(t, s)

	resp := postForm(t, app, "/entradas/nova", url.Values{"produto_id": {"1"}, "quantidade": {"10,5"}, "data": {"2025-01-01"}}, session)
	resp.Body.Close()
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/entradas", resp.Header.Get("Location"))

	over := postForm(t, app, "/saidas/nova", url.Values{"produto_id": {"1"}, "quantidade": {"11"}, "data": {"2025-01-02"}}, session)
	defer over.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, over.StatusCode)
	assert.Contains(t, readBody(t, over), "Estoque insuficiente! Disponível: 10.5 kg")

	exits, err := s.Exits().List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, exits, "la salida rechazada no debe persistirse")

	ok := postForm(t, app, "/saidas/nova", url.Values{"produto_id": {"1"}, "quantidade": {"10.5"}, "data": {"2025-01-02"}}, session)
	ok.Body.Close()
	assert.Equal(t, http.StatusFound, ok.StatusCode)
}

func TestEntradas_ListadoYEdicion(t *testing.T) {
	app, s := buildApp(t)
	session := login(t, app)
	seedProduct(t, s)

	resp := postForm(t, app, "/entradas/nova", url.Values{"produto_id": {"1"}, "quantidade": {"100"}, "data": {"2025-01-01"}, "observacoes": {"NF 123"}}, session)
	resp.Body.Close()

	list := get(t, app, "/entradas", session)
	defer list.Body.Close()
	body := readBody(t, list)
	assert.Contains(t, body, "01/01/2025")
	assert.Contains(t, body, "100.0 kg")
	assert.Contains(t, body, "NF 123")

	edit := get(t, app, "/entradas/1/editar", session)
	defer edit.Body.Close()
	assert.Equal(t, http.StatusOK, edit.StatusCode)
	assert.Contains(t, readBody(t, edit), `value="2025-01-01"`)

	upd := postForm(t, app, "/entradas/1/editar", url.Values{"produto_id": {"1"}, "quantidade": {"80"}, "data": {"2025-01-03"}}, session)
	upd.Body.Close()
	assert.Equal(t, http.StatusFound, upd.StatusCode)

	m, err := s.Entries().GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "80", m.Quantity.String())
}

func TestMovimento_FormularioInvalido(t *testing.T) {
	app, s := buildApp(t)
	session := login(t, app)
	seedProduct(t, s)

	resp := postForm(t, app, "/entradas/nova", url.Values{"produto_id": {"1"}, "quantidade": {"abc"}, "data": {"2025-01-01"}}, session)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "Quantidade inválida")

	noDate := postForm(t, app, "/entradas/nova", url.Values{"produto_id": {"1"}, "quantidade": {"1"}}, session)
	defer noDate.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, noDate.StatusCode)
	assert.Contains(t, readBody(t, noDate), "Informe a data")
}

// ──────────────────────────────────────────────────────────────────────────────
// Relatórios
// ──────────────────────────────────────────────────────────────────────────────

func TestRelatorio_SinPeriodoRedirige(t *testing.T) {
	app, _ := buildApp(t)
	session := login(t, app)

	resp := get(t, app, "/relatorio/pdf?data_inicio=2025-01-01", session)
	resp.Body.Close()
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/relatorios", resp.Header.Get("Location"))

	flash := findCookie(resp, "estoque_flash")
	require.NotNil(t, flash)
	form := withCookie(t, app, "/relatorios", flash, session)
	assert.Contains(t, form, "Por favor, informe o período para o relatório")

	// El mensaje se consume en la primera página que lo muestra.
	again := withCookie(t, app, "/relatorios", flash, session)
	assert.NotContains(t, again, "Por favor, informe o período para o relatório")
}

// withCookie hace GET reenviando la cookie flash y devuelve el cuerpo.
func withCookie(t *testing.T, app *fiber.App, path string, flash, session *http.Cookie) string {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.AddCookie(&http.Cookie{Name: flash.Name, Value: flash.Value})
	resp := do(t, app, req, session)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return readBody(t, resp)
}

func TestRelatorio_PDF(t *testing.T) {
	app, s := buildApp(t)
	session := login(t, app)
	seedProduct(t, s)

	resp := get(t, app, "/relatorio/pdf?data_inicio=2025-01-01&data_fim=2025-01-31&nome_engenheiro=Maria", session)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get(fiber.HeaderContentType))
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "relatorio_estoque_20250101_20250131.pdf")

	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(b, []byte("%PDF")))
}

func TestRelatorio_XLSX(t *testing.T) {
	app, s := buildApp(t)
	session := login(t, app)
	seedProduct(t, s)

	resp := get(t, app, "/relatorio/xlsx?data_inicio=2025-01-01&data_fim=2025-01-31", session)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "relatorio_estoque_20250101_20250131.xlsx")
}
