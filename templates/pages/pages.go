package pages

import (
	"context"
	"embed"
	"html/template"
	"io"

	"law_dashboard_go/middleware"
	"law_dashboard_go/services/i18n"
	"law_dashboard_go/templates/components"

	"github.com/a-h/templ"
)

//go:embed *.html
var templateFS embed.FS

var funcs = template.FuncMap{
	"t":     i18n.Translate,
	"icon":  components.Icon,
	"json":  components.JSON,
	"asset": middleware.AssetURL,
	"csrfHeaders": func(token string) string {
		return components.JSON(map[string]string{middleware.CSRFHeaderName: token})
	},
}

var templates = template.Must(template.New("pages").Funcs(funcs).ParseFS(templateFS, "*.html"))

// view is what every top-level template receives
type view struct {
	Nonce string
	Data  interface{}
}

// page exposes a named html/template as a templ component so handlers render
// every page the same way.
func page(name string, data interface{}) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return templates.ExecuteTemplate(w, name, view{
			Nonce: middleware.GetNonce(ctx),
			Data:  data,
		})
	})
}

// Login renders the login page
func Login(data LoginPage) templ.Component {
	return page("login", data)
}

// Dashboard renders the full dashboard document
func Dashboard(data DashboardPage) templ.Component {
	return page("dashboard", data)
}

// DashboardShell renders the header and main region, the htmx swap target
// for state changes.
func DashboardShell(data DashboardPage) templ.Component {
	return page("dashboard-shell", data)
}

// TabArea renders the tab strip and the active panel
func TabArea(data DashboardPage) templ.Component {
	return page("tab-area", data)
}

// Placeholder renders the register / forgot-password stand-in
func Placeholder(data PlaceholderPage) templ.Component {
	return page("placeholder", data)
}
