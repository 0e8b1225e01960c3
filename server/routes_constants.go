package server

// Route path constants
const (
	RouteIndex = "/{$}"

	// RouteRegister redirects to the developer console where the connected
	// app is created.
	RouteRegister = "/zoho/register"
	// RouteAuthorize redirects to the consent page.
	RouteAuthorize = "/zoho/auth"
	// RouteCallback receives the grant token. It must match the redirect URL
	// of the connected app.
	RouteCallback = "/auth"

	// RouteAPI proxies to the CRM API, e.g. GET /api/settings/fields?module=Leads
	RouteAPI = "/api/{path...}"
)
