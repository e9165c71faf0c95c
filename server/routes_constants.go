package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	// OAuth Routes
	RouteOAuthGoogle   = "/api/oauth/google"
	RouteOAuthCallback = "/api/oauth/google/callback"
	RouteOAuthMe       = "/api/oauth/me"
	RouteOAuthLogout   = "/api/oauth/logout"
	RouteOAuthHealth   = "/api/oauth/health"

	// Forms Routes
	RouteFormCategories = "/api/forms/categories"
	RouteForms          = "/api/forms"
	RouteMyForms        = "/api/forms/my"
	RouteForm           = "/api/forms/{id}"
	RouteFormDownload   = "/api/forms/{id}/download"

	// Admin Routes
	RouteAdminForms       = "/api/admin/forms"
	RouteAdminFormStats   = "/api/admin/forms/stats"
	RouteAdminFormApprove = "/api/admin/forms/{id}/approve"
	RouteAdminFormReject  = "/api/admin/forms/{id}/reject"

	// AI Routes
	RouteAISummarize    = "/api/ai/summarize-document"
	RouteAIContract     = "/api/ai/analyze-contract"
	RouteAIDocumentChat = "/api/ai/document-chat"
	RouteAIChatbot      = "/api/ai/chatbot"

	// Operational Routes
	RouteHealthz = "/healthz"
	RouteMetrics = "/metrics"
)
