package server

import (
	"net/http"

	"github.com/lexora/lexora-server/access"
	"github.com/lexora/lexora-server/users"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) initRoutes() {
	// OAUTH
	s.RegisterRouteHandler("GET "+RouteOAuthGoogle, ChainMiddleware(s.GoogleLoginHandler(), s.OAuthMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteOAuthCallback, ChainMiddleware(s.GoogleCallbackHandler(), s.OAuthMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteOAuthMe, ChainMiddleware(s.MeHandler(), s.OAuthMiddleware(s.RequireAuth())...))
	s.RegisterRouteHandler("POST "+RouteOAuthLogout, ChainMiddleware(s.LogoutHandler(), s.OAuthMiddleware(s.RequireAuth())...))
	s.RegisterRouteHandler("GET "+RouteOAuthHealth, ChainMiddleware(s.OAuthHealthHandler(), s.OAuthMiddleware()...))

	// FORMS (public)
	s.RegisterRouteHandler("GET "+RouteFormCategories, ChainMiddleware(s.FormCategoriesHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteForms, ChainMiddleware(s.ListFormsHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteForm, ChainMiddleware(s.GetFormHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteFormDownload, ChainMiddleware(s.DownloadFormHandler(), s.APIMiddleware(s.OptionalAuth())...))

	// FORMS (lawyers and admins)
	publishers := []users.RoleType{users.RoleLawyer, users.RoleAdmin}
	s.RegisterRouteHandler("POST "+RouteForms, ChainMiddleware(s.CreateFormHandler(),
		s.APIMiddleware(s.RequireAuth(), s.RequireRole(publishers...), s.RequireFeature(access.FeatureForms))...))
	s.RegisterRouteHandler("GET "+RouteMyForms, ChainMiddleware(s.MyFormsHandler(),
		s.APIMiddleware(s.RequireAuth(), s.RequireRole(publishers...))...))
	s.RegisterRouteHandler("PUT "+RouteForm, ChainMiddleware(s.UpdateFormHandler(),
		s.APIMiddleware(s.RequireAuth(), s.RequireRole(publishers...))...))
	s.RegisterRouteHandler("DELETE "+RouteForm, ChainMiddleware(s.DeleteFormHandler(),
		s.APIMiddleware(s.RequireAuth(), s.RequireRole(publishers...))...))

	// ADMIN
	adminOnly := s.APIMiddleware(s.RequireAuth(), s.RequireRole(users.RoleAdmin))
	s.RegisterRouteHandler("GET "+RouteAdminForms, ChainMiddleware(s.AdminListFormsHandler(), adminOnly...))
	s.RegisterRouteHandler("GET "+RouteAdminFormStats, ChainMiddleware(s.FormStatsHandler(), adminOnly...))
	s.RegisterRouteHandler("PUT "+RouteAdminFormApprove, ChainMiddleware(s.ApproveFormHandler(), adminOnly...))
	s.RegisterRouteHandler("PUT "+RouteAdminFormReject, ChainMiddleware(s.RejectFormHandler(), adminOnly...))

	// AI
	analyzer := s.APIMiddleware(s.RequireAuth(), s.RequireFeature(access.FeatureAIAnalyzer))
	s.RegisterRouteHandler("POST "+RouteAISummarize, ChainMiddleware(s.SummarizeDocumentHandler(), analyzer...))
	s.RegisterRouteHandler("POST "+RouteAIContract, ChainMiddleware(s.AnalyzeContractHandler(), analyzer...))
	s.RegisterRouteHandler("POST "+RouteAIDocumentChat, ChainMiddleware(s.DocumentChatHandler(), analyzer...))
	s.RegisterRouteHandler("POST "+RouteAIChatbot, ChainMiddleware(s.ChatbotHandler(), s.APIMiddleware()...))

	// OPERATIONS
	s.RegisterRouteFunc("GET "+RouteHealthz, s.HealthzHandler())
	if s.gatherer != nil {
		s.RegisterRouteHandler("GET "+RouteMetrics, promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	s.RegisterRouteFunc("/", s.NotFoundHandler())
}

// NotFoundHandler answers every unmatched path with a JSON 404.
func (s *Server) NotFoundHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "Route not found", Code: "NOT_FOUND"})
	}
}
