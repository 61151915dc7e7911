// ABOUTME: MCP surface handlers: manifest, execute, status, selected by path suffix
// ABOUTME: Enforces the authenticate-then-authorize contract ahead of dispatch

package gateway

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/slugline-app/slugline-gateway/internal/auth"
)

// MaxRequestBodySize is the maximum allowed size for request bodies (1MB).
const MaxRequestBodySize = 1 << 20

// executeRequest is the POST /execute body.
type executeRequest struct {
	Function string         `json:"function"`
	Args     map[string]any `json:"args"`
}

// handleMCP routes by the final path segment: manifest, execute, or status.
// Anything else is 404.
func (s *Server) handleMCP(w http.ResponseWriter, r *http.Request) {
	// CORS preflight is terminal for every route
	if r.Method == http.MethodOptions {
		setCORSHeaders(w)
		w.WriteHeader(http.StatusOK)
		return
	}

	switch routeSelector(r.URL.Path) {
	case "manifest":
		s.handleManifest(w, r)
	case "execute":
		s.handleExecute(w, r)
	case "status":
		s.handleStatus(w, r)
	default:
		s.writeError(w, http.StatusNotFound, "Not found")
	}
}

// routeSelector extracts the final path segment.
func routeSelector(path string) string {
	path = strings.TrimRight(path, "/")
	if idx := strings.LastIndex(path, "/"); idx >= 0 {
		return path[idx+1:]
	}
	return path
}

// handleManifest serves the capability listing. Authentication is optional:
// a valid bearer token narrows the listing to the token's scopes, anything
// else sees the full catalogue. Auth failure here never yields a 401 unless
// require_manifest_auth is set.
func (s *Server) handleManifest(w http.ResponseWriter, r *http.Request) {
	var scopes []string

	if r.Header.Get("Authorization") != "" {
		result := s.authority.ValidateRequest(r.Context(), r)
		if result.Valid {
			scopes = result.Scopes
		} else if s.requireManifestAuth {
			s.writeError(w, http.StatusUnauthorized, "Unauthorized access. Invalid API key.")
			return
		}
	} else if s.requireManifestAuth {
		s.writeError(w, http.StatusUnauthorized, "Unauthorized access. Invalid API key.")
		return
	}

	s.writeJSON(w, http.StatusOK, s.manifests.Generate(scopes))
}

// handleExecute authenticates, authorizes the requested function against the
// token's scopes, and dispatches. The dispatcher's envelope is serialized
// verbatim with HTTP 200 whether the function succeeded or failed; non-200
// statuses are reserved for transport, authentication, and authorization
// errors.
func (s *Server) handleExecute(w http.ResponseWriter, r *http.Request) {
	result := s.authority.ValidateRequest(r.Context(), r)
	if !result.Valid {
		s.writeError(w, http.StatusUnauthorized, "Unauthorized access. Invalid API key.")
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, MaxRequestBodySize))
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	var req executeRequest
	if len(body) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			s.writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}

	if req.Function == "" {
		s.writeError(w, http.StatusBadRequest, "Function name is required")
		return
	}

	if !auth.Authorized(result.Scopes, req.Function) {
		s.logger.Warn("scope denied",
			"function", req.Function,
			"token_id", result.TokenID,
		)
		s.writeError(w, http.StatusForbidden,
			fmt.Sprintf("Access denied. Token does not have permission to execute '%s'", req.Function))
		return
	}

	envelope, err := s.dispatcher.ExecuteFunction(r.Context(), req.Function, req.Args)
	if err != nil {
		// Scope membership was already validated against the same registry,
		// so a miss here is a routing defect, not a business failure.
		s.logger.Error("dispatch failed", "function", req.Function, "error", err)
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, envelope)
}

// handleStatus is the liveness probe. It exposes the full function name
// list so assistants can discover operations before holding a token.
// Set require_manifest_auth to gate it.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if s.requireManifestAuth {
		result := s.authority.ValidateRequest(r.Context(), r)
		if !result.Valid {
			s.writeError(w, http.StatusUnauthorized, "Unauthorized access. Invalid API key.")
			return
		}
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":    "online",
		"functions": s.registry.ListFunctions(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
