// ABOUTME: Token-management REST handlers: issue, list, toggle, delete
// ABOUTME: Authenticated by admin session JWTs; all operations owner-scoped

package gateway

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/slugline-app/slugline-gateway/internal/auth"
)

// issueTokenRequest is the POST /tokens body.
type issueTokenRequest struct {
	Name          string   `json:"name"`
	Scopes        []string `json:"scopes"`
	ExpiresInDays int      `json:"expires_in_days"`
}

// handleTokens routes the token-management REST surface:
//
//	POST   /tokens             issue a token (secret returned exactly once)
//	GET    /tokens             list the caller's tokens (previews only)
//	POST   /tokens/{id}/toggle flip a token's active flag
//	DELETE /tokens/{id}        delete a token
func (s *Server) handleTokens(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		setCORSHeaders(w)
		w.WriteHeader(http.StatusOK)
		return
	}

	userID, ok := s.sessionUser(w, r)
	if !ok {
		return
	}

	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/tokens"), "/")

	switch {
	case rest == "" && r.Method == http.MethodPost:
		s.handleIssueToken(w, r, userID)
	case rest == "" && r.Method == http.MethodGet:
		s.handleListTokens(w, r, userID)
	case strings.HasSuffix(rest, "/toggle") && r.Method == http.MethodPost:
		s.handleToggleToken(w, r, userID, strings.TrimSuffix(rest, "/toggle"))
	case rest != "" && !strings.Contains(rest, "/") && r.Method == http.MethodDelete:
		s.handleDeleteToken(w, r, userID, rest)
	default:
		s.writeError(w, http.StatusNotFound, "Not found")
	}
}

// sessionUser authenticates the request's admin session JWT and returns the
// caller's user id. Writes a 401 and returns false on failure.
func (s *Server) sessionUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		s.writeError(w, http.StatusUnauthorized, "missing authorization header")
		return "", false
	}

	userID, err := s.sessions.Verify(strings.TrimPrefix(header, "Bearer "))
	if err != nil {
		s.writeError(w, http.StatusUnauthorized, "invalid session token")
		return "", false
	}
	return userID, true
}

func (s *Server) handleIssueToken(w http.ResponseWriter, r *http.Request, userID string) {
	var req issueTokenRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, MaxRequestBodySize)).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var ttl time.Duration
	if req.ExpiresInDays > 0 {
		ttl = time.Duration(req.ExpiresInDays) * 24 * time.Hour
	}

	token, err := s.tokenSvc.Issue(r.Context(), userID, req.Name, req.Scopes, ttl)
	if err != nil {
		// Issuance failures are caller mistakes: empty scopes, missing name.
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.writeJSON(w, http.StatusCreated, token)
}

func (s *Server) handleListTokens(w http.ResponseWriter, r *http.Request, userID string) {
	tokens, err := s.tokenSvc.List(r.Context(), userID)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"tokens": tokens, "count": len(tokens)})
}

func (s *Server) handleToggleToken(w http.ResponseWriter, r *http.Request, userID, tokenID string) {
	token, err := s.tokenSvc.Toggle(r.Context(), userID, tokenID)
	if err != nil {
		if errors.Is(err, auth.ErrNotOwner) {
			s.writeError(w, http.StatusNotFound, "token not found")
			return
		}
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, token)
}

func (s *Server) handleDeleteToken(w http.ResponseWriter, r *http.Request, userID, tokenID string) {
	if err := s.tokenSvc.Delete(r.Context(), userID, tokenID); err != nil {
		if errors.Is(err, auth.ErrNotOwner) {
			s.writeError(w, http.StatusNotFound, "token not found")
			return
		}
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	setCORSHeaders(w)
	w.WriteHeader(http.StatusNoContent)
}
