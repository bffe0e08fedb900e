package apitest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

type ctxKey struct{}

type principal struct {
	userName string
	role     string
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(body))

		s.mu.Lock()
		s.requests = append(s.requests, Recorded{
			Method:        r.Method,
			Path:          r.URL.Path,
			Authorization: r.Header.Get("Authorization"),
			Accept:        r.Header.Get("Accept"),
			ContentType:   r.Header.Get("Content-Type"),
			Body:          string(body),
		})
		var f *failure
		if len(s.failNext) > 0 {
			f = &s.failNext[0]
			s.failNext = s.failNext[1:]
		}
		s.mu.Unlock()

		if f != nil {
			writeText(w, f.status, f.body)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := bearer(r)
		if raw == "" {
			writeText(w, http.StatusUnauthorized, "")
			return
		}

		claims := jwt.MapClaims{}
		_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
			return s.secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil {
			s.logger.Debug("rejected credential", zap.Error(err))
			writeText(w, http.StatusUnauthorized, "")
			return
		}

		sub, _ := claims.GetSubject()
		role, _ := claims["role"].(string)
		if role == "" {
			role, _ = claims[NamespacedRoleClaim].(string)
		}
		ctx := context.WithValue(r.Context(), ctxKey{}, principal{userName: sub, role: role})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) adminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, _ := r.Context().Value(ctxKey{}).(principal)
		if p.role != RoleAdmin {
			writeText(w, http.StatusForbidden, "")
			return
		}
		next.ServeHTTP(w, r)
	})
}

type loginRequest struct {
	UserName string `json:"userName"`
	Password string `json:"password"`
}

func (s *Server) issueToken(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeText(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	s.mu.Lock()
	acc, ok := s.accounts[req.UserName]
	s.mu.Unlock()
	if !ok || acc.password != req.Password {
		writeText(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}

	tok := s.Mint(req.UserName, acc.role)
	if s.bearerPrefix {
		tok = "Bearer " + tok
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": tok})
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var profile map[string]any
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		writeText(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	userName, _ := profile["userName"].(string)
	password, _ := profile["password"].(string)
	if userName == "" || password == "" {
		writeText(w, http.StatusBadRequest, "UserName and Password are required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.accounts[userName]; exists {
		writeText(w, http.StatusBadRequest, "User already exists")
		return
	}
	s.accounts[userName] = account{password: password, role: RoleUser, profile: profile}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) list(resource string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		items := s.sorted(resource)
		s.mu.Unlock()

		if s.listEnvelope != "" {
			writeJSON(w, http.StatusOK, map[string]any{s.listEnvelope: items})
			return
		}
		writeJSON(w, http.StatusOK, items)
	}
}

func (s *Server) create(resource string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		item, ok := decodeItem(w, r)
		if !ok {
			return
		}
		delete(item, "id")
		id := s.Seed(resource, item)
		item["id"] = id
		writeJSON(w, http.StatusCreated, item)
	}
}

func (s *Server) update(resource string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		item, ok := decodeItem(w, r)
		if !ok {
			return
		}
		idf, _ := item["id"].(float64)
		id := int64(idf)

		s.mu.Lock()
		defer s.mu.Unlock()
		if _, exists := s.resources[resource][id]; !exists {
			writeText(w, http.StatusNotFound, resource[:len(resource)-1]+" not found")
			return
		}
		item["id"] = id
		s.resources[resource][id] = item
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) remove(resource string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(r)
		if !ok {
			writeText(w, http.StatusBadRequest, "Invalid id")
			return
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		if _, exists := s.resources[resource][id]; !exists {
			writeText(w, http.StatusNotFound, resource[:len(resource)-1]+" not found")
			return
		}
		delete(s.resources[resource], id)
		w.WriteHeader(http.StatusNoContent)
	}
}

type rateRequest struct {
	MovieID int64 `json:"movieId"`
	Rating  int   `json:"rating"`
}

func (s *Server) rate(w http.ResponseWriter, r *http.Request) {
	var req rateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeText(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Rating < 1 || req.Rating > 5 {
		writeText(w, http.StatusBadRequest, "Rating must be between 1 and 5")
		return
	}

	p, _ := r.Context().Value(ctxKey{}).(principal)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.resources["Movies"][req.MovieID]; !exists {
		writeText(w, http.StatusNotFound, "Movie not found")
		return
	}
	s.ratings = append(s.ratings, map[string]any{
		"userName": p.userName,
		"movieId":  req.MovieID,
		"rating":   req.Rating,
	})
	writeJSON(w, http.StatusOK, map[string]string{"message": "Rating saved"})
}

func decodeItem(w http.ResponseWriter, r *http.Request) (map[string]any, bool) {
	var item map[string]any
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil || item == nil {
		writeText(w, http.StatusBadRequest, "Invalid request body")
		return nil, false
	}
	return item, true
}
