package server

import (
	"bytes"
	"net/http"
	"strings"

	"resumeradar/internal/views"
	"resumeradar/pkg/types"
)

func (s *Service) basePageData(r *http.Request, title string) types.BasePageData {
	return types.BasePageData{
		Title:  title,
		Notice: strings.TrimSpace(r.URL.Query().Get("notice")),
		Error:  strings.TrimSpace(r.URL.Query().Get("error")),
	}
}

func (s *Service) render(w http.ResponseWriter, r *http.Request, templateName string, data any) {
	s.renderStatus(w, r, http.StatusOK, templateName, data)
}

// renderStatus executes the template into a buffer first so a failed render
// still produces a clean 500 instead of a half written page.
func (s *Service) renderStatus(w http.ResponseWriter, r *http.Request, status int, templateName string, data any) {
	if setter, ok := data.(types.NavbarDataSetter); ok {
		setter.SetNavbarData(navbarData(principalFromContext(r.Context())))
	}

	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, templateName, data); err != nil {
		s.logger.WithError(err).WithField("template", templateName).Error("failed to render template")
		s.internalServerError(w)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func navbarData(principal *types.Principal) types.NavbarData {
	if principal == nil {
		return types.NavbarData{}
	}

	name := principal.FullName
	if strings.TrimSpace(name) == "" {
		name = principal.Email
	}

	return types.NavbarData{
		IsAuthenticated: true,
		IsAdmin:         principal.IsAdmin,
		UserID:          principal.UserID,
		UserEmail:       principal.Email,
		UserName:        name,
	}
}

// notModified tags the response with the view's ETag and answers a matching
// conditional request with 304. Pages that render flash messages from the
// query string are never served from cache.
func (s *Service) notModified(w http.ResponseWriter, r *http.Request, key string) bool {
	viewer := "anonymous"
	if principal := principalFromContext(r.Context()); principal != nil {
		viewer = principal.UserID
		if principal.IsAdmin {
			viewer += ".admin"
		}
	}

	etag := s.views.ETag(key, viewer)
	if r.URL.RawQuery != "" {
		etag = s.views.ETag(key, viewer+"?"+r.URL.RawQuery)
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "private, no-cache")

	if views.Match(r.Header.Get("If-None-Match"), etag) {
		w.WriteHeader(http.StatusNotModified)
		return true
	}

	return false
}
