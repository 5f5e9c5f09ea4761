package notify

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"strings"
	"text/template"

	"resumeradar/pkg/types"
)

//go:embed templates
var templateFS embed.FS

var (
	htmlTemplates = htmltemplate.Must(htmltemplate.ParseFS(templateFS, "templates/*.html"))
	textTemplates = template.Must(template.ParseFS(templateFS, "templates/*.txt"))
)

var statusColors = map[types.ResumeStatus]string{
	types.ResumeStatusPending:       "#f59e0b",
	types.ResumeStatusApproved:      "#10b981",
	types.ResumeStatusNeedsRevision: "#3b82f6",
	types.ResumeStatusRejected:      "#ef4444",
}

// Composer renders the application's emails. Links point at SiteURL.
type Composer struct {
	SiteURL string
}

func NewComposer(siteURL string) *Composer {
	return &Composer{SiteURL: strings.TrimSuffix(siteURL, "/")}
}

type ResumeStatusEmail struct {
	UserName  string
	FileName  string
	OldStatus types.ResumeStatus
	NewStatus types.ResumeStatus
	Score     types.Option[int]
	Notes     types.Option[string]
}

type resumeStatusView struct {
	ResumeStatusEmail
	Greeting     string
	Color        string
	DashboardURL string
}

func (c *Composer) ResumeStatus(to string, email ResumeStatusEmail) (Message, error) {
	color, ok := statusColors[email.NewStatus]
	if !ok {
		color = "#6b7280"
	}

	view := resumeStatusView{
		ResumeStatusEmail: email,
		Greeting:          greeting(email.UserName),
		Color:             color,
		DashboardURL:      c.SiteURL + "/dashboard",
	}

	return render(to, "Resume Review Update - "+email.FileName, "resume_status", view)
}

type adminRequestView struct {
	Greeting string
	Approved bool
	Notes    types.Option[string]
	LinkURL  string
}

func (c *Composer) AdminRequestDecision(to, userName string, status types.AdminRequestStatus, notes types.Option[string]) (Message, error) {
	view := adminRequestView{
		Greeting: greeting(userName),
		Approved: status == types.AdminRequestStatusApproved,
		Notes:    notes,
		LinkURL:  c.SiteURL + "/dashboard",
	}

	subject := "Admin Access Request Update - Resume Radar"
	if view.Approved {
		subject = "Admin Access Approved - Resume Radar"
		view.LinkURL = c.SiteURL + "/admin"
	}

	return render(to, subject, "admin_request", view)
}

func (c *Composer) Welcome(to, userName string) (Message, error) {
	view := struct {
		Greeting string
		LinkURL  string
	}{
		Greeting: greeting(userName),
		LinkURL:  c.SiteURL + "/dashboard",
	}

	return render(to, "Welcome to Resume Radar!", "welcome", view)
}

func render(to, subject, name string, data any) (Message, error) {
	var html, text bytes.Buffer

	if err := htmlTemplates.ExecuteTemplate(&html, name+".html", data); err != nil {
		return Message{}, fmt.Errorf("render %s html: %w", name, err)
	}

	if err := textTemplates.ExecuteTemplate(&text, name+".txt", data); err != nil {
		return Message{}, fmt.Errorf("render %s text: %w", name, err)
	}

	return Message{
		To:      to,
		Subject: subject,
		HTML:    html.String(),
		Text:    strings.TrimSpace(text.String()),
	}, nil
}

func greeting(name string) string {
	if strings.TrimSpace(name) == "" {
		return "there"
	}
	return name
}
