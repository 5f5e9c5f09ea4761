package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"resumeradar/internal"
	"resumeradar/pkg/types"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	ctypes "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/sirupsen/logrus"
)

func (s *Service) handleGetLogin(w http.ResponseWriter, r *http.Request) {
	if principalFromContext(r.Context()) != nil {
		s.logger.Debug("user is already logged in, redirecting to dashboard")
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	data := &types.LoginPageData{
		BasePageData: s.basePageData(r, "Sign In"),
		Email:        strings.TrimSpace(r.URL.Query().Get("email")),
	}

	if r.URL.Query().Get("confirmed") == "true" {
		data.Message = "Your account is confirmed. Sign in to continue."
	}

	s.render(w, r, "page.login", data)
}

func (s *Service) handlePostLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")

	data := &types.LoginPageData{
		BasePageData: s.basePageData(r, "Sign In"),
		Email:        email,
	}

	input := &cognitoidentityprovider.InitiateAuthInput{
		AuthFlow: ctypes.AuthFlowTypeUserPasswordAuth,
		ClientId: aws.String(s.config.CognitoClientID),
		AuthParameters: map[string]string{
			"USERNAME": email,
			"PASSWORD": password,
		},
	}

	resp, err := s.cognitoClient.InitiateAuth(ctx, input)
	if err != nil {
		s.logger.WithError(err).Info("login attempt failed")

		var notConfirmed *ctypes.UserNotConfirmedException
		if errors.As(err, &notConfirmed) {
			http.Redirect(w, r, "/register/confirm?email="+queryEscape(email), http.StatusSeeOther)
			return
		}

		data.Error = "Invalid email or password."
		s.renderStatus(w, r, http.StatusUnauthorized, "page.login", data)
		return
	}

	if resp.AuthenticationResult == nil || resp.AuthenticationResult.AccessToken == nil {
		data.Error = "Login failed. Please try again."
		s.renderStatus(w, r, http.StatusUnauthorized, "page.login", data)
		return
	}

	accessToken := aws.ToString(resp.AuthenticationResult.AccessToken)
	expiresIn := int(resp.AuthenticationResult.ExpiresIn)

	userID, err := s.verifyAccessToken(ctx, accessToken)
	if err != nil {
		s.logger.WithError(err).Error("failed to verify freshly issued access token")
		s.internalServerError(w)
		return
	}

	inserted, err := s.userRepo.UpsertIdentity(ctx, userID, email)
	if err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Error("failed to record user identity")
		s.internalServerError(w)
		return
	}

	if inserted {
		s.onFirstLogin(ctx, userID, email, accessToken)
	}

	encryptedToken, err := s.cookie.Encode(internal.COOKIE_ACCESS_TOKEN_NAME, accessToken)
	if err != nil {
		s.logger.WithError(err).Error("failed to encrypt access token")
		s.internalServerError(w)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     internal.COOKIE_ACCESS_TOKEN_NAME,
		Value:    encryptedToken,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   expiresIn,
		Path:     "/",
	})

	s.logger.WithField("user_id", userID).Info("user logged in")

	// Check to see if this login attempt was the result of an unauthed redirect
	redirectCookie, err := r.Cookie(internal.COOKIE_REDIRECT_NAME)
	if err == nil {
		s.clearRedirectCookie(w)
		if path, ok := localPath(redirectCookie.Value); ok {
			http.Redirect(w, r, path, http.StatusSeeOther)
			return
		}
	}

	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// onFirstLogin covers accounts whose users row was not recorded at sign up,
// such as users created directly in the pool. It copies the Cognito name and
// sends the welcome email. Failures are logged and never block login.
func (s *Service) onFirstLogin(ctx context.Context, userID, email, accessToken string) {
	ctx = context.WithoutCancel(ctx)
	logger := s.logger.WithField("user_id", userID)

	var fullName string
	out, err := s.cognitoClient.GetUser(ctx, &cognitoidentityprovider.GetUserInput{
		AccessToken: aws.String(accessToken),
	})
	if err != nil {
		logger.WithError(err).Warn("failed to fetch cognito profile")
	} else {
		fullName = fullNameFromAttributes(out.UserAttributes)
	}

	if fullName != "" {
		if err := s.userRepo.UpdateFullName(ctx, userID, fullName); err != nil {
			logger.WithError(err).Warn("failed to store full name")
		}
	}

	s.sendWelcome(ctx, logger.WithField("email", email), email, fullName)
}

func (s *Service) sendWelcome(ctx context.Context, logger *logrus.Entry, email, fullName string) {
	msg, err := s.composer.Welcome(email, fullName)
	if err != nil {
		logger.WithError(err).Error("failed to render welcome email")
		return
	}

	if err := s.mailer.Send(ctx, msg); err != nil {
		logger.WithError(err).Error("failed to send welcome email")
		return
	}

	logger.Debug("welcome email sent")
}

func fullNameFromAttributes(attrs []ctypes.AttributeType) string {
	var given, family string
	for _, attr := range attrs {
		switch aws.ToString(attr.Name) {
		case "given_name":
			given = aws.ToString(attr.Value)
		case "family_name":
			family = aws.ToString(attr.Value)
		}
	}
	return strings.TrimSpace(given + " " + family)
}

func (s *Service) handlePostLogout(w http.ResponseWriter, r *http.Request) {
	s.clearAccessTokenCookie(w)
	s.clearRedirectCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// localPath accepts only same-origin absolute paths for post-login redirects.
func localPath(path string) (string, bool) {
	if !strings.HasPrefix(path, "/") || strings.HasPrefix(path, "//") || strings.HasPrefix(path, "/\\") {
		return "", false
	}
	return path, true
}

func (s *Service) setRedirectCookie(w http.ResponseWriter, path string, age time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     internal.COOKIE_REDIRECT_NAME,
		Value:    path,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   int(age.Seconds()),
	})
}

func (s *Service) clearRedirectCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     internal.COOKIE_REDIRECT_NAME,
		Value:    "",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   -1,
	})
}

func (s *Service) clearAccessTokenCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     internal.COOKIE_ACCESS_TOKEN_NAME,
		Value:    "",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   -1,
	})
}
