package server

import (
	"context"
	"errors"
	"net/http"
	"net/mail"
	"net/url"
	"regexp"
	"strings"

	"resumeradar/pkg/types"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	ctypes "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
)

const confirmCodeSentMessage = "We sent a confirmation code to your email address."

func (s *Service) handleGetRegister(w http.ResponseWriter, r *http.Request) {
	if principalFromContext(r.Context()) != nil {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	s.render(w, r, "page.register", &types.RegisterPageData{
		BasePageData: s.basePageData(r, "Create Account"),
	})
}

// handlePostRegister signs the applicant up with Cognito and records the
// users row straight away, so the account exists before the first login.
func (s *Service) handlePostRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	data := &types.RegisterPageData{BasePageData: s.basePageData(r, "Create Account")}

	var f registerForm
	if err := r.ParseForm(); err != nil || decodeForm(&f, r.PostForm) != nil {
		data.Error = "Invalid form payload."
		s.renderStatus(w, r, http.StatusBadRequest, "page.register", data)
		return
	}
	f.normalize()

	data.GivenName = f.GivenName
	data.FamilyName = f.FamilyName
	data.Email = f.Email

	data.FieldErrors = f.validate()
	if len(data.FieldErrors) > 0 {
		s.logger.WithField("fields", keys(data.FieldErrors)).Info("registration rejected by validation")

		data.Error = "Please fix the highlighted fields."
		s.renderStatus(w, r, http.StatusUnprocessableEntity, "page.register", data)
		return
	}

	out, err := s.cognitoClient.SignUp(ctx, f.signUpInput(s.config.CognitoClientID))
	if err != nil {
		s.logger.WithError(err).WithField("email", f.Email).Warn("cognito sign up failed")

		data.Error, data.FieldErrors = s.mapCognitoSignUpError(err)
		s.renderStatus(w, r, http.StatusUnprocessableEntity, "page.register", data)
		return
	}

	if sub := aws.ToString(out.UserSub); sub != "" {
		s.recordRegistration(ctx, sub, f.Email, f.fullName())
	}

	http.Redirect(w, r, "/register/confirm?email="+queryEscape(f.Email), http.StatusSeeOther)
}

// recordRegistration is best-effort: login upserts the same row if this
// write is lost.
func (s *Service) recordRegistration(ctx context.Context, userID, email, fullName string) {
	logger := s.logger.WithField("user_id", userID)

	if _, err := s.userRepo.UpsertIdentity(ctx, userID, email); err != nil {
		logger.WithError(err).Error("failed to record registered user")
		return
	}

	if err := s.userRepo.UpdateFullName(ctx, userID, fullName); err != nil {
		logger.WithError(err).Warn("failed to store registered name")
	}

	logger.Info("user registered")
}

func (s *Service) handleGetRegisterConfirm(w http.ResponseWriter, r *http.Request) {
	message := confirmCodeSentMessage
	if r.URL.Query().Get("resent") == "true" {
		message = "We sent you a new confirmation code."
	}

	s.render(w, r, "page.register.confirm", &types.ConfirmRegisterPageData{
		BasePageData: s.basePageData(r, "Confirm Your Account"),
		Email:        strings.TrimSpace(r.URL.Query().Get("email")),
		Message:      message,
	})
}

// handlePostRegisterConfirm verifies the emailed code and welcomes the new
// user. Welcome delivery never blocks the redirect to login.
func (s *Service) handlePostRegisterConfirm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var f confirmForm
	_ = r.ParseForm()
	if err := decodeForm(&f, r.PostForm); err != nil {
		s.logger.WithError(err).Debug("failed to decode confirm form")
	}
	f.Email = strings.TrimSpace(f.Email)
	f.Code = strings.TrimSpace(f.Code)

	data := &types.ConfirmRegisterPageData{
		BasePageData: s.basePageData(r, "Confirm Your Account"),
		Email:        f.Email,
	}

	if f.Email == "" || f.Code == "" {
		data.Error = "Email and confirmation code are required."
		s.renderStatus(w, r, http.StatusUnprocessableEntity, "page.register.confirm", data)
		return
	}

	_, err := s.cognitoClient.ConfirmSignUp(ctx, &cognitoidentityprovider.ConfirmSignUpInput{
		ClientId:         aws.String(s.config.CognitoClientID),
		Username:         aws.String(f.Email),
		ConfirmationCode: aws.String(f.Code),
	})
	if err != nil {
		s.logger.WithError(err).WithField("email", f.Email).Info("cognito confirmation failed")

		data.Error = confirmErrorMessage(err)
		s.renderStatus(w, r, http.StatusUnprocessableEntity, "page.register.confirm", data)
		return
	}

	s.welcomeConfirmedUser(ctx, f.Email)

	v := url.Values{}
	v.Set("confirmed", "true")
	v.Set("email", f.Email)

	http.Redirect(w, r, "/login?"+v.Encode(), http.StatusSeeOther)
}

func (s *Service) welcomeConfirmedUser(ctx context.Context, email string) {
	ctx = context.WithoutCancel(ctx)
	logger := s.logger.WithField("email", email)

	var fullName string
	user, err := s.userRepo.UserByEmail(ctx, email)
	switch {
	case err == nil:
		fullName = user.FullName.OrZero()
		logger = logger.WithField("user_id", user.ID)
	case errors.Is(err, types.ErrUserNotFound):
		// Registered before rows were recorded at sign up; login backfills it.
	default:
		logger.WithError(err).Warn("failed to load confirmed user")
	}

	s.sendWelcome(ctx, logger, email, fullName)
}

func (s *Service) handlePostRegisterResend(w http.ResponseWriter, r *http.Request) {
	var f confirmForm
	_ = r.ParseForm()
	if err := decodeForm(&f, r.PostForm); err != nil {
		s.logger.WithError(err).Debug("failed to decode resend form")
	}
	email := strings.TrimSpace(f.Email)

	if email == "" {
		s.redirectWithError(w, r, "/register/confirm", "Enter your email address to get a new code.")
		return
	}

	back := "/register/confirm?email=" + queryEscape(email)

	_, err := s.cognitoClient.ResendConfirmationCode(r.Context(), &cognitoidentityprovider.ResendConfirmationCodeInput{
		ClientId: aws.String(s.config.CognitoClientID),
		Username: aws.String(email),
	})
	if err != nil {
		s.logger.WithError(err).WithField("email", email).Warn("failed to resend confirmation code")
		s.redirectWithError(w, r, back, confirmErrorMessage(err))
		return
	}

	http.Redirect(w, r, withQuery(back, "resent", "true"), http.StatusSeeOther)
}

func confirmErrorMessage(err error) string {
	var (
		codeMismatch  *ctypes.CodeMismatchException
		expiredCode   *ctypes.ExpiredCodeException
		notAuthorized *ctypes.NotAuthorizedException
		tooMany       *ctypes.LimitExceededException
	)

	switch {
	case errors.As(err, &codeMismatch):
		return "Invalid confirmation code. Please check the code and try again."
	case errors.As(err, &expiredCode):
		return "That code has expired. Request a new one below."
	case errors.As(err, &notAuthorized):
		return "This account is already confirmed. Please log in."
	case errors.As(err, &tooMany):
		return "Too many attempts. Please wait a moment and try again."
	default:
		return "Unable to confirm account. Please try again."
	}
}

var (
	hasUpperReg  = regexp.MustCompile(`[A-Z]`)
	hasLowerReg  = regexp.MustCompile(`[a-z]`)
	hasDigitReg  = regexp.MustCompile(`[0-9]`)
	hasSymbolReg = regexp.MustCompile(`[^A-Za-z0-9]`)
)

const minPasswordLength = 12

func (f *registerForm) normalize() {
	f.GivenName = strings.TrimSpace(f.GivenName)
	f.FamilyName = strings.TrimSpace(f.FamilyName)
	f.Email = strings.TrimSpace(f.Email)
}

func (f *registerForm) fullName() string {
	return strings.TrimSpace(f.GivenName + " " + f.FamilyName)
}

// validate expects a normalized form and returns messages keyed by field name.
func (f *registerForm) validate() map[string]string {
	errs := map[string]string{}

	if f.GivenName == "" {
		errs["given_name"] = "First name is required."
	}
	if f.FamilyName == "" {
		errs["family_name"] = "Last name is required."
	}
	if len(f.fullName()) > maxFullNameLength {
		errs["family_name"] = "Name is too long."
	}

	if f.Email == "" {
		errs["email"] = "Email is required."
	} else if _, err := mail.ParseAddress(f.Email); err != nil {
		errs["email"] = "Enter a valid email address."
	}

	if f.Password != f.ConfirmPassword {
		errs["confirm_password"] = "Passwords do not match."
	}

	strong := len(f.Password) >= minPasswordLength &&
		hasUpperReg.MatchString(f.Password) &&
		hasLowerReg.MatchString(f.Password) &&
		hasDigitReg.MatchString(f.Password) &&
		hasSymbolReg.MatchString(f.Password)
	if !strong {
		errs["password"] = "Password must be at least 12 characters and include uppercase, lowercase, number, and symbol."
	}

	return errs
}

// signUpInput uses the email as the Cognito username.
func (f *registerForm) signUpInput(clientID string) *cognitoidentityprovider.SignUpInput {
	return &cognitoidentityprovider.SignUpInput{
		ClientId: aws.String(clientID),
		Username: aws.String(f.Email),
		Password: aws.String(f.Password),
		UserAttributes: []ctypes.AttributeType{
			{Name: aws.String("email"), Value: aws.String(f.Email)},
			{Name: aws.String("given_name"), Value: aws.String(f.GivenName)},
			{Name: aws.String("family_name"), Value: aws.String(f.FamilyName)},
		},
	}
}

func (s *Service) mapCognitoSignUpError(err error) (string, map[string]string) {
	var (
		invalidPw    *ctypes.InvalidPasswordException
		userExists   *ctypes.UsernameExistsException
		invalidParam *ctypes.InvalidParameterException
	)

	switch {
	case errors.As(err, &invalidPw):
		return "Please fix the highlighted fields.", map[string]string{
			"password": "Password must include uppercase, lowercase, number, and symbol (min 12).",
		}
	case errors.As(err, &userExists):
		return "Try logging in instead.", map[string]string{
			"email": "An account with this email already exists.",
		}
	case errors.As(err, &invalidParam):
		return "Some details are invalid. Please review and try again.", map[string]string{}
	}

	s.logger.WithError(err).Error("unhandled cognito sign up error")

	return "Unable to create account right now. Please try again.", map[string]string{}
}

func keys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
