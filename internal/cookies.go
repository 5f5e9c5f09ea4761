package internal

const (
	COOKIE_ACCESS_TOKEN_NAME = "resumeradar_access_token"
	COOKIE_REDIRECT_NAME     = "resumeradar_redirect"
)
