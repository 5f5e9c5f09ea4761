package types

type Config struct {
	Environment     string `envconfig:"ENVIRONMENT" default:"development"`
	LogLevel        string `envconfig:"LOG_LEVEL" default:"info"`
	ServerPort      uint   `envconfig:"SERVER_PORT" default:"8080"`
	DatabaseURL     string `envconfig:"DATABASE_URL"`
	ReadTimeoutSec  uint   `envconfig:"READ_TIMEOUT_SEC" default:"10"`
	WriteTimeoutSec uint   `envconfig:"WRITE_TIMEOUT_SEC" default:"30"`

	// Public base URL used in links inside emails
	SiteURL string `envconfig:"SITE_URL" default:"http://localhost:8080"`

	// Cognito Auth
	CognitoUserPoolID string `envconfig:"COGNITO_USER_POOL_ID"`
	CognitoClientID   string `envconfig:"COGNITO_CLIENT_ID"`
	CognitoIssuerURL  string `envconfig:"COGNITO_ISSUER_URL"`

	// Cookie encryption keys (base64 encoded)
	// openssl rand -base64 32
	// to generate values
	CookieHashKey  string `envconfig:"COOKIE_HASH_KEY"`  // 32 or 64 bytes
	CookieBlockKey string `envconfig:"COOKIE_BLOCK_KEY"` // 16, 24, or 32 bytes

	// Resume file storage: s3, supabase or inline
	StorageBackend    string `envconfig:"STORAGE_BACKEND" default:"inline"`
	S3BucketName      string `envconfig:"S3_BUCKET_NAME"`
	SupabaseProjectID string `envconfig:"SUPABASE_PROJECT_ID"`
	SupabaseAPIKey    string `envconfig:"SUPABASE_API_KEY"`
	SupabaseBucket    string `envconfig:"SUPABASE_BUCKET" default:"resumes"`

	// Transactional email: ses, resend or log
	MailProvider string `envconfig:"MAIL_PROVIDER" default:"log"`
	MailFrom     string `envconfig:"MAIL_FROM" default:"Resume Radar <onboarding@resend.dev>"`
	ResendAPIKey string `envconfig:"RESEND_API_KEY"`

	LeaderboardLimit uint64 `envconfig:"LEADERBOARD_LIMIT" default:"100"`
}
