package types

type Config struct {
	Environment     string `envconfig:"ENVIRONMENT" default:"development"`
	ServerPort      uint   `envconfig:"SERVER_PORT" default:"4000"`
	DatabaseURL     string `envconfig:"DATABASE_URL"`
	ReadTimeoutSec  uint   `envconfig:"READ_TIMEOUT_SEC" default:"10"`
	WriteTimeoutSec uint   `envconfig:"WRITE_TIMEOUT_SEC" default:"15"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	// Optional; when set, logs are also written to a rotating file
	LogFile string `envconfig:"LOG_FILE"`

	// Issuer of the bearer tokens; keys are read from {issuer}/.well-known/jwks.json
	AuthIssuerURL string `envconfig:"AUTH_ISSUER_URL"`

	// Placeholder point assigned to approved submissions. No geocoding happens,
	// so every approved listing lands here until an admin moves it.
	DefaultLatitude  float64 `envconfig:"DEFAULT_LATITUDE" default:"38.8906"`
	DefaultLongitude float64 `envconfig:"DEFAULT_LONGITUDE" default:"-90.1843"`

	// Overrides for the normalizer tables, comma separated
	CategoryPriority   []string `envconfig:"CATEGORY_PRIORITY"`
	FoodOnsiteKeywords []string `envconfig:"FOOD_ONSITE_KEYWORDS"`

	SuggesterURL        string `envconfig:"SUGGESTER_URL"`
	SuggesterTimeoutSec uint   `envconfig:"SUGGESTER_TIMEOUT_SEC" default:"15"`

	ExportBucket string `envconfig:"EXPORT_BUCKET"`
}
