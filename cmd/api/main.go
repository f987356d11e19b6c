package main

import (
	"expvar"
	"fmt"
	"log"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"taktivent/internal/auth"
	"taktivent/internal/db"
	"taktivent/internal/domain/storage"
	"taktivent/internal/mailer"
	"taktivent/internal/media"
	"taktivent/internal/ratelimiter"
	"taktivent/internal/sharelink"
)

func getString(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}

func getInt(key string, fallback int) int {
	val, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		fmt.Printf("Invalid %s, defaulting to %d\n", key, fallback)
		return fallback
	}
	return n
}

func getBool(key string, fallback bool) bool {
	val, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		fmt.Printf("Invalid %s, defaulting to %t\n", key, fallback)
		return fallback
	}
	return b
}

// LoadRateLimiterConfig reads the review submission limiter settings.
func LoadRateLimiterConfig() ratelimiter.Config {
	return ratelimiter.Config{
		RequestsPerTimeFrame: getInt("RATELIMITER_REQUESTS_COUNT", 20),
		TimeFrame:            time.Duration(getInt("RATELIMITER_TIME_FRAME_SECONDS", 60)) * time.Second,
		Enabled:              getBool("RATE_LIMITER_ENABLED", true),
	}
}

// NewLogger creates a new zap logger with color.
func NewLogger() (*zap.SugaredLogger, error) {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder

	consoleEncoder := zapcore.NewConsoleEncoder(encoderCfg)

	level := zapcore.InfoLevel
	if lvl, ok := os.LookupEnv("LOG_LEVEL"); ok {
		if err := level.UnmarshalText([]byte(lvl)); err != nil {
			return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", lvl, err)
		}
	}

	core := zapcore.NewCore(consoleEncoder, zapcore.AddSync(os.Stdout), level)

	return zap.New(core).Sugar(), nil
}

var version = "1.0.0"

//	@title			Taktivent API
//	@description	Concert programmes, audience reviews and analytics.

//	@contact.name	API Support
//	@contact.email	support@taktivent.com

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@BasePath					/v1
//	@securityDefinitions.apikey	ApiKeyAuth
//	@in							header
//	@name						Authorization
//	@description

//	@securityDefinitions.basic	BasicAuth

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	cfg := config{
		addr:        getString("ADDR", ":8080"),
		env:         getString("ENV", "development"),
		frontendURL: getString("FRONTEND_URL", "http://localhost:3000"),
		apiURL:      getString("EXTERNAL_URL", "localhost:8080"),
		db: dbConfig{
			addr:        os.Getenv("DB_ADDR"),
			maxConns:    int32(getInt("DB_MAX_CONNS", 30)),
			maxIdleTime: getString("DB_MAX_IDLE_TIME", "15m"),
		},
		mail: mailConfig{
			resetExp:  time.Hour,
			fromEmail: getString("MAIL_FROM_EMAIL", "noreply@taktivent.com"),
			smtp: smtpConfig{
				host:     os.Getenv("SMTP_HOST"),
				port:     getInt("SMTP_PORT", 587),
				username: os.Getenv("SMTP_USERNAME"),
				password: os.Getenv("SMTP_PASSWORD"),
			},
		},
		auth: authConfig{
			basic: basicConfig{
				user: os.Getenv("AUTH_BASIC_USER"),
				pass: os.Getenv("AUTH_BASIC_PASS"),
			},
			token: tokenConfig{
				refreshSecret:   os.Getenv("AUTH_TOKEN_REFRESH_SECRET"),
				secret:          os.Getenv("AUTH_TOKEN_SECRET"),
				accessTokenExp:  time.Hour * 24,      // 1 day
				refreshTokenExp: time.Hour * 24 * 14, // 14 days
				iss:             "taktivent",
			},
		},
		rateLimiter: LoadRateLimiterConfig(),
		shareSalt:   getString("SHARE_SALT", "taktivent"),
	}

	logger, err := NewLogger()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	if cfg.auth.token.secret == "" || cfg.auth.token.refreshSecret == "" {
		logger.Fatal("AUTH_TOKEN_SECRET and AUTH_TOKEN_REFRESH_SECRET must be set")
	}

	// Database
	pool, err := db.New(cfg.db.addr, cfg.db.maxConns, cfg.db.maxIdleTime)
	if err != nil {
		logger.Fatal(err)
	}
	defer pool.Close()
	logger.Info("database connection pool established")

	store := storage.NewContainer(pool)

	cld, err := cloudinary.NewFromURL(os.Getenv("CLOUDINARY_URL"))
	if err != nil {
		logger.Fatal(err)
	}
	cfg.cloudinary = media.CredentialsOf(cld)

	smtp, err := mailer.NewSMTPClient(
		cfg.mail.smtp.host,
		cfg.mail.smtp.port,
		cfg.mail.smtp.username,
		cfg.mail.smtp.password,
		cfg.mail.fromEmail,
	)
	if err != nil {
		logger.Fatal(err)
	}

	rateLimiter := ratelimiter.NewFixedWindowLimiter(
		cfg.rateLimiter.RequestsPerTimeFrame,
		cfg.rateLimiter.TimeFrame,
	)

	jwtAuthenticator := auth.NewJWTAuthenticator(
		cfg.auth.token.secret,
		cfg.auth.token.refreshSecret,
		cfg.auth.token.iss,
		cfg.auth.token.accessTokenExp,
		cfg.auth.token.refreshTokenExp,
	)

	share, err := sharelink.New(cfg.shareSalt, cfg.frontendURL)
	if err != nil {
		logger.Fatal(err)
	}

	app := &application{
		config:        cfg,
		logger:        logger,
		store:         store,
		media:         media.NewService(media.NewCloudinary(cld), logger),
		mailer:        smtp,
		authenticator: jwtAuthenticator,
		rateLimiter:   rateLimiter,
		share:         share,
		now:           time.Now,
	}

	//Metrics collected http://localhost:8080/v1/debug/vars
	expvar.NewString("version").Set(version)
	expvar.Publish("database", expvar.Func(func() any {
		s := pool.Stat()
		return map[string]int64{
			"acquired":      int64(s.AcquiredConns()),
			"idle":          int64(s.IdleConns()),
			"total":         int64(s.TotalConns()),
			"acquire_count": s.AcquireCount(),
		}
	}))
	expvar.Publish("goroutines", expvar.Func(func() any {
		return runtime.NumGoroutine()
	}))

	mux := app.mount()

	logger.Fatal(app.run(mux))
}
