package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cinecore/cine-auth/pkg/authn"
	"github.com/cinecore/cine-auth/pkg/login"
	"github.com/cinecore/cine-auth/pkg/oauth"
	"github.com/cinecore/cine-auth/pkg/token"
	"github.com/cinecore/cine-auth/pkg/tokenstore"
	"github.com/cinecore/cine-auth/pkg/user"
)

type DbConfig struct {
	Host     string `env:"AUTH_PG_HOST" env-default:"localhost"`
	Port     uint16 `env:"AUTH_PG_PORT" env-default:"5432"`
	Database string `env:"AUTH_PG_DATABASE" env-default:"auth_db"`
	User     string `env:"AUTH_PG_USER" env-default:"auth"`
	Password string `env:"AUTH_PG_PASSWORD" env-default:"pwd"`
}

func (d DbConfig) toConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s",
		d.User, d.Password, d.Host, d.Port, d.Database)
}

type RedisConfig struct {
	Addr     string `env:"AUTH_REDIS_ADDR" env-default:"localhost:6379"`
	Password string `env:"AUTH_REDIS_PASSWORD" env-default:""`
	Db       int    `env:"AUTH_REDIS_DB" env-default:"0"`
}

type JwtConfig struct {
	Secret             string `env:"JWT_SECRET" env-default:"very-secure-jwt-secret"`
	AccessTimeoutMs    int64  `env:"TOKEN_ACCESS_TIMEOUT_MS" env-default:"600000"`
	RefreshTimeoutDays int    `env:"TOKEN_REFRESH_TIMEOUT_DAYS" env-default:"14"`
	CookieHttpOnly     bool   `env:"COOKIE_HTTP_ONLY" env-default:"true"`
	CookieSecure       bool   `env:"COOKIE_SECURE" env-default:"false"`
}

type Config struct {
	DbConfig    DbConfig
	RedisConfig RedisConfig
	JwtConfig   JwtConfig
	Addr        string `env:"LISTEN_ADDR" env-default:":8080"`
}

func main() {
	config := Config{}
	cleanenv.ReadEnv(&config)

	ctx := context.Background()

	pool, err := pgxpool.New(ctx, config.DbConfig.toConnString())
	if err != nil {
		slog.Error("Failed creating db pool", "db", config.DbConfig.Database,
			"host", config.DbConfig.Host, "port", config.DbConfig.Port, "err", err)
		os.Exit(-1)
	}

	store, err := tokenstore.NewRedisStoreFromAddr(ctx,
		config.RedisConfig.Addr, config.RedisConfig.Password, config.RedisConfig.Db)
	if err != nil {
		slog.Error("Failed connecting to redis", "addr", config.RedisConfig.Addr, "err", err)
		os.Exit(-1)
	}

	users := user.NewService(user.NewPgRepository(pool))

	accessTTL := time.Duration(config.JwtConfig.AccessTimeoutMs) * time.Millisecond
	refreshTTL := time.Duration(config.JwtConfig.RefreshTimeoutDays) * 24 * time.Hour
	codec := token.NewCodec(config.JwtConfig.Secret, accessTTL, refreshTTL, store)
	tokens := token.NewService(codec, store, users)

	loginHandle := login.NewHandle(users, tokens,
		login.WithCookieHttpOnly(config.JwtConfig.CookieHttpOnly),
		login.WithCookieSecure(config.JwtConfig.CookieSecure),
	)
	oauthHandle := oauth.NewHandle(oauth.NewService(users, tokens),
		oauth.WithCookieHttpOnly(config.JwtConfig.CookieHttpOnly),
		oauth.WithCookieSecure(config.JwtConfig.CookieSecure),
	)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		render.PlainText(w, r, http.StatusText(http.StatusOK))
	})

	// Provider callbacks authenticate by payload, not by token.
	r.Group(func(r chi.Router) {
		oauthHandle.RegisterRoutes(r)
	})

	r.Group(func(r chi.Router) {
		r.Use(authn.Middleware(tokens, login.WhitelistedPaths...))
		loginHandle.RegisterRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(authn.RequireAuth)
			r.Get("/me", func(w http.ResponseWriter, r *http.Request) {
				principal, err := authn.PrincipalFrom(r)
				if err != nil {
					authn.WriteError(w, r, err)
					return
				}
				u, err := users.GetByEmail(r.Context(), principal.Email)
				if err != nil {
					authn.WriteError(w, r, err)
					return
				}
				render.JSON(w, r, u.WithoutCredentials())
			})
		})
	})

	slog.Info("Starting auth service", "addr", config.Addr)
	if err := http.ListenAndServe(config.Addr, r); err != nil {
		slog.Error("Server stopped", "err", err)
		os.Exit(-1)
	}
}
