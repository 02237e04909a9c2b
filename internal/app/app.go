package app

import (
	"authstation/internal/app/deps"
	"authstation/internal/app/services"
	"authstation/internal/http/handlers/auth"
	loginwithemail "authstation/internal/http/handlers/auth/log_in_with_email"
	logout "authstation/internal/http/handlers/auth/log_out"
	refreshaccesstoken "authstation/internal/http/handlers/auth/refresh_access_token"
	resetpassword "authstation/internal/http/handlers/auth/reset_password"
	sendpasswordresettoken "authstation/internal/http/handlers/auth/send_password_reset_token"
	signupwithemail "authstation/internal/http/handlers/auth/sign_up_with_email"
	changepassword "authstation/internal/http/handlers/profile/change_password"
	"fmt"
	"net/http"
	"time"

	sentryhttp "github.com/getsentry/sentry-go/http"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func InitHttpServer(deps *deps.Deps, s *services.Services) *http.Server {
	isTestMode := deps.Config.IsTestMode

	authRouter := chi.NewRouter()
	authRouter.Method(http.MethodPost, "/signup", signupwithemail.New(s.SignUpWithEmail))
	authRouter.Method(http.MethodPost, "/login", loginwithemail.New(s.LogInWithEmail))
	authRouter.With(auth.SetAccessTokenToContext).Method(http.MethodPost, "/logout", logout.New(s.LogOut))
	authRouter.Method(http.MethodPost, "/token/refresh", refreshaccesstoken.New(s.RefreshAccessToken))
	authRouter.Method(
		http.MethodPost,
		"/forgot-password",
		sendpasswordresettoken.New(s.SendPasswordResetToken, isTestMode),
	)
	authRouter.Method(http.MethodPost, "/reset-password", resetpassword.New(s.ResetPassword))

	profileRouter := chi.NewRouter()
	profileRouter.Use(auth.SetAccessTokenToContext)
	profileRouter.Method(http.MethodPut, "/password", changepassword.New(s.ChangePassword))

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	if deps.Config.SentryDsn != nil {
		router.Use(sentryhttp.New(sentryhttp.Options{Repanic: true}).Handle)
	}
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Config.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))
	router.Mount("/auth", authRouter)
	router.Mount("/profile", profileRouter)

	address := fmt.Sprintf("0.0.0.0:%d", deps.Config.Port)

	return &http.Server{
		Handler:           router,
		Addr:              address,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
