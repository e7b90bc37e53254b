package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"maternity/internal/cache"
	"maternity/internal/config"
	"maternity/internal/database"
	"maternity/internal/domain/account"
	"maternity/internal/domain/appointment"
	"maternity/internal/domain/caregiver"
	"maternity/internal/domain/review"
	"maternity/internal/domain/session"
	"maternity/internal/domain/social"
	"maternity/internal/domain/verification"
	"maternity/internal/media"
	"maternity/internal/middleware"
	"maternity/internal/pkg/jwt"
	"maternity/internal/pkg/response"
)

func newRouter(cfg *config.Config, log zerolog.Logger, db *gorm.DB, store cache.Store, files media.Store) *gin.Engine {
	if cfg.IsProdLike() {
		gin.SetMode(gin.ReleaseMode)
	}

	tokens := jwt.New(cfg.JWTSecret, cfg.JWTTTL)

	caregiverRepo := caregiver.NewRepository(db)
	matcher := caregiver.NewMatcher(caregiverRepo, store, log)

	accountSvc := account.NewService(account.NewRepository(db), tokens, matcher, log)
	caregiverSvc := caregiver.NewService(caregiverRepo, matcher, matcher, log)
	reviewSvc := review.NewService(review.NewRepository(db), matcher, log)
	appointmentSvc := appointment.NewService(appointment.NewRepository(db), log)
	sessionSvc := session.NewService(session.NewRepository(db), log)
	verificationSvc := verification.NewService(verification.NewRepository(db), files, log)
	socialSvc := social.NewService(social.NewRepository(db), log)

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Recovery(log),
		middleware.RequestLogger(log),
		middleware.CORS(cfg.CORSOrigins),
		middleware.QueryTimeout(cfg.DBQueryTimeout),
	)

	r.GET("/healthz", func(c *gin.Context) {
		if err := database.Ping(c.Request.Context(), db); err != nil {
			log.Error().Err(err).Msg("health check: database unreachable")
			response.Error(c, http.StatusServiceUnavailable, "UNAVAILABLE", "database unreachable")
			return
		}
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")
	protected := v1.Group("")
	protected.Use(middleware.Authenticate(tokens, accountSvc))
	internal := v1.Group("/internal")
	internal.Use(middleware.InternalTokenAuth(cfg.InternalToken, log))

	account.NewHandler(accountSvc).RegisterRoutes(v1, protected)
	caregiver.NewHandler(caregiverSvc).RegisterRoutes(v1, protected)
	review.NewHandler(reviewSvc).RegisterRoutes(v1, protected)
	appointment.NewHandler(appointmentSvc).RegisterRoutes(protected)
	session.NewHandler(sessionSvc).RegisterRoutes(protected)
	verification.NewHandler(verificationSvc).RegisterRoutes(protected, internal)
	social.NewHandler(socialSvc).RegisterRoutes(v1, protected)

	return r
}
