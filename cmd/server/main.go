package main

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/shelterops/facility-checkins/internal/config"
	"github.com/shelterops/facility-checkins/internal/database"
	"github.com/shelterops/facility-checkins/internal/handler"
	"github.com/shelterops/facility-checkins/internal/middleware"
	"github.com/shelterops/facility-checkins/internal/repository"
	"github.com/shelterops/facility-checkins/internal/router"
	"github.com/shelterops/facility-checkins/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable, rate limiting disabled")
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	facilities := repository.NewFacilityRepo(db)
	guests := repository.NewGuestRepo(db)
	checkins := repository.NewCheckinRepo(db)
	templates := repository.NewTemplateRepo(db)

	tokenSvc := service.NewTokenService(users, tokens,
		time.Duration(cfg.AccessTTLMin)*time.Minute,
		time.Duration(cfg.RefreshTTLDays)*24*time.Hour)

	e := echo.New()
	router.Register(e, router.Handlers{
		Auth:       middleware.NewAuthorizer(tokens, facilities),
		Tokens:     handler.NewTokenHandler(tokenSvc),
		Facilities: handler.NewFacilityHandler(facilities),
		Guests:     handler.NewGuestHandler(guests),
		Checkins:   handler.NewCheckinHandler(checkins),
		Templates:  handler.NewTemplateHandler(templates),
		Users:      handler.NewUserHandler(users, cfg.BcryptCost),
	}, rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
