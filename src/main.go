package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "learnhub-backend/docs"
	"learnhub-backend/src/config"
	"learnhub-backend/src/controllers"
	"learnhub-backend/src/database"
	"learnhub-backend/src/jobs"
	"learnhub-backend/src/logger"
	"learnhub-backend/src/middleware"
	"learnhub-backend/src/notify"
	"learnhub-backend/src/routes"
	"learnhub-backend/src/services/categories"
	"learnhub-backend/src/services/courses"
	"learnhub-backend/src/services/seed"
	"learnhub-backend/src/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// @title        LearnHub Course API
// @version      1.0
// @description  Course catalogue, enrollment and rating service.
// @BasePath     /api/v1
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	seedOnly := flag.Bool("seed", false, "insert sample users and categories, print their tokens and exit")
	seedOut := flag.String("seed-out", "", "also write seeded tokens to this file")
	flag.Parse()

	cfg, err := config.Load(".")
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	log := logger.Must(cfg.IsProduction())
	defer func() { _ = log.Sync() }()

	ctx := context.Background()
	db, err := database.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDatabase, log)
	if err != nil {
		log.Fatal("mongodb", zap.Error(err))
	}
	if err := database.EnsureIndexes(ctx, db); err != nil {
		log.Fatal("ensure indexes", zap.Error(err))
	}

	jwtIssuer := utils.NewJWT(cfg.JWTSecret, cfg.JWTTTL)
	if *seedOnly {
		creds, err := seed.NewSeeder(database.UserCollection, database.CategoryCollection, jwtIssuer, log).Run(ctx)
		if err != nil {
			log.Fatal("seed", zap.Error(err))
		}
		fmt.Print(seed.Format(creds))
		if *seedOut != "" {
			if err := seed.SaveToFile(creds, *seedOut); err != nil {
				log.Fatal("seed", zap.Error(err))
			}
		}
		_ = database.DisconnectMongoDB(ctx)
		return
	}

	redisClient, err := database.InitRedis(ctx, cfg.RedisURI)
	if err != nil {
		log.Warn("redis unavailable, caching and rate limiting disabled", zap.Error(err))
	}
	cache := utils.NewCache(redisClient, log)

	asynqClient, err := database.InitAsynq(cfg.RedisURI)
	if err != nil {
		log.Warn("asynq client disabled", zap.Error(err))
	}
	var worker *asynq.Server
	if asynqClient != nil && redisClient != nil {
		opt, _ := database.AsynqRedisOpt(cfg.RedisURI)
		worker = jobs.NewServer(opt)
		var sender notify.Sender
		if smtp := notify.NewSMTPSender(cfg.SMTP()); smtp != nil {
			sender = smtp
		} else {
			log.Info("SMTP not configured, enrollment emails disabled")
		}
		mux := jobs.NewServeMux(
			jobs.NewRatingRefresher(database.CourseCollection, log),
			jobs.NewEnrollmentMailer(database.CourseCollection, database.UserCollection, sender, cfg.PublicURL, log),
		)
		if err := worker.Start(mux); err != nil {
			log.Error("asynq worker not started", zap.Error(err))
			worker = nil
		}
	}

	enqueuer := jobs.NewEnqueuer(asynqClient)
	categorySvc := categories.NewService(database.CategoryCollection, cache, log)
	courseSvc := courses.NewService(
		courses.NewMongoStore(db),
		categorySvc,
		log,
		courses.WithCache(cache, cfg.CacheTTL),
		courses.WithRatingEnqueuer(enqueuer),
		courses.WithEnrollmentNotifier(enqueuer),
	)

	app := fiber.New(fiber.Config{
		AppName:      "learnhub-backend",
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	})
	app.Use(recover.New())
	app.Use(middleware.RequestLogger(log))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Origins(),
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Request-ID",
	}))

	routes.InitRoutes(app, routes.Deps{
		Courses:     controllers.NewCourseController(courseSvc, log),
		Categories:  controllers.NewCategoryController(categorySvc),
		AdminJobs:   controllers.NewAdminJobsController(enqueuer, log),
		Health:      controllers.Health(db.Client()),
		JWT:         jwtIssuer,
		RateLimiter: middleware.NewRateLimiter(redisClient, log),
		RateLimit:   cfg.RateLimit,
		RateWindow:  cfg.RateWindow,
	})

	go func() {
		log.Info("server listening", zap.String("port", cfg.Port))
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatal("listen", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error("server shutdown", zap.Error(err))
	}
	if worker != nil {
		worker.Shutdown()
	}
	if asynqClient != nil {
		_ = asynqClient.Close()
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := database.DisconnectMongoDB(shutdownCtx); err != nil {
		log.Error("mongodb disconnect", zap.Error(err))
	}
}
