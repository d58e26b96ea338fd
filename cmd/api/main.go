package main

import (
	appcontext "github.com/Vathanak-H/ScholarAward/internal/app_context"
	"github.com/Vathanak-H/ScholarAward/internal/auth"
	"github.com/Vathanak-H/ScholarAward/internal/cache"
	"github.com/Vathanak-H/ScholarAward/internal/config"
	"github.com/Vathanak-H/ScholarAward/internal/controller"
	"github.com/Vathanak-H/ScholarAward/internal/database"
	"github.com/Vathanak-H/ScholarAward/internal/env"
	filestorage "github.com/Vathanak-H/ScholarAward/internal/file_storage"
	"github.com/Vathanak-H/ScholarAward/internal/mailer"
	"github.com/Vathanak-H/ScholarAward/internal/middleware"
	"github.com/Vathanak-H/ScholarAward/internal/queue"
	ratelimiter "github.com/Vathanak-H/ScholarAward/internal/rate_limiter"
	"github.com/Vathanak-H/ScholarAward/internal/repository"
	"github.com/Vathanak-H/ScholarAward/internal/route"
	"github.com/Vathanak-H/ScholarAward/internal/util"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// this function run before main
func init() {
	env.LoadEnv(".env")
}

func main() {
	cfg := config.GetConfig()

	logger := util.NewLogger(cfg.ENV)
	logger.Debugf("Configuration: %+v \n", cfg)

	db, err := database.ConnectReturnGormDB(cfg.DB)
	if err != nil {
		logger.Panic(err)
	}

	sqlDb, err := db.DB()
	if err != nil {
		logger.Panic(err)
	}
	defer sqlDb.Close()
	logger.Info("Database connected \n")

	s3, err := filestorage.NewMinioClient(&cfg.Minio)
	if err != nil {
		logger.Error("Error connecting to minio")
		logger.Panic(err)
	}

	var rubricCache *cache.RubricCache
	if cfg.Redis.Enabled {
		redisClient, err := cache.OpenRedis(cfg.Redis.ADDR, cfg.Redis.DB)
		if err != nil {
			logger.Errorf("Error connecting to redis, rubric caching disabled: %v", err)
		} else {
			defer redisClient.Close()
			rubricCache = cache.NewRubricCache(redisClient, logger)
			logger.Info("Redis connected \n")
		}
	}

	var rabbitMQ *queue.RabbitMQ
	if cfg.RabbitMQ.Enabled {
		rabbitMQ, err = queue.NewRabbitMQ(cfg.RabbitMQ.URL)
		if err != nil {
			logger.Errorf("Error connecting to rabbitmq, async jobs disabled: %v", err)
			rabbitMQ = nil
		} else {
			defer rabbitMQ.Close()
			logger.Info("RabbitMQ connected \n")
		}
	}

	// Custom validation
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := v.RegisterValidation("strNotEmpty", util.StrNotEmpty); err != nil {
			return
		}
		if err = v.RegisterValidation("cmin", util.CustomMin); err != nil {
			return
		}
		if err = v.RegisterValidation("cmax", util.CustomMax); err != nil {
			return
		}
	}

	rateLimiter := ratelimiter.NewRateLimiter(cfg.RateLimiter, logger)
	mail := mailer.NewSendgrid(cfg.Mail.SEND_GRID.API_KEY, cfg.Mail.FROM_EMAIL, cfg.IsProduction(), logger)
	jwtService := auth.NewJwt(cfg.Auth, logger)
	repo := repository.NewRepository(db, logger, rubricCache)
	app := appcontext.Application{
		Config:     &cfg,
		Repository: repo,
		Logger:     logger,
		Mailer:     mail,
		JWTService: jwtService,
		S3:         s3,
		Queue:      rabbitMQ,
	}

	_middleware := middleware.NewMiddleware(&app, rateLimiter)

	if cfg.IsProduction() {
		logger.Info("Running in production mode")
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()

	// docs: https://github.com/gin-contrib/cors?tab=readme-ov-file#using-defaultconfig-as-start-point
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "X-Requested-With", "Accept"}
	r.Use(cors.New(corsConfig))
	r.Use(_middleware.RateLimiterMiddleware)

	_controller := controller.NewController(&app)

	r.GET("/", _controller.Index.Index)

	rApi := r.Group("/api")

	route.V1_Auth(rApi, _controller.Auth, _middleware)
	route.V1_Me(rApi, _controller.Application, _controller.User, _middleware)
	route.V1_Applications(rApi, _controller.Application, _middleware)
	route.V1_Categories(rApi, _controller.Category, _middleware)
	route.V1_Batches(rApi, _controller.Batch, _controller.Ranking, _middleware)
	route.V1_Files(rApi, _controller.Upload, _middleware)
	route.V1_Announcements(rApi, _controller.Announcement, _middleware)
	route.V1_Users(rApi, _controller.User, _middleware)

	if err := r.Run("0.0.0.0:" + app.Config.Port); err != nil {
		logger.Panicf("Error running server: %v \n", err)
	}
}
