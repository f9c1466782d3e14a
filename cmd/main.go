package main

import (
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gin-gonic/gin"

	"penquan/config"
	"penquan/internal/auth"
	myvalidator "penquan/internal/validator"
	"penquan/pkg/logger"
	"penquan/service"
	"penquan/upstream"
	"penquan/web"
)

func main() {
	_ = godotenv.Load()

	// 初始化配置
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "."
	}
	config.InitConfig(configPath)
	config.InitRedis()
	cfg := config.GlobalConfig

	zlog, err := logger.New(os.Getenv("DEBUG") != "")
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer zlog.Sync()

	// 注册自定义校验器
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := v.RegisterValidation("mobile", myvalidator.IsMobile); err != nil {
			panic(err)
		}
	}

	// 上游 API 客户端与各资源访问器
	client := upstream.NewClient(cfg.Upstream.BaseURL,
		time.Duration(cfg.Upstream.TimeoutSeconds)*time.Second, zlog)
	authAPI := upstream.NewAuthAPI(client)
	userAPI := upstream.NewUserAPI(client)
	bookAPI := upstream.NewBookAPI(client)
	postAPI := upstream.NewPostAPI(client)

	sessions := auth.NewSessionManager(config.RedisClient,
		time.Duration(cfg.Session.TTLHours)*time.Hour)

	authSvc := service.NewAuthService(authAPI, sessions,
		time.Duration(cfg.Session.CodeCooldownSeconds)*time.Second, zlog)
	listings := service.NewListingService(postAPI, bookAPI, zlog)
	posts := service.NewPostService(postAPI, zlog)
	profile := service.NewProfileService(userAPI, sessions, zlog)

	handlers := web.NewHandlers(cfg, zlog, sessions, authSvc, listings, posts, profile, bookAPI)

	r := web.NewEngine(cfg.Server.Templates)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	web.Register(r, handlers, config.RedisClient)

	if err := r.Run(cfg.Server.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
