package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/yizeng/gab/gin/lotto/docs"
	v1 "github.com/yizeng/gab/gin/lotto/internal/api/handler/v1"
	"github.com/yizeng/gab/gin/lotto/internal/api/middleware"
	"github.com/yizeng/gab/gin/lotto/internal/config"
	"github.com/yizeng/gab/gin/lotto/internal/repository"
	"github.com/yizeng/gab/gin/lotto/internal/service"
)

type Server struct {
	Config      *config.AppConfig
	Router      *gin.Engine
	PlayService *service.PlayService
}

func NewServer(conf *config.AppConfig) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config:      conf,
		Router:      engine,
		PlayService: initPlayService(conf.Lotto),
	}

	s.MountMiddlewares()

	playHandler := v1.NewPlayHandler(s.Config.API, s.PlayService)
	liveHandler := v1.NewLiveHandler(s.Config.API, s.PlayService)
	s.MountHandlers(playHandler, liveHandler)

	return s
}

func initPlayService(conf *config.LottoConfig) *service.PlayService {
	repo := repository.NewPlayRepository()
	svc := service.NewPlayService(repo, conf.Rules(), service.RandomPicker{}, conf.MaxTickets)

	return svc
}

func (s *Server) MountMiddlewares() {
	// Requests are logged through zap rather than gin.Logger().
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(playHandler *v1.PlayHandler, liveHandler *v1.LiveHandler) {
	const basePath = "/api/v1"

	public := s.Router.Group(basePath)
	{
		public.POST("/plays", playHandler.HandleStartPlay)
	}

	plays := s.Router.Group(basePath+"/plays/current", middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT())
	{
		plays.GET("", playHandler.HandleGetPlay)
		plays.DELETE("", playHandler.HandleEndPlay)
		plays.POST("/restart", playHandler.HandleRestart)

		plays.GET("/price-form", playHandler.HandleGetPriceForm)
		plays.PUT("/price", playHandler.HandleChangePrice)
		plays.POST("/price/submit", playHandler.HandleSubmitPrice)

		plays.GET("/winning-number-form", playHandler.HandleGetWinningNumberForm)
		plays.PUT("/winning-numbers/:index", playHandler.HandleChangeWinningNumber)
		plays.POST("/winning-numbers/submit", playHandler.HandleSubmitWinningNumber)
		plays.GET("/winning-numbers/live", liveHandler.HandleLiveWinningNumbers)
		plays.GET("/results", playHandler.HandleGetResults)
		plays.DELETE("/result-modal", playHandler.HandleCloseResultModal)
	}

	s.Router.GET("/", v1.HandleHealthcheck)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "Lotto input API"
	docs.SwaggerInfo.Description = "Price and winning number forms with live validation."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
