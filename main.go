package main

import (
	"context"
	"log"
	"time"

	"greek-quiz-service/internal/catalog"
	"greek-quiz-service/internal/config"
	"greek-quiz-service/internal/db"
	"greek-quiz-service/internal/event"
	"greek-quiz-service/internal/handlers"
	"greek-quiz-service/internal/repository"
	"greek-quiz-service/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system env")
	}
	srv := config.LoadServer()
	if srv.MongoURI == "" {
		log.Fatal("MONGO_URI is required")
	}
	db.InitMongo(srv.MongoURI, srv.MongoTimeout)
	database := db.Client.Database(srv.MongoDB)

	ctx, cancel := context.WithTimeout(context.Background(), srv.MongoTimeout)
	if err := db.EnsureIndexes(ctx, database); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}
	cancel()

	// RabbitMQ event publisher. A nil publisher drops events, so the
	// service runs without a broker.
	var publisher *event.Publisher
	if srv.RabbitURI != "" && srv.RabbitXchg != "" {
		var err error
		publisher, err = event.NewPublisher(srv.RabbitURI, srv.RabbitXchg)
		if err != nil {
			log.Fatalf("Failed to connect to RabbitMQ: %v", err)
		}
		defer publisher.Close()
	} else {
		log.Println("RabbitMQ not configured, events will not be published")
	}

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     srv.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Content-Length", "Accept-Encoding", "X-User-ID", "accept", "origin", "Cache-Control"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	cat := catalog.Default()
	quizCfg := config.DefaultQuiz()

	userRepo := repository.NewUserRepository(database)
	statRepo := repository.NewStatRepository(database)
	quizRepo := repository.NewQuizRepository(database)
	questionRepo := repository.NewQuestionRepository(database)
	levelRepo := repository.NewLevelRepository(database)
	txRunner := repository.NewTxRunner(db.Client)

	userService := service.NewUserService(userRepo, statRepo, quizRepo, levelRepo, cat, quizCfg)
	quizService := service.NewQuizService(userRepo, statRepo, quizRepo, questionRepo, levelRepo, txRunner, cat, quizCfg, nil)

	userHandler := handlers.NewUserHandler(userService)
	quizHandler := handlers.NewQuizHandler(quizService, publisher)

	r.GET("/health", userHandler.HealthCheck)

	api := r.Group("/api")
	{
		api.POST("/bootstrap", userHandler.Bootstrap)
		api.GET("/level", userHandler.GetLevel)
	}

	quiz := api.Group("/quiz")
	{
		quiz.POST("/start", quizHandler.StartQuiz)
		quiz.GET("/:id/state", quizHandler.GetQuizState)
		quiz.POST("/:id/answer", quizHandler.SubmitAnswer)
		quiz.GET("/:id/summary", quizHandler.GetQuizSummary)
	}

	if err := r.Run(srv.BindAddr); err != nil {
		log.Fatalf("Server exited: %v", err)
	}
}
