package main

import (
	"encoding/json"
	"log"
	"strings"

	"github.com/valyala/fasthttp"

	"github.com/backsoul/teamquiz/pkg/auth"
	"github.com/backsoul/teamquiz/pkg/config"
	"github.com/backsoul/teamquiz/pkg/handlers"
	"github.com/backsoul/teamquiz/pkg/redis"
	"github.com/backsoul/teamquiz/pkg/services"
	"github.com/backsoul/teamquiz/pkg/websocket"
)

var (
	redisClient     *redis.RedisClient
	authHandler     *handlers.AuthHandler
	quizHandler     *handlers.QuizHandler
	teamHandler     *handlers.TeamHandler
	sessionHandler  *handlers.SessionHandler
	realtimeHandler *handlers.RealtimeHandler
	hub             *websocket.Hub
)

func main() {
	log.Println("🚀 Iniciando servidor de quiz por equipos")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error cargando configuración: %v", err)
	}

	log.Printf("🔌 Conectando a Redis en %s...", cfg.RedisAddr)
	redisClient, err = redis.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.Fatalf("Error conectando a Redis: %v", err)
	}
	defer redisClient.Close()
	log.Println("✅ Conexión exitosa a Redis")

	initServices(cfg)

	server := &fasthttp.Server{
		Handler: requestHandler,
		Name:    "TeamQuiz Server",
	}

	log.Printf("🎮 Servidor escuchando en %s", cfg.Addr)
	if err := server.ListenAndServe(cfg.Addr); err != nil {
		log.Fatalf("Error al iniciar el servidor: %v", err)
	}
}

func initServices(cfg *config.Config) {
	tokens := auth.NewTokenService(cfg.JWTAdminSecret, cfg.JWTTeamSecret, cfg.AdminTokenTTL, cfg.TeamTokenTTL)

	quizService := services.NewQuizService(redisClient)
	sessionService := services.NewSessionService(redisClient, quizService)
	teamService := services.NewTeamService(redisClient, sessionService, tokens)
	answerService := services.NewAnswerService(redisClient, quizService, sessionService)
	scoreboardService := services.NewScoreboardService(sessionService, teamService, answerService)
	userService := services.NewUserService(redisClient, tokens)

	hub = websocket.NewHub()
	go hub.Run()

	authHandler = handlers.NewAuthHandler(userService)
	quizHandler = handlers.NewQuizHandler(quizService, tokens)
	teamHandler = handlers.NewTeamHandler(teamService)
	sessionHandler = handlers.NewSessionHandler(sessionService, teamService, answerService, scoreboardService, tokens, hub)
	realtimeHandler = handlers.NewRealtimeHandler(hub, sessionService, tokens)
}

func requestHandler(ctx *fasthttp.RequestCtx) {
	path := string(ctx.Path())
	method := string(ctx.Method())

	log.Printf("📡 %s %s", method, path)

	ctx.Response.Header.Set("Cache-Control", "no-cache")
	ctx.Response.Header.Set("Access-Control-Allow-Origin", "*")
	ctx.Response.Header.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
	ctx.Response.Header.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

	if method == "OPTIONS" {
		ctx.SetStatusCode(fasthttp.StatusOK)
		return
	}

	switch {
	case path == "/api/health":
		healthCheck(ctx)

	case path == "/api/auth/register" && method == "POST":
		authHandler.Register(ctx)
	case path == "/api/auth/login" && method == "POST":
		authHandler.Login(ctx)

	case path == "/api/admin/quizzes" && method == "POST":
		quizHandler.CreateQuiz(ctx)
	case strings.HasPrefix(path, "/api/admin/quizzes/"):
		handleAdminQuizRoutes(ctx, path, method)
	case strings.HasPrefix(path, "/api/admin/sessions/"):
		handleAdminSessionRoutes(ctx, path, method)

	case path == "/api/teams/join" && method == "POST":
		teamHandler.Join(ctx)
	case strings.HasPrefix(path, "/api/sessions/"):
		handleSessionRoutes(ctx, path, method)

	case path == "/ws":
		realtimeHandler.HandleWebSocket(ctx)

	default:
		serve404(ctx)
	}
}

func handleAdminQuizRoutes(ctx *fasthttp.RequestCtx, path, method string) {
	parts := strings.Split(path, "/")

	// /api/admin/quizzes/{quizId}/questions
	if len(parts) == 6 && parts[5] == "questions" {
		ctx.SetUserValue("quizId", parts[4])
		switch method {
		case "GET":
			quizHandler.GetQuestions(ctx)
		case "POST":
			quizHandler.AddQuestion(ctx)
		default:
			serve404(ctx)
		}
		return
	}

	// /api/admin/quizzes/{quizId}/session
	if len(parts) == 6 && parts[5] == "session" && method == "POST" {
		ctx.SetUserValue("quizId", parts[4])
		sessionHandler.CreateSession(ctx)
		return
	}

	serve404(ctx)
}

func handleAdminSessionRoutes(ctx *fasthttp.RequestCtx, path, method string) {
	parts := strings.Split(path, "/")

	// /api/admin/sessions/{sessionCode}
	if len(parts) == 5 && method == "GET" {
		ctx.SetUserValue("sessionCode", parts[4])
		sessionHandler.GetSession(ctx)
		return
	}

	// /api/admin/sessions/{sessionCode}/start
	if len(parts) == 6 && parts[5] == "start" && method == "POST" {
		ctx.SetUserValue("sessionCode", parts[4])
		sessionHandler.StartSession(ctx)
		return
	}

	// /api/admin/sessions/{sessionCode}/scoreboard
	if len(parts) == 6 && parts[5] == "scoreboard" && method == "GET" {
		ctx.SetUserValue("sessionCode", parts[4])
		sessionHandler.GetScoreboard(ctx)
		return
	}

	serve404(ctx)
}

func handleSessionRoutes(ctx *fasthttp.RequestCtx, path, method string) {
	parts := strings.Split(path, "/")

	// /api/sessions/{sessionCode}/quiz
	if len(parts) == 5 && parts[4] == "quiz" && method == "GET" {
		ctx.SetUserValue("sessionCode", parts[3])
		sessionHandler.GetQuizInfo(ctx)
		return
	}

	// /api/sessions/{sessionCode}/question/current
	if len(parts) == 6 && parts[4] == "question" && parts[5] == "current" && method == "GET" {
		ctx.SetUserValue("sessionCode", parts[3])
		sessionHandler.GetCurrentQuestion(ctx)
		return
	}

	// /api/sessions/{sessionCode}/teams
	if len(parts) == 5 && parts[4] == "teams" && method == "GET" {
		ctx.SetUserValue("sessionCode", parts[3])
		sessionHandler.GetTeams(ctx)
		return
	}

	// /api/sessions/{sessionCode}/answer
	if len(parts) == 5 && parts[4] == "answer" && method == "POST" {
		ctx.SetUserValue("sessionCode", parts[3])
		sessionHandler.SubmitAnswer(ctx)
		return
	}

	serve404(ctx)
}

func healthCheck(ctx *fasthttp.RequestCtx) {
	status := "ok"
	code := fasthttp.StatusOK
	if err := redisClient.HealthCheck(); err != nil {
		status = "degraded"
		code = fasthttp.StatusServiceUnavailable
	}

	ctx.SetStatusCode(code)
	ctx.SetContentType("application/json")
	json.NewEncoder(ctx).Encode(map[string]interface{}{
		"status": status,
	})
}

func serve404(ctx *fasthttp.RequestCtx) {
	ctx.SetStatusCode(fasthttp.StatusNotFound)
	ctx.SetContentType("application/json")
	json.NewEncoder(ctx).Encode(map[string]interface{}{
		"success": false,
		"error":   "not found",
	})
}
