package routes

import (
	"net/http"

	swaggerHandler "github.com/swaggo/http-swagger"

	_ "github.com/NewtTheWolf/sendblue/internal/docs" // swagger docs
	"github.com/NewtTheWolf/sendblue/internal/middleware"
	"github.com/NewtTheWolf/sendblue/internal/response"
)

type AppDeps struct {
	Home      HomeHandler
	Message   MessageHandler
	Scheduler SchedulerHandler

	// Auth guards the emulated Sendblue endpoints. Nil leaves them open.
	Auth middleware.Middleware
}

type HomeHandler interface {
	Index(w http.ResponseWriter, r *http.Request)
	Health(w http.ResponseWriter, r *http.Request)
}

type MessageHandler interface {
	SendMessage(w http.ResponseWriter, r *http.Request)
	SendGroupMessage(w http.ResponseWriter, r *http.Request)
	GetMessages(w http.ResponseWriter, r *http.Request)
	EvaluateService(w http.ResponseWriter, r *http.Request)
	SendTypingIndicator(w http.ResponseWriter, r *http.Request)
}

type SchedulerHandler interface {
	StartStopScheduler(w http.ResponseWriter, r *http.Request)
	Status(w http.ResponseWriter, r *http.Request)
}

func Register(mux *http.ServeMux, d AppDeps) {
	mux.HandleFunc("GET /{$}", d.Home.Index)
	mux.HandleFunc("GET /health", d.Home.Health)

	// Sendblue API
	api := func(h http.HandlerFunc) http.Handler {
		return middleware.Chain(h, d.Auth)
	}
	mux.Handle("POST /api/send-message", api(d.Message.SendMessage))
	mux.Handle("POST /api/send-group-message", api(d.Message.SendGroupMessage))
	mux.Handle("GET /api/accounts/messages", api(d.Message.GetMessages))
	mux.Handle("GET /api/evaluate-service", api(d.Message.EvaluateService))
	mux.Handle("POST /api/send-typing-indicator", api(d.Message.SendTypingIndicator))

	mux.HandleFunc("POST /scheduler", d.Scheduler.StartStopScheduler)
	mux.HandleFunc("GET /scheduler", d.Scheduler.Status)

	//Swagger
	mux.HandleFunc("GET /swagger/", swaggerHandler.WrapHandler)

	// Fallback handler for undefined routes (404)
	mux.Handle("/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		response.RespondError(w, http.StatusNotFound, "route not found")
	}))
}
