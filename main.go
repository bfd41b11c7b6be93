package main

import (
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/leadflowhq/LeadFlow/auth"
	"github.com/leadflowhq/LeadFlow/config"
	"github.com/leadflowhq/LeadFlow/db"
	"github.com/leadflowhq/LeadFlow/handlers"
	"github.com/leadflowhq/LeadFlow/middleware"
	"github.com/leadflowhq/LeadFlow/storage"
	"github.com/rs/cors"
	"golang.org/x/time/rate"
)

func main() {
	db.InitDB()
	auth.InitStore()

	store, err := storage.New(config.UploadDir())
	if err != nil {
		log.Fatalf("Failed to initialize document storage: %v", err)
	}
	handlers.DocumentStore = store

	r := mux.NewRouter()

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{config.Getenv("CORS_ORIGIN", "http://localhost:3000")},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})
	handler := c.Handler(r)

	publicLimiter := middleware.NewRateLimiter(rate.Limit(2), 10)

	// Public questionnaire surface
	r.HandleFunc("/questions", handlers.ListQuestions).Methods("GET")
	r.HandleFunc("/submit", publicLimiter.Middleware(handlers.SubmitLead)).Methods("POST")
	r.HandleFunc("/upload-documents", publicLimiter.Middleware(handlers.UploadDocuments)).Methods("POST")
	r.HandleFunc("/settings", handlers.GetSettings).Methods("GET")

	// Auth
	r.HandleFunc("/admin-login", handlers.AdminLogin).Methods("POST")
	r.HandleFunc("/logout", handlers.Logout).Methods("POST")
	r.HandleFunc("/auth/google/login", handlers.GoogleLogin).Methods("GET")
	r.HandleFunc("/auth/google/callback", handlers.GoogleCallback).Methods("GET")

	// Admin back office
	r.HandleFunc("/upload-documents", auth.AuthMiddleware(handlers.ServeDocument)).Methods("GET")
	r.HandleFunc("/admin-leads", auth.AuthMiddleware(handlers.GetLeads)).Methods("GET")
	r.HandleFunc("/admin-leads-manage", auth.AuthMiddleware(handlers.UpdateLead)).Methods("PUT")
	r.HandleFunc("/admin-leads-manage", auth.AuthMiddleware(handlers.DeleteLead)).Methods("DELETE")
	r.HandleFunc("/admin-leads-export", auth.AuthMiddleware(handlers.ExportLeads)).Methods("GET")
	r.HandleFunc("/admin-questions", auth.AuthMiddleware(handlers.CreateQuestion)).Methods("POST")
	r.HandleFunc("/admin-questions", auth.AuthMiddleware(handlers.UpdateQuestion)).Methods("PUT")
	r.HandleFunc("/admin-questions", auth.AuthMiddleware(handlers.DeleteQuestion)).Methods("DELETE")
	r.HandleFunc("/admin-settings", auth.AuthMiddleware(handlers.UpsertSettings)).Methods("PUT")
	r.HandleFunc("/admin-accounts", auth.AuthMiddleware(handlers.ListAccounts)).Methods("GET")
	r.HandleFunc("/admin-accounts", auth.AuthMiddleware(handlers.CreateAccount)).Methods("POST")
	r.HandleFunc("/admin-accounts", auth.AuthMiddleware(handlers.UpdateAccount)).Methods("PUT")
	r.HandleFunc("/admin-accounts", auth.AuthMiddleware(handlers.DeleteAccount)).Methods("DELETE")

	addr := ":" + config.Getenv("PORT", "8080")
	log.Println("Server starting on " + addr)
	log.Fatal(http.ListenAndServe(addr, handler))
}
