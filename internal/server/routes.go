package server

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"unihub/internal/handlers"
	"unihub/internal/middlewares"
)

func (s *Server) RegisterRoutes() http.Handler {
	r := mux.NewRouter()

	r.Use(middlewares.CorsMiddleware)
	r.Use(middlewares.RateLimit)
	r.Use(middlewares.PrometheusMiddleware)

	ch := handlers.NewCommonHandler(s.db)
	r.HandleFunc("/health", ch.HealthHandler).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	s.registerAuthRoutes(r)
	s.registerUserRoutes(r)
	s.registerJobRoutes(r)
	s.registerApplicationRoutes(r)
	s.registerProductRoutes(r)
	s.registerReviewRoutes(r)
	s.registerWishlistRoutes(r)
	s.registerUploadRoutes(r)

	return r
}

func (s *Server) registerAuthRoutes(r *mux.Router) {
	ah := handlers.NewAuthHandler(s.authService)

	r.HandleFunc("/api/auth/send-otp", ah.SendOtp).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/auth/verify-otp", ah.VerifyOtp).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/auth/refresh-token", ah.RefreshToken).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/auth/logout", ah.Logout).Methods("POST", "OPTIONS")
}

func (s *Server) registerUserRoutes(r *mux.Router) {
	uh := handlers.NewUserHandler(s.userService)

	r.Handle("/api/users/me", middlewares.AuthMiddleware(http.HandlerFunc(uh.GetMe))).Methods("GET", "OPTIONS")
	r.Handle("/api/users/me", middlewares.AuthMiddleware(http.HandlerFunc(uh.UpdateMe))).Methods("PUT", "OPTIONS")
	r.Handle("/api/users/request-university-verification", middlewares.AuthMiddleware(http.HandlerFunc(uh.RequestUniversityVerification))).Methods("POST", "OPTIONS")
	r.Handle("/api/users/verify-university-email", middlewares.AuthMiddleware(http.HandlerFunc(uh.VerifyUniversityEmail))).Methods("POST", "OPTIONS")
}

func (s *Server) registerJobRoutes(r *mux.Router) {
	jh := handlers.NewJobHandler(s.jobService)

	r.Handle("/api/jobs", middlewares.AuthMiddleware(http.HandlerFunc(jh.CreateJob))).Methods("POST", "OPTIONS")
	r.Handle("/api/jobs", middlewares.AuthMiddleware(http.HandlerFunc(jh.GetJobs))).Methods("GET", "OPTIONS")
	r.Handle("/api/jobs/my", middlewares.AuthMiddleware(http.HandlerFunc(jh.GetMyJobs))).Methods("GET", "OPTIONS")
	r.Handle("/api/jobs/assigned", middlewares.AuthMiddleware(http.HandlerFunc(jh.GetAssignedJobs))).Methods("GET", "OPTIONS")
	r.Handle("/api/jobs/freelancer/{id}/completed", middlewares.AuthMiddleware(http.HandlerFunc(jh.GetFreelancerCompletedCount))).Methods("GET", "OPTIONS")
	r.Handle("/api/jobs/{id}", middlewares.AuthMiddleware(http.HandlerFunc(jh.GetJobByID))).Methods("GET", "OPTIONS")
	r.Handle("/api/jobs/{id}/start", middlewares.AuthMiddleware(http.HandlerFunc(jh.StartJob))).Methods("PUT", "OPTIONS")
	r.Handle("/api/jobs/{id}/complete", middlewares.AuthMiddleware(http.HandlerFunc(jh.CompleteJob))).Methods("PUT", "OPTIONS")
	r.Handle("/api/jobs/{id}/submit-work", middlewares.AuthMiddleware(http.HandlerFunc(jh.SubmitWork))).Methods("PUT", "OPTIONS")
	r.Handle("/api/jobs/{id}/confirm", middlewares.AuthMiddleware(http.HandlerFunc(jh.ConfirmJob))).Methods("PUT", "OPTIONS")
}

func (s *Server) registerApplicationRoutes(r *mux.Router) {
	aph := handlers.NewApplicationHandler(s.applicationService)

	r.Handle("/api/applications", middlewares.AuthMiddleware(http.HandlerFunc(aph.CreateApplication))).Methods("POST", "OPTIONS")
	r.Handle("/api/applications/freelancer", middlewares.AuthMiddleware(http.HandlerFunc(aph.GetFreelancerApplications))).Methods("GET", "OPTIONS")
	r.Handle("/api/applications/client", middlewares.AuthMiddleware(http.HandlerFunc(aph.GetClientApplications))).Methods("GET", "OPTIONS")
	r.Handle("/api/applications/{id}", middlewares.AuthMiddleware(http.HandlerFunc(aph.DeleteApplication))).Methods("DELETE", "OPTIONS")
}

func (s *Server) registerProductRoutes(r *mux.Router) {
	ph := handlers.NewProductHandler(s.productService)

	r.Handle("/api/products", middlewares.AuthMiddleware(http.HandlerFunc(ph.CreateProduct))).Methods("POST", "OPTIONS")
	r.Handle("/api/products", middlewares.AuthMiddleware(http.HandlerFunc(ph.GetProducts))).Methods("GET", "OPTIONS")
	r.Handle("/api/products/my", middlewares.AuthMiddleware(http.HandlerFunc(ph.GetMyProducts))).Methods("GET", "OPTIONS")
	r.Handle("/api/products/{id}", middlewares.AuthMiddleware(http.HandlerFunc(ph.GetProductByID))).Methods("GET", "OPTIONS")
	r.Handle("/api/products/{id}", middlewares.AuthMiddleware(http.HandlerFunc(ph.UpdateProduct))).Methods("PUT", "OPTIONS")
	r.Handle("/api/products/{id}", middlewares.AuthMiddleware(http.HandlerFunc(ph.DeleteProduct))).Methods("DELETE", "OPTIONS")
	r.Handle("/api/products/{id}/reserve", middlewares.AuthMiddleware(http.HandlerFunc(ph.ReserveProduct))).Methods("PUT", "OPTIONS")
	r.Handle("/api/products/{id}/sold", middlewares.AuthMiddleware(http.HandlerFunc(ph.MarkProductSold))).Methods("PUT", "OPTIONS")
	r.Handle("/api/products/{id}/interest", middlewares.AuthMiddleware(http.HandlerFunc(ph.ShowInterest))).Methods("POST", "OPTIONS")
}

func (s *Server) registerReviewRoutes(r *mux.Router) {
	rh := handlers.NewReviewHandler(s.reviewService)

	r.Handle("/api/reviews", middlewares.AuthMiddleware(http.HandlerFunc(rh.CreateReview))).Methods("POST", "OPTIONS")
	r.Handle("/api/reviews/freelancer/{id}", middlewares.AuthMiddleware(http.HandlerFunc(rh.GetFreelancerReviews))).Methods("GET", "OPTIONS")
	r.Handle("/api/reviews/job/{id}", middlewares.AuthMiddleware(http.HandlerFunc(rh.GetJobReview))).Methods("GET", "OPTIONS")
}

func (s *Server) registerWishlistRoutes(r *mux.Router) {
	wh := handlers.NewWishlistHandler(s.wishlistService)

	r.Handle("/api/wishlist", middlewares.AuthMiddleware(http.HandlerFunc(wh.AddToWishlist))).Methods("POST", "OPTIONS")
	r.Handle("/api/wishlist", middlewares.AuthMiddleware(http.HandlerFunc(wh.GetWishlist))).Methods("GET", "OPTIONS")
	r.Handle("/api/wishlist/{productId}", middlewares.AuthMiddleware(http.HandlerFunc(wh.RemoveFromWishlist))).Methods("DELETE", "OPTIONS")
}

func (s *Server) registerUploadRoutes(r *mux.Router) {
	uph := handlers.NewUploadHandler(s.blobStore)

	r.Handle("/api/upload/image", middlewares.AuthMiddleware(http.HandlerFunc(uph.UploadImage))).Methods("POST", "OPTIONS")
}
