package main

import (
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/deepseo/backend/analyzer"
	"github.com/deepseo/backend/competitor"
	"github.com/deepseo/backend/logging"
	"github.com/deepseo/backend/middleware"
	"github.com/deepseo/backend/pagespeed"
	"github.com/deepseo/backend/stats"
)

const apiUserAgent = "Mozilla/5.0 (compatible; DeepSEOBot/2.0)"

type server struct {
	analyzer   *analyzer.Analyzer
	pagespeed  *pagespeed.Client
	competitor *competitor.Comparer
	storage    *stats.Storage
	usage      *logging.Statistics
}

func loadEnv() {
	// .env.development wins for local work, then plain .env.
	if err := godotenv.Load(".env.development"); err != nil {
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found, using environment variables")
		}
	}
}

func setupGinMode() {
	mode := os.Getenv("GIN_MODE")
	if mode == "" {
		mode = gin.ReleaseMode
	}
	gin.SetMode(mode)
}

func main() {
	loadEnv()
	setupGinMode()

	dataDir := os.Getenv("DATA_DIR")
	if dataDir == "" {
		dataDir = "data"
	}
	storage, err := stats.NewStorage(dataDir)
	if err != nil {
		log.Fatal("Failed to initialize statistics storage:", err)
	}

	srv := &server{
		analyzer:   analyzer.New(),
		pagespeed:  pagespeed.New(os.Getenv("PAGESPEED_API_KEY")),
		competitor: competitor.New(apiUserAgent),
		storage:    storage,
		usage:      logging.Initialize(),
	}

	rateLimiter := middleware.NewRateLimiter(2, 5) // 2 req/s, burst of 5

	r := gin.Default()
	r.Use(middleware.Recovery())
	r.Use(rateLimiter.RateLimit())
	r.Use(corsMiddleware())
	r.Use(middleware.Usage(srv.usage))

	api := r.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		api.POST("/analyze", srv.analyzeURL)
		api.POST("/amp", srv.analyzeAMP)
		api.POST("/intelligence", srv.analyzeIntelligence)
		api.POST("/competitor", srv.compareCompetitor)
		api.POST("/pagespeed", srv.runPagespeed)

		api.GET("/statistics", func(c *gin.Context) {
			c.JSON(http.StatusOK, srv.usage.GetStatistics())
		})
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8082"
	}

	log.Printf("Server starting on http://localhost:%s\n", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

type urlRequest struct {
	URL string `json:"url" binding:"required,url"`
}

func (s *server) analyzeURL(c *gin.Context) {
	log.Printf("Analyze request received from: %s\n", c.ClientIP())
	var request urlRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid URL provided"})
		return
	}
	c.Set(middleware.TargetURLKey, request.URL)

	report, err := s.analyzer.AnalyzeWithContext(c.Request.Context(), request.URL)
	s.storage.RecordReport(stats.KindFull, err != nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to analyze URL: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, report)
}

func (s *server) analyzeAMP(c *gin.Context) {
	var request urlRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid URL provided"})
		return
	}
	c.Set(middleware.TargetURLKey, request.URL)

	report, err := s.analyzer.AnalyzeAMPURL(c.Request.Context(), request.URL)
	s.storage.RecordReport(stats.KindAMP, err != nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to analyze AMP: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, report)
}

func (s *server) analyzeIntelligence(c *gin.Context) {
	var request urlRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid URL provided"})
		return
	}
	c.Set(middleware.TargetURLKey, request.URL)

	report, err := s.analyzer.AnalyzeIntelligenceURL(c.Request.Context(), request.URL)
	s.storage.RecordReport(stats.KindIntelligence, err != nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to analyze URL: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, report)
}

func (s *server) compareCompetitor(c *gin.Context) {
	var request struct {
		URL        string `json:"url" binding:"required,url"`
		Competitor string `json:"competitor" binding:"required,url"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Both URLs required"})
		return
	}
	c.Set(middleware.TargetURLKey, request.URL)

	comparison, err := s.competitor.Compare(c.Request.Context(), request.URL, request.Competitor)
	s.storage.RecordReport(stats.KindCompetitor, err != nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Comparison failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, comparison)
}

func (s *server) runPagespeed(c *gin.Context) {
	var request urlRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid URL provided"})
		return
	}
	c.Set(middleware.TargetURLKey, request.URL)

	report, err := s.pagespeed.Run(c.Request.Context(), request.URL)
	s.storage.RecordReport(stats.KindPagespeed, err != nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "PageSpeed failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, report)
}
