package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/yoockh/interviewme/config"
	"github.com/yoockh/interviewme/internal/api/handlers"
	"github.com/yoockh/interviewme/internal/api/middleware"
	"github.com/yoockh/interviewme/internal/api/routes"
	"github.com/yoockh/interviewme/internal/cache"
	"github.com/yoockh/interviewme/internal/events"
	"github.com/yoockh/interviewme/internal/logger"
	"github.com/yoockh/interviewme/internal/observe"
	"github.com/yoockh/interviewme/internal/providers/llm"
	"github.com/yoockh/interviewme/internal/providers/stt"
	"github.com/yoockh/interviewme/internal/queue"
	mongorepo "github.com/yoockh/interviewme/internal/repositories/mongo"
	pgrepo "github.com/yoockh/interviewme/internal/repositories/postgres"
	"github.com/yoockh/interviewme/internal/services"
	"github.com/yoockh/interviewme/internal/storage"
	"github.com/yoockh/interviewme/internal/utils"
	"github.com/yoockh/interviewme/internal/workers"
)

func main() {
	_ = godotenv.Load()
	log := logger.New()

	if err := run(log); err != nil {
		log.WithError(err).Fatal("server exited")
	}
}

func run(log *logrus.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cal, err := config.LoadCalibration("")
	if err != nil {
		return err
	}
	tokens, err := utils.TokenManagerFromEnv()
	if err != nil {
		return err
	}

	shutdownMetrics, err := observe.InitProvider(ctx, observe.ProviderConfig{ServiceName: "interviewme"})
	if err != nil {
		return err
	}
	defer shutdownMetrics(context.Background())
	metrics := observe.DefaultMetrics()

	if err := config.InitMongo(ctx); err != nil {
		return err
	}
	defer config.CloseMongo(context.Background())
	if err := config.EnsureMongoIndexes(ctx); err != nil {
		return err
	}
	log.Info("MongoDB connected")

	if err := config.InitPostgres(ctx, log); err != nil {
		return err
	}
	defer config.ClosePostgres()
	if err := config.MigratePostgres(ctx); err != nil {
		return err
	}
	log.Info("PostgreSQL connected")

	if err := config.InitRedis(ctx); err != nil {
		return err
	}
	defer config.CloseRedis()
	log.Info("Redis connected")

	db, err := config.MongoDatabase()
	if err != nil {
		return err
	}

	bus := events.NewRedisBus(config.RedisClient, log)
	answers := queue.NewRedisStream(config.RedisClient, queue.DefaultStream)

	analysis := services.NewAnalysisService(cal.SpeechConfig(), cal.FacialConfig(), cal.Facial.SmoothingWindow, metrics)
	questions := services.NewQuestionService(pgrepo.NewQuestionRepo(config.PostgresDB), cache.NewRedisCache(config.RedisClient))
	if seeded, err := questions.EnsureDefault(ctx); err != nil {
		return err
	} else if seeded {
		log.Info("seeded default interview question")
	}
	sessions := services.NewSessionService(mongorepo.NewSessionRepo(db), questions, bus)

	project, location := os.Getenv("GCP_PROJECT"), os.Getenv("GCP_LOCATION")

	var coach llm.Provider
	if envBool("ENABLE_COACH") {
		v, err := llm.NewVertexGemini(ctx, llm.VertexConfig{
			Project:  project,
			Location: location,
			Model:    os.Getenv("VERTEX_MODEL"),
		})
		if err != nil {
			return err
		}
		defer v.Close()
		coach = v
		log.Info("coach feedback enabled")
	}

	attempts := services.NewAttemptService(services.AttemptDeps{
		Attempts:  mongorepo.NewAttemptRepo(db),
		Sessions:  sessions,
		Questions: questions,
		Analysis:  analysis,
		Queue:     answers,
		Coach:     coach,
		Logger:    log,
	})

	var recordingHandler *handlers.RecordingHandler
	if bucket := os.Getenv("GCS_BUCKET"); bucket != "" {
		store, err := storage.NewGCSStore(ctx, bucket)
		if err != nil {
			return err
		}
		defer store.Close()
		recordingHandler = handlers.NewRecordingHandler(
			services.NewRecordingService(pgrepo.NewRecordingRepo(config.PostgresDB), sessions, store))
	} else {
		log.Warn("GCS_BUCKET not set; recording upload disabled")
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(log, "/ping", "/readyz", "/metrics"), observe.GinMiddleware(metrics))
	routes.RegisterRoutes(r, routes.Deps{
		Tokens: tokens,
		Health: handlers.NewHealthHandler(
			handlers.Checker{Name: "mongo", Check: config.PingMongo},
			handlers.Checker{Name: "postgres", Check: config.PingPostgres},
			handlers.Checker{Name: "redis", Check: config.PingRedis},
		),
		Auth:      handlers.NewAuthHandler(services.NewAuthService(mongorepo.NewUserRepo(db), tokens, splitList(os.Getenv("ADMIN_EMAILS"))...)),
		Analysis:  handlers.NewAnalysisHandler(analysis),
		Question:  handlers.NewQuestionHandler(questions),
		Session:   handlers.NewSessionHandler(sessions),
		Attempt:   handlers.NewAttemptHandler(attempts),
		Recording: recordingHandler,
		WS: handlers.NewWSHandler(handlers.WSDeps{
			Sessions:       sessions,
			Analysis:       analysis,
			Events:         bus,
			Metrics:        metrics,
			Logger:         log,
			AllowedOrigins: splitList(os.Getenv("WS_ALLOWED_ORIGINS")),
		}),
		Metrics: promhttp.Handler(),
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.WithField("port", port).Info("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(sctx)
	})

	if envBool("ENABLE_STT") {
		speech, err := stt.NewGoogleSpeech(ctx)
		if err != nil {
			return err
		}
		defer speech.Close()

		n, _ := strconv.Atoi(os.Getenv("WORKER_COUNT"))
		pool := &workers.AnswerWorkerPool{
			Redis:      config.RedisClient,
			Attempts:   attempts,
			STT:        speech,
			Events:     bus,
			Metrics:    metrics,
			NumWorkers: n,
			Logger:     log,
			Stream:     answers.Stream(),
		}
		g.Go(func() error { return pool.Run(gctx) })
	} else {
		log.Warn("ENABLE_STT is off; audio answers will queue until a worker runs")
	}

	return g.Wait()
}

func envBool(key string) bool {
	v, _ := strconv.ParseBool(os.Getenv(key))
	return v
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
