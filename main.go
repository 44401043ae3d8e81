package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ThanosTheo/maze-singleplayer/api"
	api_i "github.com/ThanosTheo/maze-singleplayer/api/i"
	"github.com/ThanosTheo/maze-singleplayer/api/identity"
	mazeapi "github.com/ThanosTheo/maze-singleplayer/api/maze"
	"github.com/ThanosTheo/maze-singleplayer/config"
	logger "github.com/ThanosTheo/maze-singleplayer/infrastruture/log"
	"github.com/ThanosTheo/maze-singleplayer/infrastruture/metrics"
	"github.com/ThanosTheo/maze-singleplayer/infrastruture/repo"
	"github.com/ThanosTheo/maze-singleplayer/infrastruture/sortedstorage"
	"github.com/ThanosTheo/maze-singleplayer/infrastruture/token"
	"github.com/ThanosTheo/maze-singleplayer/maze"
	"github.com/ThanosTheo/maze-singleplayer/service"
	"github.com/ThanosTheo/maze-singleplayer/service/i"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const leaderboardTTL = 30 * 24 * time.Hour

// Global variables for dependencies
var (
	mongoClient           *mongo.Client
	redisClient           *redis.Client
	userRepo              *repo.UserRepo
	runRepo               *repo.RunRepo
	scoreboard            i.Scoreboard
	mazeMetrics           i.MazeMetrics
	sessionManager        *service.MazeSessionManager
	mazeController        api_i.Controller
	leaderboardController api_i.Controller
	jwtTokenizer          i.Tokenizer
	authService           i.Authenticator
	authController        api_i.Controller
	router                *api.Router
	appLogger             *logger.Logger
)

func newLogger(prefix, color string) *logger.Logger {
	l, err := logger.New(prefix, color, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "creating %s logger: %v\n", prefix, err)
		os.Exit(1)
	}
	if err := l.SetLevel(config.Envs.LogLevel); err != nil {
		l.Warning(fmt.Sprintf("Ignoring LOG_LEVEL: %v", err))
	}
	return l
}

func initMongo(ctx context.Context) {
	uri := fmt.Sprintf("mongodb://%s:%s@%s:%v", config.Envs.DBUser, config.Envs.DBPassword, config.Envs.DBHost, config.Envs.DBPort)

	clientOptions := options.Client().ApplyURI(uri)
	var err error
	mongoClient, err = mongo.Connect(ctx, clientOptions)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Failed to connect to MongoDB: %v", err))
		os.Exit(1)
	}
	if err = mongoClient.Ping(ctx, nil); err != nil {
		appLogger.Error(fmt.Sprintf("MongoDB ping failed: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Connected to MongoDB")
}

func initRepos(ctx context.Context, client *mongo.Client) {
	userRepo = repo.NewUserRepo(client, config.Envs.DBName, "users")
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		appLogger.Error(fmt.Sprintf("Creating user indexes: %v", err))
		os.Exit(1)
	}
	appLogger.Info("User repository initialized")

	runRepo = repo.NewRunRepo(client, config.Envs.DBName, "runs")
	if err := runRepo.EnsureIndexes(ctx); err != nil {
		appLogger.Error(fmt.Sprintf("Creating run indexes: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Run repository initialized")
}

func initRedis(ctx context.Context) {
	redisClient = redis.NewClient(&redis.Options{
		Addr:     config.Envs.RedisAddr,
		Password: config.Envs.RedisPassword,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		appLogger.Error(fmt.Sprintf("Redis ping failed: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Connected to Redis")
}

func initScoreboard() {
	var err error
	scoreboard, err = sortedstorage.NewRedisLeaderboard(redisClient, int64(config.Envs.LeaderboardSize), leaderboardTTL)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating leaderboard: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Leaderboard initialized")
}

func initMetrics() {
	mazeMetrics = metrics.NewPrometheus(prometheus.DefaultRegisterer)
	appLogger.Info("Metrics initialized")
}

func initSessionManager() {
	sessionLogger := newLogger("SESSION-MANAGER", config.ColorCyan)

	var err error
	sessionManager, err = service.NewMazeSessionManager(&service.Config{
		Generator:     maze.NewGenerator(nil),
		RunRepo:       runRepo,
		Scoreboard:    scoreboard,
		Logger:        sessionLogger,
		Metrics:       mazeMetrics,
		DefaultSize:   config.Envs.MazeSize,
		MaxSize:       config.Envs.MazeMaxSize,
		PlaybackDelay: time.Duration(config.Envs.PlaybackDelayMS) * time.Millisecond,
	})
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating session manager: %v", err))
		os.Exit(1)
	}

	appLogger.Info("Session manager initialized")
}

func initMazeControllers() {
	var err error
	mazeController, err = mazeapi.NewMazeController(sessionManager, runRepo)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating maze controller: %v", err))
		os.Exit(1)
	}

	leaderboardController, err = mazeapi.NewLeaderboardController(scoreboard)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating leaderboard controller: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Maze controllers initialized")
}

func initJWTTokenizer() {
	jwtTokenizer = token.NewJwtService(config.Envs.JWTSecret, config.Envs.JWTIssuer)
	appLogger.Info("JWT Tokenizer initialized")
}

func initAuthService() {
	ttl := time.Duration(config.Envs.TokenTTLHours) * time.Hour
	authService = service.NewAuthService(userRepo, jwtTokenizer, ttl)
	appLogger.Info("Auth service initialized")
}

func initAuthController() {
	authController = identity.NewIdentityServer(authService)
	appLogger.Info("Auth controller initialized")
}

func initRouter(t i.Tokenizer) {
	gin.SetMode(config.Envs.GinMode)
	router = api.NewRouter(api.Config{
		Addr:                    fmt.Sprintf("%s:%v", config.Envs.HostIP, config.Envs.RESTPort),
		BaseURL:                 "/api",
		Controllers:             []api_i.Controller{authController, mazeController, leaderboardController},
		AuthorizationMiddleware: identity.Authoriz(t),
		MetricsHandler:          promhttp.Handler(),
		BeforeShutdown:          sessionManager.StopAll,
	})
	appLogger.Info("Router initialized")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appLogger = newLogger("APP", config.ColorGreen)

	startupCtx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	initMongo(startupCtx)
	defer func() {
		_ = mongoClient.Disconnect(context.Background())
	}()
	initRepos(startupCtx, mongoClient)

	initRedis(startupCtx)
	defer redisClient.Close()

	initScoreboard()
	initMetrics()
	initSessionManager()
	initMazeControllers()
	initJWTTokenizer()
	initAuthService()
	initAuthController()
	initRouter(jwtTokenizer)

	// Run HTTP server until interrupted; sessions are stopped before it drains.
	appLogger.WithField("addr", fmt.Sprintf("%s:%v", config.Envs.HostIP, config.Envs.RESTPort)).Info("Serving REST API")
	if err := router.Run(ctx); err != nil {
		appLogger.Error(fmt.Sprintf("Serving: %v", err))
	}

	// No-op after a signal; flushes pending run records if the server failed instead.
	sessionManager.StopAll()
	appLogger.Info("Shut down")
}
