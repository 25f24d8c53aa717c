package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/emrgen/planmark/internal/cache"
	"github.com/emrgen/planmark/internal/compress"
	"github.com/emrgen/planmark/internal/config"
	"github.com/emrgen/planmark/internal/jobs"
	"github.com/emrgen/planmark/internal/queue"
	"github.com/emrgen/planmark/internal/store"
	_ "github.com/joho/godotenv/autoload"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
)

// Server represents the server
type Server struct {
	httpPort string
}

// NewServer creates a new server
func NewServer(httpPort string) *Server {
	return &Server{
		httpPort: httpPort,
	}
}

// Start starts the server
func (s *Server) Start() {
	if err := Start(s.httpPort); err != nil {
		logrus.Fatalf("error starting server: %v", err)
	}
}

// Start wires the store, cache, queue and background jobs together and
// serves the REST API until interrupted.
func Start(httpPort string) error {
	httpPort = ":" + httpPort

	cnf := config.LoadConfig()
	rdb := config.GetDb(cnf)

	rl, err := net.Listen("tcp", httpPort)
	if err != nil {
		return err
	}

	gateway := store.NewGormStore(rdb)
	err = gateway.Migrate()
	if err != nil {
		return err
	}

	redisClient := cache.NewRedis()
	mirrorCache := cache.NewRedisMirrorCache(redisClient, compress.NewFastGZip())
	markerQueue := queue.NewRedisMarkerQueue(redisClient)

	refreshTask := jobs.NewMirrorRefreshTask("@every 5m")
	executor := jobs.NewTaskExecutor(nil, []jobs.CronJob{
		jobs.NewCacheSyncTask("@every 30s", markerQueue, mirrorCache, gateway),
		refreshTask,
	})
	executor.Run()
	defer executor.Stop()

	handler := NewHandler(store.NewDefaultProvider(gateway), mirrorCache, markerQueue, refreshTask)

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // All origins are allowed
		AllowedMethods:   []string{"GET", "POST", "DELETE", "PUT", "PATCH"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", privilegedHeader},
		AllowCredentials: true,
	})

	restServer := &http.Server{
		Addr:    httpPort,
		Handler: c.Handler(requestTimeMiddleware(handler.Routes())),
	}

	// make sure to wait for the server to stop before exiting
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		logrus.Info("starting rest server on: ", httpPort)
		if err := restServer.Serve(rl); err != nil {
			if !errors.Is(err, http.ErrServerClosed) {
				logrus.Errorf("error starting rest server: %v", err)
			}
		}
		logrus.Infof("rest server stopped")
	}()

	time.Sleep(1 * time.Second)
	logrus.Infof("Press Ctrl+C to stop the server")

	// listen for interrupt signal to gracefully shut down the server
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, unix.SIGTERM, unix.SIGINT, unix.SIGTSTP)
	<-sigs
	// clean Ctrl+C output
	fmt.Println()

	err = restServer.Shutdown(context.Background())
	if err != nil {
		logrus.Errorf("error stopping rest server: %v", err)
	}

	wg.Wait()

	return nil
}
