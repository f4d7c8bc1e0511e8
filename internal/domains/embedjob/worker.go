package embedjob

import (
	"time"

	"github.com/hibiken/asynq"

	"github.com/cartamenu/carta-rag/internal/config"
	"github.com/cartamenu/carta-rag/pkg/logger"
)

// Worker runs the embedding job pool: an asynq server consuming the
// embeddings queue with the configured concurrency and retry policy.
type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	logger *logger.Logger
}

func NewWorker(
	redisCfg config.RedisConfig,
	workerCfg config.WorkerConfig,
	processor *Processor,
	lg *logger.Logger,
) *Worker {
	concurrency := workerCfg.Concurrency
	if concurrency <= 0 {
		concurrency = 5
	}
	policy := DefaultRetryPolicy()
	if workerCfg.MaxRetries > 0 {
		policy.MaxAttempts = workerCfg.MaxRetries
	}

	server := asynq.NewServer(redisOpt(redisCfg), asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queueName(workerCfg): 1,
		},
		RetryDelayFunc: func(n int, err error, t *asynq.Task) time.Duration {
			return policy.Delay(n)
		},
		Logger: newAsynqLogger(lg),
	})

	mux := asynq.NewServeMux()
	mux.Handle(TypeProductEmbed, processor)

	return &Worker{
		server: server,
		mux:    mux,
		logger: lg,
	}
}

// Start launches the worker pool without blocking.
func (w *Worker) Start() error {
	w.logger.Info("embedding worker starting")
	return w.server.Start(w.mux)
}

// Shutdown drains in-flight jobs and stops the pool.
func (w *Worker) Shutdown() {
	w.logger.Info("embedding worker shutting down")
	w.server.Shutdown()
}

// asynqLogger adapts our zap wrapper to asynq's logging interface.
type asynqLogger struct {
	lg *logger.Logger
}

func newAsynqLogger(lg *logger.Logger) *asynqLogger {
	return &asynqLogger{lg: lg.Named("asynq")}
}

func (l *asynqLogger) Debug(args ...interface{}) { l.lg.Debug(args...) }
func (l *asynqLogger) Info(args ...interface{})  { l.lg.Info(args...) }
func (l *asynqLogger) Warn(args ...interface{})  { l.lg.Warn(args...) }
func (l *asynqLogger) Error(args ...interface{}) { l.lg.Error(args...) }
func (l *asynqLogger) Fatal(args ...interface{}) { l.lg.Fatal(args...) }
