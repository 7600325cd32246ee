package cli

import (
	"io"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"suggestify/internal/app"
	"suggestify/internal/config"
	"suggestify/internal/infra/httpapi"
	"suggestify/internal/infra/memory"
	redisrepo "suggestify/internal/infra/redis"
	"suggestify/internal/logging"
)

const defaultTimeout = 15 * time.Second

// deps is everything a command needs to talk to the service.
type deps struct {
	cfg        config.Config
	client     *httpapi.Client
	questions  app.QuestionRepository
	dispatcher *app.Dispatcher
	redis      *redis.Client
}

func (o *rootOptions) loadConfig() (config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return cfg, err
	}
	if o.baseURL != "" {
		cfg.Service.BaseURL = o.baseURL
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// initLogging sends logs to the configured file, or to w when toFile is false.
func initLogging(cfg config.Config, toFile bool, w io.Writer) {
	lc := logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: w,
	}
	if toFile {
		lc.File = cfg.Log.File
	}
	logging.Init(lc)
}

func buildDeps(cfg config.Config) *deps {
	timeout := config.TTLDuration(cfg.Service.Timeout, defaultTimeout)

	opts := []httpapi.Option{httpapi.WithHTTPClient(&http.Client{Timeout: timeout})}
	if cfg.BreakerEnabled() {
		opts = append(opts, httpapi.WithBreaker(httpapi.BreakerSettings{
			MaxFailures: cfg.Breaker.MaxFailures,
			OpenTimeout: config.TTLDuration(cfg.Breaker.OpenTimeout, 30*time.Second),
		}))
	}
	client := httpapi.New(cfg.Service.BaseURL, opts...)

	d := &deps{cfg: cfg, client: client}
	if cfg.Redis.Addr != "" {
		d.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		d.questions = redisrepo.NewQuestionRepository(d.redis, client, cfg.Redis.Namespace, config.TTLDuration(cfg.Redis.TTL, 10*time.Minute))
	} else {
		d.questions = memory.NewQuestionRepository(client, config.TTLDuration(cfg.Quiz.CacheTTL, 0))
	}
	d.dispatcher = app.NewDispatcher(d.questions, client, timeout)

	logging.Info().
		Str("base_url", cfg.Service.BaseURL).
		Bool("breaker", cfg.BreakerEnabled()).
		Bool("redis", d.redis != nil).
		Msg("service client ready")
	return d
}

func (d *deps) Close() error {
	if d.redis != nil {
		return d.redis.Close()
	}
	return nil
}
