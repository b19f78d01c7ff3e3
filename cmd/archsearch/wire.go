package main

import (
	"context"
	"fmt"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/kailas-cloud/archsearch/internal/config"
	dbRedis "github.com/kailas-cloud/archsearch/internal/db/redis"
	"github.com/kailas-cloud/archsearch/internal/domain/agent"
	"github.com/kailas-cloud/archsearch/internal/domain/category"
	logpkg "github.com/kailas-cloud/archsearch/internal/logger"
	"github.com/kailas-cloud/archsearch/internal/metrics"
	"github.com/kailas-cloud/archsearch/internal/repository/catcache"
	"github.com/kailas-cloud/archsearch/internal/transport/azsearch"
	openaiT "github.com/kailas-cloud/archsearch/internal/transport/openai"
	agenticuc "github.com/kailas-cloud/archsearch/internal/usecase/agentic"
	answeruc "github.com/kailas-cloud/archsearch/internal/usecase/answer"
	"github.com/kailas-cloud/archsearch/internal/usecase/categorize"
	healthuc "github.com/kailas-cloud/archsearch/internal/usecase/health"
	traditionaluc "github.com/kailas-cloud/archsearch/internal/usecase/traditional"
	"github.com/kailas-cloud/archsearch/internal/version"
)

// runtimeEnv is the loaded configuration and logger shared by every command.
type runtimeEnv struct {
	env    string
	cfg    config.Config
	logger *zap.Logger
}

func bootstrap(c *cli.Context) (*runtimeEnv, error) {
	env := c.String("env")

	cfg, err := config.Load(env)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	level := c.String("log-level")
	if level == "" {
		level = cfg.Logging.Level
	}
	logger, err := logpkg.NewLogger(env, level)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	metrics.Register()

	logger.Debug("Configuration loaded",
		zap.String("version", version.Version),
		zap.String("env", env),
		zap.String("search_endpoint", cfg.Search.Endpoint),
		zap.String("index", cfg.Search.Index),
		zap.String("openai_endpoint", cfg.OpenAI.Endpoint),
		zap.String("deployment", cfg.OpenAI.Deployment),
	)

	return &runtimeEnv{env: env, cfg: cfg, logger: logger}, nil
}

// services is the composition root output.
type services struct {
	search      *azsearch.Client
	cache       *dbRedis.Store
	traditional *traditionaluc.Service
	// agentic is nil when the knowledge agent is not configured.
	agentic *agenticuc.Service
	health  *healthuc.Service
}

// Close releases the cache connection.
func (s *services) Close() {
	if s.cache != nil {
		s.cache.Close()
	}
}

// buildOptions selects optional parts of the graph.
type buildOptions struct {
	// agentic builds the agentic pipeline; requireAgentic fails when it cannot be built.
	agentic        bool
	requireAgentic bool
	notify         func(msg string)
}

func buildServices(ctx context.Context, rt *runtimeEnv, opts buildOptions) (*services, error) {
	cfg := rt.cfg
	logger := rt.logger
	notify := opts.notify
	if notify == nil {
		notify = func(string) {}
	}

	var cred azcore.TokenCredential
	if cfg.Search.APIKey == "" || cfg.OpenAI.APIKey == "" {
		dac, err := azidentity.NewDefaultAzureCredential(nil)
		if err != nil {
			return nil, fmt.Errorf("ambient identity: %w", err)
		}
		cred = dac
	}
	if cfg.Search.APIKey == "" {
		notify("No search API key provided - attempting to use managed identity")
	}
	if cfg.OpenAI.APIKey == "" {
		notify("No OpenAI API key provided - attempting to use managed identity")
	}

	searchOpts := &azsearch.Options{APIVersion: cfg.Search.APIVersion, Logger: logger}
	var (
		search *azsearch.Client
		err    error
	)
	if cfg.Search.APIKey != "" {
		search, err = azsearch.NewClientWithKey(cfg.Search.Endpoint, cfg.Search.APIKey, searchOpts)
	} else {
		search, err = azsearch.NewClient(cfg.Search.Endpoint, cred, searchOpts)
	}
	if err != nil {
		return nil, fmt.Errorf("search client: %w", err)
	}

	completer, err := openaiT.NewCompleter(&openaiT.Config{
		Endpoint:   cfg.OpenAI.Endpoint,
		APIKey:     cfg.OpenAI.APIKey,
		Credential: cred,
		APIVersion: cfg.OpenAI.APIVersion,
		Deployment: cfg.OpenAI.Deployment,
		Logger:     logger,
	})
	if err != nil {
		return nil, fmt.Errorf("openai client: %w", err)
	}

	svc := &services{search: search}

	if cfg.Cache.Enabled {
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Username: cfg.Cache.Username,
			Password: cfg.Cache.Password,
			DB:       cfg.Cache.DB,
		})
		if err != nil {
			return nil, fmt.Errorf("cache store: %w", err)
		}
		if err := store.WaitForReady(ctx, time.Duration(cfg.Cache.ReadinessTimeout)*time.Second); err != nil {
			store.Close()
			return nil, fmt.Errorf("cache not ready: %w", err)
		}
		logger.Info("Connected to category cache", zap.Strings("addrs", cfg.Cache.Addrs))
		svc.cache = store
	}

	resolver := categorize.NewResolver(buildCategorizer(cfg, completer, svc.cache, logger), logger)
	answerer := answeruc.New(completer, logger)

	svc.traditional = traditionaluc.New(resolver, search, answerer, traditionaluc.Options{
		Index:          cfg.Search.Index,
		SemanticConfig: cfg.Search.SemanticConfig,
		Top:            cfg.Search.Top,
	}, logger)

	if opts.agentic {
		def, err := agentDefinition(cfg)
		switch {
		case err == nil:
			svc.agentic = agenticuc.New(search, answerer, def, logger)
		case opts.requireAgentic:
			svc.Close()
			return nil, err
		default:
			logger.Info("Agentic mode disabled", zap.Error(err))
		}
	}

	// Pass a nil interface, not a typed nil pointer, when the cache is off.
	var pinger healthuc.CachePinger
	if svc.cache != nil {
		pinger = svc.cache
	}
	svc.health = healthuc.New(search, cfg.Search.Index, pinger)

	return svc, nil
}

// buildCategorizer assembles the chain: LLM -> breaker -> cache.
// It returns a nil interface when language model categorization is disabled.
func buildCategorizer(
	cfg config.Config,
	completer categorize.Completer,
	cache *dbRedis.Store,
	logger *zap.Logger,
) category.Categorizer {
	if cfg.Categorizer.Disabled {
		logger.Info("Language model categorization disabled, using keyword matching")
		return nil
	}

	var c category.Categorizer = categorize.NewBreaker(
		categorize.NewLLM(completer, logger),
		categorize.BreakerConfig{
			MaxFailures: cfg.Categorizer.Breaker.MaxFailures,
			OpenTimeout: time.Duration(cfg.Categorizer.Breaker.OpenTimeoutSec) * time.Second,
		},
		logger,
	)

	// Outermost so cache hits skip the breaker and the model.
	if cache != nil {
		c = catcache.New(c, cache, time.Duration(cfg.Cache.TTLSec)*time.Second, metrics.CategoryCacheTotal, logger)
	}
	return c
}

func agentDefinition(cfg config.Config) (agent.Definition, error) {
	if err := cfg.ValidateAgentic(); err != nil {
		return agent.Definition{}, fmt.Errorf("agentic config: %w", err)
	}
	def, err := agent.NewDefinition(cfg.Search.AgentName, cfg.Search.Index, agent.Model{
		ResourceURL:    cfg.OpenAI.Endpoint,
		DeploymentName: cfg.OpenAI.KnowledgeDeployment,
		ModelName:      cfg.OpenAI.KnowledgeModel,
	})
	if err != nil {
		return agent.Definition{}, fmt.Errorf("agent definition: %w", err)
	}
	def.DefaultRerankerThreshold = cfg.Search.RerankerThreshold
	return def, nil
}
