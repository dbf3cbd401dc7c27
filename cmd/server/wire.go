package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/KirkDiggler/dungeon-master/internal/audit"
	"github.com/KirkDiggler/dungeon-master/internal/clients/external"
	"github.com/KirkDiggler/dungeon-master/internal/clients/image"
	"github.com/KirkDiggler/dungeon-master/internal/clients/llm"
	"github.com/KirkDiggler/dungeon-master/internal/clients/tts"
	"github.com/KirkDiggler/dungeon-master/internal/config"
	"github.com/KirkDiggler/dungeon-master/internal/database"
	"github.com/KirkDiggler/dungeon-master/internal/engine"
	v1 "github.com/KirkDiggler/dungeon-master/internal/handlers/api/v1"
	"github.com/KirkDiggler/dungeon-master/internal/narrative"
	campaignorch "github.com/KirkDiggler/dungeon-master/internal/orchestrators/campaign"
	characterorch "github.com/KirkDiggler/dungeon-master/internal/orchestrators/character"
	chatorch "github.com/KirkDiggler/dungeon-master/internal/orchestrators/chat"
	"github.com/KirkDiggler/dungeon-master/internal/orchestrators/dice"
	mediaorch "github.com/KirkDiggler/dungeon-master/internal/orchestrators/media"
	"github.com/KirkDiggler/dungeon-master/internal/pkg/clock"
	"github.com/KirkDiggler/dungeon-master/internal/pkg/idgen"
	redisclient "github.com/KirkDiggler/dungeon-master/internal/redis"
	campaignrepo "github.com/KirkDiggler/dungeon-master/internal/repositories/campaign"
	characterrepo "github.com/KirkDiggler/dungeon-master/internal/repositories/character"
	messagerepo "github.com/KirkDiggler/dungeon-master/internal/repositories/message"
	pendingroll "github.com/KirkDiggler/dungeon-master/internal/repositories/pending_roll"
	sessionrepo "github.com/KirkDiggler/dungeon-master/internal/repositories/session"
)

// stores holds the repositories for the configured backend
type stores struct {
	campaigns   campaignrepo.Repository
	characters  characterrepo.Repository
	sessions    sessionrepo.Repository
	messages    messagerepo.Repository
	pendingRoll pendingroll.Repository
	close       func() error
}

func openStores(ctx context.Context, cfg *config.Config, clk clock.Clock) (*stores, error) {
	switch cfg.StoreBackend {
	case config.BackendRedis:
		return openRedisStores(ctx, cfg, clk)
	case config.BackendPostgres:
		return openSQLStores(ctx, &database.Config{Driver: database.DriverPostgres, DSN: cfg.DatabaseURL}, clk)
	case config.BackendSQLite:
		return openSQLStores(ctx, &database.Config{Driver: database.DriverSQLite, DSN: cfg.SQLitePath}, clk)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

func openRedisStores(ctx context.Context, cfg *config.Config, clk clock.Clock) (*stores, error) {
	client, err := redisclient.New(redisclient.Config{
		Mode:       cfg.RedisMode,
		Addrs:      cfg.RedisAddr,
		MasterName: cfg.RedisMaster,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create redis client: %w", err)
	}
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to reach redis at %s: %w", cfg.RedisAddr, err)
	}

	s := &stores{close: client.Close}
	if s.campaigns, err = campaignrepo.NewRedis(&campaignrepo.RedisConfig{Client: client, Clock: clk}); err != nil {
		return nil, err
	}
	if s.characters, err = characterrepo.NewRedis(&characterrepo.RedisConfig{Client: client, Clock: clk}); err != nil {
		return nil, err
	}
	if s.sessions, err = sessionrepo.NewRedis(&sessionrepo.RedisConfig{Client: client, Clock: clk}); err != nil {
		return nil, err
	}
	if s.messages, err = messagerepo.NewRedis(&messagerepo.RedisConfig{Client: client, Clock: clk}); err != nil {
		return nil, err
	}
	if s.pendingRoll, err = pendingroll.NewRedisRepository(&pendingroll.Config{Client: client, Clock: clk}); err != nil {
		return nil, err
	}
	return s, nil
}

// openSQLStores keeps pending roll sets in process memory; they are short-lived
// and the SQL schema has no table for them
func openSQLStores(ctx context.Context, dbCfg *database.Config, clk clock.Clock) (*stores, error) {
	db, err := database.Open(ctx, dbCfg)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &stores{
		close:       db.Close,
		pendingRoll: pendingroll.NewMemoryRepository(&pendingroll.MemoryConfig{Clock: clk}),
	}
	if s.campaigns, err = campaignrepo.NewSQL(&campaignrepo.SQLConfig{DB: db, Clock: clk}); err != nil {
		return nil, err
	}
	if s.characters, err = characterrepo.NewSQL(&characterrepo.SQLConfig{DB: db, Clock: clk}); err != nil {
		return nil, err
	}
	if s.sessions, err = sessionrepo.NewSQL(&sessionrepo.SQLConfig{DB: db, Clock: clk}); err != nil {
		return nil, err
	}
	if s.messages, err = messagerepo.NewSQL(&messagerepo.SQLConfig{DB: db, Clock: clk}); err != nil {
		return nil, err
	}
	return s, nil
}

// app is the wired service graph
type app struct {
	handler     *v1.Handler
	auditLogger *audit.Logger
	ttsClient   tts.Client
	stores      *stores
}

func (a *app) Close() {
	if a.ttsClient != nil {
		if err := a.ttsClient.Close(); err != nil {
			slog.Warn("failed to close speech client", "error", err.Error())
		}
	}
	if err := a.auditLogger.Close(); err != nil {
		slog.Warn("failed to close audit logger", "error", err.Error())
	}
	if err := a.stores.close(); err != nil {
		slog.Warn("failed to close store", "error", err.Error())
	}
}

// buildApp wires the configured backends and providers. Providers without
// credentials are left nil and their endpoints report they are not configured.
func buildApp(ctx context.Context, cfg *config.Config) (*app, error) {
	clk := clock.New()
	ids := idgen.NewUUIDGenerators()

	st, err := openStores(ctx, cfg, clk)
	if err != nil {
		return nil, err
	}

	bus := events.NewBus()
	auditLogger := audit.NewLogger(bus)

	a := &app{auditLogger: auditLogger, stores: st}
	ok := false
	defer func() {
		if !ok {
			a.Close()
		}
	}()

	srd, err := external.New(&external.Config{BaseURL: cfg.SRDBaseURL, CacheTTL: cfg.SRDCacheTTL})
	if err != nil {
		return nil, fmt.Errorf("failed to create SRD client: %w", err)
	}

	var llmClient llm.Client
	if cfg.OpenRouterAPIKey != "" {
		llmClient, err = llm.New(&llm.Config{
			APIKey:   cfg.OpenRouterAPIKey,
			BaseURL:  cfg.OpenRouterBaseURL,
			Model:    cfg.OpenRouterModel,
			SiteURL:  cfg.SiteURL,
			SiteName: "AI Dungeon Master",
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create narrator client: %w", err)
		}
	} else {
		slog.Warn("DM_OPENROUTER_API_KEY not set; narrator turns and character generation are disabled")
	}

	if cfg.ElevenLabsAPIKey != "" {
		a.ttsClient, err = tts.New(&tts.Config{APIKey: cfg.ElevenLabsAPIKey, BaseURL: cfg.ElevenLabsBaseURL})
		if err != nil {
			return nil, fmt.Errorf("failed to create speech client: %w", err)
		}
	}

	var imageClient image.Client
	if cfg.ReplicateAPIToken != "" {
		imageClient, err = image.New(&image.Config{
			APIToken:     cfg.ReplicateAPIToken,
			BaseURL:      cfg.ReplicateBaseURL,
			DefaultModel: cfg.ReplicateModel,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create image client: %w", err)
		}
	}

	classifier, err := narrative.NewClassifier(cfg.RollGroupingExpr)
	if err != nil {
		return nil, fmt.Errorf("invalid DM_ROLL_GROUPING_EXPR: %w", err)
	}

	rules, err := engine.New(&engine.Config{ArmorCatalog: srd})
	if err != nil {
		return nil, err
	}

	diceService, err := dice.NewOrchestrator(&dice.Config{
		PendingRollRepo: st.pendingRoll,
		SetTTL:          cfg.PendingRollTTL,
	})
	if err != nil {
		return nil, err
	}

	campaignService, err := campaignorch.New(&campaignorch.Config{
		CampaignRepo:        st.campaigns,
		CharacterRepo:       st.characters,
		SessionRepo:         st.sessions,
		MessageRepo:         st.messages,
		PendingRollRepo:     st.pendingRoll,
		CampaignIDGenerator: ids.Campaign,
		SessionIDGenerator:  ids.Session,
	})
	if err != nil {
		return nil, err
	}

	characterService, err := characterorch.New(&characterorch.Config{
		CharacterRepo:        st.characters,
		SessionRepo:          st.sessions,
		MessageRepo:          st.messages,
		Engine:               rules,
		ExternalClient:       srd,
		LLMClient:            llmClient,
		CharacterIDGenerator: ids.Character,
		MessageIDGenerator:   ids.Message,
		EventBus:             bus,
		Clock:                clk,
	})
	if err != nil {
		return nil, err
	}

	chatService, err := chatorch.New(&chatorch.Config{
		SessionRepo:        st.sessions,
		MessageRepo:        st.messages,
		PendingRollRepo:    st.pendingRoll,
		CharacterService:   characterService,
		DiceService:        diceService,
		LLMClient:          llmClient,
		Classifier:         classifier,
		MessageIDGenerator: ids.Message,
		EventBus:           bus,
		RequestTTL:         cfg.PendingRollTTL,
	})
	if err != nil {
		return nil, err
	}

	mediaService, err := mediaorch.New(&mediaorch.Config{
		TTSClient:   a.ttsClient,
		ImageClient: imageClient,
	})
	if err != nil {
		return nil, err
	}

	a.handler, err = v1.NewHandler(&v1.HandlerConfig{
		CampaignService:  campaignService,
		CharacterService: characterService,
		ChatService:      chatService,
		DiceService:      diceService,
		MediaService:     mediaService,
		ExternalClient:   srd,
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "service wired",
		"store_backend", cfg.StoreBackend,
		"narrator", llmClient != nil,
		"speech", a.ttsClient != nil,
		"images", imageClient != nil,
		"roll_grouping_expr", cfg.RollGroupingExpr != "")
	ok = true
	return a, nil
}
