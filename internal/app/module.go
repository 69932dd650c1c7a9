// Package app composes the BaatCheet client: config, storage, realtime
// transport, the chat reconciler, the voice assistant and the TUI.
package app

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/hafizhannan/baatcheet/internal/assistant"
	"github.com/hafizhannan/baatcheet/internal/auth"
	"github.com/hafizhannan/baatcheet/internal/bus"
	"github.com/hafizhannan/baatcheet/internal/chat"
	"github.com/hafizhannan/baatcheet/internal/config"
	"github.com/hafizhannan/baatcheet/internal/lock"
	"github.com/hafizhannan/baatcheet/internal/logging"
	"github.com/hafizhannan/baatcheet/internal/media"
	"github.com/hafizhannan/baatcheet/internal/profile"
	"github.com/hafizhannan/baatcheet/internal/rest"
	"github.com/hafizhannan/baatcheet/internal/rt"
	"github.com/hafizhannan/baatcheet/internal/speech"
	"github.com/hafizhannan/baatcheet/internal/store"
	"github.com/hafizhannan/baatcheet/internal/tui"
)

// Params holds the resolved profile configuration passed to the fx module.
type Params struct {
	Profile string
	Config  *config.Config
}

// Module returns the fx module for the client, composing all providers and
// lifecycle hooks.
func Module(p Params) fx.Option {
	return fx.Module("baatcheet",
		fx.Supply(p),
		fx.Provide(
			provideLogger,
			provideBus,
			provideLock,
			provideStore,
			provideIdentity,
			provideREST,
			provideParser,
			provideRT,
			provideChatService,
			provideSynthesizer,
			provideAssistant,
			provideRecorder,
			provideTUI,
		),
		fx.Invoke(registerLifecycle),
	)
}

func provideLogger(p Params) (*zap.Logger, error) {
	return logging.New(profile.LogPath(p.Profile), p.Profile)
}

func provideBus() *bus.Bus {
	return bus.New()
}

func provideLock(p Params, logger *zap.Logger) (*lock.Lock, error) {
	if err := profile.EnsureDir(p.Profile); err != nil {
		return nil, err
	}
	logger.Info("acquiring profile lock", zap.String("profile", p.Profile))
	l, err := lock.Acquire(profile.Dir(p.Profile))
	if err != nil {
		return nil, err
	}
	logger.Info("profile lock acquired")
	return l, nil
}

func provideStore(p Params, logger *zap.Logger) (*store.DB, error) {
	dbPath := profile.CacheDBPath(p.Profile)
	db, err := store.Open(dbPath)
	if err != nil {
		return nil, err
	}
	result, err := db.Migrate()
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if result.Changed {
		logger.Info("migrations applied", zap.Uint("version", result.Version))
	} else {
		logger.Info("migrations up to date", zap.Uint("version", result.Version))
	}
	logger.Info("cache initialized", zap.String("path", dbPath))
	return db, nil
}

func provideIdentity(p Params, logger *zap.Logger) (*auth.Identity, error) {
	id, err := auth.LoadIdentity(profile.TokenPath(p.Profile))
	if err != nil {
		return nil, err
	}
	logger.Info("identity loaded", zap.String("user", id.UserID), zap.String("name", id.Name))
	return id, nil
}

func provideREST(p Params, id *auth.Identity, logger *zap.Logger) *rest.Client {
	return rest.New(p.Config.APIBase, id.Token, logger)
}

func provideParser(id *auth.Identity, logger *zap.Logger) *rt.Parser {
	return rt.NewParser(id.UserID, logger)
}

func provideRT(p Params, id *auth.Identity, parser *rt.Parser, b *bus.Bus, logger *zap.Logger) *rt.Client {
	return rt.NewClient(p.Config.ServerURL, id.Token, parser, b, logger)
}

func provideChatService(id *auth.Identity, client *rt.Client, api *rest.Client, db *store.DB, b *bus.Bus, logger *zap.Logger) *chat.Service {
	return chat.NewService(id.UserID, client, api, db, b, logger)
}

func provideSynthesizer(p Params, logger *zap.Logger) *speech.Synthesizer {
	if p.Config.SpeechURL == "" {
		return nil
	}
	sink, err := media.Playback()
	if err != nil {
		logger.Warn("no playback device, assistant muted", zap.Error(err))
		sink = nopWriteCloser{}
	}
	hasUrdu := p.Config.Locale == "ur-PK"
	return speech.NewSynthesizer(p.Config.SpeechURL, hasUrdu, sink, logger)
}

func provideAssistant(p Params, synth *speech.Synthesizer, chats *chat.Service, b *bus.Bus, logger *zap.Logger) *assistant.Assistant {
	if p.Config.SpeechURL == "" || synth == nil {
		logger.Info("speech gateway not configured, assistant disabled")
		return nil
	}
	mic, err := media.Mic()
	if err != nil {
		logger.Warn("no capture device, assistant disabled", zap.Error(err))
		return nil
	}
	rec := speech.NewRecognizer(p.Config.SpeechURL, p.Config.Locale, p.Config.AssistantLang, mic, logger)
	return assistant.New(rec, synth, &commander{chats: chats}, b, logger)
}

func provideRecorder(api *rest.Client, chats *chat.Service, logger *zap.Logger) *media.Recorder {
	return media.NewRecorder(media.Mic, api, chats, logger)
}

func provideTUI(p Params, chats *chat.Service, asst *assistant.Assistant, recorder *media.Recorder,
	api *rest.Client, b *bus.Bus, logger *zap.Logger) *tui.App {
	return tui.NewApp(p.Profile, chats, asst, recorder, api, b, logger)
}

func registerLifecycle(lc fx.Lifecycle, shutdowner fx.Shutdowner, app *tui.App, client *rt.Client,
	chats *chat.Service, synth *speech.Synthesizer, db *store.DB, lk *lock.Lock, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			ctx := context.Background()

			chats.Seed()
			chats.Start(ctx)
			client.Start(ctx)
			if synth != nil {
				synth.Start(ctx)
			}

			go func() {
				if err := app.Run(); err != nil {
					logger.Error("tui error", zap.Error(err))
				}
				_ = shutdowner.Shutdown()
			}()
			return nil
		},
		OnStop: func(context.Context) error {
			app.Stop()
			if synth != nil {
				synth.Stop()
			}
			client.Close()
			chats.Stop()
			if err := db.Close(); err != nil {
				logger.Warn("error closing cache", zap.Error(err))
			}
			if err := lk.Release(); err != nil {
				logger.Warn("error releasing lock", zap.Error(err))
			}
			logger.Info("client stopped")
			return nil
		},
	})
}

type commander struct {
	chats *chat.Service
}

func (c *commander) Contacts() []chat.Contact {
	return c.chats.Snapshot().Contacts
}

func (c *commander) Open(ctx context.Context, contactID string) {
	c.chats.OpenConversation(ctx, contactID)
}

func (c *commander) Send(to, text string) {
	c.chats.SendText(to, text, "")
}

type nopWriteCloser struct{}

func (nopWriteCloser) Write(p []byte) (int, error) { return len(p), nil }
func (nopWriteCloser) Close() error                { return nil }
