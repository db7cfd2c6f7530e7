package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	hclog "github.com/hashicorp/go-hclog"

	cataloginadapter "shelfmate/internal/modules/catalog/adapter/in"
	catalogoutadapter "shelfmate/internal/modules/catalog/adapter/out"
	catalogin "shelfmate/internal/modules/catalog/port/in"
	catalogout "shelfmate/internal/modules/catalog/port/out"
	catalogservice "shelfmate/internal/modules/catalog/service"
	catalogusecase "shelfmate/internal/modules/catalog/usecase"
	identityinadapter "shelfmate/internal/modules/identity/adapter/in"
	identityoutadapter "shelfmate/internal/modules/identity/adapter/out"
	identityin "shelfmate/internal/modules/identity/port/in"
	identityservice "shelfmate/internal/modules/identity/service"
	identityusecase "shelfmate/internal/modules/identity/usecase"
	libraryinadapter "shelfmate/internal/modules/library/adapter/in"
	libraryoutadapter "shelfmate/internal/modules/library/adapter/out"
	libraryin "shelfmate/internal/modules/library/port/in"
	libraryservice "shelfmate/internal/modules/library/service"
	libraryusecase "shelfmate/internal/modules/library/usecase"
	missioninadapter "shelfmate/internal/modules/mission/adapter/in"
	missionoutadapter "shelfmate/internal/modules/mission/adapter/out"
	missiondto "shelfmate/internal/modules/mission/dto"
	missionin "shelfmate/internal/modules/mission/port/in"
	missionservice "shelfmate/internal/modules/mission/service"
	missionusecase "shelfmate/internal/modules/mission/usecase"
	reviewinadapter "shelfmate/internal/modules/review/adapter/in"
	reviewoutadapter "shelfmate/internal/modules/review/adapter/out"
	reviewservice "shelfmate/internal/modules/review/service"
	reviewusecase "shelfmate/internal/modules/review/usecase"
	sessioninadapter "shelfmate/internal/modules/session/adapter/in"
	sessionoutadapter "shelfmate/internal/modules/session/adapter/out"
	sessiondomain "shelfmate/internal/modules/session/domain"
	sessionin "shelfmate/internal/modules/session/port/in"
	sessionservice "shelfmate/internal/modules/session/service"
	sessionusecase "shelfmate/internal/modules/session/usecase"
	"shelfmate/internal/platform/calendar"
	"shelfmate/internal/platform/clock"
	"shelfmate/internal/platform/config"
	"shelfmate/internal/platform/id"
	"shelfmate/internal/platform/logging"
	"shelfmate/internal/platform/sqlitestore"
	"shelfmate/internal/platform/tx"
	uiapp "shelfmate/internal/ui/app"
	missionsview "shelfmate/internal/ui/views/missions"
)

type App struct {
	AccountCLI identityinadapter.CLIHandler
	BookCLI    libraryinadapter.CLIHandler
	CatalogCLI cataloginadapter.CLIHandler
	ReviewCLI  reviewinadapter.CLIHandler
	SessionCLI sessioninadapter.CLIHandler
	MissionCLI missioninadapter.CLIHandler

	Log hclog.Logger

	db       *sql.DB
	clock    clock.Clock
	identity identityin.Usecase
	library  libraryin.Usecase
	session  sessionin.Usecase
	missions missionin.Usecase
	catalog  catalogin.Usecase
	cfg      config.Config
}

func New(cfg config.Config) (*App, error) {
	log := logging.New(logging.Options{Level: cfg.LogLevel, JSON: cfg.LogJSON})
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	db, err := sqlitestore.Open(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	txm := tx.NewSQLManager(db)
	clk := clock.SystemClock{}
	ids := id.UUID{}

	secret := []byte(cfg.TokenSecret)
	if len(secret) == 0 {
		secret, err = identityoutadapter.LoadOrCreateKey(filepath.Join(cfg.StateDir, "token.key"))
		if err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	signer, err := identityoutadapter.NewJWTSigner(secret, cfg.TokenTTL)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("new token signer: %w", err)
	}
	identityUC := identityusecase.NewInteractor(identityservice.NewIdentityService(
		clk, ids,
		identityoutadapter.NewSQLiteUserStore(db),
		identityoutadapter.NewFileTokenStore(cfg.StateDir),
		signer,
		identityoutadapter.NewBcryptHasher(cfg.PasswordCost),
		log.Named("identity"),
	))

	var providers []catalogout.Provider
	if cfg.KakaoAPIKey != "" {
		providers = append(providers, catalogoutadapter.NewKakaoClient(cfg.KakaoBaseURL, cfg.KakaoAPIKey, cfg.LookupTimeout, nil))
	}
	catalogUC := catalogusecase.NewInteractor(catalogservice.NewCatalogService(
		providers,
		catalogoutadapter.NewFileManifestStore(cfg.PluginsPath()),
		catalogoutadapter.NewGRPCHost(log.Named("plugin"), cfg.LookupTimeout),
		log.Named("catalog"),
	))

	libraryUC := libraryusecase.NewInteractor(
		libraryservice.NewBookService(
			clk,
			libraryoutadapter.NewSQLiteBookStore(db),
			libraryoutadapter.NewVaultBookNotes(cfg.DataPath),
			libraryoutadapter.NewPDFPageCounter(),
			cfg.DefaultTotalPages,
			log.Named("library"),
		),
		identityUC, catalogUC, txm,
	)

	reviewUC := reviewusecase.NewInteractor(
		reviewservice.NewReviewService(
			clk, ids,
			reviewoutadapter.NewSQLiteReviewStore(db),
			reviewoutadapter.NewSQLiteMemoStore(db),
			reviewoutadapter.NewVaultMemoNotes(),
			log.Named("review"),
		),
		identityUC, libraryUC, txm,
	)

	missionUC := missionusecase.NewInteractor(
		missionservice.NewMissionService(
			clk, ids,
			missionoutadapter.NewSQLiteMissionStore(db),
			missionoutadapter.NewSQLitePendingStore(db),
			loc,
			log.Named("mission"),
		),
		identityUC, txm,
	)

	rules := sessiondomain.Rules{
		MinSessionSeconds: cfg.MinSessionSeconds,
		MaxPagesPerMinute: cfg.MaxPagesPerMinute,
		DailyPagesCap:     cfg.DailyPagesCap,
	}
	if err := rules.Validate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	sessionUC := sessionusecase.NewInteractor(
		sessionservice.NewSessionService(
			clk, ids, rules, loc,
			sessionoutadapter.NewSQLiteSessionStore(db),
			sessionoutadapter.NewVaultSessionNotes(cfg.DataPath),
			log.Named("session"),
		),
		identityUC, libraryUC, missionUC,
		sessionoutadapter.NewFileActiveSessionStore(cfg.StateDir),
		txm,
	)

	return &App{
		AccountCLI: identityinadapter.NewCLIHandler(identityUC),
		BookCLI:    libraryinadapter.NewCLIHandler(libraryUC),
		CatalogCLI: cataloginadapter.NewCLIHandler(catalogUC),
		ReviewCLI:  reviewinadapter.NewCLIHandler(reviewUC),
		SessionCLI: sessioninadapter.NewCLIHandler(sessionUC),
		MissionCLI: missioninadapter.NewCLIHandler(missionUC),
		Log:        log,
		db:         db,
		clock:      clk,
		identity:   identityUC,
		library:    libraryUC,
		session:    sessionUC,
		missions:   missionUC,
		catalog:    catalogUC,
		cfg:        cfg,
	}, nil
}

func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

// CurrentUserID is used by long-running commands that subscribe to one user's missions.
func (a *App) CurrentUserID(ctx context.Context) (string, error) {
	return a.identity.Current(ctx)
}

func RunTUI(app *App) error {
	loc, err := app.cfg.Location()
	if err != nil {
		return err
	}
	today := func() calendar.Date { return calendar.FromTime(app.clock.Now(), loc) }
	model := uiapp.NewModel(app.library, app.session, app.missions, app.catalog, app.identity, today)
	program := tea.NewProgram(model, tea.WithAltScreen())

	// Mission snapshots are pushed into the program; the subscription follows sign-in changes.
	var (
		mu    sync.Mutex
		unsub = func() {}
	)
	follow := func(userID string) {
		mu.Lock()
		defer mu.Unlock()
		unsub()
		unsub = func() {}
		if userID == "" {
			return
		}
		unsub = app.missions.Subscribe(userID, func(missions []missiondto.MissionOutput) {
			program.Send(missionsview.UpdatedMsg{Missions: missions})
		})
	}
	if uid, err := app.identity.Current(context.Background()); err == nil {
		follow(uid)
	}
	stop := app.identity.Subscribe(follow)
	defer func() {
		stop()
		follow("")
	}()

	_, err = program.Run()
	return err
}
