package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/KatTihanovich/game-progress-api-sub000/internal/adapters/achievementrepository"
	"github.com/KatTihanovich/game-progress-api-sub000/internal/adapters/cache"
	"github.com/KatTihanovich/game-progress-api-sub000/internal/adapters/catalogfile"
	"github.com/KatTihanovich/game-progress-api-sub000/internal/adapters/database"
	"github.com/KatTihanovich/game-progress-api-sub000/internal/adapters/levelrepository"
	"github.com/KatTihanovich/game-progress-api-sub000/internal/adapters/playerrepository"
	"github.com/KatTihanovich/game-progress-api-sub000/internal/app"
	"github.com/KatTihanovich/game-progress-api-sub000/internal/config"
	"github.com/KatTihanovich/game-progress-api-sub000/internal/domain"
	"github.com/KatTihanovich/game-progress-api-sub000/internal/logging"
	"github.com/KatTihanovich/game-progress-api-sub000/internal/reporting"
	"github.com/KatTihanovich/game-progress-api-sub000/internal/telemetry"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	_ "golang.org/x/crypto/x509roots/fallback"
)

const serviceName = "game-progress"

const usage = `usage:
  game-progress seed <catalog.yaml>
  game-progress record -player N -level N [-enemies N] [-puzzles N] [-time HH:MM:SS] [-stars N]
  game-progress recheck
`

type unlockedAchievementJSON struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type recordedAttemptJSON struct {
	AttemptID       int64                     `json:"attemptId"`
	Stars           int                       `json:"stars"`
	TotalTimePlayed string                    `json:"totalTimePlayed"`
	Unlocked        []unlockedAchievementJSON `json:"unlocked"`
}

type services struct {
	seedCatalog         app.SeedCatalog
	recordAttempt       app.RecordAttempt
	recheckAchievements app.RecheckAchievements
}

func main() {
	instanceID := uuid.New().String()
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil)).With("instanceID", instanceID)

	fail := func(msg string, args ...any) {
		logger.Error(msg, args...)
		os.Exit(1)
	}

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	command, args := os.Args[1], os.Args[2:]

	config, err := config.ConfigFromEnv()
	if err != nil {
		fail("Failed to load config", "error", err.Error())
	}
	logger = logging.NewRootLogger(os.Stderr, config.GoogleCloudProject()).With("instanceID", instanceID, "command", command)
	logger.Info("Loaded config", "config", config.NonSensitiveString())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logging.AddToContext(ctx, logger)

	if config.OTLPEndpoint() != "" {
		shutdown, err := telemetry.SetupOTelSDK(ctx, serviceName)
		if err != nil {
			fail("Failed to set up OpenTelemetry", "error", err.Error())
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(shutdownCtx); err != nil {
				logger.Error("Failed to shut down OpenTelemetry", "error", err.Error())
			}
		}()
		logger.Info("Initialized OpenTelemetry")
	}

	flush, err := reporting.NewSentryOrMock(config)
	if err != nil {
		fail("Failed to initialize Sentry", "error", err.Error())
	}
	defer flush()
	logger.Info("Initialized Sentry")

	logger.Info("Initializing database connection")
	db, err := database.NewConfiguredPostgresDatabase(config)
	if err != nil {
		fail("Failed to initialize database", "error", err.Error())
	}
	defer db.Close()
	logger.Info("Initialized database connection")

	repositorySchemaName := database.GetSchemaName(!config.IsProduction())

	err = database.NewDatabaseMigrator(db, logger.With("component", "migrator")).Migrate(ctx, repositorySchemaName)
	if err != nil {
		fail("Failed to migrate database", "error", err.Error())
	}

	catalogCache, stopCatalogCache := cache.NewTTLCache[[]domain.Achievement]("catalog", 1*time.Minute)
	defer stopCatalogCache()
	levelCache, stopLevelCache := cache.NewTTLCache[domain.LevelMetadata]("levels", 10*time.Minute)
	defer stopLevelCache()

	playerRepo := playerrepository.NewPostgres(db, repositorySchemaName)
	levelRepo := levelrepository.NewCached(levelrepository.NewPostgres(db, repositorySchemaName), levelCache)
	achievementRepo := achievementrepository.NewPostgres(db, repositorySchemaName)
	catalogRepo := achievementrepository.NewCachedCatalog(achievementRepo, catalogCache)
	logger.Info("Initialized repositories")

	checkAndUnlock := app.BuildCheckAndUnlock(playerRepo, playerRepo, catalogRepo, achievementRepo, levelRepo, time.Now)

	svc := services{
		seedCatalog:   app.BuildSeedCatalog(levelRepo, catalogRepo, playerRepo),
		recordAttempt: app.BuildRecordAttempt(playerRepo, levelRepo, playerRepo, playerRepo, checkAndUnlock, time.Now),
		recheckAchievements: app.BuildRecheckAchievements(
			playerRepo,
			checkAndUnlock,
			rate.NewLimiter(rate.Limit(config.RecheckPlayersPerSecond()), 1),
		),
	}

	ctx = reporting.AddHubToContext(ctx, command)

	logger.Info("Init complete")
	err = run(ctx, svc, command, args, os.Stdout)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		flush()
		fail("Command failed", "error", err.Error())
	}
}

func run(ctx context.Context, svc services, command string, args []string, stdout io.Writer) error {
	switch command {
	case "seed":
		return runSeed(ctx, svc.seedCatalog, args)
	case "record":
		return runRecord(ctx, svc.recordAttempt, args, stdout)
	case "recheck":
		_, err := svc.recheckAchievements(ctx)
		return err
	default:
		return fmt.Errorf("unknown command %q\n%s", command, usage)
	}
}

func runSeed(ctx context.Context, seedCatalog app.SeedCatalog, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("seed takes exactly one catalog file\n%s", usage)
	}

	catalog, err := catalogfile.Load(args[0])
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	_, err = seedCatalog(ctx, catalog)
	return err
}

func runRecord(ctx context.Context, recordAttempt app.RecordAttempt, args []string, stdout io.Writer) error {
	flags := flag.NewFlagSet("record", flag.ContinueOnError)
	playerID := flags.Int64("player", 0, "player id")
	levelID := flags.Int64("level", 0, "level id")
	enemies := flags.Int("enemies", 0, "enemies killed in the attempt")
	puzzles := flags.Int("puzzles", 0, "puzzles solved in the attempt")
	timeSpent := flags.String("time", "00:00:00", "time spent as HH:MM:SS")
	stars := flags.Int("stars", 0, "stars earned in the attempt")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if *playerID == 0 || *levelID == 0 {
		return fmt.Errorf("record requires -player and -level\n%s", usage)
	}

	recorded, err := recordAttempt(ctx, domain.AttemptRecord{
		PlayerID:      *playerID,
		LevelID:       *levelID,
		KilledEnemies: *enemies,
		SolvedPuzzles: *puzzles,
		TimeSpent:     *timeSpent,
		Stars:         *stars,
	})
	if err != nil {
		return err
	}

	output := recordedAttemptJSON{
		AttemptID:       recorded.Attempt.ID,
		Stars:           recorded.Attempt.Stars,
		TotalTimePlayed: recorded.Stats.TotalTimePlayed,
		Unlocked:        make([]unlockedAchievementJSON, 0, len(recorded.Unlocked)),
	}
	for _, achievement := range recorded.Unlocked {
		output.Unlocked = append(output.Unlocked, unlockedAchievementJSON{
			ID:          achievement.ID,
			Name:        achievement.Name,
			Description: achievement.Description,
		})
	}

	encoder := json.NewEncoder(stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
