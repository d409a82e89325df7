package app

import (
	"context"
	"log"
	"time"

	"talentmatch/internal/config"
	"talentmatch/internal/database"
	dbpostgres "talentmatch/internal/database/postgres"
	"talentmatch/internal/domain/extraction"
	"talentmatch/internal/domain/matching"
	"talentmatch/internal/infrastructure/cache"
	"talentmatch/internal/pkg/jwt"
	"talentmatch/internal/repository"
	"talentmatch/internal/usecase"
)

// Container owns every long-lived dependency: the pgx pool, the Redis
// wrapper and the usecases built on top of them.
type Container struct {
	Config config.Config
	Logger *log.Logger
	DB     database.DB
	Redis  *cache.Redis

	Skills      repository.SkillCatalogRepository
	Candidates  repository.CandidateRepository
	Offers      repository.OfferRepository
	OfferSkills repository.OfferSkillRepository
	Traces      repository.MatchTraceRepository

	Catalog   *cache.CachedCatalog
	Extractor *extraction.Extractor
	JWT       jwt.Service

	AuthUC    usecase.AuthUsecase
	SkillUC   usecase.SkillUsecase
	ParseUC   usecase.OfferParseUsecase
	MatchUC   usecase.MatchingUsecase
}

// NewContainer wires the graph. fetcher and distance are optional
// collaborators; nil disables URL fetching and the distance hard filter
// respectively.
func NewContainer(cfg config.Config, logger *log.Logger, fetcher usecase.PageFetcher, distance usecase.DistanceProvider) (*Container, error) {
	if logger == nil {
		logger = log.Default()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	redis := cache.NewRedis(logger)

	skills := repository.NewPostgresSkillCatalogRepository(db)
	candidates := repository.NewPostgresCandidateRepository(db)
	offers := repository.NewPostgresOfferRepository(db)
	offerSkills := repository.NewPostgresOfferSkillRepository(db)
	traces := repository.NewPostgresMatchTraceRepository(db)

	catalog := cache.NewCachedCatalog(skills, redis, cache.DefaultTTLFromEnv())
	extractor := extraction.NewExtractor(catalog, extraction.DefaultMarkers())

	jwtSvc := jwt.NewHMACService(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessExpiresIn,
		cfg.JWT.RefreshExpiresIn,
	)

	return &Container{
		Config:      cfg,
		Logger:      logger,
		DB:          db,
		Redis:       redis,
		Skills:      skills,
		Candidates:  candidates,
		Offers:      offers,
		OfferSkills: offerSkills,
		Traces:      traces,
		Catalog:     catalog,
		Extractor:   extractor,
		JWT:         jwtSvc,
		AuthUC:      usecase.NewAuthUsecase(candidates, jwtSvc),
		SkillUC:     usecase.NewSkillUsecase(skills, catalog),
		ParseUC:     usecase.NewOfferParseUsecase(extractor, fetcher),
		MatchUC: usecase.NewMatchingUsecase(
			offers, offerSkills, candidates, traces,
			extractor, distance, matching.DefaultConfig(), logger,
		),
	}, nil
}

func (c *Container) Close() error {
	if c == nil || c.DB == nil {
		return nil
	}
	return c.DB.Close()
}
