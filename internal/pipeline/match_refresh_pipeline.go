package pipeline

import (
	"context"
	"log"
	"sync/atomic"
	"time"

	"talentmatch/internal/repository"
	"talentmatch/internal/usecase"
	"talentmatch/internal/ws"
)

// MatchRefreshPipeline re-scores active offers for every candidate with a
// declared skill profile, refreshing the audit traces after an ingest or a
// catalog change, then notifies websocket subscribers.
type MatchRefreshPipeline struct {
	candidates repository.CandidateRepository
	offers     repository.OfferRepository
	matching   usecase.MatchingUsecase
	log        *log.Logger
	batchSize  int
}

func NewMatchRefreshPipeline(
	candidates repository.CandidateRepository,
	offers repository.OfferRepository,
	matching usecase.MatchingUsecase,
	logger *log.Logger,
) *MatchRefreshPipeline {
	if logger == nil {
		logger = log.Default()
	}
	return &MatchRefreshPipeline{
		candidates: candidates,
		offers:     offers,
		matching:   matching,
		log:        logger,
		batchSize:  100,
	}
}

type MatchRefreshParams struct {
	Workers int
	// MaxOffers bounds how many active offers each run considers.
	MaxOffers int
	Source    string
}

func (p *MatchRefreshPipeline) Run(ctx context.Context, params MatchRefreshParams) error {
	workers := params.Workers
	if workers <= 0 {
		workers = 5
	}
	maxOffers := params.MaxOffers
	if maxOffers <= 0 {
		maxOffers = 500
	}

	offerIDs, err := p.offers.ListActiveIDs(ctx, maxOffers, 0)
	if err != nil {
		return err
	}
	if len(offerIDs) == 0 {
		return nil
	}

	var scored atomic.Int64
	offset := 0
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		candidateIDs, err := p.candidates.ListWithDeclaredSkills(ctx, p.batchSize, offset)
		if err != nil {
			return err
		}
		if len(candidateIDs) == 0 {
			break
		}

		pool := NewWorkerPool(workers, workers*2)
		results := pool.Run(ctx)

		for _, candID := range candidateIDs {
			candID := candID
			ok := pool.Submit(func(ctx context.Context) error {
				start := time.Now()
				var firstErr error
				for _, offID := range offerIDs {
					if ctx.Err() != nil {
						return ctx.Err()
					}
					if _, err := p.matching.ScoreOfferForCandidate(ctx, candID, offID); err != nil {
						if firstErr == nil {
							firstErr = err
						}
						continue
					}
					scored.Add(1)
				}
				if firstErr != nil {
					p.log.Printf("pipeline=match_refresh status=partial candidate_id=%s offers=%d err=%v duration=%s", candID, len(offerIDs), firstErr, time.Since(start))
					return firstErr
				}
				p.log.Printf("pipeline=match_refresh status=ok candidate_id=%s offers=%d duration=%s", candID, len(offerIDs), time.Since(start))
				return nil
			})
			if !ok {
				break
			}
		}

		pool.Close()
		for range results {
		}

		offset += len(candidateIDs)
	}

	source := params.Source
	if source == "" {
		source = "match_refresh"
	}
	ws.NotifyMatchesRefreshed(source, len(offerIDs))

	p.log.Printf("pipeline=match_refresh status=done offers=%d scores=%d", len(offerIDs), scored.Load())
	return nil
}
