package pipeline

import (
	"context"
	"log"
	"sync/atomic"
	"time"

	"talentmatch/internal/domain/extraction"
	"talentmatch/internal/repository"
)

// OfferExtractionPipeline walks active offers that have no recorded skill
// requirements yet and runs the extractor over each, persisting the
// detected requirements.
type OfferExtractionPipeline struct {
	offers      repository.OfferRepository
	offerSkills repository.OfferSkillRepository
	extractor   *extraction.Extractor
	log         *log.Logger
	batchSize   int
}

func NewOfferExtractionPipeline(
	offers repository.OfferRepository,
	offerSkills repository.OfferSkillRepository,
	extractor *extraction.Extractor,
	logger *log.Logger,
) *OfferExtractionPipeline {
	if logger == nil {
		logger = log.Default()
	}
	return &OfferExtractionPipeline{
		offers:      offers,
		offerSkills: offerSkills,
		extractor:   extractor,
		log:         logger,
		batchSize:   100,
	}
}

type RunParams struct {
	Workers int
	Limit   int
}

// Run processes batches until no unextracted offer remains or ctx is
// cancelled. Returns the number of offers successfully processed.
func (p *OfferExtractionPipeline) Run(ctx context.Context, params RunParams) (int, error) {
	workers := params.Workers
	if workers <= 0 {
		workers = 5
	}
	limit := params.Limit
	if limit <= 0 {
		limit = p.batchSize
	}

	var processed atomic.Int64
	offset := 0
	for {
		if ctx.Err() != nil {
			return int(processed.Load()), ctx.Err()
		}

		batch, err := p.offers.ListActiveWithoutSkills(ctx, limit, offset)
		if err != nil {
			return int(processed.Load()), err
		}
		if len(batch) == 0 {
			return int(processed.Load()), nil
		}

		pool := NewWorkerPool(workers, workers*2)
		results := pool.Run(ctx)

		for _, off := range batch {
			off := off
			ok := pool.Submit(func(ctx context.Context) error {
				start := time.Now()

				detected, _, err := p.extractor.Extract(ctx, off.Description, extraction.Hints{
					Title:   off.Title,
					Company: off.Company,
				})
				if err != nil {
					p.log.Printf("pipeline=offer_extraction status=error offer_id=%s err=%v duration=%s", off.ID, err, time.Since(start))
					return err
				}

				upserts := make([]repository.OfferSkillUpsert, 0, len(detected))
				for _, d := range detected {
					upserts = append(upserts, repository.OfferSkillUpsert{
						SkillID:    d.SkillID,
						IsRequired: d.Required,
						Weight:     1,
						Confidence: d.Confidence,
					})
				}

				if err := p.offerSkills.UpsertForOffer(ctx, off.ID, upserts); err != nil {
					p.log.Printf("pipeline=offer_extraction status=error offer_id=%s skills=%d err=%v duration=%s", off.ID, len(upserts), err, time.Since(start))
					return err
				}

				processed.Add(1)
				p.log.Printf("pipeline=offer_extraction status=ok offer_id=%s skills=%d duration=%s", off.ID, len(upserts), time.Since(start))
				return nil
			})
			if !ok {
				break
			}
		}

		pool.Close()
		failed := 0
		for r := range results {
			if r.Err != nil {
				failed++
			}
		}

		// Failed offers still hold no skills and would be re-listed at
		// the same offset forever; skip past them instead.
		offset += failed
	}
}
