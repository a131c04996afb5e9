// Package businessflow contains use cases for resolving the bean of the day
package businessflow

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/DavidIrvine-TW/tombola/app/dto"
	"github.com/DavidIrvine-TW/tombola/models"
	"github.com/DavidIrvine-TW/tombola/repository"
	"github.com/DavidIrvine-TW/tombola/utils"
	"gorm.io/gorm"
)

// maxSelectionRetries bounds how often a caller re-resolves after losing the
// first-of-day insert race. One retry is enough in practice since the winner's
// row is visible as soon as our own transaction rolls back.
const maxSelectionRetries = 3

// BotdFlow resolves the daily featured bean. The first call of a new UTC day
// selects a bean at random, excluding yesterday's pick, and persists the
// choice; every later call that day is a read of the recorded selection.
type BotdFlow interface {
	BeanOfTheDay(ctx context.Context, metadata *ClientMetadata) (*dto.BeanOfTheDayResponse, error)
}

type BotdFlowImpl struct {
	beanRepo    repository.BeanRepository
	historyRepo repository.BotdHistoryRepository
	db          *gorm.DB

	mu  sync.Mutex
	rng *rand.Rand

	// today is swappable so tests can pin the calendar day
	today func() utils.Day
}

// NewBotdFlow creates the bean-of-the-day flow. A nil rng falls back to a
// time-seeded source.
func NewBotdFlow(beanRepo repository.BeanRepository, historyRepo repository.BotdHistoryRepository, db *gorm.DB, rng *rand.Rand) BotdFlow {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &BotdFlowImpl{
		beanRepo:    beanRepo,
		historyRepo: historyRepo,
		db:          db,
		rng:         rng,
		today:       utils.Today,
	}
}

// BeanOfTheDay returns today's featured bean, selecting and persisting one if
// no selection exists yet for the current UTC day.
func (f *BotdFlowImpl) BeanOfTheDay(ctx context.Context, metadata *ClientMetadata) (*dto.BeanOfTheDayResponse, error) {
	today := f.today()

	for attempt := 0; attempt <= maxSelectionRetries; attempt++ {
		bean, err := f.resolveRecorded(ctx, today)
		if err != nil {
			return nil, err
		}
		if bean != nil {
			return botdResponse(bean, today), nil
		}

		bean, err = f.selectAndPersist(ctx, today)
		if err == nil {
			return botdResponse(bean, today), nil
		}
		if !errors.Is(err, ErrBotdSelectionRaced) {
			return nil, err
		}

		// A concurrent caller inserted today's history row first. Drop our
		// pick and converge on theirs via the read path.
		requestID := ""
		if metadata != nil {
			requestID = metadata.RequestID
		}
		log.Printf("botd selection raced for %s (request_id=%s), re-resolving", today, requestID)
	}

	return nil, NewBusinessError("BOTD_RETRIES_EXCEEDED", "Failed to resolve bean of the day after conflict retries", ErrBotdRetriesExceeded)
}

// resolveRecorded returns the bean already recorded for the given day, or nil
// when no selection exists yet.
func (f *BotdFlowImpl) resolveRecorded(ctx context.Context, day utils.Day) (*models.Bean, error) {
	entry, err := f.historyRepo.ByDate(ctx, day.String())
	if err != nil {
		return nil, NewBusinessError("BOTD_HISTORY_LOOKUP_FAILED", "Failed to look up botd history", err)
	}
	if entry == nil {
		return nil, nil
	}

	bean, err := f.beanRepo.ByID(ctx, entry.BeanID)
	if err != nil {
		return nil, NewBusinessError("BOTD_BEAN_LOOKUP_FAILED", "Failed to load recorded bean of the day", err)
	}
	if bean == nil {
		// History pointing at a deleted bean is an integrity failure; never
		// silently substitute another bean.
		return nil, NewBusinessError("BOTD_HISTORY_CORRUPT", "Recorded bean of the day no longer exists", ErrBotdHistoryCorrupt)
	}
	return bean, nil
}

// selectAndPersist picks a new bean for the day and writes the flag update
// plus the history row in a single transaction. Losing the per-date unique
// constraint race surfaces as ErrBotdSelectionRaced.
func (f *BotdFlowImpl) selectAndPersist(ctx context.Context, day utils.Day) (*models.Bean, error) {
	beans, err := f.beanRepo.ByFilter(ctx, models.BeanFilter{}, "index ASC", 0, 0)
	if err != nil {
		return nil, NewBusinessError("BOTD_CATALOG_LOAD_FAILED", "Failed to load catalog for botd selection", err)
	}
	if len(beans) == 0 {
		return nil, ErrNoBeansAvailable
	}

	var excludedID uint
	prevEntry, err := f.historyRepo.ByDate(ctx, day.Prev().String())
	if err != nil {
		return nil, NewBusinessError("BOTD_HISTORY_LOOKUP_FAILED", "Failed to look up yesterday's botd history", err)
	}
	if prevEntry != nil {
		excludedID = prevEntry.BeanID
	}

	candidates := excludeBean(beans, excludedID)
	if len(candidates) == 0 {
		// Single-bean catalog whose only bean was yesterday's pick: repeating
		// it beats serving nothing.
		candidates = beans
	}

	selected := pickRandom(candidates, f.intn)

	err = repository.WithTransaction(ctx, f.db, func(txCtx context.Context) error {
		if err := f.beanRepo.SetBotd(txCtx, selected.ID); err != nil {
			return err
		}
		return f.historyRepo.Save(txCtx, &models.BotdHistory{
			BeanID: selected.ID,
			Date:   day.String(),
		})
	})
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrBotdSelectionRaced
		}
		return nil, NewBusinessError("BOTD_PERSIST_FAILED", "Failed to persist bean of the day selection", err)
	}

	selected.IsBotd = true
	return selected, nil
}

func (f *BotdFlowImpl) intn(n int) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rng.Intn(n)
}

// excludeBean returns beans minus the one with the given id. A zero id
// excludes nothing.
func excludeBean(beans []*models.Bean, id uint) []*models.Bean {
	if id == 0 {
		return beans
	}
	out := make([]*models.Bean, 0, len(beans))
	for _, b := range beans {
		if b.ID != id {
			out = append(out, b)
		}
	}
	return out
}

// pickRandom selects one bean uniformly at random. Kept free of persistence
// concerns so selection is testable with a deterministic source.
func pickRandom(candidates []*models.Bean, intn func(int) int) *models.Bean {
	if len(candidates) == 1 {
		return candidates[0]
	}
	return candidates[intn(len(candidates))]
}

func botdResponse(bean *models.Bean, day utils.Day) *dto.BeanOfTheDayResponse {
	return &dto.BeanOfTheDayResponse{
		Message: "Bean of the day retrieved successfully",
		Bean:    ToBeanDTO(*bean),
		Date:    day.String(),
	}
}
