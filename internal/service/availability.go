package service

import (
	"context"
	"time"

	"github.com/Freeeeeet/training_bot/internal/model"
	"go.uber.org/zap"
)

// SameDayLeadTime минимальный запас до начала занятия при записи на сегодня
const SameDayLeadTime = 30 * time.Minute

// OccupiedTimesReader читает занятые слоты
type OccupiedTimesReader interface {
	OccupiedTimes(ctx context.Context, date time.Time, professional string) ([]model.ClockTime, error)
}

// FilterAvailable возвращает времена из каталога, которые можно предложить на дату date.
// Порядок каталога сохраняется
func FilterAvailable(date time.Time, catalog, occupied []model.ClockTime, now time.Time) []model.ClockTime {
	taken := make(map[model.ClockTime]struct{}, len(occupied))
	for _, t := range occupied {
		taken[t] = struct{}{}
	}

	sameDay := model.DateOf(date).Equal(model.DateOf(now))
	current := model.ClockOf(now)
	leadMinutes := int(SameDayLeadTime / time.Minute)

	available := make([]model.ClockTime, 0, len(catalog))
	for _, t := range catalog {
		if _, ok := taken[t]; ok {
			continue
		}

		if sameDay {
			if t.Hour < current.Hour {
				continue
			}
			if t.Hour == current.Hour && t.Minute <= current.Minute+leadMinutes {
				continue
			}
		}

		available = append(available, t)
	}

	return available
}

// AvailabilityService вычисляет свободные слоты специалиста на дату
type AvailabilityService struct {
	store   OccupiedTimesReader
	catalog []model.ClockTime
	clock   Clock
	logger  *zap.Logger
}

func NewAvailabilityService(
	store OccupiedTimesReader,
	catalog []model.ClockTime,
	clock Clock,
	logger *zap.Logger,
) *AvailabilityService {
	return &AvailabilityService{
		store:   store,
		catalog: catalog,
		clock:   clock,
		logger:  logger,
	}
}

// Catalog возвращает копию дневного каталога времён
func (s *AvailabilityService) Catalog() []model.ClockTime {
	return append([]model.ClockTime(nil), s.catalog...)
}

// InCatalog проверяет, что время есть в каталоге
func (s *AvailabilityService) InCatalog(t model.ClockTime) bool {
	for _, c := range s.catalog {
		if c == t {
			return true
		}
	}
	return false
}

// Available возвращает свободные времена на дату у специалиста
func (s *AvailabilityService) Available(ctx context.Context, date time.Time, professional string) ([]model.ClockTime, error) {
	occupied, err := s.store.OccupiedTimes(ctx, model.DateOf(date), professional)
	if err != nil {
		s.logger.Error("Failed to load occupied times",
			zap.String("date", model.FormatDate(date)),
			zap.String("professional", professional),
			zap.Error(err),
		)
		return nil, model.NewUnavailableError("load availability", err)
	}

	return FilterAvailable(date, s.catalog, occupied, s.clock()), nil
}
