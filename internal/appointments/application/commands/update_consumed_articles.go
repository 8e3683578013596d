package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/pipisou/garage/internal/appointments/domain"
	catalogDomain "github.com/pipisou/garage/internal/catalog/domain"
	sharedApplication "github.com/pipisou/garage/internal/shared/application"
	"github.com/pipisou/garage/internal/shared/infrastructure/outbox"
	"github.com/pipisou/garage/pkg/observability"
)

type UpdateConsumedArticlesCommand struct {
	ActorID       uuid.UUID
	AppointmentID uuid.UUID
	Lines         []domain.ArticleLine
}

// SkippedLine is a submitted line left out of the consolidated list.
type SkippedLine struct {
	Index  int
	Reason string
}

type UpdateConsumedArticlesResult struct {
	Appointment *domain.Appointment
	Articles    []domain.ConsumedArticle
	Skipped     []SkippedLine
}

// UpdateConsumedArticlesHandler replaces the consumed-article list of an
// appointment. Malformed lines and unknown articles are logged and skipped;
// the remaining lines are consolidated and stored.
type UpdateConsumedArticlesHandler struct {
	appointmentRepo domain.Repository
	articleRepo     catalogDomain.ArticleRepository
	outboxRepo      outbox.Repository
	uow             sharedApplication.UnitOfWork
	logger          *slog.Logger
	metrics         observability.Metrics
}

func NewUpdateConsumedArticlesHandler(
	appointmentRepo domain.Repository,
	articleRepo catalogDomain.ArticleRepository,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
	logger *slog.Logger,
) *UpdateConsumedArticlesHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &UpdateConsumedArticlesHandler{
		appointmentRepo: appointmentRepo,
		articleRepo:     articleRepo,
		outboxRepo:      outboxRepo,
		uow:             uow,
		logger:          logger,
		metrics:         observability.NoopMetrics{},
	}
}

func (h *UpdateConsumedArticlesHandler) WithMetrics(m observability.Metrics) *UpdateConsumedArticlesHandler {
	if m != nil {
		h.metrics = m
	}
	return h
}

func (h *UpdateConsumedArticlesHandler) Handle(ctx context.Context, cmd UpdateConsumedArticlesCommand) (*UpdateConsumedArticlesResult, error) {
	var result *UpdateConsumedArticlesResult

	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		appointment, err := h.appointmentRepo.FindByID(txCtx, cmd.AppointmentID)
		if err != nil {
			return err
		}
		if appointment == nil {
			return domain.ErrAppointmentNotFound
		}

		result = &UpdateConsumedArticlesResult{Appointment: appointment}
		parsed := make([]domain.ConsumedArticle, 0, len(cmd.Lines))
		names := make(map[uuid.UUID]string)
		for i, line := range cmd.Lines {
			article, err := domain.ParseArticleLine(line)
			if err == nil {
				article.ArticleName, err = h.articleName(txCtx, names, article.ArticleID)
			}
			if err != nil {
				if !errors.Is(err, domain.ErrMalformedArticleLine) && !errors.Is(err, catalogDomain.ErrArticleNotFound) {
					return err
				}
				h.skip(txCtx, result, cmd.AppointmentID, i, err)
				continue
			}
			parsed = append(parsed, article)
		}

		result.Articles = domain.ConsolidateArticles(parsed)
		appointment.ReplaceArticles(result.Articles)
		if err := h.appointmentRepo.Save(txCtx, appointment); err != nil {
			return err
		}
		return saveEvents(txCtx, h.outboxRepo, cmd.ActorID, appointment)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// articleName looks an article up once per request.
func (h *UpdateConsumedArticlesHandler) articleName(ctx context.Context, cache map[uuid.UUID]string, id uuid.UUID) (string, error) {
	if name, ok := cache[id]; ok {
		return name, nil
	}
	article, err := h.articleRepo.FindByID(ctx, id)
	if err != nil {
		return "", err
	}
	if article == nil {
		return "", fmt.Errorf("%w: %s", catalogDomain.ErrArticleNotFound, id)
	}
	cache[id] = article.Name()
	return article.Name(), nil
}

func (h *UpdateConsumedArticlesHandler) skip(ctx context.Context, result *UpdateConsumedArticlesResult, appointmentID uuid.UUID, index int, err error) {
	result.Skipped = append(result.Skipped, SkippedLine{Index: index, Reason: err.Error()})
	h.metrics.Counter(observability.MetricArticleLinesSkipped, 1)
	h.logger.WarnContext(ctx, "skipping consumed article line",
		"appointment_id", appointmentID,
		"line", index,
		"error", err,
	)
}
