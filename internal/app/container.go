package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	appointmentCommands "github.com/pipisou/garage/internal/appointments/application/commands"
	appointmentQueries "github.com/pipisou/garage/internal/appointments/application/queries"
	catalogCommands "github.com/pipisou/garage/internal/catalog/application/commands"
	catalogQueries "github.com/pipisou/garage/internal/catalog/application/queries"
	quoteCommands "github.com/pipisou/garage/internal/quotes/application/commands"
	quoteQueries "github.com/pipisou/garage/internal/quotes/application/queries"
	schedulingQueries "github.com/pipisou/garage/internal/scheduling/application/queries"
	"github.com/pipisou/garage/internal/scheduling/application/services"
	schedulingDomain "github.com/pipisou/garage/internal/scheduling/domain"
	"github.com/pipisou/garage/internal/scheduling/infrastructure/locking"
	"github.com/pipisou/garage/internal/scheduling/infrastructure/readmodel"
	sharedDomain "github.com/pipisou/garage/internal/shared/domain"
	"github.com/pipisou/garage/internal/shared/infrastructure/database"
	_ "github.com/pipisou/garage/internal/shared/infrastructure/database/postgres"
	_ "github.com/pipisou/garage/internal/shared/infrastructure/database/sqlite"
	"github.com/pipisou/garage/internal/shared/infrastructure/eventbus"
	"github.com/pipisou/garage/internal/shared/infrastructure/migrations"
	"github.com/pipisou/garage/internal/shared/infrastructure/outbox"
	workforceCommands "github.com/pipisou/garage/internal/workforce/application/commands"
	workforceQueries "github.com/pipisou/garage/internal/workforce/application/queries"
	"github.com/pipisou/garage/pkg/config"
	"github.com/pipisou/garage/pkg/observability"
)

// Container holds all application dependencies.
type Container struct {
	Config *config.Config
	Logger *slog.Logger

	// Infrastructure
	Conn            database.Connection
	RedisClient     *redis.Client
	Metrics         *observability.PrometheusMetrics
	Health          *observability.HealthRegistry
	EventPublisher  eventbus.Publisher
	OutboxRepo      outbox.Repository
	OutboxProcessor *outbox.Processor
	UnitOfWork      *database.UnitOfWork
	Repositories    *RepositoryFactory

	// Scheduling engine
	Calendar  sharedDomain.Calendar
	Policy    schedulingDomain.Policy
	Locker    schedulingDomain.MechanicLocker
	Validator *services.AssignmentValidator

	// Workforce
	CreateMechanicHandler *workforceCommands.CreateMechanicHandler
	SetScheduleHandler    *workforceCommands.SetScheduleHandler
	RecordAbsenceHandler  *workforceCommands.RecordAbsenceHandler
	RemoveAbsenceHandler  *workforceCommands.RemoveAbsenceHandler
	GetMechanicHandler    *workforceQueries.GetMechanicHandler
	ListMechanicsHandler  *workforceQueries.ListMechanicsHandler

	// Catalog
	CreateTaskDefinitionHandler *catalogCommands.CreateTaskDefinitionHandler
	RegisterArticleHandler      *catalogCommands.RegisterArticleHandler
	ListTaskDefinitionsHandler  *catalogQueries.ListTaskDefinitionsHandler
	ListArticlesHandler         *catalogQueries.ListArticlesHandler

	// Quotes
	CreateQuoteHandler *quoteCommands.CreateQuoteHandler
	GetQuoteHandler    *quoteQueries.GetQuoteHandler

	// Appointments
	CreateAppointmentHandler      *appointmentCommands.CreateAppointmentHandler
	UpdateTaskAssignmentsHandler  *appointmentCommands.UpdateTaskAssignmentsHandler
	UpdateConsumedArticlesHandler *appointmentCommands.UpdateConsumedArticlesHandler
	ValidateAppointmentHandler    *appointmentCommands.ValidateAppointmentHandler
	RequestNewDatesHandler        *appointmentCommands.RequestNewDatesHandler
	UpdateStatusHandler           *appointmentCommands.UpdateStatusHandler
	UpdateTaskStatusHandler       *appointmentCommands.UpdateTaskStatusHandler
	DeleteAppointmentHandler      *appointmentCommands.DeleteAppointmentHandler
	GetAppointmentHandler         *appointmentQueries.GetAppointmentHandler
	ListAppointmentsHandler       *appointmentQueries.ListAppointmentsHandler
	GetInvoiceHandler             *appointmentQueries.GetInvoiceHandler
	ListAttemptsHandler           *schedulingQueries.ListAssignmentAttemptsHandler
}

// NewContainer creates and wires all dependencies. An empty DatabaseURL
// selects SQLite at cfg.SQLitePath; the schema is migrated on start.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Container{
		Config:  cfg,
		Logger:  logger,
		Metrics: observability.NewPrometheusMetrics(logger),
		Health:  observability.NewHealthRegistry(),
	}

	conn, err := database.NewConnection(ctx, database.Config{
		Driver:     database.Driver(cfg.DatabaseDriver),
		URL:        cfg.DatabaseURL,
		SQLitePath: cfg.SQLitePath,
		MaxConns:   int(cfg.DatabaseMaxConns),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	c.Conn = conn
	if err := migrations.Run(ctx, conn); err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	c.Health.Register("database", observability.DatabaseHealthChecker(conn.Ping))
	logger.Info("connected to database", "driver", conn.Driver())

	if err := c.initScheduling(ctx); err != nil {
		c.Close()
		return nil, err
	}

	publisher, err := eventbus.NewPublisher(cfg.EventBroker, c.brokerURL(), logger)
	if err != nil {
		if !cfg.IsDevelopment() {
			c.Close()
			return nil, fmt.Errorf("failed to connect to event broker: %w", err)
		}
		logger.Warn("event broker not available, using noop publisher", "broker", cfg.EventBroker, "error", err)
		publisher = eventbus.NewNoopPublisher(logger)
	}
	c.EventPublisher = publisher

	c.Repositories = NewRepositoryFactory(conn)
	c.OutboxRepo = c.Repositories.OutboxRepository()
	c.UnitOfWork = c.Repositories.UnitOfWork()

	processorConfig := outbox.DefaultProcessorConfig()
	if cfg.OutboxPollInterval > 0 {
		processorConfig.PollInterval = cfg.OutboxPollInterval
	}
	if cfg.OutboxBatchSize > 0 {
		processorConfig.BatchSize = cfg.OutboxBatchSize
	}
	if cfg.OutboxMaxRetries > 0 {
		processorConfig.MaxRetries = cfg.OutboxMaxRetries
	}
	c.OutboxProcessor = outbox.NewProcessor(c.OutboxRepo, c.EventPublisher, processorConfig, logger).WithMetrics(c.Metrics)

	c.wireHandlers()
	return c, nil
}

// initScheduling builds the calendar, policy, locker and validator.
func (c *Container) initScheduling(ctx context.Context) error {
	cfg := c.Config

	calendar, err := sharedDomain.LoadCalendar(cfg.SchedulingTimezone)
	if err != nil {
		return err
	}
	c.Calendar = calendar

	batch, err := schedulingDomain.ParseBatchPolicy(cfg.SchedulingBatchPolicy)
	if err != nil {
		return err
	}
	absence, err := schedulingDomain.ParseAbsenceMatching(cfg.SchedulingAbsenceMatching)
	if err != nil {
		return err
	}
	c.Policy = schedulingDomain.Policy{
		Batch:             batch,
		Absence:           absence,
		CommittedStatuses: cfg.SchedulingCommittedStatuses,
	}

	c.Locker = locking.NewInProcessLocker()
	if cfg.RedisURL != "" {
		if err := c.connectRedis(ctx); err != nil {
			if !cfg.IsDevelopment() {
				return err
			}
			c.Logger.Warn("Redis not available, mechanic locks are process local", "error", err)
		}
	}
	if c.RedisClient != nil {
		lockConfig := locking.DefaultRedisConfig()
		if cfg.SchedulingLockTTL > 0 {
			lockConfig.TTL = cfg.SchedulingLockTTL
		}
		c.Locker = locking.NewRedisLocker(c.RedisClient, lockConfig, c.Logger).WithMetrics(c.Metrics)
	}

	breakerConfig := services.DefaultBreakerConfig()
	if cfg.BreakerFailureThreshold > 0 {
		breakerConfig.FailureThreshold = cfg.BreakerFailureThreshold
	}
	if cfg.BreakerTimeout > 0 {
		breakerConfig.Timeout = cfg.BreakerTimeout
	}

	repos := NewRepositoryFactory(c.Conn)
	c.Validator = services.NewAssignmentValidator(
		services.NewGuardedAvailability(readmodel.NewWorkforceAvailability(repos.MechanicRepository()), breakerConfig, c.Logger, c.Metrics),
		services.NewGuardedRequirements(readmodel.NewCatalogRequirements(repos.TaskDefinitionRepository()), breakerConfig, c.Logger, c.Metrics),
		repos.CommittedBookingReader(),
		c.Calendar,
		c.Policy,
		c.Logger,
	).WithMetrics(c.Metrics)
	return nil
}

func (c *Container) connectRedis(ctx context.Context) error {
	opt, err := redis.ParseURL(c.Config.RedisURL)
	if err != nil {
		return fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	c.RedisClient = client
	c.Health.Register("redis", observability.RedisHealthChecker(func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}))
	c.Logger.Info("connected to Redis")
	return nil
}

func (c *Container) brokerURL() string {
	switch c.Config.EventBroker {
	case eventbus.BrokerRabbitMQ:
		return c.Config.RabbitMQURL
	case eventbus.BrokerNATS:
		return c.Config.NATSURL
	default:
		return ""
	}
}

func (c *Container) wireHandlers() {
	repos := c.Repositories
	mechanics := repos.MechanicRepository()
	tasks := repos.TaskDefinitionRepository()
	articles := repos.ArticleRepository()
	quotes := repos.QuoteRepository()
	appointments := repos.AppointmentRepository()
	attempts := repos.AttemptRepository()

	c.CreateMechanicHandler = workforceCommands.NewCreateMechanicHandler(mechanics, c.OutboxRepo, c.UnitOfWork)
	c.SetScheduleHandler = workforceCommands.NewSetScheduleHandler(mechanics, c.OutboxRepo, c.UnitOfWork)
	c.RecordAbsenceHandler = workforceCommands.NewRecordAbsenceHandler(mechanics, c.OutboxRepo, c.UnitOfWork)
	c.RemoveAbsenceHandler = workforceCommands.NewRemoveAbsenceHandler(mechanics, c.UnitOfWork)
	c.GetMechanicHandler = workforceQueries.NewGetMechanicHandler(mechanics)
	c.ListMechanicsHandler = workforceQueries.NewListMechanicsHandler(mechanics)

	c.CreateTaskDefinitionHandler = catalogCommands.NewCreateTaskDefinitionHandler(tasks)
	c.RegisterArticleHandler = catalogCommands.NewRegisterArticleHandler(articles)
	c.ListTaskDefinitionsHandler = catalogQueries.NewListTaskDefinitionsHandler(tasks)
	c.ListArticlesHandler = catalogQueries.NewListArticlesHandler(articles)

	c.CreateQuoteHandler = quoteCommands.NewCreateQuoteHandler(
		quotes, tasks, repos.Sequence(), c.OutboxRepo, c.UnitOfWork, c.Logger,
	).WithMetrics(c.Metrics)
	c.GetQuoteHandler = quoteQueries.NewGetQuoteHandler(quotes)

	c.CreateAppointmentHandler = appointmentCommands.NewCreateAppointmentHandler(
		appointments, quotes, c.OutboxRepo, c.UnitOfWork, c.Logger,
	).WithMetrics(c.Metrics)
	c.UpdateTaskAssignmentsHandler = appointmentCommands.NewUpdateTaskAssignmentsHandler(
		appointments, c.Validator, c.Locker, attempts, c.OutboxRepo, c.UnitOfWork, c.Logger,
	).WithMetrics(c.Metrics)
	c.UpdateConsumedArticlesHandler = appointmentCommands.NewUpdateConsumedArticlesHandler(
		appointments, articles, c.OutboxRepo, c.UnitOfWork, c.Logger,
	).WithMetrics(c.Metrics)
	c.ValidateAppointmentHandler = appointmentCommands.NewValidateAppointmentHandler(appointments, c.OutboxRepo, c.UnitOfWork)
	c.RequestNewDatesHandler = appointmentCommands.NewRequestNewDatesHandler(appointments, c.OutboxRepo, c.UnitOfWork)
	c.UpdateStatusHandler = appointmentCommands.NewUpdateStatusHandler(appointments, c.OutboxRepo, c.UnitOfWork)
	c.UpdateTaskStatusHandler = appointmentCommands.NewUpdateTaskStatusHandler(appointments, c.OutboxRepo, c.UnitOfWork)
	c.DeleteAppointmentHandler = appointmentCommands.NewDeleteAppointmentHandler(appointments, quotes, c.UnitOfWork)
	c.GetAppointmentHandler = appointmentQueries.NewGetAppointmentHandler(appointments)
	c.ListAppointmentsHandler = appointmentQueries.NewListAppointmentsHandler(appointments)
	c.GetInvoiceHandler = appointmentQueries.NewGetInvoiceHandler(appointments, tasks)
	c.ListAttemptsHandler = schedulingQueries.NewListAssignmentAttemptsHandler(attempts)
}

// Close cleans up all resources.
func (c *Container) Close() {
	if c.OutboxProcessor != nil && c.OutboxProcessor.IsRunning() {
		c.OutboxProcessor.Stop()
	}

	if c.EventPublisher != nil {
		if err := c.EventPublisher.Close(); err != nil {
			c.Logger.Warn("error closing event publisher", "error", err)
		}
	}

	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			c.Logger.Warn("error closing Redis connection", "error", err)
		} else {
			c.Logger.Info("Redis connection closed")
		}
	}

	if c.Conn != nil {
		if err := c.Conn.Close(); err != nil {
			c.Logger.Warn("error closing database connection", "error", err)
		} else {
			c.Logger.Info("database connection closed", "driver", c.Conn.Driver())
		}
	}
}
