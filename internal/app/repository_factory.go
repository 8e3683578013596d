package app

import (
	appointmentDomain "github.com/pipisou/garage/internal/appointments/domain"
	appointmentPersistence "github.com/pipisou/garage/internal/appointments/infrastructure/persistence"
	catalogDomain "github.com/pipisou/garage/internal/catalog/domain"
	catalogPersistence "github.com/pipisou/garage/internal/catalog/infrastructure/persistence"
	quoteDomain "github.com/pipisou/garage/internal/quotes/domain"
	quotePersistence "github.com/pipisou/garage/internal/quotes/infrastructure/persistence"
	schedulingDomain "github.com/pipisou/garage/internal/scheduling/domain"
	schedulingPersistence "github.com/pipisou/garage/internal/scheduling/infrastructure/persistence"
	"github.com/pipisou/garage/internal/shared/infrastructure/database"
	"github.com/pipisou/garage/internal/shared/infrastructure/outbox"
	"github.com/pipisou/garage/internal/shared/infrastructure/sequence"
	workforceDomain "github.com/pipisou/garage/internal/workforce/domain"
	workforcePersistence "github.com/pipisou/garage/internal/workforce/infrastructure/persistence"
)

// RepositoryFactory creates repositories bound to one connection. The SQL
// repositories rebind placeholders per driver, so PostgreSQL and SQLite
// share one implementation.
type RepositoryFactory struct {
	conn database.Connection
}

func NewRepositoryFactory(conn database.Connection) *RepositoryFactory {
	return &RepositoryFactory{conn: conn}
}

func (f *RepositoryFactory) Driver() database.Driver {
	return f.conn.Driver()
}

func (f *RepositoryFactory) MechanicRepository() workforceDomain.MechanicRepository {
	return workforcePersistence.NewSQLMechanicRepository(f.conn)
}

func (f *RepositoryFactory) TaskDefinitionRepository() catalogDomain.TaskDefinitionRepository {
	return catalogPersistence.NewSQLTaskDefinitionRepository(f.conn)
}

func (f *RepositoryFactory) ArticleRepository() catalogDomain.ArticleRepository {
	return catalogPersistence.NewSQLArticleRepository(f.conn)
}

func (f *RepositoryFactory) QuoteRepository() quoteDomain.Repository {
	return quotePersistence.NewSQLQuoteRepository(f.conn)
}

func (f *RepositoryFactory) AppointmentRepository() appointmentDomain.Repository {
	return appointmentPersistence.NewSQLAppointmentRepository(f.conn)
}

// CommittedBookingReader serves the overlap rule from appointment_tasks.
func (f *RepositoryFactory) CommittedBookingReader() schedulingDomain.CommittedBookingReader {
	return appointmentPersistence.NewSQLCommittedBookingReader(f.conn)
}

func (f *RepositoryFactory) AttemptRepository() schedulingDomain.AttemptRepository {
	return schedulingPersistence.NewSQLAttemptRepository(f.conn)
}

func (f *RepositoryFactory) OutboxRepository() outbox.Repository {
	return outbox.NewSQLRepository(f.conn)
}

func (f *RepositoryFactory) Sequence() *sequence.Generator {
	return sequence.NewGenerator(f.conn)
}

func (f *RepositoryFactory) UnitOfWork() *database.UnitOfWork {
	return database.NewUnitOfWork(f.conn)
}
