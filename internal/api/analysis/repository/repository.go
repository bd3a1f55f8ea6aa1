package analysisRepository

import (
	"TrattoriaGolang/internal/entity"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

type SQLExecutor interface {
	sqlx.ExtContext
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	QueryRowxContext(ctx context.Context, query string, args ...interface{}) *sqlx.Row
	Rebind(query string) string
}

func New(db *sqlx.DB, log *logrus.Logger) Repository {
	return &repository{
		DB:  db,
		log: log,
	}
}

type repository struct {
	DB  *sqlx.DB
	log *logrus.Logger
}

type Repository interface {
	NewClient(tx bool) (Client, error)
}

func (r *repository) NewClient(tx bool) (Client, error) {
	var sqlExecutor SQLExecutor
	var commitFunc, rollbackFunc func() error

	sqlExecutor = r.DB

	if tx {
		var err error
		txx, err := r.DB.Beginx()
		if err != nil {
			return Client{}, err
		}

		sqlExecutor = txx
		commitFunc = txx.Commit
		rollbackFunc = txx.Rollback
	} else {
		commitFunc = func() error { return nil }
		rollbackFunc = func() error { return nil }
	}

	return Client{
		Analyses:     &analysisRepository{q: sqlExecutor, log: r.log},
		Reservations: &reservationRepository{q: sqlExecutor, log: r.log},
		Commit:       commitFunc,
		Rollback:     rollbackFunc,
	}, nil
}

type Client struct {
	Analyses interface {
		UpsertAnalysis(ctx context.Context, record entity.AnalysisRecord) (entity.AnalysisRecord, error)
		GetAnalysis(ctx context.Context, conversationID string) (entity.AnalysisRecord, error)
		ListAnalyses(ctx context.Context) ([]entity.AnalysisRecord, error)
	}

	Reservations interface {
		UpsertReservation(ctx context.Context, reservation entity.Reservation) error
		DeleteReservationsByConversation(ctx context.Context, conversationID string) error
		ListReservations(ctx context.Context) ([]entity.Reservation, error)
	}

	Commit   func() error
	Rollback func() error
}

type analysisRepository struct {
	q   SQLExecutor
	log *logrus.Logger
}

type reservationRepository struct {
	q   SQLExecutor
	log *logrus.Logger
}
