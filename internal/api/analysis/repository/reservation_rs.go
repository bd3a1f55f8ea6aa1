package analysisRepository

import (
	"TrattoriaGolang/internal/entity"
	contextPkg "TrattoriaGolang/pkg/context"
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sirupsen/logrus"
)

type ReservationDB struct {
	ID              sql.NullString `db:"id"`
	ConversationID  sql.NullString `db:"conversation_id"`
	ReservationDate sql.NullString `db:"reservation_date"`
	ReservationTime sql.NullString `db:"reservation_time"`
	PartySize       sql.NullInt64  `db:"party_size"`
	CustomerName    sql.NullString `db:"customer_name"`
	Contact         sql.NullString `db:"contact"`
	Notes           sql.NullString `db:"notes"`
	CreatedAt       time.Time      `db:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"`
}

func (r *reservationRepository) UpsertReservation(ctx context.Context, reservation entity.Reservation) error {
	requestID := contextPkg.GetRequestID(ctx)

	now := time.Now()
	argsKV := map[string]interface{}{
		"id":               reservation.ID,
		"conversation_id":  reservation.ConversationID,
		"reservation_date": reservation.Date,
		"reservation_time": reservation.Time,
		"party_size":       reservation.PartySize,
		"customer_name":    reservation.CustomerName,
		"contact":          reservation.Contact,
		"notes":            reservation.Notes,
		"created_at":       now,
		"updated_at":       now,
	}

	query, args, err := sqlx.Named(queryUpsertReservation, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("UpsertReservation named query preparation err")
		return err
	}

	query = r.q.Rebind(query)

	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when upserting reservation")
		return err
	}

	return nil
}

// DeleteReservationsByConversation removes the mirror rows for one
// conversation. A re-analysis calls this before writing the new results, so
// a retracted reservation disappears from the book instead of lingering.
func (r *reservationRepository) DeleteReservationsByConversation(ctx context.Context, conversationID string) error {
	requestID := contextPkg.GetRequestID(ctx)

	argsKV := map[string]interface{}{
		"conversation_id": conversationID,
	}

	query, args, err := sqlx.Named(queryDeleteReservationsByConversation, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("DeleteReservationsByConversation named query preparation err")
		return err
	}

	query = r.q.Rebind(query)

	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id":      requestID,
			"conversation_id": conversationID,
			"error":           err.Error(),
		}).Error("Database error when deleting reservations")
		return err
	}

	return nil
}

func (r *reservationRepository) ListReservations(ctx context.Context) ([]entity.Reservation, error) {
	requestID := contextPkg.GetRequestID(ctx)
	var rows []ReservationDB

	query := r.q.Rebind(queryListReservations)

	if err := r.q.SelectContext(ctx, &rows, query); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("ListReservations execution err")
		return nil, err
	}

	reservations := make([]entity.Reservation, 0, len(rows))
	for _, row := range rows {
		reservations = append(reservations, r.makeReservation(row))
	}

	return reservations, nil
}

func (r *reservationRepository) makeReservation(row ReservationDB) entity.Reservation {
	return entity.Reservation{
		ID:             row.ID.String,
		ConversationID: row.ConversationID.String,
		Date:           row.ReservationDate.String,
		Time:           row.ReservationTime.String,
		PartySize:      int(row.PartySize.Int64),
		CustomerName:   row.CustomerName.String,
		Contact:        row.Contact.String,
		Notes:          row.Notes.String,
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}
}
