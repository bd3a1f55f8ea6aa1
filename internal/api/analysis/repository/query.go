package analysisRepository

const (
	queryUpsertAnalysis = `
		INSERT INTO conversation_analyses (
			conversation_id, conversation_at, duration_seconds,
			results, outcome, created_at, updated_at
		) VALUES (
			:conversation_id, :conversation_at, :duration_seconds,
			:results, :outcome, :created_at, :updated_at
		)
		ON CONFLICT (conversation_id) DO UPDATE SET
			conversation_at  = EXCLUDED.conversation_at,
			duration_seconds = EXCLUDED.duration_seconds,
			results          = EXCLUDED.results,
			outcome          = EXCLUDED.outcome,
			updated_at       = EXCLUDED.updated_at
		RETURNING created_at, updated_at
	`

	queryGetAnalysis = `
		SELECT
			conversation_id, conversation_at, duration_seconds,
			results, outcome, created_at, updated_at
		FROM conversation_analyses
		WHERE conversation_id = :conversation_id
	`

	queryListAnalyses = `
		SELECT
			conversation_id, conversation_at, duration_seconds,
			results, outcome, created_at, updated_at
		FROM conversation_analyses
		ORDER BY conversation_at ASC, conversation_id ASC
	`

	queryUpsertReservation = `
		INSERT INTO reservations (
			id, conversation_id, reservation_date, reservation_time,
			party_size, customer_name, contact, notes,
			created_at, updated_at
		) VALUES (
			:id, :conversation_id, :reservation_date, :reservation_time,
			:party_size, :customer_name, :contact, :notes,
			:created_at, :updated_at
		)
		ON CONFLICT (conversation_id) DO UPDATE SET
			reservation_date = EXCLUDED.reservation_date,
			reservation_time = EXCLUDED.reservation_time,
			party_size       = EXCLUDED.party_size,
			customer_name    = EXCLUDED.customer_name,
			contact          = EXCLUDED.contact,
			notes            = EXCLUDED.notes,
			updated_at       = EXCLUDED.updated_at
	`

	queryDeleteReservationsByConversation = `
		DELETE FROM reservations
		WHERE conversation_id = :conversation_id
	`

	queryListReservations = `
		SELECT
			id, conversation_id, reservation_date, reservation_time,
			party_size, customer_name, contact, notes,
			created_at, updated_at
		FROM reservations
		ORDER BY reservation_date ASC, reservation_time ASC
	`
)
