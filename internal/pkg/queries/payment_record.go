package queries

const (
	paymentRecordColumns = `
			id,
			session_id,
			payment_id,
			order_id,
			patient_id,
			provider,
			status,
			amount,
			currency,
			gateway_transaction_id,
			failure_reason,
			created_at,
			updated_at`

	InsertPendingPaymentRecord = `
		INSERT INTO payment_records (
			session_id,
			payment_id,
			order_id,
			patient_id,
			provider,
			status,
			amount,
			currency
		) VALUES ($1, $2, $3, $4, $5, 'pending', $6, $7)
		ON CONFLICT (session_id, payment_id) DO NOTHING
	`

	UpsertCompletedPaymentRecord = `
		INSERT INTO payment_records (
			session_id,
			payment_id,
			order_id,
			patient_id,
			provider,
			status,
			amount,
			currency,
			gateway_transaction_id
		) VALUES ($1, $2, $3, $4, $5, 'completed', $6, $7, $8)
		ON CONFLICT (session_id, payment_id) DO UPDATE SET
			status = 'completed',
			gateway_transaction_id = EXCLUDED.gateway_transaction_id,
			failure_reason = '',
			updated_at = NOW()
		WHERE payment_records.status <> 'completed'
		RETURNING` + paymentRecordColumns

	MarkPaymentRecordFailed = `
		UPDATE payment_records
		SET status = 'failed', failure_reason = $3, updated_at = NOW()
		WHERE session_id = $1 AND payment_id = $2 AND status IN ('pending', 'failed')
	`

	MarkPaymentRecordRefunded = `
		UPDATE payment_records
		SET status = 'refunded', updated_at = NOW()
		WHERE session_id = $1 AND payment_id = $2 AND status = 'completed'
	`

	GetPaymentRecordBySessionAndPayment = `
		SELECT` + paymentRecordColumns + `
		FROM payment_records
		WHERE session_id = $1 AND payment_id = $2
	`
)
