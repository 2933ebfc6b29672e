package payments

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"teleconsult-service/internal/app/contracts"
	"teleconsult-service/internal/app/models"
	"teleconsult-service/internal/pkg/exceptions"
	"teleconsult-service/internal/pkg/queries"
)

type paymentLedgerPostgresRepository struct {
	DB *sql.DB
}

func NewPaymentLedgerPostgresRepository(db *sql.DB) contracts.PaymentLedgerRepository {
	return &paymentLedgerPostgresRepository{
		DB: db,
	}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPaymentRecord(row rowScanner) (*models.PaymentRecord, error) {
	record := new(models.PaymentRecord)
	var status string
	err := row.Scan(
		&record.ID,
		&record.SessionID,
		&record.PaymentID,
		&record.OrderID,
		&record.PatientID,
		&record.Provider,
		&status,
		&record.Amount,
		&record.Currency,
		&record.GatewayTransactionID,
		&record.FailureReason,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	record.Status = models.PaymentStatus(status)
	return record, nil
}

func (repo *paymentLedgerPostgresRepository) UpsertPending(ctx context.Context, record *models.PaymentRecord) error {
	_, err := repo.DB.ExecContext(ctx, queries.InsertPendingPaymentRecord,
		record.SessionID,
		record.PaymentID,
		record.OrderID,
		record.PatientID,
		record.Provider,
		record.Amount,
		record.Currency,
	)
	if err != nil {
		return exceptions.ErrPostgresDBInsertData(err)
	}
	return nil
}

// MarkCompleted is idempotent: an already completed row is returned unchanged.
func (repo *paymentLedgerPostgresRepository) MarkCompleted(ctx context.Context, record *models.PaymentRecord) (*models.PaymentRecord, error) {
	row := repo.DB.QueryRowContext(ctx, queries.UpsertCompletedPaymentRecord,
		record.SessionID,
		record.PaymentID,
		record.OrderID,
		record.PatientID,
		record.Provider,
		record.Amount,
		record.Currency,
		record.GatewayTransactionID,
	)

	stored, err := scanPaymentRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return repo.FindBySessionAndPayment(ctx, record.SessionID, record.PaymentID)
	}
	if err != nil {
		return nil, exceptions.ErrPostgresDBInsertData(err)
	}
	return stored, nil
}

func (repo *paymentLedgerPostgresRepository) MarkFailed(ctx context.Context, sessionID, paymentID, reason string) error {
	_, err := repo.DB.ExecContext(ctx, queries.MarkPaymentRecordFailed, sessionID, paymentID, reason)
	if err != nil {
		return exceptions.ErrPostgresDBUpdateData(err)
	}
	return nil
}

func (repo *paymentLedgerPostgresRepository) MarkRefunded(ctx context.Context, sessionID, paymentID string) error {
	result, err := repo.DB.ExecContext(ctx, queries.MarkPaymentRecordRefunded, sessionID, paymentID)
	if err != nil {
		return exceptions.ErrPostgresDBUpdateData(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return exceptions.ErrPostgresDBUpdateData(err)
	}
	if affected == 0 {
		return exceptions.ErrPostgresDBUpdateData(fmt.Errorf("no completed payment %s for session %s", paymentID, sessionID))
	}
	return nil
}

// FindBySessionAndPayment returns nil without error when no row exists.
func (repo *paymentLedgerPostgresRepository) FindBySessionAndPayment(ctx context.Context, sessionID, paymentID string) (*models.PaymentRecord, error) {
	row := repo.DB.QueryRowContext(ctx, queries.GetPaymentRecordBySessionAndPayment, sessionID, paymentID)
	record, err := scanPaymentRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, exceptions.ErrPostgresDBFindData(err)
	}
	return record, nil
}
