package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fleetdocs/shipcert/constants"
	"github.com/fleetdocs/shipcert/internal/common"
	"github.com/fleetdocs/shipcert/internal/entity"
)

// CertificateRepository is the certificate store the pipeline writes through.
type CertificateRepository interface {
	ListByShip(ctx context.Context, shipID uuid.UUID) ([]*entity.Certificate, error)
	FindByCertNo(ctx context.Context, shipID uuid.UUID, certNo string) ([]*entity.Certificate, error)
	Insert(ctx context.Context, cert *entity.Certificate) error
	UpdateNextSurvey(ctx context.Context, id uuid.UUID, nextDate *time.Time, nextType constants.SurveyType) error
	UpdateFileRef(ctx context.Context, id uuid.UUID, fileID, fileURL string) error
}

type PgCertificateRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewCertificateRepository(pool *pgxpool.Pool, logger *slog.Logger) *PgCertificateRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &PgCertificateRepository{pool: pool, logger: logger}
}

const certColumns = `id, ship_id, cert_name, cert_abbrev, cert_type, cert_no,
	issue_date, valid_date, last_endorse_date, next_survey_date, next_survey_type,
	issuing_authority, extracted_ship_name, extracted_imo, ship_name, content,
	validation_note, confidence, file_id, file_url, created_at, updated_at`

func (r *PgCertificateRepository) ListByShip(ctx context.Context, shipID uuid.UUID) ([]*entity.Certificate, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+certColumns+`
		FROM certificates
		WHERE ship_id = $1
		ORDER BY created_at DESC
	`, shipID)
	if err != nil {
		return nil, dbError("list certificates", err)
	}
	defer rows.Close()
	return scanCertificates(rows)
}

func (r *PgCertificateRepository) FindByCertNo(ctx context.Context, shipID uuid.UUID, certNo string) ([]*entity.Certificate, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+certColumns+`
		FROM certificates
		WHERE ship_id = $1 AND cert_no = $2
		ORDER BY created_at DESC
	`, shipID, certNo)
	if err != nil {
		return nil, dbError("find certificates by number", err)
	}
	defer rows.Close()
	return scanCertificates(rows)
}

func (r *PgCertificateRepository) Insert(ctx context.Context, cert *entity.Certificate) error {
	if cert.ID == uuid.Nil {
		cert.ID = uuid.New()
	}
	now := time.Now().UTC()
	cert.CreatedAt = now
	cert.UpdatedAt = now

	_, err := r.pool.Exec(ctx, `
		INSERT INTO certificates (`+certColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11,
		        $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)
	`,
		cert.ID, cert.ShipID, cert.CertName, cert.CertAbbrev, string(cert.CertType), cert.CertNo,
		cert.IssueDate, cert.ValidDate, cert.LastEndorseDate, cert.NextSurveyDate, string(cert.NextSurveyType),
		cert.IssuingAuthority, cert.ExtractedShipName, cert.ExtractedIMO, cert.ShipName, cert.Content,
		cert.ValidationNote, cert.Confidence, cert.FileID, cert.FileURL, cert.CreatedAt, cert.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("certificate insert failed", "cert_no", cert.CertNo, "error", err)
		return dbError("insert certificate", err)
	}
	return nil
}

func (r *PgCertificateRepository) UpdateNextSurvey(ctx context.Context, id uuid.UUID, nextDate *time.Time, nextType constants.SurveyType) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE certificates
		SET next_survey_date = $2, next_survey_type = $3, updated_at = now()
		WHERE id = $1
	`, id, nextDate, string(nextType))
	if err != nil {
		return dbError("update next survey", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("certificate %s: %w", id, common.ErrNotFound)
	}
	return nil
}

func (r *PgCertificateRepository) UpdateFileRef(ctx context.Context, id uuid.UUID, fileID, fileURL string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE certificates
		SET file_id = $2, file_url = $3, updated_at = now()
		WHERE id = $1
	`, id, fileID, fileURL)
	if err != nil {
		return dbError("update file ref", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("certificate %s: %w", id, common.ErrNotFound)
	}
	return nil
}

func scanCertificates(rows pgx.Rows) ([]*entity.Certificate, error) {
	var out []*entity.Certificate
	for rows.Next() {
		var (
			c                   entity.Certificate
			certType, surveyTyp string
		)
		err := rows.Scan(
			&c.ID, &c.ShipID, &c.CertName, &c.CertAbbrev, &certType, &c.CertNo,
			&c.IssueDate, &c.ValidDate, &c.LastEndorseDate, &c.NextSurveyDate, &surveyTyp,
			&c.IssuingAuthority, &c.ExtractedShipName, &c.ExtractedIMO, &c.ShipName, &c.Content,
			&c.ValidationNote, &c.Confidence, &c.FileID, &c.FileURL, &c.CreatedAt, &c.UpdatedAt,
		)
		if err != nil {
			return nil, dbError("scan certificate", err)
		}
		c.CertType = constants.CertType(certType)
		c.NextSurveyType = constants.SurveyType(surveyTyp)
		out = append(out, &c)
	}
	if err := rows.Err(); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, dbError("read certificates", err)
	}
	return out, nil
}
