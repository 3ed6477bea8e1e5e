package queries

import (
	"context"
	"database/sql"
	"time"

	"github.com/OldStager01/motortemp/pkg/database"
	"github.com/OldStager01/motortemp/pkg/models"
)

type PredictionRepository struct {
	db *sql.DB
}

func NewPredictionRepository(db *sql.DB) *PredictionRepository {
	return &PredictionRepository{db: db}
}

// RiskStats summarises predictions recorded since a point in time
type RiskStats struct {
	Since         time.Time                  `json:"since"`
	Total         int64                      `json:"total"`
	ByRisk        map[models.RiskLevel]int64 `json:"by_risk"`
	AvgPrediction float64                    `json:"avg_prediction"`
	MaxPrediction float64                    `json:"max_prediction"`
}

const insertPredictionQuery = `
	INSERT INTO predictions (trace_id, source, created_at, ambient, coolant, u_d, u_q, motor_speed, i_d, i_q, prediction, risk_level)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	RETURNING id`

type execer interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

func insertRecord(ctx context.Context, q execer, rec *models.PredictionRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	f := rec.FeatureRecord
	return q.QueryRowContext(ctx, insertPredictionQuery,
		nullString(rec.TraceID), rec.Source, rec.CreatedAt,
		f.Ambient, f.Coolant, f.UD, f.UQ, f.MotorSpeed, f.ID, f.IQ,
		rec.Prediction, string(rec.RiskLevel),
	).Scan(&rec.ID)
}

func (r *PredictionRepository) Insert(ctx context.Context, rec *models.PredictionRecord) error {
	return insertRecord(ctx, r.db, rec)
}

// InsertBatch writes all records in a single transaction
func (r *PredictionRepository) InsertBatch(ctx context.Context, recs []*models.PredictionRecord) error {
	if len(recs) == 0 {
		return nil
	}

	return database.WithTransaction(ctx, r.db, func(tx *sql.Tx) error {
		for _, rec := range recs {
			if err := insertRecord(ctx, tx, rec); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *PredictionRepository) GetRecent(ctx context.Context, limit int) ([]models.PredictionRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, COALESCE(trace_id, ''), source, created_at, ambient, coolant, u_d, u_q, motor_speed, i_d, i_q, prediction, risk_level
		FROM predictions
		ORDER BY created_at DESC, id DESC
		LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []models.PredictionRecord{}
	for rows.Next() {
		var rec models.PredictionRecord
		var risk string
		err := rows.Scan(
			&rec.ID, &rec.TraceID, &rec.Source, &rec.CreatedAt,
			&rec.Ambient, &rec.Coolant, &rec.UD, &rec.UQ, &rec.MotorSpeed, &rec.FeatureRecord.ID, &rec.IQ,
			&rec.Prediction, &risk,
		)
		if err != nil {
			return nil, err
		}
		rec.RiskLevel = models.RiskLevel(risk)
		records = append(records, rec)
	}

	return records, rows.Err()
}

func (r *PredictionRepository) StatsSince(ctx context.Context, since time.Time) (*RiskStats, error) {
	stats := &RiskStats{
		Since:  since,
		ByRisk: make(map[models.RiskLevel]int64, len(models.RiskLevels())),
	}
	for _, level := range models.RiskLevels() {
		stats.ByRisk[level] = 0
	}

	query := `
		SELECT risk_level, COUNT(*), COALESCE(AVG(prediction), 0), COALESCE(MAX(prediction), 0)
		FROM predictions
		WHERE created_at >= $1
		GROUP BY risk_level`

	rows, err := r.db.QueryContext(ctx, query, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var weighted float64
	for rows.Next() {
		var risk string
		var count int64
		var avg, max float64
		if err := rows.Scan(&risk, &count, &avg, &max); err != nil {
			return nil, err
		}
		stats.ByRisk[models.RiskLevel(risk)] = count
		stats.Total += count
		weighted += avg * float64(count)
		if max > stats.MaxPrediction {
			stats.MaxPrediction = max
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if stats.Total > 0 {
		stats.AvgPrediction = models.Round4(weighted / float64(stats.Total))
	}
	return stats, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
