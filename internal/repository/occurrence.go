package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shenikar/sisocc/internal/models"
	"github.com/shenikar/sisocc/internal/service"
)

const defaultCacheTTL = 5 * time.Minute

type OccurrenceRepository struct {
	db          *pgxpool.Pool
	redisClient *redis.Client
	cacheTTL    time.Duration
}

func NewOccurrenceRepository(db *pgxpool.Pool, redisClient *redis.Client, cacheTTL time.Duration) service.OccurrenceRepository {
	if cacheTTL <= 0 {
		cacheTTL = defaultCacheTTL
	}
	return &OccurrenceRepository{
		db:          db,
		redisClient: redisClient,
		cacheTTL:    cacheTTL,
	}
}

const occurrenceColumns = `
	id,
	tipo,
	local,
	endereco,
	ST_Y(location::geometry) AS latitude,
	ST_X(location::geometry) AS longitude,
	coord_source,
	status,
	prioridade,
	descricao,
	responsavel,
	user_id,
	created_at,
	updated_at
`

// scanOccurrence читает строку в модель; location может быть NULL для записей без координат
func scanOccurrence(row pgx.Row) (*models.Occurrence, error) {
	occ := &models.Occurrence{}
	var lat, lng *float64
	err := row.Scan(
		&occ.ID,
		&occ.Tipo,
		&occ.Local,
		&occ.Endereco,
		&lat,
		&lng,
		&occ.CoordSource,
		&occ.Status,
		&occ.Prioridade,
		&occ.Descricao,
		&occ.Responsavel,
		&occ.UserID,
		&occ.CreatedAt,
		&occ.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if lat != nil && lng != nil {
		occ.Latitude, occ.Longitude = *lat, *lng
	} else {
		occ.CoordSource = models.CoordUnresolved
	}
	return occ, nil
}

// point возвращает долготу и широту для ST_MakePoint; nil дает NULL location
func point(occ *models.Occurrence) (lng, lat *float64) {
	if occ.CoordSource == models.CoordUnresolved {
		return nil, nil
	}
	return &occ.Longitude, &occ.Latitude
}

// Create создает новую запись о происшествии в бд
func (r *OccurrenceRepository) Create(ctx context.Context, occ *models.Occurrence) error {
	query := `
		INSERT INTO occurrences (tipo, local, endereco, location, coord_source, status, prioridade, descricao, responsavel, user_id)
		VALUES ($1, $2, $3, ST_SetSRID(ST_MakePoint($4::double precision, $5::double precision), 4326)::geography, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at;
	`
	lng, lat := point(occ)
	err := r.db.QueryRow(ctx, query,
		occ.Tipo,
		occ.Local,
		occ.Endereco,
		lng,
		lat,
		occ.CoordSource,
		occ.Status,
		occ.Prioridade,
		occ.Descricao,
		occ.Responsavel,
		occ.UserID,
	).Scan(&occ.ID, &occ.CreatedAt, &occ.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create occurrence: %w", err)
	}
	return nil
}

// GetByID возвращает происшествие по его UUID
func (r *OccurrenceRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Occurrence, error) {
	query := `SELECT ` + occurrenceColumns + ` FROM occurrences WHERE id = $1;`

	occ, err := scanOccurrence(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("occurrence with id %s: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get occurrence by id: %w", err)
	}
	return occ, nil
}

func (r *OccurrenceRepository) Update(ctx context.Context, occ *models.Occurrence) error {
	query := `
		UPDATE occurrences SET
			tipo = $1,
			local = $2,
			endereco = $3,
			location = ST_SetSRID(ST_MakePoint($4::double precision, $5::double precision), 4326)::geography,
			coord_source = $6,
			status = $7,
			prioridade = $8,
			descricao = $9,
			responsavel = $10,
			updated_at = NOW()
		WHERE id = $11
		RETURNING updated_at;
	`
	lng, lat := point(occ)
	err := r.db.QueryRow(ctx, query,
		occ.Tipo,
		occ.Local,
		occ.Endereco,
		lng,
		lat,
		occ.CoordSource,
		occ.Status,
		occ.Prioridade,
		occ.Descricao,
		occ.Responsavel,
		occ.ID,
	).Scan(&occ.UpdatedAt)
	if err != nil {
		// RETURNING без строк означает, что записи с таким id нет
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("occurrence with id %s for update: %w", occ.ID, models.ErrNotFound)
		}
		return fmt.Errorf("failed to update occurrence: %w", err)
	}
	return nil
}

func (r *OccurrenceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM occurrences WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("failed to delete occurrence: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("occurrence with id %s for delete: %w", id, models.ErrNotFound)
	}
	return nil
}

// List возвращает происшествия по фильтру, новые первыми
func (r *OccurrenceRepository) List(ctx context.Context, filter models.Filter) ([]*models.Occurrence, error) {
	var status, prioridade *string
	if filter.Status != nil {
		s := string(*filter.Status)
		status = &s
	}
	if filter.Prioridade != nil {
		p := string(*filter.Prioridade)
		prioridade = &p
	}
	var limit *int
	if filter.Limit > 0 {
		limit = &filter.Limit
	}

	// LIMIT NULL в PostgreSQL означает "без ограничения"
	query := `SELECT ` + occurrenceColumns + `
		FROM occurrences
		WHERE ($1::text IS NULL OR status = $1)
			AND ($2::text IS NULL OR prioridade = $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4;
	`
	rows, err := r.db.Query(ctx, query, status, prioridade, limit, filter.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list occurrences: %w", err)
	}
	defer rows.Close()

	occurrences := make([]*models.Occurrence, 0)
	for rows.Next() {
		occ, err := scanOccurrence(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan occurrence row: %w", err)
		}
		occurrences = append(occurrences, occ)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error list iteration: %w", err)
	}
	return occurrences, nil
}

func cacheKey(id uuid.UUID) string {
	return fmt.Sprintf("occurrence:%s", id.String())
}

// GetOccurrenceFromCache пытается получить происшествие из Redis; промах - (nil, nil)
func (r *OccurrenceRepository) GetOccurrenceFromCache(ctx context.Context, id uuid.UUID) (*models.Occurrence, error) {
	val, err := r.redisClient.Get(ctx, cacheKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get occurrence from cache: %w", err)
	}

	occ := &models.Occurrence{}
	if err := json.Unmarshal(val, occ); err != nil {
		return nil, fmt.Errorf("failed to unmarshal occurrence from cache: %w", err)
	}
	return occ, nil
}

// SetOccurrenceCache сохраняет происшествие в Redis
func (r *OccurrenceRepository) SetOccurrenceCache(ctx context.Context, occ *models.Occurrence) error {
	val, err := json.Marshal(occ)
	if err != nil {
		return fmt.Errorf("failed to marshal occurrence for cache: %w", err)
	}
	if err := r.redisClient.Set(ctx, cacheKey(occ.ID), val, r.cacheTTL).Err(); err != nil {
		return fmt.Errorf("failed to set occurrence in cache: %w", err)
	}
	return nil
}

// InvalidateOccurrenceCache удаляет происшествие из Redis кэша
func (r *OccurrenceRepository) InvalidateOccurrenceCache(ctx context.Context, id uuid.UUID) error {
	if err := r.redisClient.Del(ctx, cacheKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate occurrence cache: %w", err)
	}
	return nil
}
