package repository

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5"

	"go-web-gallery/internal/database"
	"go-web-gallery/internal/model"
)

type PhotoRepository struct {
	db *database.DB
}

func NewPhotoRepository(db *database.DB) *PhotoRepository {
	return &PhotoRepository{db: db}
}

// Insert writes the picture row and its metadata side tables in one
// transaction. The picture row is mandatory; location/EXIF/IPTC failures are
// logged but do not fail the upload.
func (r *PhotoRepository) Insert(ctx context.Context, p model.Photo, meta model.PhotoMetadata) (int64, error) {
	conn, err := r.db.Acquire(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Release()

	tx, err := conn.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin photo insert: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var picID int64
	err = tx.QueryRow(ctx,
		`INSERT INTO pictures (file_name, file_path, full_path, file_size, width, height, file_datetime, upload_user)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id`,
		p.FileName, p.FilePath, p.FullPath, p.FileSize, p.Width, p.Height, p.FileDatetime, p.UploadUser).
		Scan(&picID)
	if err != nil {
		return 0, fmt.Errorf("insert picture: %w", err)
	}

	insertMetadata(ctx, tx, picID, meta)

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit photo insert: %w", err)
	}
	return picID, nil
}

// insertMetadata writes the optional side tables. Each statement runs in its
// own savepoint: Postgres aborts the surrounding transaction after any
// failed statement, so without the savepoint one bad metadata value would
// poison every later insert and the final commit.
func insertMetadata(ctx context.Context, tx pgx.Tx, picID int64, meta model.PhotoMetadata) {
	if err := withSavepoint(ctx, tx, func(sp pgx.Tx) error {
		_, err := sp.Exec(ctx,
			`INSERT INTO meta_location (ref_picture, country, country_code, province, city)
			 VALUES ($1, $2, $3, $4, $5)`,
			picID, meta.Country, meta.CountryCode, meta.Province, meta.City)
		return err
	}); err != nil {
		slog.Warn("insert photo location failed", "picture_id", picID, "error", err)
	}

	var takenAt any
	if !meta.TakenAt.IsZero() {
		takenAt = meta.TakenAt
	}
	if err := withSavepoint(ctx, tx, func(sp pgx.Tx) error {
		_, err := sp.Exec(ctx,
			`INSERT INTO meta_exif (ref_picture, make, model, iso, aperture, exposure_time, gps_latitude, gps_longitude, datetime_original)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			picID, meta.Make, meta.Model, meta.ISO, meta.Aperture, meta.ExposureTime,
			meta.GPSLatitude, meta.GPSLongitude, takenAt)
		return err
	}); err != nil {
		slog.Warn("insert photo exif failed", "picture_id", picID, "error", err)
	}

	caption := meta.Caption
	if caption == "" {
		caption = meta.Description
	}
	if err := withSavepoint(ctx, tx, func(sp pgx.Tx) error {
		_, err := sp.Exec(ctx,
			`INSERT INTO meta_iptc (ref_picture, object_name, caption, copyright)
			 VALUES ($1, $2, $3, $4)`,
			picID, meta.Title, caption, meta.Copyright)
		return err
	}); err != nil {
		slog.Warn("insert photo iptc failed", "picture_id", picID, "error", err)
	}

	for _, keyword := range meta.Keywords {
		tag := strings.TrimSpace(keyword)
		if tag == "" {
			continue
		}

		if err := withSavepoint(ctx, tx, func(sp pgx.Tx) error {
			var keywordID int64
			if err := sp.QueryRow(ctx,
				`INSERT INTO keywords (tag) VALUES ($1)
				 ON CONFLICT (tag) DO UPDATE SET tag = EXCLUDED.tag
				 RETURNING id`, tag).Scan(&keywordID); err != nil {
				return err
			}
			_, err := sp.Exec(ctx,
				`INSERT INTO picture_keywords (picture_id, keyword_id) VALUES ($1, $2)
				 ON CONFLICT DO NOTHING`, picID, keywordID)
			return err
		}); err != nil {
			slog.Warn("insert keyword failed", "picture_id", picID, "tag", tag, "error", err)
		}
	}
}

// withSavepoint runs fn inside a nested transaction (a savepoint on pgx.Tx)
// and rolls it back on failure, leaving the outer transaction usable.
func withSavepoint(ctx context.Context, tx pgx.Tx, fn func(pgx.Tx) error) error {
	sp, err := tx.Begin(ctx)
	if err != nil {
		return err
	}

	if err := fn(sp); err != nil {
		_ = sp.Rollback(ctx)
		return err
	}
	return sp.Commit(ctx)
}

// List returns one gallery page ordered by capture time, newest first,
// optionally narrowed to a folder prefix.
func (r *PhotoRepository) List(ctx context.Context, page int, limit int, pathFilter string) ([]model.GalleryItem, int, error) {
	conn, err := r.db.Acquire(ctx)
	if err != nil {
		return nil, 0, err
	}
	defer conn.Release()

	where := ""
	args := []any{}
	if strings.TrimSpace(pathFilter) != "" {
		where = `WHERE p.file_path LIKE $1`
		args = append(args, strings.TrimSpace(pathFilter)+"%")
	}

	var total int
	countSQL := `SELECT COUNT(*) FROM pictures p ` + where
	if err := conn.QueryRow(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count pictures: %w", err)
	}

	offset := (page - 1) * limit
	listSQL := fmt.Sprintf(
		`SELECT p.id, p.file_name, p.file_path, COALESCE(l.city, ''), COALESCE(l.country, '')
		 FROM pictures p
		 LEFT JOIN meta_location l ON p.id = l.ref_picture
		 %s
		 ORDER BY p.file_datetime DESC
		 LIMIT $%d OFFSET $%d`, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := conn.Query(ctx, listSQL, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list pictures: %w", err)
	}
	defer rows.Close()

	items := make([]model.GalleryItem, 0, limit)
	for rows.Next() {
		var item model.GalleryItem
		var filePath string
		if err := rows.Scan(&item.ID, &item.Filename, &filePath, &item.City, &item.Country); err != nil {
			return nil, 0, fmt.Errorf("scan picture: %w", err)
		}

		rel := filePath
		if rel != "" && !strings.HasSuffix(rel, "/") {
			rel += "/"
		}
		item.URL = "/media/" + rel + item.Filename

		items = append(items, item)
	}
	return items, total, rows.Err()
}

// DistinctPaths returns every distinct stored folder path, for the tree
// derivation in the gallery service.
func (r *PhotoRepository) DistinctPaths(ctx context.Context) ([]string, error) {
	conn, err := r.db.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	rows, err := conn.Query(ctx,
		`SELECT DISTINCT file_path FROM pictures WHERE file_path <> '' ORDER BY file_path`)
	if err != nil {
		return nil, fmt.Errorf("distinct picture paths: %w", err)
	}
	defer rows.Close()

	paths := make([]string, 0)
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("scan path: %w", err)
		}
		paths = append(paths, p)
	}
	return paths, rows.Err()
}
