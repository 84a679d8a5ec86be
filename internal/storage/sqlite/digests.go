package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/habitlit/internal/constants"
	"github.com/julianstephens/habitlit/internal/models"
	"github.com/julianstephens/habitlit/internal/storage"
	"github.com/julianstephens/habitlit/internal/validation"
)

func (s *Store) SaveDigest(date string, kind models.DigestKind, content string) error {
	if err := validation.ValidateDate(date); err != nil {
		return err
	}
	if err := validation.ValidateDigestKind(kind); err != nil {
		return err
	}
	return s.ImportDigest(models.CachedDigest{
		Date:      date,
		Kind:      kind,
		Content:   content,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	})
}

func (s *Store) ImportDigest(d models.CachedDigest) error {
	_, err := s.db.Exec(`
		INSERT INTO digests (date, kind, content, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(date, kind) DO UPDATE SET
			content = excluded.content,
			created_at = excluded.created_at`,
		d.Date, string(d.Kind), d.Content, d.CreatedAt.UTC().Format(constants.TimestampFormat))
	if err != nil {
		return fmt.Errorf("failed to save %s digest for %s: %w", d.Kind, d.Date, err)
	}
	return nil
}

func scanDigest(row rowScanner) (models.CachedDigest, error) {
	var d models.CachedDigest
	var kind, createdAt string
	if err := row.Scan(&d.Date, &kind, &d.Content, &createdAt); err != nil {
		return models.CachedDigest{}, err
	}
	d.Kind = models.DigestKind(kind)
	t, err := time.Parse(constants.TimestampFormat, createdAt)
	if err != nil {
		return models.CachedDigest{}, fmt.Errorf("failed to parse created_at for %s digest: %w", kind, err)
	}
	d.CreatedAt = t
	return d, nil
}

func (s *Store) GetDigest(date string, kind models.DigestKind) (models.CachedDigest, error) {
	d, err := scanDigest(s.db.QueryRow(`
		SELECT date, kind, content, created_at
		FROM digests WHERE date = ? AND kind = ?`, date, string(kind)))
	if errors.Is(err, sql.ErrNoRows) {
		return models.CachedDigest{}, fmt.Errorf("%s digest for %s: %w", kind, date, storage.ErrNotFound)
	}
	return d, err
}

func (s *Store) GetAllDigests() ([]models.CachedDigest, error) {
	rows, err := s.db.Query(`SELECT date, kind, content, created_at FROM digests ORDER BY date, kind`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	digests := []models.CachedDigest{}
	for rows.Next() {
		d, err := scanDigest(rows)
		if err != nil {
			return nil, err
		}
		digests = append(digests, d)
	}
	return digests, rows.Err()
}
