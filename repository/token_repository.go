// file: repository/token_repository.go

package repository

import (
	"database/sql"
	"go-booking-api/logger"
	"go-booking-api/model"
	"time"

	"github.com/sirupsen/logrus"
)

// ITokenRepository defines the contract for refresh token database
// operations.
type ITokenRepository interface {
	Create(token *model.RefreshToken) error
	ConsumeActive(jti string, now time.Time) (int64, error)
	Revoke(jti string) error
}

type TokenRepository struct {
	DB *sql.DB
}

func NewTokenRepository(db *sql.DB) *TokenRepository {
	return &TokenRepository{DB: db}
}

// Create inserts a new refresh token record.
func (r *TokenRepository) Create(token *model.RefreshToken) error {
	log := logger.Log.WithFields(logrus.Fields{
		"user_id":    token.UserID,
		"expires_at": token.ExpiresAt,
	})
	log.Info("Executing query to create a new refresh token")

	query := `INSERT INTO refresh_tokens (user_id, jti, expires_at) VALUES ($1, $2, $3) RETURNING id`
	err := r.DB.QueryRow(query, token.UserID, token.JTI, token.ExpiresAt).Scan(&token.ID)
	if err != nil {
		log.WithError(err).Error("Failed to execute create refresh token query")
		return err
	}
	return nil
}

// ConsumeActive atomically revokes the record for jti if it is still usable
// (not revoked, not expired) and returns the number of rows changed. A zero
// count means the token was unknown, already consumed, or expired; when two
// rotations race on the same jti, exactly one sees a count of one.
func (r *TokenRepository) ConsumeActive(jti string, now time.Time) (int64, error) {
	query := `UPDATE refresh_tokens SET revoked = TRUE WHERE jti = $1 AND revoked = FALSE AND expires_at > $2`
	result, err := r.DB.Exec(query, jti, now)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to execute consume refresh token query")
		return 0, err
	}
	return result.RowsAffected()
}

// Revoke marks the record for jti revoked. Unknown or already-revoked jtis
// are a no-op, which keeps logout tolerant.
func (r *TokenRepository) Revoke(jti string) error {
	query := `UPDATE refresh_tokens SET revoked = TRUE WHERE jti = $1`
	_, err := r.DB.Exec(query, jti)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to execute revoke refresh token query")
		return err
	}
	return nil
}
