package model

import (
	"database/sql"
	"time"
)

type Session struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	Token        string    `json:"token"`
	RefreshToken string    `json:"refresh_token"`
	UserAgent    string    `json:"user_agent"`
	ClientIP     string    `json:"client_ip"`
	IsBlocked    bool      `json:"is_blocked"`
	ExpiresAt    time.Time `json:"expires_at"`
	CreatedAt    time.Time `json:"created_at"`
}

func CreateSession(db *sql.DB, session *Session) error {
	session.CreatedAt = time.Now()

	query := `
	INSERT INTO sessions (user_id, token, refresh_token, user_agent, client_ip, is_blocked, expires_at, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := db.Exec(query,
		session.UserID,
		session.Token,
		session.RefreshToken,
		session.UserAgent,
		session.ClientIP,
		session.IsBlocked,
		session.ExpiresAt,
		session.CreatedAt,
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	session.ID = id
	return nil
}

func GetSessionByToken(db *sql.DB, token string) (*Session, error) {
	query := `
	SELECT id, user_id, token, refresh_token, user_agent, client_ip, is_blocked, expires_at, created_at
	FROM sessions
	WHERE token = ? AND is_blocked = FALSE AND expires_at > ?`
	row := db.QueryRow(query, token, time.Now())
	var session Session
	if err := row.Scan(
		&session.ID, &session.UserID, &session.Token, &session.RefreshToken,
		&session.UserAgent, &session.ClientIP, &session.IsBlocked,
		&session.ExpiresAt, &session.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &session, nil
}

func GetSessionByRefreshToken(db *sql.DB, refreshToken string) (*Session, error) {
	query := `
	SELECT id, user_id, token, refresh_token, user_agent, client_ip, is_blocked, expires_at, created_at
	FROM sessions
	WHERE refresh_token = ? AND is_blocked = FALSE AND expires_at > ?`
	row := db.QueryRow(query, refreshToken, time.Now())
	var session Session
	if err := row.Scan(
		&session.ID, &session.UserID, &session.Token, &session.RefreshToken,
		&session.UserAgent, &session.ClientIP, &session.IsBlocked,
		&session.ExpiresAt, &session.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &session, nil
}

// UpdateSessionToken rotates a session's access and refresh tokens in place.
// The session's expiry is unchanged; refreshing does not extend its lifetime.
func (s *Session) UpdateSessionToken(db *sql.DB, newToken, newRefreshToken string) error {
	_, err := db.Exec(`UPDATE sessions SET token = ?, refresh_token = ? WHERE id = ?`,
		newToken, newRefreshToken, s.ID)
	if err == nil {
		s.Token = newToken
		s.RefreshToken = newRefreshToken
	}
	return err
}

func DeleteSessionByToken(db *sql.DB, token string) error {
	_, err := db.Exec(`DELETE FROM sessions WHERE token = ?`, token)
	return err
}
