package repository

import (
	"database/sql"
	"go-booking-api/model"
)

// IUserRepository defines the contract for user database operations.
type IUserRepository interface {
	CreateUser(user *model.User) error
	GetUserByEmail(email string) (*model.User, error)
	GetUserByID(id int) (*model.User, error)
	MarkGoogleAccount(id int) error
}

type UserRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) CreateUser(user *model.User) error {
	query := `INSERT INTO users (email, full_name, hashed_password, is_google_account) VALUES ($1, $2, $3, $4) RETURNING id`
	return r.DB.QueryRow(query, user.Email, user.FullName, user.HashedPassword, user.IsGoogleAccount).Scan(&user.ID)
}

func (r *UserRepository) GetUserByEmail(email string) (*model.User, error) {
	user := &model.User{}
	query := `SELECT id, email, full_name, hashed_password, is_google_account FROM users WHERE email = $1`
	err := r.DB.QueryRow(query, email).Scan(&user.ID, &user.Email, &user.FullName, &user.HashedPassword, &user.IsGoogleAccount)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *UserRepository) GetUserByID(id int) (*model.User, error) {
	user := &model.User{}
	query := `SELECT id, email, full_name, hashed_password, is_google_account FROM users WHERE id = $1`
	err := r.DB.QueryRow(query, id).Scan(&user.ID, &user.Email, &user.FullName, &user.HashedPassword, &user.IsGoogleAccount)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// MarkGoogleAccount flips is_google_account on an existing user. The stored
// password, if any, is kept so the account still works for password login.
func (r *UserRepository) MarkGoogleAccount(id int) error {
	query := `UPDATE users SET is_google_account = TRUE WHERE id = $1`
	_, err := r.DB.Exec(query, id)
	return err
}
