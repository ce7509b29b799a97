package library

import (
	"database/sql"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Default administrator created on an empty database so the first login
// is possible. Matches the upstream seed account.
const (
	DefaultAdminName     = "Administrator"
	DefaultAdminLogin    = "admin"
	DefaultAdminPassword = "admin123"
)

// AddAdministrator registers a librarian account. The password is stored
// as a bcrypt hash.
func (d *Database) AddAdministrator(name, login, password string) (int64, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}
	res, err := d.addAdminStmt.Exec(name, login, string(hash))
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrDuplicateLogin
		}
		return 0, fmt.Errorf("add administrator: %w", err)
	}
	return res.LastInsertId()
}

// AuthenticateAdministrator verifies a login/password pair and returns
// the account. An unknown login and a wrong password are deliberately
// indistinguishable to the caller.
func (d *Database) AuthenticateAdministrator(login, password string) (*Administrator, error) {
	var a Administrator
	err := d.db.QueryRow(
		`SELECT id,name,login,secret FROM administrators WHERE login=?`, login).
		Scan(&a.ID, &a.Name, &a.Login, &a.Secret)
	if err == sql.ErrNoRows {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("authenticate: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(a.Secret), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return &a, nil
}

// EnsureDefaultAdmin creates the default administrator account when no
// administrators exist yet.
func (d *Database) EnsureDefaultAdmin() error {
	n, err := d.count(`SELECT COUNT(*) FROM administrators`)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	_, err = d.AddAdministrator(DefaultAdminName, DefaultAdminLogin, DefaultAdminPassword)
	return err
}
