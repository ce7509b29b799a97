package library

import (
	"database/sql"
	"fmt"
)

// AddMember registers a student. code must be unique; an empty program is
// stored as NULL.
func (d *Database) AddMember(name, code, program string) (int64, error) {
	res, err := d.addMemberStmt.Exec(name, code, nullString(program))
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrDuplicateCode
		}
		return 0, fmt.Errorf("add member: %w", err)
	}
	return res.LastInsertId()
}

// GetMember fetches a single member.
func (d *Database) GetMember(id int64) (*Member, error) {
	return d.queryMember(`SELECT id,name,code,COALESCE(program,'') FROM members WHERE id=?`, id)
}

// FindMemberByCode looks a member up by membership code.
func (d *Database) FindMemberByCode(code string) (*Member, error) {
	return d.queryMember(`SELECT id,name,code,COALESCE(program,'') FROM members WHERE code=?`, code)
}

func (d *Database) queryMember(query string, arg any) (*Member, error) {
	var m Member
	err := d.db.QueryRow(query, arg).Scan(&m.ID, &m.Name, &m.Code, &m.Program)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get member: %w", err)
	}
	return &m, nil
}

// GetAllMembers returns all members ordered by name.
func (d *Database) GetAllMembers() ([]*Member, error) {
	rows, err := d.db.Query(`SELECT id,name,code,COALESCE(program,'') FROM members ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query members: %w", err)
	}
	defer rows.Close()

	var members []*Member
	for rows.Next() {
		var m Member
		if err := rows.Scan(&m.ID, &m.Name, &m.Code, &m.Program); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		members = append(members, &m)
	}
	return members, rows.Err()
}
