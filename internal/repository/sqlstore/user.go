package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"

	"userregistry/internal/model"
	"userregistry/internal/repository"
)

// UserSQL is the SQL implementation of repository.UserRepository.
// It runs parameterized queries on its unit of work's open transaction.
type UserSQL struct {
	uow *UnitOfWork
}

var _ repository.UserRepository = (*UserSQL)(nil)

const userColumns = "ssn, first_name, last_name, date_of_birth"

// Add inserts a user row. Duplicate SSNs are reported by the database.
func (r *UserSQL) Add(ctx context.Context, user *model.User) error {
	tx, err := r.uow.session()
	if err != nil {
		return err
	}

	d := r.uow.dialect
	q := fmt.Sprintf(`INSERT INTO users (%s) VALUES (%s, %s, %s, %s)`,
		userColumns, d.Placeholder(1), d.Placeholder(2), d.Placeholder(3), d.Placeholder(4))

	if _, err := tx.ExecContext(ctx, q,
		user.SSN,
		user.FirstName,
		user.LastName,
		user.DateOfBirth,
	); err != nil {
		return wrapStoreError("insert user", err)
	}
	return nil
}

// Get fetches a single user by SSN. A missing row is not an error.
func (r *UserSQL) Get(ctx context.Context, ssn string) (*model.User, error) {
	tx, err := r.uow.session()
	if err != nil {
		return nil, err
	}

	q := fmt.Sprintf(`SELECT %s FROM users WHERE ssn = %s`, userColumns, r.uow.dialect.Placeholder(1))

	var u model.User
	if err := tx.QueryRowContext(ctx, q, ssn).Scan(
		&u.SSN,
		&u.FirstName,
		&u.LastName,
		&u.DateOfBirth,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select user: %w", err)
	}
	return &u, nil
}

// GetAll returns one page of users ordered by SSN. It asks for limit+1 rows
// and uses the extra row only to decide NextPage.
func (r *UserSQL) GetAll(ctx context.Context, offset, limit int, filter repository.UserFilter) (*repository.UserPage, error) {
	tx, err := r.uow.session()
	if err != nil {
		return nil, err
	}

	q, args := r.listQuery(offset, limit, filter)
	rows, err := tx.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := make([]model.User, 0)
	for rows.Next() {
		var u model.User
		if err := rows.Scan(
			&u.SSN,
			&u.FirstName,
			&u.LastName,
			&u.DateOfBirth,
		); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	return repository.TrimPage(users, limit), nil
}

func (r *UserSQL) listQuery(offset, limit int, filter repository.UserFilter) (string, []any) {
	d := r.uow.dialect
	var (
		where []string
		args  []any
	)
	add := func(column string, v any) {
		args = append(args, v)
		where = append(where, column+" = "+d.Placeholder(len(args)))
	}
	if filter.FirstName != nil {
		add("first_name", *filter.FirstName)
	}
	if filter.LastName != nil {
		add("last_name", *filter.LastName)
	}
	if filter.DateOfBirth != nil {
		add("date_of_birth", *filter.DateOfBirth)
	}

	var b strings.Builder
	b.WriteString("SELECT " + userColumns + " FROM users")
	if len(where) > 0 {
		b.WriteString(" WHERE " + strings.Join(where, " AND "))
	}
	fetch := limit
	if limit < math.MaxInt {
		fetch++
	}
	args = append(args, fetch)
	b.WriteString(" ORDER BY ssn LIMIT " + d.Placeholder(len(args)))
	args = append(args, offset)
	b.WriteString(" OFFSET " + d.Placeholder(len(args)))

	return b.String(), args
}
