package employee

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"peoplehub/internal/platform/querier"
)

type Store struct {
	DB querier.TxBeginner
}

func NewStore(db querier.TxBeginner) *Store {
	return &Store{DB: db}
}

const employeeColumns = `
    id, COALESCE(user_id::text, ''), employee_code, first_name, last_name, full_name, email, phone,
    department, designation, COALESCE(team_lead_id::text, ''), COALESCE(manager_id::text, ''),
    date_of_joining, basic_salary, allowances, deductions, status, is_active, exit_date,
    resignation_json, created_at, updated_at
`

func scanEmployee(row pgx.Row) (Employee, error) {
	var emp Employee
	var resignation []byte
	err := row.Scan(
		&emp.ID, &emp.UserID, &emp.EmployeeCode, &emp.FirstName, &emp.LastName, &emp.FullName, &emp.Email, &emp.Phone,
		&emp.Department, &emp.Designation, &emp.TeamLeadID, &emp.ManagerID,
		&emp.DateOfJoining, &emp.BasicSalary, &emp.Allowances, &emp.Deductions, &emp.Status, &emp.IsActive, &emp.ExitDate,
		&resignation, &emp.CreatedAt, &emp.UpdatedAt,
	)
	if err != nil {
		return Employee{}, err
	}
	if len(resignation) > 0 && string(resignation) != "null" {
		var res Resignation
		if err := json.Unmarshal(resignation, &res); err != nil {
			return Employee{}, fmt.Errorf("decode resignation: %w", err)
		}
		emp.Resignation = &res
	}
	return emp, nil
}

func (s *Store) Get(ctx context.Context, tenantID, employeeID string) (Employee, error) {
	emp, err := scanEmployee(s.DB.QueryRow(ctx, "SELECT "+employeeColumns+" FROM employees WHERE tenant_id = $1 AND id = $2", tenantID, employeeID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Employee{}, ErrEmployeeNotFound
	}
	return emp, err
}

func (s *Store) GetByUserID(ctx context.Context, tenantID, userID string) (Employee, error) {
	emp, err := scanEmployee(s.DB.QueryRow(ctx, "SELECT "+employeeColumns+" FROM employees WHERE tenant_id = $1 AND user_id = $2", tenantID, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Employee{}, ErrNoLinkedEmployee
	}
	return emp, err
}

func (s *Store) Exists(ctx context.Context, tenantID, employeeID string) (bool, error) {
	var exists bool
	err := s.DB.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM employees WHERE tenant_id = $1 AND id = $2)", tenantID, employeeID).Scan(&exists)
	return exists, err
}

func (s *Store) List(ctx context.Context, tenantID string, filter Filter) ([]Employee, int, error) {
	where := " WHERE tenant_id = $1"
	args := []any{tenantID}
	add := func(clause string, value any) {
		args = append(args, value)
		where += fmt.Sprintf(clause, len(args))
	}
	if filter.Department != "" {
		add(" AND department = $%d", filter.Department)
	}
	if filter.Status != "" {
		add(" AND status = $%d", filter.Status)
	}
	if filter.ActiveOnly {
		where += " AND is_active"
	}
	if filter.TeamOf != "" {
		args = append(args, filter.TeamOf)
		where += fmt.Sprintf(" AND (team_lead_id = $%d OR manager_id = $%d OR id = $%d)", len(args), len(args), len(args))
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		args = append(args, "%"+strings.ToLower(search)+"%")
		where += fmt.Sprintf(" AND (lower(full_name) LIKE $%d OR lower(email) LIKE $%d OR lower(employee_code) LIKE $%d)", len(args), len(args), len(args))
	}

	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM employees"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := "SELECT " + employeeColumns + " FROM employees" + where +
		fmt.Sprintf(" ORDER BY full_name, id LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	rows, err := s.DB.Query(ctx, query, append(args, filter.Limit, filter.Offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []Employee{}
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, emp)
	}
	return out, total, rows.Err()
}

// Create inserts the employee, its first history entry and, when a password
// hash is given, its login, all in one transaction.
func (s *Store) Create(ctx context.Context, tenantID, actorID string, in CreateInput, fullName, passwordHash string) (Employee, error) {
	var created Employee
	err := querier.InTx(ctx, s.DB, func(tx pgx.Tx) error {
		var userID any
		if passwordHash != "" {
			var roleID string
			err := tx.QueryRow(ctx, "SELECT id FROM roles WHERE tenant_id = $1 AND name = $2", tenantID, in.Role).Scan(&roleID)
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrRoleNotFound
			}
			if err != nil {
				return err
			}
			var id string
			if err := tx.QueryRow(ctx, `
        INSERT INTO users (tenant_id, email, password_hash, role_id)
        VALUES ($1,$2,$3,$4)
        RETURNING id
      `, tenantID, in.Email, passwordHash, roleID).Scan(&id); err != nil {
				return err
			}
			userID = id
		}

		code := in.EmployeeCode
		if code == "" {
			var seq int
			if err := tx.QueryRow(ctx, "SELECT COUNT(1) + 1 FROM employees WHERE tenant_id = $1", tenantID).Scan(&seq); err != nil {
				return err
			}
			code = fmt.Sprintf("EMP%04d", seq)
		}

		row := tx.QueryRow(ctx, `
      INSERT INTO employees (tenant_id, user_id, employee_code, first_name, last_name, full_name, email, phone,
        department, designation, team_lead_id, manager_id, date_of_joining, basic_salary, allowances, deductions, status)
      VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,0,$16)
      RETURNING `+employeeColumns,
			tenantID, userID, code, in.FirstName, in.LastName, fullName, in.Email, in.Phone,
			in.Department, in.Designation, nullableID(in.TeamLeadID), nullableID(in.ManagerID),
			in.DateOfJoining, in.BasicSalary, in.Allowances, in.Status,
		)
		emp, err := scanEmployee(row)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `
      INSERT INTO employee_status_history (tenant_id, employee_id, from_status, to_status, changed_by, note)
      VALUES ($1,$2,'',$3,$4,'hired')
    `, tenantID, emp.ID, emp.Status, nullableID(actorID)); err != nil {
			return err
		}
		created = emp
		return nil
	})
	if querier.IsUniqueViolation(err) {
		return Employee{}, ErrDuplicateEmployee
	}
	return created, err
}

func (s *Store) Update(ctx context.Context, tenantID, employeeID string, emp Employee) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE employees
    SET first_name = $3, last_name = $4, full_name = $5, phone = $6, department = $7, designation = $8,
        team_lead_id = $9, manager_id = $10, basic_salary = $11, allowances = $12, updated_at = now()
    WHERE tenant_id = $1 AND id = $2
  `, tenantID, employeeID, emp.FirstName, emp.LastName, emp.FullName, emp.Phone, emp.Department, emp.Designation,
		nullableID(emp.TeamLeadID), nullableID(emp.ManagerID), emp.BasicSalary, emp.Allowances)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrEmployeeNotFound
	}
	return nil
}

// SetStatus moves the employee to a new status only if it still holds from,
// and appends the history entry.
func (s *Store) SetStatus(ctx context.Context, q querier.Querier, tenantID, employeeID, from, to, actorID, note string, emp Employee) error {
	tag, err := q.Exec(ctx, `
    UPDATE employees
    SET status = $4, is_active = $5, exit_date = $6, updated_at = now()
    WHERE tenant_id = $1 AND id = $2 AND status = $3
  `, tenantID, employeeID, from, to, emp.IsActive, emp.ExitDate)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrInvalidTransition
	}
	_, err = q.Exec(ctx, `
    INSERT INTO employee_status_history (tenant_id, employee_id, from_status, to_status, changed_by, note)
    VALUES ($1,$2,$3,$4,$5,$6)
  `, tenantID, employeeID, from, to, nullableID(actorID), note)
	return err
}

func (s *Store) SaveResignation(ctx context.Context, q querier.Querier, tenantID, employeeID string, res *Resignation) error {
	payload, err := json.Marshal(res)
	if err != nil {
		return err
	}
	_, err = q.Exec(ctx, `
    UPDATE employees SET resignation_json = $3, updated_at = now()
    WHERE tenant_id = $1 AND id = $2
  `, tenantID, employeeID, payload)
	return err
}

func (s *Store) History(ctx context.Context, tenantID, employeeID string) ([]StatusChange, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, from_status, to_status, COALESCE(changed_by::text, ''), note, changed_at
    FROM employee_status_history
    WHERE tenant_id = $1 AND employee_id = $2
    ORDER BY changed_at, id
  `, tenantID, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []StatusChange{}
	for rows.Next() {
		var c StatusChange
		if err := rows.Scan(&c.ID, &c.FromStatus, &c.ToStatus, &c.ChangedBy, &c.Note, &c.ChangedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) InTx(ctx context.Context, fn func(q querier.Querier) error) error {
	return querier.InTx(ctx, s.DB, func(tx pgx.Tx) error {
		return fn(tx)
	})
}

func nullableID(id string) any {
	if id == "" {
		return nil
	}
	return id
}
