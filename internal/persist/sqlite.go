// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package persist

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/orgsynth/internal/entity"
)

var schema = []string{
	`CREATE TABLE companies (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		employees_total INTEGER,
		industry TEXT,
		operating_locations TEXT,
		domain TEXT
	)`,
	`CREATE TABLE units (
		id INTEGER PRIMARY KEY,
		company_id INTEGER NOT NULL REFERENCES companies(id),
		name TEXT NOT NULL
	)`,
	`CREATE TABLE employees (
		id INTEGER PRIMARY KEY,
		unit_id INTEGER NOT NULL REFERENCES units(id),
		first_name TEXT,
		last_name TEXT,
		location TEXT,
		age INTEGER,
		number_of_children INTEGER,
		personality TEXT,
		role TEXT,
		salary TEXT
	)`,
	`CREATE TABLE products (
		id INTEGER PRIMARY KEY,
		company_id INTEGER NOT NULL REFERENCES companies(id),
		name TEXT,
		price TEXT
	)`,
	`CREATE TABLE emails (
		id INTEGER PRIMARY KEY,
		sender_id INTEGER NOT NULL REFERENCES employees(id),
		subject TEXT,
		body TEXT,
		attachment TEXT,
		from_account TEXT,
		to_account TEXT,
		recipient_key TEXT
	)`,
	`CREATE INDEX idx_units_company ON units(company_id)`,
	`CREATE INDEX idx_employees_unit ON employees(unit_id)`,
	`CREATE INDEX idx_products_company ON products(company_id)`,
	`CREATE INDEX idx_emails_sender ON emails(sender_id)`,
}

func openSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return db, nil
}

// saveSQLite writes the forest to an empty archive in a single
// transaction. Row ids follow forest order so loading by id restores the
// same order.
func saveSQLite(ctx context.Context, path string, companies []*entity.Company) (err error) {
	db, err := openSQLite(path)
	if err != nil {
		return err
	}
	defer db.Close()

	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	var unitID, employeeID int64
	for ci, c := range companies {
		companyID := int64(ci + 1)
		locations, err := json.Marshal(c.OperatingLocations)
		if err != nil {
			return fmt.Errorf("marshaling locations of %s: %w", c.Name, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO companies (id, name, employees_total, industry, operating_locations, domain) VALUES (?, ?, ?, ?, ?, ?)`,
			companyID, c.Name, c.EmployeesTotal, c.Industry, string(locations), c.Domain,
		); err != nil {
			return fmt.Errorf("inserting company %s: %w", c.Name, err)
		}

		for _, p := range c.Products {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO products (company_id, name, price) VALUES (?, ?, ?)`,
				companyID, p.Name, p.Price,
			); err != nil {
				return fmt.Errorf("inserting product %s: %w", p.Name, err)
			}
		}

		for _, u := range c.Units {
			unitID++
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO units (id, company_id, name) VALUES (?, ?, ?)`,
				unitID, companyID, u.Name,
			); err != nil {
				return fmt.Errorf("inserting unit %s: %w", u.Name, err)
			}

			for _, e := range u.Employees {
				employeeID++
				if _, err := tx.ExecContext(ctx,
					`INSERT INTO employees (id, unit_id, first_name, last_name, location, age, number_of_children, personality, role, salary)
					 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
					employeeID, unitID, e.FirstName, e.LastName, e.Location, e.Age,
					e.NumberOfChildren, e.Personality, e.Role, e.Salary,
				); err != nil {
					return fmt.Errorf("inserting employee %s: %w", e.FullName(), err)
				}

				for _, m := range e.SentMessages {
					if _, err := tx.ExecContext(ctx,
						`INSERT INTO emails (sender_id, subject, body, attachment, from_account, to_account, recipient_key)
						 VALUES (?, ?, ?, ?, ?, ?, ?)`,
						employeeID, m.Subject, m.Body, m.Attachment, m.FromAccount, m.ToAccount, m.RecipientKey,
					); err != nil {
						return fmt.Errorf("inserting email %q: %w", m.Subject, err)
					}
				}
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing archive: %w", err)
	}
	return nil
}

// loadSQLite reads an archive back into the forest shape. Back-references
// are left for Relink.
func loadSQLite(ctx context.Context, path string) ([]*entity.Company, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("opening archive %s: %w", path, err)
	}
	db, err := openSQLite(path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	var companies []*entity.Company
	companyByID := map[int64]*entity.Company{}
	unitByID := map[int64]*entity.Unit{}
	employeeByID := map[int64]*entity.Employee{}

	err = queryRows(ctx, db,
		`SELECT id, name, employees_total, industry, operating_locations, domain FROM companies ORDER BY id`,
		func(rows *sql.Rows) error {
			var id int64
			var locations string
			c := &entity.Company{}
			if err := rows.Scan(&id, &c.Name, &c.EmployeesTotal, &c.Industry, &locations, &c.Domain); err != nil {
				return err
			}
			if err := json.Unmarshal([]byte(locations), &c.OperatingLocations); err != nil {
				return fmt.Errorf("decoding locations of %s: %w", c.Name, err)
			}
			companies = append(companies, c)
			companyByID[id] = c
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("reading companies: %w", err)
	}

	err = queryRows(ctx, db, `SELECT company_id, name, price FROM products ORDER BY id`,
		func(rows *sql.Rows) error {
			var companyID int64
			p := &entity.Product{}
			if err := rows.Scan(&companyID, &p.Name, &p.Price); err != nil {
				return err
			}
			c, ok := companyByID[companyID]
			if !ok {
				return fmt.Errorf("product %s references unknown company %d", p.Name, companyID)
			}
			c.Products = append(c.Products, p)
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("reading products: %w", err)
	}

	err = queryRows(ctx, db, `SELECT id, company_id, name FROM units ORDER BY id`,
		func(rows *sql.Rows) error {
			var id, companyID int64
			u := &entity.Unit{}
			if err := rows.Scan(&id, &companyID, &u.Name); err != nil {
				return err
			}
			c, ok := companyByID[companyID]
			if !ok {
				return fmt.Errorf("unit %s references unknown company %d", u.Name, companyID)
			}
			c.Units = append(c.Units, u)
			unitByID[id] = u
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("reading units: %w", err)
	}

	err = queryRows(ctx, db,
		`SELECT id, unit_id, first_name, last_name, location, age, number_of_children, personality, role, salary
		 FROM employees ORDER BY id`,
		func(rows *sql.Rows) error {
			var id, unitID int64
			e := &entity.Employee{}
			if err := rows.Scan(&id, &unitID, &e.FirstName, &e.LastName, &e.Location, &e.Age,
				&e.NumberOfChildren, &e.Personality, &e.Role, &e.Salary); err != nil {
				return err
			}
			u, ok := unitByID[unitID]
			if !ok {
				return fmt.Errorf("employee %s references unknown unit %d", e.FullName(), unitID)
			}
			u.Employees = append(u.Employees, e)
			employeeByID[id] = e
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("reading employees: %w", err)
	}

	err = queryRows(ctx, db,
		`SELECT sender_id, subject, body, attachment, from_account, to_account, recipient_key FROM emails ORDER BY id`,
		func(rows *sql.Rows) error {
			var senderID int64
			m := &entity.Email{}
			if err := rows.Scan(&senderID, &m.Subject, &m.Body, &m.Attachment, &m.FromAccount, &m.ToAccount, &m.RecipientKey); err != nil {
				return err
			}
			e, ok := employeeByID[senderID]
			if !ok {
				return fmt.Errorf("email %q references unknown sender %d", m.Subject, senderID)
			}
			e.SentMessages = append(e.SentMessages, m)
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("reading emails: %w", err)
	}

	return companies, nil
}

func queryRows(ctx context.Context, db *sql.DB, query string, scan func(*sql.Rows) error) error {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		if err := scan(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}
