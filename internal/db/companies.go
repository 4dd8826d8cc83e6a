package db

import (
	"context"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/jonathan/gig-directory-audit/internal/types"
)

// -----------------------------------------------------------------------------
// Company Methods
// -----------------------------------------------------------------------------

const companyColumns = `id, name, website, contact_phone, contact_email, service_vertical,
	contract_type, average_pay, vehicle_types, areas_served, insurance_requirements,
	license_requirements, description, year_established, company_size, headquarters,
	business_model, is_active, created_at`

// listedPredicate keeps legacy NULL rows visible
const listedPredicate = `(is_active = true OR is_active IS NULL)`

// ListActiveCompanies returns listed companies ordered by id. A limit of 0 returns all.
func (db *DB) ListActiveCompanies(ctx context.Context, limit int) ([]types.CompanyRecord, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE ` + listedPredicate + ` ORDER BY id`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, wrap("failed to list active companies", err)
	}
	defer rows.Close()

	var companies []types.CompanyRecord
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, wrap("failed to scan company", err)
		}
		companies = append(companies, c)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("failed to list active companies", err)
	}
	return companies, nil
}

// GetCompany returns one company regardless of its active state, or nil when missing
func (db *DB) GetCompany(ctx context.Context, id int64) (*types.CompanyRecord, error) {
	row := db.pool.QueryRow(ctx, `SELECT `+companyColumns+` FROM companies WHERE id = $1`, id)
	c, err := scanCompany(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, wrap(fmt.Sprintf("failed to get company %d", id), err)
	}
	return &c, nil
}

// CountListedCompanies counts rows visible in listings
func (db *DB) CountListedCompanies(ctx context.Context) (int, error) {
	var n int
	err := db.pool.QueryRow(ctx, `SELECT COUNT(*) FROM companies WHERE `+listedPredicate).Scan(&n)
	if err != nil {
		return 0, wrap("failed to count listed companies", err)
	}
	return n, nil
}

// DeactivateCompanies sets is_active = false for ids in one transaction.
// Rows already inactive or missing are counted as already applied. If the
// update touches a different number of rows than were locked as pending the
// transaction is rolled back and the result is marked RolledBack.
func (db *DB) DeactivateCompanies(ctx context.Context, ids []int64) (types.BatchResult, error) {
	return db.mutate(ctx, ids, "deactivate",
		`SELECT id FROM companies WHERE id = ANY($1) AND is_active IS DISTINCT FROM false ORDER BY id FOR UPDATE`,
		`UPDATE companies SET is_active = false, updated_at = NOW() WHERE id = ANY($1) AND is_active IS DISTINCT FROM false`,
	)
}

// DeleteCompanies removes rows for ids in one transaction. Missing ids are
// counted as already applied.
func (db *DB) DeleteCompanies(ctx context.Context, ids []int64) (types.BatchResult, error) {
	return db.mutate(ctx, ids, "delete",
		`SELECT id FROM companies WHERE id = ANY($1) ORDER BY id FOR UPDATE`,
		`DELETE FROM companies WHERE id = ANY($1)`,
	)
}

func (db *DB) mutate(ctx context.Context, ids []int64, verb, lockQuery, mutation string) (result types.BatchResult, err error) {
	ids = uniqueIDs(ids)
	result.Requested = len(ids)
	if len(ids) == 0 {
		return result, nil
	}

	tx, err := db.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return result, wrap("failed to begin transaction", err)
	}
	defer func() {
		if err != nil || result.RolledBack {
			_ = tx.Rollback(ctx)
		}
	}()

	rows, err := tx.Query(ctx, lockQuery, ids)
	if err != nil {
		return result, wrap(fmt.Sprintf("failed to lock companies to %s", verb), err)
	}
	pending, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return result, wrap(fmt.Sprintf("failed to lock companies to %s", verb), err)
	}

	tag, err := tx.Exec(ctx, mutation, ids)
	if err != nil {
		return result, wrap(fmt.Sprintf("failed to %s companies", verb), err)
	}

	result.Affected = int(tag.RowsAffected())
	result.AlreadyApplied = len(ids) - len(pending)
	if result.Affected != len(pending) {
		result.RolledBack = true
		return result, nil
	}

	if err = tx.Commit(ctx); err != nil {
		return result, wrap(fmt.Sprintf("failed to commit %s", verb), err)
	}
	return result, nil
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func scanCompany(row pgx.Row) (types.CompanyRecord, error) {
	var c types.CompanyRecord
	var active *bool
	err := row.Scan(
		&c.ID, &c.Name, &c.Website, &c.ContactPhone, &c.ContactEmail, &c.ServiceVertical,
		&c.ContractType, &c.AveragePay, &c.VehicleTypes, &c.AreasServed, &c.InsuranceRequirements,
		&c.LicenseRequirements, &c.Description, &c.YearEstablished, &c.CompanySize, &c.Headquarters,
		&c.BusinessModel, &active, &c.CreatedAt,
	)
	if err != nil {
		return c, err
	}
	c.Active = types.ActiveStateFromNullable(active)
	return c, nil
}
