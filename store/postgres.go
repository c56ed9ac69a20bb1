package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"git.fiblab.net/sim/autoownership/ownership"
	_ "github.com/jackc/pgx/v5/stdlib"
)

const (
	// 结果列也要读出，跳过的家庭保存时保持原值
	selectHouseholds = `
		SELECT id, taz, income, seed, random_count, debug,
			autos, autonomous_vehicles, human_vehicles, ao_random_count
		FROM ` + POSTGRES_HOUSEHOLD_TABLE + `
		ORDER BY id`
	selectPersons = `
		SELECT household_id, id, age, worker, student_driving, student_non_driving,
			usual_work_location, usual_school_location
		FROM ` + POSTGRES_PERSON_TABLE + `
		ORDER BY household_id, id`
	updateResults = `
		UPDATE ` + POSTGRES_HOUSEHOLD_TABLE + `
		SET autos = $2, autonomous_vehicles = $3, human_vehicles = $4, ao_random_count = $5
		WHERE id = $1`
)

// PostgresStore reads households and their persons from two tables and
// writes the results back to the household table.
type PostgresStore struct {
	db *sql.DB
}

func OpenPostgres(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open postgres database: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("verify postgres connection: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Load(ctx context.Context) ([]*ownership.Household, error) {
	rows, err := s.db.QueryContext(ctx, selectHouseholds)
	if err != nil {
		return nil, fmt.Errorf("query households: %w", err)
	}
	defer rows.Close()

	var households []*ownership.Household
	byID := make(map[int64]*ownership.Household)
	for rows.Next() {
		hh := &ownership.Household{}
		if err := rows.Scan(&hh.ID, &hh.TAZ, &hh.Income, &hh.Seed, &hh.RandomCount, &hh.Debug,
			&hh.Autos, &hh.AVs, &hh.HVs, &hh.AoRandomCount); err != nil {
			return nil, fmt.Errorf("scan household: %w", err)
		}
		households = append(households, hh)
		byID[hh.ID] = hh
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate households: %w", err)
	}

	personRows, err := s.db.QueryContext(ctx, selectPersons)
	if err != nil {
		return nil, fmt.Errorf("query persons: %w", err)
	}
	defer personRows.Close()
	for personRows.Next() {
		var hhID int64
		var p ownership.Person
		if err := personRows.Scan(&hhID, &p.ID, &p.Age, &p.Worker, &p.StudentDriving, &p.StudentNonDriving,
			&p.UsualWorkLocation, &p.UsualSchoolLocation); err != nil {
			return nil, fmt.Errorf("scan person: %w", err)
		}
		hh, ok := byID[hhID]
		if !ok {
			return nil, fmt.Errorf("%w: person %d of household %d", ErrUnknownPerson, p.ID, hhID)
		}
		hh.Persons = append(hh.Persons, p)
	}
	if err := personRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate persons: %w", err)
	}
	log.Infof("loaded %d households from postgres", len(households))
	return households, nil
}

// Save updates the result columns of every household in one transaction.
func (s *PostgresStore) Save(ctx context.Context, households []*ownership.Household) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, updateResults)
	if err != nil {
		return fmt.Errorf("prepare update: %w", err)
	}
	defer stmt.Close()

	for _, hh := range households {
		res, err := stmt.ExecContext(ctx, hh.ID, hh.Autos, hh.AVs, hh.HVs, hh.AoRandomCount)
		if err != nil {
			return fmt.Errorf("update household %d: %w", hh.ID, err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			log.Warnf("household %d not found in %s", hh.ID, POSTGRES_HOUSEHOLD_TABLE)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	log.Infof("saved %d households to postgres", len(households))
	return nil
}

func (s *PostgresStore) Close(context.Context) error {
	return s.db.Close()
}
