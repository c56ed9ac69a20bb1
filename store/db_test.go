package store

import (
	"context"
	"os"
	"testing"

	"git.fiblab.net/sim/autoownership/ownership"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 需要MONGO_URI和HOUSEHOLD_COLL(db.coll)
func TestMongoStore(t *testing.T) {
	uri, coll := os.Getenv("MONGO_URI"), os.Getenv("HOUSEHOLD_COLL")
	if uri == "" || coll == "" {
		t.Skip("MONGO_URI or HOUSEHOLD_COLL not set")
	}
	ctx := context.Background()
	p, err := NewPath(coll)
	require.NoError(t, err)
	s, err := Open(ctx, p, uri)
	require.NoError(t, err)
	defer s.Close(ctx)

	want := []*ownership.Household{
		{ID: 1, TAZ: 1, Persons: []ownership.Person{{ID: 1, Age: 30, Worker: true, UsualWorkLocation: 2}}, Autos: 1, AoRandomCount: 1},
		{ID: 2, TAZ: 2, Persons: []ownership.Person{}, Autos: 0, AoRandomCount: 1},
	}
	require.NoError(t, s.Save(ctx, want))
	got, err := s.Load(ctx)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(got), 2)
	assert.Equal(t, want[0].Persons, got[0].Persons)
	assert.Equal(t, 1, got[0].Autos)
}

func TestPostgresQueriesKeepResults(t *testing.T) {
	// 保存会写回这四列，读取时必须读出原值
	for _, column := range []string{"autos", "autonomous_vehicles", "human_vehicles", "ao_random_count"} {
		assert.Contains(t, selectHouseholds, column)
		assert.Contains(t, updateResults, column)
	}
}

// 需要POSTGRES_URL，表结构见schema.sql
func TestPostgresStore(t *testing.T) {
	url := os.Getenv("POSTGRES_URL")
	if url == "" {
		t.Skip("POSTGRES_URL not set")
	}
	ctx := context.Background()
	s, err := OpenPostgres(ctx, url)
	require.NoError(t, err)
	defer s.Close(ctx)

	schema, err := os.ReadFile("schema.sql")
	require.NoError(t, err)
	_, err = s.db.ExecContext(ctx, string(schema))
	require.NoError(t, err)
	ids := []int64{900001, 900002}
	cleanup := func() {
		_, _ = s.db.ExecContext(ctx, "DELETE FROM persons WHERE household_id = ANY($1)", ids)
		_, _ = s.db.ExecContext(ctx, "DELETE FROM households WHERE id = ANY($1)", ids)
	}
	cleanup()
	defer cleanup()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO households (id, taz, random_count, autos, autonomous_vehicles, human_vehicles, ao_random_count)
		VALUES ($1, 1, 2, 0, 0, 0, 0), ($2, 2, 4, 2, 1, 1, 5)`, ids[0], ids[1])
	require.NoError(t, err)
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO persons (household_id, id, age, worker, usual_work_location)
		VALUES ($1, 1, 35, TRUE, 2)`, ids[0])
	require.NoError(t, err)

	find := func(households []*ownership.Household, id int64) *ownership.Household {
		for _, hh := range households {
			if hh.ID == id {
				return hh
			}
		}
		return nil
	}

	households, err := s.Load(ctx)
	require.NoError(t, err)
	chosen, skipped := find(households, ids[0]), find(households, ids[1])
	require.NotNil(t, chosen)
	require.NotNil(t, skipped)
	require.Len(t, chosen.Persons, 1)
	assert.Equal(t, 2, skipped.Autos)
	assert.Equal(t, 5, skipped.AoRandomCount)

	// 只有第一个家庭得到新结果，第二个家庭保持原值
	chosen.Autos, chosen.HVs, chosen.AoRandomCount = 1, 1, 3
	require.NoError(t, s.Save(ctx, households))

	reloaded, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, reloaded, len(households))
	chosen, skipped = find(reloaded, ids[0]), find(reloaded, ids[1])
	assert.Equal(t, 1, chosen.Autos)
	assert.Equal(t, 1, chosen.HVs)
	assert.Equal(t, 3, chosen.AoRandomCount)
	assert.Equal(t, 2, skipped.Autos)
	assert.Equal(t, 1, skipped.AVs)
	assert.Equal(t, 1, skipped.HVs)
	assert.Equal(t, 5, skipped.AoRandomCount)
}
