package migrations

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/suite"
)

type MigratorTestSuite struct {
	suite.Suite
	ctx      context.Context
	db       *sql.DB
	migrator *Migrator
}

func TestMigratorSuite(t *testing.T) {
	suite.Run(t, new(MigratorTestSuite))
}

func (s *MigratorTestSuite) SetupTest() {
	s.ctx = context.Background()
	db, err := sql.Open("sqlite3", ":memory:")
	s.Require().NoError(err)
	db.SetMaxOpenConns(1)
	s.db = db
	s.migrator = NewMigrator(db, nil)
}

func (s *MigratorTestSuite) TearDownTest() {
	s.NoError(s.db.Close())
}

var schema = []Migration{
	{Version: 2, Description: "add notes", SQL: `ALTER TABLE things ADD COLUMN note TEXT NOT NULL DEFAULT ''`},
	{Version: 1, Description: "create things", SQL: `CREATE TABLE things (id TEXT PRIMARY KEY)`},
}

func (s *MigratorTestSuite) TestMigrateUpInVersionOrder() {
	count, err := s.migrator.MigrateUp(s.ctx, schema)

	s.Require().NoError(err)
	s.Equal(2, count)
	_, err = s.db.Exec(`INSERT INTO things (id, note) VALUES ('a', 'b')`)
	s.NoError(err)

	applied, err := s.migrator.Applied(s.ctx)
	s.Require().NoError(err)
	s.Equal(map[int]bool{1: true, 2: true}, applied)
}

func (s *MigratorTestSuite) TestMigrateUpIsIdempotent() {
	_, err := s.migrator.MigrateUp(s.ctx, schema)
	s.Require().NoError(err)

	count, err := s.migrator.MigrateUp(s.ctx, schema)

	s.NoError(err)
	s.Zero(count)
}

func (s *MigratorTestSuite) TestFailedMigrationIsNotRecorded() {
	broken := append(schema[:0:0], schema[1], Migration{Version: 2, Description: "broken", SQL: `ALTER TABLE nope ADD COLUMN x TEXT`})

	count, err := s.migrator.MigrateUp(s.ctx, broken)

	s.Error(err)
	s.Equal(1, count)
	applied, err := s.migrator.Applied(s.ctx)
	s.Require().NoError(err)
	s.False(applied[2])
}

func (s *MigratorTestSuite) TestDuplicateVersions() {
	_, err := s.migrator.MigrateUp(s.ctx, []Migration{schema[1], {Version: 1, SQL: "SELECT 1"}})

	s.ErrorContains(err, "duplicate migration version 001")
}
