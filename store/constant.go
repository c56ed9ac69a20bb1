package store

import (
	"errors"

	"github.com/sirupsen/logrus"
)

var (
	log = logrus.WithField("module", "store")
)

const (
	POSTGRES_HOUSEHOLD_TABLE = "households"
	POSTGRES_PERSON_TABLE    = "persons"
)

var (
	ErrInvalidPath   = errors.New("invalid household path")
	ErrNoMongoURI    = errors.New("mongo uri is required for db.coll paths")
	ErrDuplicateID   = errors.New("duplicate household id")
	ErrUnknownPerson = errors.New("person of unknown household")
)
