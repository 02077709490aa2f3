package database

import (
	"time"

	"github.com/asdine/storm/v3"
	"github.com/asdine/storm/v3/codec/msgpack"
	"github.com/asdine/storm/v3/q"
	"github.com/gofrs/uuid"
	"github.com/pkg/errors"

	"github.com/ajithkumarky/tulutitans/internal/model"
)

type strm struct {
	db *storm.DB
}

// StormCodec is the format used to store data in the database.
var StormCodec = storm.Codec(msgpack.Codec)

// StormInit initializes Storm database.
func StormInit(database string) error {
	db, err := storm.Open(database, StormCodec)
	if err != nil {
		return errors.Wrap(err, "could not get database connection")
	}
	defer db.Close()

	if err := db.Init(&model.User{}); err != nil {
		return errors.Wrap(err, "could not init user index")
	}

	err = db.Init(&model.Vocabulary{})
	return errors.Wrap(err, "could not init vocabulary index")
}

// StormOpen returns a new Storm database connection.
func StormOpen(database string) (Client, error) {
	db, err := storm.Open(database, StormCodec)
	if err != nil {
		return nil, errors.Wrap(err, "could not get database connection")
	}

	return &strm{
		db: db,
	}, nil
}

// Save inserts or updates the entry in database with the given model.
func (c *strm) Save(m model.Model) error {
	t := time.Now().UTC()
	m.SetUpdatedAt(t)

	if m.GetID() == "" {
		m.SetID(uuid.Must(uuid.NewV4()).String())
		m.SetCreatedAt(t)
	}

	return errors.Wrap(c.db.Save(m), "could not save the model")
}

// Delete deletes the entry in database with the given model.
func (c *strm) Delete(m model.Model) error {
	return errors.Wrap(c.db.DeleteStruct(m), "could not delete the model")
}

// Close the database.
func (c *strm) Close() error {
	return c.db.Close()
}

// IsNotFound returns true if err is a not found error.
func (c *strm) IsNotFound(err error) bool {
	return errors.Cause(err) == storm.ErrNotFound
}

// FindUser returns the user for the given id (UUID).
func (c *strm) FindUser(id string) (*model.User, error) {
	var user model.User
	if err := c.db.One("ID", id, &user); err != nil {
		return nil, errors.Wrap(err, "find user by id")
	}
	return &user, nil
}

// FindUserByUsername returns the user for the given username.
func (c *strm) FindUserByUsername(username string) (*model.User, error) {
	var user model.User
	if err := c.db.One("Username", username, &user); err != nil {
		return nil, errors.Wrap(err, "find user by username")
	}
	return &user, nil
}

// ApplyProgress adds the given gains to the user's record within a single
// write transaction. bbolt serializes writers so the read-modify-write cannot
// interleave with another one.
func (c *strm) ApplyProgress(username string, experience, currency int) (*model.User, error) {
	tx, err := c.db.Begin(true)
	if err != nil {
		return nil, errors.Wrap(err, "could not begin transaction")
	}
	defer tx.Rollback()

	var user model.User
	if err := tx.One("Username", username, &user); err != nil {
		return nil, errors.Wrap(err, "find user by username")
	}

	user.AddProgress(experience, currency)
	t := time.Now().UTC()
	user.UpdatedAt = &t

	if err := tx.Save(&user); err != nil {
		return nil, errors.Wrap(err, "could not update user progression")
	}

	return &user, errors.Wrap(tx.Commit(), "could not commit user progression")
}

// FindVocabulary returns the vocabulary entry for the given id (UUID).
func (c *strm) FindVocabulary(id string) (*model.Vocabulary, error) {
	var vocabulary model.Vocabulary
	if err := c.db.One("ID", id, &vocabulary); err != nil {
		return nil, errors.Wrap(err, "could not find vocabulary")
	}
	return &vocabulary, nil
}

// AllVocabulary returns every vocabulary entry.
func (c *strm) AllVocabulary() ([]*model.Vocabulary, error) {
	vocabularies := make([]*model.Vocabulary, 0)
	err := c.db.All(&vocabularies)
	if err != nil && !c.IsNotFound(err) {
		return nil, errors.Wrap(err, "could not find vocabularies")
	}
	return vocabularies, nil
}

// VocabularyWithImages returns the vocabulary entries carrying an illustration.
func (c *strm) VocabularyWithImages() ([]*model.Vocabulary, error) {
	vocabularies := make([]*model.Vocabulary, 0)
	err := c.db.Select(q.Not(q.Eq("ImageName", ""))).Find(&vocabularies)
	if err != nil && !c.IsNotFound(err) {
		return nil, errors.Wrap(err, "could not find vocabularies with images")
	}
	return vocabularies, nil
}
