package database

import (
	"github.com/ajithkumarky/tulutitans/internal/model"
)

type (
	// A Client can interacts with the database.
	Client interface {
		// Save inserts or updates the entry in database with the given model.
		Save(m model.Model) error
		// Delete deletes the entry in database with the given model.
		Delete(m model.Model) error
		// Close the database.
		Close() error
		// IsNotFound returns true if err is a not found error.
		IsNotFound(err error) bool

		UserInteraction
		VocabularyInteraction
	}

	// An UserInteraction defines all the methods used to interact with a user record.
	UserInteraction interface {
		// FindUser returns the user for the given id (UUID).
		FindUser(id string) (*model.User, error)
		// FindUserByUsername returns the user for the given username.
		FindUserByUsername(username string) (*model.User, error)
		// ApplyProgress adds the given experience and currency gains to the
		// user's record and recomputes its level, all within a single write
		// transaction so concurrent submissions cannot lose updates.
		ApplyProgress(username string, experience, currency int) (*model.User, error)
	}

	// A VocabularyInteraction defines all the methods used to interact with vocabulary records.
	VocabularyInteraction interface {
		// FindVocabulary returns the vocabulary entry for the given id (UUID).
		FindVocabulary(id string) (*model.Vocabulary, error)
		// AllVocabulary returns every vocabulary entry.
		AllVocabulary() ([]*model.Vocabulary, error)
		// VocabularyWithImages returns the vocabulary entries carrying an illustration.
		VocabularyWithImages() ([]*model.Vocabulary, error)
	}
)
