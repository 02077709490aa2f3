package service

import (
	"fmt"
	"math/rand"
	"net/http"

	"github.com/pkg/errors"

	"github.com/ajithkumarky/tulutitans/internal/apierror"
	"github.com/ajithkumarky/tulutitans/internal/database"
	"github.com/ajithkumarky/tulutitans/internal/model"
)

const (
	// ExperienceGain is awarded for every correct answer.
	ExperienceGain = 10
	// CurrencyGain is awarded for every correct answer.
	CurrencyGain = 5

	// optionCount is the number of answers presented with a question.
	optionCount = 4
)

// ErrInvalidQuestion is rendered when a submitted question id references no
// vocabulary entry.
var ErrInvalidQuestion = apierror.NewWithCode(http.StatusBadRequest, "Invalid question ID")

type (
	// A GameService generates quiz questions and applies answer outcomes to
	// the player's progression.
	GameService interface {
		// Stats returns the progression triple of the given user.
		Stats(username string) (Render, error)
		// Question returns a random translation question, with the stats of
		// the (optional) authenticated user.
		Question(username string) (Render, error)
		// Answer grades the submitted answer and, when the user is
		// authenticated and correct, applies the progression gains.
		Answer(username string, params AnswerParams) (Render, error)
		// FiftyFifty reduces a question to the correct option and one decoy.
		FiftyFifty(params FiftyFiftyParams) (Render, error)
	}

	// AnswerParams are used to grade an answer.
	AnswerParams struct {
		QuestionID     string `json:"questionId"`
		SelectedAnswer string `json:"selectedAnswer"`
		QuestionType   string `json:"questionType"`
	}

	// FiftyFiftyParams are used to halve a question's options.
	FiftyFiftyParams struct {
		QuestionID string `json:"questionId"`
	}

	gameService struct {
		db database.Client
	}
)

// NewGame returns a new GameService.
func NewGame(db database.Client) GameService {
	return &gameService{db: db}
}

func (s *gameService) Stats(username string) (Render, error) {
	user, err := s.db.FindUserByUsername(username)
	if err != nil {
		if s.db.IsNotFound(err) {
			return nil, apierror.NewWithCode(http.StatusNotFound, "User not found")
		}
		return nil, errors.Wrap(err, "could not get user")
	}

	return M{
		"username":   user.Username,
		"level":      user.Level,
		"experience": user.Experience,
		"currency":   user.Currency,
	}, nil
}

func (s *gameService) Question(username string) (Render, error) {
	userStats, err := s.stats(username)
	if err != nil {
		return nil, err
	}

	vocabularies, err := s.db.AllVocabulary()
	if err != nil {
		return nil, errors.Wrap(err, "could not get vocabulary")
	}
	if len(vocabularies) == 0 {
		return M{"question": nil, "userStats": userStats}, nil
	}

	correct := vocabularies[rand.Intn(len(vocabularies))]
	options := append(decoys(vocabularies, correct.EnglishTranslation, optionCount-1), correct.EnglishTranslation)
	rand.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})

	question := M{
		"id":            correct.ID,
		"type":          "translation",
		"question_text": fmt.Sprintf("What is the English translation of %q?", correct.TuluWord),
		"options":       options,
	}
	question["image_name"] = nullable(correct.ImageName)
	question["tulu_sentence_roman"] = nullable(correct.TuluSentenceRoman)
	question["sentence_english_translation"] = nullable(correct.SentenceEnglishTranslation)

	return M{"question": question, "userStats": userStats}, nil
}

func (s *gameService) Answer(username string, params AnswerParams) (Render, error) {
	correct, err := s.db.FindVocabulary(params.QuestionID)
	if err != nil {
		if s.db.IsNotFound(err) {
			return nil, ErrInvalidQuestion
		}
		return nil, errors.Wrap(err, "could not get vocabulary")
	}

	isCorrect := correct.EnglishTranslation == params.SelectedAnswer

	var experienceGain, currencyGain int
	if isCorrect {
		experienceGain = ExperienceGain
		currencyGain = CurrencyGain
	}

	userStats := defaultStats()
	if username != "" && isCorrect {
		// One atomic delta at the store, so two simultaneous submissions
		// both land.
		user, err := s.db.ApplyProgress(username, experienceGain, currencyGain)
		switch {
		case err == nil:
			userStats = progression(user)
		case !s.db.IsNotFound(err):
			return nil, errors.Wrap(err, "could not apply progression")
		}
	} else if username != "" {
		if stats, err := s.stats(username); err == nil {
			userStats = stats
		} else {
			return nil, err
		}
	}

	return M{
		"isCorrect":      isCorrect,
		"correctAnswer":  correct.EnglishTranslation,
		"experienceGain": experienceGain,
		"currencyGain":   currencyGain,
		"userStats":      userStats,
	}, nil
}

func (s *gameService) FiftyFifty(params FiftyFiftyParams) (Render, error) {
	correct, err := s.db.FindVocabulary(params.QuestionID)
	if err != nil {
		if s.db.IsNotFound(err) {
			return nil, ErrInvalidQuestion
		}
		return nil, errors.Wrap(err, "could not get vocabulary")
	}

	vocabularies, err := s.db.AllVocabulary()
	if err != nil {
		return nil, errors.Wrap(err, "could not get vocabulary")
	}

	options := append(decoys(vocabularies, correct.EnglishTranslation, 1), correct.EnglishTranslation)
	rand.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})

	return M{"options": options}, nil
}

// stats returns the progression of the given user, or the level 1 defaults
// when unauthenticated or unknown.
func (s *gameService) stats(username string) (M, error) {
	if username == "" {
		return defaultStats(), nil
	}

	user, err := s.db.FindUserByUsername(username)
	if err != nil {
		if s.db.IsNotFound(err) {
			return defaultStats(), nil
		}
		return nil, errors.Wrap(err, "could not get user")
	}
	return progression(user), nil
}

func defaultStats() M {
	return M{"level": 1, "experience": 0, "currency": 0}
}

func progression(user *model.User) M {
	return M{
		"level":      user.Level,
		"experience": user.Experience,
		"currency":   user.Currency,
	}
}

// decoys picks up to n distinct translations different from the correct one.
func decoys(vocabularies []*model.Vocabulary, correct string, n int) []string {
	shuffled := make([]*model.Vocabulary, len(vocabularies))
	copy(shuffled, vocabularies)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	options := make([]string, 0, n)
	seen := map[string]bool{correct: true}
	for _, vocabulary := range shuffled {
		if len(options) == n {
			break
		}
		if seen[vocabulary.EnglishTranslation] {
			continue
		}
		seen[vocabulary.EnglishTranslation] = true
		options = append(options, vocabulary.EnglishTranslation)
	}
	return options
}

// nullable mirrors the empty-string-to-null rendering of the API.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
