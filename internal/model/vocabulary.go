package model

// A Vocabulary represents a database record holding one Tulu word and its
// English translation, plus the optional illustration and example sentence.
type Vocabulary struct {
	Base `msgpack:",inline" storm:"inline"`

	TuluWord                   string `json:"tulu_word"                    msgpack:"tulu_word"`
	EnglishTranslation         string `json:"english_translation"          msgpack:"english_translation"`
	ImageName                  string `json:"image_name,omitempty"         msgpack:"image_name,omitempty"`
	TuluSentenceRoman          string `json:"tulu_sentence_roman,omitempty" msgpack:"tulu_sentence_roman,omitempty"`
	SentenceEnglishTranslation string `json:"sentence_english_translation,omitempty" msgpack:"sentence_english_translation,omitempty"`
}
