package model

// Level thresholds. A player reaches level n+1 once its experience is greater
// than or equal to thresholds[n]. Past the last threshold the player ascends.
var thresholds = [...]int{100, 250, 500, 800, 1200}

// LevelAscension is the terminal level.
const LevelAscension = len(thresholds) + 1

// A User represents a database record.
type User struct {
	Base `msgpack:",inline" storm:"inline"`

	Username     string `msgpack:"username" storm:"unique"`
	PasswordHash string `msgpack:"password_hash,omitempty"`
	// Salt is empty for accounts created before salted hashing was introduced.
	// Such records are migrated in place on their next successful login.
	Salt string `msgpack:"salt,omitempty"`

	Level      int `msgpack:"level"`
	Experience int `msgpack:"experience"`
	Currency   int `msgpack:"currency"`
}

// NewUser returns a new user with default progression.
func NewUser() *User {
	return &User{
		Level: 1,
	}
}

// LevelFromExperience maps accumulated experience to a level.
// It is monotonic non-decreasing for all non-negative inputs.
func LevelFromExperience(experience int) int {
	for i, threshold := range thresholds {
		if experience < threshold {
			return i + 1
		}
	}
	return LevelAscension
}

// AddProgress applies experience and currency gains and recomputes the level,
// keeping the record's level/experience invariant.
func (u *User) AddProgress(experience, currency int) {
	u.Experience += experience
	u.Currency += currency
	u.Level = LevelFromExperience(u.Experience)
}

// Legacy returns true when the record still holds an unsalted password hash.
func (u *User) Legacy() bool {
	return u.Salt == ""
}
