package redis

import "github.com/mcoot/spellfight/internal/model"

const keyPrefix = "spellfight:"

// playerKey holds a JSON identity
func playerKey(id model.PlayerID) string {
	return keyPrefix + "player:" + string(id)
}

// accountKey holds a login as a hash; the player_id field is claimed first
func accountKey(username string) string {
	return keyPrefix + "account:" + username
}

// wordsKey is the word list set; wordsStagingKey is filled then renamed over it
const (
	wordsKey        = keyPrefix + "words"
	wordsStagingKey = keyPrefix + "words:staging"
)
