package redis

import "fmt"

// Key prefix for all geochain data
const keyPrefix = "geochain"

// placesKey returns the Redis key for the gazetteer SET
func placesKey() string {
	return fmt.Sprintf("%s:places", keyPrefix)
}

// recentGamesKey returns the Redis key for the LIST of game summaries, newest at the head
func recentGamesKey() string {
	return fmt.Sprintf("%s:games:recent", keyPrefix)
}
