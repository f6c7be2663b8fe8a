package common

import "fmt"

func RedisKeyBadgeScratch(userID string) string {
	return fmt.Sprintf("badgescratch:%s", userID)
}
