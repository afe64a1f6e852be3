package redis

import (
	"encoding/json"
	"fmt"

	"github.com/gomodule/redigo/redis"
)

// notifications change often, keep the listing cache short-lived
const notificationTTL = 60 * 5

func notificationKey(userID uint) string {
	return fmt.Sprintf("notifications:%d", userID)
}

const adminNotificationKey = "notifications:admin:all"

// GetNotifications returns the cached pending-request listing for a
// user, or (nil, nil) on a miss.
func GetNotifications(userID uint, isAdmin bool) ([]byte, error) {
	conn := GetConn()
	defer conn.Close()
	key := notificationKey(userID)
	if isAdmin {
		key = adminNotificationKey
	}
	b, err := redis.Bytes(conn.Do("GET", key))
	if err == redis.ErrNil {
		return nil, nil
	}
	return b, err
}

// SetNotifications caches a pending-request listing with a short TTL.
func SetNotifications(userID uint, isAdmin bool, v any) error {
	conn := GetConn()
	defer conn.Close()
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	key := notificationKey(userID)
	if isAdmin {
		key = adminNotificationKey
	}
	_, err = conn.Do("SETEX", key, notificationTTL, b)
	return err
}

// InvalidateNotifications drops a user's cached listing along with the
// admin overview, which includes every user's pending requests.
func InvalidateNotifications(userID uint) error {
	conn := GetConn()
	defer conn.Close()
	_, err := conn.Do("DEL", notificationKey(userID), adminNotificationKey)
	return err
}
