package redis

import "fmt"

const ns = "aerogo:v1"

func KeySession(sessionID string) string {
	return fmt.Sprintf("%s:session:%s", ns, sessionID)
}

func KeyFlights(queryHash string) string {
	return fmt.Sprintf("%s:flights:%s", ns, queryHash)
}

func KeySeatMap(flightID int64) string {
	return fmt.Sprintf("%s:flight:%d:seatmap", ns, flightID)
}

func KeyRateLimit(scope, id string) string {
	return fmt.Sprintf("%s:rl:%s:%s", ns, scope, id)
}
