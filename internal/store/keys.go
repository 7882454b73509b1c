package store

// Key layout:
//
//	session:<sessionID>                  -> JSON domain.Session
//	idx:sessions:token:<tokenID>         -> sessionID
//	idx:sessions:user:<userID>:<session> -> empty
//
// Every key of a session carries the session's TTL, so Badger drops them together on expiry.
const (
	sessionPrefix        = "session:"
	sessionByTokenPrefix = "idx:sessions:token:"
	sessionByUserPrefix  = "idx:sessions:user:"
)

func sessionKey(id string) []byte {
	return []byte(sessionPrefix + id)
}

func sessionTokenKey(tokenID string) []byte {
	return []byte(sessionByTokenPrefix + tokenID)
}

func sessionUserPrefix(userID string) []byte {
	return []byte(sessionByUserPrefix + userID + ":")
}

func sessionUserKey(userID, sessionID string) []byte {
	return []byte(sessionByUserPrefix + userID + ":" + sessionID)
}
