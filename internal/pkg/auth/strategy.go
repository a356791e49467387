package auth

import "time"

// Claims is the identity carried inside an auth token.
type Claims struct {
	UserID     int64
	Role       string
	PracticeID int64
}

type Strategy interface {
	IssueToken(claims Claims) (string, error)
	ParseToken(token string) (Claims, error)
	Name() string
}

type Options struct {
	TTL time.Duration
}

func (o Options) ttl() time.Duration {
	if o.TTL <= 0 {
		return 24 * time.Hour
	}
	return o.TTL
}
