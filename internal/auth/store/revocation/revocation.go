// Package revocation records refresh-token ids that were logged out.
package revocation

import (
	"errors"
	"time"
)

const keyPrefix = "huduma:revoked:jti:"

var errInvalidTTL = errors.New("ttl must be positive")

// entry validates a revocation and returns its Redis key. A blank jti is
// reported as skip: tokens without an id cannot be revoked.
func entry(jti string, ttl time.Duration) (key string, skip bool, err error) {
	if jti == "" {
		return "", true, nil
	}
	if ttl <= 0 {
		return "", false, errInvalidTTL
	}
	return keyPrefix + jti, false, nil
}
